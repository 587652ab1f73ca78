package service

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/sangkips/investify-desk/internal/domain/entity"
	"github.com/sangkips/investify-desk/internal/domain/enum"
	"github.com/sangkips/investify-desk/internal/domain/repository"
	"github.com/sangkips/investify-desk/pkg/apperror"
	"github.com/shopspring/decimal"
)

// memoryCarts plays the server side of the cart resource: it owns the
// totals and hands back a fresh copy of the cart on every call
type memoryCarts struct {
	mu           sync.Mutex
	products     map[uuid.UUID]entity.CatalogProduct
	carts        map[uuid.UUID]*entity.Cart
	calls        map[string]int
	lastComplete *repository.CompleteCartParams

	// optional overrides
	createFn   func(params repository.CreateCartParams) (*entity.Cart, error)
	addItemFn  func(cartID uuid.UUID, params repository.AddItemParams) (*entity.Cart, error)
	completeFn func(cartID uuid.UUID, params *repository.CompleteCartParams) (*entity.Cart, error)
}

func newMemoryCarts(products ...entity.CatalogProduct) *memoryCarts {
	m := &memoryCarts{
		products: make(map[uuid.UUID]entity.CatalogProduct),
		carts:    make(map[uuid.UUID]*entity.Cart),
		calls:    make(map[string]int),
	}
	for _, p := range products {
		m.products[p.ID] = p
	}
	return m
}

func (m *memoryCarts) count(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[op]
}

func (m *memoryCarts) total() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		n += c
	}
	return n
}

func (m *memoryCarts) snapshot(cart *entity.Cart) *entity.Cart {
	subtotal := decimal.Zero
	for i := range cart.Items {
		cart.Items[i].Total = cart.Items[i].Price.Mul(decimal.NewFromInt(int64(cart.Items[i].Quantity)))
		subtotal = subtotal.Add(cart.Items[i].Total)
	}
	cart.Subtotal = subtotal
	cart.Tax = subtotal.Mul(decimal.NewFromFloat(0.16)).Round(2)
	cart.Total = cart.Subtotal.Add(cart.Tax).Sub(cart.Discount)

	out := *cart
	out.Items = append([]entity.LineItem(nil), cart.Items...)
	return &out
}

func (m *memoryCarts) find(cartID uuid.UUID) (*entity.Cart, error) {
	cart, ok := m.carts[cartID]
	if !ok {
		return nil, apperror.NewAPIError(404, "Cart not found")
	}
	return cart, nil
}

func (m *memoryCarts) Create(_ context.Context, params repository.CreateCartParams) (*entity.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls["create"]++
	if m.createFn != nil {
		return m.createFn(params)
	}
	cart := &entity.Cart{
		ID:            uuid.New(),
		ContactID:     params.CounterpartyID,
		Status:        enum.CartStatusPending,
		PaymentStatus: params.PaymentStatus,
		Items:         []entity.LineItem{},
	}
	m.carts[cart.ID] = cart
	return m.snapshot(cart), nil
}

func (m *memoryCarts) Get(_ context.Context, cartID uuid.UUID) (*entity.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls["get"]++
	cart, err := m.find(cartID)
	if err != nil {
		return nil, err
	}
	return m.snapshot(cart), nil
}

func (m *memoryCarts) Update(_ context.Context, cartID uuid.UUID, params repository.UpdateCartParams) (*entity.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls["update"]++
	cart, err := m.find(cartID)
	if err != nil {
		return nil, err
	}
	cart.ContactID = params.CounterpartyID
	return m.snapshot(cart), nil
}

func (m *memoryCarts) AddItem(_ context.Context, cartID uuid.UUID, params repository.AddItemParams) (*entity.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls["add_item"]++
	if m.addItemFn != nil {
		return m.addItemFn(cartID, params)
	}
	cart, err := m.find(cartID)
	if err != nil {
		return nil, err
	}
	product := m.products[params.ProductID]
	for i := range cart.Items {
		if cart.Items[i].ProductID == params.ProductID {
			cart.Items[i].Quantity += params.Quantity
			return m.snapshot(cart), nil
		}
	}
	cart.Items = append(cart.Items, entity.LineItem{
		ID:             uuid.New(),
		OrderID:        cart.ID,
		ProductID:      product.ID,
		ProductName:    product.Name,
		Quantity:       params.Quantity,
		Price:          product.Price,
		StockAvailable: product.StockAvailable,
	})
	return m.snapshot(cart), nil
}

func (m *memoryCarts) UpdateItem(_ context.Context, cartID, itemID uuid.UUID, params repository.UpdateItemParams) (*entity.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls["update_item"]++
	cart, err := m.find(cartID)
	if err != nil {
		return nil, err
	}
	for i := range cart.Items {
		if cart.Items[i].ID == itemID {
			cart.Items[i].Quantity = params.Quantity
			return m.snapshot(cart), nil
		}
	}
	return nil, apperror.NewAPIError(404, "Item not found")
}

func (m *memoryCarts) RemoveItem(_ context.Context, cartID, itemID uuid.UUID) (*entity.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls["remove_item"]++
	cart, err := m.find(cartID)
	if err != nil {
		return nil, err
	}
	items := cart.Items[:0]
	for _, item := range cart.Items {
		if item.ID != itemID {
			items = append(items, item)
		}
	}
	cart.Items = items
	return m.snapshot(cart), nil
}

func (m *memoryCarts) Complete(_ context.Context, cartID uuid.UUID, params *repository.CompleteCartParams) (*entity.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls["complete"]++
	m.lastComplete = params
	if m.completeFn != nil {
		return m.completeFn(cartID, params)
	}
	cart, err := m.find(cartID)
	if err != nil {
		return nil, err
	}
	cart.Status = enum.CartStatusCompleted
	if params != nil {
		cart.PaymentMethod = params.PaymentMethod.String()
	}
	return m.snapshot(cart), nil
}

type fakeCatalog struct {
	listFn func(ctx context.Context) ([]entity.CatalogProduct, error)
}

func (f *fakeCatalog) ListProducts(ctx context.Context) ([]entity.CatalogProduct, error) {
	return f.listFn(ctx)
}

type fakeContacts struct {
	listFn func(ctx context.Context, kind enum.CounterpartyKind) ([]entity.Contact, error)
}

func (f *fakeContacts) ListByKind(ctx context.Context, kind enum.CounterpartyKind) ([]entity.Contact, error) {
	return f.listFn(ctx, kind)
}

type fakeAccounts struct {
	mu     sync.Mutex
	types  []enum.BillAccountType
	listFn func(ctx context.Context, accountType enum.BillAccountType) ([]entity.BillAccount, error)
}

func (f *fakeAccounts) ListByType(ctx context.Context, accountType enum.BillAccountType) ([]entity.BillAccount, error) {
	f.mu.Lock()
	f.types = append(f.types, accountType)
	f.mu.Unlock()
	return f.listFn(ctx, accountType)
}

func (f *fakeAccounts) queried() []enum.BillAccountType {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]enum.BillAccountType(nil), f.types...)
}

// accountsByType serves a fixed set of accounts filtered by type
func accountsByType(accounts ...entity.BillAccount) *fakeAccounts {
	return &fakeAccounts{
		listFn: func(_ context.Context, accountType enum.BillAccountType) ([]entity.BillAccount, error) {
			var out []entity.BillAccount
			for _, a := range accounts {
				if a.Type == accountType {
					out = append(out, a)
				}
			}
			return out, nil
		},
	}
}

func intPtr(n int) *int {
	return &n
}

func product(name string, price string, stock *int) entity.CatalogProduct {
	return entity.CatalogProduct{
		ID:             uuid.New(),
		Name:           name,
		SKU:            "SKU-" + name,
		Price:          decimal.RequireFromString(price),
		StockAvailable: stock,
	}
}

func staticCatalog(products ...entity.CatalogProduct) *fakeCatalog {
	return &fakeCatalog{listFn: func(context.Context) ([]entity.CatalogProduct, error) {
		return products, nil
	}}
}

func staticContacts(contacts ...entity.Contact) *fakeContacts {
	return &fakeContacts{listFn: func(context.Context, enum.CounterpartyKind) ([]entity.Contact, error) {
		return contacts, nil
	}}
}

type testDesk struct {
	carts      *memoryCarts
	accounts   *fakeAccounts
	controller *CartController
	flow       *CheckoutFlow
	products   []entity.CatalogProduct
}

// newPOSDesk builds a loaded point of sale controller over an in-memory server
func newPOSDesk(products ...entity.CatalogProduct) *testDesk {
	carts := newMemoryCarts(products...)
	accounts := accountsByType(
		entity.BillAccount{ID: uuid.New(), Name: "Till", Type: enum.BillAccountTypeCash},
		entity.BillAccount{ID: uuid.New(), Name: "Bank", Type: enum.BillAccountTypeDebt},
		entity.BillAccount{ID: uuid.New(), Name: "Card terminal", Type: enum.BillAccountTypeDebt},
	)
	controller := NewCartController(NewPointOfSalePolicy(), carts, staticCatalog(products...), staticContacts(), accounts, nil)
	if err := controller.LoadCatalogAndCounterparties(context.Background()); err != nil {
		panic(err)
	}
	return &testDesk{
		carts:      carts,
		accounts:   accounts,
		controller: controller,
		flow:       NewCheckoutFlow(controller, nil),
		products:   products,
	}
}

// newPurchaseDesk builds a loaded purchasing controller over an in-memory server
func newPurchaseDesk(products ...entity.CatalogProduct) *testDesk {
	carts := newMemoryCarts(products...)
	controller := NewCartController(NewPurchasingPolicy(), carts, staticCatalog(products...), staticContacts(), nil, nil)
	if err := controller.LoadCatalogAndCounterparties(context.Background()); err != nil {
		panic(err)
	}
	return &testDesk{
		carts:      carts,
		controller: controller,
		flow:       NewCheckoutFlow(controller, nil),
		products:   products,
	}
}
