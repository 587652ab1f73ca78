package service

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/sangkips/investify-desk/internal/domain/entity"
	"github.com/sangkips/investify-desk/internal/domain/enum"
	"github.com/sangkips/investify-desk/internal/domain/repository"
	"github.com/sangkips/investify-desk/pkg/apperror"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// CartState is a point in time copy of what the controller holds
type CartState struct {
	Flow           string                  `json:"flow"`
	Cart           *entity.Cart            `json:"cart"`
	Summary        entity.CartSummary      `json:"summary"`
	CounterpartyID *uuid.UUID              `json:"counterparty_id"`
	Counterparties []entity.Contact        `json:"counterparties"`
	Products       []entity.CatalogProduct `json:"products"`
	LastCompleted  *entity.Cart            `json:"last_completed,omitempty"`
	Loading        bool                    `json:"loading"`
	Error          string                  `json:"error,omitempty"`
}

// CartController owns the cart being built in one flow. Every mutation goes
// through the cart repository and the returned cart replaces local state whole.
type CartController struct {
	policy   CartPolicy
	carts    repository.CartRepository
	catalog  repository.CatalogRepository
	contacts repository.ContactRepository
	accounts repository.BillAccountRepository
	logger   *zap.Logger

	// opMu serializes operations so a cart is never created twice
	opMu sync.Mutex

	mu             sync.RWMutex
	cart           *entity.Cart
	counterpartyID *uuid.UUID
	counterparties []entity.Contact
	products       []entity.CatalogProduct
	knownAccounts  map[uuid.UUID]entity.BillAccount
	lastCompleted  *entity.Cart
	loading        bool
	errMsg         string

	listenerMu sync.Mutex
	listeners  map[int]func(CartState)
	nextID     int
}

// NewCartController creates a controller for one flow. accounts may be nil
// when the policy does not record against bill accounts.
func NewCartController(
	policy CartPolicy,
	carts repository.CartRepository,
	catalog repository.CatalogRepository,
	contacts repository.ContactRepository,
	accounts repository.BillAccountRepository,
	logger *zap.Logger,
) *CartController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CartController{
		policy:        policy,
		carts:         carts,
		catalog:       catalog,
		contacts:      contacts,
		accounts:      accounts,
		logger:        logger.With(zap.String("flow", policy.Flow())),
		knownAccounts: make(map[uuid.UUID]entity.BillAccount),
		listeners:     make(map[int]func(CartState)),
	}
}

// Policy returns the flow rules the controller was built with
func (c *CartController) Policy() CartPolicy {
	return c.policy
}

// State returns a snapshot of the controller
func (c *CartController) State() CartState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stateLocked()
}

func (c *CartController) stateLocked() CartState {
	return CartState{
		Flow:           c.policy.Flow(),
		Cart:           c.cart,
		Summary:        c.cart.Summary(),
		CounterpartyID: c.counterpartyID,
		Counterparties: append([]entity.Contact(nil), c.counterparties...),
		Products:       append([]entity.CatalogProduct(nil), c.products...),
		LastCompleted:  c.lastCompleted,
		Loading:        c.loading,
		Error:          c.errMsg,
	}
}

// Subscribe registers fn to receive a snapshot after every state change.
// The returned func removes the listener.
func (c *CartController) Subscribe(fn func(CartState)) func() {
	c.listenerMu.Lock()
	defer c.listenerMu.Unlock()

	id := c.nextID
	c.nextID++
	c.listeners[id] = fn

	return func() {
		c.listenerMu.Lock()
		defer c.listenerMu.Unlock()
		delete(c.listeners, id)
	}
}

func (c *CartController) notify() {
	state := c.State()

	c.listenerMu.Lock()
	fns := make([]func(CartState), 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	c.listenerMu.Unlock()

	for _, fn := range fns {
		fn(state)
	}
}

// begin marks an operation as in flight
func (c *CartController) begin() {
	c.mu.Lock()
	c.loading = true
	c.mu.Unlock()
	c.notify()
}

// finish ends an operation. A non-nil cart replaces local state and clears
// the error slot, a non-nil err fills it and leaves everything else as is.
func (c *CartController) finish(op string, cart *entity.Cart, err error) error {
	c.mu.Lock()
	c.loading = false
	if err != nil {
		c.errMsg = apperror.Message(err)
	} else {
		if cart != nil {
			c.cart = cart
		}
		c.errMsg = ""
	}
	c.mu.Unlock()

	if err != nil {
		c.logger.Warn("cart operation failed", zap.String("op", op), zap.Error(err))
	}
	c.notify()
	return err
}

// fail records an error raised before any network call
func (c *CartController) fail(op string, err error) error {
	c.mu.Lock()
	c.errMsg = apperror.Message(err)
	c.mu.Unlock()

	c.logger.Warn("cart operation rejected", zap.String("op", op), zap.Error(err))
	c.notify()
	return err
}

// LoadCatalogAndCounterparties fetches the counterparty list and the product
// catalog together. Nothing is applied unless both succeed.
func (c *CartController) LoadCatalogAndCounterparties(ctx context.Context) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	c.begin()

	var (
		counterparties []entity.Contact
		products       []entity.CatalogProduct
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		counterparties, err = c.contacts.ListByKind(gctx, c.policy.CounterpartyKind())
		return err
	})
	g.Go(func() error {
		var err error
		products, err = c.catalog.ListProducts(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return c.finish("load", nil, err)
	}

	c.mu.Lock()
	c.counterparties = counterparties
	c.products = products
	c.mu.Unlock()

	c.logger.Debug("catalog loaded",
		zap.Int("products", len(products)),
		zap.Int("counterparties", len(counterparties)),
	)
	return c.finish("load", nil, nil)
}

// SelectCounterparty sets the counterparty. Without a cart the selection is
// only local; with one the cart is updated on the server. A failed update keeps
// the new selection so the user can retry.
func (c *CartController) SelectCounterparty(ctx context.Context, counterpartyID *uuid.UUID) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	c.mu.Lock()
	c.counterpartyID = counterpartyID
	cart := c.cart
	c.mu.Unlock()

	if cart == nil {
		c.notify()
		return nil
	}

	c.begin()
	updated, err := c.carts.Update(ctx, cart.ID, repository.UpdateCartParams{CounterpartyID: counterpartyID})
	return c.finish("select_counterparty", updated, err)
}

// EnsureCart returns the id of the active cart, creating it on first use
func (c *CartController) EnsureCart(ctx context.Context) (uuid.UUID, error) {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	c.begin()
	id, err := c.ensureCartLocked(ctx)
	if err := c.finish("ensure_cart", nil, err); err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

// ensureCartLocked must be called with opMu held
func (c *CartController) ensureCartLocked(ctx context.Context) (uuid.UUID, error) {
	c.mu.RLock()
	cart, counterpartyID := c.cart, c.counterpartyID
	c.mu.RUnlock()

	if cart != nil {
		return cart.ID, nil
	}

	created, err := c.carts.Create(ctx, repository.CreateCartParams{
		CounterpartyID: counterpartyID,
		PaymentStatus:  enum.DefaultPaymentStatus,
	})
	if err != nil {
		return uuid.Nil, err
	}

	c.mu.Lock()
	c.cart = created
	c.mu.Unlock()

	c.logger.Info("cart created", zap.String("cart_id", created.ID.String()))
	return created.ID, nil
}

// Product returns the catalog entry for id from the last loaded catalog
func (c *CartController) Product(productID uuid.UUID) (entity.CatalogProduct, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, p := range c.products {
		if p.ID == productID {
			return p, true
		}
	}
	return entity.CatalogProduct{}, false
}

// Item returns the line item with id from the active cart
func (c *CartController) Item(itemID uuid.UUID) (entity.LineItem, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cart.FindItem(itemID)
}

// FilterProducts searches the loaded catalog by name or SKU
func (c *CartController) FilterProducts(term string) []entity.CatalogProduct {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return entity.FilterCatalog(append([]entity.CatalogProduct(nil), c.products...), term)
}

// ValidateAdd runs the checks AddItem performs before any network call
func (c *CartController) ValidateAdd(productID uuid.UUID, quantity int) error {
	if err := validatePositiveQuantity(quantity); err != nil {
		return err
	}
	var stock *int
	if product, ok := c.Product(productID); ok {
		stock = product.StockAvailable
	}
	return c.policy.ValidateQuantity(quantity, stock)
}

// ValidateUpdate runs the checks UpdateItemQuantity performs before any network call
func (c *CartController) ValidateUpdate(item entity.LineItem, quantity int) error {
	if err := validatePositiveQuantity(quantity); err != nil {
		return err
	}
	return c.policy.ValidateQuantity(quantity, item.StockAvailable)
}

// AddItem adds quantity of a product, creating the cart if needed.
// Stock is checked against the last fetched catalog, the server has the final word.
func (c *CartController) AddItem(ctx context.Context, productID uuid.UUID, quantity int) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	if err := c.ValidateAdd(productID, quantity); err != nil {
		return c.fail("add_item", err)
	}

	c.begin()
	cartID, err := c.ensureCartLocked(ctx)
	if err != nil {
		return c.finish("add_item", nil, err)
	}

	updated, err := c.carts.AddItem(ctx, cartID, repository.AddItemParams{ProductID: productID, Quantity: quantity})
	return c.finish("add_item", updated, err)
}

// UpdateItemQuantity sets the quantity of a line item in the active cart
func (c *CartController) UpdateItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	c.mu.RLock()
	cart := c.cart
	c.mu.RUnlock()
	if cart == nil {
		return c.fail("update_item", apperror.ErrNoCart)
	}

	item, ok := cart.FindItem(itemID)
	if !ok {
		return c.fail("update_item", apperror.NewNotFoundError("Cart item"))
	}
	if err := c.ValidateUpdate(item, quantity); err != nil {
		return c.fail("update_item", err)
	}

	c.begin()
	updated, err := c.carts.UpdateItem(ctx, cart.ID, itemID, repository.UpdateItemParams{Quantity: quantity})
	return c.finish("update_item", updated, err)
}

// RemoveItem removes a line item. Asking the user first is up to the caller.
func (c *CartController) RemoveItem(ctx context.Context, itemID uuid.UUID) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	c.mu.RLock()
	cart := c.cart
	c.mu.RUnlock()
	if cart == nil {
		return c.fail("remove_item", apperror.ErrNoCart)
	}

	c.begin()
	updated, err := c.carts.RemoveItem(ctx, cart.ID, itemID)
	return c.finish("remove_item", updated, err)
}

// ReloadCart fetches the active cart again and replaces local state
func (c *CartController) ReloadCart(ctx context.Context) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	c.mu.RLock()
	cart := c.cart
	c.mu.RUnlock()
	if cart == nil {
		return c.fail("reload", apperror.ErrNoCart)
	}

	c.begin()
	fresh, err := c.carts.Get(ctx, cart.ID)
	return c.finish("reload", fresh, err)
}

// ValidateCheckout reports whether the cart can enter checkout
func (c *CartController) ValidateCheckout() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.policy.ValidateCheckout(c.cart, c.counterpartyID)
}

// GetEligibleBillAccounts lists the accounts a payment method can be recorded against
func (c *CartController) GetEligibleBillAccounts(ctx context.Context, method enum.PaymentMethod) ([]entity.BillAccount, error) {
	if !c.policy.RequiresBillAccount() || c.accounts == nil {
		return nil, apperror.NewPreconditionError(c.policy.Flow() + " does not record against bill accounts")
	}
	if !method.IsValid() {
		return nil, apperror.NewValidationErrorf("payment_method", "unknown payment method %q", method)
	}

	accounts, err := c.accounts.ListByType(ctx, c.policy.AccountTypeFor(method))
	if err != nil {
		c.logger.Warn("bill accounts fetch failed", zap.String("payment_method", method.String()), zap.Error(err))
		return nil, err
	}

	c.mu.Lock()
	for _, account := range accounts {
		c.knownAccounts[account.ID] = account
	}
	c.mu.Unlock()

	return accounts, nil
}

// Complete finalizes the active cart. On success the cart and the
// counterparty are cleared so the next addition starts a new cart.
func (c *CartController) Complete(ctx context.Context, req CompletionRequest) (*entity.Cart, error) {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	c.mu.RLock()
	cart, counterpartyID := c.cart, c.counterpartyID
	var account *entity.BillAccount
	if req.BillAccountID != nil {
		if known, ok := c.knownAccounts[*req.BillAccountID]; ok {
			account = &known
		}
	}
	c.mu.RUnlock()

	if cart == nil {
		return nil, c.fail("complete", apperror.ErrNoCart)
	}
	if err := c.policy.ValidateCompletion(cart, counterpartyID, req, account); err != nil {
		return nil, c.fail("complete", err)
	}

	c.begin()
	completed, err := c.carts.Complete(ctx, cart.ID, c.policy.CompletionPayload(req))
	if err != nil {
		return nil, c.finish("complete", nil, err)
	}

	c.mu.Lock()
	c.lastCompleted = completed
	c.cart = nil
	c.counterpartyID = nil
	c.mu.Unlock()

	c.logger.Info("cart completed",
		zap.String("cart_id", completed.ID.String()),
		zap.String("total", completed.Total.String()),
	)
	if err := c.finish("complete", nil, nil); err != nil {
		return nil, err
	}
	return completed, nil
}

// CompleteSale completes a sale paid with method into the given account.
// The account must come from GetEligibleBillAccounts on this controller;
// an id it has not returned fails as a precondition before any request.
func (c *CartController) CompleteSale(ctx context.Context, method enum.PaymentMethod, billAccountID *uuid.UUID) (*entity.Cart, error) {
	return c.Complete(ctx, CompletionRequest{PaymentMethod: method, BillAccountID: billAccountID})
}

// CompletePurchase completes a purchase from the selected supplier
func (c *CartController) CompletePurchase(ctx context.Context) (*entity.Cart, error) {
	return c.Complete(ctx, CompletionRequest{})
}

// Reset drops the local cart reference and counterparty. The server side
// cart is left alone.
func (c *CartController) Reset() {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	c.mu.Lock()
	c.cart = nil
	c.counterpartyID = nil
	c.errMsg = ""
	c.mu.Unlock()

	c.notify()
}
