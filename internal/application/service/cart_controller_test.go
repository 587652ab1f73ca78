package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/investify-desk/internal/domain/entity"
	"github.com/sangkips/investify-desk/internal/domain/enum"
	"github.com/sangkips/investify-desk/internal/domain/repository"
	"github.com/sangkips/investify-desk/pkg/apperror"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartController_LoadAppliesNothingOnFailure(t *testing.T) {
	carts := newMemoryCarts()
	contacts := &fakeContacts{listFn: func(_ context.Context, kind enum.CounterpartyKind) ([]entity.Contact, error) {
		assert.Equal(t, enum.CounterpartySupplier, kind)
		return []entity.Contact{{ID: uuid.New(), Name: "Acme"}}, nil
	}}
	catalog := &fakeCatalog{listFn: func(context.Context) ([]entity.CatalogProduct, error) {
		return nil, apperror.NewAPIError(500, "HTTP Error: 500")
	}}
	c := NewCartController(NewPurchasingPolicy(), carts, catalog, contacts, nil, nil)

	err := c.LoadCatalogAndCounterparties(context.Background())

	require.Error(t, err)
	state := c.State()
	assert.Empty(t, state.Counterparties)
	assert.Empty(t, state.Products)
	assert.Equal(t, "HTTP Error: 500", state.Error)
	assert.False(t, state.Loading)
}

func TestCartController_LoadFillsState(t *testing.T) {
	d := newPOSDesk(product("Widget", "2.50", intPtr(5)), product("Gadget", "10", intPtr(1)))

	state := d.controller.State()
	assert.Len(t, state.Products, 2)
	assert.Empty(t, state.Error)
	assert.Nil(t, state.Cart)
	assert.True(t, state.Summary.Total.IsZero())
}

func TestCartController_InvalidQuantityMakesNoCall(t *testing.T) {
	widget := product("Widget", "2.50", intPtr(5))
	d := newPOSDesk(widget)
	ctx := context.Background()

	for _, q := range []int{0, -3} {
		err := d.controller.AddItem(ctx, widget.ID, q)
		require.Error(t, err)
		assert.Equal(t, "quantity must be an integer greater than 0", err.Error())
	}
	assert.Zero(t, d.carts.total())
	assert.Equal(t, "quantity must be an integer greater than 0", d.controller.State().Error)
}

func TestCartController_InsufficientStockMakesNoCall(t *testing.T) {
	widget := product("Widget", "2.50", intPtr(5))
	d := newPOSDesk(widget)

	err := d.controller.AddItem(context.Background(), widget.ID, 6)

	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
	assert.Equal(t, "insufficient stock, available: 5", err.Error())
	assert.Zero(t, d.carts.total())
}

func TestCartController_PurchasingHasNoStockBound(t *testing.T) {
	bolt := product("Bolt", "0.10", nil)
	d := newPurchaseDesk(bolt)

	require.NoError(t, d.controller.AddItem(context.Background(), bolt.ID, 500))

	state := d.controller.State()
	require.Len(t, state.Cart.Items, 1)
	assert.Equal(t, 500, state.Cart.Items[0].Quantity)
}

func TestCartController_EnsureCartCreatesOnce(t *testing.T) {
	d := newPOSDesk()
	ctx := context.Background()

	first, err := d.controller.EnsureCart(ctx)
	require.NoError(t, err)
	second, err := d.controller.EnsureCart(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, d.carts.count("create"))
}

func TestCartController_ConcurrentAddsShareOneCart(t *testing.T) {
	widget := product("Widget", "1", intPtr(100))
	d := newPOSDesk(widget)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, d.controller.AddItem(context.Background(), widget.ID, 1))
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, d.carts.count("create"))
	assert.Equal(t, 8, d.controller.State().Cart.Items[0].Quantity)
}

func TestCartController_CartIsVerbatimServerResponse(t *testing.T) {
	widget := product("Widget", "2.50", intPtr(5))
	d := newPOSDesk(widget)
	served := &entity.Cart{
		ID:       uuid.New(),
		Items:    []entity.LineItem{{ID: uuid.New(), ProductID: widget.ID, Quantity: 3, Price: widget.Price}},
		Subtotal: decimal.RequireFromString("7.50"),
		Tax:      decimal.RequireFromString("1.23"),
		Discount: decimal.RequireFromString("0.50"),
		// deliberately not subtotal + tax - discount
		Total: decimal.RequireFromString("99.99"),
	}
	d.carts.addItemFn = func(uuid.UUID, repository.AddItemParams) (*entity.Cart, error) {
		return served, nil
	}

	require.NoError(t, d.controller.AddItem(context.Background(), widget.ID, 3))

	state := d.controller.State()
	assert.Same(t, served, state.Cart)
	assert.Equal(t, "99.99", state.Summary.Total.String())
	assert.Equal(t, "1.23", state.Summary.Tax.String())
}

func TestCartController_FailedMutationKeepsPriorCart(t *testing.T) {
	widget := product("Widget", "2.50", intPtr(5))
	d := newPOSDesk(widget)
	ctx := context.Background()
	require.NoError(t, d.controller.AddItem(ctx, widget.ID, 2))
	before := d.controller.State().Cart

	d.carts.addItemFn = func(uuid.UUID, repository.AddItemParams) (*entity.Cart, error) {
		return nil, apperror.NewAPIError(400, "Insufficient stock for Widget")
	}
	err := d.controller.AddItem(ctx, widget.ID, 1)

	require.Error(t, err)
	state := d.controller.State()
	assert.Same(t, before, state.Cart)
	assert.Equal(t, "Insufficient stock for Widget", state.Error)

	// next success clears the error
	d.carts.addItemFn = nil
	require.NoError(t, d.controller.AddItem(ctx, widget.ID, 1))
	assert.Empty(t, d.controller.State().Error)
}

func TestCartController_UpdateBoundsAgainstItemSnapshot(t *testing.T) {
	widget := product("Widget", "2.50", intPtr(5))
	d := newPOSDesk(widget)
	ctx := context.Background()
	require.NoError(t, d.controller.AddItem(ctx, widget.ID, 3))
	item := d.controller.State().Cart.Items[0]
	calls := d.carts.total()

	err := d.controller.UpdateItemQuantity(ctx, item.ID, 6)
	require.Error(t, err)
	assert.Equal(t, "insufficient stock, available: 5", err.Error())
	assert.Equal(t, calls, d.carts.total())

	require.NoError(t, d.controller.UpdateItemQuantity(ctx, item.ID, 5))
	assert.Equal(t, 5, d.controller.State().Cart.Items[0].Quantity)
}

func TestCartController_MutationsWithoutCart(t *testing.T) {
	d := newPOSDesk()
	ctx := context.Background()

	err := d.controller.UpdateItemQuantity(ctx, uuid.New(), 1)
	assert.ErrorIs(t, err, apperror.ErrNoCart)
	err = d.controller.RemoveItem(ctx, uuid.New())
	assert.ErrorIs(t, err, apperror.ErrNoCart)
	err = d.controller.ReloadCart(ctx)
	assert.ErrorIs(t, err, apperror.ErrNoCart)
	_, err = d.controller.CompletePurchase(ctx)
	assert.ErrorIs(t, err, apperror.ErrNoCart)

	assert.Zero(t, d.carts.total())
}

func TestCartController_SelectCounterparty(t *testing.T) {
	widget := product("Widget", "1", intPtr(5))
	d := newPOSDesk(widget)
	ctx := context.Background()
	customer := uuid.New()

	// no cart yet: local only
	require.NoError(t, d.controller.SelectCounterparty(ctx, &customer))
	assert.Equal(t, &customer, d.controller.State().CounterpartyID)
	assert.Zero(t, d.carts.total())

	// the cart is created with the selection
	require.NoError(t, d.controller.AddItem(ctx, widget.ID, 1))
	assert.Equal(t, customer, *d.controller.State().Cart.ContactID)

	// with a cart: server update
	require.NoError(t, d.controller.SelectCounterparty(ctx, nil))
	assert.Equal(t, 1, d.carts.count("update"))
	assert.Nil(t, d.controller.State().Cart.ContactID)
}

func TestCartController_SelectCounterpartyKeepsSelectionOnFailure(t *testing.T) {
	widget := product("Widget", "1", intPtr(5))
	d := newPOSDesk(widget)
	ctx := context.Background()
	require.NoError(t, d.controller.AddItem(ctx, widget.ID, 1))
	cartID := d.controller.State().Cart.ID

	d.carts.mu.Lock()
	delete(d.carts.carts, cartID)
	d.carts.mu.Unlock()

	customer := uuid.New()
	err := d.controller.SelectCounterparty(ctx, &customer)

	require.Error(t, err)
	state := d.controller.State()
	assert.Equal(t, &customer, state.CounterpartyID)
	assert.Equal(t, "Cart not found", state.Error)
	assert.Equal(t, cartID, state.Cart.ID)
}

func TestCartController_CompleteSaleFailsFast(t *testing.T) {
	widget := product("Widget", "1", intPtr(5))
	ctx := context.Background()

	t.Run("empty cart", func(t *testing.T) {
		d := newPOSDesk(widget)
		_, err := d.controller.EnsureCart(ctx)
		require.NoError(t, err)
		calls := d.carts.total()

		_, err = d.controller.CompleteSale(ctx, enum.PaymentMethodCash, nil)
		assert.True(t, apperror.IsKind(err, apperror.KindPrecondition))
		assert.Equal(t, calls, d.carts.total())
	})

	t.Run("zero total", func(t *testing.T) {
		d := newPOSDesk(widget)
		d.carts.addItemFn = func(cartID uuid.UUID, _ repository.AddItemParams) (*entity.Cart, error) {
			return &entity.Cart{ID: cartID, Items: []entity.LineItem{{ID: uuid.New(), Quantity: 1}}}, nil
		}
		require.NoError(t, d.controller.AddItem(ctx, widget.ID, 1))
		calls := d.carts.total()

		_, err := d.controller.CompleteSale(ctx, enum.PaymentMethodCash, nil)
		assert.Equal(t, "sale total must be greater than 0", apperror.Message(err))
		assert.Equal(t, calls, d.carts.total())
	})

	t.Run("no account", func(t *testing.T) {
		d := newPOSDesk(widget)
		require.NoError(t, d.controller.AddItem(ctx, widget.ID, 1))
		calls := d.carts.total()

		_, err := d.controller.CompleteSale(ctx, enum.PaymentMethodCash, nil)
		assert.Equal(t, "select a bill account to record the transaction", apperror.Message(err))
		assert.Equal(t, calls, d.carts.total())
	})

	t.Run("account of the wrong type", func(t *testing.T) {
		d := newPOSDesk(widget)
		require.NoError(t, d.controller.AddItem(ctx, widget.ID, 1))
		cashAccounts, err := d.controller.GetEligibleBillAccounts(ctx, enum.PaymentMethodCash)
		require.NoError(t, err)
		calls := d.carts.total()

		_, err = d.controller.CompleteSale(ctx, enum.PaymentMethodCard, &cashAccounts[0].ID)
		assert.True(t, apperror.IsKind(err, apperror.KindPrecondition))
		assert.Equal(t, calls, d.carts.total())
	})

	t.Run("account not fetched through the controller", func(t *testing.T) {
		d := newPOSDesk(widget)
		require.NoError(t, d.controller.AddItem(ctx, widget.ID, 1))
		till, err := d.accounts.listFn(ctx, enum.BillAccountTypeCash)
		require.NoError(t, err)
		require.Len(t, till, 1)
		calls := d.carts.total()

		_, err = d.controller.CompleteSale(ctx, enum.PaymentMethodCash, &till[0].ID)
		assert.True(t, apperror.IsKind(err, apperror.KindPrecondition))
		assert.Equal(t, calls, d.carts.total())
		assert.Nil(t, d.carts.lastComplete)

		_, err = d.controller.GetEligibleBillAccounts(ctx, enum.PaymentMethodCash)
		require.NoError(t, err)
		completed, err := d.controller.CompleteSale(ctx, enum.PaymentMethodCash, &till[0].ID)
		require.NoError(t, err)
		assert.Equal(t, enum.CartStatusCompleted, completed.Status)
	})
}

func TestCartController_CompleteSale(t *testing.T) {
	widget := product("Widget", "4", intPtr(5))
	d := newPOSDesk(widget)
	ctx := context.Background()
	customer := uuid.New()
	require.NoError(t, d.controller.SelectCounterparty(ctx, &customer))
	require.NoError(t, d.controller.AddItem(ctx, widget.ID, 2))
	accounts, err := d.controller.GetEligibleBillAccounts(ctx, enum.PaymentMethodTransfer)
	require.NoError(t, err)
	require.Len(t, accounts, 2)

	completed, err := d.controller.CompleteSale(ctx, enum.PaymentMethodTransfer, &accounts[1].ID)

	require.NoError(t, err)
	assert.Equal(t, enum.CartStatusCompleted, completed.Status)
	require.NotNil(t, d.carts.lastComplete)
	assert.Equal(t, enum.PaymentMethodTransfer, d.carts.lastComplete.PaymentMethod)
	assert.Equal(t, accounts[1].ID, *d.carts.lastComplete.BillAccountID)

	state := d.controller.State()
	assert.Nil(t, state.Cart)
	assert.Nil(t, state.CounterpartyID)
	assert.Same(t, completed, state.LastCompleted)

	// the next addition starts a fresh cart
	require.NoError(t, d.controller.AddItem(ctx, widget.ID, 1))
	assert.Equal(t, 2, d.carts.count("create"))
}

func TestCartController_CompletePurchaseFailsFast(t *testing.T) {
	bolt := product("Bolt", "0.10", nil)
	ctx := context.Background()

	t.Run("no supplier", func(t *testing.T) {
		d := newPurchaseDesk(bolt)
		require.NoError(t, d.controller.AddItem(ctx, bolt.ID, 1))
		calls := d.carts.total()

		_, err := d.controller.CompletePurchase(ctx)
		assert.Equal(t, "select a supplier before completing the purchase", apperror.Message(err))
		assert.Equal(t, calls, d.carts.total())
	})

	t.Run("no items", func(t *testing.T) {
		d := newPurchaseDesk(bolt)
		supplier := uuid.New()
		require.NoError(t, d.controller.SelectCounterparty(ctx, &supplier))
		_, err := d.controller.EnsureCart(ctx)
		require.NoError(t, err)
		calls := d.carts.total()

		_, err = d.controller.CompletePurchase(ctx)
		assert.Equal(t, "add products before completing the purchase", apperror.Message(err))
		assert.Equal(t, calls, d.carts.total())
	})
}

func TestCartController_CompleteFailureKeepsCart(t *testing.T) {
	bolt := product("Bolt", "0.10", nil)
	d := newPurchaseDesk(bolt)
	ctx := context.Background()
	supplier := uuid.New()
	require.NoError(t, d.controller.SelectCounterparty(ctx, &supplier))
	require.NoError(t, d.controller.AddItem(ctx, bolt.ID, 10))
	d.carts.completeFn = func(uuid.UUID, *repository.CompleteCartParams) (*entity.Cart, error) {
		return nil, apperror.NewAPIError(0, "connection refused")
	}

	_, err := d.controller.CompletePurchase(ctx)

	require.Error(t, err)
	state := d.controller.State()
	assert.NotNil(t, state.Cart)
	assert.Equal(t, &supplier, state.CounterpartyID)
	assert.Equal(t, "connection refused", state.Error)
	assert.Nil(t, d.carts.lastComplete)
}

func TestCartController_GetEligibleBillAccounts(t *testing.T) {
	d := newPOSDesk()
	ctx := context.Background()

	cash, err := d.controller.GetEligibleBillAccounts(ctx, enum.PaymentMethodCash)
	require.NoError(t, err)
	card, err := d.controller.GetEligibleBillAccounts(ctx, enum.PaymentMethodCard)
	require.NoError(t, err)

	assert.Len(t, cash, 1)
	assert.Len(t, card, 2)
	assert.Equal(t, []enum.BillAccountType{enum.BillAccountTypeCash, enum.BillAccountTypeDebt}, d.accounts.queried())

	_, err = d.controller.GetEligibleBillAccounts(ctx, "cheque")
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
}

func TestCartController_PurchasingHasNoBillAccounts(t *testing.T) {
	d := newPurchaseDesk()

	_, err := d.controller.GetEligibleBillAccounts(context.Background(), enum.PaymentMethodCash)

	assert.True(t, apperror.IsKind(err, apperror.KindPrecondition))
}

func TestCartController_ReloadReplacesCart(t *testing.T) {
	widget := product("Widget", "1", intPtr(5))
	d := newPOSDesk(widget)
	ctx := context.Background()
	require.NoError(t, d.controller.AddItem(ctx, widget.ID, 1))
	before := d.controller.State().Cart

	require.NoError(t, d.controller.ReloadCart(ctx))

	after := d.controller.State().Cart
	assert.NotSame(t, before, after)
	assert.Equal(t, before.ID, after.ID)
	assert.Equal(t, 1, d.carts.count("get"))
}

func TestCartController_ResetDropsLocalCartOnly(t *testing.T) {
	widget := product("Widget", "1", intPtr(5))
	d := newPOSDesk(widget)
	ctx := context.Background()
	customer := uuid.New()
	require.NoError(t, d.controller.SelectCounterparty(ctx, &customer))
	require.NoError(t, d.controller.AddItem(ctx, widget.ID, 1))
	calls := d.carts.total()

	d.controller.Reset()

	state := d.controller.State()
	assert.Nil(t, state.Cart)
	assert.Nil(t, state.CounterpartyID)
	assert.Equal(t, calls, d.carts.total())
	assert.Len(t, d.carts.carts, 1)
}

func TestCartController_SubscribeSeesChanges(t *testing.T) {
	widget := product("Widget", "1", intPtr(5))
	d := newPOSDesk(widget)

	var (
		mu     sync.Mutex
		states []CartState
	)
	unsubscribe := d.controller.Subscribe(func(s CartState) {
		mu.Lock()
		states = append(states, s)
		mu.Unlock()
	})

	require.NoError(t, d.controller.AddItem(context.Background(), widget.ID, 1))
	unsubscribe()
	d.controller.Reset()

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, states)
	assert.True(t, states[0].Loading)
	last := states[len(states)-1]
	assert.False(t, last.Loading)
	require.NotNil(t, last.Cart)
	assert.Len(t, last.Cart.Items, 1)
}

func TestCartController_ErrorsAreHumanReadable(t *testing.T) {
	d := newPOSDesk()
	d.carts.createFn = func(repository.CreateCartParams) (*entity.Cart, error) {
		return nil, errors.New("")
	}

	_, err := d.controller.EnsureCart(context.Background())

	require.Error(t, err)
	assert.Equal(t, "unknown error", d.controller.State().Error)
}
