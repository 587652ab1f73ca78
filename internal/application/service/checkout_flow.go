package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/investify-desk/internal/domain/entity"
	"github.com/sangkips/investify-desk/internal/domain/enum"
	"github.com/sangkips/investify-desk/pkg/apperror"
	"go.uber.org/zap"
)

// QuantityDialog is the state of the quantity entry dialog
type QuantityDialog struct {
	Mode       enum.QuantityMode      `json:"mode"`
	Product    *entity.CatalogProduct `json:"product,omitempty"`
	Item       *entity.LineItem       `json:"item,omitempty"`
	Input      string                 `json:"input"`
	Error      string                 `json:"error,omitempty"`
	Submitting bool                   `json:"submitting"` // add or update in flight

	returnsTo enum.CheckoutStep
}

// CheckoutDialog is the state of the payment dialog
type CheckoutDialog struct {
	PaymentMethod     enum.PaymentMethod   `json:"payment_method,omitempty"`
	Accounts          []entity.BillAccount `json:"accounts"`
	SelectedAccountID *uuid.UUID           `json:"selected_account_id"`
	LoadingAccounts   bool                 `json:"loading_accounts"`
	Error             string               `json:"error,omitempty"`
}

// ConfirmationAction names what a confirmation will do once accepted
type ConfirmationAction string

const (
	ConfirmRemoveItem ConfirmationAction = "remove_item"
)

// Confirmation is a question the caller must answer before an action runs
type Confirmation struct {
	ID        uuid.UUID          `json:"id"`
	Action    ConfirmationAction `json:"action"`
	ItemID    uuid.UUID          `json:"item_id"`
	Prompt    string             `json:"prompt"`
	CreatedAt time.Time          `json:"created_at"`
}

// FlowState is a snapshot of the dialogs plus the controller underneath
type FlowState struct {
	Step           enum.CheckoutStep `json:"step"`
	Search         string            `json:"search"`
	Quantity       *QuantityDialog   `json:"quantity_dialog,omitempty"`
	Checkout       *CheckoutDialog   `json:"checkout_dialog,omitempty"`
	CheckoutError  string            `json:"checkout_error,omitempty"` // why checkout could not open
	Confirmations  []Confirmation    `json:"confirmations"`
	SuccessMessage string            `json:"success_message,omitempty"`
	Cart           CartState         `json:"cart"`
}

// CheckoutFlow drives the dialogs of a cart screen on top of a CartController.
// Dialog errors live here so they never overwrite the controller's page error.
type CheckoutFlow struct {
	controller *CartController
	logger     *zap.Logger
	now        func() time.Time

	mu             sync.Mutex
	step           enum.CheckoutStep
	search         string
	quantity       *QuantityDialog
	checkout       *CheckoutDialog
	checkoutError  string
	confirmations  map[uuid.UUID]Confirmation
	successMessage string
	// accountsGen tags bill account fetches so a slow older response
	// cannot overwrite a newer one
	accountsGen uint64
}

// NewCheckoutFlow creates a flow over controller, starting idle
func NewCheckoutFlow(controller *CartController, logger *zap.Logger) *CheckoutFlow {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CheckoutFlow{
		controller:    controller,
		logger:        logger.With(zap.String("flow", controller.Policy().Flow())),
		now:           time.Now,
		step:          enum.CheckoutStepIdle,
		confirmations: make(map[uuid.UUID]Confirmation),
	}
}

// Controller returns the cart controller under the flow
func (f *CheckoutFlow) Controller() *CartController {
	return f.controller
}

// State returns a snapshot of the flow
func (f *CheckoutFlow) State() FlowState {
	f.mu.Lock()
	state := FlowState{
		Step:           f.step,
		Search:         f.search,
		CheckoutError:  f.checkoutError,
		SuccessMessage: f.successMessage,
		Confirmations:  make([]Confirmation, 0, len(f.confirmations)),
	}
	if f.quantity != nil {
		q := *f.quantity
		state.Quantity = &q
	}
	if f.checkout != nil {
		co := *f.checkout
		co.Accounts = append([]entity.BillAccount(nil), f.checkout.Accounts...)
		state.Checkout = &co
	}
	for _, c := range f.confirmations {
		state.Confirmations = append(state.Confirmations, c)
	}
	f.mu.Unlock()

	sort.Slice(state.Confirmations, func(i, j int) bool {
		return state.Confirmations[i].CreatedAt.Before(state.Confirmations[j].CreatedAt)
	})
	state.Cart = f.controller.State()
	return state
}

func (f *CheckoutFlow) quantitySubmitting() bool {
	return f.step == enum.CheckoutStepQuantityEntry && f.quantity != nil && f.quantity.Submitting
}

func (f *CheckoutFlow) badStep(op string) error {
	if f.step == enum.CheckoutStepCompleting || f.quantitySubmitting() {
		return apperror.ErrInFlight
	}
	return apperror.NewPreconditionError(fmt.Sprintf("cannot %s while %s", op, f.step))
}

// OpenSearch opens the product search
func (f *CheckoutFlow) OpenSearch() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.step != enum.CheckoutStepIdle && f.step != enum.CheckoutStepBrowsing {
		return f.badStep("open search")
	}
	f.step = enum.CheckoutStepBrowsing
	f.successMessage = ""
	f.checkoutError = ""
	return nil
}

// SetSearch updates the search term and returns the matching products
func (f *CheckoutFlow) SetSearch(term string) []entity.CatalogProduct {
	f.mu.Lock()
	f.search = term
	f.mu.Unlock()
	return f.controller.FilterProducts(term)
}

// CloseSearch closes the product search
func (f *CheckoutFlow) CloseSearch() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.step != enum.CheckoutStepBrowsing {
		return f.badStep("close search")
	}
	f.step = enum.CheckoutStepIdle
	f.search = ""
	return nil
}

// OpenAddQuantity opens the quantity dialog for adding a catalog product
func (f *CheckoutFlow) OpenAddQuantity(productID uuid.UUID) error {
	product, ok := f.controller.Product(productID)
	if !ok {
		return apperror.NewNotFoundError("Product")
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.step != enum.CheckoutStepIdle && f.step != enum.CheckoutStepBrowsing {
		return f.badStep("add a product")
	}
	f.quantity = &QuantityDialog{
		Mode:      enum.QuantityModeAdd,
		Product:   &product,
		Input:     "1",
		returnsTo: f.step,
	}
	f.step = enum.CheckoutStepQuantityEntry
	f.checkoutError = ""
	return nil
}

// OpenEditQuantity opens the quantity dialog for a line item already in the cart
func (f *CheckoutFlow) OpenEditQuantity(itemID uuid.UUID) error {
	item, ok := f.controller.Item(itemID)
	if !ok {
		return apperror.NewNotFoundError("Cart item")
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.step != enum.CheckoutStepIdle && f.step != enum.CheckoutStepBrowsing {
		return f.badStep("edit a quantity")
	}
	f.quantity = &QuantityDialog{
		Mode:      enum.QuantityModeEdit,
		Item:      &item,
		Input:     strconv.Itoa(item.Quantity),
		returnsTo: f.step,
	}
	f.step = enum.CheckoutStepQuantityEntry
	f.checkoutError = ""
	return nil
}

// SetQuantityInput stores the text typed into the quantity dialog
func (f *CheckoutFlow) SetQuantityInput(input string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.step != enum.CheckoutStepQuantityEntry || f.quantity.Submitting {
		return f.badStep("enter a quantity")
	}
	f.quantity.Input = input
	return nil
}

// ConfirmQuantity validates the dialog input and adds or updates the item.
// Failures stay in the dialog, success returns to idle.
func (f *CheckoutFlow) ConfirmQuantity(ctx context.Context, input *string) error {
	f.mu.Lock()
	if f.step != enum.CheckoutStepQuantityEntry || f.quantity.Submitting {
		err := f.badStep("confirm a quantity")
		f.mu.Unlock()
		return err
	}
	if input != nil {
		f.quantity.Input = *input
	}
	f.quantity.Submitting = true
	dialog := *f.quantity
	f.mu.Unlock()

	quantity, err := ParsePositiveInteger(dialog.Input)
	if err != nil {
		return f.quantityFailed(err)
	}

	switch dialog.Mode {
	case enum.QuantityModeAdd:
		if err := f.controller.ValidateAdd(dialog.Product.ID, quantity); err != nil {
			return f.quantityFailed(err)
		}
		err = f.controller.AddItem(ctx, dialog.Product.ID, quantity)
	case enum.QuantityModeEdit:
		if err := f.controller.ValidateUpdate(*dialog.Item, quantity); err != nil {
			return f.quantityFailed(err)
		}
		err = f.controller.UpdateItemQuantity(ctx, dialog.Item.ID, quantity)
	}
	if err != nil {
		return f.quantityFailed(err)
	}

	f.mu.Lock()
	f.quantity = nil
	f.step = enum.CheckoutStepIdle
	f.search = ""
	f.mu.Unlock()
	return nil
}

func (f *CheckoutFlow) quantityFailed(err error) error {
	f.mu.Lock()
	if f.quantity != nil {
		f.quantity.Error = apperror.Message(err)
		f.quantity.Submitting = false
	}
	f.mu.Unlock()

	f.logger.Warn("quantity rejected", zap.Error(err))
	return err
}

// CancelQuantity closes the quantity dialog and returns to where it was opened from
func (f *CheckoutFlow) CancelQuantity() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.step != enum.CheckoutStepQuantityEntry || f.quantity.Submitting {
		return f.badStep("cancel a quantity")
	}
	f.step = f.quantity.returnsTo
	f.quantity = nil
	return nil
}

// RequestRemoval asks for confirmation before a line item is removed.
// Nothing is removed until ResolveConfirmation accepts it.
func (f *CheckoutFlow) RequestRemoval(itemID uuid.UUID) (Confirmation, error) {
	item, ok := f.controller.Item(itemID)
	if !ok {
		return Confirmation{}, apperror.NewNotFoundError("Cart item")
	}

	confirmation := Confirmation{
		ID:        uuid.New(),
		Action:    ConfirmRemoveItem,
		ItemID:    item.ID,
		Prompt:    fmt.Sprintf("remove %s from the cart?", item.ProductName),
		CreatedAt: f.now(),
	}

	f.mu.Lock()
	f.confirmations[confirmation.ID] = confirmation
	f.mu.Unlock()
	return confirmation, nil
}

// ResolveConfirmation answers a pending confirmation. A declined confirmation
// is dropped with no effect.
func (f *CheckoutFlow) ResolveConfirmation(ctx context.Context, id uuid.UUID, accepted bool) error {
	f.mu.Lock()
	confirmation, ok := f.confirmations[id]
	delete(f.confirmations, id)
	f.mu.Unlock()

	if !ok {
		return apperror.NewNotFoundError("Confirmation")
	}
	if !accepted {
		return nil
	}

	switch confirmation.Action {
	case ConfirmRemoveItem:
		return f.controller.RemoveItem(ctx, confirmation.ItemID)
	default:
		return apperror.NewBadRequestError("unknown confirmation action")
	}
}

// OpenCheckout enters checkout review. A rejected cart leaves the flow idle
// with the reason in CheckoutError. For flows that record against bill
// accounts the method starts at cash and its accounts are fetched.
func (f *CheckoutFlow) OpenCheckout(ctx context.Context) error {
	f.mu.Lock()
	if f.step != enum.CheckoutStepIdle {
		err := f.badStep("open checkout")
		f.mu.Unlock()
		return err
	}
	f.successMessage = ""
	f.mu.Unlock()

	if err := f.controller.ValidateCheckout(); err != nil {
		f.logger.Warn("checkout rejected", zap.Error(err))
		f.mu.Lock()
		f.checkoutError = apperror.Message(err)
		f.mu.Unlock()
		return err
	}

	f.mu.Lock()
	f.checkout = &CheckoutDialog{}
	f.checkoutError = ""
	f.step = enum.CheckoutStepReview
	f.mu.Unlock()

	if !f.controller.Policy().RequiresBillAccount() {
		return nil
	}
	return f.ChangePaymentMethod(ctx, enum.PaymentMethodCash)
}

// ChangePaymentMethod switches the payment method, fetches its eligible
// accounts and selects the first one, or none when the list is empty
func (f *CheckoutFlow) ChangePaymentMethod(ctx context.Context, method enum.PaymentMethod) error {
	f.mu.Lock()
	if f.step != enum.CheckoutStepReview {
		err := f.badStep("change the payment method")
		f.mu.Unlock()
		return err
	}
	if !method.IsValid() {
		err := apperror.NewValidationErrorf("payment_method", "unknown payment method %q", method)
		f.checkout.Error = err.Message
		f.mu.Unlock()
		return err
	}

	f.accountsGen++
	gen := f.accountsGen
	f.checkout.PaymentMethod = method
	f.checkout.Accounts = nil
	f.checkout.SelectedAccountID = nil
	f.checkout.LoadingAccounts = true
	f.checkout.Error = ""
	f.mu.Unlock()

	accounts, err := f.controller.GetEligibleBillAccounts(ctx, method)

	f.mu.Lock()
	defer f.mu.Unlock()

	if gen != f.accountsGen || f.checkout == nil {
		f.logger.Debug("discarding stale bill accounts", zap.String("payment_method", method.String()))
		return nil
	}
	f.checkout.LoadingAccounts = false
	if err != nil {
		f.checkout.Error = apperror.Message(err)
		return err
	}

	f.checkout.Accounts = accounts
	if len(accounts) > 0 {
		id := accounts[0].ID
		f.checkout.SelectedAccountID = &id
	}
	return nil
}

// SelectAccount picks one of the eligible accounts
func (f *CheckoutFlow) SelectAccount(accountID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.step != enum.CheckoutStepReview {
		return f.badStep("select an account")
	}
	for _, account := range f.checkout.Accounts {
		if account.ID == accountID {
			id := account.ID
			f.checkout.SelectedAccountID = &id
			f.checkout.Error = ""
			return nil
		}
	}

	err := apperror.NewValidationError("bill_account_id", "bill account is not eligible for the payment method")
	f.checkout.Error = err.Message
	return err
}

// ConfirmCheckout completes the cart. While completing every other
// transition is refused, and a failure returns to review with the error shown.
func (f *CheckoutFlow) ConfirmCheckout(ctx context.Context) (*entity.Cart, error) {
	f.mu.Lock()
	if f.step != enum.CheckoutStepReview {
		err := f.badStep("confirm checkout")
		f.mu.Unlock()
		return nil, err
	}
	if f.controller.Policy().RequiresBillAccount() && f.checkout.SelectedAccountID == nil {
		err := apperror.NewPreconditionError("select a bill account to record the transaction")
		f.checkout.Error = err.Message
		f.mu.Unlock()
		return nil, err
	}
	req := CompletionRequest{
		PaymentMethod: f.checkout.PaymentMethod,
		BillAccountID: f.checkout.SelectedAccountID,
	}
	f.step = enum.CheckoutStepCompleting
	f.checkout.Error = ""
	f.mu.Unlock()

	completed, err := f.controller.Complete(ctx, req)

	f.mu.Lock()
	defer f.mu.Unlock()

	if err != nil {
		f.step = enum.CheckoutStepReview
		f.checkout.Error = apperror.Message(err)
		f.logger.Warn("checkout failed", zap.Error(err))
		return nil, err
	}

	f.step = enum.CheckoutStepIdle
	f.checkout = nil
	f.accountsGen++
	f.successMessage = f.controller.Policy().SuccessMessage()
	return completed, nil
}

// CancelCheckout leaves checkout review
func (f *CheckoutFlow) CancelCheckout() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.step != enum.CheckoutStepReview {
		return f.badStep("cancel checkout")
	}
	f.step = enum.CheckoutStepIdle
	f.checkout = nil
	f.accountsGen++
	return nil
}

// Reset discards the cart and closes every dialog
func (f *CheckoutFlow) Reset() error {
	f.mu.Lock()
	if f.step == enum.CheckoutStepCompleting || f.quantitySubmitting() {
		f.mu.Unlock()
		return apperror.ErrInFlight
	}
	f.step = enum.CheckoutStepIdle
	f.search = ""
	f.quantity = nil
	f.checkout = nil
	f.checkoutError = ""
	f.successMessage = ""
	f.confirmations = make(map[uuid.UUID]Confirmation)
	f.accountsGen++
	f.mu.Unlock()

	f.controller.Reset()
	return nil
}
