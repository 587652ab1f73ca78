package service

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sangkips/investify-desk/internal/domain/entity"
	"github.com/sangkips/investify-desk/internal/domain/enum"
	"github.com/sangkips/investify-desk/internal/domain/repository"
	"github.com/sangkips/investify-desk/pkg/apperror"
)

// CompletionRequest carries what the user picked in the checkout dialog
type CompletionRequest struct {
	PaymentMethod enum.PaymentMethod
	BillAccountID *uuid.UUID
}

// CartPolicy holds the rules that differ between the sale and purchase flows
type CartPolicy interface {
	// Flow names the flow in logs and routes
	Flow() string
	CounterpartyKind() enum.CounterpartyKind
	// ValidateQuantity bounds an already positive quantity. stock is the last
	// known availability and may be nil.
	ValidateQuantity(quantity int, stock *int) error
	// RequiresBillAccount reports whether completion records against a bill account
	RequiresBillAccount() bool
	AccountTypeFor(method enum.PaymentMethod) enum.BillAccountType
	// ValidateCheckout checks the cart can enter checkout at all
	ValidateCheckout(cart *entity.Cart, counterpartyID *uuid.UUID) error
	// ValidateCompletion checks the final request. account is the selected
	// account as last fetched, nil when unknown.
	ValidateCompletion(cart *entity.Cart, counterpartyID *uuid.UUID, req CompletionRequest, account *entity.BillAccount) error
	CompletionPayload(req CompletionRequest) *repository.CompleteCartParams
	SuccessMessage() string
}

// PointOfSalePolicy checks stock and pairs the payment method with an account type
type PointOfSalePolicy struct{}

// NewPointOfSalePolicy creates the sale policy
func NewPointOfSalePolicy() *PointOfSalePolicy {
	return &PointOfSalePolicy{}
}

func (p *PointOfSalePolicy) Flow() string { return "pos" }

func (p *PointOfSalePolicy) CounterpartyKind() enum.CounterpartyKind {
	return enum.CounterpartyCustomer
}

func (p *PointOfSalePolicy) ValidateQuantity(quantity int, stock *int) error {
	available := 0
	if stock != nil {
		available = *stock
	}
	if quantity > available {
		return apperror.NewValidationErrorf(quantityField, msgInsufficientStock, available)
	}
	return nil
}

func (p *PointOfSalePolicy) RequiresBillAccount() bool { return true }

func (p *PointOfSalePolicy) AccountTypeFor(method enum.PaymentMethod) enum.BillAccountType {
	return method.AccountType()
}

func (p *PointOfSalePolicy) ValidateCheckout(cart *entity.Cart, _ *uuid.UUID) error {
	if cart.IsEmpty() {
		return apperror.NewPreconditionError("add products before completing the sale")
	}
	if !cart.Total.IsPositive() {
		return apperror.NewPreconditionError("sale total must be greater than 0")
	}
	return nil
}

func (p *PointOfSalePolicy) ValidateCompletion(cart *entity.Cart, counterpartyID *uuid.UUID, req CompletionRequest, account *entity.BillAccount) error {
	if err := p.ValidateCheckout(cart, counterpartyID); err != nil {
		return err
	}
	if !req.PaymentMethod.IsValid() {
		return apperror.NewValidationError("payment_method", fmt.Sprintf("unknown payment method %q", req.PaymentMethod))
	}
	if req.BillAccountID == nil {
		return apperror.NewPreconditionError("select a bill account to record the transaction")
	}
	if account == nil {
		return apperror.NewPreconditionError("selected bill account is not among the eligible accounts")
	}
	if want := p.AccountTypeFor(req.PaymentMethod); account.Type != want {
		return apperror.NewPreconditionError(fmt.Sprintf("payment method %s needs a %s account, got %s", req.PaymentMethod, want, account.Type))
	}
	return nil
}

func (p *PointOfSalePolicy) CompletionPayload(req CompletionRequest) *repository.CompleteCartParams {
	return &repository.CompleteCartParams{
		PaymentMethod: req.PaymentMethod,
		BillAccountID: req.BillAccountID,
	}
}

func (p *PointOfSalePolicy) SuccessMessage() string { return "sale recorded" }

// PurchasingPolicy has no stock bound and completes without payment details
type PurchasingPolicy struct{}

// NewPurchasingPolicy creates the purchase policy
func NewPurchasingPolicy() *PurchasingPolicy {
	return &PurchasingPolicy{}
}

func (p *PurchasingPolicy) Flow() string { return "purchase" }

func (p *PurchasingPolicy) CounterpartyKind() enum.CounterpartyKind {
	return enum.CounterpartySupplier
}

func (p *PurchasingPolicy) ValidateQuantity(int, *int) error { return nil }

func (p *PurchasingPolicy) RequiresBillAccount() bool { return false }

func (p *PurchasingPolicy) AccountTypeFor(method enum.PaymentMethod) enum.BillAccountType {
	return method.AccountType()
}

func (p *PurchasingPolicy) ValidateCheckout(cart *entity.Cart, counterpartyID *uuid.UUID) error {
	if counterpartyID == nil {
		return apperror.NewPreconditionError("select a supplier before completing the purchase")
	}
	if cart.IsEmpty() {
		return apperror.NewPreconditionError("add products before completing the purchase")
	}
	return nil
}

func (p *PurchasingPolicy) ValidateCompletion(cart *entity.Cart, counterpartyID *uuid.UUID, _ CompletionRequest, _ *entity.BillAccount) error {
	return p.ValidateCheckout(cart, counterpartyID)
}

func (p *PurchasingPolicy) CompletionPayload(CompletionRequest) *repository.CompleteCartParams {
	return nil
}

func (p *PurchasingPolicy) SuccessMessage() string { return "purchase recorded" }
