package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/investify-desk/internal/domain/entity"
	"github.com/sangkips/investify-desk/internal/domain/enum"
)

// CartRepository is the server-held cart resource of one flow.
// Every call returns the full cart as the server now sees it.
type CartRepository interface {
	Create(ctx context.Context, params CreateCartParams) (*entity.Cart, error)
	Get(ctx context.Context, cartID uuid.UUID) (*entity.Cart, error)
	Update(ctx context.Context, cartID uuid.UUID, params UpdateCartParams) (*entity.Cart, error)
	AddItem(ctx context.Context, cartID uuid.UUID, params AddItemParams) (*entity.Cart, error)
	UpdateItem(ctx context.Context, cartID, itemID uuid.UUID, params UpdateItemParams) (*entity.Cart, error)
	RemoveItem(ctx context.Context, cartID, itemID uuid.UUID) (*entity.Cart, error)
	Complete(ctx context.Context, cartID uuid.UUID, params *CompleteCartParams) (*entity.Cart, error)
}

// CreateCartParams opens a cart. A nil CounterpartyID is sent as an explicit null.
type CreateCartParams struct {
	CounterpartyID *uuid.UUID
	PaymentStatus  enum.PaymentStatus
}

// UpdateCartParams changes the counterparty of a cart. nil clears it.
type UpdateCartParams struct {
	CounterpartyID *uuid.UUID
}

// AddItemParams adds a product to a cart
type AddItemParams struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

// UpdateItemParams sets the quantity of a line item
type UpdateItemParams struct {
	Quantity int `json:"quantity"`
}

// CompleteCartParams carries the payment details of a sale.
// Purchases complete with no params at all.
type CompleteCartParams struct {
	PaymentMethod enum.PaymentMethod `json:"payment_method,omitempty"`
	BillAccountID *uuid.UUID         `json:"bill_account_id,omitempty"`
}
