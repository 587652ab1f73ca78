package entity

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/sangkips/investify-desk/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// Cart is an order in its cart phase, exactly as the server last returned it.
// Aggregates are server computed and never recalculated locally.
type Cart struct {
	ID            uuid.UUID          `json:"id"`
	ContactID     *uuid.UUID         `json:"contact_id,omitempty"`
	SupplierID    *uuid.UUID         `json:"supplier_id,omitempty"`
	Status        enum.CartStatus    `json:"status,omitempty"`
	PaymentStatus enum.PaymentStatus `json:"payment_status,omitempty"`
	PaymentMethod string             `json:"payment_method,omitempty"`
	Type          string             `json:"type,omitempty"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
	Tax           decimal.Decimal    `json:"tax"`
	Discount      decimal.Decimal    `json:"discount"`
	Total         decimal.Decimal    `json:"total"`
	Items         []LineItem         `json:"items"`

	raw json.RawMessage
}

// UnmarshalJSON decodes the cart and keeps the original payload so the cart
// can be handed back out byte for byte
func (c *Cart) UnmarshalJSON(data []byte) error {
	type Alias Cart
	var a Alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*c = Cart(a)
	c.raw = append(json.RawMessage(nil), data...)
	return nil
}

// MarshalJSON re-emits the server payload when the cart was decoded from one
func (c Cart) MarshalJSON() ([]byte, error) {
	if len(c.raw) > 0 {
		return c.raw, nil
	}
	type Alias Cart
	return json.Marshal(Alias(c))
}

// Raw returns the server payload the cart was decoded from, if any
func (c *Cart) Raw() json.RawMessage {
	return c.raw
}

// CounterpartyID returns the contact or supplier reference for the given kind
func (c *Cart) CounterpartyID(kind enum.CounterpartyKind) *uuid.UUID {
	if c == nil {
		return nil
	}
	if kind == enum.CounterpartySupplier && c.SupplierID != nil {
		return c.SupplierID
	}
	return c.ContactID
}

// IsEmpty reports whether the cart has no line items
func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.Items) == 0
}

// FindItem returns the line item with the given id
func (c *Cart) FindItem(itemID uuid.UUID) (LineItem, bool) {
	if c == nil {
		return LineItem{}, false
	}
	for _, item := range c.Items {
		if item.ID == itemID {
			return item, true
		}
	}
	return LineItem{}, false
}

// Summary returns the server totals, zero valued when no cart exists
func (c *Cart) Summary() CartSummary {
	if c == nil {
		return CartSummary{}
	}
	return CartSummary{
		Subtotal: c.Subtotal,
		Tax:      c.Tax,
		Discount: c.Discount,
		Total:    c.Total,
	}
}

// LineItem is one product/quantity pairing in a cart
type LineItem struct {
	ID          uuid.UUID       `json:"id"`
	OrderID     uuid.UUID       `json:"order_id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Total       decimal.Decimal `json:"total"`
	// StockAvailable is a POS snapshot used to bound edits without a round trip
	StockAvailable *int `json:"stock_available,omitempty"`
}

// CartSummary holds the totals shown next to the cart
type CartSummary struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Discount decimal.Decimal `json:"discount"`
	Total    decimal.Decimal `json:"total"`
}
