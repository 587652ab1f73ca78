package request

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SelectCounterpartyRequest sets or clears the customer or supplier of the cart
type SelectCounterpartyRequest struct {
	CounterpartyID *string `json:"counterparty_id"`
}

// OpenAddQuantityRequest opens the quantity dialog for a catalog product
type OpenAddQuantityRequest struct {
	ProductID string `json:"product_id" binding:"required,uuid"`
}

// OpenEditQuantityRequest opens the quantity dialog for a cart line
type OpenEditQuantityRequest struct {
	ItemID string `json:"item_id" binding:"required,uuid"`
}

// QuantityInput is the quantity typed by the user. Both 3 and "3" are accepted,
// parsing happens in the dialog so bad input is reported there.
type QuantityInput string

// UnmarshalJSON accepts a JSON string or number
func (q *QuantityInput) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*q = QuantityInput(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("quantity must be a string or a number")
	}
	*q = QuantityInput(strings.TrimSpace(n.String()))
	return nil
}

// ConfirmQuantityRequest confirms the quantity dialog. A missing quantity
// confirms whatever input the dialog already holds.
type ConfirmQuantityRequest struct {
	Quantity *QuantityInput `json:"quantity"`
}

// Input returns the quantity text, nil when none was sent
func (r *ConfirmQuantityRequest) Input() *string {
	if r.Quantity == nil {
		return nil
	}
	s := string(*r.Quantity)
	return &s
}

// ResolveConfirmationRequest answers a pending confirmation
type ResolveConfirmationRequest struct {
	Accepted *bool `json:"accepted" binding:"required"`
}

// PaymentMethodRequest switches the checkout payment method
type PaymentMethodRequest struct {
	PaymentMethod string `json:"payment_method" binding:"required"`
}

// SelectAccountRequest picks the bill account of the checkout
type SelectAccountRequest struct {
	BillAccountID string `json:"bill_account_id" binding:"required,uuid"`
}
