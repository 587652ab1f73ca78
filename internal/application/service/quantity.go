package service

import (
	"strings"

	"github.com/sangkips/investify-desk/pkg/apperror"
	"github.com/shopspring/decimal"
)

const (
	quantityField        = "quantity"
	msgQuantityPositive  = "quantity must be an integer greater than 0"
	msgInsufficientStock = "insufficient stock, available: %d"
)

// maxQuantity keeps parsed quantities inside int32 range on every platform
var maxQuantity = decimal.NewFromInt(1<<31 - 1)

// ParsePositiveInteger parses quantity text typed into the quantity dialog.
// "3" and "3.0" are accepted, fractions, zero, negatives and non-numbers are not.
func ParsePositiveInteger(input string) (int, error) {
	value, err := decimal.NewFromString(strings.TrimSpace(input))
	if err != nil || !value.IsInteger() || !value.IsPositive() || value.GreaterThan(maxQuantity) {
		return 0, apperror.NewValidationError(quantityField, msgQuantityPositive)
	}
	return int(value.IntPart()), nil
}

func validatePositiveQuantity(quantity int) error {
	if quantity <= 0 {
		return apperror.NewValidationError(quantityField, msgQuantityPositive)
	}
	return nil
}
