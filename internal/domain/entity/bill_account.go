package entity

import (
	"github.com/google/uuid"
	"github.com/sangkips/investify-desk/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// BillAccount is a ledger account a completed sale is recorded against
type BillAccount struct {
	ID      uuid.UUID            `json:"id"`
	Name    string               `json:"name"`
	Type    enum.BillAccountType `json:"type"`
	Balance decimal.Decimal      `json:"balance"`
}
