package entity

import (
	"github.com/google/uuid"
	"github.com/sangkips/investify-desk/internal/domain/enum"
)

// Contact is a customer or supplier a cart can be opened against
type Contact struct {
	ID      uuid.UUID             `json:"id"`
	Name    string                `json:"name"`
	Email   *string               `json:"email,omitempty"`
	Phone   *string               `json:"phone,omitempty"`
	Address *string               `json:"address,omitempty"`
	Kind    enum.CounterpartyKind `json:"kind,omitempty"`
}
