package repository

import (
	"context"

	"github.com/sangkips/investify-desk/internal/domain/entity"
	"github.com/sangkips/investify-desk/internal/domain/enum"
)

// CatalogRepository lists the products a flow can put in a cart
type CatalogRepository interface {
	ListProducts(ctx context.Context) ([]entity.CatalogProduct, error)
}

// ContactRepository lists counterparties by kind
type ContactRepository interface {
	ListByKind(ctx context.Context, kind enum.CounterpartyKind) ([]entity.Contact, error)
}

// BillAccountRepository lists bill accounts of one type
type BillAccountRepository interface {
	ListByType(ctx context.Context, accountType enum.BillAccountType) ([]entity.BillAccount, error)
}
