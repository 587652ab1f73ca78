package entity

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CatalogProduct is the read-only projection of a product used to build carts.
// For purchasing, Price is the cost basis and StockAvailable is absent.
type CatalogProduct struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	SKU            string          `json:"sku,omitempty"`
	Price          decimal.Decimal `json:"price"`
	StockAvailable *int            `json:"stock_available,omitempty"`
}

// FilterCatalog returns the products whose name or SKU contains term,
// case-insensitively. A blank term returns every product.
func FilterCatalog(products []CatalogProduct, term string) []CatalogProduct {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return products
	}

	filtered := make([]CatalogProduct, 0, len(products))
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), term) || strings.Contains(strings.ToLower(p.SKU), term) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}
