package repository

import (
	"context"

	"github.com/sangkips/investify-desk/internal/domain/entity"
	domainRepo "github.com/sangkips/investify-desk/internal/domain/repository"
	"github.com/sangkips/investify-desk/internal/infrastructure/api"
)

type catalogRepository struct {
	client *api.Client
	domain string
}

// NewCatalogRepository creates a catalog repository for one flow
func NewCatalogRepository(client *api.Client, domain string) domainRepo.CatalogRepository {
	return &catalogRepository{client: client, domain: domain}
}

func (r *catalogRepository) ListProducts(ctx context.Context) ([]entity.CatalogProduct, error) {
	var products []entity.CatalogProduct
	if err := r.client.Get(ctx, "/"+r.domain+"/products", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}
