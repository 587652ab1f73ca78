package repository

import (
	"context"
	"net/url"

	"github.com/sangkips/investify-desk/internal/domain/entity"
	"github.com/sangkips/investify-desk/internal/domain/enum"
	domainRepo "github.com/sangkips/investify-desk/internal/domain/repository"
	"github.com/sangkips/investify-desk/internal/infrastructure/api"
)

type contactRepository struct {
	client *api.Client
}

// NewContactRepository creates a new contact repository
func NewContactRepository(client *api.Client) domainRepo.ContactRepository {
	return &contactRepository{client: client}
}

func (r *contactRepository) ListByKind(ctx context.Context, kind enum.CounterpartyKind) ([]entity.Contact, error) {
	query := url.Values{}
	if kind != "" {
		query.Set("kind", kind.String())
	}

	var contacts []entity.Contact
	if err := r.client.Get(ctx, "/contacts", query, &contacts); err != nil {
		return nil, err
	}
	return contacts, nil
}
