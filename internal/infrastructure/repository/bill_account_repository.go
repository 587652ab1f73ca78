package repository

import (
	"context"
	"net/url"

	"github.com/sangkips/investify-desk/internal/domain/entity"
	"github.com/sangkips/investify-desk/internal/domain/enum"
	domainRepo "github.com/sangkips/investify-desk/internal/domain/repository"
	"github.com/sangkips/investify-desk/internal/infrastructure/api"
)

type billAccountRepository struct {
	client *api.Client
	domain string
}

// NewBillAccountRepository creates a bill account repository for one flow
func NewBillAccountRepository(client *api.Client, domain string) domainRepo.BillAccountRepository {
	return &billAccountRepository{client: client, domain: domain}
}

func (r *billAccountRepository) ListByType(ctx context.Context, accountType enum.BillAccountType) ([]entity.BillAccount, error) {
	query := url.Values{}
	if accountType != "" {
		query.Set("type", accountType.String())
	}

	var accounts []entity.BillAccount
	if err := r.client.Get(ctx, "/"+r.domain+"/bill-accounts", query, &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}
