package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sangkips/investify-desk/internal/domain/entity"
	domainRepo "github.com/sangkips/investify-desk/internal/domain/repository"
	"github.com/sangkips/investify-desk/internal/infrastructure/api"
	"github.com/sangkips/investify-desk/pkg/apperror"
)

type cartRepository struct {
	client *api.Client
	// domain is the path prefix of the flow, e.g. "pos" or "purchases"
	domain string
	// counterpartyField is the wire key the server expects for the counterparty
	counterpartyField string
}

// NewCartRepository creates a cart repository for one flow
func NewCartRepository(client *api.Client, domain, counterpartyField string) domainRepo.CartRepository {
	return &cartRepository{
		client:            client,
		domain:            domain,
		counterpartyField: counterpartyField,
	}
}

func (r *cartRepository) cartPath(cartID uuid.UUID) string {
	return fmt.Sprintf("/%s/cart/%s", r.domain, cartID)
}

// checkedCart rejects a 2xx answer that carries no cart, such as an empty
// body, null or {}
func checkedCart(cart *entity.Cart) (*entity.Cart, error) {
	if cart.ID == uuid.Nil {
		return nil, apperror.NewAPIError(0, "malformed response: missing cart")
	}
	return cart, nil
}

func (r *cartRepository) Create(ctx context.Context, params domainRepo.CreateCartParams) (*entity.Cart, error) {
	body := map[string]interface{}{
		r.counterpartyField: params.CounterpartyID,
		"payment_status":    params.PaymentStatus,
	}

	var cart entity.Cart
	if err := r.client.Post(ctx, "/"+r.domain+"/cart", body, &cart); err != nil {
		return nil, err
	}
	return checkedCart(&cart)
}

func (r *cartRepository) Get(ctx context.Context, cartID uuid.UUID) (*entity.Cart, error) {
	var cart entity.Cart
	if err := r.client.Get(ctx, r.cartPath(cartID), nil, &cart); err != nil {
		return nil, err
	}
	return checkedCart(&cart)
}

func (r *cartRepository) Update(ctx context.Context, cartID uuid.UUID, params domainRepo.UpdateCartParams) (*entity.Cart, error) {
	body := map[string]interface{}{
		r.counterpartyField: params.CounterpartyID,
	}

	var cart entity.Cart
	if err := r.client.Put(ctx, r.cartPath(cartID), body, &cart); err != nil {
		return nil, err
	}
	return checkedCart(&cart)
}

func (r *cartRepository) AddItem(ctx context.Context, cartID uuid.UUID, params domainRepo.AddItemParams) (*entity.Cart, error) {
	var cart entity.Cart
	if err := r.client.Post(ctx, r.cartPath(cartID)+"/items", params, &cart); err != nil {
		return nil, err
	}
	return checkedCart(&cart)
}

func (r *cartRepository) UpdateItem(ctx context.Context, cartID, itemID uuid.UUID, params domainRepo.UpdateItemParams) (*entity.Cart, error) {
	var cart entity.Cart
	path := fmt.Sprintf("%s/items/%s", r.cartPath(cartID), itemID)
	if err := r.client.Put(ctx, path, params, &cart); err != nil {
		return nil, err
	}
	return checkedCart(&cart)
}

func (r *cartRepository) RemoveItem(ctx context.Context, cartID, itemID uuid.UUID) (*entity.Cart, error) {
	var cart entity.Cart
	path := fmt.Sprintf("%s/items/%s", r.cartPath(cartID), itemID)
	if err := r.client.Delete(ctx, path, &cart); err != nil {
		return nil, err
	}
	return checkedCart(&cart)
}

// Complete finalizes the cart. nil params send an empty object.
func (r *cartRepository) Complete(ctx context.Context, cartID uuid.UUID, params *domainRepo.CompleteCartParams) (*entity.Cart, error) {
	var body interface{} = struct{}{}
	if params != nil {
		body = params
	}

	var cart entity.Cart
	if err := r.client.Post(ctx, r.cartPath(cartID)+"/complete", body, &cart); err != nil {
		return nil, err
	}
	return checkedCart(&cart)
}
