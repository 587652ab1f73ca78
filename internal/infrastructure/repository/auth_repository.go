package repository

import (
	"context"

	"github.com/sangkips/investify-desk/internal/domain/entity"
	domainRepo "github.com/sangkips/investify-desk/internal/domain/repository"
	"github.com/sangkips/investify-desk/internal/infrastructure/api"
	"github.com/sangkips/investify-desk/pkg/apperror"
)

type authRepository struct {
	client *api.Client
}

// NewAuthRepository creates a new auth repository
func NewAuthRepository(client *api.Client) domainRepo.AuthRepository {
	return &authRepository{client: client}
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  *entity.User `json:"user"`
}

type meResponse struct {
	User *entity.User `json:"user"`
}

func (r *authRepository) Login(ctx context.Context, identifier, password string) (string, *entity.User, error) {
	var resp loginResponse
	err := r.client.PostPublic(ctx, "/auth/login", loginRequest{Identifier: identifier, Password: password}, &resp)
	if err != nil {
		return "", nil, err
	}
	if resp.Token == "" {
		return "", nil, apperror.NewAPIError(0, "malformed response: missing token")
	}
	return resp.Token, resp.User, nil
}

func (r *authRepository) Me(ctx context.Context) (*entity.User, error) {
	var resp meResponse
	if err := r.client.Get(ctx, "/auth/me", nil, &resp); err != nil {
		return nil, err
	}
	if resp.User == nil {
		return nil, apperror.NewAPIError(0, "malformed response: missing user")
	}
	return resp.User, nil
}
