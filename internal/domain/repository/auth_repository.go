package repository

import (
	"context"

	"github.com/sangkips/investify-desk/internal/domain/entity"
)

// AuthRepository talks to the API's authentication endpoints
type AuthRepository interface {
	Login(ctx context.Context, identifier, password string) (string, *entity.User, error)
	Me(ctx context.Context) (*entity.User, error)
}

// StoredSession is what survives a desk restart
type StoredSession struct {
	Token string       `json:"token"`
	User  *entity.User `json:"user,omitempty"`
}

// TokenStore persists the session between runs.
// Load returns nil, nil when nothing is stored.
type TokenStore interface {
	Load() (*StoredSession, error)
	Save(session StoredSession) error
	Clear() error
}
