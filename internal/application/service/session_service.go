package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/sangkips/investify-desk/internal/domain/entity"
	"github.com/sangkips/investify-desk/internal/domain/repository"
	"github.com/sangkips/investify-desk/pkg/apperror"
	"github.com/sangkips/investify-desk/pkg/utils"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// SessionService holds the signed-in user and the API token. It is the
// token source of the API client, so a cleared session stops outbound calls.
type SessionService struct {
	auth   repository.AuthRepository
	store  repository.TokenStore
	logger *zap.Logger
	now    func() time.Time

	mu    sync.RWMutex
	token string
	user  *entity.User
}

// NewSessionService creates an empty session. The auth repository is attached
// with SetAuthRepository once the API client using this session exists.
func NewSessionService(store repository.TokenStore, logger *zap.Logger) *SessionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionService{
		store:  store,
		logger: logger.Named("session"),
		now:    time.Now,
	}
}

// SetAuthRepository attaches the repository used for login and who-am-I
func (s *SessionService) SetAuthRepository(auth repository.AuthRepository) {
	s.auth = auth
}

// LoginInput represents the login input
type LoginInput struct {
	Identifier string
	Password   string
}

// Init restores a persisted session. An expired token is dropped without a
// round trip, otherwise the token is checked with the API. Any failure leaves
// the session signed out.
func (s *SessionService) Init(ctx context.Context) (*entity.User, error) {
	stored, err := s.store.Load()
	if err != nil {
		s.logger.Warn("stored session unreadable", zap.Error(err))
		s.clear()
		return nil, nil
	}
	if stored == nil {
		return nil, nil
	}

	if utils.TokenExpired(stored.Token, s.now()) {
		s.logger.Info("stored session expired")
		s.clear()
		return nil, nil
	}

	s.mu.Lock()
	s.token = stored.Token
	s.user = stored.User
	s.mu.Unlock()

	user, err := s.auth.Me(ctx)
	if err != nil {
		s.logger.Warn("stored session rejected", zap.Error(err))
		s.clear()
		return nil, err
	}

	s.mu.Lock()
	s.user = user
	s.mu.Unlock()

	if err := s.store.Save(repository.StoredSession{Token: stored.Token, User: user}); err != nil {
		s.logger.Warn("failed to persist session", zap.Error(err))
	}
	s.logger.Info("session restored", zap.String("user", user.Username))
	return user, nil
}

// Login authenticates against the API and persists the session
func (s *SessionService) Login(ctx context.Context, input *LoginInput) (*entity.User, error) {
	identifier := strings.TrimSpace(input.Identifier)
	if identifier == "" {
		return nil, apperror.NewValidationError("identifier", "identifier is required")
	}
	if input.Password == "" {
		return nil, apperror.NewValidationError("password", "password is required")
	}

	token, user, err := s.auth.Login(ctx, identifier, input.Password)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.token = token
	s.user = user
	s.mu.Unlock()

	if err := s.store.Save(repository.StoredSession{Token: token, User: user}); err != nil {
		s.logger.Warn("failed to persist session", zap.Error(err))
	}
	return user, nil
}

// Logout forgets the token and the user
func (s *SessionService) Logout() error {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()

	return s.store.Clear()
}

func (s *SessionService) clear() {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()

	if err := s.store.Clear(); err != nil {
		s.logger.Warn("failed to clear stored session", zap.Error(err))
	}
}

// User returns the signed-in user, nil when signed out
func (s *SessionService) User() *entity.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// RequireRole checks the signed-in user holds one of roles
func (s *SessionService) RequireRole(roles ...string) error {
	user := s.User()
	if user == nil {
		return apperror.ErrUnauthorized
	}
	if len(roles) > 0 && !user.HasRole(roles...) {
		return apperror.ErrForbidden
	}
	return nil
}

// Token implements oauth2.TokenSource
func (s *SessionService) Token() (*oauth2.Token, error) {
	s.mu.RLock()
	token := s.token
	s.mu.RUnlock()

	if token == "" || utils.TokenExpired(token, s.now()) {
		return nil, apperror.ErrUnauthorized
	}

	tok := &oauth2.Token{AccessToken: token, TokenType: "Bearer"}
	if claims, ok := utils.InspectToken(token); ok && claims.ExpiresAt != nil {
		tok.Expiry = claims.ExpiresAt.Time
	}
	return tok, nil
}
