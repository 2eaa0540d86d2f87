// internal/session/implementation.go
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clubnexus/internal/club"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Options configures the session service.
type Options struct {
	Secret          string
	TTL             time.Duration
	LoginsPerMinute int
}

// service implements the Service interface.
type service struct {
	store       club.Store
	registry    Registry
	signer      *Signer
	ttl         time.Duration
	rateLimiter *rate.Limiter
	logger      *zap.Logger
	now         func() time.Time
}

// NewService creates a new session service instance.
func NewService(store club.Store, registry Registry, opts Options, logger *zap.Logger) Service {
	perMinute := opts.LoginsPerMinute
	if perMinute <= 0 {
		perMinute = 30
	}
	return &service{
		store:       store,
		registry:    registry,
		signer:      NewSigner(opts.Secret, opts.TTL),
		ttl:         opts.TTL,
		rateLimiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute),
		logger:      logger,
		now:         time.Now,
	}
}

// Login verifies credentials and opens a session.
func (s *service) Login(ctx context.Context, username, password string) (*Session, error) {
	if !s.rateLimiter.Allow() {
		return nil, fmt.Errorf("login: %w", club.ErrRateLimited)
	}
	if username == "" || password == "" {
		return nil, fmt.Errorf("username and password are required: %w", club.ErrInvalidInput)
	}

	user, err := s.store.GetUser(ctx, username)
	if err != nil {
		if errors.Is(err, club.ErrNotFound) {
			s.logger.Warn("login rejected", zap.String("username", username), zap.String("reason", "unknown user"))
			return nil, fmt.Errorf("invalid credentials: %w", club.ErrUnauthenticated)
		}
		return nil, fmt.Errorf("authentication failed: %w", err)
	}

	ok, err := VerifyPassword(password, user.Salt, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("authentication failed: %w", err)
	}
	if !ok {
		s.logger.Warn("login rejected", zap.String("username", username), zap.String("reason", "bad password"))
		return nil, fmt.Errorf("invalid credentials: %w", club.ErrUnauthenticated)
	}

	p := &Principal{
		Username:    user.Username,
		Role:        user.Role,
		MemberID:    user.MemberID,
		CollectorID: user.CollectorID,
	}
	if user.Role == club.RoleCollector {
		if _, err := CollectorZone(ctx, s.store, p); err != nil {
			if errors.Is(err, club.ErrUnauthorized) {
				s.logger.Warn("login rejected", zap.String("username", username), zap.String("reason", "no collector record"))
				return nil, fmt.Errorf("collector user %q has no collector record: %w", username, club.ErrUnauthenticated)
			}
			return nil, err
		}
	}

	token, expires, err := s.signer.Sign(p, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.registry.Register(ctx, p.TokenID, s.ttl); err != nil {
		return nil, err
	}

	s.logger.Info("login", zap.String("username", username), zap.String("role", string(user.Role)))
	return &Session{Token: token, ExpiresAt: expires, User: p}, nil
}

// Authenticate resolves a bearer token to its principal.
func (s *service) Authenticate(ctx context.Context, token string) (*Principal, error) {
	if token == "" {
		return nil, fmt.Errorf("missing token: %w", club.ErrUnauthenticated)
	}
	p, err := s.signer.Parse(token)
	if err != nil {
		return nil, err
	}
	active, err := s.registry.Active(ctx, p.TokenID)
	if err != nil {
		return nil, err
	}
	if !active {
		return nil, fmt.Errorf("session ended: %w", club.ErrUnauthenticated)
	}
	return p, nil
}

// Logout revokes the session behind token.
func (s *service) Logout(ctx context.Context, token string) error {
	p, err := s.Authenticate(ctx, token)
	if err != nil {
		return err
	}
	if err := s.registry.Revoke(ctx, p.TokenID); err != nil {
		return err
	}
	s.logger.Info("logout", zap.String("username", p.Username))
	return nil
}

// Register stores a user with a freshly hashed password.
func (s *service) Register(ctx context.Context, u club.User, password string) error {
	if u.Username == "" || password == "" {
		return fmt.Errorf("username and password are required: %w", club.ErrInvalidInput)
	}
	switch u.Role {
	case club.RoleAdmin:
	case club.RoleCollector:
		if u.CollectorID == nil {
			return fmt.Errorf("collector user needs a collector id: %w", club.ErrInvalidInput)
		}
	case club.RoleMember:
		if u.MemberID == nil {
			return fmt.Errorf("member user needs a member id: %w", club.ErrInvalidInput)
		}
	default:
		return fmt.Errorf("unknown role %q: %w", u.Role, club.ErrInvalidInput)
	}

	hash, salt, err := HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	u.PasswordHash = hash
	u.Salt = salt
	return s.store.CreateUser(ctx, &u)
}
