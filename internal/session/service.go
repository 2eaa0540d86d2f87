// internal/session/service.go
package session

import (
	"context"
	"time"

	"clubnexus/internal/club"
)

// Session is returned by a successful login.
type Session struct {
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expires_at"`
	User      *Principal `json:"user"`
}

// Service defines the interface for the session gate.
type Service interface {
	Login(ctx context.Context, username, password string) (*Session, error)
	Authenticate(ctx context.Context, token string) (*Principal, error)
	Logout(ctx context.Context, token string) error
	// Register stores a user with a freshly hashed password.
	Register(ctx context.Context, u club.User, password string) error
}
