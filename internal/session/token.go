// internal/session/token.go
package session

import (
	"errors"
	"fmt"
	"time"

	"clubnexus/internal/club"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// Claims is the JWT payload for a session.
type Claims struct {
	Role        club.Role `json:"role"`
	MemberID    *int64    `json:"mid,omitempty"`
	CollectorID *int64    `json:"cid,omitempty"`
	jwt.RegisteredClaims
}

// Signer issues and verifies HS256 session tokens.
type Signer struct {
	secret []byte
	ttl    time.Duration
}

func NewSigner(secret string, ttl time.Duration) *Signer {
	return &Signer{secret: []byte(secret), ttl: ttl}
}

// Sign issues a token for p with a fresh token id, which is stored on p.
func (s *Signer) Sign(p *Principal, now time.Time) (string, time.Time, error) {
	p.TokenID = uuid.NewString()
	expires := now.Add(s.ttl)

	claims := Claims{
		Role:        p.Role,
		MemberID:    p.MemberID,
		CollectorID: p.CollectorID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        p.TokenID,
			Subject:   p.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return token, expires, nil
}

// Parse verifies the signature and expiry of a token.
func (s *Signer) Parse(token string) (*Principal, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		var verr *jwt.ValidationError
		if errors.As(err, &verr) && verr.Errors&jwt.ValidationErrorExpired != 0 {
			return nil, fmt.Errorf("token expired: %w", club.ErrUnauthenticated)
		}
		return nil, fmt.Errorf("invalid token: %w", club.ErrUnauthenticated)
	}
	if claims.ID == "" || claims.Subject == "" {
		return nil, fmt.Errorf("token missing subject: %w", club.ErrUnauthenticated)
	}

	return &Principal{
		Username:    claims.Subject,
		Role:        claims.Role,
		MemberID:    claims.MemberID,
		CollectorID: claims.CollectorID,
		TokenID:     claims.ID,
	}, nil
}
