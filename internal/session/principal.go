// internal/session/principal.go
package session

import (
	"context"
	"errors"
	"fmt"

	"clubnexus/internal/club"
)

// Principal is the authenticated identity attached to a request.
type Principal struct {
	Username    string    `json:"username"`
	Role        club.Role `json:"role"`
	MemberID    *int64    `json:"member_id,omitempty"`
	CollectorID *int64    `json:"collector_id,omitempty"`
	TokenID     string    `json:"-"`
}

// IsAdmin reports whether the principal holds the admin role.
func (p *Principal) IsAdmin() bool {
	return p.Role == club.RoleAdmin
}

// IsCollector reports whether the principal is the given collector.
func (p *Principal) IsCollector(id int64) bool {
	return p.Role == club.RoleCollector && p.CollectorID != nil && *p.CollectorID == id
}

// IsMember reports whether the principal is the given member.
func (p *Principal) IsMember(id int64) bool {
	return p.Role == club.RoleMember && p.MemberID != nil && *p.MemberID == id
}

type principalKey struct{}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// FromContext returns the request principal, or ErrUnauthenticated when the
// request carries none.
func FromContext(ctx context.Context) (*Principal, error) {
	p, ok := ctx.Value(principalKey{}).(*Principal)
	if !ok || p == nil {
		return nil, club.ErrUnauthenticated
	}
	return p, nil
}

// Require returns the principal when it holds one of the roles.
func Require(ctx context.Context, roles ...club.Role) (*Principal, error) {
	p, err := FromContext(ctx)
	if err != nil {
		return nil, err
	}
	for _, r := range roles {
		if p.Role == r {
			return p, nil
		}
	}
	return nil, fmt.Errorf("role %s not permitted: %w", p.Role, club.ErrUnauthorized)
}

// CollectorZone reads the zone currently assigned to the principal's
// collector record. A collector whose record is gone has no zone.
func CollectorZone(ctx context.Context, st club.Store, p *Principal) (int64, error) {
	if p.Role != club.RoleCollector || p.CollectorID == nil {
		return 0, fmt.Errorf("%s is not a collector: %w", p.Username, club.ErrUnauthorized)
	}
	c, err := st.GetCollector(ctx, *p.CollectorID)
	if err != nil {
		if errors.Is(err, club.ErrNotFound) {
			return 0, fmt.Errorf("collector %d no longer exists: %w", *p.CollectorID, club.ErrUnauthorized)
		}
		return 0, fmt.Errorf("resolve collector zone: %w", err)
	}
	return c.ZoneID, nil
}
