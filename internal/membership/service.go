// internal/membership/service.go
package membership

import (
	"context"

	"clubnexus/internal/club"
)

// Service defines the interface for the member directory.
type Service interface {
	ListMembers(ctx context.Context) ([]club.Member, error)
	GetMember(ctx context.Context, id int64) (*club.Member, error)
	CreateMember(ctx context.Context, in MemberInput) (*club.Member, error)
	UpdateMember(ctx context.Context, id int64, patch MemberPatch) (*club.Member, error)
	DeleteMember(ctx context.Context, id int64) error

	Enroll(ctx context.Context, memberID, activityID int64) (*club.Member, error)
	Unenroll(ctx context.Context, memberID, activityID int64) (*club.Member, error)

	Dashboard(ctx context.Context) (*Dashboard, error)
	Profile(ctx context.Context) (*Profile, error)
}
