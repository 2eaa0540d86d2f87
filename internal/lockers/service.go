// internal/lockers/service.go
package lockers

import (
	"context"

	"clubnexus/internal/club"

	"github.com/shopspring/decimal"
)

// Service defines the interface for the locker desk. All operations are
// restricted to admins.
type Service interface {
	ListLockers(ctx context.Context) ([]club.Locker, error)
	CreateLocker(ctx context.Context, id int64, fee decimal.Decimal) (*club.Locker, error)
	UpdateLocker(ctx context.Context, id int64, fee decimal.Decimal) (*club.Locker, error)
	DeleteLocker(ctx context.Context, id int64) error
	Assign(ctx context.Context, lockerID, memberID int64) (*club.Locker, error)
	Release(ctx context.Context, lockerID int64) (*club.Locker, error)
}
