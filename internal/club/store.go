// internal/club/store.go
package club

import "context"

// Store is the data-access layer shared by every service. Lookups of a
// missing record return an error wrapping ErrNotFound; inserts that collide
// with an existing key return an error wrapping ErrConflict.
type Store interface {
	ListMembers(ctx context.Context) ([]Member, error)
	GetMember(ctx context.Context, id int64) (*Member, error)
	CreateMember(ctx context.Context, m *Member) error
	UpdateMember(ctx context.Context, m *Member) error
	DeleteMember(ctx context.Context, id int64) error

	ListActivities(ctx context.Context) ([]Activity, error)
	GetActivity(ctx context.Context, id int64) (*Activity, error)
	CreateActivity(ctx context.Context, a *Activity) error
	UpdateActivity(ctx context.Context, a *Activity) error
	DeleteActivity(ctx context.Context, id int64) error

	ListFeeCategories(ctx context.Context) ([]FeeCategory, error)
	GetFeeCategory(ctx context.Context, id string) (*FeeCategory, error)
	CreateFeeCategory(ctx context.Context, c *FeeCategory) error

	ListZones(ctx context.Context) ([]Zone, error)
	GetZone(ctx context.Context, id int64) (*Zone, error)
	CreateZone(ctx context.Context, z *Zone) error

	ListCollectors(ctx context.Context) ([]Collector, error)
	GetCollector(ctx context.Context, id int64) (*Collector, error)
	CreateCollector(ctx context.Context, c *Collector) error
	UpdateCollector(ctx context.Context, c *Collector) error
	DeleteCollector(ctx context.Context, id int64) error

	ListLockers(ctx context.Context) ([]Locker, error)
	GetLocker(ctx context.Context, id int64) (*Locker, error)
	CreateLocker(ctx context.Context, l *Locker) error
	UpdateLocker(ctx context.Context, l *Locker) error
	DeleteLocker(ctx context.Context, id int64) error

	ListPayments(ctx context.Context) ([]Payment, error)
	CreatePayment(ctx context.Context, p *Payment) error

	GetUser(ctx context.Context, username string) (*User, error)
	CreateUser(ctx context.Context, u *User) error

	// WithTx runs fn against a transactional view of the store. Writes made
	// through the view become visible together when fn returns nil and are
	// discarded otherwise.
	WithTx(ctx context.Context, fn func(Store) error) error

	Ping(ctx context.Context) error
}
