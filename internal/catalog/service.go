// internal/catalog/service.go
package catalog

import (
	"context"

	"clubnexus/internal/club"
)

// Service defines the interface for the fee catalog: activities, fee
// categories, zones and collectors.
type Service interface {
	ListActivities(ctx context.Context, filter ActivityFilter) ([]club.Activity, error)
	CreateActivity(ctx context.Context, in ActivityInput) (*club.Activity, error)
	UpdateActivity(ctx context.Context, id int64, in ActivityInput) (*club.Activity, error)
	DeleteActivity(ctx context.Context, id int64) error

	ListFeeCategories(ctx context.Context) ([]club.FeeCategory, error)
	ListZones(ctx context.Context) ([]club.Zone, error)

	ListCollectors(ctx context.Context) ([]club.Collector, error)
	CreateCollector(ctx context.Context, in CollectorInput) (*club.Collector, error)
	UpdateCollector(ctx context.Context, id int64, in CollectorInput) (*club.Collector, error)
	DeleteCollector(ctx context.Context, id int64) error
}
