// internal/collection/service.go
package collection

import (
	"context"

	"clubnexus/internal/club"
)

// Service defines the interface for the collection engine. Every call is
// scoped by the principal carried in ctx.
type Service interface {
	CollectorReport(ctx context.Context, collectorID int64) (*CollectorReport, error)
	OwingMembers(ctx context.Context, zoneID int64) ([]club.Member, error)
	RecordPayment(ctx context.Context, req PaymentRequest) (*club.Payment, error)
	ListPayments(ctx context.Context) ([]club.Payment, error)
	WeeklyReport(ctx context.Context, collectorID int64) (*WeeklyReport, error)
	ExportWeeklyReport(ctx context.Context, collectorID int64) ([]byte, error)
}
