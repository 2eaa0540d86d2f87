// internal/collection/implementation.go
package collection

import (
	"context"
	"fmt"
	"time"

	"clubnexus/internal/audit"
	"clubnexus/internal/club"
	"clubnexus/internal/session"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// service implements the Service interface.
type service struct {
	store    club.Store
	audit    *audit.Recorder
	logger   *zap.Logger
	tracer   trace.Tracer
	recorded metric.Int64Counter
	now      func() time.Time
}

// NewService creates a new collection service instance.
func NewService(store club.Store, recorder *audit.Recorder, logger *zap.Logger) Service {
	recorded, err := otel.Meter("clubnexus/collection").Int64Counter("club.payments.recorded",
		metric.WithDescription("Payments recorded by collectors"),
	)
	if err != nil {
		logger.Warn("create payments counter", zap.Error(err))
	}
	return &service{
		store:    store,
		audit:    recorder,
		logger:   logger,
		tracer:   otel.Tracer("clubnexus/collection"),
		recorded: recorded,
		now:      time.Now,
	}
}

// collectorInScope resolves the collector and checks that the principal may
// see its reports: admins see all, collectors only themselves.
func (s *service) collectorInScope(ctx context.Context, collectorID int64) (*club.Collector, error) {
	p, err := session.FromContext(ctx)
	if err != nil {
		return nil, err
	}
	c, err := s.store.GetCollector(ctx, collectorID)
	if err != nil {
		return nil, err
	}
	if !p.IsAdmin() && !p.IsCollector(c.ID) {
		return nil, fmt.Errorf("%s may not read reports of collector %d: %w", p.Username, c.ID, club.ErrUnauthorized)
	}
	return c, nil
}

// CollectorReport computes the amount due, commission and net payable for
// the collector's zone.
func (s *service) CollectorReport(ctx context.Context, collectorID int64) (*CollectorReport, error) {
	ctx, span := s.tracer.Start(ctx, "collection.collector_report",
		trace.WithAttributes(attribute.Int64("collector.id", collectorID)),
	)
	defer span.End()

	c, err := s.collectorInScope(ctx, collectorID)
	if err != nil {
		return nil, err
	}
	members, err := s.store.ListMembers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	categories, err := s.store.ListFeeCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list fee categories: %w", err)
	}

	report := BuildReport(*c, members, feeTable(categories))
	span.SetAttributes(
		attribute.Int("owing.count", report.OwingCount),
		attribute.String("amount.due", report.AmountDue.String()),
	)
	return &report, nil
}

// OwingMembers lists the owing members of a zone.
func (s *service) OwingMembers(ctx context.Context, zoneID int64) ([]club.Member, error) {
	p, err := session.FromContext(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.GetZone(ctx, zoneID); err != nil {
		return nil, err
	}
	switch p.Role {
	case club.RoleAdmin:
	case club.RoleCollector:
		zone, err := session.CollectorZone(ctx, s.store, p)
		if err != nil {
			return nil, err
		}
		if zone != zoneID {
			return nil, fmt.Errorf("collector %s works zone %d, not %d: %w", p.Username, zone, zoneID, club.ErrUnauthorized)
		}
	default:
		return nil, fmt.Errorf("role %s may not list owing members: %w", p.Role, club.ErrUnauthorized)
	}

	members, err := s.store.ListMembers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return OwingInZone(members, zoneID), nil
}

// RecordPayment appends a payment and marks the member paid. The owing check
// is a plain read ahead of the write, so two submissions racing past it both
// record a payment.
func (s *service) RecordPayment(ctx context.Context, req PaymentRequest) (*club.Payment, error) {
	ctx, span := s.tracer.Start(ctx, "collection.record_payment",
		trace.WithAttributes(
			attribute.Int64("member.id", req.MemberID),
			attribute.Int64("collector.id", req.CollectorID),
		),
	)
	defer span.End()

	p, err := session.FromContext(ctx)
	if err != nil {
		return nil, err
	}
	switch p.Role {
	case club.RoleAdmin:
	case club.RoleCollector:
		if req.CollectorID == 0 && p.CollectorID != nil {
			req.CollectorID = *p.CollectorID
		}
		if !p.IsCollector(req.CollectorID) {
			return nil, fmt.Errorf("%s may not record payments as collector %d: %w", p.Username, req.CollectorID, club.ErrUnauthorized)
		}
	default:
		return nil, fmt.Errorf("role %s may not record payments: %w", p.Role, club.ErrUnauthorized)
	}

	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("amount must be positive: %w", club.ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return nil, fmt.Errorf("payment date is required: %w", club.ErrInvalidInput)
	}

	member, err := s.store.GetMember(ctx, req.MemberID)
	if err != nil {
		return nil, err
	}
	if member.Status != club.StatusOwing {
		return nil, fmt.Errorf("member %d is %s, not owing: %w", member.ID, member.Status, club.ErrConflict)
	}
	collector, err := s.store.GetCollector(ctx, req.CollectorID)
	if err != nil {
		return nil, err
	}
	if p.Role == club.RoleCollector && member.ZoneID != collector.ZoneID {
		return nil, fmt.Errorf("member %d is outside zone %d: %w", member.ID, collector.ZoneID, club.ErrUnauthorized)
	}

	payment := &club.Payment{
		Amount:      req.Amount,
		Date:        req.Date,
		MemberID:    member.ID,
		CollectorID: collector.ID,
		Status:      club.PaymentRecorded,
	}
	err = s.store.WithTx(ctx, func(tx club.Store) error {
		if err := tx.CreatePayment(ctx, payment); err != nil {
			return fmt.Errorf("append payment: %w", err)
		}
		current, err := tx.GetMember(ctx, member.ID)
		if err != nil {
			return err
		}
		current.Status = club.StatusPaid
		if err := tx.UpdateMember(ctx, current); err != nil {
			return fmt.Errorf("mark member paid: %w", err)
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	if s.recorded != nil {
		s.recorded.Add(ctx, 1, metric.WithAttributes(attribute.Int64("collector.id", collector.ID)))
	}
	s.audit.Record(ctx, audit.NewEvent("payment", payment.ID, audit.PaymentRecorded, map[string]any{
		"member_id":    payment.MemberID,
		"collector_id": payment.CollectorID,
		"amount":       payment.Amount,
		"date":         payment.Date,
	}).By(p.Username))
	s.logger.Info("payment recorded",
		zap.Int64("payment_id", payment.ID),
		zap.Int64("member_id", payment.MemberID),
		zap.Int64("collector_id", payment.CollectorID),
		zap.String("amount", payment.Amount.String()),
	)
	return payment, nil
}

// ListPayments returns every payment to admins and a collector's own
// payments to that collector.
func (s *service) ListPayments(ctx context.Context) ([]club.Payment, error) {
	p, err := session.FromContext(ctx)
	if err != nil {
		return nil, err
	}
	payments, err := s.store.ListPayments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}

	switch p.Role {
	case club.RoleAdmin:
		return payments, nil
	case club.RoleCollector:
		own := []club.Payment{}
		for _, pay := range payments {
			if p.IsCollector(pay.CollectorID) {
				own = append(own, pay)
			}
		}
		return own, nil
	}
	return nil, fmt.Errorf("role %s may not list payments: %w", p.Role, club.ErrUnauthorized)
}

// WeeklyReport lists the collector's payments dated within the last seven
// days, inclusive, plus the zone's current owing members.
func (s *service) WeeklyReport(ctx context.Context, collectorID int64) (*WeeklyReport, error) {
	ctx, span := s.tracer.Start(ctx, "collection.weekly_report",
		trace.WithAttributes(attribute.Int64("collector.id", collectorID)),
	)
	defer span.End()

	c, err := s.collectorInScope(ctx, collectorID)
	if err != nil {
		return nil, err
	}
	payments, err := s.store.ListPayments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	members, err := s.store.ListMembers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}

	// The window is whole days: a payment dated exactly seven days ago is included.
	since := club.NewDate(s.now().AddDate(0, 0, -7))
	entries := WeeklyEntries(payments, members, c.ID, since)
	report := &WeeklyReport{
		CollectorID:   c.ID,
		CollectorName: c.Name,
		ZoneID:        c.ZoneID,
		Since:         since,
		Payments:      entries,
		Owing:         OwingInZone(members, c.ZoneID),
	}
	for _, e := range entries {
		report.Collected = report.Collected.Add(e.Amount)
	}
	span.SetAttributes(attribute.Int("payments.count", len(entries)))
	return report, nil
}

// ExportWeeklyReport renders the weekly report as an XLSX workbook.
func (s *service) ExportWeeklyReport(ctx context.Context, collectorID int64) ([]byte, error) {
	report, err := s.WeeklyReport(ctx, collectorID)
	if err != nil {
		return nil, err
	}
	return WeeklyWorkbook(report)
}
