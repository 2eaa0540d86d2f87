// internal/lockers/implementation.go
package lockers

import (
	"context"
	"fmt"

	"clubnexus/internal/audit"
	"clubnexus/internal/club"
	"clubnexus/internal/session"

	"github.com/shopspring/decimal"
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
	assigned metric.Int64UpDownCounter
}

// NewService creates a new locker service instance.
func NewService(store club.Store, recorder *audit.Recorder, logger *zap.Logger) Service {
	assigned, err := otel.Meter("clubnexus/lockers").Int64UpDownCounter("club.lockers.occupied",
		metric.WithDescription("Lockers assigned minus lockers released"),
	)
	if err != nil {
		logger.Warn("create locker counter", zap.Error(err))
	}
	return &service{
		store:    store,
		audit:    recorder,
		logger:   logger,
		tracer:   otel.Tracer("clubnexus/lockers"),
		assigned: assigned,
	}
}

func (s *service) ListLockers(ctx context.Context) ([]club.Locker, error) {
	if _, err := session.Require(ctx, club.RoleAdmin); err != nil {
		return nil, err
	}
	return s.store.ListLockers(ctx)
}

func (s *service) CreateLocker(ctx context.Context, id int64, fee decimal.Decimal) (*club.Locker, error) {
	if _, err := session.Require(ctx, club.RoleAdmin); err != nil {
		return nil, err
	}
	if id <= 0 {
		return nil, fmt.Errorf("locker number must be positive: %w", club.ErrInvalidInput)
	}
	if fee.IsNegative() {
		return nil, fmt.Errorf("locker fee must not be negative: %w", club.ErrInvalidInput)
	}

	l := &club.Locker{ID: id, MonthlyFee: fee, Status: club.LockerFree}
	if err := s.store.CreateLocker(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

// UpdateLocker changes the monthly fee. Occupancy is owned by Assign and
// Release.
func (s *service) UpdateLocker(ctx context.Context, id int64, fee decimal.Decimal) (*club.Locker, error) {
	if _, err := session.Require(ctx, club.RoleAdmin); err != nil {
		return nil, err
	}
	if fee.IsNegative() {
		return nil, fmt.Errorf("locker fee must not be negative: %w", club.ErrInvalidInput)
	}

	var out *club.Locker
	err := s.store.WithTx(ctx, func(tx club.Store) error {
		l, err := tx.GetLocker(ctx, id)
		if err != nil {
			return err
		}
		l.MonthlyFee = fee
		if err := tx.UpdateLocker(ctx, l); err != nil {
			return err
		}
		out = l
		return nil
	})
	return out, err
}

func (s *service) DeleteLocker(ctx context.Context, id int64) error {
	if _, err := session.Require(ctx, club.RoleAdmin); err != nil {
		return err
	}
	return s.store.WithTx(ctx, func(tx club.Store) error {
		l, err := tx.GetLocker(ctx, id)
		if err != nil {
			return err
		}
		if l.Status == club.LockerOccupied {
			return fmt.Errorf("locker %d is occupied: %w", id, club.ErrConflict)
		}
		return tx.DeleteLocker(ctx, id)
	})
}

// Assign gives a free locker to a member. Both sides of the relation are
// written in one transaction.
func (s *service) Assign(ctx context.Context, lockerID, memberID int64) (*club.Locker, error) {
	ctx, span := s.tracer.Start(ctx, "lockers.assign",
		trace.WithAttributes(
			attribute.Int64("locker.id", lockerID),
			attribute.Int64("member.id", memberID),
		),
	)
	defer span.End()

	p, err := session.Require(ctx, club.RoleAdmin)
	if err != nil {
		return nil, err
	}

	var out *club.Locker
	err = s.store.WithTx(ctx, func(tx club.Store) error {
		l, err := tx.GetLocker(ctx, lockerID)
		if err != nil {
			return err
		}
		m, err := tx.GetMember(ctx, memberID)
		if err != nil {
			return err
		}
		if l.Status == club.LockerOccupied {
			return fmt.Errorf("locker %d is already occupied: %w", l.ID, club.ErrConflict)
		}
		if m.LockerID != nil && *m.LockerID != l.ID {
			return fmt.Errorf("member %d already holds locker %d: %w", m.ID, *m.LockerID, club.ErrConflict)
		}

		l.Status = club.LockerOccupied
		l.MemberID = &m.ID
		if err := tx.UpdateLocker(ctx, l); err != nil {
			return err
		}
		m.LockerID = &l.ID
		if err := tx.UpdateMember(ctx, m); err != nil {
			return err
		}
		out = l
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	if s.assigned != nil {
		s.assigned.Add(ctx, 1)
	}
	s.audit.Record(ctx, audit.NewEvent("locker", lockerID, audit.LockerAssigned, map[string]int64{"member_id": memberID}).By(p.Username))
	s.logger.Info("locker assigned", zap.Int64("locker_id", lockerID), zap.Int64("member_id", memberID))
	return out, nil
}

// Release frees an occupied locker and clears the holder's reference.
func (s *service) Release(ctx context.Context, lockerID int64) (*club.Locker, error) {
	ctx, span := s.tracer.Start(ctx, "lockers.release",
		trace.WithAttributes(attribute.Int64("locker.id", lockerID)),
	)
	defer span.End()

	p, err := session.Require(ctx, club.RoleAdmin)
	if err != nil {
		return nil, err
	}

	var out *club.Locker
	var holder int64
	err = s.store.WithTx(ctx, func(tx club.Store) error {
		l, err := tx.GetLocker(ctx, lockerID)
		if err != nil {
			return err
		}
		if l.Status != club.LockerOccupied || l.MemberID == nil {
			return fmt.Errorf("locker %d is not occupied: %w", l.ID, club.ErrNotFound)
		}
		holder = *l.MemberID

		m, err := tx.GetMember(ctx, holder)
		if err != nil {
			return err
		}
		if m.LockerID != nil && *m.LockerID == l.ID {
			m.LockerID = nil
			if err := tx.UpdateMember(ctx, m); err != nil {
				return err
			}
		}

		l.Status = club.LockerFree
		l.MemberID = nil
		if err := tx.UpdateLocker(ctx, l); err != nil {
			return err
		}
		out = l
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	if s.assigned != nil {
		s.assigned.Add(ctx, -1)
	}
	s.audit.Record(ctx, audit.NewEvent("locker", lockerID, audit.LockerReleased, map[string]int64{"member_id": holder}).By(p.Username))
	s.logger.Info("locker released", zap.Int64("locker_id", lockerID), zap.Int64("member_id", holder))
	return out, nil
}
