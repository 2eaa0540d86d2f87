// internal/catalog/implementation.go
package catalog

import (
	"context"
	"errors"
	"fmt"

	"clubnexus/internal/club"
	"clubnexus/internal/session"

	"go.uber.org/zap"
)

// service implements the Service interface.
type service struct {
	store  club.Store
	logger *zap.Logger
}

// NewService creates a new catalog service instance.
func NewService(store club.Store, logger *zap.Logger) Service {
	return &service{store: store, logger: logger}
}

// ListActivities returns the activities matching filter, ordered by id.
func (s *service) ListActivities(ctx context.Context, filter ActivityFilter) ([]club.Activity, error) {
	if _, err := session.FromContext(ctx); err != nil {
		return nil, err
	}
	if filter.Schedule != "" && !validSchedule(filter.Schedule) {
		return nil, fmt.Errorf("unknown schedule %q: %w", filter.Schedule, club.ErrInvalidInput)
	}

	all, err := s.store.ListActivities(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	out := make([]club.Activity, 0, len(all))
	for _, a := range all {
		if filter.Match(a) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *service) CreateActivity(ctx context.Context, in ActivityInput) (*club.Activity, error) {
	if _, err := session.Require(ctx, club.RoleAdmin); err != nil {
		return nil, err
	}
	if err := validateActivity(in); err != nil {
		return nil, err
	}

	a := &club.Activity{Name: in.Name, Cost: in.Cost, Schedule: in.Schedule}
	if err := s.store.CreateActivity(ctx, a); err != nil {
		return nil, fmt.Errorf("failed to create activity: %w", err)
	}
	s.logger.Info("activity created", zap.Int64("activity_id", a.ID), zap.String("name", a.Name))
	return a, nil
}

func (s *service) UpdateActivity(ctx context.Context, id int64, in ActivityInput) (*club.Activity, error) {
	if _, err := session.Require(ctx, club.RoleAdmin); err != nil {
		return nil, err
	}
	if err := validateActivity(in); err != nil {
		return nil, err
	}

	a := &club.Activity{ID: id, Name: in.Name, Cost: in.Cost, Schedule: in.Schedule}
	if err := s.store.UpdateActivity(ctx, a); err != nil {
		return nil, fmt.Errorf("failed to update activity: %w", err)
	}
	return a, nil
}

// DeleteActivity removes the activity and unenrolls every member from it.
func (s *service) DeleteActivity(ctx context.Context, id int64) error {
	if _, err := session.Require(ctx, club.RoleAdmin); err != nil {
		return err
	}

	var unenrolled int
	err := s.store.WithTx(ctx, func(tx club.Store) error {
		if _, err := tx.GetActivity(ctx, id); err != nil {
			return err
		}
		members, err := tx.ListMembers(ctx)
		if err != nil {
			return err
		}
		for i := range members {
			m := &members[i]
			if !m.EnrolledIn(id) {
				continue
			}
			m.ActivityIDs = without(m.ActivityIDs, id)
			if err := tx.UpdateMember(ctx, m); err != nil {
				return err
			}
			unenrolled++
		}
		return tx.DeleteActivity(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("failed to delete activity: %w", err)
	}
	s.logger.Info("activity deleted", zap.Int64("activity_id", id), zap.Int("unenrolled", unenrolled))
	return nil
}

func (s *service) ListFeeCategories(ctx context.Context) ([]club.FeeCategory, error) {
	if _, err := session.FromContext(ctx); err != nil {
		return nil, err
	}
	return s.store.ListFeeCategories(ctx)
}

func (s *service) ListZones(ctx context.Context) ([]club.Zone, error) {
	if _, err := session.FromContext(ctx); err != nil {
		return nil, err
	}
	return s.store.ListZones(ctx)
}

func (s *service) ListCollectors(ctx context.Context) ([]club.Collector, error) {
	if _, err := session.Require(ctx, club.RoleAdmin); err != nil {
		return nil, err
	}
	return s.store.ListCollectors(ctx)
}

func (s *service) CreateCollector(ctx context.Context, in CollectorInput) (*club.Collector, error) {
	if _, err := session.Require(ctx, club.RoleAdmin); err != nil {
		return nil, err
	}
	if err := s.checkCollector(ctx, in); err != nil {
		return nil, err
	}

	c := &club.Collector{Name: in.Name, ZoneID: in.ZoneID}
	if err := s.store.CreateCollector(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to create collector: %w", err)
	}
	s.logger.Info("collector created", zap.Int64("collector_id", c.ID), zap.Int64("zone_id", c.ZoneID))
	return c, nil
}

func (s *service) UpdateCollector(ctx context.Context, id int64, in CollectorInput) (*club.Collector, error) {
	if _, err := session.Require(ctx, club.RoleAdmin); err != nil {
		return nil, err
	}
	if err := s.checkCollector(ctx, in); err != nil {
		return nil, err
	}

	c := &club.Collector{ID: id, Name: in.Name, ZoneID: in.ZoneID}
	if err := s.store.UpdateCollector(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to update collector: %w", err)
	}
	return c, nil
}

func (s *service) DeleteCollector(ctx context.Context, id int64) error {
	if _, err := session.Require(ctx, club.RoleAdmin); err != nil {
		return err
	}
	if err := s.store.DeleteCollector(ctx, id); err != nil {
		return fmt.Errorf("failed to delete collector: %w", err)
	}
	return nil
}

func (s *service) checkCollector(ctx context.Context, in CollectorInput) error {
	if err := club.Validate(in); err != nil {
		return err
	}
	if _, err := s.store.GetZone(ctx, in.ZoneID); err != nil {
		if errors.Is(err, club.ErrNotFound) {
			return fmt.Errorf("zone %d does not exist: %w", in.ZoneID, club.ErrInvalidInput)
		}
		return err
	}
	return nil
}

func validateActivity(in ActivityInput) error {
	if err := club.Validate(in); err != nil {
		return err
	}
	if in.Cost.IsNegative() {
		return fmt.Errorf("activity cost must not be negative: %w", club.ErrInvalidInput)
	}
	return nil
}

func validSchedule(s club.Schedule) bool {
	switch s {
	case club.ScheduleMorning, club.ScheduleAfternoon, club.ScheduleEvening:
		return true
	}
	return false
}

func without(ids []int64, id int64) []int64 {
	out := make([]int64, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
