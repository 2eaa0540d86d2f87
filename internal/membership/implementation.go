// internal/membership/implementation.go
package membership

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"clubnexus/internal/audit"
	"clubnexus/internal/club"
	"clubnexus/internal/session"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// service implements the Service interface.
type service struct {
	store  club.Store
	audit  *audit.Recorder
	logger *zap.Logger
	tracer trace.Tracer
	now    func() time.Time
}

// NewService creates a new membership service instance.
func NewService(store club.Store, recorder *audit.Recorder, logger *zap.Logger) Service {
	return &service{
		store:  store,
		audit:  recorder,
		logger: logger,
		tracer: otel.Tracer("clubnexus/membership"),
		now:    time.Now,
	}
}

// ListMembers returns the members visible to the caller: every member for an
// admin, the collector's zone for a collector, and only themself for a member.
func (s *service) ListMembers(ctx context.Context) ([]club.Member, error) {
	p, err := session.FromContext(ctx)
	if err != nil {
		return nil, err
	}

	scope, err := s.readScope(ctx, p)
	if err != nil {
		return nil, err
	}
	all, err := s.store.ListMembers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	out := make([]club.Member, 0, len(all))
	for i := range all {
		if scope.canRead(&all[i]) {
			out = append(out, all[i])
		}
	}
	return out, nil
}

func (s *service) GetMember(ctx context.Context, id int64) (*club.Member, error) {
	p, err := session.FromContext(ctx)
	if err != nil {
		return nil, err
	}

	scope, err := s.readScope(ctx, p)
	if err != nil {
		return nil, err
	}
	m, err := s.store.GetMember(ctx, id)
	if err != nil {
		return nil, err
	}
	if !scope.canRead(m) {
		return nil, fmt.Errorf("member %d is out of scope: %w", id, club.ErrUnauthorized)
	}
	return m, nil
}

func (s *service) CreateMember(ctx context.Context, in MemberInput) (*club.Member, error) {
	ctx, span := s.tracer.Start(ctx, "membership.create_member")
	defer span.End()

	p, err := session.Require(ctx, club.RoleAdmin)
	if err != nil {
		return nil, err
	}
	if err := club.Validate(in); err != nil {
		return nil, err
	}

	m := &club.Member{
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		NationalID:  in.NationalID,
		Email:       in.Email,
		Phone:       in.Phone,
		Address:     in.Address,
		JoinDate:    in.JoinDate,
		BirthDate:   in.BirthDate,
		CategoryID:  in.CategoryID,
		ZoneID:      in.ZoneID,
		Status:      in.Status,
		ActivityIDs: dedupe(in.ActivityIDs),
	}
	if m.Status == "" {
		m.Status = club.StatusOwing
	}
	if m.JoinDate.IsZero() {
		m.JoinDate = club.NewDate(s.now())
	}

	err = s.store.WithTx(ctx, func(tx club.Store) error {
		if err := checkReferences(ctx, tx, m); err != nil {
			return err
		}
		for _, id := range m.ActivityIDs {
			if _, err := tx.GetActivity(ctx, id); err != nil {
				return asInvalid(err, fmt.Sprintf("activity %d does not exist", id))
			}
		}
		return tx.CreateMember(ctx, m)
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.SetAttributes(attribute.Int64("member.id", m.ID))
	s.audit.Record(ctx, audit.NewEvent("member", m.ID, audit.MemberCreated, m).By(p.Username))
	s.logger.Info("member created", zap.Int64("member_id", m.ID), zap.Int64("zone_id", m.ZoneID))
	return m, nil
}

// UpdateMember applies an admin edit. This is the only way a Paid or Inactive
// member returns to Owing.
func (s *service) UpdateMember(ctx context.Context, id int64, patch MemberPatch) (*club.Member, error) {
	p, err := session.Require(ctx, club.RoleAdmin)
	if err != nil {
		return nil, err
	}
	if err := club.Validate(patch); err != nil {
		return nil, err
	}

	var out *club.Member
	err = s.store.WithTx(ctx, func(tx club.Store) error {
		m, err := tx.GetMember(ctx, id)
		if err != nil {
			return err
		}
		patch.apply(m)
		if err := checkReferences(ctx, tx, m); err != nil {
			return err
		}
		if err := tx.UpdateMember(ctx, m); err != nil {
			return err
		}
		out = m
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, audit.NewEvent("member", id, audit.MemberUpdated, patch).By(p.Username))
	s.logger.Info("member updated", zap.Int64("member_id", id), zap.String("status", string(out.Status)))
	return out, nil
}

// DeleteMember removes the member and frees the locker they hold.
func (s *service) DeleteMember(ctx context.Context, id int64) error {
	p, err := session.Require(ctx, club.RoleAdmin)
	if err != nil {
		return err
	}

	err = s.store.WithTx(ctx, func(tx club.Store) error {
		m, err := tx.GetMember(ctx, id)
		if err != nil {
			return err
		}
		if m.LockerID != nil {
			l, err := tx.GetLocker(ctx, *m.LockerID)
			if err != nil && !errors.Is(err, club.ErrNotFound) {
				return err
			}
			if l != nil && l.MemberID != nil && *l.MemberID == m.ID {
				l.Status = club.LockerFree
				l.MemberID = nil
				if err := tx.UpdateLocker(ctx, l); err != nil {
					return err
				}
			}
		}
		return tx.DeleteMember(ctx, id)
	})
	if err != nil {
		return err
	}

	s.audit.Record(ctx, audit.NewEvent("member", id, audit.MemberDeleted, nil).By(p.Username))
	s.logger.Info("member deleted", zap.Int64("member_id", id))
	return nil
}

// Enroll adds the activity to the member's set. Enrolling twice is a no-op.
func (s *service) Enroll(ctx context.Context, memberID, activityID int64) (*club.Member, error) {
	p, err := s.selfOrAdmin(ctx, memberID)
	if err != nil {
		return nil, err
	}

	var out *club.Member
	var changed bool
	err = s.store.WithTx(ctx, func(tx club.Store) error {
		m, err := tx.GetMember(ctx, memberID)
		if err != nil {
			return err
		}
		if _, err := tx.GetActivity(ctx, activityID); err != nil {
			return err
		}
		out = m
		if m.EnrolledIn(activityID) {
			return nil
		}
		m.ActivityIDs = append(m.ActivityIDs, activityID)
		sort.Slice(m.ActivityIDs, func(i, j int) bool { return m.ActivityIDs[i] < m.ActivityIDs[j] })
		changed = true
		return tx.UpdateMember(ctx, m)
	})
	if err != nil {
		return nil, err
	}

	if changed {
		s.audit.Record(ctx, audit.NewEvent("member", memberID, audit.ActivityEnrolled,
			map[string]int64{"activity_id": activityID}).By(p.Username))
	}
	return out, nil
}

// Unenroll removes the activity from the member's set. Removing an activity
// the member is not enrolled in is a no-op.
func (s *service) Unenroll(ctx context.Context, memberID, activityID int64) (*club.Member, error) {
	p, err := s.selfOrAdmin(ctx, memberID)
	if err != nil {
		return nil, err
	}

	var out *club.Member
	var changed bool
	err = s.store.WithTx(ctx, func(tx club.Store) error {
		m, err := tx.GetMember(ctx, memberID)
		if err != nil {
			return err
		}
		out = m
		if !m.EnrolledIn(activityID) {
			return nil
		}
		kept := m.ActivityIDs[:0]
		for _, id := range m.ActivityIDs {
			if id != activityID {
				kept = append(kept, id)
			}
		}
		m.ActivityIDs = kept
		changed = true
		return tx.UpdateMember(ctx, m)
	})
	if err != nil {
		return nil, err
	}

	if changed {
		s.audit.Record(ctx, audit.NewEvent("member", memberID, audit.ActivityUnenrolled,
			map[string]int64{"activity_id": activityID}).By(p.Username))
	}
	return out, nil
}

// Dashboard totals the club for the admin overview. MonthlyFees sums the
// category fee of every member who is not inactive.
func (s *service) Dashboard(ctx context.Context) (*Dashboard, error) {
	if _, err := session.Require(ctx, club.RoleAdmin); err != nil {
		return nil, err
	}

	members, err := s.store.ListMembers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	activities, err := s.store.ListActivities(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	categories, err := s.store.ListFeeCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	fees := make(map[string]decimal.Decimal, len(categories))
	for _, c := range categories {
		fees[c.ID] = c.MonthlyFee
	}
	d := &Dashboard{TotalMembers: len(members), ActivityCount: len(activities), MonthlyFees: decimal.Zero}
	for _, m := range members {
		if m.Status != club.StatusInactive {
			d.MonthlyFees = d.MonthlyFees.Add(fees[m.CategoryID])
		}
	}
	return d, nil
}

// Profile returns the calling member's record with the monthly total of
// their category fee, enrolled activities and held locker.
func (s *service) Profile(ctx context.Context) (*Profile, error) {
	p, err := session.Require(ctx, club.RoleMember)
	if err != nil {
		return nil, err
	}
	if p.MemberID == nil {
		return nil, fmt.Errorf("user %s has no member record: %w", p.Username, club.ErrNotFound)
	}

	m, err := s.store.GetMember(ctx, *p.MemberID)
	if err != nil {
		return nil, err
	}

	prof := &Profile{Member: *m, Activities: []club.Activity{}, MonthlyTotal: decimal.Zero}
	if c, err := s.store.GetFeeCategory(ctx, m.CategoryID); err == nil {
		prof.CategoryName = c.Name
		prof.MonthlyTotal = prof.MonthlyTotal.Add(c.MonthlyFee)
	} else if !errors.Is(err, club.ErrNotFound) {
		return nil, err
	}

	for _, id := range m.ActivityIDs {
		a, err := s.store.GetActivity(ctx, id)
		if errors.Is(err, club.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		prof.Activities = append(prof.Activities, *a)
		prof.MonthlyTotal = prof.MonthlyTotal.Add(a.Cost)
	}

	if m.LockerID != nil {
		l, err := s.store.GetLocker(ctx, *m.LockerID)
		if err != nil && !errors.Is(err, club.ErrNotFound) {
			return nil, err
		}
		if l != nil {
			prof.Locker = l
			prof.MonthlyTotal = prof.MonthlyTotal.Add(l.MonthlyFee)
		}
	}
	return prof, nil
}

func (s *service) selfOrAdmin(ctx context.Context, memberID int64) (*session.Principal, error) {
	p, err := session.Require(ctx, club.RoleAdmin, club.RoleMember)
	if err != nil {
		return nil, err
	}
	if p.Role == club.RoleMember && !p.IsMember(memberID) {
		return nil, fmt.Errorf("user %s may only change their own enrollments: %w", p.Username, club.ErrUnauthorized)
	}
	return p, nil
}

// readScope pairs a principal with the zone its collector record holds now.
type readScope struct {
	p    *session.Principal
	zone int64
}

func (s *service) readScope(ctx context.Context, p *session.Principal) (readScope, error) {
	scope := readScope{p: p}
	if p.Role == club.RoleCollector {
		zone, err := session.CollectorZone(ctx, s.store, p)
		if err != nil {
			return scope, err
		}
		scope.zone = zone
	}
	return scope, nil
}

func (r readScope) canRead(m *club.Member) bool {
	switch r.p.Role {
	case club.RoleAdmin:
		return true
	case club.RoleCollector:
		return r.zone == m.ZoneID
	case club.RoleMember:
		return r.p.IsMember(m.ID)
	}
	return false
}

// checkReferences verifies the member's status, category and zone.
func checkReferences(ctx context.Context, st club.Store, m *club.Member) error {
	if !m.Status.Valid() {
		return fmt.Errorf("unknown status %q: %w", m.Status, club.ErrInvalidInput)
	}
	if _, err := st.GetFeeCategory(ctx, m.CategoryID); err != nil {
		return asInvalid(err, fmt.Sprintf("category %q does not exist", m.CategoryID))
	}
	if _, err := st.GetZone(ctx, m.ZoneID); err != nil {
		return asInvalid(err, fmt.Sprintf("zone %d does not exist", m.ZoneID))
	}
	return nil
}

// asInvalid reports a dangling reference in the input as invalid input.
func asInvalid(err error, msg string) error {
	if errors.Is(err, club.ErrNotFound) {
		return fmt.Errorf("%s: %w", msg, club.ErrInvalidInput)
	}
	return err
}

func dedupe(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
