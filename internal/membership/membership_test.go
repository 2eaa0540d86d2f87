package membership

import (
	"context"
	"errors"
	"testing"
	"time"

	"clubnexus/internal/audit"
	"clubnexus/internal/club"
	"clubnexus/internal/seed"
	"clubnexus/internal/session"
	"clubnexus/internal/store/memory"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"pgregory.net/rapid"
)

func int64p(v int64) *int64 { return &v }
func strp(v string) *string { return &v }

func asAdmin() context.Context {
	return session.WithPrincipal(context.Background(), &session.Principal{Username: "admin", Role: club.RoleAdmin})
}

func asCollector(id int64) context.Context {
	return session.WithPrincipal(context.Background(), &session.Principal{
		Username: "collector", Role: club.RoleCollector, CollectorID: int64p(id),
	})
}

func asMember(id int64) context.Context {
	return session.WithPrincipal(context.Background(), &session.Principal{Username: "member", Role: club.RoleMember, MemberID: int64p(id)})
}

func newSeeded(t require.TestingT) (*service, club.Store, *audit.MemoryLog) {
	st := memory.New()
	require.NoError(t, seed.Load(context.Background(), st))
	log := audit.NewMemoryLog()
	svc := NewService(st, audit.NewRecorder(log, zap.NewNop()), zap.NewNop()).(*service)
	svc.now = func() time.Time { return time.Date(2024, 6, 10, 15, 0, 0, 0, time.UTC) }
	return svc, st, log
}

func ids(members []club.Member) []int64 {
	out := make([]int64, 0, len(members))
	for _, m := range members {
		out = append(out, m.ID)
	}
	return out
}

func TestListMembersScopedByRole(t *testing.T) {
	svc, _, _ := newSeeded(t)

	tests := []struct {
		name string
		ctx  context.Context
		want []int64
	}{
		{"admin sees all", asAdmin(), []int64{1, 2, 3, 4, 5}},
		{"collector sees own zone", asCollector(1), []int64{1, 3, 5}},
		{"member sees self", asMember(4), []int64{4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			members, err := svc.ListMembers(tt.ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(members))
		})
	}

	_, err := svc.ListMembers(context.Background())
	assert.True(t, errors.Is(err, club.ErrUnauthenticated))
}

func TestGetMemberScope(t *testing.T) {
	svc, _, _ := newSeeded(t)

	m, err := svc.GetMember(asMember(2), 2)
	require.NoError(t, err)
	assert.Equal(t, "Maria Gomez", m.FullName())

	_, err = svc.GetMember(asMember(2), 3)
	assert.True(t, errors.Is(err, club.ErrUnauthorized))

	_, err = svc.GetMember(asCollector(1), 4)
	assert.True(t, errors.Is(err, club.ErrUnauthorized))

	_, err = svc.GetMember(asAdmin(), 99)
	assert.True(t, errors.Is(err, club.ErrNotFound))
}

func TestCollectorScopeFollowsReassignment(t *testing.T) {
	svc, st, _ := newSeeded(t)
	ctx := asCollector(1)
	bg := context.Background()

	c, err := st.GetCollector(bg, 1)
	require.NoError(t, err)
	c.ZoneID = 1
	require.NoError(t, st.UpdateCollector(bg, c))

	members, err := svc.ListMembers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{4}, ids(members))

	_, err = svc.GetMember(ctx, 3)
	assert.True(t, errors.Is(err, club.ErrUnauthorized))
	m, err := svc.GetMember(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, "Ana Martinez", m.FullName())
}

func TestCreateMemberDefaultsAndValidation(t *testing.T) {
	svc, _, log := newSeeded(t)
	ctx := asAdmin()

	m, err := svc.CreateMember(ctx, MemberInput{
		FirstName: "Sofia", LastName: "Diaz", Email: "sofia@example.com",
		CategoryID: "infantil", ZoneID: 4, ActivityIDs: []int64{4, 2, 4},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(6), m.ID)
	assert.Equal(t, club.StatusOwing, m.Status)
	assert.Equal(t, "2024-06-10", m.JoinDate.String())
	assert.Equal(t, []int64{2, 4}, m.ActivityIDs)

	events, err := log.List(context.Background(), 0, 0)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, audit.MemberCreated, events[0].EventType)

	valid := MemberInput{FirstName: "A", LastName: "B", CategoryID: "adulto", ZoneID: 1}
	tests := []struct {
		name   string
		mutate func(*MemberInput)
	}{
		{"missing first name", func(in *MemberInput) { in.FirstName = "" }},
		{"bad email", func(in *MemberInput) { in.Email = "not-an-email" }},
		{"unknown category", func(in *MemberInput) { in.CategoryID = "vitalicio" }},
		{"unknown zone", func(in *MemberInput) { in.ZoneID = 9 }},
		{"unknown status", func(in *MemberInput) { in.Status = "suspended" }},
		{"unknown activity", func(in *MemberInput) { in.ActivityIDs = []int64{42} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			_, err := svc.CreateMember(ctx, in)
			assert.True(t, errors.Is(err, club.ErrInvalidInput), "got %v", err)
		})
	}

	_, err = svc.CreateMember(asCollector(1), valid)
	assert.True(t, errors.Is(err, club.ErrUnauthorized))
}

func TestUpdateMemberRearmsOwing(t *testing.T) {
	svc, st, _ := newSeeded(t)
	ctx := asAdmin()

	owing := club.StatusOwing
	m, err := svc.UpdateMember(ctx, 1, MemberPatch{Status: &owing, Phone: strp("555-0101")})
	require.NoError(t, err)
	assert.Equal(t, club.StatusOwing, m.Status)
	assert.Equal(t, "555-0101", m.Phone)
	assert.Equal(t, "Juan", m.FirstName)
	assert.Equal(t, int64p(101), m.LockerID)

	stored, err := st.GetMember(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, club.StatusOwing, stored.Status)

	_, err = svc.UpdateMember(ctx, 1, MemberPatch{CategoryID: strp("vitalicio")})
	assert.True(t, errors.Is(err, club.ErrInvalidInput))
	_, err = svc.UpdateMember(ctx, 99, MemberPatch{Phone: strp("1")})
	assert.True(t, errors.Is(err, club.ErrNotFound))
}

func TestDeleteMemberFreesLocker(t *testing.T) {
	svc, st, _ := newSeeded(t)
	ctx := asAdmin()

	require.NoError(t, svc.DeleteMember(ctx, 3))

	l, err := st.GetLocker(ctx, 102)
	require.NoError(t, err)
	assert.Equal(t, club.LockerFree, l.Status)
	assert.Nil(t, l.MemberID)

	_, err = st.GetMember(ctx, 3)
	assert.True(t, errors.Is(err, club.ErrNotFound))
	assert.True(t, errors.Is(svc.DeleteMember(ctx, 3), club.ErrNotFound))
}

func TestEnrollmentScopeAndErrors(t *testing.T) {
	svc, _, log := newSeeded(t)

	m, err := svc.Enroll(asMember(2), 2, 4)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 4}, m.ActivityIDs)

	_, err = svc.Enroll(asMember(2), 3, 4)
	assert.True(t, errors.Is(err, club.ErrUnauthorized))
	_, err = svc.Enroll(asCollector(1), 3, 4)
	assert.True(t, errors.Is(err, club.ErrUnauthorized))
	_, err = svc.Enroll(asAdmin(), 99, 1)
	assert.True(t, errors.Is(err, club.ErrNotFound))
	_, err = svc.Enroll(asAdmin(), 2, 99)
	assert.True(t, errors.Is(err, club.ErrNotFound))

	m, err = svc.Unenroll(asAdmin(), 2, 2)
	require.NoError(t, err)
	assert.Equal(t, []int64{4}, m.ActivityIDs)

	events, err := log.List(context.Background(), 0, 0)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, audit.ActivityEnrolled, events[0].EventType)
	assert.Equal(t, audit.ActivityUnenrolled, events[1].EventType)
}

func TestEnrollmentIsIdempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		svc, st, _ := newSeeded(t)
		ctx := asAdmin()
		want := map[int64]bool{2: true}

		steps := rapid.IntRange(1, 20).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			activity := rapid.Int64Range(1, 4).Draw(t, "activity")
			if rapid.Bool().Draw(t, "enroll") {
				_, err := svc.Enroll(ctx, 2, activity)
				require.NoError(t, err)
				want[activity] = true
			} else {
				_, err := svc.Unenroll(ctx, 2, activity)
				require.NoError(t, err)
				delete(want, activity)
			}
		}

		m, err := st.GetMember(context.Background(), 2)
		require.NoError(t, err)
		require.Len(t, m.ActivityIDs, len(want))
		for _, id := range m.ActivityIDs {
			require.True(t, want[id], "unexpected activity %d", id)
		}
	})
}

func TestDashboardTotals(t *testing.T) {
	svc, _, _ := newSeeded(t)

	d, err := svc.Dashboard(asAdmin())
	require.NoError(t, err)
	assert.Equal(t, 5, d.TotalMembers)
	assert.Equal(t, 4, d.ActivityCount)
	assert.True(t, d.MonthlyFees.Equal(decimal.NewFromInt(7700)), d.MonthlyFees.String())

	_, err = svc.Dashboard(asMember(1))
	assert.True(t, errors.Is(err, club.ErrUnauthorized))
}

func TestProfileMonthlyTotal(t *testing.T) {
	svc, _, _ := newSeeded(t)

	p, err := svc.Profile(asMember(1))
	require.NoError(t, err)
	assert.Equal(t, "Adulto (18 a 64 años)", p.CategoryName)
	require.Len(t, p.Activities, 2)
	assert.Equal(t, "Natación", p.Activities[0].Name)
	require.NotNil(t, p.Locker)
	assert.Equal(t, int64(101), p.Locker.ID)
	assert.True(t, p.MonthlyTotal.Equal(decimal.NewFromInt(7000)), p.MonthlyTotal.String())

	p, err = svc.Profile(asMember(2))
	require.NoError(t, err)
	assert.Nil(t, p.Locker)
	assert.True(t, p.MonthlyTotal.Equal(decimal.NewFromInt(3200)), p.MonthlyTotal.String())

	_, err = svc.Profile(asAdmin())
	assert.True(t, errors.Is(err, club.ErrUnauthorized))
}
