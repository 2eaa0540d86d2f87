package lockers

import (
	"context"
	"errors"
	"testing"

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

func asAdmin() context.Context {
	return session.WithPrincipal(context.Background(), &session.Principal{Username: "admin", Role: club.RoleAdmin})
}

func newSeeded(t require.TestingT) (Service, club.Store, *audit.MemoryLog) {
	st := memory.New()
	require.NoError(t, seed.Load(context.Background(), st))
	log := audit.NewMemoryLog()
	return NewService(st, audit.NewRecorder(log, zap.NewNop()), zap.NewNop()), st, log
}

// checkInvariant asserts that a locker is occupied exactly when one member
// references it, and that the locker points back at that member.
func checkInvariant(t require.TestingT, st club.Store) {
	ctx := context.Background()
	members, err := st.ListMembers(ctx)
	require.NoError(t, err)
	lockers, err := st.ListLockers(ctx)
	require.NoError(t, err)

	holders := map[int64][]int64{}
	for _, m := range members {
		if m.LockerID != nil {
			holders[*m.LockerID] = append(holders[*m.LockerID], m.ID)
		}
	}
	for _, l := range lockers {
		h := holders[l.ID]
		if l.Status == club.LockerOccupied {
			require.Len(t, h, 1, "locker %d", l.ID)
			require.NotNil(t, l.MemberID)
			require.Equal(t, h[0], *l.MemberID)
		} else {
			require.Empty(t, h, "locker %d", l.ID)
			require.Nil(t, l.MemberID)
		}
	}
}

func TestAssignThenSecondAssignConflicts(t *testing.T) {
	svc, st, log := newSeeded(t)
	ctx := asAdmin()

	l, err := svc.Assign(ctx, 103, 2)
	require.NoError(t, err)
	assert.Equal(t, club.LockerOccupied, l.Status)
	assert.Equal(t, int64p(2), l.MemberID)

	m, err := st.GetMember(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64p(103), m.LockerID)

	_, err = svc.Assign(ctx, 103, 4)
	assert.True(t, errors.Is(err, club.ErrConflict))

	ana, err := st.GetMember(ctx, 4)
	require.NoError(t, err)
	assert.Nil(t, ana.LockerID)

	events, err := log.List(context.Background(), 0, 0)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, audit.LockerAssigned, events[0].EventType)
	checkInvariant(t, st)
}

func TestAssignRejectsMemberHoldingAnotherLocker(t *testing.T) {
	svc, st, _ := newSeeded(t)

	_, err := svc.Assign(asAdmin(), 104, 1)
	assert.True(t, errors.Is(err, club.ErrConflict))

	l, err := st.GetLocker(context.Background(), 104)
	require.NoError(t, err)
	assert.Equal(t, club.LockerFree, l.Status)
	checkInvariant(t, st)
}

func TestAssignUnknownLockerOrMember(t *testing.T) {
	svc, _, _ := newSeeded(t)

	_, err := svc.Assign(asAdmin(), 999, 2)
	assert.True(t, errors.Is(err, club.ErrNotFound))

	_, err = svc.Assign(asAdmin(), 103, 99)
	assert.True(t, errors.Is(err, club.ErrNotFound))
}

func TestReleaseClearsBothSides(t *testing.T) {
	svc, st, log := newSeeded(t)
	ctx := asAdmin()

	l, err := svc.Release(ctx, 101)
	require.NoError(t, err)
	assert.Equal(t, club.LockerFree, l.Status)
	assert.Nil(t, l.MemberID)

	m, err := st.GetMember(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, m.LockerID)

	_, err = svc.Release(ctx, 101)
	assert.True(t, errors.Is(err, club.ErrNotFound))

	events, err := log.List(context.Background(), 0, 0)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, audit.LockerReleased, events[0].EventType)
	checkInvariant(t, st)
}

var errWriteFailed = errors.New("write failed")

// failingStore fails the chosen write once a transaction is open, after the
// other side of the locker/member pair has already been written.
type failingStore struct {
	club.Store
	member, locker bool
}

func (s failingStore) WithTx(ctx context.Context, fn func(club.Store) error) error {
	return s.Store.WithTx(ctx, func(tx club.Store) error {
		return fn(failingTx{Store: tx, member: s.member, locker: s.locker})
	})
}

type failingTx struct {
	club.Store
	member, locker bool
}

func (tx failingTx) UpdateMember(ctx context.Context, m *club.Member) error {
	if tx.member {
		return errWriteFailed
	}
	return tx.Store.UpdateMember(ctx, m)
}

func (tx failingTx) UpdateLocker(ctx context.Context, l *club.Locker) error {
	if tx.locker {
		return errWriteFailed
	}
	return tx.Store.UpdateLocker(ctx, l)
}

func TestAssignLeavesNothingWhenMemberWriteFails(t *testing.T) {
	st := memory.New()
	require.NoError(t, seed.Load(context.Background(), st))
	log := audit.NewMemoryLog()
	svc := NewService(failingStore{Store: st, member: true}, audit.NewRecorder(log, zap.NewNop()), zap.NewNop())

	_, err := svc.Assign(asAdmin(), 103, 2)
	assert.ErrorIs(t, err, errWriteFailed)

	l, err := st.GetLocker(context.Background(), 103)
	require.NoError(t, err)
	assert.Equal(t, club.LockerFree, l.Status)
	assert.Nil(t, l.MemberID)
	m, err := st.GetMember(context.Background(), 2)
	require.NoError(t, err)
	assert.Nil(t, m.LockerID)
	checkInvariant(t, st)

	events, err := log.List(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestReleaseLeavesNothingWhenLockerWriteFails(t *testing.T) {
	st := memory.New()
	require.NoError(t, seed.Load(context.Background(), st))
	svc := NewService(failingStore{Store: st, locker: true}, nil, zap.NewNop())

	_, err := svc.Release(asAdmin(), 101)
	assert.ErrorIs(t, err, errWriteFailed)

	l, err := st.GetLocker(context.Background(), 101)
	require.NoError(t, err)
	assert.Equal(t, club.LockerOccupied, l.Status)
	require.NotNil(t, l.MemberID)
	assert.Equal(t, int64(1), *l.MemberID)
	m, err := st.GetMember(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, m.LockerID)
	assert.Equal(t, int64(101), *m.LockerID)
	checkInvariant(t, st)
}

func TestLockerOperationsRequireAdmin(t *testing.T) {
	svc, _, _ := newSeeded(t)
	collector := session.WithPrincipal(context.Background(), &session.Principal{
		Username: "roberto", Role: club.RoleCollector, CollectorID: int64p(1),
	})

	_, err := svc.Assign(collector, 103, 2)
	assert.True(t, errors.Is(err, club.ErrUnauthorized))
	_, err = svc.Release(collector, 101)
	assert.True(t, errors.Is(err, club.ErrUnauthorized))
	_, err = svc.ListLockers(context.Background())
	assert.True(t, errors.Is(err, club.ErrUnauthenticated))
}

func TestLockerCatalog(t *testing.T) {
	svc, _, _ := newSeeded(t)
	ctx := asAdmin()

	tests := []struct {
		name string
		id   int64
		fee  decimal.Decimal
		want error
	}{
		{"valid", 106, decimal.NewFromInt(700), nil},
		{"duplicate", 101, decimal.NewFromInt(500), club.ErrConflict},
		{"zero number", 0, decimal.NewFromInt(500), club.ErrInvalidInput},
		{"negative fee", 107, decimal.NewFromInt(-1), club.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateLocker(ctx, tt.id, tt.fee)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}

	l, err := svc.UpdateLocker(ctx, 106, decimal.NewFromInt(800))
	require.NoError(t, err)
	assert.True(t, l.MonthlyFee.Equal(decimal.NewFromInt(800)))

	assert.True(t, errors.Is(svc.DeleteLocker(ctx, 101), club.ErrConflict))
	require.NoError(t, svc.DeleteLocker(ctx, 106))

	lockers, err := svc.ListLockers(ctx)
	require.NoError(t, err)
	assert.Len(t, lockers, 5)
}

func TestLockerOccupancyInvariantHolds(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		svc, st, _ := newSeeded(t)
		ctx := asAdmin()

		steps := rapid.IntRange(1, 30).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			locker := rapid.Int64Range(100, 106).Draw(t, "locker")
			if rapid.Bool().Draw(t, "assign") {
				member := rapid.Int64Range(1, 6).Draw(t, "member")
				_, _ = svc.Assign(ctx, locker, member)
			} else {
				_, _ = svc.Release(ctx, locker)
			}
			checkInvariant(t, st)
		}
	})
}
