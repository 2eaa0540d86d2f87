package catalog

import (
	"context"
	"errors"
	"testing"

	"clubnexus/internal/club"
	"clubnexus/internal/seed"
	"clubnexus/internal/session"
	"clubnexus/internal/store/memory"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func asRole(role club.Role) context.Context {
	return session.WithPrincipal(context.Background(), &session.Principal{Username: string(role), Role: role})
}

func newSeeded(t *testing.T) (Service, club.Store) {
	t.Helper()
	st := memory.New()
	require.NoError(t, seed.Load(context.Background(), st))
	return NewService(st, zap.NewNop()), st
}

func names(activities []club.Activity) []string {
	out := make([]string, 0, len(activities))
	for _, a := range activities {
		out = append(out, a.Name)
	}
	return out
}

func TestListActivitiesFilters(t *testing.T) {
	svc, _ := newSeeded(t)
	ctx := asRole(club.RoleMember)

	tests := []struct {
		name   string
		filter ActivityFilter
		want   []string
	}{
		{"no filter", ActivityFilter{}, []string{"Natación", "Gimnasio", "Tenis", "Yoga"}},
		{"schedule", ActivityFilter{Schedule: club.ScheduleMorning}, []string{"Natación", "Tenis"}},
		{"case insensitive name", ActivityFilter{Query: "YO"}, []string{"Yoga"}},
		{"both", ActivityFilter{Query: "n", Schedule: club.ScheduleMorning}, []string{"Natación", "Tenis"}},
		{"no match", ActivityFilter{Query: "polo"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.ListActivities(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(got))
		})
	}

	_, err := svc.ListActivities(ctx, ActivityFilter{Schedule: "night"})
	assert.True(t, errors.Is(err, club.ErrInvalidInput))
}

func TestActivityCRUD(t *testing.T) {
	svc, _ := newSeeded(t)
	ctx := asRole(club.RoleAdmin)

	a, err := svc.CreateActivity(ctx, ActivityInput{Name: "Pilates", Cost: decimal.NewFromInt(1700), Schedule: club.ScheduleEvening})
	require.NoError(t, err)
	assert.Equal(t, int64(5), a.ID)

	_, err = svc.CreateActivity(ctx, ActivityInput{Name: "Pilates", Cost: decimal.NewFromInt(-1), Schedule: club.ScheduleEvening})
	assert.True(t, errors.Is(err, club.ErrInvalidInput))
	_, err = svc.CreateActivity(ctx, ActivityInput{Name: "", Cost: decimal.Zero, Schedule: club.ScheduleEvening})
	assert.True(t, errors.Is(err, club.ErrInvalidInput))
	_, err = svc.CreateActivity(ctx, ActivityInput{Name: "Polo", Cost: decimal.Zero, Schedule: "night"})
	assert.True(t, errors.Is(err, club.ErrInvalidInput))

	a, err = svc.UpdateActivity(ctx, 5, ActivityInput{Name: "Pilates Reformer", Cost: decimal.NewFromInt(2100), Schedule: club.ScheduleMorning})
	require.NoError(t, err)
	assert.Equal(t, "Pilates Reformer", a.Name)

	_, err = svc.UpdateActivity(ctx, 42, ActivityInput{Name: "X", Cost: decimal.Zero, Schedule: club.ScheduleMorning})
	assert.True(t, errors.Is(err, club.ErrNotFound))

	_, err = svc.CreateActivity(asRole(club.RoleCollector), ActivityInput{Name: "X", Schedule: club.ScheduleMorning})
	assert.True(t, errors.Is(err, club.ErrUnauthorized))
}

func TestDeleteActivityUnenrollsMembers(t *testing.T) {
	svc, st := newSeeded(t)
	ctx := asRole(club.RoleAdmin)

	require.NoError(t, svc.DeleteActivity(ctx, 1))

	members, err := st.ListMembers(ctx)
	require.NoError(t, err)
	for _, m := range members {
		assert.False(t, m.EnrolledIn(1), "member %d still enrolled", m.ID)
	}
	juan, err := st.GetMember(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{3}, juan.ActivityIDs)

	assert.True(t, errors.Is(svc.DeleteActivity(ctx, 1), club.ErrNotFound))
}

func TestCollectorsRequireExistingZone(t *testing.T) {
	svc, _ := newSeeded(t)
	ctx := asRole(club.RoleAdmin)

	c, err := svc.CreateCollector(ctx, CollectorInput{Name: "Clara Oeste", ZoneID: 5})
	require.NoError(t, err)
	assert.Equal(t, int64(4), c.ID)

	_, err = svc.CreateCollector(ctx, CollectorInput{Name: "Nadie", ZoneID: 9})
	assert.True(t, errors.Is(err, club.ErrInvalidInput))

	c, err = svc.UpdateCollector(ctx, 4, CollectorInput{Name: "Clara Este", ZoneID: 4})
	require.NoError(t, err)
	assert.Equal(t, int64(4), c.ZoneID)

	require.NoError(t, svc.DeleteCollector(ctx, 4))
	assert.True(t, errors.Is(svc.DeleteCollector(ctx, 4), club.ErrNotFound))

	_, err = svc.ListCollectors(asRole(club.RoleMember))
	assert.True(t, errors.Is(err, club.ErrUnauthorized))
}

func TestCategoriesAndZonesForAnyRole(t *testing.T) {
	svc, _ := newSeeded(t)

	categories, err := svc.ListFeeCategories(asRole(club.RoleMember))
	require.NoError(t, err)
	assert.Len(t, categories, 4)

	zones, err := svc.ListZones(asRole(club.RoleCollector))
	require.NoError(t, err)
	assert.Len(t, zones, 5)

	_, err = svc.ListZones(context.Background())
	assert.True(t, errors.Is(err, club.ErrUnauthenticated))
}
