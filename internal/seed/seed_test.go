package seed

import (
	"context"
	"errors"
	"testing"

	"clubnexus/internal/club"
	"clubnexus/internal/store/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadBuildsConsistentClub(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	require.NoError(t, Load(ctx, st))

	members, err := st.ListMembers(ctx)
	require.NoError(t, err)
	require.Len(t, members, 5)
	assert.Equal(t, "Juan Perez", members[0].FullName())
	assert.Equal(t, []int64{1, 3}, members[0].ActivityIDs)

	lockers, err := st.ListLockers(ctx)
	require.NoError(t, err)
	require.Len(t, lockers, 5)
	for _, l := range lockers {
		if l.Status == club.LockerOccupied {
			require.NotNil(t, l.MemberID)
			m, err := st.GetMember(ctx, *l.MemberID)
			require.NoError(t, err)
			require.NotNil(t, m.LockerID)
			assert.Equal(t, l.ID, *m.LockerID)
		} else {
			assert.Nil(t, l.MemberID)
		}
	}

	c, err := st.GetCollector(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Roberto Carlos", c.Name)
	assert.Equal(t, int64(2), c.ZoneID)
}

func TestLoadTwiceConflicts(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	require.NoError(t, Load(ctx, st))

	err := Load(ctx, st)
	assert.True(t, errors.Is(err, club.ErrConflict))

	members, err := st.ListMembers(ctx)
	require.NoError(t, err)
	assert.Len(t, members, 5)
}

func TestUsersLinkToSeededRecords(t *testing.T) {
	for _, c := range Users() {
		assert.Equal(t, c.User.Username+"123", c.Password)
		switch c.User.Role {
		case club.RoleCollector:
			assert.NotNil(t, c.User.CollectorID)
		case club.RoleMember:
			assert.NotNil(t, c.User.MemberID)
		}
	}
}
