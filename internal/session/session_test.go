package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"clubnexus/internal/club"
	"clubnexus/internal/store/memory"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func int64p(v int64) *int64 { return &v }

func TestPasswordHashing(t *testing.T) {
	hash, salt, err := HashPassword("s3cret")
	require.NoError(t, err)

	ok, err := VerifyPassword("s3cret", salt, hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("wrong", salt, hash)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = VerifyPassword("s3cret", "%%%", hash)
	assert.Error(t, err)
}

func TestSignerRoundTrip(t *testing.T) {
	s := NewSigner("secret", time.Hour)
	p := &Principal{Username: "roberto", Role: club.RoleCollector, CollectorID: int64p(1)}

	token, expires, err := s.Sign(p, time.Now())
	require.NoError(t, err)
	assert.NotEmpty(t, p.TokenID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expires, time.Minute)

	got, err := s.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "roberto", got.Username)
	assert.Equal(t, club.RoleCollector, got.Role)
	assert.True(t, got.IsCollector(1))
	assert.Equal(t, p.TokenID, got.TokenID)
}

func TestSignerRejectsForgedAndExpired(t *testing.T) {
	s := NewSigner("secret", time.Hour)
	p := &Principal{Username: "admin", Role: club.RoleAdmin}

	forged, _, err := NewSigner("other", time.Hour).Sign(p, time.Now())
	require.NoError(t, err)
	_, err = s.Parse(forged)
	assert.True(t, errors.Is(err, club.ErrUnauthenticated))

	expired, _, err := s.Sign(p, time.Now().Add(-2*time.Hour))
	require.NoError(t, err)
	_, err = s.Parse(expired)
	assert.True(t, errors.Is(err, club.ErrUnauthenticated))
	assert.Contains(t, err.Error(), "expired")
}

func TestRedisRegistry(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	ctx := context.Background()
	r := NewRedisRegistry(client)

	require.NoError(t, r.Register(ctx, "abc", time.Minute))
	active, err := r.Active(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, active)

	mr.FastForward(2 * time.Minute)
	active, err = r.Active(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, active)

	require.NoError(t, r.Register(ctx, "def", time.Minute))
	require.NoError(t, r.Revoke(ctx, "def"))
	active, err = r.Active(ctx, "def")
	require.NoError(t, err)
	assert.False(t, active)
}

func TestMemoryRegistryExpiry(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRegistry()
	now := time.Now()
	r.now = func() time.Time { return now }

	require.NoError(t, r.Register(ctx, "abc", time.Minute))
	active, _ := r.Active(ctx, "abc")
	assert.True(t, active)

	now = now.Add(time.Minute)
	active, _ = r.Active(ctx, "abc")
	assert.False(t, active)
}

func newTestService(t *testing.T, perMinute int) (Service, club.Store) {
	t.Helper()
	ctx := context.Background()
	st := memory.New()
	require.NoError(t, st.CreateZone(ctx, &club.Zone{ID: 2, Name: "Norte"}))
	require.NoError(t, st.CreateCollector(ctx, &club.Collector{Name: "Roberto Carlos", ZoneID: 2}))

	svc := NewService(st, NewMemoryRegistry(), Options{Secret: "test", TTL: time.Hour, LoginsPerMinute: perMinute}, zap.NewNop())
	require.NoError(t, svc.Register(ctx, club.User{Username: "admin", Role: club.RoleAdmin}, "admin123"))
	require.NoError(t, svc.Register(ctx, club.User{Username: "roberto", Role: club.RoleCollector, CollectorID: int64p(1)}, "roberto123"))
	return svc, st
}

func TestLoginAuthenticateLogout(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, 60)

	sess, err := svc.Login(ctx, "roberto", "roberto123")
	require.NoError(t, err)
	assert.Equal(t, club.RoleCollector, sess.User.Role)

	p, err := svc.Authenticate(ctx, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, "roberto", p.Username)

	require.NoError(t, svc.Logout(ctx, sess.Token))
	_, err = svc.Authenticate(ctx, sess.Token)
	assert.True(t, errors.Is(err, club.ErrUnauthenticated))
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, 60)

	_, err := svc.Login(ctx, "admin", "nope")
	assert.True(t, errors.Is(err, club.ErrUnauthenticated))

	_, err = svc.Login(ctx, "ghost", "admin123")
	assert.True(t, errors.Is(err, club.ErrUnauthenticated))

	_, err = svc.Login(ctx, "", "")
	assert.True(t, errors.Is(err, club.ErrInvalidInput))
}

func TestLoginWithoutCollectorRecord(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(t, 60)
	require.NoError(t, st.DeleteCollector(ctx, 1))

	_, err := svc.Login(ctx, "roberto", "roberto123")
	assert.True(t, errors.Is(err, club.ErrUnauthenticated))
	assert.False(t, errors.Is(err, club.ErrNotFound))
}

func TestCollectorZoneReadsCurrentRecord(t *testing.T) {
	ctx := context.Background()
	_, st := newTestService(t, 60)
	require.NoError(t, st.CreateZone(ctx, &club.Zone{ID: 3, Name: "Sur"}))
	p := &Principal{Username: "roberto", Role: club.RoleCollector, CollectorID: int64p(1)}

	zone, err := CollectorZone(ctx, st, p)
	require.NoError(t, err)
	assert.Equal(t, int64(2), zone)

	c, err := st.GetCollector(ctx, 1)
	require.NoError(t, err)
	c.ZoneID = 3
	require.NoError(t, st.UpdateCollector(ctx, c))
	zone, err = CollectorZone(ctx, st, p)
	require.NoError(t, err)
	assert.Equal(t, int64(3), zone)

	_, err = CollectorZone(ctx, st, &Principal{Username: "admin", Role: club.RoleAdmin})
	assert.True(t, errors.Is(err, club.ErrUnauthorized))
}

func TestLoginRateLimited(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, 2)

	for i := 0; i < 2; i++ {
		_, err := svc.Login(ctx, "admin", "admin123")
		require.NoError(t, err)
	}
	_, err := svc.Login(ctx, "admin", "admin123")
	assert.True(t, errors.Is(err, club.ErrRateLimited))
}

func TestRegisterValidatesRoleLinks(t *testing.T) {
	svc, _ := newTestService(t, 60)
	ctx := context.Background()

	err := svc.Register(ctx, club.User{Username: "x", Role: club.RoleMember}, "pw")
	assert.True(t, errors.Is(err, club.ErrInvalidInput))

	err = svc.Register(ctx, club.User{Username: "y", Role: "owner"}, "pw")
	assert.True(t, errors.Is(err, club.ErrInvalidInput))

	err = svc.Register(ctx, club.User{Username: "admin", Role: club.RoleAdmin}, "again")
	assert.True(t, errors.Is(err, club.ErrConflict))
}

func TestRequire(t *testing.T) {
	_, err := Require(context.Background(), club.RoleAdmin)
	assert.True(t, errors.Is(err, club.ErrUnauthenticated))

	ctx := WithPrincipal(context.Background(), &Principal{Username: "juan", Role: club.RoleMember, MemberID: int64p(1)})
	_, err = Require(ctx, club.RoleAdmin, club.RoleCollector)
	assert.True(t, errors.Is(err, club.ErrUnauthorized))
	assert.False(t, errors.Is(err, club.ErrUnauthenticated))

	p, err := Require(ctx, club.RoleMember)
	require.NoError(t, err)
	assert.True(t, p.IsMember(1))
	assert.False(t, p.IsAdmin())
}

func TestAuthenticatorMiddleware(t *testing.T) {
	svc, _ := newTestService(t, 60)
	sess, err := svc.Login(context.Background(), "admin", "admin123")
	require.NoError(t, err)

	var seen *Principal
	h := Authenticator(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+sess.Token)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)
	assert.True(t, seen.IsAdmin())
}
