// internal/store/memory/memory.go
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"clubnexus/internal/club"
)

// Store is an in-memory club.Store for tests and the demo server.
// Transactions copy the whole state and swap it in on success.
type Store struct {
	mu sync.Mutex
	st *state
}

type state struct {
	members    map[int64]club.Member
	activities map[int64]club.Activity
	categories map[string]club.FeeCategory
	zones      map[int64]club.Zone
	collectors map[int64]club.Collector
	lockers    map[int64]club.Locker
	payments   []club.Payment
	users      map[string]club.User

	nextMember    int64
	nextActivity  int64
	nextCollector int64
	nextPayment   int64
}

// New returns an empty store.
func New() *Store {
	return &Store{st: newState()}
}

func newState() *state {
	return &state{
		members:       map[int64]club.Member{},
		activities:    map[int64]club.Activity{},
		categories:    map[string]club.FeeCategory{},
		zones:         map[int64]club.Zone{},
		collectors:    map[int64]club.Collector{},
		lockers:       map[int64]club.Locker{},
		users:         map[string]club.User{},
		nextMember:    1,
		nextActivity:  1,
		nextCollector: 1,
		nextPayment:   1,
	}
}

func (s *state) clone() *state {
	c := &state{
		members:       make(map[int64]club.Member, len(s.members)),
		activities:    make(map[int64]club.Activity, len(s.activities)),
		categories:    make(map[string]club.FeeCategory, len(s.categories)),
		zones:         make(map[int64]club.Zone, len(s.zones)),
		collectors:    make(map[int64]club.Collector, len(s.collectors)),
		lockers:       make(map[int64]club.Locker, len(s.lockers)),
		payments:      append([]club.Payment(nil), s.payments...),
		users:         make(map[string]club.User, len(s.users)),
		nextMember:    s.nextMember,
		nextActivity:  s.nextActivity,
		nextCollector: s.nextCollector,
		nextPayment:   s.nextPayment,
	}
	for k, v := range s.members {
		c.members[k] = v.Clone()
	}
	for k, v := range s.activities {
		c.activities[k] = v
	}
	for k, v := range s.categories {
		c.categories[k] = v
	}
	for k, v := range s.zones {
		c.zones[k] = v
	}
	for k, v := range s.collectors {
		c.collectors[k] = v
	}
	for k, v := range s.lockers {
		c.lockers[k] = cloneLocker(v)
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	return c
}

func cloneLocker(l club.Locker) club.Locker {
	if l.MemberID != nil {
		id := *l.MemberID
		l.MemberID = &id
	}
	return l
}

// do runs fn under the store lock against the live state.
func (s *Store) do(fn func(*view) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&view{st: s.st})
}

// WithTx runs fn against a private copy of the state; the copy replaces the
// live state only when fn succeeds. The store lock is held for the duration.
func (s *Store) WithTx(ctx context.Context, fn func(club.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	draft := s.st.clone()
	if err := fn(&view{st: draft}); err != nil {
		return err
	}
	s.st = draft
	return nil
}

func (s *Store) Ping(ctx context.Context) error { return nil }

func (s *Store) ListMembers(ctx context.Context) (out []club.Member, err error) {
	err = s.do(func(v *view) error { out, err = v.ListMembers(ctx); return err })
	return out, err
}

func (s *Store) GetMember(ctx context.Context, id int64) (out *club.Member, err error) {
	err = s.do(func(v *view) error { out, err = v.GetMember(ctx, id); return err })
	return out, err
}

func (s *Store) CreateMember(ctx context.Context, m *club.Member) error {
	return s.do(func(v *view) error { return v.CreateMember(ctx, m) })
}

func (s *Store) UpdateMember(ctx context.Context, m *club.Member) error {
	return s.do(func(v *view) error { return v.UpdateMember(ctx, m) })
}

func (s *Store) DeleteMember(ctx context.Context, id int64) error {
	return s.do(func(v *view) error { return v.DeleteMember(ctx, id) })
}

func (s *Store) ListActivities(ctx context.Context) (out []club.Activity, err error) {
	err = s.do(func(v *view) error { out, err = v.ListActivities(ctx); return err })
	return out, err
}

func (s *Store) GetActivity(ctx context.Context, id int64) (out *club.Activity, err error) {
	err = s.do(func(v *view) error { out, err = v.GetActivity(ctx, id); return err })
	return out, err
}

func (s *Store) CreateActivity(ctx context.Context, a *club.Activity) error {
	return s.do(func(v *view) error { return v.CreateActivity(ctx, a) })
}

func (s *Store) UpdateActivity(ctx context.Context, a *club.Activity) error {
	return s.do(func(v *view) error { return v.UpdateActivity(ctx, a) })
}

func (s *Store) DeleteActivity(ctx context.Context, id int64) error {
	return s.do(func(v *view) error { return v.DeleteActivity(ctx, id) })
}

func (s *Store) ListFeeCategories(ctx context.Context) (out []club.FeeCategory, err error) {
	err = s.do(func(v *view) error { out, err = v.ListFeeCategories(ctx); return err })
	return out, err
}

func (s *Store) GetFeeCategory(ctx context.Context, id string) (out *club.FeeCategory, err error) {
	err = s.do(func(v *view) error { out, err = v.GetFeeCategory(ctx, id); return err })
	return out, err
}

func (s *Store) CreateFeeCategory(ctx context.Context, c *club.FeeCategory) error {
	return s.do(func(v *view) error { return v.CreateFeeCategory(ctx, c) })
}

func (s *Store) ListZones(ctx context.Context) (out []club.Zone, err error) {
	err = s.do(func(v *view) error { out, err = v.ListZones(ctx); return err })
	return out, err
}

func (s *Store) GetZone(ctx context.Context, id int64) (out *club.Zone, err error) {
	err = s.do(func(v *view) error { out, err = v.GetZone(ctx, id); return err })
	return out, err
}

func (s *Store) CreateZone(ctx context.Context, z *club.Zone) error {
	return s.do(func(v *view) error { return v.CreateZone(ctx, z) })
}

func (s *Store) ListCollectors(ctx context.Context) (out []club.Collector, err error) {
	err = s.do(func(v *view) error { out, err = v.ListCollectors(ctx); return err })
	return out, err
}

func (s *Store) GetCollector(ctx context.Context, id int64) (out *club.Collector, err error) {
	err = s.do(func(v *view) error { out, err = v.GetCollector(ctx, id); return err })
	return out, err
}

func (s *Store) CreateCollector(ctx context.Context, c *club.Collector) error {
	return s.do(func(v *view) error { return v.CreateCollector(ctx, c) })
}

func (s *Store) UpdateCollector(ctx context.Context, c *club.Collector) error {
	return s.do(func(v *view) error { return v.UpdateCollector(ctx, c) })
}

func (s *Store) DeleteCollector(ctx context.Context, id int64) error {
	return s.do(func(v *view) error { return v.DeleteCollector(ctx, id) })
}

func (s *Store) ListLockers(ctx context.Context) (out []club.Locker, err error) {
	err = s.do(func(v *view) error { out, err = v.ListLockers(ctx); return err })
	return out, err
}

func (s *Store) GetLocker(ctx context.Context, id int64) (out *club.Locker, err error) {
	err = s.do(func(v *view) error { out, err = v.GetLocker(ctx, id); return err })
	return out, err
}

func (s *Store) CreateLocker(ctx context.Context, l *club.Locker) error {
	return s.do(func(v *view) error { return v.CreateLocker(ctx, l) })
}

func (s *Store) UpdateLocker(ctx context.Context, l *club.Locker) error {
	return s.do(func(v *view) error { return v.UpdateLocker(ctx, l) })
}

func (s *Store) DeleteLocker(ctx context.Context, id int64) error {
	return s.do(func(v *view) error { return v.DeleteLocker(ctx, id) })
}

func (s *Store) ListPayments(ctx context.Context) (out []club.Payment, err error) {
	err = s.do(func(v *view) error { out, err = v.ListPayments(ctx); return err })
	return out, err
}

func (s *Store) CreatePayment(ctx context.Context, p *club.Payment) error {
	return s.do(func(v *view) error { return v.CreatePayment(ctx, p) })
}

func (s *Store) GetUser(ctx context.Context, username string) (out *club.User, err error) {
	err = s.do(func(v *view) error { out, err = v.GetUser(ctx, username); return err })
	return out, err
}

func (s *Store) CreateUser(ctx context.Context, u *club.User) error {
	return s.do(func(v *view) error { return v.CreateUser(ctx, u) })
}

// view implements club.Store over a state the caller already holds
// exclusively.
type view struct {
	st *state
}

func (v *view) WithTx(ctx context.Context, fn func(club.Store) error) error { return fn(v) }
func (v *view) Ping(ctx context.Context) error                             { return nil }

func (v *view) ListMembers(ctx context.Context) ([]club.Member, error) {
	out := make([]club.Member, 0, len(v.st.members))
	for _, m := range v.st.members {
		out = append(out, m.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (v *view) GetMember(ctx context.Context, id int64) (*club.Member, error) {
	m, ok := v.st.members[id]
	if !ok {
		return nil, fmt.Errorf("member with ID %d: %w", id, club.ErrNotFound)
	}
	c := m.Clone()
	return &c, nil
}

func (v *view) CreateMember(ctx context.Context, m *club.Member) error {
	m.ID = v.st.nextMember
	v.st.nextMember++
	v.st.members[m.ID] = normalizeMember(*m)
	return nil
}

func (v *view) UpdateMember(ctx context.Context, m *club.Member) error {
	if _, ok := v.st.members[m.ID]; !ok {
		return fmt.Errorf("member with ID %d: %w", m.ID, club.ErrNotFound)
	}
	v.st.members[m.ID] = normalizeMember(*m)
	return nil
}

func (v *view) DeleteMember(ctx context.Context, id int64) error {
	if _, ok := v.st.members[id]; !ok {
		return fmt.Errorf("member with ID %d: %w", id, club.ErrNotFound)
	}
	delete(v.st.members, id)
	return nil
}

// normalizeMember stores a private copy with the activity set sorted.
func normalizeMember(m club.Member) club.Member {
	c := m.Clone()
	if c.ActivityIDs == nil {
		c.ActivityIDs = []int64{}
	}
	sort.Slice(c.ActivityIDs, func(i, j int) bool { return c.ActivityIDs[i] < c.ActivityIDs[j] })
	return c
}

func (v *view) ListActivities(ctx context.Context) ([]club.Activity, error) {
	out := make([]club.Activity, 0, len(v.st.activities))
	for _, a := range v.st.activities {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (v *view) GetActivity(ctx context.Context, id int64) (*club.Activity, error) {
	a, ok := v.st.activities[id]
	if !ok {
		return nil, fmt.Errorf("activity with ID %d: %w", id, club.ErrNotFound)
	}
	return &a, nil
}

func (v *view) CreateActivity(ctx context.Context, a *club.Activity) error {
	a.ID = v.st.nextActivity
	v.st.nextActivity++
	v.st.activities[a.ID] = *a
	return nil
}

func (v *view) UpdateActivity(ctx context.Context, a *club.Activity) error {
	if _, ok := v.st.activities[a.ID]; !ok {
		return fmt.Errorf("activity with ID %d: %w", a.ID, club.ErrNotFound)
	}
	v.st.activities[a.ID] = *a
	return nil
}

func (v *view) DeleteActivity(ctx context.Context, id int64) error {
	if _, ok := v.st.activities[id]; !ok {
		return fmt.Errorf("activity with ID %d: %w", id, club.ErrNotFound)
	}
	delete(v.st.activities, id)
	return nil
}

func (v *view) ListFeeCategories(ctx context.Context) ([]club.FeeCategory, error) {
	out := make([]club.FeeCategory, 0, len(v.st.categories))
	for _, c := range v.st.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (v *view) GetFeeCategory(ctx context.Context, id string) (*club.FeeCategory, error) {
	c, ok := v.st.categories[id]
	if !ok {
		return nil, fmt.Errorf("fee category %q: %w", id, club.ErrNotFound)
	}
	return &c, nil
}

func (v *view) CreateFeeCategory(ctx context.Context, c *club.FeeCategory) error {
	if _, ok := v.st.categories[c.ID]; ok {
		return fmt.Errorf("fee category %q: %w", c.ID, club.ErrConflict)
	}
	v.st.categories[c.ID] = *c
	return nil
}

func (v *view) ListZones(ctx context.Context) ([]club.Zone, error) {
	out := make([]club.Zone, 0, len(v.st.zones))
	for _, z := range v.st.zones {
		out = append(out, z)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (v *view) GetZone(ctx context.Context, id int64) (*club.Zone, error) {
	z, ok := v.st.zones[id]
	if !ok {
		return nil, fmt.Errorf("zone with ID %d: %w", id, club.ErrNotFound)
	}
	return &z, nil
}

func (v *view) CreateZone(ctx context.Context, z *club.Zone) error {
	if _, ok := v.st.zones[z.ID]; ok {
		return fmt.Errorf("zone with ID %d: %w", z.ID, club.ErrConflict)
	}
	v.st.zones[z.ID] = *z
	return nil
}

func (v *view) ListCollectors(ctx context.Context) ([]club.Collector, error) {
	out := make([]club.Collector, 0, len(v.st.collectors))
	for _, c := range v.st.collectors {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (v *view) GetCollector(ctx context.Context, id int64) (*club.Collector, error) {
	c, ok := v.st.collectors[id]
	if !ok {
		return nil, fmt.Errorf("collector with ID %d: %w", id, club.ErrNotFound)
	}
	return &c, nil
}

func (v *view) CreateCollector(ctx context.Context, c *club.Collector) error {
	c.ID = v.st.nextCollector
	v.st.nextCollector++
	v.st.collectors[c.ID] = *c
	return nil
}

func (v *view) UpdateCollector(ctx context.Context, c *club.Collector) error {
	if _, ok := v.st.collectors[c.ID]; !ok {
		return fmt.Errorf("collector with ID %d: %w", c.ID, club.ErrNotFound)
	}
	v.st.collectors[c.ID] = *c
	return nil
}

func (v *view) DeleteCollector(ctx context.Context, id int64) error {
	if _, ok := v.st.collectors[id]; !ok {
		return fmt.Errorf("collector with ID %d: %w", id, club.ErrNotFound)
	}
	delete(v.st.collectors, id)
	return nil
}

func (v *view) ListLockers(ctx context.Context) ([]club.Locker, error) {
	out := make([]club.Locker, 0, len(v.st.lockers))
	for _, l := range v.st.lockers {
		out = append(out, cloneLocker(l))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (v *view) GetLocker(ctx context.Context, id int64) (*club.Locker, error) {
	l, ok := v.st.lockers[id]
	if !ok {
		return nil, fmt.Errorf("locker %d: %w", id, club.ErrNotFound)
	}
	c := cloneLocker(l)
	return &c, nil
}

func (v *view) CreateLocker(ctx context.Context, l *club.Locker) error {
	if _, ok := v.st.lockers[l.ID]; ok {
		return fmt.Errorf("locker %d: %w", l.ID, club.ErrConflict)
	}
	v.st.lockers[l.ID] = cloneLocker(*l)
	return nil
}

func (v *view) UpdateLocker(ctx context.Context, l *club.Locker) error {
	if _, ok := v.st.lockers[l.ID]; !ok {
		return fmt.Errorf("locker %d: %w", l.ID, club.ErrNotFound)
	}
	v.st.lockers[l.ID] = cloneLocker(*l)
	return nil
}

func (v *view) DeleteLocker(ctx context.Context, id int64) error {
	if _, ok := v.st.lockers[id]; !ok {
		return fmt.Errorf("locker %d: %w", id, club.ErrNotFound)
	}
	delete(v.st.lockers, id)
	return nil
}

func (v *view) ListPayments(ctx context.Context) ([]club.Payment, error) {
	return append([]club.Payment(nil), v.st.payments...), nil
}

func (v *view) CreatePayment(ctx context.Context, p *club.Payment) error {
	p.ID = v.st.nextPayment
	v.st.nextPayment++
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	v.st.payments = append(v.st.payments, *p)
	return nil
}

func (v *view) GetUser(ctx context.Context, username string) (*club.User, error) {
	u, ok := v.st.users[username]
	if !ok {
		return nil, fmt.Errorf("user %q: %w", username, club.ErrNotFound)
	}
	return &u, nil
}

func (v *view) CreateUser(ctx context.Context, u *club.User) error {
	if _, ok := v.st.users[u.Username]; ok {
		return fmt.Errorf("user %q: %w", u.Username, club.ErrConflict)
	}
	v.st.users[u.Username] = *u
	return nil
}
