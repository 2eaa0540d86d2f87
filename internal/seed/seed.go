// internal/seed/seed.go
package seed

import (
	"context"
	"fmt"

	"clubnexus/internal/club"
	"clubnexus/internal/session"

	"github.com/shopspring/decimal"
)

func int64p(v int64) *int64 { return &v }

// Credential is a demo login created by Users.
type Credential struct {
	User     club.User
	Password string
}

// Load writes the demo club into an empty store in one transaction.
func Load(ctx context.Context, st club.Store) error {
	return st.WithTx(ctx, func(tx club.Store) error {
		for _, z := range []club.Zone{
			{ID: 1, Name: "Centro"},
			{ID: 2, Name: "Norte"},
			{ID: 3, Name: "Sur"},
			{ID: 4, Name: "Este"},
			{ID: 5, Name: "Oeste"},
		} {
			if err := tx.CreateZone(ctx, &z); err != nil {
				return fmt.Errorf("seed zone %d: %w", z.ID, err)
			}
		}

		for _, c := range []club.FeeCategory{
			{ID: "infantil", Name: "Infantil (hasta 12 años)", MonthlyFee: decimal.NewFromInt(1000)},
			{ID: "cadete", Name: "Cadete (13 a 17 años)", MonthlyFee: decimal.NewFromInt(1500)},
			{ID: "adulto", Name: "Adulto (18 a 64 años)", MonthlyFee: decimal.NewFromInt(2500)},
			{ID: "adulto_mayor", Name: "Adulto Mayor (65+ años)", MonthlyFee: decimal.NewFromInt(1200)},
		} {
			if err := tx.CreateFeeCategory(ctx, &c); err != nil {
				return fmt.Errorf("seed category %s: %w", c.ID, err)
			}
		}

		for _, a := range []club.Activity{
			{Name: "Natación", Cost: decimal.NewFromInt(1500), Schedule: club.ScheduleMorning},
			{Name: "Gimnasio", Cost: decimal.NewFromInt(2000), Schedule: club.ScheduleAfternoon},
			{Name: "Tenis", Cost: decimal.NewFromInt(2500), Schedule: club.ScheduleMorning},
			{Name: "Yoga", Cost: decimal.NewFromInt(1800), Schedule: club.ScheduleEvening},
		} {
			if err := tx.CreateActivity(ctx, &a); err != nil {
				return fmt.Errorf("seed activity %s: %w", a.Name, err)
			}
		}

		for _, c := range []club.Collector{
			{Name: "Roberto Carlos", ZoneID: 2},
			{Name: "Juana de Arco", ZoneID: 3},
			{Name: "Pedro Picapiedra", ZoneID: 1},
		} {
			if err := tx.CreateCollector(ctx, &c); err != nil {
				return fmt.Errorf("seed collector %s: %w", c.Name, err)
			}
		}

		for id := int64(101); id <= 105; id++ {
			l := club.Locker{ID: id, MonthlyFee: decimal.NewFromInt(500), Status: club.LockerFree}
			if err := tx.CreateLocker(ctx, &l); err != nil {
				return fmt.Errorf("seed locker %d: %w", id, err)
			}
		}

		members := []club.Member{
			{FirstName: "Juan", LastName: "Perez", JoinDate: club.MustDate("2022-01-15"), BirthDate: club.MustDate("1990-05-20"),
				CategoryID: "adulto", ZoneID: 2, Status: club.StatusPaid, LockerID: int64p(101), ActivityIDs: []int64{1, 3}},
			{FirstName: "Maria", LastName: "Gomez", JoinDate: club.MustDate("2021-11-20"), BirthDate: club.MustDate("1985-08-10"),
				CategoryID: "adulto_mayor", ZoneID: 3, Status: club.StatusPaid, ActivityIDs: []int64{2}},
			{FirstName: "Carlos", LastName: "Lopez", JoinDate: club.MustDate("2023-02-10"), BirthDate: club.MustDate("2005-03-30"),
				CategoryID: "cadete", ZoneID: 2, Status: club.StatusOwing, LockerID: int64p(102), ActivityIDs: []int64{1, 4}},
			{FirstName: "Ana", LastName: "Martinez", JoinDate: club.MustDate("2023-05-01"), BirthDate: club.MustDate("1995-12-01"),
				CategoryID: "adulto", ZoneID: 1, Status: club.StatusOwing, ActivityIDs: []int64{2, 3}},
			{FirstName: "Luis", LastName: "Rodriguez", JoinDate: club.MustDate("2020-07-18"), BirthDate: club.MustDate("1978-02-25"),
				CategoryID: "adulto", ZoneID: 2, Status: club.StatusInactive},
		}
		for i := range members {
			m := &members[i]
			lockerID := m.LockerID
			m.LockerID = nil
			if err := tx.CreateMember(ctx, m); err != nil {
				return fmt.Errorf("seed member %s: %w", m.FullName(), err)
			}
			if lockerID == nil {
				continue
			}
			l, err := tx.GetLocker(ctx, *lockerID)
			if err != nil {
				return err
			}
			l.Status = club.LockerOccupied
			l.MemberID = int64p(m.ID)
			if err := tx.UpdateLocker(ctx, l); err != nil {
				return fmt.Errorf("seed locker %d: %w", l.ID, err)
			}
			m.LockerID = lockerID
			if err := tx.UpdateMember(ctx, m); err != nil {
				return fmt.Errorf("seed member %s: %w", m.FullName(), err)
			}
		}
		return nil
	})
}

// Users lists the demo logins. Passwords are the username followed by 123.
func Users() []Credential {
	return []Credential{
		{club.User{Username: "admin", Role: club.RoleAdmin}, "admin123"},
		{club.User{Username: "roberto", Role: club.RoleCollector, CollectorID: int64p(1)}, "roberto123"},
		{club.User{Username: "juana", Role: club.RoleCollector, CollectorID: int64p(2)}, "juana123"},
		{club.User{Username: "pedro", Role: club.RoleCollector, CollectorID: int64p(3)}, "pedro123"},
		{club.User{Username: "juan", Role: club.RoleMember, MemberID: int64p(1)}, "juan123"},
		{club.User{Username: "maria", Role: club.RoleMember, MemberID: int64p(2)}, "maria123"},
		{club.User{Username: "carlos", Role: club.RoleMember, MemberID: int64p(3)}, "carlos123"},
		{club.User{Username: "ana", Role: club.RoleMember, MemberID: int64p(4)}, "ana123"},
		{club.User{Username: "luis", Role: club.RoleMember, MemberID: int64p(5)}, "luis123"},
	}
}

// LoadUsers registers the demo logins through the session service.
func LoadUsers(ctx context.Context, svc session.Service) error {
	for _, c := range Users() {
		if err := svc.Register(ctx, c.User, c.Password); err != nil {
			return fmt.Errorf("seed user %s: %w", c.User.Username, err)
		}
	}
	return nil
}
