// internal/club/domain.go
package club

import (
	"time"

	"github.com/shopspring/decimal"
)

// MemberStatus is the billing state of a member.
type MemberStatus string

const (
	StatusPaid     MemberStatus = "paid"
	StatusOwing    MemberStatus = "owing"
	StatusInactive MemberStatus = "inactive"
)

// Valid reports whether s is one of the known member states.
func (s MemberStatus) Valid() bool {
	switch s {
	case StatusPaid, StatusOwing, StatusInactive:
		return true
	}
	return false
}

// Member represents a club member.
type Member struct {
	ID          int64        `json:"id"`
	FirstName   string       `json:"first_name"`
	LastName    string       `json:"last_name"`
	NationalID  string       `json:"national_id,omitempty"`
	Email       string       `json:"email,omitempty"`
	Phone       string       `json:"phone,omitempty"`
	Address     string       `json:"address,omitempty"`
	JoinDate    Date         `json:"join_date"`
	BirthDate   Date         `json:"birth_date"`
	CategoryID  string       `json:"category_id"`
	ZoneID      int64        `json:"zone_id"`
	Status      MemberStatus `json:"status"`
	LockerID    *int64       `json:"locker_id,omitempty"`
	ActivityIDs []int64      `json:"activity_ids"`
}

// FullName returns the display name used in reports.
func (m *Member) FullName() string {
	return m.FirstName + " " + m.LastName
}

// EnrolledIn reports whether the member is enrolled in the activity.
func (m *Member) EnrolledIn(activityID int64) bool {
	for _, id := range m.ActivityIDs {
		if id == activityID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the member.
func (m Member) Clone() Member {
	if m.LockerID != nil {
		id := *m.LockerID
		m.LockerID = &id
	}
	m.ActivityIDs = append([]int64(nil), m.ActivityIDs...)
	return m
}

// FeeCategory maps a membership tier to its flat monthly fee.
type FeeCategory struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	MonthlyFee decimal.Decimal `json:"monthly_fee"`
}

// Schedule is the time slot an activity runs in.
type Schedule string

const (
	ScheduleMorning   Schedule = "morning"
	ScheduleAfternoon Schedule = "afternoon"
	ScheduleEvening   Schedule = "evening"
)

// Activity is an optional, separately priced club activity.
type Activity struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Cost     decimal.Decimal `json:"cost"`
	Schedule Schedule        `json:"schedule"`
}

// Zone partitions members and collectors.
type Zone struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Collector collects fees from the members of one zone.
type Collector struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	ZoneID int64  `json:"zone_id"`
}

// LockerStatus is the occupancy state of a locker.
type LockerStatus string

const (
	LockerFree     LockerStatus = "free"
	LockerOccupied LockerStatus = "occupied"
)

// Locker is a rentable storage unit. ID is the locker number.
type Locker struct {
	ID         int64           `json:"id"`
	MonthlyFee decimal.Decimal `json:"monthly_fee"`
	Status     LockerStatus    `json:"status"`
	MemberID   *int64          `json:"member_id,omitempty"`
}

// PaymentStatus is the outcome recorded with a payment.
type PaymentStatus string

const PaymentRecorded PaymentStatus = "recorded"

// Payment is an entry in the append-only collection log.
type Payment struct {
	ID          int64           `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Date        Date            `json:"date"`
	MemberID    int64           `json:"member_id"`
	CollectorID int64           `json:"collector_id"`
	Status      PaymentStatus   `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Role is the closed set of user roles.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleCollector Role = "collector"
	RoleMember    Role = "member"
)

// User holds login credentials and the identity they resolve to.
type User struct {
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	Salt         string `json:"-"`
	Role         Role   `json:"role"`
	MemberID     *int64 `json:"member_id,omitempty"`
	CollectorID  *int64 `json:"collector_id,omitempty"`
}
