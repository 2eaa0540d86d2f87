// internal/membership/domain.go
package membership

import (
	"clubnexus/internal/club"

	"github.com/shopspring/decimal"
)

// MemberInput carries the fields of a new member. Status defaults to owing
// and JoinDate to today.
type MemberInput struct {
	FirstName   string            `json:"first_name" validate:"required,max=100"`
	LastName    string            `json:"last_name" validate:"required,max=100"`
	NationalID  string            `json:"national_id" validate:"omitempty,max=20"`
	Email       string            `json:"email" validate:"omitempty,email"`
	Phone       string            `json:"phone" validate:"omitempty,max=30"`
	Address     string            `json:"address" validate:"omitempty,max=200"`
	JoinDate    club.Date         `json:"join_date"`
	BirthDate   club.Date         `json:"birth_date"`
	CategoryID  string            `json:"category_id" validate:"required"`
	ZoneID      int64             `json:"zone_id" validate:"required,gt=0"`
	Status      club.MemberStatus `json:"status" validate:"omitempty,oneof=paid owing inactive"`
	ActivityIDs []int64           `json:"activity_ids"`
}

// MemberPatch updates the fields that are set. Locker and activities are
// owned by the locker desk and enrollment operations.
type MemberPatch struct {
	FirstName  *string            `json:"first_name" validate:"omitempty,min=1,max=100"`
	LastName   *string            `json:"last_name" validate:"omitempty,min=1,max=100"`
	NationalID *string            `json:"national_id" validate:"omitempty,max=20"`
	Email      *string            `json:"email" validate:"omitempty,email"`
	Phone      *string            `json:"phone" validate:"omitempty,max=30"`
	Address    *string            `json:"address" validate:"omitempty,max=200"`
	JoinDate   *club.Date         `json:"join_date"`
	BirthDate  *club.Date         `json:"birth_date"`
	CategoryID *string            `json:"category_id" validate:"omitempty,min=1"`
	ZoneID     *int64             `json:"zone_id" validate:"omitempty,gt=0"`
	Status     *club.MemberStatus `json:"status" validate:"omitempty,oneof=paid owing inactive"`
}

func (p MemberPatch) apply(m *club.Member) {
	if p.FirstName != nil {
		m.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		m.LastName = *p.LastName
	}
	if p.NationalID != nil {
		m.NationalID = *p.NationalID
	}
	if p.Email != nil {
		m.Email = *p.Email
	}
	if p.Phone != nil {
		m.Phone = *p.Phone
	}
	if p.Address != nil {
		m.Address = *p.Address
	}
	if p.JoinDate != nil {
		m.JoinDate = *p.JoinDate
	}
	if p.BirthDate != nil {
		m.BirthDate = *p.BirthDate
	}
	if p.CategoryID != nil {
		m.CategoryID = *p.CategoryID
	}
	if p.ZoneID != nil {
		m.ZoneID = *p.ZoneID
	}
	if p.Status != nil {
		m.Status = *p.Status
	}
}

// Dashboard holds the admin overview totals.
type Dashboard struct {
	TotalMembers  int             `json:"total_members"`
	ActivityCount int             `json:"activity_count"`
	MonthlyFees   decimal.Decimal `json:"monthly_fees"`
}

// Profile is a member's view of their own record.
type Profile struct {
	Member       club.Member     `json:"member"`
	CategoryName string          `json:"category_name"`
	Activities   []club.Activity `json:"activities"`
	Locker       *club.Locker    `json:"locker,omitempty"`
	MonthlyTotal decimal.Decimal `json:"monthly_total"`
}
