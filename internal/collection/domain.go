// internal/collection/domain.go
package collection

import (
	"clubnexus/internal/club"

	"github.com/shopspring/decimal"
)

// MemberNotFound is shown in the weekly report for payments whose member
// has since been deleted.
const MemberNotFound = "Member not found"

// commissionRate is the collector's fixed cut of the amount due.
var commissionRate = decimal.RequireFromString("0.10")

// CollectorReport is a collector's payout summary over the owing members
// of their zone.
type CollectorReport struct {
	CollectorID int64           `json:"collector_id"`
	ZoneID      int64           `json:"zone_id"`
	OwingCount  int             `json:"owing_count"`
	AmountDue   decimal.Decimal `json:"amount_due"`
	Commission  decimal.Decimal `json:"commission"`
	NetPayable  decimal.Decimal `json:"net_payable"`
}

// PaymentRequest is the input of RecordPayment.
type PaymentRequest struct {
	MemberID    int64           `json:"member_id"`
	CollectorID int64           `json:"collector_id"`
	Amount      decimal.Decimal `json:"amount"`
	Date        club.Date       `json:"date"`
}

// WeeklyEntry is a payment joined with its member's display name.
type WeeklyEntry struct {
	club.Payment
	MemberName string `json:"member_name"`
}

// WeeklyReport lists a collector's payments of the last seven days together
// with a snapshot of the zone's owing members.
type WeeklyReport struct {
	CollectorID   int64           `json:"collector_id"`
	CollectorName string          `json:"collector_name"`
	ZoneID        int64           `json:"zone_id"`
	Since         club.Date       `json:"since"`
	Payments      []WeeklyEntry   `json:"payments"`
	Collected     decimal.Decimal `json:"collected"`
	Owing         []club.Member   `json:"owing"`
}
