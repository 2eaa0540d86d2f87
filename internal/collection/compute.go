// internal/collection/compute.go
package collection

import (
	"sort"

	"clubnexus/internal/club"

	"github.com/shopspring/decimal"
)

// Commission splits amountDue into the collector's commission, rounded to
// cents, and the net payable to the club.
func Commission(amountDue decimal.Decimal) (commission, net decimal.Decimal) {
	commission = amountDue.Mul(commissionRate).Round(2)
	return commission, amountDue.Sub(commission)
}

// OwingInZone returns the owing members of a zone sorted by id. Inactive
// and paid members are never included.
func OwingInZone(members []club.Member, zoneID int64) []club.Member {
	out := []club.Member{}
	for _, m := range members {
		if m.ZoneID == zoneID && m.Status == club.StatusOwing {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// AmountDue sums the monthly category fee of each member. A member whose
// category has no fee contributes zero.
func AmountDue(members []club.Member, fees map[string]decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, m := range members {
		if fee, ok := fees[m.CategoryID]; ok {
			total = total.Add(fee)
		}
	}
	return total
}

// BuildReport computes the payout report for a collector.
func BuildReport(c club.Collector, members []club.Member, fees map[string]decimal.Decimal) CollectorReport {
	owing := OwingInZone(members, c.ZoneID)
	due := AmountDue(owing, fees)
	commission, net := Commission(due)
	return CollectorReport{
		CollectorID: c.ID,
		ZoneID:      c.ZoneID,
		OwingCount:  len(owing),
		AmountDue:   due,
		Commission:  commission,
		NetPayable:  net,
	}
}

// WeeklyEntries selects the collector's payments dated on or after since,
// newest first, and attaches member names.
func WeeklyEntries(payments []club.Payment, members []club.Member, collectorID int64, since club.Date) []WeeklyEntry {
	names := make(map[int64]string, len(members))
	for _, m := range members {
		names[m.ID] = m.FullName()
	}

	out := []WeeklyEntry{}
	for _, p := range payments {
		if p.CollectorID != collectorID || p.Date.Before(since.Time) {
			continue
		}
		name, ok := names[p.MemberID]
		if !ok {
			name = MemberNotFound
		}
		out = append(out, WeeklyEntry{Payment: p, MemberName: name})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date.Time) {
			return out[i].Date.After(out[j].Date.Time)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func feeTable(categories []club.FeeCategory) map[string]decimal.Decimal {
	fees := make(map[string]decimal.Decimal, len(categories))
	for _, c := range categories {
		fees[c.ID] = c.MonthlyFee
	}
	return fees
}
