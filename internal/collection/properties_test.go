package collection

import (
	"testing"

	"clubnexus/internal/club"

	"github.com/shopspring/decimal"
	"pgregory.net/rapid"
)

var (
	statuses   = []club.MemberStatus{club.StatusPaid, club.StatusOwing, club.StatusInactive}
	categories = []string{"infantil", "cadete", "adulto", "adulto_mayor", "sin_tarifa"}
	fees       = map[string]decimal.Decimal{
		"infantil":     decimal.NewFromInt(1000),
		"cadete":       decimal.NewFromInt(1500),
		"adulto":       decimal.NewFromInt(2500),
		"adulto_mayor": decimal.NewFromInt(1200),
	}
)

func drawMembers(t *rapid.T) []club.Member {
	n := rapid.IntRange(0, 30).Draw(t, "members")
	members := make([]club.Member, n)
	for i := range members {
		members[i] = club.Member{
			ID:         int64(i + 1),
			ZoneID:     rapid.Int64Range(1, 5).Draw(t, "zone"),
			CategoryID: rapid.SampledFrom(categories).Draw(t, "category"),
			Status:     rapid.SampledFrom(statuses).Draw(t, "status"),
		}
	}
	return members
}

func TestCommissionIsTenPercentRounded(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		cents := rapid.Int64Range(0, 1_000_000_000).Draw(t, "cents")
		due := decimal.New(cents, -2)

		commission, net := Commission(due)
		if !commission.Equal(due.Mul(decimal.RequireFromString("0.1")).Round(2)) {
			t.Fatalf("commission %s for due %s", commission, due)
		}
		if !net.Add(commission).Equal(due) {
			t.Fatalf("net %s + commission %s != due %s", net, commission, due)
		}
		if commission.GreaterThan(due) || commission.IsNegative() {
			t.Fatalf("commission %s out of range for due %s", commission, due)
		}
	})
}

func TestInactiveMembersNeverBilled(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		members := drawMembers(t)
		zone := rapid.Int64Range(1, 5).Draw(t, "report zone")

		owing := OwingInZone(members, zone)
		for i, m := range owing {
			if m.Status != club.StatusOwing || m.ZoneID != zone {
				t.Fatalf("member %d (%s, zone %d) listed as owing in zone %d", m.ID, m.Status, m.ZoneID, zone)
			}
			if i > 0 && owing[i-1].ID >= m.ID {
				t.Fatalf("owing list not sorted by id")
			}
		}

		// Flipping every inactive member's category never changes the report.
		report := BuildReport(club.Collector{ID: 1, ZoneID: zone}, members, fees)
		moved := make([]club.Member, len(members))
		for i, m := range members {
			if m.Status == club.StatusInactive {
				m.CategoryID = "adulto"
				m.ZoneID = zone
			}
			moved[i] = m
		}
		again := BuildReport(club.Collector{ID: 1, ZoneID: zone}, moved, fees)
		if !report.AmountDue.Equal(again.AmountDue) || report.OwingCount != again.OwingCount {
			t.Fatalf("inactive members changed the report: %s vs %s", report.AmountDue, again.AmountDue)
		}
	})
}

func TestReportMatchesOwingFees(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		members := drawMembers(t)
		zone := rapid.Int64Range(1, 5).Draw(t, "report zone")

		want := decimal.Zero
		count := 0
		for _, m := range members {
			if m.ZoneID == zone && m.Status == club.StatusOwing {
				count++
				want = want.Add(fees[m.CategoryID])
			}
		}

		report := BuildReport(club.Collector{ID: 7, ZoneID: zone}, members, fees)
		if report.OwingCount != count || !report.AmountDue.Equal(want) {
			t.Fatalf("got %d/%s, want %d/%s", report.OwingCount, report.AmountDue, count, want)
		}
		if !report.NetPayable.Add(report.Commission).Equal(report.AmountDue) {
			t.Fatalf("net + commission != due")
		}
	})
}
