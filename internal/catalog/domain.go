// internal/catalog/domain.go
package catalog

import (
	"strings"

	"clubnexus/internal/club"

	"github.com/shopspring/decimal"
)

// ActivityFilter narrows listActivities. Zero fields match everything.
type ActivityFilter struct {
	Query    string
	Schedule club.Schedule
}

// Match reports whether a passes the filter. Query is a case-insensitive
// substring of the name.
func (f ActivityFilter) Match(a club.Activity) bool {
	if f.Schedule != "" && a.Schedule != f.Schedule {
		return false
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		return strings.Contains(strings.ToLower(a.Name), strings.ToLower(q))
	}
	return true
}

// ActivityInput carries the editable fields of an activity.
type ActivityInput struct {
	Name     string          `json:"name" validate:"required,max=100"`
	Cost     decimal.Decimal `json:"cost"`
	Schedule club.Schedule   `json:"schedule" validate:"required,oneof=morning afternoon evening"`
}

// CollectorInput carries the editable fields of a collector.
type CollectorInput struct {
	Name   string `json:"name" validate:"required,max=100"`
	ZoneID int64  `json:"zone_id" validate:"required,gt=0"`
}
