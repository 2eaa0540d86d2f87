// internal/audit/audit.go
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Event types written by the services.
const (
	PaymentRecorded    = "PaymentRecorded"
	LockerAssigned     = "LockerAssigned"
	LockerReleased     = "LockerReleased"
	MemberCreated      = "MemberCreated"
	MemberUpdated      = "MemberUpdated"
	MemberDeleted      = "MemberDeleted"
	ActivityEnrolled   = "ActivityEnrolled"
	ActivityUnenrolled = "ActivityUnenrolled"
)

const (
	DefaultLimit = 100
	MaxLimit     = 1000
)

// Event is one entry of the append-only audit trail.
type Event struct {
	ID            int64           `json:"id"`
	AggregateType string          `json:"aggregate_type"`
	AggregateID   string          `json:"aggregate_id"`
	EventType     string          `json:"event_type"`
	Data          json.RawMessage `json:"data"`
	Actor         string          `json:"actor"`
	CreatedAt     time.Time       `json:"created_at"`
}

// NewEvent builds an event for the given aggregate. data is stored as JSON.
func NewEvent(aggregateType string, aggregateID int64, eventType string, data any) Event {
	raw, err := json.Marshal(data)
	if err != nil || data == nil {
		raw = json.RawMessage(`{}`)
	}
	return Event{
		AggregateType: aggregateType,
		AggregateID:   fmt.Sprint(aggregateID),
		EventType:     eventType,
		Data:          raw,
	}
}

// By sets the acting username.
func (e Event) By(actor string) Event {
	e.Actor = actor
	return e
}

// Log is an append-only event log read back by cursor.
type Log interface {
	Append(ctx context.Context, events ...Event) error
	// List returns up to limit events with ID greater than afterID, ascending.
	List(ctx context.Context, afterID int64, limit int) ([]Event, error)
}

// Recorder writes events to a Log on behalf of the services. A failed
// append is logged and dropped; it never fails the operation being audited.
type Recorder struct {
	log    Log
	logger *zap.Logger
}

func NewRecorder(log Log, logger *zap.Logger) *Recorder {
	return &Recorder{log: log, logger: logger}
}

func (r *Recorder) Record(ctx context.Context, events ...Event) {
	if r == nil || r.log == nil || len(events) == 0 {
		return
	}
	if err := r.log.Append(ctx, events...); err != nil {
		r.logger.Warn("audit append failed",
			zap.Error(err),
			zap.String("event_type", events[0].EventType),
			zap.String("aggregate_id", events[0].AggregateID),
		)
	}
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	}
	return limit
}
