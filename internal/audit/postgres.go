// internal/audit/postgres.go
package audit

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// PostgresLog stores events in the audit_events table.
type PostgresLog struct {
	db     *sql.DB
	tracer trace.Tracer
}

func NewPostgresLog(db *sql.DB) *PostgresLog {
	return &PostgresLog{
		db:     db,
		tracer: otel.Tracer("clubnexus/audit"),
	}
}

// Append inserts the events in one transaction.
func (l *PostgresLog) Append(ctx context.Context, events ...Event) error {
	ctx, span := l.tracer.Start(ctx, "audit.append",
		trace.WithAttributes(attribute.Int("event.count", len(events))),
	)
	defer span.End()

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO audit_events (aggregate_type, aggregate_id, event_type, data, actor, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`)
	if err != nil {
		return fmt.Errorf("prepare statement: %w", err)
	}
	defer stmt.Close()

	for i, e := range events {
		if e.CreatedAt.IsZero() {
			e.CreatedAt = time.Now().UTC()
		}
		data := []byte(e.Data)
		if len(data) == 0 {
			data = []byte(`{}`)
		}

		var id int64
		err := stmt.QueryRowContext(ctx,
			e.AggregateType,
			e.AggregateID,
			e.EventType,
			data,
			e.Actor,
			e.CreatedAt,
		).Scan(&id)
		if err != nil {
			return fmt.Errorf("insert event %d: %w", i, err)
		}

		span.AddEvent("event.appended", trace.WithAttributes(
			attribute.Int64("event.id", id),
			attribute.String("event.type", e.EventType),
		))
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// List provides a cursor-based stream over the log.
func (l *PostgresLog) List(ctx context.Context, afterID int64, limit int) ([]Event, error) {
	limit = clampLimit(limit)
	ctx, span := l.tracer.Start(ctx, "audit.list",
		trace.WithAttributes(
			attribute.Int64("from.id", afterID),
			attribute.Int("batch.size", limit),
		),
	)
	defer span.End()

	rows, err := l.db.QueryContext(ctx, `
		SELECT id, aggregate_type, aggregate_id, event_type, data, actor, created_at
		FROM audit_events
		WHERE id > $1
		ORDER BY id ASC
		LIMIT $2
	`, afterID, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	events := []Event{}
	for rows.Next() {
		var e Event
		var data []byte
		err := rows.Scan(
			&e.ID,
			&e.AggregateType,
			&e.AggregateID,
			&e.EventType,
			&data,
			&e.Actor,
			&e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		e.Data = data
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}

	span.SetAttributes(attribute.Int("events.streamed", len(events)))
	return events, nil
}
