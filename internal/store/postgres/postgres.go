// internal/store/postgres/postgres.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"clubnexus/internal/club"

	"github.com/lib/pq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// querier is the subset shared by *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store implements club.Store on PostgreSQL.
type Store struct {
	db     *sql.DB
	q      querier
	inTx   bool
	tracer trace.Tracer
}

// NewStore wraps an open database handle.
func NewStore(db *sql.DB) *Store {
	return &Store{
		db:     db,
		q:      db,
		tracer: otel.Tracer("clubnexus/store/postgres"),
	}
}

// WithTx runs fn inside a database transaction. Nested calls reuse the
// outer transaction.
func (s *Store) WithTx(ctx context.Context, fn func(club.Store) error) error {
	if s.inTx {
		return fn(s)
	}

	ctx, span := s.tracer.Start(ctx, "store.tx")
	defer span.End()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&Store{db: s.db, q: tx, inTx: true, tracer: s.tracer}); err != nil {
		span.SetAttributes(attribute.Bool("tx.rolled_back", true))
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// atomically runs fn in the current transaction, opening one if needed.
func (s *Store) atomically(ctx context.Context, fn func(*Store) error) error {
	return s.WithTx(ctx, func(st club.Store) error { return fn(st.(*Store)) })
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, "store."+name, trace.WithAttributes(attrs...))
}

// fail records err on the span and returns it.
func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

// translate maps driver errors onto the club error taxonomy.
func translate(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, club.ErrNotFound)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505":
			return fmt.Errorf("%s: %w", what, club.ErrConflict)
		case "23503", "23514":
			return fmt.Errorf("%s: %s: %w", what, pqErr.Message, club.ErrInvalidInput)
		}
	}
	return fmt.Errorf("%s: %w", what, err)
}

// mustAffect turns a zero-row UPDATE/DELETE into ErrNotFound.
func mustAffect(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", what, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, club.ErrNotFound)
	}
	return nil
}

func nullInt64(p *int64) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *p, Valid: true}
}

func ptrInt64(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}
