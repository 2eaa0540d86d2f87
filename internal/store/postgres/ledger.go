// internal/store/postgres/ledger.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"clubnexus/internal/club"

	"go.opentelemetry.io/otel/attribute"
)

func scanLocker(row rowScanner) (club.Locker, error) {
	var l club.Locker
	var member sql.NullInt64
	err := row.Scan(&l.ID, &l.MonthlyFee, &l.Status, &member)
	l.MemberID = ptrInt64(member)
	return l, err
}

func (s *Store) ListLockers(ctx context.Context) ([]club.Locker, error) {
	ctx, span := s.start(ctx, "list_lockers")
	defer span.End()

	rows, err := s.q.QueryContext(ctx, `
		SELECT id, monthly_fee, status, member_id
		FROM lockers
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, fail(span, fmt.Errorf("query lockers: %w", err))
	}
	defer rows.Close()

	lockers := []club.Locker{}
	for rows.Next() {
		l, err := scanLocker(rows)
		if err != nil {
			return nil, fail(span, fmt.Errorf("scan locker: %w", err))
		}
		lockers = append(lockers, l)
	}
	return lockers, rows.Err()
}

func (s *Store) GetLocker(ctx context.Context, id int64) (*club.Locker, error) {
	ctx, span := s.start(ctx, "get_locker", attribute.Int64("locker.id", id))
	defer span.End()

	l, err := scanLocker(s.q.QueryRowContext(ctx, `
		SELECT id, monthly_fee, status, member_id
		FROM lockers
		WHERE id = $1
	`, id))
	if err != nil {
		return nil, fail(span, translate(err, fmt.Sprintf("locker %d", id)))
	}
	return &l, nil
}

func (s *Store) CreateLocker(ctx context.Context, l *club.Locker) error {
	ctx, span := s.start(ctx, "create_locker", attribute.Int64("locker.id", l.ID))
	defer span.End()

	_, err := s.q.ExecContext(ctx, `
		INSERT INTO lockers (id, monthly_fee, status, member_id)
		VALUES ($1, $2, $3, $4)
	`, l.ID, l.MonthlyFee, l.Status, nullInt64(l.MemberID))
	if err != nil {
		return fail(span, translate(err, fmt.Sprintf("locker %d", l.ID)))
	}
	return nil
}

func (s *Store) UpdateLocker(ctx context.Context, l *club.Locker) error {
	ctx, span := s.start(ctx, "update_locker", attribute.Int64("locker.id", l.ID))
	defer span.End()

	res, err := s.q.ExecContext(ctx, `
		UPDATE lockers
		SET monthly_fee = $1, status = $2, member_id = $3
		WHERE id = $4
	`, l.MonthlyFee, l.Status, nullInt64(l.MemberID), l.ID)
	if err != nil {
		return fail(span, translate(err, fmt.Sprintf("update locker %d", l.ID)))
	}
	if err := mustAffect(res, fmt.Sprintf("locker %d", l.ID)); err != nil {
		return fail(span, err)
	}
	return nil
}

func (s *Store) DeleteLocker(ctx context.Context, id int64) error {
	ctx, span := s.start(ctx, "delete_locker", attribute.Int64("locker.id", id))
	defer span.End()

	res, err := s.q.ExecContext(ctx, `DELETE FROM lockers WHERE id = $1`, id)
	if err != nil {
		return fail(span, translate(err, fmt.Sprintf("delete locker %d", id)))
	}
	if err := mustAffect(res, fmt.Sprintf("locker %d", id)); err != nil {
		return fail(span, err)
	}
	return nil
}

// ListPayments returns the payment log in insertion order.
func (s *Store) ListPayments(ctx context.Context) ([]club.Payment, error) {
	ctx, span := s.start(ctx, "list_payments")
	defer span.End()

	rows, err := s.q.QueryContext(ctx, `
		SELECT id, amount, paid_on, member_id, collector_id, status, created_at
		FROM payments
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, fail(span, fmt.Errorf("query payments: %w", err))
	}
	defer rows.Close()

	payments := []club.Payment{}
	for rows.Next() {
		var p club.Payment
		if err := rows.Scan(&p.ID, &p.Amount, &p.Date, &p.MemberID, &p.CollectorID, &p.Status, &p.CreatedAt); err != nil {
			return nil, fail(span, fmt.Errorf("scan payment: %w", err))
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fail(span, fmt.Errorf("iterate payments: %w", err))
	}

	span.SetAttributes(attribute.Int("payments.loaded", len(payments)))
	return payments, nil
}

// CreatePayment appends to the payment log; p.ID and p.CreatedAt are set on success.
func (s *Store) CreatePayment(ctx context.Context, p *club.Payment) error {
	ctx, span := s.start(ctx, "create_payment",
		attribute.Int64("member.id", p.MemberID),
		attribute.Int64("collector.id", p.CollectorID),
	)
	defer span.End()

	err := s.q.QueryRowContext(ctx, `
		INSERT INTO payments (amount, paid_on, member_id, collector_id, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, p.Amount, p.Date, p.MemberID, p.CollectorID, p.Status).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fail(span, translate(err, "insert payment"))
	}

	span.AddEvent("payment.appended")
	return nil
}

func (s *Store) GetUser(ctx context.Context, username string) (*club.User, error) {
	ctx, span := s.start(ctx, "get_user")
	defer span.End()

	var u club.User
	var member, collector sql.NullInt64
	err := s.q.QueryRowContext(ctx, `
		SELECT username, password_hash, salt, role, member_id, collector_id
		FROM users
		WHERE username = $1
	`, username).Scan(&u.Username, &u.PasswordHash, &u.Salt, &u.Role, &member, &collector)
	if err != nil {
		return nil, fail(span, translate(err, fmt.Sprintf("user %q", username)))
	}
	u.MemberID = ptrInt64(member)
	u.CollectorID = ptrInt64(collector)
	return &u, nil
}

func (s *Store) CreateUser(ctx context.Context, u *club.User) error {
	ctx, span := s.start(ctx, "create_user")
	defer span.End()

	_, err := s.q.ExecContext(ctx, `
		INSERT INTO users (username, password_hash, salt, role, member_id, collector_id)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, u.Username, u.PasswordHash, u.Salt, u.Role, nullInt64(u.MemberID), nullInt64(u.CollectorID))
	if err != nil {
		return fail(span, translate(err, fmt.Sprintf("user %q", u.Username)))
	}
	return nil
}
