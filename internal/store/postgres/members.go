// internal/store/postgres/members.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"clubnexus/internal/club"

	"go.opentelemetry.io/otel/attribute"
)

const memberColumns = `id, first_name, last_name, national_id, email, phone, address, join_date, birth_date, category_id, zone_id, status, locker_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMember(row rowScanner) (club.Member, error) {
	var m club.Member
	var locker sql.NullInt64
	err := row.Scan(
		&m.ID,
		&m.FirstName,
		&m.LastName,
		&m.NationalID,
		&m.Email,
		&m.Phone,
		&m.Address,
		&m.JoinDate,
		&m.BirthDate,
		&m.CategoryID,
		&m.ZoneID,
		&m.Status,
		&locker,
	)
	m.LockerID = ptrInt64(locker)
	m.ActivityIDs = []int64{}
	return m, err
}

// ListMembers returns every member ordered by id, with activity sets attached.
func (s *Store) ListMembers(ctx context.Context) ([]club.Member, error) {
	ctx, span := s.start(ctx, "list_members")
	defer span.End()

	rows, err := s.q.QueryContext(ctx, `
		SELECT `+memberColumns+`
		FROM members
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, fail(span, fmt.Errorf("query members: %w", err))
	}
	defer rows.Close()

	var members []club.Member
	index := map[int64]int{}
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fail(span, fmt.Errorf("scan member: %w", err))
		}
		index[m.ID] = len(members)
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fail(span, fmt.Errorf("iterate members: %w", err))
	}

	enrollments, err := s.q.QueryContext(ctx, `
		SELECT member_id, activity_id
		FROM member_activities
		ORDER BY member_id, activity_id
	`)
	if err != nil {
		return nil, fail(span, fmt.Errorf("query member activities: %w", err))
	}
	defer enrollments.Close()

	for enrollments.Next() {
		var memberID, activityID int64
		if err := enrollments.Scan(&memberID, &activityID); err != nil {
			return nil, fail(span, fmt.Errorf("scan member activity: %w", err))
		}
		if i, ok := index[memberID]; ok {
			members[i].ActivityIDs = append(members[i].ActivityIDs, activityID)
		}
	}
	if err := enrollments.Err(); err != nil {
		return nil, fail(span, fmt.Errorf("iterate member activities: %w", err))
	}

	span.SetAttributes(attribute.Int("members.loaded", len(members)))
	return members, nil
}

// GetMember retrieves a member by id.
func (s *Store) GetMember(ctx context.Context, id int64) (*club.Member, error) {
	ctx, span := s.start(ctx, "get_member", attribute.Int64("member.id", id))
	defer span.End()

	m, err := scanMember(s.q.QueryRowContext(ctx, `
		SELECT `+memberColumns+`
		FROM members
		WHERE id = $1
	`, id))
	if err != nil {
		return nil, fail(span, translate(err, fmt.Sprintf("member with ID %d", id)))
	}

	ids, err := s.memberActivities(ctx, id)
	if err != nil {
		return nil, fail(span, err)
	}
	m.ActivityIDs = ids
	return &m, nil
}

func (s *Store) memberActivities(ctx context.Context, memberID int64) ([]int64, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT activity_id
		FROM member_activities
		WHERE member_id = $1
		ORDER BY activity_id
	`, memberID)
	if err != nil {
		return nil, fmt.Errorf("query member activities: %w", err)
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan member activity: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// CreateMember inserts the member and its enrollments; m.ID is set on success.
func (s *Store) CreateMember(ctx context.Context, m *club.Member) error {
	ctx, span := s.start(ctx, "create_member")
	defer span.End()

	err := s.atomically(ctx, func(tx *Store) error {
		err := tx.q.QueryRowContext(ctx, `
			INSERT INTO members (first_name, last_name, national_id, email, phone, address, join_date, birth_date, category_id, zone_id, status, locker_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			RETURNING id
		`, m.FirstName, m.LastName, m.NationalID, m.Email, m.Phone, m.Address, m.JoinDate, m.BirthDate,
			m.CategoryID, m.ZoneID, m.Status, nullInt64(m.LockerID)).Scan(&m.ID)
		if err != nil {
			return translate(err, "insert member")
		}
		return tx.replaceActivities(ctx, m)
	})
	if err != nil {
		return fail(span, err)
	}
	span.SetAttributes(attribute.Int64("member.id", m.ID))
	return nil
}

// UpdateMember overwrites the member row and its activity set.
func (s *Store) UpdateMember(ctx context.Context, m *club.Member) error {
	ctx, span := s.start(ctx, "update_member", attribute.Int64("member.id", m.ID))
	defer span.End()

	err := s.atomically(ctx, func(tx *Store) error {
		res, err := tx.q.ExecContext(ctx, `
			UPDATE members
			SET first_name = $1, last_name = $2, national_id = $3, email = $4, phone = $5, address = $6,
			    join_date = $7, birth_date = $8, category_id = $9, zone_id = $10, status = $11, locker_id = $12,
			    updated_at = NOW()
			WHERE id = $13
		`, m.FirstName, m.LastName, m.NationalID, m.Email, m.Phone, m.Address, m.JoinDate, m.BirthDate,
			m.CategoryID, m.ZoneID, m.Status, nullInt64(m.LockerID), m.ID)
		if err != nil {
			return translate(err, fmt.Sprintf("update member %d", m.ID))
		}
		if err := mustAffect(res, fmt.Sprintf("member with ID %d", m.ID)); err != nil {
			return err
		}
		if _, err := tx.q.ExecContext(ctx, `DELETE FROM member_activities WHERE member_id = $1`, m.ID); err != nil {
			return fmt.Errorf("clear member activities: %w", err)
		}
		return tx.replaceActivities(ctx, m)
	})
	if err != nil {
		return fail(span, err)
	}
	return nil
}

func (s *Store) replaceActivities(ctx context.Context, m *club.Member) error {
	ids := append([]int64(nil), m.ActivityIDs...)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, activityID := range ids {
		_, err := s.q.ExecContext(ctx, `
			INSERT INTO member_activities (member_id, activity_id)
			VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, m.ID, activityID)
		if err != nil {
			return translate(err, fmt.Sprintf("enroll member %d in activity %d", m.ID, activityID))
		}
	}
	return nil
}

// DeleteMember removes the member; enrollments cascade.
func (s *Store) DeleteMember(ctx context.Context, id int64) error {
	ctx, span := s.start(ctx, "delete_member", attribute.Int64("member.id", id))
	defer span.End()

	res, err := s.q.ExecContext(ctx, `DELETE FROM members WHERE id = $1`, id)
	if err != nil {
		return fail(span, translate(err, fmt.Sprintf("delete member %d", id)))
	}
	if err := mustAffect(res, fmt.Sprintf("member with ID %d", id)); err != nil {
		return fail(span, err)
	}
	return nil
}
