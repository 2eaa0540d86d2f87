// internal/store/postgres/catalog.go
package postgres

import (
	"context"
	"fmt"

	"clubnexus/internal/club"

	"go.opentelemetry.io/otel/attribute"
)

func (s *Store) ListActivities(ctx context.Context) ([]club.Activity, error) {
	ctx, span := s.start(ctx, "list_activities")
	defer span.End()

	rows, err := s.q.QueryContext(ctx, `
		SELECT id, name, cost, schedule
		FROM activities
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, fail(span, fmt.Errorf("query activities: %w", err))
	}
	defer rows.Close()

	activities := []club.Activity{}
	for rows.Next() {
		var a club.Activity
		if err := rows.Scan(&a.ID, &a.Name, &a.Cost, &a.Schedule); err != nil {
			return nil, fail(span, fmt.Errorf("scan activity: %w", err))
		}
		activities = append(activities, a)
	}
	return activities, rows.Err()
}

func (s *Store) GetActivity(ctx context.Context, id int64) (*club.Activity, error) {
	ctx, span := s.start(ctx, "get_activity", attribute.Int64("activity.id", id))
	defer span.End()

	var a club.Activity
	err := s.q.QueryRowContext(ctx, `
		SELECT id, name, cost, schedule
		FROM activities
		WHERE id = $1
	`, id).Scan(&a.ID, &a.Name, &a.Cost, &a.Schedule)
	if err != nil {
		return nil, fail(span, translate(err, fmt.Sprintf("activity with ID %d", id)))
	}
	return &a, nil
}

func (s *Store) CreateActivity(ctx context.Context, a *club.Activity) error {
	ctx, span := s.start(ctx, "create_activity")
	defer span.End()

	err := s.q.QueryRowContext(ctx, `
		INSERT INTO activities (name, cost, schedule)
		VALUES ($1, $2, $3)
		RETURNING id
	`, a.Name, a.Cost, a.Schedule).Scan(&a.ID)
	if err != nil {
		return fail(span, translate(err, "insert activity"))
	}
	return nil
}

func (s *Store) UpdateActivity(ctx context.Context, a *club.Activity) error {
	ctx, span := s.start(ctx, "update_activity", attribute.Int64("activity.id", a.ID))
	defer span.End()

	res, err := s.q.ExecContext(ctx, `
		UPDATE activities
		SET name = $1, cost = $2, schedule = $3
		WHERE id = $4
	`, a.Name, a.Cost, a.Schedule, a.ID)
	if err != nil {
		return fail(span, translate(err, fmt.Sprintf("update activity %d", a.ID)))
	}
	if err := mustAffect(res, fmt.Sprintf("activity with ID %d", a.ID)); err != nil {
		return fail(span, err)
	}
	return nil
}

func (s *Store) DeleteActivity(ctx context.Context, id int64) error {
	ctx, span := s.start(ctx, "delete_activity", attribute.Int64("activity.id", id))
	defer span.End()

	res, err := s.q.ExecContext(ctx, `DELETE FROM activities WHERE id = $1`, id)
	if err != nil {
		return fail(span, translate(err, fmt.Sprintf("delete activity %d", id)))
	}
	if err := mustAffect(res, fmt.Sprintf("activity with ID %d", id)); err != nil {
		return fail(span, err)
	}
	return nil
}

func (s *Store) ListFeeCategories(ctx context.Context) ([]club.FeeCategory, error) {
	ctx, span := s.start(ctx, "list_fee_categories")
	defer span.End()

	rows, err := s.q.QueryContext(ctx, `
		SELECT id, name, monthly_fee
		FROM fee_categories
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, fail(span, fmt.Errorf("query fee categories: %w", err))
	}
	defer rows.Close()

	categories := []club.FeeCategory{}
	for rows.Next() {
		var c club.FeeCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.MonthlyFee); err != nil {
			return nil, fail(span, fmt.Errorf("scan fee category: %w", err))
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (s *Store) GetFeeCategory(ctx context.Context, id string) (*club.FeeCategory, error) {
	ctx, span := s.start(ctx, "get_fee_category", attribute.String("category.id", id))
	defer span.End()

	var c club.FeeCategory
	err := s.q.QueryRowContext(ctx, `
		SELECT id, name, monthly_fee
		FROM fee_categories
		WHERE id = $1
	`, id).Scan(&c.ID, &c.Name, &c.MonthlyFee)
	if err != nil {
		return nil, fail(span, translate(err, fmt.Sprintf("fee category %q", id)))
	}
	return &c, nil
}

func (s *Store) CreateFeeCategory(ctx context.Context, c *club.FeeCategory) error {
	ctx, span := s.start(ctx, "create_fee_category", attribute.String("category.id", c.ID))
	defer span.End()

	_, err := s.q.ExecContext(ctx, `
		INSERT INTO fee_categories (id, name, monthly_fee)
		VALUES ($1, $2, $3)
	`, c.ID, c.Name, c.MonthlyFee)
	if err != nil {
		return fail(span, translate(err, fmt.Sprintf("fee category %q", c.ID)))
	}
	return nil
}

func (s *Store) ListZones(ctx context.Context) ([]club.Zone, error) {
	ctx, span := s.start(ctx, "list_zones")
	defer span.End()

	rows, err := s.q.QueryContext(ctx, `SELECT id, name FROM zones ORDER BY id ASC`)
	if err != nil {
		return nil, fail(span, fmt.Errorf("query zones: %w", err))
	}
	defer rows.Close()

	zones := []club.Zone{}
	for rows.Next() {
		var z club.Zone
		if err := rows.Scan(&z.ID, &z.Name); err != nil {
			return nil, fail(span, fmt.Errorf("scan zone: %w", err))
		}
		zones = append(zones, z)
	}
	return zones, rows.Err()
}

func (s *Store) GetZone(ctx context.Context, id int64) (*club.Zone, error) {
	ctx, span := s.start(ctx, "get_zone", attribute.Int64("zone.id", id))
	defer span.End()

	var z club.Zone
	err := s.q.QueryRowContext(ctx, `SELECT id, name FROM zones WHERE id = $1`, id).Scan(&z.ID, &z.Name)
	if err != nil {
		return nil, fail(span, translate(err, fmt.Sprintf("zone with ID %d", id)))
	}
	return &z, nil
}

func (s *Store) CreateZone(ctx context.Context, z *club.Zone) error {
	ctx, span := s.start(ctx, "create_zone", attribute.Int64("zone.id", z.ID))
	defer span.End()

	if _, err := s.q.ExecContext(ctx, `INSERT INTO zones (id, name) VALUES ($1, $2)`, z.ID, z.Name); err != nil {
		return fail(span, translate(err, fmt.Sprintf("zone with ID %d", z.ID)))
	}
	return nil
}

func (s *Store) ListCollectors(ctx context.Context) ([]club.Collector, error) {
	ctx, span := s.start(ctx, "list_collectors")
	defer span.End()

	rows, err := s.q.QueryContext(ctx, `SELECT id, name, zone_id FROM collectors ORDER BY id ASC`)
	if err != nil {
		return nil, fail(span, fmt.Errorf("query collectors: %w", err))
	}
	defer rows.Close()

	collectors := []club.Collector{}
	for rows.Next() {
		var c club.Collector
		if err := rows.Scan(&c.ID, &c.Name, &c.ZoneID); err != nil {
			return nil, fail(span, fmt.Errorf("scan collector: %w", err))
		}
		collectors = append(collectors, c)
	}
	return collectors, rows.Err()
}

func (s *Store) GetCollector(ctx context.Context, id int64) (*club.Collector, error) {
	ctx, span := s.start(ctx, "get_collector", attribute.Int64("collector.id", id))
	defer span.End()

	var c club.Collector
	err := s.q.QueryRowContext(ctx, `SELECT id, name, zone_id FROM collectors WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.ZoneID)
	if err != nil {
		return nil, fail(span, translate(err, fmt.Sprintf("collector with ID %d", id)))
	}
	return &c, nil
}

func (s *Store) CreateCollector(ctx context.Context, c *club.Collector) error {
	ctx, span := s.start(ctx, "create_collector")
	defer span.End()

	err := s.q.QueryRowContext(ctx, `
		INSERT INTO collectors (name, zone_id)
		VALUES ($1, $2)
		RETURNING id
	`, c.Name, c.ZoneID).Scan(&c.ID)
	if err != nil {
		return fail(span, translate(err, "insert collector"))
	}
	return nil
}

func (s *Store) UpdateCollector(ctx context.Context, c *club.Collector) error {
	ctx, span := s.start(ctx, "update_collector", attribute.Int64("collector.id", c.ID))
	defer span.End()

	res, err := s.q.ExecContext(ctx, `UPDATE collectors SET name = $1, zone_id = $2 WHERE id = $3`, c.Name, c.ZoneID, c.ID)
	if err != nil {
		return fail(span, translate(err, fmt.Sprintf("update collector %d", c.ID)))
	}
	if err := mustAffect(res, fmt.Sprintf("collector with ID %d", c.ID)); err != nil {
		return fail(span, err)
	}
	return nil
}

func (s *Store) DeleteCollector(ctx context.Context, id int64) error {
	ctx, span := s.start(ctx, "delete_collector", attribute.Int64("collector.id", id))
	defer span.End()

	res, err := s.q.ExecContext(ctx, `DELETE FROM collectors WHERE id = $1`, id)
	if err != nil {
		return fail(span, translate(err, fmt.Sprintf("delete collector %d", id)))
	}
	if err := mustAffect(res, fmt.Sprintf("collector with ID %d", id)); err != nil {
		return fail(span, err)
	}
	return nil
}
