package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/fdg312/gym-tracker/internal/storage"
	"github.com/jackc/pgx/v5"
)

// GetSnapshot joins the customer with its newest weight observation and its
// latest started goal in one round trip. Missing rows on either side yield
// ErrNotFound because of the inner LATERAL joins.
func (p *PostgresStorage) GetSnapshot(ctx context.Context, customerID int64) (*storage.Snapshot, error) {
	query := `
		SELECT c.id, c.height_cm, c.birth_date, c.sex, c.activity_factor,
		       w.weight_kg, w.recorded_on,
		       g.target_weight_kg, g.start_date, g.end_date
		FROM customers c
		JOIN LATERAL (
			SELECT weight_kg, recorded_on
			FROM progress
			WHERE customer_id = c.id
			ORDER BY recorded_on DESC, id DESC
			LIMIT 1
		) w ON true
		JOIN LATERAL (
			SELECT target_weight_kg, start_date, end_date
			FROM goals
			WHERE customer_id = c.id
			ORDER BY start_date DESC, id DESC
			LIMIT 1
		) g ON true
		WHERE c.id = $1
	`

	var s storage.Snapshot
	err := p.pool.QueryRow(ctx, query, customerID).Scan(
		&s.CustomerID,
		&s.HeightCM,
		&s.BirthDate,
		&s.Sex,
		&s.ActivityFactor,
		&s.LatestWeightKG,
		&s.WeightRecordedOn,
		&s.GoalTargetKG,
		&s.GoalStartDate,
		&s.GoalEndDate,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}

	return &s, nil
}
