package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/fdg312/gym-tracker/internal/storage"
	"github.com/jackc/pgx/v5"
)

func scanProgress(row pgx.Row) (storage.Progress, error) {
	var p storage.Progress
	err := row.Scan(&p.ID, &p.CustomerID, &p.RecordedOn, &p.WeightKG, &p.CreatedAt)
	return p, err
}

func (p *PostgresStorage) AddProgress(ctx context.Context, entry *storage.Progress) error {
	query := `
		INSERT INTO progress (customer_id, recorded_on, weight_kg)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := p.pool.QueryRow(ctx, query, entry.CustomerID, entry.RecordedOn, entry.WeightKG).
		Scan(&entry.ID, &entry.CreatedAt)
	return mapWriteError("add progress", err)
}

func (p *PostgresStorage) GetProgress(ctx context.Context, id int64) (*storage.Progress, error) {
	query := `
		SELECT id, customer_id, recorded_on, weight_kg, created_at
		FROM progress
		WHERE id = $1
	`

	entry, err := scanProgress(p.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get progress: %w", err)
	}
	return &entry, nil
}

func (p *PostgresStorage) ListAllProgress(ctx context.Context) ([]storage.Progress, error) {
	query := `
		SELECT id, customer_id, recorded_on, weight_kg, created_at
		FROM progress
		ORDER BY id ASC
	`
	return p.queryProgress(ctx, query)
}

func (p *PostgresStorage) ListCustomerProgress(ctx context.Context, customerID int64) ([]storage.Progress, error) {
	query := `
		SELECT id, customer_id, recorded_on, weight_kg, created_at
		FROM progress
		WHERE customer_id = $1
		ORDER BY recorded_on DESC, id DESC
	`
	return p.queryProgress(ctx, query, customerID)
}

func (p *PostgresStorage) LatestProgress(ctx context.Context, customerID int64) (*storage.Progress, error) {
	query := `
		SELECT id, customer_id, recorded_on, weight_kg, created_at
		FROM progress
		WHERE customer_id = $1
		ORDER BY recorded_on DESC, id DESC
		LIMIT 1
	`

	entry, err := scanProgress(p.pool.QueryRow(ctx, query, customerID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest progress: %w", err)
	}
	return &entry, nil
}

func (p *PostgresStorage) queryProgress(ctx context.Context, query string, args ...any) ([]storage.Progress, error) {
	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list progress: %w", err)
	}
	defer rows.Close()

	result := []storage.Progress{}
	for rows.Next() {
		entry, err := scanProgress(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}
