package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fdg312/gym-tracker/internal/storage"
	"github.com/jackc/pgx/v5"
)

func scanGoal(row pgx.Row) (storage.Goal, error) {
	var g storage.Goal
	err := row.Scan(&g.ID, &g.CustomerID, &g.TargetWeightKG, &g.StartDate, &g.EndDate, &g.CreatedAt)
	return g, err
}

func (p *PostgresStorage) CreateGoal(ctx context.Context, g *storage.Goal) error {
	query := `
		INSERT INTO goals (customer_id, target_weight_kg, start_date, end_date)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := p.pool.QueryRow(ctx, query, g.CustomerID, g.TargetWeightKG, g.StartDate, g.EndDate).
		Scan(&g.ID, &g.CreatedAt)
	return mapWriteError("create goal", err)
}

func (p *PostgresStorage) GetGoal(ctx context.Context, id int64) (*storage.Goal, error) {
	query := `
		SELECT id, customer_id, target_weight_kg, start_date, end_date, created_at
		FROM goals
		WHERE id = $1
	`

	g, err := scanGoal(p.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get goal: %w", err)
	}
	return &g, nil
}

func (p *PostgresStorage) ListGoals(ctx context.Context, filter storage.GoalFilter) ([]storage.Goal, error) {
	query := `
		SELECT id, customer_id, target_weight_kg, start_date, end_date, created_at
		FROM goals
		WHERE ($1::date IS NULL OR start_date = $1)
		  AND ($2::date IS NULL OR end_date = $2)
		ORDER BY id ASC
	`
	return p.queryGoals(ctx, query, nullableDate(filter.StartDate), nullableDate(filter.EndDate))
}

func (p *PostgresStorage) ListCustomerGoals(ctx context.Context, customerID int64) ([]storage.Goal, error) {
	query := `
		SELECT id, customer_id, target_weight_kg, start_date, end_date, created_at
		FROM goals
		WHERE customer_id = $1
		ORDER BY start_date ASC, id ASC
	`
	return p.queryGoals(ctx, query, customerID)
}

func (p *PostgresStorage) queryGoals(ctx context.Context, query string, args ...any) ([]storage.Goal, error) {
	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	defer rows.Close()

	goals := []storage.Goal{}
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

func nullableDate(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
