package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/fdg312/gym-tracker/internal/storage"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CreateReport сохраняет метаданные отчёта (и байты в local режиме)
func (p *PostgresStorage) CreateReport(ctx context.Context, report *storage.ReportMeta) error {
	query := `
		INSERT INTO calorie_reports (id, format, from_start_date, customer_ids, object_key, size_bytes, data)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`

	if report.ID == uuid.Nil {
		report.ID = uuid.New()
	}

	err := p.pool.QueryRow(ctx, query,
		report.ID,
		report.Format,
		report.FromStartDate,
		report.CustomerIDs,
		report.ObjectKey,
		report.SizeBytes,
		report.Data,
	).Scan(&report.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}

	return nil
}

func (p *PostgresStorage) GetReport(ctx context.Context, id uuid.UUID) (*storage.ReportMeta, error) {
	query := `
		SELECT id, format, from_start_date, customer_ids, object_key, size_bytes, created_at, data
		FROM calorie_reports
		WHERE id = $1
	`

	var r storage.ReportMeta
	err := p.pool.QueryRow(ctx, query, id).Scan(
		&r.ID,
		&r.Format,
		&r.FromStartDate,
		&r.CustomerIDs,
		&r.ObjectKey,
		&r.SizeBytes,
		&r.CreatedAt,
		&r.Data,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}

	return &r, nil
}

func (p *PostgresStorage) ListReports(ctx context.Context, limit, offset int) ([]storage.ReportMeta, error) {
	query := `
		SELECT id, format, from_start_date, customer_ids, object_key, size_bytes, created_at
		FROM calorie_reports
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := p.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	reports := []storage.ReportMeta{}
	for rows.Next() {
		var r storage.ReportMeta
		if err := rows.Scan(
			&r.ID,
			&r.Format,
			&r.FromStartDate,
			&r.CustomerIDs,
			&r.ObjectKey,
			&r.SizeBytes,
			&r.CreatedAt,
		); err != nil {
			return nil, err
		}
		reports = append(reports, r)
	}

	return reports, rows.Err()
}

func (p *PostgresStorage) DeleteReport(ctx context.Context, id uuid.UUID) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM calorie_reports WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
