package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/fdg312/gym-tracker/internal/storage"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres SQLSTATE codes we translate into storage errors.
const (
	codeForeignKeyViolation = "23503"
	codeUniqueViolation     = "23505"
	codeCheckViolation      = "23514"
)

// PostgresStorage — Postgres реализация storage.Store
type PostgresStorage struct {
	pool *pgxpool.Pool
}

// New открывает пул соединений и проверяет доступность базы
func New(ctx context.Context, databaseURL string) (*PostgresStorage, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStorage{pool: pool}, nil
}

func (p *PostgresStorage) Close() error {
	p.pool.Close()
	return nil
}

func (p *PostgresStorage) ListGyms(ctx context.Context, addressPlace string) ([]storage.Gym, error) {
	query := `
		SELECT id, name, address_place, created_at
		FROM gyms
		WHERE ($1 = '' OR address_place = $1)
		ORDER BY id ASC
	`

	rows, err := p.pool.Query(ctx, query, addressPlace)
	if err != nil {
		return nil, fmt.Errorf("failed to list gyms: %w", err)
	}
	defer rows.Close()

	gyms := []storage.Gym{}
	for rows.Next() {
		var g storage.Gym
		if err := rows.Scan(&g.ID, &g.Name, &g.AddressPlace, &g.CreatedAt); err != nil {
			return nil, err
		}
		gyms = append(gyms, g)
	}

	return gyms, rows.Err()
}

func (p *PostgresStorage) GetGym(ctx context.Context, id int64) (*storage.Gym, error) {
	query := `
		SELECT id, name, address_place, created_at
		FROM gyms
		WHERE id = $1
	`

	var g storage.Gym
	err := p.pool.QueryRow(ctx, query, id).Scan(&g.ID, &g.Name, &g.AddressPlace, &g.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get gym: %w", err)
	}

	return &g, nil
}

func (p *PostgresStorage) CreateGym(ctx context.Context, gym *storage.Gym) error {
	query := `
		INSERT INTO gyms (name, address_place)
		VALUES ($1, $2)
		RETURNING id, created_at
	`

	if err := p.pool.QueryRow(ctx, query, gym.Name, gym.AddressPlace).Scan(&gym.ID, &gym.CreatedAt); err != nil {
		return fmt.Errorf("failed to create gym: %w", err)
	}
	return nil
}

func (p *PostgresStorage) DeleteGym(ctx context.Context, id int64) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM gyms WHERE id = $1`, id)
	if err != nil {
		if pgErrorCode(err) == codeForeignKeyViolation {
			return storage.ErrConflict
		}
		return fmt.Errorf("failed to delete gym: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// pgErrorCode returns the SQLSTATE of a Postgres error, or "" for anything else.
func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
