package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/fdg312/gym-tracker/internal/storage"
	"github.com/jackc/pgx/v5"
)

const customerColumns = `id, gym_id, first_name, last_name, birth_date, sex, height_cm, activity_factor, created_at, updated_at`

func scanCustomer(row pgx.Row) (storage.Customer, error) {
	var c storage.Customer
	err := row.Scan(
		&c.ID,
		&c.GymID,
		&c.FirstName,
		&c.LastName,
		&c.BirthDate,
		&c.Sex,
		&c.HeightCM,
		&c.ActivityFactor,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	return c, err
}

func (p *PostgresStorage) ListCustomers(ctx context.Context, filter storage.CustomerFilter) ([]storage.Customer, error) {
	query := `
		SELECT ` + customerColumns + `
		FROM customers
		WHERE ($1 = '' OR first_name = $1)
		  AND ($2 = '' OR last_name = $2)
		  AND ($3 = 0 OR gym_id = $3)
		ORDER BY id ASC
	`

	rows, err := p.pool.Query(ctx, query, filter.FirstName, filter.LastName, filter.GymID)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()

	customers := []storage.Customer{}
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}

	return customers, rows.Err()
}

func (p *PostgresStorage) ListCustomerIDs(ctx context.Context) ([]int64, error) {
	rows, err := p.pool.Query(ctx, `SELECT id FROM customers ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list customer ids: %w", err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("failed to list customer ids: %w", err)
	}
	return ids, nil
}

func (p *PostgresStorage) GetCustomer(ctx context.Context, id int64) (*storage.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`

	c, err := scanCustomer(p.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	return &c, nil
}

func (p *PostgresStorage) FindDuplicateCustomer(ctx context.Context, c storage.Customer) (*storage.Customer, error) {
	query := `
		SELECT ` + customerColumns + `
		FROM customers
		WHERE gym_id = $1
		  AND first_name = $2
		  AND last_name = $3
		  AND birth_date = $4
		  AND sex = $5
		  AND height_cm = $6
		  AND activity_factor = $7
		ORDER BY id ASC
		LIMIT 1
	`

	found, err := scanCustomer(p.pool.QueryRow(ctx, query,
		c.GymID,
		c.FirstName,
		c.LastName,
		c.BirthDate,
		c.Sex,
		c.HeightCM,
		c.ActivityFactor,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find duplicate customer: %w", err)
	}

	return &found, nil
}

func (p *PostgresStorage) CreateCustomer(ctx context.Context, c *storage.Customer) error {
	query := `
		INSERT INTO customers (gym_id, first_name, last_name, birth_date, sex, height_cm, activity_factor)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	err := p.pool.QueryRow(ctx, query,
		c.GymID,
		c.FirstName,
		c.LastName,
		c.BirthDate,
		c.Sex,
		c.HeightCM,
		c.ActivityFactor,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)

	return mapWriteError("create customer", err)
}

func (p *PostgresStorage) UpdateCustomer(ctx context.Context, c *storage.Customer) error {
	query := `
		UPDATE customers
		SET gym_id = $2,
		    first_name = $3,
		    last_name = $4,
		    birth_date = $5,
		    sex = $6,
		    height_cm = $7,
		    activity_factor = $8,
		    updated_at = now()
		WHERE id = $1
		RETURNING created_at, updated_at
	`

	err := p.pool.QueryRow(ctx, query,
		c.ID,
		c.GymID,
		c.FirstName,
		c.LastName,
		c.BirthDate,
		c.Sex,
		c.HeightCM,
		c.ActivityFactor,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.ErrNotFound
	}

	return mapWriteError("update customer", err)
}

// DeleteCustomer relies on ON DELETE CASCADE for progress and goals.
func (p *PostgresStorage) DeleteCustomer(ctx context.Context, id int64) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// mapWriteError translates constraint violations on INSERT/UPDATE.
func mapWriteError(op string, err error) error {
	if err == nil {
		return nil
	}
	switch pgErrorCode(err) {
	case codeForeignKeyViolation:
		return storage.ErrNotFound
	case codeUniqueViolation:
		return storage.ErrConflict
	case codeCheckViolation:
		return storage.ErrConstraint
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}
