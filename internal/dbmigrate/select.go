package dbmigrate

import (
	"errors"

	"github.com/fdg312/gym-tracker/internal/config"
)

// DefaultMigrationsDir is the on-disk copy of the embedded gym schema (gyms, customers,
// progress, goals, calorie_reports). cmd/migrate falls back to the embedded files.
const DefaultMigrationsDir = "migrations"

var ErrNoDatabaseURL = errors.New("no database URL configured for migrations (set DATABASE_URL_DIRECT or DATABASE_URL)")

// Target — строка подключения, выбранная для миграций схемы
type Target struct {
	URL     string
	Source  string // env variable the URL came from
	Warning string // non-empty when the choice is usable but not recommended
}

type candidate struct {
	env     string
	url     func(*config.Config) string
	warning string
}

// DDL goes through a direct connection when possible: poolers in transaction
// mode break goose's advisory lock and multi-statement migrations.
var candidates = []candidate{
	{env: "DATABASE_URL_DIRECT", url: func(c *config.Config) string { return c.DatabaseURLDirect }},
	{env: "DATABASE_URL", url: func(c *config.Config) string { return c.DatabaseURLRaw }},
	{
		env:     "DATABASE_URL_POOLED",
		url:     func(c *config.Config) string { return c.DatabaseURLPooled },
		warning: "running schema migrations through the pooled connection; set DATABASE_URL_DIRECT",
	},
}

// SelectTarget picks the connection for goose. With directOnly only
// DATABASE_URL_DIRECT is considered.
func SelectTarget(cfg *config.Config, directOnly bool) (Target, error) {
	list := candidates
	if directOnly {
		list = candidates[:1]
	}

	for _, c := range list {
		if url := c.url(cfg); url != "" {
			return Target{URL: url, Source: c.env, Warning: c.warning}, nil
		}
	}

	if directOnly {
		return Target{}, errors.New("DATABASE_URL_DIRECT is required for schema migrations")
	}
	return Target{}, ErrNoDatabaseURL
}
