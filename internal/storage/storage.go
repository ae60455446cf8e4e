package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned by every storage implementation when a row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a row is still referenced or violates a unique rule.
	ErrConflict = errors.New("conflict")
	// ErrConstraint is returned when a row violates a schema CHECK constraint.
	ErrConstraint = errors.New("constraint violation")
)

// Gym is a registered gym location.
type Gym struct {
	ID           int64
	Name         string
	AddressPlace string
	CreatedAt    time.Time
}

// Customer holds the static attributes of a gym member.
type Customer struct {
	ID             int64
	GymID          int64
	FirstName      string
	LastName       string
	BirthDate      time.Time // date only, UTC midnight
	Sex            string    // "male" | "female"
	HeightCM       float64
	ActivityFactor float64 // 1.2 .. 1.725
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// CustomerFilter narrows ListCustomers. Empty fields are ignored.
type CustomerFilter struct {
	FirstName string
	LastName  string
	GymID     int64
}

// Progress is a single weight observation.
type Progress struct {
	ID         int64
	CustomerID int64
	RecordedOn time.Time // date only
	WeightKG   float64
	CreatedAt  time.Time
}

// Goal is a weight goal with a deadline.
type Goal struct {
	ID             int64
	CustomerID     int64
	TargetWeightKG float64
	StartDate      time.Time
	EndDate        time.Time
	CreatedAt      time.Time
}

// GoalFilter narrows ListGoals. Zero dates are ignored.
type GoalFilter struct {
	StartDate time.Time
	EndDate   time.Time
}

// Snapshot is the denormalized per-customer record used as calculation input:
// static attributes, the latest weight observation and the latest started goal.
type Snapshot struct {
	CustomerID       int64
	HeightCM         float64
	BirthDate        time.Time
	Sex              string
	ActivityFactor   float64
	LatestWeightKG   float64
	WeightRecordedOn time.Time
	GoalTargetKG     float64
	GoalStartDate    time.Time
	GoalEndDate      time.Time
}

// GymsStorage — gyms persistence
type GymsStorage interface {
	ListGyms(ctx context.Context, addressPlace string) ([]Gym, error)
	GetGym(ctx context.Context, id int64) (*Gym, error)
	CreateGym(ctx context.Context, gym *Gym) error
	// DeleteGym returns ErrConflict while customers still reference the gym.
	DeleteGym(ctx context.Context, id int64) error
}

// CustomersStorage — customers persistence
type CustomersStorage interface {
	ListCustomers(ctx context.Context, filter CustomerFilter) ([]Customer, error)
	// ListCustomerIDs returns every customer id in ascending order.
	ListCustomerIDs(ctx context.Context) ([]int64, error)
	GetCustomer(ctx context.Context, id int64) (*Customer, error)
	// FindDuplicateCustomer returns an existing customer with identical attributes, or ErrNotFound.
	FindDuplicateCustomer(ctx context.Context, c Customer) (*Customer, error)
	CreateCustomer(ctx context.Context, c *Customer) error
	UpdateCustomer(ctx context.Context, c *Customer) error
	// DeleteCustomer removes the customer together with its progress and goals.
	DeleteCustomer(ctx context.Context, id int64) error
}

// ProgressStorage — weight observations persistence
type ProgressStorage interface {
	AddProgress(ctx context.Context, p *Progress) error
	GetProgress(ctx context.Context, id int64) (*Progress, error)
	ListAllProgress(ctx context.Context) ([]Progress, error)
	// ListCustomerProgress returns observations newest first (recorded_on DESC, id DESC).
	ListCustomerProgress(ctx context.Context, customerID int64) ([]Progress, error)
	// LatestProgress returns the newest observation or ErrNotFound.
	LatestProgress(ctx context.Context, customerID int64) (*Progress, error)
}

// GoalsStorage — weight goals persistence
type GoalsStorage interface {
	CreateGoal(ctx context.Context, g *Goal) error
	GetGoal(ctx context.Context, id int64) (*Goal, error)
	ListGoals(ctx context.Context, filter GoalFilter) ([]Goal, error)
	// ListCustomerGoals returns goals ordered by start_date ASC, id ASC.
	ListCustomerGoals(ctx context.Context, customerID int64) ([]Goal, error)
}

// SnapshotStorage — read-only aggregation feeding the calorie calculator
type SnapshotStorage interface {
	// GetSnapshot returns ErrNotFound when the customer is unknown or has
	// no weight observation or no goal.
	GetSnapshot(ctx context.Context, customerID int64) (*Snapshot, error)
}

// ReportsStorage — calorie report metadata (and inline bytes in local blob mode)
type ReportsStorage interface {
	CreateReport(ctx context.Context, report *ReportMeta) error
	GetReport(ctx context.Context, id uuid.UUID) (*ReportMeta, error)
	ListReports(ctx context.Context, limit, offset int) ([]ReportMeta, error)
	DeleteReport(ctx context.Context, id uuid.UUID) error
}

// ReportMeta — метаданные отчёта по калориям
type ReportMeta struct {
	ID            uuid.UUID
	Format        string // "pdf" or "csv"
	FromStartDate bool
	CustomerIDs   []int64
	ObjectKey     *string // S3 object key (nil in local mode)
	SizeBytes     int64
	CreatedAt     time.Time
	Data          []byte // local mode only
}

// Store is the full storage contract used by the HTTP server.
type Store interface {
	GymsStorage
	CustomersStorage
	ProgressStorage
	GoalsStorage
	SnapshotStorage
	ReportsStorage

	// Close закрывает соединение (для Postgres)
	Close() error
}
