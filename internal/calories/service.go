package calories

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fdg312/gym-tracker/internal/storage"
	"golang.org/x/sync/errgroup"
)

// Storage is what the service reads: snapshots plus the id list for "all customers".
type Storage interface {
	storage.SnapshotStorage
	ListCustomerIDs(ctx context.Context) ([]int64, error)
}

// Service связывает агрегатор снимков и калькулятор
type Service struct {
	storage     Storage
	concurrency int
	now         func() time.Time
}

// NewService создаёт сервис; concurrency ограничивает параллельные выборки в батче
func NewService(st Storage, concurrency int) *Service {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Service{
		storage:     st,
		concurrency: concurrency,
		now:         time.Now,
	}
}

// FetchSnapshot returns the latest snapshot for a customer or an error matching ErrNotFound.
func (s *Service) FetchSnapshot(ctx context.Context, customerID int64) (*storage.Snapshot, error) {
	snap, err := s.storage.GetSnapshot(ctx, customerID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("customer %d: %w", customerID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch snapshot for customer %d: %w", customerID, err)
	}
	return snap, nil
}

// ComputeForCustomer builds the calorie report for one customer as of today.
func (s *Service) ComputeForCustomer(ctx context.Context, customerID int64, fromStartDate bool) (*Report, error) {
	return s.computeOn(ctx, customerID, fromStartDate, DateOnly(s.now().UTC()))
}

// ComputeBatch returns one report per id in input order. The first failing id
// aborts the whole batch and no partial results are returned. Fetches run
// concurrently, but the returned error is always the one of the lowest failing
// index, the same error a sequential run would stop at.
func (s *Service) ComputeBatch(ctx context.Context, customerIDs []int64, fromStartDate bool) ([]Report, error) {
	today := DateOnly(s.now().UTC())
	reports := make([]Report, len(customerIDs))
	errs := make([]error, len(customerIDs))

	var mu sync.Mutex
	failedAt := len(customerIDs)
	// ids after the lowest failure are skipped; ids before it still run
	skip := func(i int) bool {
		mu.Lock()
		defer mu.Unlock()
		return i > failedAt
	}
	fail := func(i int, err error) error {
		mu.Lock()
		defer mu.Unlock()
		errs[i] = err
		if i < failedAt {
			failedAt = i
		}
		return err
	}

	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, id := range customerIDs {
		g.Go(func() error {
			if skip(i) {
				return nil
			}
			if err := ctx.Err(); err != nil {
				return fail(i, err)
			}
			r, err := s.computeOn(ctx, id, fromStartDate, today)
			if err != nil {
				return fail(i, err)
			}
			reports[i] = *r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errs[failedAt]
	}

	return reports, nil
}

// ComputeAll runs ComputeBatch over every customer in ascending id order.
func (s *Service) ComputeAll(ctx context.Context, fromStartDate bool) ([]Report, error) {
	ids, err := s.storage.ListCustomerIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return s.ComputeBatch(ctx, ids, fromStartDate)
}

func (s *Service) computeOn(ctx context.Context, customerID int64, fromStartDate bool, today time.Time) (*Report, error) {
	snap, err := s.FetchSnapshot(ctx, customerID)
	if err != nil {
		return nil, err
	}

	age := AgeOn(snap.BirthDate, today)
	deadline := DeadlineDays(snap.GoalStartDate, snap.GoalEndDate, today, fromStartDate)

	result, err := Compute(Input{
		CurrentWeightKG: snap.LatestWeightKG,
		TargetWeightKG:  snap.GoalTargetKG,
		DeadlineDays:    deadline,
		HeightCM:        snap.HeightCM,
		AgeYears:        age,
		Sex:             snap.Sex,
		ActivityFactor:  snap.ActivityFactor,
	})
	if err != nil {
		return nil, err
	}

	report := &Report{
		CustomerID:    customerID,
		Snapshot:      toSnapshotDTO(*snap),
		AgeYears:      age,
		DeadlineDays:  deadline,
		FromStartDate: fromStartDate,
		Result:        result,
	}
	if !result.IsRealistic {
		report.Warning = UnrealisticWarning
	}
	return report, nil
}
