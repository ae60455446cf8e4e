package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fdg312/gym-tracker/internal/storage"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func seed(t *testing.T) (*MemoryStorage, int64, int64) {
	t.Helper()
	ctx := context.Background()
	m := New()

	gym := &storage.Gym{Name: "Iron Temple", AddressPlace: "Utrecht"}
	if err := m.CreateGym(ctx, gym); err != nil {
		t.Fatalf("create gym: %v", err)
	}
	c := &storage.Customer{
		GymID:          gym.ID,
		FirstName:      "Jan",
		LastName:       "de Vries",
		BirthDate:      day(1992, time.January, 10),
		Sex:            "male",
		HeightCM:       180,
		ActivityFactor: 1.5,
	}
	if err := m.CreateCustomer(ctx, c); err != nil {
		t.Fatalf("create customer: %v", err)
	}
	return m, gym.ID, c.ID
}

func TestGetSnapshotPicksLatestRows(t *testing.T) {
	m, _, customerID := seed(t)
	ctx := context.Background()

	for _, p := range []storage.Progress{
		{CustomerID: customerID, RecordedOn: day(2026, time.January, 3), WeightKG: 82},
		{CustomerID: customerID, RecordedOn: day(2026, time.January, 5), WeightKG: 81},
		// same date, inserted later: wins the tie
		{CustomerID: customerID, RecordedOn: day(2026, time.January, 5), WeightKG: 80.5},
		{CustomerID: customerID, RecordedOn: day(2026, time.January, 4), WeightKG: 79},
	} {
		if err := m.AddProgress(ctx, &p); err != nil {
			t.Fatalf("add progress: %v", err)
		}
	}
	for _, g := range []storage.Goal{
		{CustomerID: customerID, TargetWeightKG: 78, StartDate: day(2026, time.January, 1), EndDate: day(2026, time.March, 1)},
		{CustomerID: customerID, TargetWeightKG: 76, StartDate: day(2026, time.February, 1), EndDate: day(2026, time.May, 1)},
		{CustomerID: customerID, TargetWeightKG: 77, StartDate: day(2025, time.December, 1), EndDate: day(2026, time.June, 1)},
	} {
		if err := m.CreateGoal(ctx, &g); err != nil {
			t.Fatalf("create goal: %v", err)
		}
	}

	snap, err := m.GetSnapshot(ctx, customerID)
	if err != nil {
		t.Fatalf("GetSnapshot: %v", err)
	}
	if snap.LatestWeightKG != 80.5 {
		t.Errorf("expected latest weight 80.5, got %v", snap.LatestWeightKG)
	}
	if snap.GoalTargetKG != 76 || !snap.GoalStartDate.Equal(day(2026, time.February, 1)) {
		t.Errorf("expected goal starting 2026-02-01, got %+v", snap)
	}
	if snap.HeightCM != 180 || snap.Sex != "male" {
		t.Errorf("static attributes not copied: %+v", snap)
	}
}

func TestGetSnapshotNotFound(t *testing.T) {
	m, _, customerID := seed(t)
	ctx := context.Background()

	if _, err := m.GetSnapshot(ctx, 999); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("unknown customer: expected ErrNotFound, got %v", err)
	}
	if _, err := m.GetSnapshot(ctx, customerID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("no data: expected ErrNotFound, got %v", err)
	}

	m.AddProgress(ctx, &storage.Progress{CustomerID: customerID, RecordedOn: day(2026, time.January, 5), WeightKG: 80})
	if _, err := m.GetSnapshot(ctx, customerID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("weight without goal: expected ErrNotFound, got %v", err)
	}
}

func TestDeleteCustomerCascades(t *testing.T) {
	m, gymID, customerID := seed(t)
	ctx := context.Background()

	m.AddProgress(ctx, &storage.Progress{CustomerID: customerID, RecordedOn: day(2026, time.January, 5), WeightKG: 80})
	m.CreateGoal(ctx, &storage.Goal{CustomerID: customerID, TargetWeightKG: 75, StartDate: day(2026, time.January, 1), EndDate: day(2026, time.April, 1)})

	if err := m.DeleteGym(ctx, gymID); !errors.Is(err, storage.ErrConflict) {
		t.Fatalf("expected ErrConflict while customers reference the gym, got %v", err)
	}

	if err := m.DeleteCustomer(ctx, customerID); err != nil {
		t.Fatalf("DeleteCustomer: %v", err)
	}
	if all, _ := m.ListAllProgress(ctx); len(all) != 0 {
		t.Errorf("expected progress to be removed, got %d", len(all))
	}
	if all, _ := m.ListGoals(ctx, storage.GoalFilter{}); len(all) != 0 {
		t.Errorf("expected goals to be removed, got %d", len(all))
	}
	if err := m.DeleteGym(ctx, gymID); err != nil {
		t.Errorf("expected gym delete to succeed, got %v", err)
	}
}

func TestWritesRequireParent(t *testing.T) {
	m, _, _ := seed(t)
	ctx := context.Background()

	if err := m.CreateCustomer(ctx, &storage.Customer{GymID: 42}); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("customer with unknown gym: expected ErrNotFound, got %v", err)
	}
	if err := m.AddProgress(ctx, &storage.Progress{CustomerID: 42, WeightKG: 70}); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("progress for unknown customer: expected ErrNotFound, got %v", err)
	}
	if err := m.CreateGoal(ctx, &storage.Goal{CustomerID: 42}); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("goal for unknown customer: expected ErrNotFound, got %v", err)
	}
}
