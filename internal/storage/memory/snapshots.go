package memory

import (
	"context"

	"github.com/fdg312/gym-tracker/internal/storage"
)

func (m *MemoryStorage) GetSnapshot(ctx context.Context, customerID int64) (*storage.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.customers[customerID]
	if !ok {
		return nil, storage.ErrNotFound
	}

	entries := m.customerProgressLocked(customerID)
	if len(entries) == 0 {
		return nil, storage.ErrNotFound
	}
	goal, ok := m.latestGoalLocked(customerID)
	if !ok {
		return nil, storage.ErrNotFound
	}

	return &storage.Snapshot{
		CustomerID:       c.ID,
		HeightCM:         c.HeightCM,
		BirthDate:        c.BirthDate,
		Sex:              c.Sex,
		ActivityFactor:   c.ActivityFactor,
		LatestWeightKG:   entries[0].WeightKG,
		WeightRecordedOn: entries[0].RecordedOn,
		GoalTargetKG:     goal.TargetWeightKG,
		GoalStartDate:    goal.StartDate,
		GoalEndDate:      goal.EndDate,
	}, nil
}
