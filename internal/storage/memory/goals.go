package memory

import (
	"context"
	"sort"
	"time"

	"github.com/fdg312/gym-tracker/internal/storage"
)

func (m *MemoryStorage) CreateGoal(ctx context.Context, g *storage.Goal) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.customers[g.CustomerID]; !ok {
		return storage.ErrNotFound
	}

	m.nextGoalID++
	g.ID = m.nextGoalID
	g.CreatedAt = time.Now().UTC()
	m.goals[g.ID] = *g

	return nil
}

func (m *MemoryStorage) GetGoal(ctx context.Context, id int64) (*storage.Goal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	g, ok := m.goals[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &g, nil
}

func (m *MemoryStorage) ListGoals(ctx context.Context, filter storage.GoalFilter) ([]storage.Goal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]storage.Goal, 0, len(m.goals))
	for _, g := range m.goals {
		if !filter.StartDate.IsZero() && !g.StartDate.Equal(filter.StartDate) {
			continue
		}
		if !filter.EndDate.IsZero() && !g.EndDate.Equal(filter.EndDate) {
			continue
		}
		result = append(result, g)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })

	return result, nil
}

func (m *MemoryStorage) ListCustomerGoals(ctx context.Context, customerID int64) ([]storage.Goal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := []storage.Goal{}
	for _, g := range m.goals {
		if g.CustomerID == customerID {
			result = append(result, g)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].StartDate.Equal(result[j].StartDate) {
			return result[i].StartDate.Before(result[j].StartDate)
		}
		return result[i].ID < result[j].ID
	})

	return result, nil
}

// latestGoalLocked picks the goal with the latest start date; ties go to the higher id.
func (m *MemoryStorage) latestGoalLocked(customerID int64) (storage.Goal, bool) {
	var (
		latest storage.Goal
		found  bool
	)
	for _, g := range m.goals {
		if g.CustomerID != customerID {
			continue
		}
		if !found ||
			g.StartDate.After(latest.StartDate) ||
			(g.StartDate.Equal(latest.StartDate) && g.ID > latest.ID) {
			latest = g
			found = true
		}
	}
	return latest, found
}
