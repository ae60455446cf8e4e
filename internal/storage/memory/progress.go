package memory

import (
	"context"
	"sort"
	"time"

	"github.com/fdg312/gym-tracker/internal/storage"
)

func (m *MemoryStorage) AddProgress(ctx context.Context, p *storage.Progress) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.customers[p.CustomerID]; !ok {
		return storage.ErrNotFound
	}

	m.nextProgressID++
	p.ID = m.nextProgressID
	p.CreatedAt = time.Now().UTC()
	m.progress[p.ID] = *p

	return nil
}

func (m *MemoryStorage) GetProgress(ctx context.Context, id int64) (*storage.Progress, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.progress[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &p, nil
}

func (m *MemoryStorage) ListAllProgress(ctx context.Context) ([]storage.Progress, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]storage.Progress, 0, len(m.progress))
	for _, p := range m.progress {
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })

	return result, nil
}

func (m *MemoryStorage) ListCustomerProgress(ctx context.Context, customerID int64) ([]storage.Progress, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.customerProgressLocked(customerID), nil
}

func (m *MemoryStorage) LatestProgress(ctx context.Context, customerID int64) (*storage.Progress, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entries := m.customerProgressLocked(customerID)
	if len(entries) == 0 {
		return nil, storage.ErrNotFound
	}
	latest := entries[0]
	return &latest, nil
}

// customerProgressLocked returns entries newest first; ties on date go to the higher id.
func (m *MemoryStorage) customerProgressLocked(customerID int64) []storage.Progress {
	result := []storage.Progress{}
	for _, p := range m.progress {
		if p.CustomerID == customerID {
			result = append(result, p)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].RecordedOn.Equal(result[j].RecordedOn) {
			return result[i].RecordedOn.After(result[j].RecordedOn)
		}
		return result[i].ID > result[j].ID
	})
	return result
}
