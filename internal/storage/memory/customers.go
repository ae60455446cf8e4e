package memory

import (
	"context"
	"sort"
	"time"

	"github.com/fdg312/gym-tracker/internal/storage"
)

func (m *MemoryStorage) ListCustomers(ctx context.Context, filter storage.CustomerFilter) ([]storage.Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]storage.Customer, 0, len(m.customers))
	for _, c := range m.customers {
		if filter.FirstName != "" && c.FirstName != filter.FirstName {
			continue
		}
		if filter.LastName != "" && c.LastName != filter.LastName {
			continue
		}
		if filter.GymID != 0 && c.GymID != filter.GymID {
			continue
		}
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })

	return result, nil
}

func (m *MemoryStorage) ListCustomerIDs(ctx context.Context) ([]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]int64, 0, len(m.customers))
	for id := range m.customers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return ids, nil
}

func (m *MemoryStorage) GetCustomer(ctx context.Context, id int64) (*storage.Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.customers[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &c, nil
}

func (m *MemoryStorage) FindDuplicateCustomer(ctx context.Context, c storage.Customer) (*storage.Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, existing := range m.customers {
		if existing.GymID == c.GymID &&
			existing.FirstName == c.FirstName &&
			existing.LastName == c.LastName &&
			existing.BirthDate.Equal(c.BirthDate) &&
			existing.Sex == c.Sex &&
			existing.HeightCM == c.HeightCM &&
			existing.ActivityFactor == c.ActivityFactor {
			found := existing
			return &found, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (m *MemoryStorage) CreateCustomer(ctx context.Context, c *storage.Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.gyms[c.GymID]; !ok {
		return storage.ErrNotFound
	}

	m.nextCustomerID++
	now := time.Now().UTC()
	c.ID = m.nextCustomerID
	c.CreatedAt = now
	c.UpdatedAt = now
	m.customers[c.ID] = *c

	return nil
}

func (m *MemoryStorage) UpdateCustomer(ctx context.Context, c *storage.Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.customers[c.ID]
	if !ok {
		return storage.ErrNotFound
	}
	if _, ok := m.gyms[c.GymID]; !ok {
		return storage.ErrNotFound
	}

	c.CreatedAt = existing.CreatedAt
	c.UpdatedAt = time.Now().UTC()
	m.customers[c.ID] = *c

	return nil
}

func (m *MemoryStorage) DeleteCustomer(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.customers[id]; !ok {
		return storage.ErrNotFound
	}

	delete(m.customers, id)
	for pid, p := range m.progress {
		if p.CustomerID == id {
			delete(m.progress, pid)
		}
	}
	for gid, g := range m.goals {
		if g.CustomerID == id {
			delete(m.goals, gid)
		}
	}

	return nil
}
