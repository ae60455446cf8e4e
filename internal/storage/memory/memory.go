package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fdg312/gym-tracker/internal/storage"
	"github.com/google/uuid"
)

// MemoryStorage — in-memory реализация storage.Store.
// Used when no DATABASE_URL is configured and as the test double for services.
type MemoryStorage struct {
	mu        sync.RWMutex
	gyms      map[int64]storage.Gym
	customers map[int64]storage.Customer
	progress  map[int64]storage.Progress
	goals     map[int64]storage.Goal
	reports   map[uuid.UUID]storage.ReportMeta

	nextGymID      int64
	nextCustomerID int64
	nextProgressID int64
	nextGoalID     int64
}

// New создаёт пустой MemoryStorage
func New() *MemoryStorage {
	return &MemoryStorage{
		gyms:      make(map[int64]storage.Gym),
		customers: make(map[int64]storage.Customer),
		progress:  make(map[int64]storage.Progress),
		goals:     make(map[int64]storage.Goal),
		reports:   make(map[uuid.UUID]storage.ReportMeta),
	}
}

func (m *MemoryStorage) ListGyms(ctx context.Context, addressPlace string) ([]storage.Gym, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	gyms := make([]storage.Gym, 0, len(m.gyms))
	for _, g := range m.gyms {
		if addressPlace != "" && g.AddressPlace != addressPlace {
			continue
		}
		gyms = append(gyms, g)
	}
	sort.Slice(gyms, func(i, j int) bool { return gyms[i].ID < gyms[j].ID })

	return gyms, nil
}

func (m *MemoryStorage) GetGym(ctx context.Context, id int64) (*storage.Gym, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	g, ok := m.gyms[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &g, nil
}

func (m *MemoryStorage) CreateGym(ctx context.Context, gym *storage.Gym) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextGymID++
	gym.ID = m.nextGymID
	gym.CreatedAt = time.Now().UTC()
	m.gyms[gym.ID] = *gym

	return nil
}

func (m *MemoryStorage) DeleteGym(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.gyms[id]; !ok {
		return storage.ErrNotFound
	}
	for _, c := range m.customers {
		if c.GymID == id {
			return storage.ErrConflict
		}
	}

	delete(m.gyms, id)
	return nil
}

func (m *MemoryStorage) Close() error {
	// no-op для memory
	return nil
}
