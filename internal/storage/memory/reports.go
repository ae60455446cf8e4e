package memory

import (
	"context"
	"sort"
	"time"

	"github.com/fdg312/gym-tracker/internal/storage"
	"github.com/google/uuid"
)

func (m *MemoryStorage) CreateReport(ctx context.Context, report *storage.ReportMeta) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if report.ID == uuid.Nil {
		report.ID = uuid.New()
	}
	report.CreatedAt = time.Now().UTC()

	stored := *report
	stored.CustomerIDs = append([]int64(nil), report.CustomerIDs...)
	m.reports[report.ID] = stored

	return nil
}

func (m *MemoryStorage) GetReport(ctx context.Context, id uuid.UUID) (*storage.ReportMeta, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.reports[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &r, nil
}

func (m *MemoryStorage) ListReports(ctx context.Context, limit, offset int) ([]storage.ReportMeta, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := make([]storage.ReportMeta, 0, len(m.reports))
	for _, r := range m.reports {
		r.Data = nil // list never carries payloads
		all = append(all, r)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID.String() < all[j].ID.String()
	})

	if offset >= len(all) {
		return []storage.ReportMeta{}, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (m *MemoryStorage) DeleteReport(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.reports[id]; !ok {
		return storage.ErrNotFound
	}
	delete(m.reports, id)
	return nil
}
