package progress

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/fdg312/gym-tracker/internal/calories"
	"github.com/fdg312/gym-tracker/internal/storage"
)

const dateLayout = "2006-01-02"

var (
	ErrInvalidWeight    = errors.New("weight_kg must be greater than 0")
	ErrInvalidDate      = errors.New("recorded_on must be YYYY-MM-DD")
	ErrDateInFuture     = errors.New("recorded_on cannot be in the future")
	ErrCustomerNotFound = errors.New("customer not found")
	ErrNotFound         = errors.New("progress not found")
)

// Storage — то, что сервису нужно от хранилища
type Storage interface {
	storage.ProgressStorage
	GetCustomer(ctx context.Context, id int64) (*storage.Customer, error)
}

// Service содержит бизнес-логику записей веса
type Service struct {
	storage Storage
	now     func() time.Time
}

// NewService создаёт новый сервис
func NewService(st Storage) *Service {
	return &Service{storage: st, now: time.Now}
}

// AddEntry сохраняет новое измерение веса клиента
func (s *Service) AddEntry(ctx context.Context, customerID int64, req AddEntryRequest) (*EntryDTO, error) {
	if req.WeightKG <= 0 {
		return nil, ErrInvalidWeight
	}

	today := calories.DateOnly(s.now().UTC())
	recordedOn := today
	if raw := strings.TrimSpace(req.RecordedOn); raw != "" {
		d, err := time.Parse(dateLayout, raw)
		if err != nil {
			return nil, ErrInvalidDate
		}
		if d.After(today) {
			return nil, ErrDateInFuture
		}
		recordedOn = d
	}

	entry := &storage.Progress{
		CustomerID: customerID,
		RecordedOn: recordedOn,
		WeightKG:   req.WeightKG,
	}
	if err := s.storage.AddProgress(ctx, entry); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}

	dto := toDTO(*entry)
	return &dto, nil
}

// ListAll возвращает все записи
func (s *Service) ListAll(ctx context.Context) ([]EntryDTO, error) {
	entries, err := s.storage.ListAllProgress(ctx)
	if err != nil {
		return nil, err
	}
	return toDTOs(entries), nil
}

// ListForCustomer возвращает записи клиента, новые первыми
func (s *Service) ListForCustomer(ctx context.Context, customerID int64) ([]EntryDTO, error) {
	if err := s.requireCustomer(ctx, customerID); err != nil {
		return nil, err
	}

	entries, err := s.storage.ListCustomerProgress(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return toDTOs(entries), nil
}

// Latest возвращает последнюю запись клиента
func (s *Service) Latest(ctx context.Context, customerID int64) (*EntryDTO, error) {
	if err := s.requireCustomer(ctx, customerID); err != nil {
		return nil, err
	}

	entry, err := s.storage.LatestProgress(ctx, customerID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	dto := toDTO(*entry)
	return &dto, nil
}

// Get возвращает запись по ID
func (s *Service) Get(ctx context.Context, id int64) (*EntryDTO, error) {
	entry, err := s.storage.GetProgress(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	dto := toDTO(*entry)
	return &dto, nil
}

// requireCustomer maps an unknown customer to ErrCustomerNotFound.
func (s *Service) requireCustomer(ctx context.Context, customerID int64) error {
	_, err := s.storage.GetCustomer(ctx, customerID)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrCustomerNotFound
	}
	return err
}

func toDTOs(entries []storage.Progress) []EntryDTO {
	dtos := make([]EntryDTO, 0, len(entries))
	for _, e := range entries {
		dtos = append(dtos, toDTO(e))
	}
	return dtos
}

func toDTO(p storage.Progress) EntryDTO {
	return EntryDTO{
		ID:         p.ID,
		CustomerID: p.CustomerID,
		RecordedOn: p.RecordedOn.Format(dateLayout),
		WeightKG:   p.WeightKG,
		CreatedAt:  p.CreatedAt,
	}
}
