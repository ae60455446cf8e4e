package gyms

import (
	"context"
	"errors"
	"strings"

	"github.com/fdg312/gym-tracker/internal/storage"
)

const maxFieldLen = 50

var (
	ErrEmptyName    = errors.New("name cannot be empty")
	ErrEmptyAddress = errors.New("address_place cannot be empty")
	ErrFieldTooLong = errors.New("field is too long")
	ErrNotFound     = errors.New("gym not found")
	ErrHasCustomers = errors.New("gym still has customers")
)

// Storage — то, что сервису нужно от хранилища
type Storage interface {
	storage.GymsStorage
	ListCustomers(ctx context.Context, filter storage.CustomerFilter) ([]storage.Customer, error)
}

// Service содержит бизнес-логику залов
type Service struct {
	storage Storage
}

// NewService создаёт новый сервис
func NewService(st Storage) *Service {
	return &Service{storage: st}
}

// ListGyms возвращает залы, опционально отфильтрованные по адресу
func (s *Service) ListGyms(ctx context.Context, addressPlace string) ([]GymDTO, error) {
	gyms, err := s.storage.ListGyms(ctx, strings.TrimSpace(addressPlace))
	if err != nil {
		return nil, err
	}

	dtos := make([]GymDTO, 0, len(gyms))
	for _, g := range gyms {
		dtos = append(dtos, toDTO(g))
	}
	return dtos, nil
}

// GetGym возвращает зал по ID
func (s *Service) GetGym(ctx context.Context, id int64) (*GymDTO, error) {
	gym, err := s.storage.GetGym(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	dto := toDTO(*gym)
	return &dto, nil
}

// CreateGym создаёт новый зал
func (s *Service) CreateGym(ctx context.Context, req CreateGymRequest) (*GymDTO, error) {
	name := strings.TrimSpace(req.Name)
	address := strings.TrimSpace(req.AddressPlace)

	if name == "" {
		return nil, ErrEmptyName
	}
	if address == "" {
		return nil, ErrEmptyAddress
	}
	if len(name) > maxFieldLen || len(address) > maxFieldLen {
		return nil, ErrFieldTooLong
	}

	gym := &storage.Gym{Name: name, AddressPlace: address}
	if err := s.storage.CreateGym(ctx, gym); err != nil {
		return nil, err
	}

	dto := toDTO(*gym)
	return &dto, nil
}

// DeleteGym удаляет зал без клиентов
func (s *Service) DeleteGym(ctx context.Context, id int64) error {
	err := s.storage.DeleteGym(ctx, id)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, storage.ErrConflict):
		return ErrHasCustomers
	}
	return err
}

// ListMembers возвращает клиентов зала
func (s *Service) ListMembers(ctx context.Context, id int64) ([]MemberDTO, error) {
	if _, err := s.GetGym(ctx, id); err != nil {
		return nil, err
	}

	customers, err := s.storage.ListCustomers(ctx, storage.CustomerFilter{GymID: id})
	if err != nil {
		return nil, err
	}

	members := make([]MemberDTO, 0, len(customers))
	for _, c := range customers {
		members = append(members, MemberDTO{ID: c.ID, FirstName: c.FirstName, LastName: c.LastName})
	}
	return members, nil
}

func toDTO(g storage.Gym) GymDTO {
	return GymDTO{
		ID:           g.ID,
		Name:         g.Name,
		AddressPlace: g.AddressPlace,
		CreatedAt:    g.CreatedAt,
	}
}
