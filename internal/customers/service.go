package customers

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/fdg312/gym-tracker/internal/calories"
	"github.com/fdg312/gym-tracker/internal/storage"
)

const (
	dateLayout = "2006-01-02"
	maxNameLen = 50
)

var (
	ErrEmptyName         = errors.New("first_name and last_name cannot be empty")
	ErrNameTooLong       = errors.New("names are limited to 50 characters")
	ErrInvalidBirthDate  = errors.New("birth_date must be YYYY-MM-DD")
	ErrBirthDateInFuture = errors.New("birth_date must be in the past")
	ErrInvalidSex        = errors.New("sex must be 'male' or 'female'")
	ErrInvalidHeight     = errors.New("height_cm must be greater than 0")
	ErrInvalidActivity   = errors.New("activity_factor must be between 1.2 and 1.725")
	ErrGymNotFound       = errors.New("gym not found")
	ErrNotFound          = errors.New("customer not found")
	ErrExists            = errors.New("customer already exists")
)

// Storage — то, что сервису нужно от хранилища
type Storage interface {
	storage.CustomersStorage
	GetGym(ctx context.Context, id int64) (*storage.Gym, error)
	LatestProgress(ctx context.Context, customerID int64) (*storage.Progress, error)
}

// Service содержит бизнес-логику клиентов
type Service struct {
	storage Storage
	now     func() time.Time
}

// NewService создаёт новый сервис
func NewService(st Storage) *Service {
	return &Service{storage: st, now: time.Now}
}

// ListCustomers ищет клиентов по имени и/или фамилии (точное совпадение)
func (s *Service) ListCustomers(ctx context.Context, firstName, lastName string) ([]CustomerDTO, error) {
	list, err := s.storage.ListCustomers(ctx, storage.CustomerFilter{
		FirstName: strings.TrimSpace(firstName),
		LastName:  strings.TrimSpace(lastName),
	})
	if err != nil {
		return nil, err
	}

	dtos := make([]CustomerDTO, 0, len(list))
	for _, c := range list {
		dtos = append(dtos, toDTO(c, nil))
	}
	return dtos, nil
}

// GetCustomer возвращает клиента вместе с последним весом
func (s *Service) GetCustomer(ctx context.Context, id int64) (*CustomerDTO, error) {
	c, err := s.storage.GetCustomer(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var weight *float64
	latest, err := s.storage.LatestProgress(ctx, id)
	switch {
	case err == nil:
		weight = &latest.WeightKG
	case !errors.Is(err, storage.ErrNotFound):
		return nil, err
	}

	dto := toDTO(*c, weight)
	return &dto, nil
}

// CreateCustomer валидирует и создаёт клиента
func (s *Service) CreateCustomer(ctx context.Context, req CreateCustomerRequest) (*CustomerDTO, error) {
	birth, err := s.parseBirthDate(req.BirthDate)
	if err != nil {
		return nil, err
	}

	c := storage.Customer{
		GymID:          req.GymID,
		FirstName:      strings.TrimSpace(req.FirstName),
		LastName:       strings.TrimSpace(req.LastName),
		BirthDate:      birth,
		Sex:            strings.ToLower(strings.TrimSpace(req.Sex)),
		HeightCM:       req.HeightCM,
		ActivityFactor: req.ActivityFactor,
	}
	if err := validate(c); err != nil {
		return nil, err
	}
	if err := s.ensureGym(ctx, c.GymID); err != nil {
		return nil, err
	}

	if _, err := s.storage.FindDuplicateCustomer(ctx, c); err == nil {
		return nil, ErrExists
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	if err := s.storage.CreateCustomer(ctx, &c); err != nil {
		return nil, mapWriteError(err)
	}

	dto := toDTO(c, nil)
	return &dto, nil
}

// UpdateCustomer применяет частичное обновление
func (s *Service) UpdateCustomer(ctx context.Context, id int64, req UpdateCustomerRequest) (*CustomerDTO, error) {
	existing, err := s.storage.GetCustomer(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	c := *existing
	if req.GymID != nil {
		if err := s.ensureGym(ctx, *req.GymID); err != nil {
			return nil, err
		}
		c.GymID = *req.GymID
	}
	if req.FirstName != nil {
		c.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		c.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.BirthDate != nil {
		birth, err := s.parseBirthDate(*req.BirthDate)
		if err != nil {
			return nil, err
		}
		c.BirthDate = birth
	}
	if req.Sex != nil {
		c.Sex = strings.ToLower(strings.TrimSpace(*req.Sex))
	}
	if req.HeightCM != nil {
		c.HeightCM = *req.HeightCM
	}
	if req.ActivityFactor != nil {
		c.ActivityFactor = *req.ActivityFactor
	}
	if err := validate(c); err != nil {
		return nil, err
	}

	if err := s.storage.UpdateCustomer(ctx, &c); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, mapWriteError(err)
	}

	return s.GetCustomer(ctx, id)
}

// DeleteCustomer удаляет клиента вместе с прогрессом и целями
func (s *Service) DeleteCustomer(ctx context.Context, id int64) error {
	err := s.storage.DeleteCustomer(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

func (s *Service) ensureGym(ctx context.Context, gymID int64) error {
	if gymID <= 0 {
		return ErrGymNotFound
	}
	_, err := s.storage.GetGym(ctx, gymID)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrGymNotFound
	}
	return err
}

func (s *Service) parseBirthDate(raw string) (time.Time, error) {
	birth, err := time.Parse(dateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, ErrInvalidBirthDate
	}
	if !birth.Before(calories.DateOnly(s.now().UTC())) {
		return time.Time{}, ErrBirthDateInFuture
	}
	return birth, nil
}

func validate(c storage.Customer) error {
	if c.FirstName == "" || c.LastName == "" {
		return ErrEmptyName
	}
	if len(c.FirstName) > maxNameLen || len(c.LastName) > maxNameLen {
		return ErrNameTooLong
	}
	if c.Sex != calories.SexMale && c.Sex != calories.SexFemale {
		return ErrInvalidSex
	}
	if c.HeightCM <= 0 {
		return ErrInvalidHeight
	}
	if c.ActivityFactor < calories.MinActivityFactor || c.ActivityFactor > calories.MaxActivityFactor {
		return ErrInvalidActivity
	}
	return nil
}

func mapWriteError(err error) error {
	switch {
	case errors.Is(err, storage.ErrConflict):
		return ErrExists
	case errors.Is(err, storage.ErrNotFound):
		return ErrGymNotFound
	}
	return err
}

// toDTO конвертирует storage.Customer в CustomerDTO
func toDTO(c storage.Customer, currentWeight *float64) CustomerDTO {
	return CustomerDTO{
		ID:              c.ID,
		GymID:           c.GymID,
		FirstName:       c.FirstName,
		LastName:        c.LastName,
		BirthDate:       c.BirthDate.Format(dateLayout),
		Sex:             c.Sex,
		HeightCM:        c.HeightCM,
		ActivityFactor:  c.ActivityFactor,
		CurrentWeightKG: currentWeight,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}
