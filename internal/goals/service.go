package goals

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
	ErrInvalidTarget    = errors.New("target_weight_kg must be greater than 0")
	ErrInvalidDate      = errors.New("dates must be YYYY-MM-DD")
	ErrDatesEqual       = errors.New("start date and end date cannot be the same")
	ErrEndBeforeStart   = errors.New("end date cannot be before start date")
	ErrEndNotInFuture   = errors.New("end date must be in the future")
	ErrCustomerNotFound = errors.New("customer not found")
	ErrNotFound         = errors.New("goal not found")
)

// Storage — то, что сервису нужно от хранилища
type Storage interface {
	storage.GoalsStorage
	GetCustomer(ctx context.Context, id int64) (*storage.Customer, error)
}

// Service содержит бизнес-логику целей по весу
type Service struct {
	storage Storage
	now     func() time.Time
}

// NewService создаёт новый сервис
func NewService(st Storage) *Service {
	return &Service{storage: st, now: time.Now}
}

// CreateGoal validates the request in a fixed order and stores the goal.
// Each rule fails with its own sentinel error.
func (s *Service) CreateGoal(ctx context.Context, customerID int64, req CreateGoalRequest) (*GoalDTO, error) {
	if req.TargetWeightKG <= 0 {
		return nil, ErrInvalidTarget
	}

	start, err := parseDate(req.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return nil, err
	}

	switch {
	case start.Equal(end):
		return nil, ErrDatesEqual
	case end.Before(start):
		return nil, ErrEndBeforeStart
	case !end.After(calories.DateOnly(s.now().UTC())):
		return nil, ErrEndNotInFuture
	}

	goal := &storage.Goal{
		CustomerID:     customerID,
		TargetWeightKG: req.TargetWeightKG,
		StartDate:      start,
		EndDate:        end,
	}
	if err := s.storage.CreateGoal(ctx, goal); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}

	dto := toDTO(*goal)
	return &dto, nil
}

// ListGoals возвращает цели, опционально по точной дате начала и/или конца
func (s *Service) ListGoals(ctx context.Context, startDate, endDate string) ([]GoalDTO, error) {
	var filter storage.GoalFilter
	if strings.TrimSpace(startDate) != "" {
		d, err := parseDate(startDate)
		if err != nil {
			return nil, err
		}
		filter.StartDate = d
	}
	if strings.TrimSpace(endDate) != "" {
		d, err := parseDate(endDate)
		if err != nil {
			return nil, err
		}
		filter.EndDate = d
	}

	goals, err := s.storage.ListGoals(ctx, filter)
	if err != nil {
		return nil, err
	}
	return toDTOs(goals), nil
}

// ListForCustomer возвращает цели клиента по дате начала
func (s *Service) ListForCustomer(ctx context.Context, customerID int64) ([]GoalDTO, error) {
	if err := s.requireCustomer(ctx, customerID); err != nil {
		return nil, err
	}

	goals, err := s.storage.ListCustomerGoals(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return toDTOs(goals), nil
}

// GetGoal возвращает цель по ID
func (s *Service) GetGoal(ctx context.Context, id int64) (*GoalDTO, error) {
	goal, err := s.storage.GetGoal(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	dto := toDTO(*goal)
	return &dto, nil
}

func parseDate(raw string) (time.Time, error) {
	d, err := time.Parse(dateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return d, nil
}

// requireCustomer maps an unknown customer to ErrCustomerNotFound.
func (s *Service) requireCustomer(ctx context.Context, customerID int64) error {
	_, err := s.storage.GetCustomer(ctx, customerID)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrCustomerNotFound
	}
	return err
}

func toDTOs(goals []storage.Goal) []GoalDTO {
	dtos := make([]GoalDTO, 0, len(goals))
	for _, g := range goals {
		dtos = append(dtos, toDTO(g))
	}
	return dtos
}

func toDTO(g storage.Goal) GoalDTO {
	return GoalDTO{
		ID:             g.ID,
		CustomerID:     g.CustomerID,
		TargetWeightKG: g.TargetWeightKG,
		StartDate:      g.StartDate.Format(dateLayout),
		EndDate:        g.EndDate.Format(dateLayout),
		CreatedAt:      g.CreatedAt,
	}
}
