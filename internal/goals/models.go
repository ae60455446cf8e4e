package goals

import "time"

// GoalDTO — DTO для API
type GoalDTO struct {
	ID             int64     `json:"id"`
	CustomerID     int64     `json:"customer_id"`
	TargetWeightKG float64   `json:"target_weight_kg"`
	StartDate      string    `json:"start_date"`
	EndDate        string    `json:"end_date"`
	CreatedAt      time.Time `json:"created_at"`
}

// GoalsResponse — ответ для списков целей
type GoalsResponse struct {
	Goals []GoalDTO `json:"goals"`
}

// CreateGoalRequest — запрос для POST /v1/customers/{id}/goals
type CreateGoalRequest struct {
	TargetWeightKG float64 `json:"target_weight_kg"`
	StartDate      string  `json:"start_date"`
	EndDate        string  `json:"end_date"`
}

// ErrorResponse — формат ошибки
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
