package customers

import "time"

// CustomerDTO — DTO для API
type CustomerDTO struct {
	ID              int64     `json:"id"`
	GymID           int64     `json:"gym_id"`
	FirstName       string    `json:"first_name"`
	LastName        string    `json:"last_name"`
	BirthDate       string    `json:"birth_date"`
	Sex             string    `json:"sex"`
	HeightCM        float64   `json:"height_cm"`
	ActivityFactor  float64   `json:"activity_factor"`
	CurrentWeightKG *float64  `json:"current_weight_kg"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// CustomersResponse — ответ для GET /v1/customers
type CustomersResponse struct {
	Customers []CustomerDTO `json:"customers"`
}

// CreateCustomerRequest — запрос для POST /v1/customers
type CreateCustomerRequest struct {
	GymID          int64   `json:"gym_id"`
	FirstName      string  `json:"first_name"`
	LastName       string  `json:"last_name"`
	BirthDate      string  `json:"birth_date"` // YYYY-MM-DD
	Sex            string  `json:"sex"`
	HeightCM       float64 `json:"height_cm"`
	ActivityFactor float64 `json:"activity_factor"`
}

// UpdateCustomerRequest — запрос для PATCH /v1/customers/{id}; nil fields stay unchanged
type UpdateCustomerRequest struct {
	GymID          *int64   `json:"gym_id"`
	FirstName      *string  `json:"first_name"`
	LastName       *string  `json:"last_name"`
	BirthDate      *string  `json:"birth_date"`
	Sex            *string  `json:"sex"`
	HeightCM       *float64 `json:"height_cm"`
	ActivityFactor *float64 `json:"activity_factor"`
}

// ErrorResponse — формат ошибки
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
