package gyms

import "time"

// GymDTO — DTO для API
type GymDTO struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	AddressPlace string    `json:"address_place"`
	CreatedAt    time.Time `json:"created_at"`
}

// GymsResponse — ответ для GET /v1/gyms
type GymsResponse struct {
	Gyms []GymDTO `json:"gyms"`
}

// CreateGymRequest — запрос для POST /v1/gyms
type CreateGymRequest struct {
	Name         string `json:"name"`
	AddressPlace string `json:"address_place"`
}

// MemberDTO is the short customer view returned by GET /v1/gyms/{id}/customers.
type MemberDTO struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// MembersResponse — ответ для GET /v1/gyms/{id}/customers
type MembersResponse struct {
	Customers []MemberDTO `json:"customers"`
}

// ErrorResponse — формат ошибки
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
