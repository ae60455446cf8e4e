package progress

import "time"

// EntryDTO — одна запись веса
type EntryDTO struct {
	ID         int64     `json:"id"`
	CustomerID int64     `json:"customer_id"`
	RecordedOn string    `json:"recorded_on"`
	WeightKG   float64   `json:"weight_kg"`
	CreatedAt  time.Time `json:"created_at"`
}

// EntriesResponse — ответ для списков прогресса
type EntriesResponse struct {
	Progress []EntryDTO `json:"progress"`
}

// AddEntryRequest — запрос для POST /v1/customers/{id}/progress
type AddEntryRequest struct {
	WeightKG   float64 `json:"weight_kg"`
	RecordedOn string  `json:"recorded_on,omitempty"` // YYYY-MM-DD, defaults to today
}

// ErrorResponse — формат ошибки
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
