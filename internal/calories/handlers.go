package calories

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
)

// Handler содержит HTTP обработчики расчёта калорий
type Handler struct {
	service *Service
}

// NewHandler создаёт новый handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleDailyIntake обрабатывает GET /v1/customers/{id}/daily-calorie-intake
func (h *Handler) HandleDailyIntake(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_id", "Invalid customer ID")
		return
	}

	fromStart, ok := parseFromStartDate(w, r)
	if !ok {
		return
	}

	report, err := h.service.ComputeForCustomer(r.Context(), id, fromStart)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// HandleBatch обрабатывает POST /v1/calories/batch
func (h *Handler) HandleBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "Invalid JSON")
		return
	}
	for _, id := range req.CustomerIDs {
		if id <= 0 {
			writeError(w, http.StatusBadRequest, "invalid_id", "customer_ids must be positive")
			return
		}
	}

	reports, err := h.service.ComputeBatch(r.Context(), req.CustomerIDs, req.FromStartDate)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, BatchResponse{Reports: reports})
}

// HandleAll обрабатывает GET /v1/calories
func (h *Handler) HandleAll(w http.ResponseWriter, r *http.Request) {
	fromStart, ok := parseFromStartDate(w, r)
	if !ok {
		return
	}

	reports, err := h.service.ComputeAll(r.Context(), fromStart)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, BatchResponse{Reports: reports})
}

func parseFromStartDate(w http.ResponseWriter, r *http.Request) (bool, bool) {
	raw := r.URL.Query().Get("from_start_date")
	if raw == "" {
		return false, true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "from_start_date must be true or false")
		return false, false
	}
	return v, true
}

// writeServiceError maps calculation errors to HTTP without re-wrapping them.
func writeServiceError(w http.ResponseWriter, err error) {
	var inputErr *InputError
	switch {
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "insufficient_data", err.Error())
	case errors.As(err, &inputErr):
		writeError(w, http.StatusUnprocessableEntity, "invalid_input", inputErr.Error())
	default:
		log.Printf("ERROR calories: %v", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to compute calories")
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}
