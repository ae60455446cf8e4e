package progress

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
)

// Handler содержит HTTP обработчики для прогресса
type Handler struct {
	service *Service
}

// NewHandler создаёт новый handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleAdd обрабатывает POST /v1/customers/{id}/progress
func (h *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	customerID, ok := pathID(w, r, "Invalid customer ID")
	if !ok {
		return
	}

	var req AddEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "Invalid JSON")
		return
	}

	entry, err := h.service.AddEntry(r.Context(), customerID, req)
	if err != nil {
		writeServiceError(w, "add progress", err)
		return
	}

	writeJSON(w, http.StatusCreated, entry)
}

// HandleListForCustomer обрабатывает GET /v1/customers/{id}/progress
func (h *Handler) HandleListForCustomer(w http.ResponseWriter, r *http.Request) {
	customerID, ok := pathID(w, r, "Invalid customer ID")
	if !ok {
		return
	}

	entries, err := h.service.ListForCustomer(r.Context(), customerID)
	if err != nil {
		writeServiceError(w, "list customer progress", err)
		return
	}

	writeJSON(w, http.StatusOK, EntriesResponse{Progress: entries})
}

// HandleRecent обрабатывает GET /v1/customers/{id}/progress/recent
func (h *Handler) HandleRecent(w http.ResponseWriter, r *http.Request) {
	customerID, ok := pathID(w, r, "Invalid customer ID")
	if !ok {
		return
	}

	entry, err := h.service.Latest(r.Context(), customerID)
	if err != nil {
		writeServiceError(w, "latest progress", err)
		return
	}

	writeJSON(w, http.StatusOK, entry)
}

// HandleListAll обрабатывает GET /v1/progress
func (h *Handler) HandleListAll(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.ListAll(r.Context())
	if err != nil {
		writeServiceError(w, "list progress", err)
		return
	}

	writeJSON(w, http.StatusOK, EntriesResponse{Progress: entries})
}

// HandleGet обрабатывает GET /v1/progress/{id}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "Invalid progress ID")
	if !ok {
		return
	}

	entry, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, "get progress", err)
		return
	}

	writeJSON(w, http.StatusOK, entry)
}

func pathID(w http.ResponseWriter, r *http.Request, message string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_id", message)
		return 0, false
	}
	return id, true
}

func writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrInvalidWeight):
		writeError(w, http.StatusBadRequest, "invalid_weight", err.Error())
	case errors.Is(err, ErrInvalidDate):
		writeError(w, http.StatusBadRequest, "invalid_date", err.Error())
	case errors.Is(err, ErrDateInFuture):
		writeError(w, http.StatusBadRequest, "date_in_future", err.Error())
	case errors.Is(err, ErrCustomerNotFound):
		writeError(w, http.StatusNotFound, "customer_not_found", "Customer not found")
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "progress_not_found", "No progress found")
	default:
		log.Printf("ERROR progress: %s: %v", op, err)
		writeError(w, http.StatusInternalServerError, "internal_error", "Internal server error")
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
