package goals

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
)

// Handler содержит HTTP обработчики для целей
type Handler struct {
	service *Service
}

// NewHandler создаёт новый handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleCreate обрабатывает POST /v1/customers/{id}/goals
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	customerID, ok := pathID(w, r, "Invalid customer ID")
	if !ok {
		return
	}

	var req CreateGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "Invalid JSON")
		return
	}

	goal, err := h.service.CreateGoal(r.Context(), customerID, req)
	if err != nil {
		writeServiceError(w, "create goal", err)
		return
	}

	writeJSON(w, http.StatusCreated, goal)
}

// HandleListForCustomer обрабатывает GET /v1/customers/{id}/goals
func (h *Handler) HandleListForCustomer(w http.ResponseWriter, r *http.Request) {
	customerID, ok := pathID(w, r, "Invalid customer ID")
	if !ok {
		return
	}

	goals, err := h.service.ListForCustomer(r.Context(), customerID)
	if err != nil {
		writeServiceError(w, "list customer goals", err)
		return
	}

	writeJSON(w, http.StatusOK, GoalsResponse{Goals: goals})
}

// HandleList обрабатывает GET /v1/goals?start_date=&end_date=
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	goals, err := h.service.ListGoals(r.Context(), q.Get("start_date"), q.Get("end_date"))
	if err != nil {
		writeServiceError(w, "list goals", err)
		return
	}

	writeJSON(w, http.StatusOK, GoalsResponse{Goals: goals})
}

// HandleGet обрабатывает GET /v1/goals/{id}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "Invalid goal ID")
	if !ok {
		return
	}

	goal, err := h.service.GetGoal(r.Context(), id)
	if err != nil {
		writeServiceError(w, "get goal", err)
		return
	}

	writeJSON(w, http.StatusOK, goal)
}

func pathID(w http.ResponseWriter, r *http.Request, message string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_id", message)
		return 0, false
	}
	return id, true
}

// writeServiceError maps each sentinel to its own status; nothing is re-wrapped.
func writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrInvalidTarget):
		writeError(w, http.StatusBadRequest, "invalid_target", err.Error())
	case errors.Is(err, ErrInvalidDate):
		writeError(w, http.StatusBadRequest, "invalid_date", err.Error())
	case errors.Is(err, ErrDatesEqual):
		writeError(w, http.StatusBadRequest, "dates_equal", err.Error())
	case errors.Is(err, ErrEndBeforeStart):
		writeError(w, http.StatusBadRequest, "end_before_start", err.Error())
	case errors.Is(err, ErrEndNotInFuture):
		writeError(w, http.StatusBadRequest, "end_not_in_future", err.Error())
	case errors.Is(err, ErrCustomerNotFound):
		writeError(w, http.StatusNotFound, "customer_not_found", "Customer not found")
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "goal_not_found", "Goal not found")
	default:
		log.Printf("ERROR goals: %s: %v", op, err)
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
