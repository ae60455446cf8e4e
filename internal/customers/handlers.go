package customers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
)

// Handler содержит HTTP обработчики для клиентов
type Handler struct {
	service *Service
}

// NewHandler создаёт новый handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleList обрабатывает GET /v1/customers?first_name=&last_name=
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	list, err := h.service.ListCustomers(r.Context(), q.Get("first_name"), q.Get("last_name"))
	if err != nil {
		h.sendServiceError(w, "list customers", err)
		return
	}

	h.sendJSON(w, http.StatusOK, CustomersResponse{Customers: list})
}

// HandleGet обрабатывает GET /v1/customers/{id}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	customer, err := h.service.GetCustomer(r.Context(), id)
	if err != nil {
		h.sendServiceError(w, "get customer", err)
		return
	}

	h.sendJSON(w, http.StatusOK, customer)
}

// HandleCreate обрабатывает POST /v1/customers
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid_json", "Invalid JSON")
		return
	}

	customer, err := h.service.CreateCustomer(r.Context(), req)
	if err != nil {
		h.sendServiceError(w, "create customer", err)
		return
	}

	h.sendJSON(w, http.StatusCreated, customer)
}

// HandleUpdate обрабатывает PATCH /v1/customers/{id}
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var req UpdateCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid_json", "Invalid JSON")
		return
	}

	customer, err := h.service.UpdateCustomer(r.Context(), id, req)
	if err != nil {
		h.sendServiceError(w, "update customer", err)
		return
	}

	h.sendJSON(w, http.StatusOK, customer)
}

// HandleDelete обрабатывает DELETE /v1/customers/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteCustomer(r.Context(), id); err != nil {
		h.sendServiceError(w, "delete customer", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		h.sendError(w, http.StatusBadRequest, "invalid_id", "Invalid customer ID")
		return 0, false
	}
	return id, true
}

var validationCodes = []struct {
	err  error
	code string
}{
	{ErrEmptyName, "empty_name"},
	{ErrNameTooLong, "name_too_long"},
	{ErrInvalidBirthDate, "invalid_birth_date"},
	{ErrBirthDateInFuture, "birth_date_in_future"},
	{ErrInvalidSex, "invalid_sex"},
	{ErrInvalidHeight, "invalid_height"},
	{ErrInvalidActivity, "invalid_activity_factor"},
}

func (h *Handler) sendServiceError(w http.ResponseWriter, op string, err error) {
	for _, v := range validationCodes {
		if errors.Is(err, v.err) {
			h.sendError(w, http.StatusBadRequest, v.code, v.err.Error())
			return
		}
	}

	switch {
	case errors.Is(err, ErrGymNotFound):
		h.sendError(w, http.StatusNotFound, "gym_not_found", "Gym not found")
	case errors.Is(err, ErrNotFound):
		h.sendError(w, http.StatusNotFound, "customer_not_found", "Customer not found")
	case errors.Is(err, ErrExists):
		h.sendError(w, http.StatusConflict, "customer_exists", "This customer already exists")
	default:
		log.Printf("ERROR customers: %s: %v", op, err)
		h.sendError(w, http.StatusInternalServerError, "internal_error", "Internal server error")
	}
}

// sendJSON отправляет JSON ответ
func (h *Handler) sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// sendError отправляет ошибку в формате ErrorResponse
func (h *Handler) sendError(w http.ResponseWriter, status int, code, message string) {
	h.sendJSON(w, status, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}
