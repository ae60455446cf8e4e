package gyms

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
)

// Handler содержит HTTP обработчики для залов
type Handler struct {
	service *Service
}

// NewHandler создаёт новый handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleList обрабатывает GET /v1/gyms
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	gyms, err := h.service.ListGyms(r.Context(), r.URL.Query().Get("address_place"))
	if err != nil {
		h.internalError(w, "list gyms", err)
		return
	}

	h.sendJSON(w, http.StatusOK, GymsResponse{Gyms: gyms})
}

// HandleGet обрабатывает GET /v1/gyms/{id}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	gym, err := h.service.GetGym(r.Context(), id)
	if err != nil {
		h.sendServiceError(w, "get gym", err)
		return
	}

	h.sendJSON(w, http.StatusOK, gym)
}

// HandleCreate обрабатывает POST /v1/gyms
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateGymRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid_json", "Invalid JSON")
		return
	}

	gym, err := h.service.CreateGym(r.Context(), req)
	if err != nil {
		h.sendServiceError(w, "create gym", err)
		return
	}

	h.sendJSON(w, http.StatusCreated, gym)
}

// HandleDelete обрабатывает DELETE /v1/gyms/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteGym(r.Context(), id); err != nil {
		h.sendServiceError(w, "delete gym", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleListCustomers обрабатывает GET /v1/gyms/{id}/customers
func (h *Handler) HandleListCustomers(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	members, err := h.service.ListMembers(r.Context(), id)
	if err != nil {
		h.sendServiceError(w, "list gym customers", err)
		return
	}

	h.sendJSON(w, http.StatusOK, MembersResponse{Customers: members})
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		h.sendError(w, http.StatusBadRequest, "invalid_id", "Invalid gym ID")
		return 0, false
	}
	return id, true
}

func (h *Handler) sendServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrEmptyName):
		h.sendError(w, http.StatusBadRequest, "empty_name", "Name cannot be empty")
	case errors.Is(err, ErrEmptyAddress):
		h.sendError(w, http.StatusBadRequest, "empty_address", "Address place cannot be empty")
	case errors.Is(err, ErrFieldTooLong):
		h.sendError(w, http.StatusBadRequest, "field_too_long", "Fields are limited to 50 characters")
	case errors.Is(err, ErrNotFound):
		h.sendError(w, http.StatusNotFound, "gym_not_found", "Gym not found")
	case errors.Is(err, ErrHasCustomers):
		h.sendError(w, http.StatusConflict, "gym_has_customers", "Gym still has customers")
	default:
		h.internalError(w, op, err)
	}
}

func (h *Handler) internalError(w http.ResponseWriter, op string, err error) {
	log.Printf("ERROR gyms: %s: %v", op, err)
	h.sendError(w, http.StatusInternalServerError, "internal_error", "Internal server error")
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
