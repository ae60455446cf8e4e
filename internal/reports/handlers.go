package reports

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/fdg312/gym-tracker/internal/calories"
	"github.com/fdg312/gym-tracker/internal/storage"
	"github.com/google/uuid"
)

// Handlers handles HTTP requests for calorie reports
type Handlers struct {
	service *Service
}

// NewHandlers creates new report handlers
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// HandleCreate handles POST /v1/reports
func (h *Handlers) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "Invalid JSON")
		return
	}

	report, err := h.service.CreateReport(r.Context(), req)
	if err != nil {
		var inputErr *calories.InputError
		switch {
		case errors.Is(err, ErrInvalidFormat):
			writeError(w, http.StatusBadRequest, "invalid_format", err.Error())
		case errors.Is(err, ErrInvalidCustomerID):
			writeError(w, http.StatusBadRequest, "invalid_customer_id", err.Error())
		case errors.Is(err, ErrTooManyCustomers):
			writeError(w, http.StatusBadRequest, "too_many_customers",
				fmt.Sprintf("at most %d customers per report", h.service.maxCustomers))
		case errors.Is(err, ErrNoCustomers):
			writeError(w, http.StatusNotFound, "no_customers", err.Error())
		case errors.Is(err, calories.ErrNotFound):
			writeError(w, http.StatusNotFound, "insufficient_data", err.Error())
		case errors.As(err, &inputErr):
			writeError(w, http.StatusUnprocessableEntity, "invalid_input", inputErr.Error())
		default:
			log.Printf("ERROR reports: create: %v", err)
			writeError(w, http.StatusInternalServerError, "internal_error", "Failed to create report")
		}
		return
	}

	dto, err := h.toDTO(r, report)
	if err != nil {
		log.Printf("ERROR reports: download url: %v", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to generate download URL")
		return
	}

	writeJSON(w, http.StatusCreated, dto)
}

// HandleList handles GET /v1/reports?limit=&offset=
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}

	offset := 0
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			offset = o
		}
	}

	metas, err := h.service.ListReports(r.Context(), limit, offset)
	if err != nil {
		log.Printf("ERROR reports: list: %v", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to list reports")
		return
	}

	dtos := make([]ReportDTO, 0, len(metas))
	for i := range metas {
		dto, err := h.toDTO(r, &metas[i])
		if err != nil {
			log.Printf("WARN reports: download url for %s: %v", metas[i].ID, err)
		}
		dtos = append(dtos, dto)
	}

	writeJSON(w, http.StatusOK, ReportsResponse{Reports: dtos})
}

// HandleDownload handles GET /v1/reports/{id}/download
func (h *Handlers) HandleDownload(w http.ResponseWriter, r *http.Request) {
	reportID, ok := parseReportID(w, r)
	if !ok {
		return
	}

	report, err := h.service.GetReport(r.Context(), reportID)
	if err != nil {
		writeLookupError(w, "download", err)
		return
	}

	if !h.service.localMode && report.ObjectKey != nil {
		url, err := h.service.DownloadURL(r.Context(), report, baseURL(r))
		if err != nil {
			log.Printf("ERROR reports: download url: %v", err)
			writeError(w, http.StatusInternalServerError, "internal_error", "Failed to generate download URL")
			return
		}
		http.Redirect(w, r, url, http.StatusFound)
		return
	}

	data, ct, err := h.service.ReportData(r.Context(), report)
	if err != nil {
		log.Printf("ERROR reports: read data: %v", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to read report")
		return
	}

	w.Header().Set("Content-Type", ct)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=calories_%s.%s", report.ID, report.Format))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Write(data)
}

// HandleDelete handles DELETE /v1/reports/{id}
func (h *Handlers) HandleDelete(w http.ResponseWriter, r *http.Request) {
	reportID, ok := parseReportID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteReport(r.Context(), reportID); err != nil {
		writeLookupError(w, "delete", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) toDTO(r *http.Request, meta *storage.ReportMeta) (ReportDTO, error) {
	url, err := h.service.DownloadURL(r.Context(), meta, baseURL(r))
	return ReportDTO{
		ID:            meta.ID,
		Format:        meta.Format,
		FromStartDate: meta.FromStartDate,
		CustomerIDs:   meta.CustomerIDs,
		DownloadURL:   url,
		SizeBytes:     meta.SizeBytes,
		CreatedAt:     meta.CreatedAt,
	}, err
}

func parseReportID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "Invalid report ID")
		return uuid.Nil, false
	}
	return id, true
}

func writeLookupError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, ErrReportNotFound) {
		writeError(w, http.StatusNotFound, "report_not_found", "Report not found")
		return
	}
	log.Printf("ERROR reports: %s: %v", op, err)
	writeError(w, http.StatusInternalServerError, "internal_error", "Internal server error")
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}

func baseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s", scheme, r.Host)
}
