package reports

import (
	"time"

	"github.com/google/uuid"
)

// CreateReportRequest — запрос для POST /v1/reports.
// Пустой customer_ids означает всех клиентов.
type CreateReportRequest struct {
	CustomerIDs   []int64 `json:"customer_ids"`
	FromStartDate bool    `json:"from_start_date"`
	Format        string  `json:"format"` // "pdf" or "csv"
}

// ReportDTO is the response representation of a stored calorie report
type ReportDTO struct {
	ID            uuid.UUID `json:"id"`
	Format        string    `json:"format"`
	FromStartDate bool      `json:"from_start_date"`
	CustomerIDs   []int64   `json:"customer_ids"`
	DownloadURL   string    `json:"download_url"`
	SizeBytes     int64     `json:"size_bytes"`
	CreatedAt     time.Time `json:"created_at"`
}

// ReportsResponse is the list response
type ReportsResponse struct {
	Reports []ReportDTO `json:"reports"`
}

const (
	FormatPDF = "pdf"
	FormatCSV = "csv"
)

func contentType(format string) string {
	if format == FormatCSV {
		return "text/csv"
	}
	return "application/pdf"
}
