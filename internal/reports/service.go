package reports

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/fdg312/gym-tracker/internal/blob"
	"github.com/fdg312/gym-tracker/internal/calories"
	"github.com/fdg312/gym-tracker/internal/storage"
	"github.com/google/uuid"
)

var (
	ErrInvalidFormat     = errors.New("format must be pdf or csv")
	ErrInvalidCustomerID = errors.New("customer ids must be positive")
	ErrTooManyCustomers  = errors.New("too many customers for one report")
	ErrNoCustomers       = errors.New("no customers to report on")
	ErrReportNotFound    = errors.New("report not found")
)

// Calculator runs the fail-fast calorie batch
type Calculator interface {
	ComputeBatch(ctx context.Context, customerIDs []int64, fromStartDate bool) ([]calories.Report, error)
}

// CustomerLister resolves "all customers" when the request carries no ids
type CustomerLister interface {
	ListCustomerIDs(ctx context.Context) ([]int64, error)
}

// Service handles calorie report generation and storage
type Service struct {
	reportsStorage storage.ReportsStorage
	customers      CustomerLister
	calculator     Calculator
	generator      *Generator
	blobStore      blob.Store
	maxCustomers   int
	localMode      bool // true if no blob store configured
}

// NewService creates a new reports service. blobStore may be nil (local mode).
func NewService(
	reportsStorage storage.ReportsStorage,
	customers CustomerLister,
	calculator Calculator,
	blobStore blob.Store,
	maxCustomers int,
) *Service {
	if maxCustomers <= 0 {
		maxCustomers = 500
	}
	return &Service{
		reportsStorage: reportsStorage,
		customers:      customers,
		calculator:     calculator,
		generator:      NewGenerator(),
		blobStore:      blobStore,
		maxCustomers:   maxCustomers,
		localMode:      blobStore == nil,
	}
}

// CreateReport computes the batch, renders it and stores the file.
// Calculation errors (calories.ErrNotFound, *calories.InputError) are returned as is.
func (s *Service) CreateReport(ctx context.Context, req CreateReportRequest) (*storage.ReportMeta, error) {
	if req.Format != FormatPDF && req.Format != FormatCSV {
		return nil, ErrInvalidFormat
	}

	ids, err := s.resolveCustomers(ctx, req.CustomerIDs)
	if err != nil {
		return nil, err
	}

	rows, err := s.calculator.ComputeBatch(ctx, ids, req.FromStartDate)
	if err != nil {
		return nil, err
	}

	data, err := s.generator.Render(req.Format, req.FromStartDate, rows)
	if err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}

	report := &storage.ReportMeta{
		ID:            uuid.New(),
		Format:        req.Format,
		FromStartDate: req.FromStartDate,
		CustomerIDs:   ids,
		SizeBytes:     int64(len(data)),
	}

	if s.localMode {
		report.Data = data
	} else {
		objectKey := fmt.Sprintf("reports/%s.%s", report.ID, req.Format)
		if _, err := s.blobStore.PutObject(ctx, objectKey, data, contentType(req.Format)); err != nil {
			return nil, fmt.Errorf("failed to upload report: %w", err)
		}
		report.ObjectKey = &objectKey
	}

	if err := s.reportsStorage.CreateReport(ctx, report); err != nil {
		return nil, fmt.Errorf("failed to save report metadata: %w", err)
	}

	return report, nil
}

func (s *Service) resolveCustomers(ctx context.Context, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		all, err := s.customers.ListCustomerIDs(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list customers: %w", err)
		}
		if len(all) == 0 {
			return nil, ErrNoCustomers
		}
		ids = all
	}

	if len(ids) > s.maxCustomers {
		return nil, ErrTooManyCustomers
	}
	for _, id := range ids {
		if id <= 0 {
			return nil, ErrInvalidCustomerID
		}
	}
	return ids, nil
}

// GetReport retrieves report metadata by ID
func (s *Service) GetReport(ctx context.Context, id uuid.UUID) (*storage.ReportMeta, error) {
	meta, err := s.reportsStorage.GetReport(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrReportNotFound
	}
	if err != nil {
		return nil, err
	}
	return meta, nil
}

// ListReports lists stored reports, newest first
func (s *Service) ListReports(ctx context.Context, limit, offset int) ([]storage.ReportMeta, error) {
	metas, err := s.reportsStorage.ListReports(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	return metas, nil
}

// DeleteReport removes the stored file and its metadata
func (s *Service) DeleteReport(ctx context.Context, id uuid.UUID) error {
	meta, err := s.GetReport(ctx, id)
	if err != nil {
		return err
	}

	if !s.localMode && meta.ObjectKey != nil {
		if err := s.blobStore.DeleteObject(ctx, *meta.ObjectKey); err != nil {
			// metadata is removed anyway; the object becomes an orphan
			log.Printf("WARN reports: delete object %s: %v", *meta.ObjectKey, err)
		}
	}

	if err := s.reportsStorage.DeleteReport(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrReportNotFound
		}
		return err
	}
	return nil
}

// DownloadURL returns the blob URL in S3 mode or the API download path in local mode.
func (s *Service) DownloadURL(ctx context.Context, meta *storage.ReportMeta, baseURL string) (string, error) {
	if s.localMode || meta.ObjectKey == nil {
		return fmt.Sprintf("%s/v1/reports/%s/download", baseURL, meta.ID), nil
	}
	return s.blobStore.DownloadURL(ctx, *meta.ObjectKey)
}

// ReportData returns the file bytes and content type.
func (s *Service) ReportData(ctx context.Context, meta *storage.ReportMeta) ([]byte, string, error) {
	if s.localMode || meta.ObjectKey == nil {
		if len(meta.Data) == 0 {
			return nil, "", fmt.Errorf("report %s has no inline data", meta.ID)
		}
		return meta.Data, contentType(meta.Format), nil
	}

	data, err := s.blobStore.GetObject(ctx, *meta.ObjectKey)
	if err != nil {
		return nil, "", err
	}
	return data, contentType(meta.Format), nil
}
