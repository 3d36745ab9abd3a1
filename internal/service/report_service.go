// Package service holds the business rules between the HTTP layer and storage.
package service

import (
	"context"
	"errors"
	"strings"

	apperrors "github.com/fraud-desk/internal/errors"
	"github.com/fraud-desk/internal/logging"
	"github.com/fraud-desk/internal/models"
	"github.com/fraud-desk/internal/storage"
)

// Repository interfaces for dependency injection

// ReportRepository interface for fraud report data operations
type ReportRepository interface {
	Create(ctx context.Context, report *models.FraudReport) error
	List(ctx context.Context) ([]*models.FraudReport, error)
	GetByID(ctx context.Context, id int64) (*models.FraudReport, error)
	UpdateStatus(ctx context.Context, id int64, status string) (*models.FraudReport, error)
}

// ReportService handles fraud report intake and review
type ReportService struct {
	reportRepo ReportRepository
}

// NewReportService creates a new report service
func NewReportService(reportRepo ReportRepository) *ReportService {
	return &ReportService{reportRepo: reportRepo}
}

// CreateReportInput represents the body of a report submission.
// Unknown fields in the body are ignored.
type CreateReportInput struct {
	ReporterName *string `json:"reporter_name"`
	Wallets      string  `json:"wallets"`
	FraudType    string  `json:"fraud_type"`
	Description  string  `json:"description"`
	Attachment   *string `json:"attachment"`
}

// UpdateStatusInput represents the body of a status update
type UpdateStatusInput struct {
	Status string `json:"status"`
}

// CreateReport validates and stores a new report with status Pending
func (s *ReportService) CreateReport(ctx context.Context, input *CreateReportInput) (*models.FraudReport, error) {
	if strings.TrimSpace(input.Wallets) == "" {
		return nil, apperrors.NewRequiredFieldError("wallets")
	}

	fraudType := input.FraudType
	if fraudType == "" {
		fraudType = models.DefaultFraudType
	}

	report := &models.FraudReport{
		ReporterName: input.ReporterName,
		Wallets:      input.Wallets,
		FraudType:    fraudType,
		Description:  input.Description,
		Attachment:   input.Attachment,
		Status:       models.StatusPending,
	}

	if err := s.reportRepo.Create(ctx, report); err != nil {
		return nil, storeError("create report", "report", nil, err)
	}

	logging.FromContext(ctx).WithFields(map[string]interface{}{
		"reportId":  report.ID,
		"fraudType": report.FraudType,
	}).Info("fraud report created")

	return report, nil
}

// ListReports returns all reports, newest first
func (s *ReportService) ListReports(ctx context.Context) ([]*models.FraudReport, error) {
	reports, err := s.reportRepo.List(ctx)
	if err != nil {
		return nil, storeError("list reports", "report", nil, err)
	}
	return reports, nil
}

// GetReport returns one report
func (s *ReportService) GetReport(ctx context.Context, id int64) (*models.FraudReport, error) {
	report, err := s.reportRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storeError("get report", "report", id, err)
	}
	return report, nil
}

// UpdateStatus replaces the status of a report. Any non-empty text is accepted.
func (s *ReportService) UpdateStatus(ctx context.Context, id int64, input *UpdateStatusInput) (*models.FraudReport, error) {
	if strings.TrimSpace(input.Status) == "" {
		return nil, apperrors.NewRequiredFieldError("status")
	}

	report, err := s.reportRepo.UpdateStatus(ctx, id, input.Status)
	if err != nil {
		return nil, storeError("update report status", "report", id, err)
	}

	logging.FromContext(ctx).WithFields(map[string]interface{}{
		"reportId": id,
		"status":   report.Status,
	}).Info("fraud report status updated")

	return report, nil
}

// storeError translates storage failures into categorized errors
func storeError(operation, resource string, id interface{}, err error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return apperrors.NewNotFoundError(resource, id)
	case errors.Is(err, storage.ErrValueTooLong):
		return apperrors.NewInvalidParameterError(resource, "field value too long")
	default:
		return apperrors.NewDatabaseError(operation, err)
	}
}
