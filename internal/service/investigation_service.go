package service

import (
	"context"
	"strings"

	apperrors "github.com/fraud-desk/internal/errors"
	"github.com/fraud-desk/internal/logging"
	"github.com/fraud-desk/internal/models"
)

// InvestigationRepository interface for investigation data operations
type InvestigationRepository interface {
	Create(ctx context.Context, inv *models.Investigation) error
	GetByID(ctx context.Context, id int64) (*models.Investigation, error)
	ListByReport(ctx context.Context, reportID int64) ([]*models.Investigation, error)
}

// InvestigationService records investigation notes
type InvestigationService struct {
	investigationRepo InvestigationRepository
}

// NewInvestigationService creates a new investigation service
func NewInvestigationService(investigationRepo InvestigationRepository) *InvestigationService {
	return &InvestigationService{investigationRepo: investigationRepo}
}

// CreateInvestigationInput represents the body of an investigation submission
type CreateInvestigationInput struct {
	WalletAddress  string `json:"wallet_address"`
	Summary        string `json:"summary"`
	Findings       string `json:"findings"`
	LinkedReportID *int64 `json:"linked_report_id"`
}

// CreateInvestigation stores a new investigation. The linked report id is
// kept as given even when no such report exists.
func (s *InvestigationService) CreateInvestigation(ctx context.Context, input *CreateInvestigationInput) (*models.Investigation, error) {
	if strings.TrimSpace(input.WalletAddress) == "" {
		return nil, apperrors.NewRequiredFieldError("wallet_address")
	}

	inv := &models.Investigation{
		WalletAddress:  input.WalletAddress,
		Summary:        input.Summary,
		Findings:       input.Findings,
		LinkedReportID: input.LinkedReportID,
	}

	if err := s.investigationRepo.Create(ctx, inv); err != nil {
		return nil, storeError("create investigation", "investigation", nil, err)
	}

	logging.FromContext(ctx).WithFields(map[string]interface{}{
		"investigationId": inv.ID,
		"walletAddress":   inv.WalletAddress,
	}).Info("investigation created")

	return inv, nil
}

// GetInvestigation returns one investigation
func (s *InvestigationService) GetInvestigation(ctx context.Context, id int64) (*models.Investigation, error) {
	inv, err := s.investigationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storeError("get investigation", "investigation", id, err)
	}
	return inv, nil
}

// ListForReport returns the investigations that reference reportID, newest first.
// The report itself is not looked up.
func (s *InvestigationService) ListForReport(ctx context.Context, reportID int64) ([]*models.Investigation, error) {
	investigations, err := s.investigationRepo.ListByReport(ctx, reportID)
	if err != nil {
		return nil, storeError("list investigations", "investigation", reportID, err)
	}
	return investigations, nil
}
