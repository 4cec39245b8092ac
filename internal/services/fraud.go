package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/hivetax/hivetax-platform/internal/errors"
	"github.com/hivetax/hivetax-platform/internal/models"
	repository "github.com/hivetax/hivetax-platform/internal/repositories"
	"github.com/microcosm-cc/bluemonday"
)

type FraudService interface {
	CreateReport(ctx context.Context, buyerID uuid.UUID, req *models.CreateFraudReportRequest) (*models.FraudReport, error)
	GetReport(ctx context.Context, id uuid.UUID) (*models.FraudReport, error)
	ListReports(ctx context.Context, status models.FraudReportStatus, page, size int) ([]*models.FraudReport, int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.FraudReportStatus) (*models.FraudReport, error)
}

type fraudService struct {
	repo      repository.FraudReportRepository
	sanitizer *bluemonday.Policy
}

func NewFraudService(repo repository.FraudReportRepository) FraudService {
	return &fraudService{
		repo: repo,
		// Reports are free text from buyers and end up rendered in the
		// officer dashboard, so strip all markup.
		sanitizer: bluemonday.StrictPolicy(),
	}
}

// CreateReport implements FraudService.
func (s *fraudService) CreateReport(ctx context.Context, buyerID uuid.UUID, req *models.CreateFraudReportRequest) (*models.FraudReport, error) {

	report := &models.FraudReport{
		BuyerID:            buyerID,
		SellerName:         s.sanitizer.Sanitize(req.SellerName),
		Description:        s.sanitizer.Sanitize(req.Description),
		TransactionDetails: s.sanitizer.Sanitize(req.TransactionDetails),
		Status:             models.FraudPending,
	}

	if err := s.repo.CreateReport(ctx, report); err != nil {
		return nil, errors.DatabaseError("Failed to submit fraud report").WithError(err)
	}

	return report, nil
}

// GetReport implements FraudService.
func (s *fraudService) GetReport(ctx context.Context, id uuid.UUID) (*models.FraudReport, error) {
	report, err := s.repo.GetReportByID(ctx, id)
	if err != nil {
		return nil, errors.NotFoundError("Fraud report not found").WithError(err)
	}

	return report, nil
}

// ListReports implements FraudService.
func (s *fraudService) ListReports(ctx context.Context, status models.FraudReportStatus, page, size int) ([]*models.FraudReport, int, error) {
	reports, total, err := s.repo.ListReports(ctx, status, page, size)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to fetch fraud reports").WithError(err)
	}

	return reports, total, nil
}

// Investigations only move forward: pending, investigating, resolved.
var fraudStatusOrder = map[models.FraudReportStatus]int{
	models.FraudPending:       0,
	models.FraudInvestigating: 1,
	models.FraudResolved:      2,
}

// UpdateStatus implements FraudService.
func (s *fraudService) UpdateStatus(ctx context.Context, id uuid.UUID, status models.FraudReportStatus) (*models.FraudReport, error) {

	report, err := s.repo.GetReportByID(ctx, id)
	if err != nil {
		return nil, errors.NotFoundError("Fraud report not found").WithError(err)
	}

	next, ok := fraudStatusOrder[status]
	if !ok {
		return nil, errors.BadRequestError("Unknown fraud report status")
	}

	if next <= fraudStatusOrder[report.Status] {
		return nil, errors.BadRequestError("Fraud report status can only move forward")
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, errors.DatabaseError("Failed to update fraud report").WithError(err)
	}

	report, err = s.repo.GetReportByID(ctx, id)
	if err != nil {
		return nil, errors.NotFoundError("Fraud report not found").WithError(err)
	}

	return report, nil
}
