package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/hivetax/hivetax-platform/internal/models"
	"github.com/hivetax/hivetax-platform/internal/utils"
)

type FraudReportRepository interface {
	CreateReport(ctx context.Context, report *models.FraudReport) error
	GetReportByID(ctx context.Context, id uuid.UUID) (*models.FraudReport, error)
	ListReports(ctx context.Context, status models.FraudReportStatus, page, size int) ([]*models.FraudReport, int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.FraudReportStatus) error
}

type fraudReportRepository struct {
	DB *sql.DB
}

func NewFraudReportRepo(db *sql.DB) FraudReportRepository {
	return &fraudReportRepository{DB: db}
}

func (r *fraudReportRepository) CreateReport(ctx context.Context, report *models.FraudReport) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `INSERT INTO fraud_reports (buyer_id, seller_name, description, transaction_details, status)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id, created_at, updated_at
	`

	return r.DB.QueryRowContext(dbCtx, query,
		report.BuyerID, report.SellerName, report.Description, report.TransactionDetails, report.Status).
		Scan(&report.ID, &report.CreatedAt, &report.UpdatedAt)
}

func (r *fraudReportRepository) GetReportByID(ctx context.Context, id uuid.UUID) (*models.FraudReport, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	report := &models.FraudReport{}

	query := `SELECT id, buyer_id, seller_name, description, transaction_details, status, created_at, updated_at
			  FROM fraud_reports WHERE id = $1`

	err := r.DB.QueryRowContext(dbCtx, query, id).
		Scan(&report.ID, &report.BuyerID, &report.SellerName, &report.Description,
			&report.TransactionDetails, &report.Status, &report.CreatedAt, &report.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("querying database: %w", err)
	}

	return report, nil
}

func (r *fraudReportRepository) ListReports(ctx context.Context, status models.FraudReportStatus, page, size int) ([]*models.FraudReport, int, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var total int
	if err := r.DB.QueryRowContext(dbCtx, `SELECT COUNT(*) FROM fraud_reports WHERE status = $1`, status).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("querying database: %w", err)
	}

	query := `SELECT id, buyer_id, seller_name, description, transaction_details, status, created_at, updated_at
			  FROM fraud_reports
			  WHERE status = $1
			  ORDER BY created_at DESC
			  LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(dbCtx, query, status, size, (page-1)*size)
	if err != nil {
		return nil, 0, fmt.Errorf("querying database: %w", err)
	}
	defer rows.Close()

	var reports []*models.FraudReport

	for rows.Next() {
		report := &models.FraudReport{}

		if err := rows.Scan(&report.ID, &report.BuyerID, &report.SellerName, &report.Description,
			&report.TransactionDetails, &report.Status, &report.CreatedAt, &report.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scanning row: %w", err)
		}

		reports = append(reports, report)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating rows: %w", err)
	}

	return reports, total, nil
}

func (r *fraudReportRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.FraudReportStatus) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := r.DB.ExecContext(dbCtx,
		`UPDATE fraud_reports SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("updating fraud report: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update result: %w", err)
	}

	if rows == 0 {
		return sql.ErrNoRows
	}

	return nil
}
