package storage

import (
	"context"
	"fmt"

	"github.com/fraud-desk/internal/models"
	"github.com/jackc/pgx/v5"
)

const reportColumns = `id, reporter_name, wallets, fraud_type, COALESCE(description, ''), attachment, status, created_at`

// ReportRepository persists fraud reports
type ReportRepository struct {
	db *PostgresDB
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *PostgresDB) *ReportRepository {
	return &ReportRepository{db: db}
}

// Create inserts a report and fills in the generated id, status and created_at
func (r *ReportRepository) Create(ctx context.Context, report *models.FraudReport) error {
	if report.Status == "" {
		report.Status = models.StatusPending
	}

	query := `
		INSERT INTO fraud_reports (reporter_name, wallets, fraud_type, description, attachment, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, status, created_at
	`

	err := r.db.WithTx(ctx, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, query,
			report.ReporterName,
			report.Wallets,
			report.FraudType,
			report.Description,
			report.Attachment,
			report.Status,
		).Scan(&report.ID, &report.Status, &report.CreatedAt)
	})
	if err != nil {
		return fmt.Errorf("failed to create report: %w", translateError(err))
	}

	return nil
}

// List returns every report, newest first. Reports created in the same
// instant are ordered by descending id.
func (r *ReportRepository) List(ctx context.Context) ([]*models.FraudReport, error) {
	query := `SELECT ` + reportColumns + ` FROM fraud_reports ORDER BY created_at DESC, id DESC`

	reports := make([]*models.FraudReport, 0)
	err := r.db.WithTx(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, query)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			report, err := scanReport(rows)
			if err != nil {
				return err
			}
			reports = append(reports, report)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", translateError(err))
	}

	return reports, nil
}

// GetByID retrieves a report by id. ErrNotFound is returned for unknown ids.
func (r *ReportRepository) GetByID(ctx context.Context, id int64) (*models.FraudReport, error) {
	query := `SELECT ` + reportColumns + ` FROM fraud_reports WHERE id = $1`

	var report *models.FraudReport
	err := r.db.WithTx(ctx, func(tx pgx.Tx) error {
		var err error
		report, err = scanReport(tx.QueryRow(ctx, query, id))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get report %d: %w", id, translateError(err))
	}

	return report, nil
}

// UpdateStatus overwrites the status of a report and returns the updated row.
// Any status text is accepted. ErrNotFound is returned for unknown ids.
func (r *ReportRepository) UpdateStatus(ctx context.Context, id int64, status string) (*models.FraudReport, error) {
	query := `UPDATE fraud_reports SET status = $2 WHERE id = $1 RETURNING ` + reportColumns

	var report *models.FraudReport
	err := r.db.WithTx(ctx, func(tx pgx.Tx) error {
		var err error
		report, err = scanReport(tx.QueryRow(ctx, query, id, status))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update report %d status: %w", id, translateError(err))
	}

	return report, nil
}

func scanReport(row pgx.Row) (*models.FraudReport, error) {
	report := &models.FraudReport{}
	err := row.Scan(
		&report.ID,
		&report.ReporterName,
		&report.Wallets,
		&report.FraudType,
		&report.Description,
		&report.Attachment,
		&report.Status,
		&report.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return report, nil
}
