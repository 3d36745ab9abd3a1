package storage

import (
	"context"
	"fmt"

	"github.com/fraud-desk/internal/models"
	"github.com/jackc/pgx/v5"
)

const investigationColumns = `id, wallet_address, COALESCE(summary, ''), COALESCE(findings, ''), linked_report_id, created_at`

// InvestigationRepository persists investigations
type InvestigationRepository struct {
	db *PostgresDB
}

// NewInvestigationRepository creates a new investigation repository
func NewInvestigationRepository(db *PostgresDB) *InvestigationRepository {
	return &InvestigationRepository{db: db}
}

// Create inserts an investigation. LinkedReportID is stored as given;
// it is not checked against fraud_reports.
func (r *InvestigationRepository) Create(ctx context.Context, inv *models.Investigation) error {
	query := `
		INSERT INTO investigations (wallet_address, summary, findings, linked_report_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.db.WithTx(ctx, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, query,
			inv.WalletAddress,
			inv.Summary,
			inv.Findings,
			inv.LinkedReportID,
		).Scan(&inv.ID, &inv.CreatedAt)
	})
	if err != nil {
		return fmt.Errorf("failed to create investigation: %w", translateError(err))
	}

	return nil
}

// GetByID retrieves an investigation by id
func (r *InvestigationRepository) GetByID(ctx context.Context, id int64) (*models.Investigation, error) {
	query := `SELECT ` + investigationColumns + ` FROM investigations WHERE id = $1`

	var inv *models.Investigation
	err := r.db.WithTx(ctx, func(tx pgx.Tx) error {
		var err error
		inv, err = scanInvestigation(tx.QueryRow(ctx, query, id))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get investigation %d: %w", id, translateError(err))
	}

	return inv, nil
}

// ListByReport returns the investigations linked to a report id, newest first
func (r *InvestigationRepository) ListByReport(ctx context.Context, reportID int64) ([]*models.Investigation, error) {
	query := `SELECT ` + investigationColumns + `
		FROM investigations
		WHERE linked_report_id = $1
		ORDER BY created_at DESC, id DESC`

	investigations := make([]*models.Investigation, 0)
	err := r.db.WithTx(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, query, reportID)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			inv, err := scanInvestigation(rows)
			if err != nil {
				return err
			}
			investigations = append(investigations, inv)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list investigations for report %d: %w", reportID, translateError(err))
	}

	return investigations, nil
}

func scanInvestigation(row pgx.Row) (*models.Investigation, error) {
	inv := &models.Investigation{}
	err := row.Scan(
		&inv.ID,
		&inv.WalletAddress,
		&inv.Summary,
		&inv.Findings,
		&inv.LinkedReportID,
		&inv.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return inv, nil
}
