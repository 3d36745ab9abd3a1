package storage

import (
	"context"
	"fmt"
)

// schemaStatements create the two tables when absent. This is a bootstrap,
// not a migration system: existing tables are never altered.
//
// investigations.linked_report_id deliberately has no foreign key so that
// investigations can reference reports the store does not know about.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS fraud_reports (
		id            BIGSERIAL PRIMARY KEY,
		reporter_name VARCHAR(120),
		wallets       TEXT NOT NULL,
		fraud_type    VARCHAR(80) NOT NULL,
		description   TEXT,
		attachment    VARCHAR(512),
		status        VARCHAR(40) NOT NULL DEFAULT 'Pending',
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_fraud_reports_created_at ON fraud_reports (created_at DESC, id DESC)`,
	`CREATE TABLE IF NOT EXISTS investigations (
		id               BIGSERIAL PRIMARY KEY,
		wallet_address   VARCHAR(128) NOT NULL,
		summary          TEXT,
		findings         TEXT,
		linked_report_id BIGINT,
		created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_investigations_linked_report ON investigations (linked_report_id)`,
}

// EnsureSchema creates the fraud_reports and investigations tables if they do not exist
func (db *PostgresDB) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}
	return nil
}
