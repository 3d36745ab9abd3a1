package models

import "time"

// Investigation records notes about a wallet, optionally tied to a report.
// LinkedReportID is a plain reference: it is not required to resolve.
type Investigation struct {
	ID             int64     `json:"id" db:"id"`
	WalletAddress  string    `json:"wallet_address" db:"wallet_address"`
	Summary        string    `json:"summary" db:"summary"`
	Findings       string    `json:"findings" db:"findings"`
	LinkedReportID *int64    `json:"linked_report_id" db:"linked_report_id"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}
