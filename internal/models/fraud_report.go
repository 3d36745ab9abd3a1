// Package models provides data models for the fraud desk service.
package models

import "time"

// Report status values. Status is free text; these are the values the service writes itself.
const (
	StatusPending = "Pending"
)

// DefaultFraudType is used when a report is submitted without a fraud_type
const DefaultFraudType = "unknown"

// FraudReport is a user-submitted report about one or more wallets.
// Status changes only through an explicit status update; reports are never deleted.
type FraudReport struct {
	ID           int64     `json:"id" db:"id"`
	ReporterName *string   `json:"reporter_name" db:"reporter_name"`
	Wallets      string    `json:"wallets" db:"wallets"`
	FraudType    string    `json:"fraud_type" db:"fraud_type"`
	Description  string    `json:"description" db:"description"`
	Attachment   *string   `json:"attachment" db:"attachment"` // path or URL, file itself is not stored
	Status       string    `json:"status" db:"status"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
