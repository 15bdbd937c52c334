package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Fine represents a row of the fines table.
// loan_id carries a UNIQUE constraint so the automatic sweep stays idempotent.
type Fine struct {
	FineID   string          `db:"fine_id"`
	LoanID   string          `db:"loan_id"`
	Amount   decimal.Decimal `db:"amount"`
	Paid     bool            `db:"paid"`
	FineDate time.Time       `db:"fine_date"`
	AuditFields
}
