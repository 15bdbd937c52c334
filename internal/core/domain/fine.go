package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Fine is a monetary penalty attached to a single loan. A loan carries at
// most one fine; paying it is a one-way transition.
type Fine struct {
	FineID   string          `json:"fineID"`
	LoanID   string          `json:"loanID"`
	Amount   decimal.Decimal `json:"amount"`
	Paid     bool            `json:"paid"`
	FineDate time.Time       `json:"fineDate"`
	AuditFields

	// Populated by joined list queries.
	BorrowerID   string `json:"borrowerID,omitempty"`
	BorrowerName string `json:"borrowerName,omitempty"`
	BookTitle    string `json:"bookTitle,omitempty"`
}
