package models

import "time"

// Loan represents a row of the loans table.
type Loan struct {
	LoanID     string    `db:"loan_id"`
	BookID     string    `db:"book_id"`
	BorrowerID string    `db:"borrower_id"`
	LoanDate   time.Time `db:"loan_date"`
	DueDate    time.Time `db:"due_date"`
	Returned   bool      `db:"returned"`
	AuditFields
}
