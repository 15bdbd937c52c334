package domain

import "time"

// Loan is a book checkout record. A loan holds exactly one copy of a book
// until it is marked returned or the record is deleted.
type Loan struct {
	LoanID     string    `json:"loanID"`
	BookID     string    `json:"bookID"`
	BorrowerID string    `json:"borrowerID"`
	LoanDate   time.Time `json:"loanDate"`
	DueDate    time.Time `json:"dueDate"`
	Returned   bool      `json:"returned"`
	AuditFields

	// Denormalized display fields populated by joined list queries.
	BookTitle    string `json:"bookTitle,omitempty"`
	BorrowerName string `json:"borrowerName,omitempty"`
}

// IsOverdue reports whether the loan is unreturned and past its due date.
func (l Loan) IsOverdue(asOf time.Time) bool {
	return !l.Returned && l.DueDate.Before(asOf)
}
