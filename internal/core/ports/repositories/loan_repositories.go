package repositories

import (
	"context"
	"time"

	"github.com/ricerca-labs/biblioteca_backend/internal/core/domain"
)

// LoanReader defines read operations for loan data
type LoanReader interface {
	// FindLoanByID retrieves a specific loan.
	FindLoanByID(ctx context.Context, loanID string) (*domain.Loan, error)

	// FindLoans retrieves loans joined with book title and borrower name in a
	// single query. An empty borrowerID returns all loans.
	FindLoans(ctx context.Context, borrowerID string, limit int, offset int) ([]domain.Loan, error)

	// FindOverdueLoansWithoutFine returns unreturned loans past their due date
	// that have no fine yet, joined in one query.
	FindOverdueLoansWithoutFine(ctx context.Context, asOf time.Time) ([]domain.Loan, error)
}

// LoanWriter defines the transactional write operations for loans. Each method
// pairs the loan write with its book availability adjustment inside one
// database transaction with the book row locked.
type LoanWriter interface {
	// CreateLoan inserts the loan and decrements the book's available copies.
	// Returns a conflict error when no copies are available.
	CreateLoan(ctx context.Context, loan domain.Loan) error

	// MarkLoanReturned flips returned to true and increments the book's
	// available copies. Returns a conflict error when already returned.
	MarkLoanReturned(ctx context.Context, loanID string, updaterUserID string, now time.Time) (*domain.Loan, error)

	// DeleteLoan removes the loan, restoring the book's availability first
	// when the loan was never returned.
	DeleteLoan(ctx context.Context, loanID string) error
}

// LoanRepositoryFacade combines all loan-related repository interfaces
type LoanRepositoryFacade interface {
	LoanReader
	LoanWriter
}
