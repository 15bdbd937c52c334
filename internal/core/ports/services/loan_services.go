package services

import (
	"context"

	"github.com/ricerca-labs/biblioteca_backend/internal/core/domain"
	"github.com/ricerca-labs/biblioteca_backend/internal/dto"
)

// LoanSvcFacade defines all loan operations. Ownership scoping follows the
// policy table: borrowers act on their own loans, admins on any.
type LoanSvcFacade interface {
	// GetLoanByID retrieves a loan the actor may see.
	GetLoanByID(ctx context.Context, loanID string, actorID string, actorRole domain.UserRole) (*domain.Loan, error)

	// ListLoans lists loans: all of them for admins, own for borrowers.
	ListLoans(ctx context.Context, params dto.ListLoansParams, actorID string, actorRole domain.UserRole) ([]domain.Loan, error)

	// CreateLoan checks a book out for the acting borrower, decrementing the
	// book's available copies atomically.
	CreateLoan(ctx context.Context, req dto.CreateLoanRequest, actorID string, actorRole domain.UserRole) (*domain.Loan, error)

	// ReturnLoan marks a loan returned exactly once, restoring availability.
	ReturnLoan(ctx context.Context, loanID string, actorID string, actorRole domain.UserRole) (*domain.Loan, error)

	// DeleteLoan removes a loan record, restoring availability when it was
	// never returned.
	DeleteLoan(ctx context.Context, loanID string, actorID string, actorRole domain.UserRole) error
}
