package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ricerca-labs/biblioteca_backend/internal/apperrors"
	"github.com/ricerca-labs/biblioteca_backend/internal/authz"
	"github.com/ricerca-labs/biblioteca_backend/internal/core/domain"
	portsrepo "github.com/ricerca-labs/biblioteca_backend/internal/core/ports/repositories"
	portssvc "github.com/ricerca-labs/biblioteca_backend/internal/core/ports/services"
	"github.com/ricerca-labs/biblioteca_backend/internal/dto"
	"github.com/ricerca-labs/biblioteca_backend/internal/middleware"
)

type loanService struct {
	loanRepo       portsrepo.LoanRepositoryFacade
	loanPeriodDays int
}

// NewLoanService creates the loan service. loanPeriodDays is the default
// checkout period applied when the borrower does not pick a due date.
func NewLoanService(loanRepo portsrepo.LoanRepositoryFacade, loanPeriodDays int) portssvc.LoanSvcFacade {
	return &loanService{loanRepo: loanRepo, loanPeriodDays: loanPeriodDays}
}

var _ portssvc.LoanSvcFacade = (*loanService)(nil)

func (s *loanService) GetLoanByID(ctx context.Context, loanID string, actorID string, actorRole domain.UserRole) (*domain.Loan, error) {
	loan, err := s.loanRepo.FindLoanByID(ctx, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to get loan by ID: %w", err)
	}
	if err := authz.Authorize(actorRole, authz.LoansRead, actorID, loan.BorrowerID); err != nil {
		return nil, err
	}
	return loan, nil
}

// ListLoans returns every loan for admins and only the actor's own loans for
// borrowers, scoped at the query level rather than filtered afterwards.
func (s *loanService) ListLoans(ctx context.Context, params dto.ListLoansParams, actorID string, actorRole domain.UserRole) ([]domain.Loan, error) {
	if !authz.Allows(actorRole, authz.LoansRead) {
		return nil, fmt.Errorf("%w: role %s may not list loans", apperrors.ErrForbidden, actorRole)
	}

	borrowerID := ""
	if authz.OwnerScoped(actorRole, authz.LoansRead) {
		borrowerID = actorID
	}

	loans, err := s.loanRepo.FindLoans(ctx, borrowerID, params.Limit, params.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list loans: %w", err)
	}
	return loans, nil
}

// CreateLoan checks a book out for the acting borrower. A due date in the
// past is rejected; an absent one defaults to the configured loan period.
func (s *loanService) CreateLoan(ctx context.Context, req dto.CreateLoanRequest, actorID string, actorRole domain.UserRole) (*domain.Loan, error) {
	if err := authz.Authorize(actorRole, authz.LoansCreate, actorID, actorID); err != nil {
		return nil, err
	}

	now := time.Now()
	dueDate := now.AddDate(0, 0, s.loanPeriodDays)
	if req.DueDate != nil {
		if req.DueDate.Before(now) {
			return nil, fmt.Errorf("due date must be in the future: %w", apperrors.ErrValidation)
		}
		dueDate = *req.DueDate
	}

	loan := domain.Loan{
		LoanID:      uuid.NewString(),
		BookID:      req.BookID,
		BorrowerID:  actorID,
		LoanDate:    now,
		DueDate:     dueDate,
		Returned:    false,
		AuditFields: domain.NewAuditFields(actorID, now),
	}

	if err := s.loanRepo.CreateLoan(ctx, loan); err != nil {
		return nil, fmt.Errorf("failed to create loan: %w", err)
	}

	middleware.GetLoggerFromCtx(ctx).InfoContext(ctx, "loan created",
		slog.String("loan_id", loan.LoanID), slog.String("book_id", loan.BookID))
	return &loan, nil
}

func (s *loanService) ReturnLoan(ctx context.Context, loanID string, actorID string, actorRole domain.UserRole) (*domain.Loan, error) {
	loan, err := s.loanRepo.FindLoanByID(ctx, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to find loan for return: %w", err)
	}
	if err := authz.Authorize(actorRole, authz.LoansReturn, actorID, loan.BorrowerID); err != nil {
		return nil, err
	}

	returned, err := s.loanRepo.MarkLoanReturned(ctx, loanID, actorID, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to return loan: %w", err)
	}

	middleware.GetLoggerFromCtx(ctx).InfoContext(ctx, "loan returned", slog.String("loan_id", loanID))
	return returned, nil
}

func (s *loanService) DeleteLoan(ctx context.Context, loanID string, actorID string, actorRole domain.UserRole) error {
	loan, err := s.loanRepo.FindLoanByID(ctx, loanID)
	if err != nil {
		return fmt.Errorf("failed to find loan for deletion: %w", err)
	}
	if err := authz.Authorize(actorRole, authz.LoansDelete, actorID, loan.BorrowerID); err != nil {
		return err
	}

	if err := s.loanRepo.DeleteLoan(ctx, loanID); err != nil {
		return fmt.Errorf("failed to delete loan: %w", err)
	}

	middleware.GetLoggerFromCtx(ctx).InfoContext(ctx, "loan deleted", slog.String("loan_id", loanID))
	return nil
}
