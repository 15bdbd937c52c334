package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ricerca-labs/biblioteca_backend/internal/apperrors"
	"github.com/ricerca-labs/biblioteca_backend/internal/authz"
	"github.com/ricerca-labs/biblioteca_backend/internal/core/domain"
	portsrepo "github.com/ricerca-labs/biblioteca_backend/internal/core/ports/repositories"
	portssvc "github.com/ricerca-labs/biblioteca_backend/internal/core/ports/services"
	"github.com/ricerca-labs/biblioteca_backend/internal/dto"
	"github.com/ricerca-labs/biblioteca_backend/internal/middleware"
)

type fineService struct {
	fineRepo       portsrepo.FineRepositoryFacade
	loanRepo       portsrepo.LoanRepositoryFacade
	finePerDayRate int64
}

// NewFineService creates the fine service. finePerDayRate is the default
// charge per day of delay used by the overdue sweep.
func NewFineService(fineRepo portsrepo.FineRepositoryFacade, loanRepo portsrepo.LoanRepositoryFacade, finePerDayRate int64) portssvc.FineSvcFacade {
	return &fineService{fineRepo: fineRepo, loanRepo: loanRepo, finePerDayRate: finePerDayRate}
}

var _ portssvc.FineSvcFacade = (*fineService)(nil)

func (s *fineService) GetFineByID(ctx context.Context, fineID string, actorID string, actorRole domain.UserRole) (*domain.Fine, error) {
	fine, err := s.fineRepo.FindFineByID(ctx, fineID)
	if err != nil {
		return nil, fmt.Errorf("failed to get fine by ID: %w", err)
	}
	if err := authz.Authorize(actorRole, authz.FinesRead, actorID, fine.BorrowerID); err != nil {
		return nil, err
	}
	return fine, nil
}

func (s *fineService) ListFines(ctx context.Context, limit, offset int, actorID string, actorRole domain.UserRole) ([]domain.Fine, error) {
	if !authz.Allows(actorRole, authz.FinesRead) {
		return nil, fmt.Errorf("%w: role %s may not list fines", apperrors.ErrForbidden, actorRole)
	}

	borrowerID := ""
	if authz.OwnerScoped(actorRole, authz.FinesRead) {
		borrowerID = actorID
	}

	fines, err := s.fineRepo.FindFines(ctx, borrowerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list fines: %w", err)
	}
	return fines, nil
}

// CreateFine records a manual fine against a loan. The unique constraint on
// loan_id rejects a second fine for the same loan.
func (s *fineService) CreateFine(ctx context.Context, req dto.CreateFineRequest, actorID string, actorRole domain.UserRole) (*domain.Fine, error) {
	if err := authz.Authorize(actorRole, authz.FinesManage, actorID, ""); err != nil {
		return nil, err
	}
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("fine amount must be positive: %w", apperrors.ErrValidation)
	}

	if _, err := s.loanRepo.FindLoanByID(ctx, req.LoanID); err != nil {
		return nil, fmt.Errorf("failed to find loan for fine: %w", err)
	}

	now := time.Now()
	fine := domain.Fine{
		FineID:      uuid.NewString(),
		LoanID:      req.LoanID,
		Amount:      req.Amount,
		Paid:        false,
		FineDate:    now,
		AuditFields: domain.NewAuditFields(actorID, now),
	}

	if err := s.fineRepo.SaveFine(ctx, fine); err != nil {
		return nil, fmt.Errorf("failed to create fine: %w", err)
	}

	middleware.GetLoggerFromCtx(ctx).InfoContext(ctx, "fine created",
		slog.String("fine_id", fine.FineID), slog.String("loan_id", fine.LoanID))
	return &fine, nil
}

func (s *fineService) PayFine(ctx context.Context, fineID string, actorID string, actorRole domain.UserRole) (*domain.Fine, error) {
	if err := authz.Authorize(actorRole, authz.FinesManage, actorID, ""); err != nil {
		return nil, err
	}

	fine, err := s.fineRepo.MarkFinePaid(ctx, fineID, actorID, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to pay fine: %w", err)
	}

	middleware.GetLoggerFromCtx(ctx).InfoContext(ctx, "fine paid", slog.String("fine_id", fineID))
	return fine, nil
}

// SweepOverdueFines fines every overdue unreturned loan that has none yet.
// The amount is whole days late times the per-day rate, with any started day
// counting as one. Loans fined earlier are skipped, so the sweep can run on a
// schedule without double-charging anyone.
func (s *fineService) SweepOverdueFines(ctx context.Context, req dto.SweepFinesRequest, actorID string, actorRole domain.UserRole) ([]domain.Fine, error) {
	if err := authz.Authorize(actorRole, authz.FinesManage, actorID, ""); err != nil {
		return nil, err
	}

	rate := s.finePerDayRate
	if req.PerDayRate != nil {
		if *req.PerDayRate <= 0 {
			return nil, fmt.Errorf("per-day rate must be positive: %w", apperrors.ErrValidation)
		}
		rate = *req.PerDayRate
	}

	now := time.Now()
	overdue, err := s.loanRepo.FindOverdueLoansWithoutFine(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("failed to find overdue loans: %w", err)
	}

	fines := make([]domain.Fine, 0, len(overdue))
	for _, loan := range overdue {
		daysLate := int64(now.Sub(loan.DueDate).Hours() / 24)
		if daysLate < 1 {
			daysLate = 1
		}
		fines = append(fines, domain.Fine{
			FineID:      uuid.NewString(),
			LoanID:      loan.LoanID,
			Amount:      decimal.NewFromInt(daysLate * rate),
			Paid:        false,
			FineDate:    now,
			AuditFields: domain.NewAuditFields(actorID, now),
		})
	}

	inserted, err := s.fineRepo.SaveFinesIdempotent(ctx, fines)
	if err != nil {
		return nil, fmt.Errorf("failed to save swept fines: %w", err)
	}

	middleware.GetLoggerFromCtx(ctx).InfoContext(ctx, "fine sweep completed",
		slog.Int("overdue_loans", len(overdue)), slog.Int("fines_created", len(inserted)))
	return inserted, nil
}

func (s *fineService) DeleteFine(ctx context.Context, fineID string, actorID string, actorRole domain.UserRole) error {
	if err := authz.Authorize(actorRole, authz.FinesManage, actorID, ""); err != nil {
		return err
	}

	if err := s.fineRepo.DeleteFine(ctx, fineID); err != nil {
		return fmt.Errorf("failed to delete fine: %w", err)
	}

	middleware.GetLoggerFromCtx(ctx).InfoContext(ctx, "fine deleted", slog.String("fine_id", fineID))
	return nil
}
