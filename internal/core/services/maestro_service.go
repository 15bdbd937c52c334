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

// maxDailyBalanceDays caps the daily balance report window at one year.
const maxDailyBalanceDays = 365

type maestroService struct {
	maestroRepo portsrepo.MaestroRepositoryFacade
}

// NewMaestroService creates the ledger service backed by the given repository.
func NewMaestroService(maestroRepo portsrepo.MaestroRepositoryFacade) portssvc.MaestroSvcFacade {
	return &maestroService{maestroRepo: maestroRepo}
}

var _ portssvc.MaestroSvcFacade = (*maestroService)(nil)

func (s *maestroService) GetMaestroByID(ctx context.Context, maestroID string) (*domain.Maestro, error) {
	maestro, err := s.maestroRepo.FindMaestroByID(ctx, maestroID)
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger account by ID: %w", err)
	}
	return maestro, nil
}

func (s *maestroService) ListMaestros(ctx context.Context, limit, offset int) ([]domain.Maestro, error) {
	maestros, err := s.maestroRepo.FindMaestros(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger accounts: %w", err)
	}
	return maestros, nil
}

func (s *maestroService) CreateMaestro(ctx context.Context, req dto.CreateMaestroRequest, actorID string, actorRole domain.UserRole) (*domain.Maestro, error) {
	if err := authz.Authorize(actorRole, authz.LedgerManage, actorID, ""); err != nil {
		return nil, err
	}

	balance := decimal.Zero
	if req.OpeningBalance != nil {
		if req.OpeningBalance.IsNegative() {
			return nil, fmt.Errorf("opening balance must not be negative: %w", apperrors.ErrValidation)
		}
		balance = *req.OpeningBalance
	}

	now := time.Now()
	maestro := domain.Maestro{
		MaestroID:   uuid.NewString(),
		Name:        req.Name,
		Balance:     balance,
		AuditFields: domain.NewAuditFields(actorID, now),
	}

	if err := s.maestroRepo.SaveMaestro(ctx, maestro); err != nil {
		return nil, fmt.Errorf("failed to create ledger account: %w", err)
	}

	middleware.GetLoggerFromCtx(ctx).InfoContext(ctx, "ledger account created",
		slog.String("maestro_id", maestro.MaestroID), slog.String("name", maestro.Name))
	return &maestro, nil
}

func (s *maestroService) UpdateMaestro(ctx context.Context, maestroID string, req dto.UpdateMaestroRequest, actorID string, actorRole domain.UserRole) (*domain.Maestro, error) {
	if err := authz.Authorize(actorRole, authz.LedgerManage, actorID, ""); err != nil {
		return nil, err
	}

	maestro, err := s.maestroRepo.FindMaestroByID(ctx, maestroID)
	if err != nil {
		return nil, fmt.Errorf("failed to find ledger account for update: %w", err)
	}

	if req.Name != nil {
		maestro.Name = *req.Name
	}
	maestro.LastUpdatedAt = time.Now()
	maestro.LastUpdatedBy = actorID

	if err := s.maestroRepo.UpdateMaestro(ctx, *maestro); err != nil {
		return nil, fmt.Errorf("failed to update ledger account: %w", err)
	}
	return maestro, nil
}

func (s *maestroService) DeleteMaestro(ctx context.Context, maestroID string, actorID string, actorRole domain.UserRole) error {
	if err := authz.Authorize(actorRole, authz.LedgerManage, actorID, ""); err != nil {
		return err
	}

	if err := s.maestroRepo.DeleteMaestro(ctx, maestroID); err != nil {
		return fmt.Errorf("failed to delete ledger account: %w", err)
	}

	middleware.GetLoggerFromCtx(ctx).InfoContext(ctx, "ledger account deleted", slog.String("maestro_id", maestroID))
	return nil
}

// GetDailyBalances reconstructs the account's day-end balance for each of the
// last N days by walking back from the current balance through the per-day
// net movement sums. Days without movements carry the previous balance.
func (s *maestroService) GetDailyBalances(ctx context.Context, maestroID string, days int) ([]domain.DailyBalance, error) {
	if days <= 0 {
		days = 30
	}
	if days > maxDailyBalanceDays {
		days = maxDailyBalanceDays
	}

	maestro, err := s.maestroRepo.FindMaestroByID(ctx, maestroID)
	if err != nil {
		return nil, fmt.Errorf("failed to find ledger account for daily balances: %w", err)
	}

	// Day buckets are UTC dates, matching how the repository groups movements.
	today := time.Now().UTC().Truncate(24 * time.Hour)
	since := today.AddDate(0, 0, -(days - 1))

	nets, err := s.maestroRepo.FindDailyNetAmounts(ctx, maestroID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to load daily net amounts: %w", err)
	}

	// Walk backwards: the balance at the end of day D is the balance at the
	// end of day D+1 minus the net movements of day D+1.
	balances := make([]domain.DailyBalance, days)
	running := maestro.Balance
	for i := days - 1; i >= 0; i-- {
		day := today.AddDate(0, 0, i-(days-1))
		balances[i] = domain.DailyBalance{Date: day, Balance: running}
		if net, ok := nets[day.Format("2006-01-02")]; ok {
			running = running.Sub(net)
		}
	}

	return balances, nil
}

func (s *maestroService) ListMovements(ctx context.Context, params dto.ListMovementsParams) ([]domain.Movement, error) {
	movements, err := s.maestroRepo.FindMovements(ctx, params.AccountID, params.Limit, params.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list movements: %w", err)
	}
	return movements, nil
}

func (s *maestroService) CreateMovement(ctx context.Context, req dto.CreateMovementRequest, actorID string, actorName string, actorRole domain.UserRole) (*domain.Movement, error) {
	if err := authz.Authorize(actorRole, authz.LedgerManage, actorID, ""); err != nil {
		return nil, err
	}

	kind := domain.MovementKind(req.Kind)
	if !kind.IsValid() {
		return nil, fmt.Errorf("invalid movement kind %q: %w", req.Kind, apperrors.ErrValidation)
	}
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("movement amount must be positive: %w", apperrors.ErrValidation)
	}

	now := time.Now()
	movement := domain.Movement{
		MovementID:  uuid.NewString(),
		MaestroID:   req.MaestroID,
		Kind:        kind,
		Amount:      req.Amount,
		Responsible: actorName,
		OccurredAt:  now,
		AuditFields: domain.NewAuditFields(actorID, now),
	}

	if err := s.maestroRepo.SaveMovement(ctx, movement); err != nil {
		return nil, fmt.Errorf("failed to create movement: %w", err)
	}

	middleware.GetLoggerFromCtx(ctx).InfoContext(ctx, "movement recorded",
		slog.String("movement_id", movement.MovementID),
		slog.String("maestro_id", movement.MaestroID),
		slog.String("kind", string(movement.Kind)))
	return &movement, nil
}

func (s *maestroService) DeleteMovement(ctx context.Context, movementID string, actorID string, actorRole domain.UserRole) error {
	if err := authz.Authorize(actorRole, authz.LedgerManage, actorID, ""); err != nil {
		return err
	}

	if err := s.maestroRepo.DeleteMovement(ctx, movementID); err != nil {
		return fmt.Errorf("failed to delete movement: %w", err)
	}

	middleware.GetLoggerFromCtx(ctx).InfoContext(ctx, "movement deleted", slog.String("movement_id", movementID))
	return nil
}
