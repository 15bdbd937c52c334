package services

import (
	"context"

	"github.com/ricerca-labs/biblioteca_backend/internal/core/domain"
	"github.com/ricerca-labs/biblioteca_backend/internal/dto"
)

// MaestroSvcFacade defines ledger account and movement operations.
// Writes are admin-only; all authenticated users may read.
type MaestroSvcFacade interface {
	// GetMaestroByID retrieves a ledger account.
	GetMaestroByID(ctx context.Context, maestroID string) (*domain.Maestro, error)

	// ListMaestros retrieves a paginated list of ledger accounts.
	ListMaestros(ctx context.Context, limit, offset int) ([]domain.Maestro, error)

	// CreateMaestro opens a new ledger account with an optional opening balance.
	CreateMaestro(ctx context.Context, req dto.CreateMaestroRequest, actorID string, actorRole domain.UserRole) (*domain.Maestro, error)

	// UpdateMaestro renames a ledger account.
	UpdateMaestro(ctx context.Context, maestroID string, req dto.UpdateMaestroRequest, actorID string, actorRole domain.UserRole) (*domain.Maestro, error)

	// DeleteMaestro removes a ledger account without movements.
	DeleteMaestro(ctx context.Context, maestroID string, actorID string, actorRole domain.UserRole) error

	// GetDailyBalances reports day-end balances for the last N days.
	GetDailyBalances(ctx context.Context, maestroID string, days int) ([]domain.DailyBalance, error)

	// ListMovements lists movements newest first, optionally per account.
	ListMovements(ctx context.Context, params dto.ListMovementsParams) ([]domain.Movement, error)

	// CreateMovement records a movement and applies it to the account balance
	// in one transaction.
	CreateMovement(ctx context.Context, req dto.CreateMovementRequest, actorID string, actorName string, actorRole domain.UserRole) (*domain.Movement, error)

	// DeleteMovement removes a movement and reverses its balance effect in one
	// transaction.
	DeleteMovement(ctx context.Context, movementID string, actorID string, actorRole domain.UserRole) error
}
