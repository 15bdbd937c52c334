package repositories

import (
	"context"
	"time"

	"github.com/ricerca-labs/biblioteca_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// MaestroReader defines read operations for ledger accounts
type MaestroReader interface {
	// FindMaestroByID retrieves a specific ledger account.
	FindMaestroByID(ctx context.Context, maestroID string) (*domain.Maestro, error)

	// FindMaestros retrieves a paginated list of ledger accounts.
	FindMaestros(ctx context.Context, limit int, offset int) ([]domain.Maestro, error)

	// FindDailyNetAmounts returns, per UTC calendar day since the given date,
	// the net signed movement amount for the account, most recent day last.
	FindDailyNetAmounts(ctx context.Context, maestroID string, since time.Time) (map[string]decimal.Decimal, error)
}

// MaestroWriter defines write operations for ledger accounts
type MaestroWriter interface {
	// SaveMaestro persists a new ledger account. Duplicate names surface as a
	// duplicate error via the unique constraint.
	SaveMaestro(ctx context.Context, maestro domain.Maestro) error

	// UpdateMaestro renames a ledger account.
	UpdateMaestro(ctx context.Context, maestro domain.Maestro) error

	// DeleteMaestro removes a ledger account. Accounts with movements are
	// protected by a foreign key and surface as a conflict.
	DeleteMaestro(ctx context.Context, maestroID string) error
}

// MovementReader defines read operations for movements
type MovementReader interface {
	// FindMovementByID retrieves a specific movement.
	FindMovementByID(ctx context.Context, movementID string) (*domain.Movement, error)

	// FindMovements lists movements newest first, optionally filtered by account.
	FindMovements(ctx context.Context, maestroID string, limit int, offset int) ([]domain.Movement, error)
}

// MovementWriter defines the transactional write operations for movements.
// Each method locks the maestro row and applies (or reverses) the signed
// amount in the same transaction as the movement row write.
type MovementWriter interface {
	// SaveMovement inserts the movement and applies its signed amount to the
	// account balance. A SALIDA larger than the balance is a conflict and
	// leaves the balance untouched.
	SaveMovement(ctx context.Context, movement domain.Movement) error

	// DeleteMovement removes the movement and reverses its signed amount. A
	// reversal that would drive the balance negative is a conflict.
	DeleteMovement(ctx context.Context, movementID string) error
}

// MaestroRepositoryFacade combines ledger account and movement repository interfaces
type MaestroRepositoryFacade interface {
	MaestroReader
	MaestroWriter
	MovementReader
	MovementWriter
}
