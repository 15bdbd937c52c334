package repositories

import (
	"context"
	"time"

	"github.com/ricerca-labs/biblioteca_backend/internal/core/domain"
)

// FineReader defines read operations for fine data
type FineReader interface {
	// FindFineByID retrieves a specific fine with borrower context joined in.
	FindFineByID(ctx context.Context, fineID string) (*domain.Fine, error)

	// FindFines retrieves fines joined with loan, book and borrower data in a
	// single query. An empty borrowerID returns all fines.
	FindFines(ctx context.Context, borrowerID string, limit int, offset int) ([]domain.Fine, error)
}

// FineWriter defines write operations for fine data
type FineWriter interface {
	// SaveFine persists a manually created fine. A second fine for the same
	// loan violates the unique constraint and surfaces as a duplicate error.
	SaveFine(ctx context.Context, fine domain.Fine) error

	// SaveFinesIdempotent inserts the given fines in one transaction, skipping
	// loans that already carry a fine. It returns the fines actually inserted.
	SaveFinesIdempotent(ctx context.Context, fines []domain.Fine) ([]domain.Fine, error)

	// MarkFinePaid flips paid to true exactly once; a second call is a conflict.
	MarkFinePaid(ctx context.Context, fineID string, updaterUserID string, now time.Time) (*domain.Fine, error)

	// DeleteFine removes a fine.
	DeleteFine(ctx context.Context, fineID string) error
}

// FineRepositoryFacade combines all fine-related repository interfaces
type FineRepositoryFacade interface {
	FineReader
	FineWriter
}
