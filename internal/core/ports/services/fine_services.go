package services

import (
	"context"

	"github.com/ricerca-labs/biblioteca_backend/internal/core/domain"
	"github.com/ricerca-labs/biblioteca_backend/internal/dto"
)

// FineSvcFacade defines all fine operations. Creation, payment, deletion and
// the overdue sweep are admin-only; reads are ownership-scoped for borrowers.
type FineSvcFacade interface {
	// GetFineByID retrieves a fine the actor may see.
	GetFineByID(ctx context.Context, fineID string, actorID string, actorRole domain.UserRole) (*domain.Fine, error)

	// ListFines lists fines: all for admins, own for borrowers.
	ListFines(ctx context.Context, limit, offset int, actorID string, actorRole domain.UserRole) ([]domain.Fine, error)

	// CreateFine records a manual fine against a loan.
	CreateFine(ctx context.Context, req dto.CreateFineRequest, actorID string, actorRole domain.UserRole) (*domain.Fine, error)

	// PayFine marks a fine paid exactly once.
	PayFine(ctx context.Context, fineID string, actorID string, actorRole domain.UserRole) (*domain.Fine, error)

	// SweepOverdueFines creates one fine per overdue unreturned loan that has
	// none yet. Running it twice creates nothing new.
	SweepOverdueFines(ctx context.Context, req dto.SweepFinesRequest, actorID string, actorRole domain.UserRole) ([]domain.Fine, error)

	// DeleteFine removes a fine.
	DeleteFine(ctx context.Context, fineID string, actorID string, actorRole domain.UserRole) error
}
