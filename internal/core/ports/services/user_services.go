package services

import (
	"context"
	"time"

	"github.com/ricerca-labs/biblioteca_backend/internal/core/domain"
	"github.com/ricerca-labs/biblioteca_backend/internal/dto"
)

// UserReaderSvc defines read operations for user data
type UserReaderSvc interface {
	// GetUserByID retrieves a user by ID, enforcing the users:read policy.
	GetUserByID(ctx context.Context, targetUserID string, actorID string, actorRole domain.UserRole) (*domain.User, error)

	// GetUserByEmail retrieves a user by email (internal, used by auth).
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// ListUsers retrieves a paginated list of users (admin only).
	ListUsers(ctx context.Context, actorRole domain.UserRole, limit, offset int) ([]domain.User, error)

	// GetUserStats returns totals by role (admin only).
	GetUserStats(ctx context.Context, actorRole domain.UserRole) (*dto.UserStatsResponse, error)
}

// UserWriterSvc defines write operations for user data
type UserWriterSvc interface {
	// RegisterUser creates a new password-backed USER account.
	RegisterUser(ctx context.Context, req dto.RegisterRequest) (*domain.User, error)

	// FindOrCreateOAuthUser resolves an OAuth identity to a local user,
	// creating a USER account on first sign-in.
	FindOrCreateOAuthUser(ctx context.Context, provider string, info domain.GoogleUserInfo) (*domain.User, error)

	// UpdateUser updates profile fields (self or admin).
	UpdateUser(ctx context.Context, targetUserID string, req dto.UpdateUserRequest, actorID string, actorRole domain.UserRole) (*domain.User, error)

	// UpdateUserRole changes a user's role (admin only, last-admin protected).
	UpdateUserRole(ctx context.Context, targetUserID string, role domain.UserRole, actorID string, actorRole domain.UserRole) (*domain.User, error)

	// UpdateRefreshToken stores the refresh token hash and expiry for a user.
	UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, refreshTokenExpiryTime time.Time) error

	// ClearRefreshToken clears the stored refresh token for a user.
	ClearRefreshToken(ctx context.Context, userID string) error
}

// UserLifecycleSvc defines operations for managing user lifecycle
type UserLifecycleSvc interface {
	// DeleteUser soft-deletes a user (admin only; cannot delete self or the
	// last remaining admin).
	DeleteUser(ctx context.Context, targetUserID string, actorID string, actorRole domain.UserRole) error
}

// UserAuthSvc defines operations for user authentication
type UserAuthSvc interface {
	// AuthenticateUser authenticates a user with email and password.
	AuthenticateUser(ctx context.Context, email, password string) (*domain.User, error)
}

// UserSvcFacade combines all user-related service interfaces
type UserSvcFacade interface {
	UserReaderSvc
	UserWriterSvc
	UserLifecycleSvc
	UserAuthSvc
}
