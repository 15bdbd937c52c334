package services

import (
	"context"
	"errors"
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
	"github.com/ricerca-labs/biblioteca_backend/internal/utils"
)

type userService struct {
	userRepo portsrepo.UserRepositoryFacade
}

// NewUserService creates the user service backed by the given repository.
func NewUserService(userRepo portsrepo.UserRepositoryFacade) portssvc.UserSvcFacade {
	return &userService{userRepo: userRepo}
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

// RegisterUser creates a password-backed account. Everyone self-registers as
// a borrower; roles are only changed afterwards by an admin.
func (s *userService) RegisterUser(ctx context.Context, req dto.RegisterRequest) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	newUserID := uuid.NewString()
	user := domain.User{
		UserID:       newUserID,
		Email:        req.Email,
		Name:         req.Name,
		Role:         domain.RoleUser,
		PasswordHash: passwordHash,
		AuditFields:  domain.NewAuditFields(newUserID, now),
	}

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("email %s already registered: %w", req.Email, apperrors.ErrDuplicate)
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	logger.InfoContext(ctx, "user registered", slog.String("user_id", user.UserID))
	return &user, nil
}

// FindOrCreateOAuthUser resolves an OAuth identity to a local account. A new
// identity whose email matches an existing password account links to it
// rather than creating a duplicate.
func (s *userService) FindOrCreateOAuthUser(ctx context.Context, provider string, info domain.GoogleUserInfo) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	user, err := s.userRepo.FindUserByProviderDetails(ctx, provider, info.ID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up oauth user: %w", err)
	}

	existing, err := s.userRepo.FindUserByEmail(ctx, info.Email)
	if err == nil {
		existing.AuthProvider = provider
		existing.ProviderUserID = info.ID
		if existing.AvatarURL == "" {
			existing.AvatarURL = info.Picture
		}
		existing.LastUpdatedAt = time.Now()
		existing.LastUpdatedBy = existing.UserID
		if err := s.userRepo.UpdateUser(ctx, *existing); err != nil {
			return nil, fmt.Errorf("failed to link oauth identity: %w", err)
		}
		logger.InfoContext(ctx, "linked oauth identity to existing user", slog.String("user_id", existing.UserID))
		return existing, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up user by email: %w", err)
	}

	now := time.Now()
	newUserID := uuid.NewString()
	newUser := domain.User{
		UserID:         newUserID,
		Email:          info.Email,
		Name:           info.Name,
		Role:           domain.RoleUser,
		AvatarURL:      info.Picture,
		AuthProvider:   provider,
		ProviderUserID: info.ID,
		AuditFields:    domain.NewAuditFields(newUserID, now),
	}
	if err := s.userRepo.SaveUser(ctx, newUser); err != nil {
		return nil, fmt.Errorf("failed to create oauth user: %w", err)
	}

	logger.InfoContext(ctx, "oauth user created", slog.String("user_id", newUser.UserID))
	return &newUser, nil
}

// AuthenticateUser verifies email/password credentials. Both unknown email
// and wrong password collapse into the same unauthorized error.
func (s *userService) AuthenticateUser(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("invalid credentials: %w", apperrors.ErrUnauthorized)
		}
		return nil, fmt.Errorf("failed to authenticate user: %w", err)
	}

	if user.PasswordHash == "" || !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, fmt.Errorf("invalid credentials: %w", apperrors.ErrUnauthorized)
	}

	return user, nil
}

func (s *userService) GetUserByID(ctx context.Context, targetUserID string, actorID string, actorRole domain.UserRole) (*domain.User, error) {
	if err := authz.Authorize(actorRole, authz.UsersRead, actorID, targetUserID); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindUserByID(ctx, targetUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}
	return user, nil
}

func (s *userService) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context, actorRole domain.UserRole, limit, offset int) ([]domain.User, error) {
	if !authz.Allows(actorRole, authz.UsersManage) {
		return nil, fmt.Errorf("%w: only admins may list users", apperrors.ErrForbidden)
	}

	users, err := s.userRepo.FindUsers(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *userService) GetUserStats(ctx context.Context, actorRole domain.UserRole) (*dto.UserStatsResponse, error) {
	if !authz.Allows(actorRole, authz.UsersManage) {
		return nil, fmt.Errorf("%w: only admins may view user stats", apperrors.ErrForbidden)
	}

	counts, err := s.userRepo.CountUsersByRole(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	stats := &dto.UserStatsResponse{
		Admins: counts[domain.RoleAdmin],
		Users:  counts[domain.RoleUser],
	}
	stats.Total = stats.Admins + stats.Users
	return stats, nil
}

// UpdateUser lets a user edit their own profile and an admin edit anyone's.
func (s *userService) UpdateUser(ctx context.Context, targetUserID string, req dto.UpdateUserRequest, actorID string, actorRole domain.UserRole) (*domain.User, error) {
	if err := authz.Authorize(actorRole, authz.UsersRead, actorID, targetUserID); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindUserByID(ctx, targetUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user for update: %w", err)
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.AvatarURL != nil {
		user.AvatarURL = *req.AvatarURL
	}
	user.LastUpdatedAt = time.Now()
	user.LastUpdatedBy = actorID

	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// UpdateUserRole promotes or demotes a user. The repository refuses to demote
// the last remaining admin.
func (s *userService) UpdateUserRole(ctx context.Context, targetUserID string, role domain.UserRole, actorID string, actorRole domain.UserRole) (*domain.User, error) {
	if !authz.Allows(actorRole, authz.UsersManage) {
		return nil, fmt.Errorf("%w: only admins may change roles", apperrors.ErrForbidden)
	}
	if !role.IsValid() {
		return nil, fmt.Errorf("invalid role %q: %w", role, apperrors.ErrValidation)
	}

	if err := s.userRepo.UpdateUserRole(ctx, targetUserID, role, actorID, time.Now()); err != nil {
		return nil, fmt.Errorf("failed to update user role: %w", err)
	}

	user, err := s.userRepo.FindUserByID(ctx, targetUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload user after role change: %w", err)
	}

	middleware.GetLoggerFromCtx(ctx).InfoContext(ctx, "user role changed",
		slog.String("user_id", targetUserID), slog.String("role", string(role)))
	return user, nil
}

// DeleteUser soft-deletes a user. Admins cannot delete themselves, and the
// repository refuses to delete the last remaining admin.
func (s *userService) DeleteUser(ctx context.Context, targetUserID string, actorID string, actorRole domain.UserRole) error {
	if !authz.Allows(actorRole, authz.UsersManage) {
		return fmt.Errorf("%w: only admins may delete users", apperrors.ErrForbidden)
	}
	if targetUserID == actorID {
		return fmt.Errorf("admins cannot delete their own account: %w", apperrors.ErrConflict)
	}

	if err := s.userRepo.MarkUserDeleted(ctx, targetUserID, time.Now(), actorID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	middleware.GetLoggerFromCtx(ctx).InfoContext(ctx, "user deleted", slog.String("user_id", targetUserID))
	return nil
}

func (s *userService) UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, refreshTokenExpiryTime time.Time) error {
	if err := s.userRepo.UpdateRefreshToken(ctx, userID, refreshTokenHash, refreshTokenExpiryTime); err != nil {
		return fmt.Errorf("failed to store refresh token: %w", err)
	}
	return nil
}

func (s *userService) ClearRefreshToken(ctx context.Context, userID string) error {
	if err := s.userRepo.ClearRefreshToken(ctx, userID); err != nil {
		return fmt.Errorf("failed to clear refresh token: %w", err)
	}
	return nil
}
