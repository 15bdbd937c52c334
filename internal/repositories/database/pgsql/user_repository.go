package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ricerca-labs/biblioteca_backend/internal/apperrors"
	"github.com/ricerca-labs/biblioteca_backend/internal/core/domain"
	portsrepo "github.com/ricerca-labs/biblioteca_backend/internal/core/ports/repositories"
	"github.com/ricerca-labs/biblioteca_backend/internal/models"
	"github.com/ricerca-labs/biblioteca_backend/internal/utils/mapping"
)

// PgxUserRepository persists users in Postgres.
type PgxUserRepository struct {
	BaseRepository
}

func newPgxUserRepository(pool *pgxpool.Pool) portsrepo.UserRepositoryFacade {
	return &PgxUserRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.UserRepositoryFacade = (*PgxUserRepository)(nil)

const userColumns = `user_id, email, name, role, avatar_url, password_hash,
	auth_provider, provider_user_id, refresh_token_hash, refresh_token_expiry_time,
	created_at, created_by, last_updated_at, last_updated_by, deleted_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var m models.User
	err := row.Scan(
		&m.UserID,
		&m.Email,
		&m.Name,
		&m.Role,
		&m.AvatarURL,
		&m.PasswordHash,
		&m.AuthProvider,
		&m.ProviderUserID,
		&m.RefreshTokenHash,
		&m.RefreshTokenExpiryTime,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
		&m.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PgxUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	m := mapping.ToModelUser(user)
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.UserID, m.Email, m.Name, m.Role, m.AvatarURL, m.PasswordHash,
		m.AuthProvider, m.ProviderUserID, m.RefreshTokenHash, m.RefreshTokenExpiryTime,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy, m.DeletedAt,
	)
	if err != nil {
		if translated := translateConstraintError(err, "user email"); translated != nil {
			return translated
		}
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1 AND deleted_at IS NULL;`
	m, err := scanUser(r.Pool.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", userID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}
	user := mapping.ToDomainUser(*m)
	return &user, nil
}

func (r *PgxUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 AND deleted_at IS NULL;`
	m, err := scanUser(r.Pool.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user with email %s: %w", email, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	user := mapping.ToDomainUser(*m)
	return &user, nil
}

func (r *PgxUserRepository) FindUserByProviderDetails(ctx context.Context, authProvider string, providerUserID string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE auth_provider = $1 AND provider_user_id = $2 AND deleted_at IS NULL;`
	m, err := scanUser(r.Pool.QueryRow(ctx, query, authProvider, providerUserID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user for %s identity: %w", authProvider, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find user by provider details: %w", err)
	}
	user := mapping.ToDomainUser(*m)
	return &user, nil
}

func (r *PgxUserRepository) FindUsers(ctx context.Context, limit int, offset int) ([]domain.User, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE deleted_at IS NULL
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2;
	`
	rows, err := r.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		m, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, *m)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", rows.Err())
	}

	return mapping.ToDomainUserSlice(users), nil
}

func (r *PgxUserRepository) CountUsersByRole(ctx context.Context) (map[domain.UserRole]int, error) {
	query := `SELECT role, COUNT(*) FROM users WHERE deleted_at IS NULL GROUP BY role;`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to count users by role: %w", err)
	}
	defer rows.Close()

	counts := map[domain.UserRole]int{}
	for rows.Next() {
		var role string
		var count int
		if err := rows.Scan(&role, &count); err != nil {
			return nil, fmt.Errorf("failed to scan role count row: %w", err)
		}
		counts[domain.UserRole(role)] = count
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating role count rows: %w", rows.Err())
	}
	return counts, nil
}

func (r *PgxUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	m := mapping.ToModelUser(user)
	query := `
		UPDATE users
		SET name = $2, avatar_url = $3, last_updated_at = $4, last_updated_by = $5
		WHERE user_id = $1 AND deleted_at IS NULL;
	`
	tag, err := r.Pool.Exec(ctx, query, m.UserID, m.Name, m.AvatarURL, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", user.UserID, apperrors.ErrNotFound)
	}
	return nil
}

// UpdateUserRole changes a user's role inside a transaction that keeps the
// last-admin invariant: all admin rows are locked first so concurrent
// demotions cannot both pass the count check.
func (r *PgxUserRepository) UpdateUserRole(ctx context.Context, userID string, role domain.UserRole, updaterUserID string, now time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	var currentRole string
	err = tx.QueryRow(ctx, `SELECT role FROM users WHERE user_id = $1 AND deleted_at IS NULL FOR UPDATE;`, userID).Scan(&currentRole)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("user %s: %w", userID, apperrors.ErrNotFound)
		}
		return fmt.Errorf("failed to lock user row: %w", err)
	}

	if domain.UserRole(currentRole) == domain.RoleAdmin && role != domain.RoleAdmin {
		remaining, err := lockAndCountAdmins(ctx, tx, userID)
		if err != nil {
			return err
		}
		if remaining == 0 {
			return fmt.Errorf("cannot demote the last remaining admin: %w", apperrors.ErrConflict)
		}
	}

	_, err = tx.Exec(ctx, `
		UPDATE users SET role = $2, last_updated_at = $3, last_updated_by = $4
		WHERE user_id = $1;
	`, userID, string(role), now, updaterUserID)
	if err != nil {
		return fmt.Errorf("failed to update user role: %w", err)
	}

	return r.Commit(ctx, tx)
}

// MarkUserDeleted soft-deletes a user with the same last-admin protection as
// role changes.
func (r *PgxUserRepository) MarkUserDeleted(ctx context.Context, userID string, deletedAt time.Time, deleterUserID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	var role string
	err = tx.QueryRow(ctx, `SELECT role FROM users WHERE user_id = $1 AND deleted_at IS NULL FOR UPDATE;`, userID).Scan(&role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("user %s: %w", userID, apperrors.ErrNotFound)
		}
		return fmt.Errorf("failed to lock user row: %w", err)
	}

	if domain.UserRole(role) == domain.RoleAdmin {
		remaining, err := lockAndCountAdmins(ctx, tx, userID)
		if err != nil {
			return err
		}
		if remaining == 0 {
			return fmt.Errorf("cannot delete the last remaining admin: %w", apperrors.ErrConflict)
		}
	}

	_, err = tx.Exec(ctx, `
		UPDATE users SET deleted_at = $2, last_updated_at = $2, last_updated_by = $3
		WHERE user_id = $1;
	`, userID, deletedAt, deleterUserID)
	if err != nil {
		return fmt.Errorf("failed to mark user deleted: %w", err)
	}

	return r.Commit(ctx, tx)
}

// lockAndCountAdmins locks every other non-deleted admin row and returns how
// many there are. Locking makes concurrent last-admin checks serialize.
func lockAndCountAdmins(ctx context.Context, tx pgx.Tx, excludingUserID string) (int, error) {
	rows, err := tx.Query(ctx, `
		SELECT user_id FROM users
		WHERE role = 'ADMIN' AND deleted_at IS NULL AND user_id <> $1
		FOR UPDATE;
	`, excludingUserID)
	if err != nil {
		return 0, fmt.Errorf("failed to lock admin rows: %w", err)
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return 0, fmt.Errorf("failed to scan admin row: %w", err)
		}
		count++
	}
	if rows.Err() != nil {
		return 0, fmt.Errorf("error iterating admin rows: %w", rows.Err())
	}
	return count, nil
}

func (r *PgxUserRepository) UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, refreshTokenExpiryTime time.Time) error {
	query := `
		UPDATE users SET refresh_token_hash = $2, refresh_token_expiry_time = $3
		WHERE user_id = $1 AND deleted_at IS NULL;
	`
	tag, err := r.Pool.Exec(ctx, query, userID, refreshTokenHash, refreshTokenExpiryTime)
	if err != nil {
		return fmt.Errorf("failed to update refresh token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", userID, apperrors.ErrNotFound)
	}
	return nil
}

func (r *PgxUserRepository) ClearRefreshToken(ctx context.Context, userID string) error {
	query := `
		UPDATE users SET refresh_token_hash = NULL, refresh_token_expiry_time = NULL
		WHERE user_id = $1 AND deleted_at IS NULL;
	`
	if _, err := r.Pool.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to clear refresh token: %w", err)
	}
	return nil
}
