package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/ricerca-labs/biblioteca_backend/internal/apperrors"
	"github.com/ricerca-labs/biblioteca_backend/internal/core/domain"
	portsrepo "github.com/ricerca-labs/biblioteca_backend/internal/core/ports/repositories"
	"github.com/ricerca-labs/biblioteca_backend/internal/models"
	"github.com/ricerca-labs/biblioteca_backend/internal/utils/mapping"
)

// PgxMaestroRepository persists ledger accounts and their movements. Balance
// updates lock the maestro row and run in the same transaction as the
// movement write, so the saldo column is always the sum of all movements.
type PgxMaestroRepository struct {
	BaseRepository
}

func newPgxMaestroRepository(pool *pgxpool.Pool) portsrepo.MaestroRepositoryFacade {
	return &PgxMaestroRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.MaestroRepositoryFacade = (*PgxMaestroRepository)(nil)

const maestroColumns = `maestro_id, name, saldo,
	created_at, created_by, last_updated_at, last_updated_by`

const movementColumns = `movement_id, maestro_id, kind, amount, responsible, occurred_at,
	created_at, created_by, last_updated_at, last_updated_by`

func scanMaestro(row pgx.Row) (*models.Maestro, error) {
	var m models.Maestro
	err := row.Scan(
		&m.MaestroID,
		&m.Name,
		&m.Balance,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func scanMovement(row pgx.Row) (*models.Movement, error) {
	var m models.Movement
	err := row.Scan(
		&m.MovementID,
		&m.MaestroID,
		&m.Kind,
		&m.Amount,
		&m.Responsible,
		&m.OccurredAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PgxMaestroRepository) SaveMaestro(ctx context.Context, maestro domain.Maestro) error {
	m := mapping.ToModelMaestro(maestro)
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO maestros (`+maestroColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`, m.MaestroID, m.Name, m.Balance,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		if translated := translateConstraintError(err, "ledger account"); translated != nil {
			return translated
		}
		return fmt.Errorf("failed to insert ledger account: %w", err)
	}
	return nil
}

func (r *PgxMaestroRepository) UpdateMaestro(ctx context.Context, maestro domain.Maestro) error {
	m := mapping.ToModelMaestro(maestro)
	tag, err := r.Pool.Exec(ctx, `
		UPDATE maestros SET name = $2, last_updated_at = $3, last_updated_by = $4
		WHERE maestro_id = $1;
	`, m.MaestroID, m.Name, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		if translated := translateConstraintError(err, "ledger account"); translated != nil {
			return translated
		}
		return fmt.Errorf("failed to update ledger account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("ledger account %s: %w", maestro.MaestroID, apperrors.ErrNotFound)
	}
	return nil
}

func (r *PgxMaestroRepository) DeleteMaestro(ctx context.Context, maestroID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM maestros WHERE maestro_id = $1;`, maestroID)
	if err != nil {
		if translated := translateConstraintError(err, "ledger account"); translated != nil {
			return translated
		}
		return fmt.Errorf("failed to delete ledger account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("ledger account %s: %w", maestroID, apperrors.ErrNotFound)
	}
	return nil
}

func (r *PgxMaestroRepository) FindMaestroByID(ctx context.Context, maestroID string) (*domain.Maestro, error) {
	m, err := scanMaestro(r.Pool.QueryRow(ctx, `SELECT `+maestroColumns+` FROM maestros WHERE maestro_id = $1;`, maestroID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("ledger account %s: %w", maestroID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find ledger account by ID: %w", err)
	}
	maestro := mapping.ToDomainMaestro(*m)
	return &maestro, nil
}

func (r *PgxMaestroRepository) FindMaestros(ctx context.Context, limit int, offset int) ([]domain.Maestro, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.Pool.Query(ctx, `
		SELECT `+maestroColumns+` FROM maestros
		ORDER BY name
		LIMIT $1 OFFSET $2;
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger accounts: %w", err)
	}
	defer rows.Close()

	maestros := []models.Maestro{}
	for rows.Next() {
		m, err := scanMaestro(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger account row: %w", err)
		}
		maestros = append(maestros, *m)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating ledger account rows: %w", rows.Err())
	}

	return mapping.ToDomainMaestroSlice(maestros), nil
}

// FindDailyNetAmounts groups movements by UTC calendar day and sums their
// signed amounts, keyed by date in YYYY-MM-DD form. Days without movements
// are absent from the map.
func (r *PgxMaestroRepository) FindDailyNetAmounts(ctx context.Context, maestroID string, since time.Time) (map[string]decimal.Decimal, error) {
	// Bucket by UTC date regardless of the session timezone, so the day keys
	// line up with the service's UTC walk-back.
	rows, err := r.Pool.Query(ctx, `
		SELECT to_char((occurred_at AT TIME ZONE 'UTC')::date, 'YYYY-MM-DD') AS day,
		       SUM(CASE WHEN kind = 'SALIDA' THEN -amount ELSE amount END) AS net
		FROM movements
		WHERE maestro_id = $1 AND occurred_at >= $2
		GROUP BY (occurred_at AT TIME ZONE 'UTC')::date
		ORDER BY (occurred_at AT TIME ZONE 'UTC')::date;
	`, maestroID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily net amounts: %w", err)
	}
	defer rows.Close()

	nets := map[string]decimal.Decimal{}
	for rows.Next() {
		var day string
		var net decimal.Decimal
		if err := rows.Scan(&day, &net); err != nil {
			return nil, fmt.Errorf("failed to scan daily net row: %w", err)
		}
		nets[day] = net
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating daily net rows: %w", rows.Err())
	}

	return nets, nil
}

// SaveMovement applies the signed amount to the locked maestro row and
// inserts the movement in one transaction. A SALIDA that exceeds the current
// balance is rejected as a conflict before anything is written.
func (r *PgxMaestroRepository) SaveMovement(ctx context.Context, movement domain.Movement) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	var balance decimal.Decimal
	err = tx.QueryRow(ctx, `SELECT saldo FROM maestros WHERE maestro_id = $1 FOR UPDATE;`, movement.MaestroID).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("ledger account %s: %w", movement.MaestroID, apperrors.ErrNotFound)
		}
		return fmt.Errorf("failed to lock ledger account row: %w", err)
	}

	newBalance := balance.Add(movement.SignedAmount())
	if newBalance.IsNegative() {
		return fmt.Errorf("insufficient balance on account %s: %w", movement.MaestroID, apperrors.ErrConflict)
	}

	m := mapping.ToModelMovement(movement)
	_, err = tx.Exec(ctx, `
		INSERT INTO movements (`+movementColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`, m.MovementID, m.MaestroID, m.Kind, m.Amount, m.Responsible, m.OccurredAt,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return fmt.Errorf("failed to insert movement: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE maestros SET saldo = $2, last_updated_at = $3, last_updated_by = $4
		WHERE maestro_id = $1;
	`, movement.MaestroID, newBalance, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return fmt.Errorf("failed to update account balance: %w", err)
	}

	return r.Commit(ctx, tx)
}

// DeleteMovement reverses the movement's signed amount on the locked maestro
// row and deletes the movement in one transaction. Reversing an ENTRADA the
// account has since spent would drive the balance negative, which is a
// conflict.
func (r *PgxMaestroRepository) DeleteMovement(ctx context.Context, movementID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m, err := scanMovement(tx.QueryRow(ctx, `SELECT `+movementColumns+` FROM movements WHERE movement_id = $1 FOR UPDATE;`, movementID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("movement %s: %w", movementID, apperrors.ErrNotFound)
		}
		return fmt.Errorf("failed to lock movement row: %w", err)
	}

	var balance decimal.Decimal
	err = tx.QueryRow(ctx, `SELECT saldo FROM maestros WHERE maestro_id = $1 FOR UPDATE;`, m.MaestroID).Scan(&balance)
	if err != nil {
		return fmt.Errorf("failed to lock ledger account row: %w", err)
	}

	newBalance := balance.Sub(mapping.ToDomainMovement(*m).SignedAmount())
	if newBalance.IsNegative() {
		return fmt.Errorf("reversing movement %s would overdraw account %s: %w", movementID, m.MaestroID, apperrors.ErrConflict)
	}

	_, err = tx.Exec(ctx, `DELETE FROM movements WHERE movement_id = $1;`, movementID)
	if err != nil {
		return fmt.Errorf("failed to delete movement: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE maestros SET saldo = $2 WHERE maestro_id = $1;
	`, m.MaestroID, newBalance)
	if err != nil {
		return fmt.Errorf("failed to update account balance: %w", err)
	}

	return r.Commit(ctx, tx)
}

func (r *PgxMaestroRepository) FindMovementByID(ctx context.Context, movementID string) (*domain.Movement, error) {
	m, err := scanMovement(r.Pool.QueryRow(ctx, `SELECT `+movementColumns+` FROM movements WHERE movement_id = $1;`, movementID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("movement %s: %w", movementID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find movement by ID: %w", err)
	}
	movement := mapping.ToDomainMovement(*m)
	return &movement, nil
}

func (r *PgxMaestroRepository) FindMovements(ctx context.Context, maestroID string, limit int, offset int) ([]domain.Movement, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.Pool.Query(ctx, `
		SELECT `+movementColumns+` FROM movements
		WHERE ($1 = '' OR maestro_id = $1)
		ORDER BY occurred_at DESC
		LIMIT $2 OFFSET $3;
	`, maestroID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query movements: %w", err)
	}
	defer rows.Close()

	movements := []models.Movement{}
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan movement row: %w", err)
		}
		movements = append(movements, *m)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating movement rows: %w", rows.Err())
	}

	return mapping.ToDomainMovementSlice(movements), nil
}
