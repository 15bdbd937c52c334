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

// PgxFineRepository persists fines in Postgres. The UNIQUE constraint on
// loan_id is what keeps the automatic sweep idempotent.
type PgxFineRepository struct {
	BaseRepository
}

func newPgxFineRepository(pool *pgxpool.Pool) portsrepo.FineRepositoryFacade {
	return &PgxFineRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.FineRepositoryFacade = (*PgxFineRepository)(nil)

const fineColumns = `fine_id, loan_id, amount, paid, fine_date,
	created_at, created_by, last_updated_at, last_updated_by`

func scanFine(row pgx.Row) (*models.Fine, error) {
	var m models.Fine
	err := row.Scan(
		&m.FineID,
		&m.LoanID,
		&m.Amount,
		&m.Paid,
		&m.FineDate,
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

func (r *PgxFineRepository) SaveFine(ctx context.Context, fine domain.Fine) error {
	m := mapping.ToModelFine(fine)
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO fines (`+fineColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`, m.FineID, m.LoanID, m.Amount, m.Paid, m.FineDate,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		if translated := translateConstraintError(err, "fine"); translated != nil {
			return translated
		}
		return fmt.Errorf("failed to insert fine: %w", err)
	}
	return nil
}

// SaveFinesIdempotent inserts the batch in one transaction with
// ON CONFLICT (loan_id) DO NOTHING, so loans fined by a concurrent sweep or
// by hand are silently skipped. Only the fines actually written come back.
func (r *PgxFineRepository) SaveFinesIdempotent(ctx context.Context, fines []domain.Fine) ([]domain.Fine, error) {
	if len(fines) == 0 {
		return []domain.Fine{}, nil
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	inserted := []domain.Fine{}
	for _, fine := range fines {
		m := mapping.ToModelFine(fine)
		tag, err := tx.Exec(ctx, `
			INSERT INTO fines (`+fineColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (loan_id) DO NOTHING;
		`, m.FineID, m.LoanID, m.Amount, m.Paid, m.FineDate,
			m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy)
		if err != nil {
			return nil, fmt.Errorf("failed to insert fine for loan %s: %w", fine.LoanID, err)
		}
		if tag.RowsAffected() > 0 {
			inserted = append(inserted, fine)
		}
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return inserted, nil
}

// MarkFinePaid flips paid inside a transaction with the row locked; paying
// twice is a conflict, not a no-op.
func (r *PgxFineRepository) MarkFinePaid(ctx context.Context, fineID string, updaterUserID string, now time.Time) (*domain.Fine, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	m, err := scanFine(tx.QueryRow(ctx, `SELECT `+fineColumns+` FROM fines WHERE fine_id = $1 FOR UPDATE;`, fineID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("fine %s: %w", fineID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to lock fine row: %w", err)
	}

	if m.Paid {
		return nil, fmt.Errorf("fine %s already paid: %w", fineID, apperrors.ErrConflict)
	}

	_, err = tx.Exec(ctx, `
		UPDATE fines SET paid = TRUE, last_updated_at = $2, last_updated_by = $3
		WHERE fine_id = $1;
	`, fineID, now, updaterUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to mark fine paid: %w", err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}

	m.Paid = true
	m.LastUpdatedAt = now
	m.LastUpdatedBy = updaterUserID
	fine := mapping.ToDomainFine(*m)
	return &fine, nil
}

func (r *PgxFineRepository) DeleteFine(ctx context.Context, fineID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM fines WHERE fine_id = $1;`, fineID)
	if err != nil {
		return fmt.Errorf("failed to delete fine: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("fine %s: %w", fineID, apperrors.ErrNotFound)
	}
	return nil
}

func (r *PgxFineRepository) FindFineByID(ctx context.Context, fineID string) (*domain.Fine, error) {
	query := `
		SELECT f.fine_id, f.loan_id, f.amount, f.paid, f.fine_date,
		       f.created_at, f.created_by, f.last_updated_at, f.last_updated_by,
		       l.borrower_id, u.name, b.title
		FROM fines f
		JOIN loans l ON l.loan_id = f.loan_id
		JOIN users u ON u.user_id = l.borrower_id
		JOIN books b ON b.book_id = l.book_id
		WHERE f.fine_id = $1;
	`
	var m models.Fine
	var borrowerID, borrowerName, bookTitle string
	err := r.Pool.QueryRow(ctx, query, fineID).Scan(
		&m.FineID, &m.LoanID, &m.Amount, &m.Paid, &m.FineDate,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
		&borrowerID, &borrowerName, &bookTitle,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("fine %s: %w", fineID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find fine by ID: %w", err)
	}

	fine := mapping.ToDomainFine(m)
	fine.BorrowerID = borrowerID
	fine.BorrowerName = borrowerName
	fine.BookTitle = bookTitle
	return &fine, nil
}

// FindFines resolves fines with the loan's borrower and book in one joined
// query so a user sees what the fine is for without extra round trips.
func (r *PgxFineRepository) FindFines(ctx context.Context, borrowerID string, limit int, offset int) ([]domain.Fine, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT f.fine_id, f.loan_id, f.amount, f.paid, f.fine_date,
		       f.created_at, f.created_by, f.last_updated_at, f.last_updated_by,
		       l.borrower_id, u.name, b.title
		FROM fines f
		JOIN loans l ON l.loan_id = f.loan_id
		JOIN users u ON u.user_id = l.borrower_id
		JOIN books b ON b.book_id = l.book_id
		WHERE ($1 = '' OR l.borrower_id = $1)
		ORDER BY f.fine_date DESC
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.Pool.Query(ctx, query, borrowerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query fines: %w", err)
	}
	defer rows.Close()

	fines := []domain.Fine{}
	for rows.Next() {
		var m models.Fine
		var bID, borrowerName, bookTitle string
		err := rows.Scan(
			&m.FineID, &m.LoanID, &m.Amount, &m.Paid, &m.FineDate,
			&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
			&bID, &borrowerName, &bookTitle,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fine row: %w", err)
		}
		fine := mapping.ToDomainFine(m)
		fine.BorrowerID = bID
		fine.BorrowerName = borrowerName
		fine.BookTitle = bookTitle
		fines = append(fines, fine)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating fine rows: %w", rows.Err())
	}

	return fines, nil
}
