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

// PgxLoanRepository persists loans in Postgres. Every write that changes a
// book's availability runs in a transaction with the book row locked, so
// concurrent checkouts of the last copy serialize.
type PgxLoanRepository struct {
	BaseRepository
}

func newPgxLoanRepository(pool *pgxpool.Pool) portsrepo.LoanRepositoryFacade {
	return &PgxLoanRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.LoanRepositoryFacade = (*PgxLoanRepository)(nil)

const loanColumns = `loan_id, book_id, borrower_id, loan_date, due_date, returned,
	created_at, created_by, last_updated_at, last_updated_by`

func scanLoan(row pgx.Row) (*models.Loan, error) {
	var m models.Loan
	err := row.Scan(
		&m.LoanID,
		&m.BookID,
		&m.BorrowerID,
		&m.LoanDate,
		&m.DueDate,
		&m.Returned,
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

// CreateLoan inserts the loan and decrements the book's available copies as
// one unit. The book row is locked first; a zero count is reported as a
// conflict without any writes.
func (r *PgxLoanRepository) CreateLoan(ctx context.Context, loan domain.Loan) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	var available int
	err = tx.QueryRow(ctx, `SELECT available_copies FROM books WHERE book_id = $1 FOR UPDATE;`, loan.BookID).Scan(&available)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("book %s: %w", loan.BookID, apperrors.ErrNotFound)
		}
		return fmt.Errorf("failed to lock book row: %w", err)
	}

	if available <= 0 {
		return fmt.Errorf("no copies of book %s available: %w", loan.BookID, apperrors.ErrConflict)
	}

	m := mapping.ToModelLoan(loan)
	_, err = tx.Exec(ctx, `
		INSERT INTO loans (`+loanColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`, m.LoanID, m.BookID, m.BorrowerID, m.LoanDate, m.DueDate, m.Returned,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return fmt.Errorf("failed to insert loan: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE books SET available_copies = available_copies - 1,
		       last_updated_at = $2, last_updated_by = $3
		WHERE book_id = $1;
	`, loan.BookID, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return fmt.Errorf("failed to decrement book availability: %w", err)
	}

	return r.Commit(ctx, tx)
}

// MarkLoanReturned sets returned=true exactly once and restores the book's
// availability in the same transaction.
func (r *PgxLoanRepository) MarkLoanReturned(ctx context.Context, loanID string, updaterUserID string, now time.Time) (*domain.Loan, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	m, err := scanLoan(tx.QueryRow(ctx, `SELECT `+loanColumns+` FROM loans WHERE loan_id = $1 FOR UPDATE;`, loanID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("loan %s: %w", loanID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to lock loan row: %w", err)
	}

	if m.Returned {
		return nil, fmt.Errorf("loan %s already returned: %w", loanID, apperrors.ErrConflict)
	}

	_, err = tx.Exec(ctx, `
		UPDATE loans SET returned = TRUE, last_updated_at = $2, last_updated_by = $3
		WHERE loan_id = $1;
	`, loanID, now, updaterUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to mark loan returned: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE books SET available_copies = available_copies + 1,
		       last_updated_at = $2, last_updated_by = $3
		WHERE book_id = $1;
	`, m.BookID, now, updaterUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to restore book availability: %w", err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}

	m.Returned = true
	m.LastUpdatedAt = now
	m.LastUpdatedBy = updaterUserID
	loan := mapping.ToDomainLoan(*m)
	return &loan, nil
}

// DeleteLoan removes the loan record. A loan that was never returned still
// holds a copy, so availability is restored inside the same transaction.
func (r *PgxLoanRepository) DeleteLoan(ctx context.Context, loanID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m, err := scanLoan(tx.QueryRow(ctx, `SELECT `+loanColumns+` FROM loans WHERE loan_id = $1 FOR UPDATE;`, loanID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("loan %s: %w", loanID, apperrors.ErrNotFound)
		}
		return fmt.Errorf("failed to lock loan row: %w", err)
	}

	if !m.Returned {
		_, err = tx.Exec(ctx, `
			UPDATE books SET available_copies = available_copies + 1
			WHERE book_id = $1;
		`, m.BookID)
		if err != nil {
			return fmt.Errorf("failed to restore book availability: %w", err)
		}
	}

	_, err = tx.Exec(ctx, `DELETE FROM loans WHERE loan_id = $1;`, loanID)
	if err != nil {
		if translated := translateConstraintError(err, "loan"); translated != nil {
			return translated
		}
		return fmt.Errorf("failed to delete loan: %w", err)
	}

	return r.Commit(ctx, tx)
}

func (r *PgxLoanRepository) FindLoanByID(ctx context.Context, loanID string) (*domain.Loan, error) {
	query := `
		SELECT l.loan_id, l.book_id, l.borrower_id, l.loan_date, l.due_date, l.returned,
		       l.created_at, l.created_by, l.last_updated_at, l.last_updated_by,
		       b.title, u.name
		FROM loans l
		JOIN books b ON b.book_id = l.book_id
		JOIN users u ON u.user_id = l.borrower_id
		WHERE l.loan_id = $1;
	`
	var m models.Loan
	var bookTitle, borrowerName string
	err := r.Pool.QueryRow(ctx, query, loanID).Scan(
		&m.LoanID, &m.BookID, &m.BorrowerID, &m.LoanDate, &m.DueDate, &m.Returned,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
		&bookTitle, &borrowerName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("loan %s: %w", loanID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find loan by ID: %w", err)
	}

	loan := mapping.ToDomainLoan(m)
	loan.BookTitle = bookTitle
	loan.BorrowerName = borrowerName
	return &loan, nil
}

// FindLoans returns loans with book and borrower context in a single joined
// query rather than per-row lookups.
func (r *PgxLoanRepository) FindLoans(ctx context.Context, borrowerID string, limit int, offset int) ([]domain.Loan, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT l.loan_id, l.book_id, l.borrower_id, l.loan_date, l.due_date, l.returned,
		       l.created_at, l.created_by, l.last_updated_at, l.last_updated_by,
		       b.title, u.name
		FROM loans l
		JOIN books b ON b.book_id = l.book_id
		JOIN users u ON u.user_id = l.borrower_id
		WHERE ($1 = '' OR l.borrower_id = $1)
		ORDER BY l.loan_date DESC
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.Pool.Query(ctx, query, borrowerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query loans: %w", err)
	}
	defer rows.Close()

	loans := []domain.Loan{}
	for rows.Next() {
		var m models.Loan
		var bookTitle, borrowerName string
		err := rows.Scan(
			&m.LoanID, &m.BookID, &m.BorrowerID, &m.LoanDate, &m.DueDate, &m.Returned,
			&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
			&bookTitle, &borrowerName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan loan row: %w", err)
		}
		loan := mapping.ToDomainLoan(m)
		loan.BookTitle = bookTitle
		loan.BorrowerName = borrowerName
		loans = append(loans, loan)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating loan rows: %w", rows.Err())
	}

	return loans, nil
}

// FindOverdueLoansWithoutFine feeds the fine sweep: unreturned loans past due
// with no fine yet, resolved in one anti-join.
func (r *PgxLoanRepository) FindOverdueLoansWithoutFine(ctx context.Context, asOf time.Time) ([]domain.Loan, error) {
	query := `
		SELECT ` + loanColumns + `
		FROM loans l
		WHERE l.returned = FALSE
		  AND l.due_date < $1
		  AND NOT EXISTS (SELECT 1 FROM fines f WHERE f.loan_id = l.loan_id)
		ORDER BY l.due_date;
	`
	rows, err := r.Pool.Query(ctx, query, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to query overdue loans: %w", err)
	}
	defer rows.Close()

	loans := []models.Loan{}
	for rows.Next() {
		m, err := scanLoan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan overdue loan row: %w", err)
		}
		loans = append(loans, *m)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating overdue loan rows: %w", rows.Err())
	}

	return mapping.ToDomainLoanSlice(loans), nil
}
