package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ricerca-labs/biblioteca_backend/internal/apperrors"
	"github.com/ricerca-labs/biblioteca_backend/internal/core/domain"
	portsrepo "github.com/ricerca-labs/biblioteca_backend/internal/core/ports/repositories"
	"github.com/ricerca-labs/biblioteca_backend/internal/models"
	"github.com/ricerca-labs/biblioteca_backend/internal/utils/mapping"
)

// PgxBookRepository persists catalog entries in Postgres.
type PgxBookRepository struct {
	BaseRepository
}

func newPgxBookRepository(pool *pgxpool.Pool) portsrepo.BookRepositoryFacade {
	return &PgxBookRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.BookRepositoryFacade = (*PgxBookRepository)(nil)

const bookColumns = `book_id, title, author, published_on, category, available_copies,
	created_at, created_by, last_updated_at, last_updated_by`

func scanBook(row pgx.Row) (*models.Book, error) {
	var m models.Book
	err := row.Scan(
		&m.BookID,
		&m.Title,
		&m.Author,
		&m.PublishedOn,
		&m.Category,
		&m.AvailableCopies,
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

func (r *PgxBookRepository) SaveBook(ctx context.Context, book domain.Book) error {
	m := mapping.ToModelBook(book)
	query := `
		INSERT INTO books (` + bookColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.BookID, m.Title, m.Author, m.PublishedOn, m.Category, m.AvailableCopies,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save book: %w", err)
	}
	return nil
}

func (r *PgxBookRepository) FindBookByID(ctx context.Context, bookID string) (*domain.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE book_id = $1;`
	m, err := scanBook(r.Pool.QueryRow(ctx, query, bookID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("book %s: %w", bookID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find book by ID: %w", err)
	}
	book := mapping.ToDomainBook(*m)
	return &book, nil
}

func (r *PgxBookRepository) FindBooks(ctx context.Context, category string, limit int, offset int) ([]domain.Book, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT ` + bookColumns + `
		FROM books
		WHERE ($1 = '' OR category = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.Pool.Query(ctx, query, category, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query books: %w", err)
	}
	defer rows.Close()

	books := []models.Book{}
	for rows.Next() {
		m, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan book row: %w", err)
		}
		books = append(books, *m)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating book rows: %w", rows.Err())
	}

	return mapping.ToDomainBookSlice(books), nil
}

// SearchBooks matches the term case-insensitively against title and author.
func (r *PgxBookRepository) SearchBooks(ctx context.Context, term string, limit int, offset int) ([]domain.Book, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT ` + bookColumns + `
		FROM books
		WHERE title ILIKE '%' || $1 || '%' OR author ILIKE '%' || $1 || '%'
		ORDER BY title
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.Pool.Query(ctx, query, term, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to search books: %w", err)
	}
	defer rows.Close()

	books := []models.Book{}
	for rows.Next() {
		m, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan book row: %w", err)
		}
		books = append(books, *m)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating book rows: %w", rows.Err())
	}

	return mapping.ToDomainBookSlice(books), nil
}

func (r *PgxBookRepository) UpdateBook(ctx context.Context, book domain.Book) error {
	m := mapping.ToModelBook(book)
	query := `
		UPDATE books
		SET title = $2, author = $3, published_on = $4, category = $5,
		    last_updated_at = $6, last_updated_by = $7
		WHERE book_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		m.BookID, m.Title, m.Author, m.PublishedOn, m.Category,
		m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update book: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("book %s: %w", book.BookID, apperrors.ErrNotFound)
	}
	return nil
}

func (r *PgxBookRepository) DeleteBook(ctx context.Context, bookID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM books WHERE book_id = $1;`, bookID)
	if err != nil {
		if translated := translateConstraintError(err, "book"); translated != nil {
			return translated
		}
		return fmt.Errorf("failed to delete book: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("book %s: %w", bookID, apperrors.ErrNotFound)
	}
	return nil
}
