package repositories

import (
	"context"

	"github.com/ricerca-labs/biblioteca_backend/internal/core/domain"
)

// BookReader defines read operations for catalog data
type BookReader interface {
	// FindBookByID retrieves a specific book.
	FindBookByID(ctx context.Context, bookID string) (*domain.Book, error)

	// FindBooks retrieves a paginated list of books, optionally filtered by category.
	FindBooks(ctx context.Context, category string, limit int, offset int) ([]domain.Book, error)

	// SearchBooks retrieves books whose title or author contains the term,
	// case-insensitively.
	SearchBooks(ctx context.Context, term string, limit int, offset int) ([]domain.Book, error)
}

// BookWriter defines write operations for catalog data
type BookWriter interface {
	// SaveBook persists a new book.
	SaveBook(ctx context.Context, book domain.Book) error

	// UpdateBook updates an existing book's catalog details.
	// It never touches available_copies; only loan operations do.
	UpdateBook(ctx context.Context, book domain.Book) error

	// DeleteBook removes a book. Books with outstanding loans are protected by
	// a foreign key and surface as a conflict.
	DeleteBook(ctx context.Context, bookID string) error
}

// BookRepositoryFacade combines all book-related repository interfaces
type BookRepositoryFacade interface {
	BookReader
	BookWriter
}
