package services

import (
	"context"

	"github.com/ricerca-labs/biblioteca_backend/internal/core/domain"
	"github.com/ricerca-labs/biblioteca_backend/internal/dto"
)

// BookReaderSvc defines read operations for the catalog
type BookReaderSvc interface {
	// GetBookByID retrieves a single book.
	GetBookByID(ctx context.Context, bookID string) (*domain.Book, error)

	// ListBooks retrieves a paginated, optionally category-filtered list.
	ListBooks(ctx context.Context, params dto.ListBooksParams) ([]domain.Book, error)

	// SearchBooks finds books by a case-insensitive match on title or author.
	SearchBooks(ctx context.Context, params dto.SearchBooksParams) ([]domain.Book, error)
}

// BookWriterSvc defines write operations for the catalog (admin only)
type BookWriterSvc interface {
	// CreateBook adds a book to the catalog.
	CreateBook(ctx context.Context, req dto.CreateBookRequest, actorID string, actorRole domain.UserRole) (*domain.Book, error)

	// UpdateBook updates catalog details of a book.
	UpdateBook(ctx context.Context, bookID string, req dto.UpdateBookRequest, actorID string, actorRole domain.UserRole) (*domain.Book, error)

	// DeleteBook removes a book from the catalog.
	DeleteBook(ctx context.Context, bookID string, actorID string, actorRole domain.UserRole) error
}

// BookSvcFacade combines all book-related service interfaces
type BookSvcFacade interface {
	BookReaderSvc
	BookWriterSvc
}
