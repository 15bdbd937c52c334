package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ricerca-labs/biblioteca_backend/internal/apperrors"
	"github.com/ricerca-labs/biblioteca_backend/internal/authz"
	"github.com/ricerca-labs/biblioteca_backend/internal/core/domain"
	portsrepo "github.com/ricerca-labs/biblioteca_backend/internal/core/ports/repositories"
	portssvc "github.com/ricerca-labs/biblioteca_backend/internal/core/ports/services"
	"github.com/ricerca-labs/biblioteca_backend/internal/dto"
	"github.com/ricerca-labs/biblioteca_backend/internal/middleware"
)

type bookService struct {
	bookRepo portsrepo.BookRepositoryFacade
}

// NewBookService creates the catalog service backed by the given repository.
func NewBookService(bookRepo portsrepo.BookRepositoryFacade) portssvc.BookSvcFacade {
	return &bookService{bookRepo: bookRepo}
}

var _ portssvc.BookSvcFacade = (*bookService)(nil)

func (s *bookService) GetBookByID(ctx context.Context, bookID string) (*domain.Book, error) {
	book, err := s.bookRepo.FindBookByID(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("failed to get book by ID: %w", err)
	}
	return book, nil
}

func (s *bookService) ListBooks(ctx context.Context, params dto.ListBooksParams) ([]domain.Book, error) {
	books, err := s.bookRepo.FindBooks(ctx, params.Category, params.Limit, params.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	return books, nil
}

func (s *bookService) SearchBooks(ctx context.Context, params dto.SearchBooksParams) ([]domain.Book, error) {
	term := strings.TrimSpace(params.Q)
	if term == "" {
		return nil, fmt.Errorf("search term is required: %w", apperrors.ErrValidation)
	}

	books, err := s.bookRepo.SearchBooks(ctx, term, params.Limit, params.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to search books: %w", err)
	}
	return books, nil
}

func (s *bookService) CreateBook(ctx context.Context, req dto.CreateBookRequest, actorID string, actorRole domain.UserRole) (*domain.Book, error) {
	if err := authz.Authorize(actorRole, authz.BooksManage, actorID, ""); err != nil {
		return nil, err
	}

	now := time.Now()
	book := domain.Book{
		BookID:          uuid.NewString(),
		Title:           req.Title,
		Author:          req.Author,
		PublishedOn:     req.PublishedOn,
		Category:        req.Category,
		AvailableCopies: req.AvailableCopies,
		AuditFields:     domain.NewAuditFields(actorID, now),
	}

	if err := s.bookRepo.SaveBook(ctx, book); err != nil {
		return nil, fmt.Errorf("failed to create book: %w", err)
	}

	middleware.GetLoggerFromCtx(ctx).InfoContext(ctx, "book created",
		slog.String("book_id", book.BookID), slog.String("title", book.Title))
	return &book, nil
}

// UpdateBook edits catalog details. The copy count is out of reach here on
// purpose: only loan operations move it.
func (s *bookService) UpdateBook(ctx context.Context, bookID string, req dto.UpdateBookRequest, actorID string, actorRole domain.UserRole) (*domain.Book, error) {
	if err := authz.Authorize(actorRole, authz.BooksManage, actorID, ""); err != nil {
		return nil, err
	}

	book, err := s.bookRepo.FindBookByID(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("failed to find book for update: %w", err)
	}

	if req.Title != nil {
		book.Title = *req.Title
	}
	if req.Author != nil {
		book.Author = *req.Author
	}
	if req.PublishedOn != nil {
		book.PublishedOn = *req.PublishedOn
	}
	if req.Category != nil {
		book.Category = *req.Category
	}
	book.LastUpdatedAt = time.Now()
	book.LastUpdatedBy = actorID

	if err := s.bookRepo.UpdateBook(ctx, *book); err != nil {
		return nil, fmt.Errorf("failed to update book: %w", err)
	}
	return book, nil
}

func (s *bookService) DeleteBook(ctx context.Context, bookID string, actorID string, actorRole domain.UserRole) error {
	if err := authz.Authorize(actorRole, authz.BooksManage, actorID, ""); err != nil {
		return err
	}

	if err := s.bookRepo.DeleteBook(ctx, bookID); err != nil {
		return fmt.Errorf("failed to delete book: %w", err)
	}

	middleware.GetLoggerFromCtx(ctx).InfoContext(ctx, "book deleted", slog.String("book_id", bookID))
	return nil
}
