package dto

import (
	"time"

	"github.com/ricerca-labs/biblioteca_backend/internal/core/domain"
)

// CreateBookRequest defines the data needed to add a book to the catalog.
type CreateBookRequest struct {
	Title           string    `json:"title" binding:"required"`
	Author          string    `json:"author" binding:"required"`
	PublishedOn     time.Time `json:"publishedOn" binding:"required"`
	Category        string    `json:"category" binding:"required"`
	AvailableCopies int       `json:"availableCopies" binding:"min=0"`
}

// UpdateBookRequest defines the data allowed for updating a book.
// Use pointers to distinguish between zero-value updates and fields not provided.
// AvailableCopies is deliberately absent: only loans move the copy count.
type UpdateBookRequest struct {
	Title       *string    `json:"title"`
	Author      *string    `json:"author"`
	PublishedOn *time.Time `json:"publishedOn"`
	Category    *string    `json:"category"`
}

// BookResponse defines the data returned for a book.
type BookResponse struct {
	BookID          string    `json:"bookID"`
	Title           string    `json:"title"`
	Author          string    `json:"author"`
	PublishedOn     time.Time `json:"publishedOn"`
	Category        string    `json:"category"`
	AvailableCopies int       `json:"availableCopies"`
	CreatedAt       time.Time `json:"createdAt"`
	LastUpdatedAt   time.Time `json:"lastUpdatedAt"`
}

// ToBookResponse converts a domain.Book to BookResponse DTO
func ToBookResponse(b *domain.Book) BookResponse {
	return BookResponse{
		BookID:          b.BookID,
		Title:           b.Title,
		Author:          b.Author,
		PublishedOn:     b.PublishedOn,
		Category:        b.Category,
		AvailableCopies: b.AvailableCopies,
		CreatedAt:       b.CreatedAt,
		LastUpdatedAt:   b.LastUpdatedAt,
	}
}

// ToListBookResponse converts a slice of domain.Book to a slice of BookResponse DTOs
func ToListBookResponse(books []domain.Book) []BookResponse {
	res := make([]BookResponse, len(books))
	for i, b := range books {
		res[i] = ToBookResponse(&b)
	}
	return res
}

// ListBooksParams defines query parameters for listing books.
type ListBooksParams struct {
	Limit    int    `form:"limit,default=50"`
	Offset   int    `form:"offset,default=0"`
	Category string `form:"category"`
}

// SearchBooksParams defines query parameters for catalog search.
type SearchBooksParams struct {
	Q string `form:"q" binding:"required"`
	ListParams
}
