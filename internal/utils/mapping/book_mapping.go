package mapping

import (
	"github.com/ricerca-labs/biblioteca_backend/internal/core/domain"
	"github.com/ricerca-labs/biblioteca_backend/internal/models"
)

// ToModelBook converts a domain Book to a model Book
func ToModelBook(d domain.Book) models.Book {
	return models.Book{
		BookID:          d.BookID,
		Title:           d.Title,
		Author:          d.Author,
		PublishedOn:     d.PublishedOn,
		Category:        d.Category,
		AvailableCopies: d.AvailableCopies,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainBook converts a model Book to a domain Book
func ToDomainBook(m models.Book) domain.Book {
	return domain.Book{
		BookID:          m.BookID,
		Title:           m.Title,
		Author:          m.Author,
		PublishedOn:     m.PublishedOn,
		Category:        m.Category,
		AvailableCopies: m.AvailableCopies,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainBookSlice converts a slice of model Books to a slice of domain Books
func ToDomainBookSlice(ms []models.Book) []domain.Book {
	ds := make([]domain.Book, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainBook(m)
	}
	return ds
}
