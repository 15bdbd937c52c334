package models

import "time"

// Book represents a row of the books table.
type Book struct {
	BookID          string    `db:"book_id"`
	Title           string    `db:"title"`
	Author          string    `db:"author"`
	PublishedOn     time.Time `db:"published_on"`
	Category        string    `db:"category"`
	AvailableCopies int       `db:"available_copies"`
	AuditFields
}
