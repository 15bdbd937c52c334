package domain

import "time"

// Book represents a catalog entry with its current availability.
// AvailableCopies is decremented when a loan is created and incremented when
// the loan is returned or deleted; it never goes below zero.
type Book struct {
	BookID          string    `json:"bookID"`
	Title           string    `json:"title"`
	Author          string    `json:"author"`
	PublishedOn     time.Time `json:"publishedOn"`
	Category        string    `json:"category"`
	AvailableCopies int       `json:"availableCopies"`
	AuditFields
}
