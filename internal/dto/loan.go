package dto

import (
	"time"

	"github.com/ricerca-labs/biblioteca_backend/internal/core/domain"
)

// CreateLoanRequest defines the data needed to check a book out.
// DueDate is optional; when absent the configured loan period applies.
type CreateLoanRequest struct {
	BookID  string     `json:"bookID" binding:"required"`
	DueDate *time.Time `json:"dueDate"`
}

// LoanResponse defines the data returned for a loan.
type LoanResponse struct {
	LoanID       string    `json:"loanID"`
	BookID       string    `json:"bookID"`
	BorrowerID   string    `json:"borrowerID"`
	LoanDate     time.Time `json:"loanDate"`
	DueDate      time.Time `json:"dueDate"`
	Returned     bool      `json:"returned"`
	BookTitle    string    `json:"bookTitle,omitempty"`
	BorrowerName string    `json:"borrowerName,omitempty"`
}

// ToLoanResponse converts a domain.Loan to LoanResponse DTO
func ToLoanResponse(l *domain.Loan) LoanResponse {
	return LoanResponse{
		LoanID:       l.LoanID,
		BookID:       l.BookID,
		BorrowerID:   l.BorrowerID,
		LoanDate:     l.LoanDate,
		DueDate:      l.DueDate,
		Returned:     l.Returned,
		BookTitle:    l.BookTitle,
		BorrowerName: l.BorrowerName,
	}
}

// ToListLoanResponse converts a slice of domain.Loan to a slice of LoanResponse DTOs
func ToListLoanResponse(loans []domain.Loan) []LoanResponse {
	res := make([]LoanResponse, len(loans))
	for i, l := range loans {
		res[i] = ToLoanResponse(&l)
	}
	return res
}

// ListLoansParams defines query parameters for listing loans.
type ListLoansParams struct {
	Limit  int `form:"limit,default=50"`
	Offset int `form:"offset,default=0"`
}
