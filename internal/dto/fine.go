package dto

import (
	"time"

	"github.com/ricerca-labs/biblioteca_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateFineRequest defines the data needed to create a fine manually.
type CreateFineRequest struct {
	LoanID string          `json:"loanID" binding:"required"`
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// SweepFinesRequest configures the automatic overdue sweep.
// PerDayRate falls back to the configured default when omitted.
type SweepFinesRequest struct {
	PerDayRate *int64 `json:"perDayRate"`
}

// FineResponse defines the data returned for a fine.
type FineResponse struct {
	FineID       string          `json:"fineID"`
	LoanID       string          `json:"loanID"`
	Amount       decimal.Decimal `json:"amount"`
	Paid         bool            `json:"paid"`
	FineDate     time.Time       `json:"fineDate"`
	BorrowerID   string          `json:"borrowerID,omitempty"`
	BorrowerName string          `json:"borrowerName,omitempty"`
	BookTitle    string          `json:"bookTitle,omitempty"`
}

// ToFineResponse converts a domain.Fine to FineResponse DTO
func ToFineResponse(f *domain.Fine) FineResponse {
	return FineResponse{
		FineID:       f.FineID,
		LoanID:       f.LoanID,
		Amount:       f.Amount,
		Paid:         f.Paid,
		FineDate:     f.FineDate,
		BorrowerID:   f.BorrowerID,
		BorrowerName: f.BorrowerName,
		BookTitle:    f.BookTitle,
	}
}

// ToListFineResponse converts a slice of domain.Fine to a slice of FineResponse DTOs
func ToListFineResponse(fines []domain.Fine) []FineResponse {
	res := make([]FineResponse, len(fines))
	for i, f := range fines {
		res[i] = ToFineResponse(&f)
	}
	return res
}
