package dto

import (
	"time"

	"github.com/ricerca-labs/biblioteca_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateMaestroRequest defines the data needed to open a ledger account.
type CreateMaestroRequest struct {
	Name           string           `json:"name" binding:"required"`
	OpeningBalance *decimal.Decimal `json:"openingBalance"` // optional, must be >= 0
}

// UpdateMaestroRequest defines the data allowed for renaming a ledger account.
// The balance is never written directly; only movements change it.
type UpdateMaestroRequest struct {
	Name *string `json:"name"`
}

// MaestroResponse defines the data returned for a ledger account.
type MaestroResponse struct {
	MaestroID     string          `json:"maestroID"`
	Name          string          `json:"name"`
	Balance       decimal.Decimal `json:"balance"`
	CreatedAt     time.Time       `json:"createdAt"`
	CreatedBy     string          `json:"createdBy"`
	LastUpdatedAt time.Time       `json:"lastUpdatedAt"`
}

// ToMaestroResponse converts a domain.Maestro to MaestroResponse DTO
func ToMaestroResponse(m *domain.Maestro) MaestroResponse {
	return MaestroResponse{
		MaestroID:     m.MaestroID,
		Name:          m.Name,
		Balance:       m.Balance,
		CreatedAt:     m.CreatedAt,
		CreatedBy:     m.CreatedBy,
		LastUpdatedAt: m.LastUpdatedAt,
	}
}

// ToListMaestroResponse converts a slice of domain.Maestro to a slice of MaestroResponse DTOs
func ToListMaestroResponse(maestros []domain.Maestro) []MaestroResponse {
	res := make([]MaestroResponse, len(maestros))
	for i, m := range maestros {
		res[i] = ToMaestroResponse(&m)
	}
	return res
}

// DailyBalancesParams defines query parameters for the daily balance report.
type DailyBalancesParams struct {
	Days int `form:"days,default=30"`
}

// DailyBalanceResponse is one day-end balance of a ledger account.
type DailyBalanceResponse struct {
	Date    string          `json:"date"` // YYYY-MM-DD
	Balance decimal.Decimal `json:"balance"`
}

// ToDailyBalanceResponses converts domain daily balances to DTOs.
func ToDailyBalanceResponses(balances []domain.DailyBalance) []DailyBalanceResponse {
	res := make([]DailyBalanceResponse, len(balances))
	for i, b := range balances {
		res[i] = DailyBalanceResponse{
			Date:    b.Date.Format("2006-01-02"),
			Balance: b.Balance,
		}
	}
	return res
}
