package dto

import (
	"time"

	"github.com/ricerca-labs/biblioteca_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateMovementRequest defines the data needed to record a ledger movement.
type CreateMovementRequest struct {
	MaestroID string          `json:"maestroID" binding:"required"`
	Kind      string          `json:"kind" binding:"required,oneof=ENTRADA SALIDA"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
}

// MovementResponse defines the data returned for a movement.
type MovementResponse struct {
	MovementID  string          `json:"movementID"`
	MaestroID   string          `json:"maestroID"`
	Kind        string          `json:"kind"`
	Amount      decimal.Decimal `json:"amount"`
	Responsible string          `json:"responsible"`
	OccurredAt  time.Time       `json:"occurredAt"`
}

// ToMovementResponse converts a domain.Movement to MovementResponse DTO
func ToMovementResponse(m *domain.Movement) MovementResponse {
	return MovementResponse{
		MovementID:  m.MovementID,
		MaestroID:   m.MaestroID,
		Kind:        string(m.Kind),
		Amount:      m.Amount,
		Responsible: m.Responsible,
		OccurredAt:  m.OccurredAt,
	}
}

// ToListMovementResponse converts a slice of domain.Movement to a slice of MovementResponse DTOs
func ToListMovementResponse(movements []domain.Movement) []MovementResponse {
	res := make([]MovementResponse, len(movements))
	for i, m := range movements {
		res[i] = ToMovementResponse(&m)
	}
	return res
}

// ListMovementsParams defines query parameters for listing movements.
type ListMovementsParams struct {
	AccountID string `form:"accountId"`
	Limit     int    `form:"limit,default=100"`
	Offset    int    `form:"offset,default=0"`
}
