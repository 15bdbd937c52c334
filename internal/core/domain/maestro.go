package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Maestro is a named ledger account whose balance is the sum of all signed
// movement amounts applied against it. Balance and movement writes always
// happen inside the same database transaction.
type Maestro struct {
	MaestroID string          `json:"maestroID"`
	Name      string          `json:"name"`
	Balance   decimal.Decimal `json:"balance"`
	AuditFields
}

// MovementKind is the direction of a ledger movement.
type MovementKind string

const (
	MovementEntrada MovementKind = "ENTRADA" // credit
	MovementSalida  MovementKind = "SALIDA"  // debit
)

// IsValid checks whether the kind is one of the known values.
func (k MovementKind) IsValid() bool {
	return k == MovementEntrada || k == MovementSalida
}

// Movement is a single signed balance change against a maestro account.
type Movement struct {
	MovementID  string          `json:"movementID"`
	MaestroID   string          `json:"maestroID"`
	Kind        MovementKind    `json:"kind"`
	Amount      decimal.Decimal `json:"amount"`
	Responsible string          `json:"responsible"` // display name of the acting user
	OccurredAt  time.Time       `json:"occurredAt"`
	AuditFields
}

// SignedAmount returns the amount with the sign implied by the movement kind.
func (m Movement) SignedAmount() decimal.Decimal {
	if m.Kind == MovementSalida {
		return m.Amount.Neg()
	}
	return m.Amount
}

// DailyBalance is the account balance at end of one calendar day.
type DailyBalance struct {
	Date    time.Time       `json:"date"`
	Balance decimal.Decimal `json:"balance"`
}
