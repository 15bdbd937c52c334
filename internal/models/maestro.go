package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Maestro represents a row of the maestros table.
type Maestro struct {
	MaestroID string          `db:"maestro_id"`
	Name      string          `db:"name"`
	Balance   decimal.Decimal `db:"saldo"`
	AuditFields
}

// Movement represents a row of the movements table.
type Movement struct {
	MovementID  string          `db:"movement_id"`
	MaestroID   string          `db:"maestro_id"`
	Kind        string          `db:"kind"`
	Amount      decimal.Decimal `db:"amount"`
	Responsible string          `db:"responsible"`
	OccurredAt  time.Time       `db:"occurred_at"`
	AuditFields
}
