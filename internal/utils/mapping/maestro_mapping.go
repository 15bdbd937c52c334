package mapping

import (
	"github.com/ricerca-labs/biblioteca_backend/internal/core/domain"
	"github.com/ricerca-labs/biblioteca_backend/internal/models"
)

// ToModelMaestro converts a domain Maestro to a model Maestro
func ToModelMaestro(d domain.Maestro) models.Maestro {
	return models.Maestro{
		MaestroID:   d.MaestroID,
		Name:        d.Name,
		Balance:     d.Balance,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainMaestro converts a model Maestro to a domain Maestro
func ToDomainMaestro(m models.Maestro) domain.Maestro {
	return domain.Maestro{
		MaestroID:   m.MaestroID,
		Name:        m.Name,
		Balance:     m.Balance,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainMaestroSlice converts a slice of model Maestros to a slice of domain Maestros
func ToDomainMaestroSlice(ms []models.Maestro) []domain.Maestro {
	ds := make([]domain.Maestro, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainMaestro(m)
	}
	return ds
}

// ToModelMovement converts a domain Movement to a model Movement
func ToModelMovement(d domain.Movement) models.Movement {
	return models.Movement{
		MovementID:  d.MovementID,
		MaestroID:   d.MaestroID,
		Kind:        string(d.Kind),
		Amount:      d.Amount,
		Responsible: d.Responsible,
		OccurredAt:  d.OccurredAt,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainMovement converts a model Movement to a domain Movement
func ToDomainMovement(m models.Movement) domain.Movement {
	return domain.Movement{
		MovementID:  m.MovementID,
		MaestroID:   m.MaestroID,
		Kind:        domain.MovementKind(m.Kind),
		Amount:      m.Amount,
		Responsible: m.Responsible,
		OccurredAt:  m.OccurredAt,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainMovementSlice converts a slice of model Movements to a slice of domain Movements
func ToDomainMovementSlice(ms []models.Movement) []domain.Movement {
	ds := make([]domain.Movement, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainMovement(m)
	}
	return ds
}
