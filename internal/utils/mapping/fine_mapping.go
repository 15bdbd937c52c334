package mapping

import (
	"github.com/ricerca-labs/biblioteca_backend/internal/core/domain"
	"github.com/ricerca-labs/biblioteca_backend/internal/models"
)

// ToModelFine converts a domain Fine to a model Fine
func ToModelFine(d domain.Fine) models.Fine {
	return models.Fine{
		FineID:      d.FineID,
		LoanID:      d.LoanID,
		Amount:      d.Amount,
		Paid:        d.Paid,
		FineDate:    d.FineDate,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainFine converts a model Fine to a domain Fine
func ToDomainFine(m models.Fine) domain.Fine {
	return domain.Fine{
		FineID:      m.FineID,
		LoanID:      m.LoanID,
		Amount:      m.Amount,
		Paid:        m.Paid,
		FineDate:    m.FineDate,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainFineSlice converts a slice of model Fines to a slice of domain Fines
func ToDomainFineSlice(ms []models.Fine) []domain.Fine {
	ds := make([]domain.Fine, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainFine(m)
	}
	return ds
}
