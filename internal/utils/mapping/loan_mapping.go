package mapping

import (
	"github.com/ricerca-labs/biblioteca_backend/internal/core/domain"
	"github.com/ricerca-labs/biblioteca_backend/internal/models"
)

// ToModelLoan converts a domain Loan to a model Loan
func ToModelLoan(d domain.Loan) models.Loan {
	return models.Loan{
		LoanID:      d.LoanID,
		BookID:      d.BookID,
		BorrowerID:  d.BorrowerID,
		LoanDate:    d.LoanDate,
		DueDate:     d.DueDate,
		Returned:    d.Returned,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainLoan converts a model Loan to a domain Loan
func ToDomainLoan(m models.Loan) domain.Loan {
	return domain.Loan{
		LoanID:      m.LoanID,
		BookID:      m.BookID,
		BorrowerID:  m.BorrowerID,
		LoanDate:    m.LoanDate,
		DueDate:     m.DueDate,
		Returned:    m.Returned,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainLoanSlice converts a slice of model Loans to a slice of domain Loans
func ToDomainLoanSlice(ms []models.Loan) []domain.Loan {
	ds := make([]domain.Loan, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainLoan(m)
	}
	return ds
}
