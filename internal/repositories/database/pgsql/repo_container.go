package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"
	portsrepo "github.com/ricerca-labs/biblioteca_backend/internal/core/ports/repositories"
)

// NewRepositoryProvider wires every pgx-backed repository to the shared pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		UserRepo:    newPgxUserRepository(dbPool),
		BookRepo:    newPgxBookRepository(dbPool),
		LoanRepo:    newPgxLoanRepository(dbPool),
		FineRepo:    newPgxFineRepository(dbPool),
		MaestroRepo: newPgxMaestroRepository(dbPool),
	}
}
