package services

import (
	portsrepo "github.com/ricerca-labs/biblioteca_backend/internal/core/ports/repositories"
	portssvc "github.com/ricerca-labs/biblioteca_backend/internal/core/ports/services"
	"github.com/ricerca-labs/biblioteca_backend/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.User = NewUserService(repos.UserRepo)
	container.Book = NewBookService(repos.BookRepo)
	container.Loan = NewLoanService(repos.LoanRepo, cfg.LoanPeriodDays)
	container.Fine = NewFineService(repos.FineRepo, repos.LoanRepo, cfg.FinePerDayRate)
	container.Maestro = NewMaestroService(repos.MaestroRepo)

	container.Token = NewTokenService(cfg, container.User)
	container.GoogleOAuth = NewGoogleOAuthService(cfg)

	return container
}

// Compile-time interface checks.
var (
	_ portssvc.UserSvcFacade    = (*userService)(nil)
	_ portssvc.BookSvcFacade    = (*bookService)(nil)
	_ portssvc.LoanSvcFacade    = (*loanService)(nil)
	_ portssvc.FineSvcFacade    = (*fineService)(nil)
	_ portssvc.MaestroSvcFacade = (*maestroService)(nil)
)
