package repositories

// RepositoryProvider bundles all repository facades for dependency injection.
type RepositoryProvider struct {
	UserRepo    UserRepositoryFacade
	BookRepo    BookRepositoryFacade
	LoanRepo    LoanRepositoryFacade
	FineRepo    FineRepositoryFacade
	MaestroRepo MaestroRepositoryFacade
}
