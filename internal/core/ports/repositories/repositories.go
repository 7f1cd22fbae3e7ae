package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	UserRepo     UserRepositoryFacade
	BookRepo     BookRepositoryFacade
	LoanRepo     LoanRepositoryFacade
	CategoryRepo CategoryRepositoryFacade
	MajorRepo    MajorRepositoryFacade
	ClassRepo    ClassRepositoryFacade
	MessageRepo  MessageRepositoryFacade
	ReviewRepo   ReviewRepositoryFacade
	FavoriteRepo FavoriteRepositoryFacade
	StatsRepo    StatsRepositoryFacade
	ReportRepo   ReportRepositoryFacade
}
