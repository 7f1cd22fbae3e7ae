package services

import (
	portsrepo "github.com/yomu-app/yomu_backend/internal/core/ports/repositories"
	portssvc "github.com/yomu-app/yomu_backend/internal/core/ports/services"
	"github.com/yomu-app/yomu_backend/pkg/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Auth = NewAuthService(repos.UserRepo, cfg)
	container.User = NewUserService(repos.UserRepo)
	container.Category = NewCategoryService(repos.CategoryRepo)
	container.Major = NewMajorService(repos.MajorRepo)
	container.Class = NewClassService(repos.ClassRepo, repos.MajorRepo)
	container.Book = NewBookService(repos.BookRepo, repos.CategoryRepo, repos.LoanRepo)

	// Messaging first: the loan engine notifies borrowers through it.
	container.Message = NewMessageService(repos.MessageRepo, repos.UserRepo, repos.BookRepo)
	container.Loan = NewLoanService(repos.LoanRepo, repos.BookRepo, repos.UserRepo, container.Message)

	container.Review = NewReviewService(repos.ReviewRepo, repos.BookRepo)
	container.Favorite = NewFavoriteService(repos.FavoriteRepo, repos.BookRepo)
	container.Stats = NewStatsService(repos.StatsRepo, container.Loan)
	container.Report = NewReportService(repos.ReportRepo, container.Loan)

	return container
}
