package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"
	portsrepo "github.com/yomu-app/yomu_backend/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	userRepo := newPgxUserRepository(dbPool)
	bookRepo := newPgxBookRepository(dbPool)
	loanRepo := newPgxLoanRepository(dbPool, bookRepo)
	categoryRepo := newPgxCategoryRepository(dbPool)
	majorRepo := newPgxMajorRepository(dbPool)
	classRepo := newPgxClassRepository(dbPool)
	messageRepo := newPgxMessageRepository(dbPool)
	reviewRepo := newPgxReviewRepository(dbPool)
	favoriteRepo := newPgxFavoriteRepository(dbPool)
	statsRepo := newPgxStatsRepository(dbPool)
	reportRepo := newPgxReportRepository(dbPool)

	return portsrepo.RepositoryProvider{
		UserRepo:     userRepo,
		BookRepo:     bookRepo,
		LoanRepo:     loanRepo,
		CategoryRepo: categoryRepo,
		MajorRepo:    majorRepo,
		ClassRepo:    classRepo,
		MessageRepo:  messageRepo,
		ReviewRepo:   reviewRepo,
		FavoriteRepo: favoriteRepo,
		StatsRepo:    statsRepo,
		ReportRepo:   reportRepo,
	}
}
