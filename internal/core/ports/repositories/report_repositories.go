package repositories

import (
	"context"
	"time"

	"github.com/yomu-app/yomu_backend/internal/core/domain"
)

// LoanReportWindow is the optional return-date range of a loan report.
// Start is inclusive, End exclusive.
type LoanReportWindow struct {
	Start *time.Time
	End   *time.Time
}

// ReportRepositoryFacade aggregates the admin reporting queries.
type ReportRepositoryFacade interface {
	// GetSummary collects library-wide circulation counters; recentSince
	// anchors the trailing-activity window.
	GetSummary(ctx context.Context, recentSince time.Time) (*domain.ReportSummary, error)

	// ListVerifiedReturns pages RETURNED loans with a verifier, newest return
	// first, plus the total count for the window.
	ListVerifiedReturns(ctx context.Context, window LoanReportWindow, limit, offset int) ([]domain.Loan, int64, error)

	// GetLoanReportStats summarizes the window's verified returns.
	GetLoanReportStats(ctx context.Context, window LoanReportWindow) (*domain.LoanReportStats, error)

	// ListPopularBooks ranks live books by all-time loan count.
	ListPopularBooks(ctx context.Context, limit int) ([]domain.PopularBook, error)

	// ListActiveMembers ranks live borrowers by all-time loan count.
	ListActiveMembers(ctx context.Context, limit int) ([]domain.ActiveMember, error)
}
