package services

import (
	"context"
	"fmt"
	"time"

	"github.com/yomu-app/yomu_backend/internal/apperrors"
	portsrepo "github.com/yomu-app/yomu_backend/internal/core/ports/repositories"
	portssvc "github.com/yomu-app/yomu_backend/internal/core/ports/services"
	"github.com/yomu-app/yomu_backend/internal/dto"
)

const (
	reportDateLayout     = "2006-01-02"
	recentActivityWindow = 7 * 24 * time.Hour
	defaultRankingLimit  = 10
)

// reportService assembles the admin reporting payloads from storage
// aggregates.
type reportService struct {
	BaseService
	reportRepo portsrepo.ReportRepositoryFacade
	overdueSvc portssvc.LoanOverdueSvc
	now        func() time.Time
}

// NewReportService creates a new ReportService.
func NewReportService(reportRepo portsrepo.ReportRepositoryFacade, overdueSvc portssvc.LoanOverdueSvc) portssvc.ReportSvcFacade {
	return &reportService{reportRepo: reportRepo, overdueSvc: overdueSvc, now: time.Now}
}

// Ensure reportService implements the portssvc.ReportSvcFacade interface
var _ portssvc.ReportSvcFacade = (*reportService)(nil)

// GetSummary builds the reports landing page. The overdue sweep runs first so
// the status breakdown reflects current statuses.
func (s *reportService) GetSummary(ctx context.Context) (*dto.ReportSummaryResponse, error) {
	if _, err := s.overdueSvc.CheckAndUpdateOverdue(ctx); err != nil {
		s.LogError(ctx, err, "Overdue sweep before report summary failed")
	}

	summary, err := s.reportRepo.GetSummary(ctx, s.now().Add(-recentActivityWindow))
	if err != nil {
		return nil, fmt.Errorf("failed to collect report summary: %w", err)
	}

	return &dto.ReportSummaryResponse{
		TotalBooks:    summary.TotalBooks,
		TotalUsers:    summary.TotalUsers,
		TotalLoans:    summary.TotalLoans,
		ActiveLoans:   summary.ActiveLoans,
		OverdueLoans:  summary.OverdueLoans,
		PendingLoans:  summary.PendingLoans,
		LoansByStatus: summary.LoansByStatus,
		RecentActivity: dto.RecentActivity{
			NewLoans: summary.RecentLoans,
			Returns:  summary.RecentReturns,
		},
	}, nil
}

// reportWindow converts the civil-day params into a half-open time range. The
// end date is advanced one day so it covers its whole civil day.
func reportWindow(params dto.LoanReportParams) (portsrepo.LoanReportWindow, error) {
	var window portsrepo.LoanReportWindow
	if params.StartDate != "" {
		start, err := time.Parse(reportDateLayout, params.StartDate)
		if err != nil {
			return window, fmt.Errorf("%w: invalid startDate %q", apperrors.ErrValidation, params.StartDate)
		}
		window.Start = &start
	}
	if params.EndDate != "" {
		end, err := time.Parse(reportDateLayout, params.EndDate)
		if err != nil {
			return window, fmt.Errorf("%w: invalid endDate %q", apperrors.ErrValidation, params.EndDate)
		}
		endExclusive := end.AddDate(0, 0, 1)
		window.End = &endExclusive
	}
	return window, nil
}

// GetLoanReport pages the window's verified returns with their summary.
func (s *reportService) GetLoanReport(ctx context.Context, params dto.LoanReportParams) (*dto.LoanReportResponse, error) {
	window, err := reportWindow(params)
	if err != nil {
		return nil, err
	}

	loans, total, err := s.reportRepo.ListVerifiedReturns(ctx, window, params.Limit, params.Offset())
	if err != nil {
		return nil, fmt.Errorf("failed to list verified returns: %w", err)
	}

	stats, err := s.reportRepo.GetLoanReportStats(ctx, window)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize report window: %w", err)
	}

	items := make([]dto.LoanResponse, len(loans))
	for i := range loans {
		items[i] = dto.ToLoanResponse(&loans[i])
	}

	return &dto.LoanReportResponse{
		Items: items,
		Meta:  dto.NewPaginationMeta(params.Page, params.Limit, total),
		Stats: dto.LoanReportStatsDTO{
			TotalReturned: stats.TotalReturned,
			OnTime:        stats.OnTime,
			Damaged:       stats.Damaged,
		},
	}, nil
}

// GetPopularBooks ranks books by loan count.
func (s *reportService) GetPopularBooks(ctx context.Context, limit int) ([]dto.PopularBookItem, error) {
	if limit <= 0 {
		limit = defaultRankingLimit
	}

	books, err := s.reportRepo.ListPopularBooks(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to rank popular books: %w", err)
	}

	items := make([]dto.PopularBookItem, len(books))
	for i := range books {
		items[i] = dto.ToPopularBookItem(&books[i])
	}
	return items, nil
}

// GetActiveMembers ranks borrowers by loan count.
func (s *reportService) GetActiveMembers(ctx context.Context, limit int) ([]dto.ActiveMemberItem, error) {
	if limit <= 0 {
		limit = defaultRankingLimit
	}

	members, err := s.reportRepo.ListActiveMembers(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to rank active members: %w", err)
	}

	items := make([]dto.ActiveMemberItem, len(members))
	for i := range members {
		items[i] = dto.ToActiveMemberItem(&members[i])
	}
	return items, nil
}
