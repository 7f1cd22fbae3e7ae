package services

import (
	"context"
	"fmt"
	"time"

	"github.com/yomu-app/yomu_backend/internal/core/domain"
	portsrepo "github.com/yomu-app/yomu_backend/internal/core/ports/repositories"
	portssvc "github.com/yomu-app/yomu_backend/internal/core/ports/services"
	"github.com/yomu-app/yomu_backend/internal/dto"
)

// statsService assembles dashboard payloads from storage aggregates.
type statsService struct {
	BaseService
	statsRepo  portsrepo.StatsRepositoryFacade
	overdueSvc portssvc.LoanOverdueSvc
}

// NewStatsService creates a new StatsService.
func NewStatsService(statsRepo portsrepo.StatsRepositoryFacade, overdueSvc portssvc.LoanOverdueSvc) portssvc.StatsSvcFacade {
	return &statsService{statsRepo: statsRepo, overdueSvc: overdueSvc}
}

// Ensure statsService implements the portssvc.StatsSvcFacade interface
var _ portssvc.StatsSvcFacade = (*statsService)(nil)

// GetSiswaStats builds the borrower dashboard. The overdue sweep runs first
// so the counters reflect current statuses.
func (s *statsService) GetSiswaStats(ctx context.Context, userID string) (*dto.SiswaStatsResponse, error) {
	if _, err := s.overdueSvc.CheckAndUpdateOverdue(ctx); err != nil {
		s.LogError(ctx, err, "Overdue sweep before stats failed")
	}

	stats, err := s.statsRepo.GetSiswaStats(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to collect borrower stats: %w", err)
	}

	current := make([]dto.CurrentLoanItem, 0, len(stats.CurrentLoans))
	for i := range stats.CurrentLoans {
		loan := &stats.CurrentLoans[i]
		item := dto.CurrentLoanItem{
			LoanID:    loan.LoanID,
			Status:    string(loan.Status),
			DueDate:   loan.DueDate,
			IsOverdue: loan.Status == domain.LoanOverdue,
		}
		if loan.Book != nil {
			item.Book = *dto.ToBookSummaryDTO(loan.Book)
		}
		current = append(current, item)
	}

	return &dto.SiswaStatsResponse{
		ActiveLoans:    stats.ActiveLoans,
		BorrowedBooks:  stats.BorrowedBooks,
		TotalLoans:     stats.TotalLoans,
		FavoriteCount:  stats.FavoriteCount,
		UnreadMessages: stats.UnreadMessages,
		OverdueCount:   stats.OverdueCount,
		NearestDueDate: stats.NearestDueDate,
		CurrentLoans:   current,
	}, nil
}

// GetAdminStats builds the library-wide dashboard.
func (s *statsService) GetAdminStats(ctx context.Context) (*dto.AdminStatsResponse, error) {
	if _, err := s.overdueSvc.CheckAndUpdateOverdue(ctx); err != nil {
		s.LogError(ctx, err, "Overdue sweep before stats failed")
	}

	stats, err := s.statsRepo.GetAdminStats(ctx, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to collect admin stats: %w", err)
	}

	trend := 0.0
	if stats.LoansLastMonth > 0 {
		trend = float64(stats.LoansThisMonth-stats.LoansLastMonth) / float64(stats.LoansLastMonth) * 100
	} else if stats.LoansThisMonth > 0 {
		trend = 100
	}

	return &dto.AdminStatsResponse{
		TotalBooks:        stats.TotalBooks,
		AvailableBooks:    stats.AvailableBooks,
		TotalUsers:        stats.TotalUsers,
		ActiveUsers:       stats.ActiveUsers,
		PendingLoans:      stats.PendingLoans,
		ActiveLoans:       stats.ActiveLoans,
		OverdueLoans:      stats.OverdueLoans,
		ReturningLoans:    stats.ReturningLoans,
		LoansThisMonth:    stats.LoansThisMonth,
		LoansLastMonth:    stats.LoansLastMonth,
		NewUsersThisMonth: stats.NewUsersThisMonth,
		LoansTrend:        trend,
	}, nil
}
