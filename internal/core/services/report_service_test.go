package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/yomu-app/yomu_backend/internal/core/domain"
	portsrepo "github.com/yomu-app/yomu_backend/internal/core/ports/repositories"
	"github.com/yomu-app/yomu_backend/internal/dto"
)

type ReportServiceTestSuite struct {
	suite.Suite
	reportRepo *MockReportRepository
	sweep      *MockOverdueSweep
	service    *reportService
	now        time.Time
}

func (suite *ReportServiceTestSuite) SetupTest() {
	suite.reportRepo = new(MockReportRepository)
	suite.sweep = new(MockOverdueSweep)
	suite.service = NewReportService(suite.reportRepo, suite.sweep).(*reportService)
	suite.now = time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	suite.service.now = func() time.Time { return suite.now }
}

func (suite *ReportServiceTestSuite) TestGetSummary_SweepsAndMapsCounters() {
	ctx := context.Background()

	suite.sweep.On("CheckAndUpdateOverdue", ctx).Return(int64(0), nil).Once()
	suite.reportRepo.On("GetSummary", ctx, suite.now.Add(-7*24*time.Hour)).Return(&domain.ReportSummary{
		TotalBooks:    120,
		TotalUsers:    45,
		TotalLoans:    300,
		ActiveLoans:   12,
		OverdueLoans:  3,
		PendingLoans:  5,
		LoansByStatus: map[string]int64{"RETURNED": 280, "BORROWED": 9},
		RecentLoans:   14,
		RecentReturns: 11,
	}, nil).Once()

	summary, err := suite.service.GetSummary(ctx)

	suite.Require().NoError(err)
	suite.Equal(int64(120), summary.TotalBooks)
	suite.Equal(int64(280), summary.LoansByStatus["RETURNED"])
	suite.Equal(int64(14), summary.RecentActivity.NewLoans)
	suite.Equal(int64(11), summary.RecentActivity.Returns)
	suite.reportRepo.AssertExpectations(suite.T())
}

func (suite *ReportServiceTestSuite) TestGetSummary_SweepFailureOnlyLogs() {
	ctx := context.Background()

	suite.sweep.On("CheckAndUpdateOverdue", ctx).Return(int64(0), context.DeadlineExceeded).Once()
	suite.reportRepo.On("GetSummary", ctx, mock.AnythingOfType("time.Time")).
		Return(&domain.ReportSummary{TotalBooks: 1}, nil).Once()

	summary, err := suite.service.GetSummary(ctx)

	suite.Require().NoError(err)
	suite.Equal(int64(1), summary.TotalBooks)
}

func (suite *ReportServiceTestSuite) TestGetLoanReport_EndDateCoversWholeDay() {
	ctx := context.Background()
	params := dto.LoanReportParams{
		PageParams: dto.PageParams{Page: 1, Limit: 20},
		StartDate:  "2025-03-01",
		EndDate:    "2025-03-09",
	}

	wantStart := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	// Exclusive end: the whole of March 9 is inside the window
	wantEnd := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	windowMatch := mock.MatchedBy(func(w portsrepo.LoanReportWindow) bool {
		return w.Start != nil && w.Start.Equal(wantStart) && w.End != nil && w.End.Equal(wantEnd)
	})

	suite.reportRepo.On("ListVerifiedReturns", ctx, windowMatch, 20, 0).
		Return([]domain.Loan{}, int64(42), nil).Once()
	suite.reportRepo.On("GetLoanReportStats", ctx, windowMatch).
		Return(&domain.LoanReportStats{TotalReturned: 42, OnTime: 40, Damaged: 2}, nil).Once()

	report, err := suite.service.GetLoanReport(ctx, params)

	suite.Require().NoError(err)
	suite.Equal(int64(42), report.Meta.Total)
	suite.Equal(3, report.Meta.TotalPages)
	suite.Equal(int64(40), report.Stats.OnTime)
	suite.Equal(int64(2), report.Stats.Damaged)
	suite.reportRepo.AssertExpectations(suite.T())
}

func (suite *ReportServiceTestSuite) TestGetLoanReport_NoWindow() {
	ctx := context.Background()
	params := dto.LoanReportParams{PageParams: dto.PageParams{Page: 1, Limit: 10}}

	openWindow := mock.MatchedBy(func(w portsrepo.LoanReportWindow) bool {
		return w.Start == nil && w.End == nil
	})
	suite.reportRepo.On("ListVerifiedReturns", ctx, openWindow, 10, 0).
		Return([]domain.Loan{}, int64(0), nil).Once()
	suite.reportRepo.On("GetLoanReportStats", ctx, openWindow).
		Return(&domain.LoanReportStats{}, nil).Once()

	report, err := suite.service.GetLoanReport(ctx, params)

	suite.Require().NoError(err)
	suite.Empty(report.Items)
}

func (suite *ReportServiceTestSuite) TestGetPopularBooks_DefaultsLimit() {
	ctx := context.Background()

	suite.reportRepo.On("ListPopularBooks", ctx, 10).Return([]domain.PopularBook{
		{BookID: "b1", Title: "Bumi Manusia", Author: "Pramoedya", CategoryName: "Fiksi", LoanCount: 17},
	}, nil).Once()

	books, err := suite.service.GetPopularBooks(ctx, 0)

	suite.Require().NoError(err)
	suite.Require().Len(books, 1)
	suite.Equal("Bumi Manusia", books[0].Title)
	suite.Equal(int64(17), books[0].LoanCount)
}

func (suite *ReportServiceTestSuite) TestGetActiveMembers_PassesLimit() {
	ctx := context.Background()
	className := "XII RPL 1"

	suite.reportRepo.On("ListActiveMembers", ctx, 5).Return([]domain.ActiveMember{
		{UserID: "u1", Name: "Siti", ClassName: &className, LoanCount: 9},
	}, nil).Once()

	members, err := suite.service.GetActiveMembers(ctx, 5)

	suite.Require().NoError(err)
	suite.Require().Len(members, 1)
	suite.Equal("Siti", members[0].Name)
	suite.Equal(&className, members[0].ClassName)
}

func TestReportServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReportServiceTestSuite))
}
