package services

import (
	"context"

	"github.com/yomu-app/yomu_backend/internal/dto"
)

// ReportSvcFacade defines the admin reporting operations.
type ReportSvcFacade interface {
	GetSummary(ctx context.Context) (*dto.ReportSummaryResponse, error)
	GetLoanReport(ctx context.Context, params dto.LoanReportParams) (*dto.LoanReportResponse, error)
	GetPopularBooks(ctx context.Context, limit int) ([]dto.PopularBookItem, error)
	GetActiveMembers(ctx context.Context, limit int) ([]dto.ActiveMemberItem, error)
}
