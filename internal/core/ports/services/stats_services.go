package services

import (
	"context"

	"github.com/yomu-app/yomu_backend/internal/dto"
)

// StatsSvcFacade defines dashboard aggregation operations.
type StatsSvcFacade interface {
	GetSiswaStats(ctx context.Context, userID string) (*dto.SiswaStatsResponse, error)
	GetAdminStats(ctx context.Context) (*dto.AdminStatsResponse, error)
}
