package repositories

import (
	"context"
	"time"

	"github.com/yomu-app/yomu_backend/internal/core/domain"
)

// StatsRepositoryFacade aggregates dashboard counters straight from storage.
type StatsRepositoryFacade interface {
	// GetSiswaStats collects a borrower's dashboard counters and current loans.
	GetSiswaStats(ctx context.Context, userID string) (*domain.SiswaStats, error)

	// GetAdminStats collects library-wide counters for the month windows
	// anchored at the given time.
	GetAdminStats(ctx context.Context, now time.Time) (*domain.AdminStats, error)
}
