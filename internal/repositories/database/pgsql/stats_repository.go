package pgsql

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yomu-app/yomu_backend/internal/apperrors"
	"github.com/yomu-app/yomu_backend/internal/core/domain"
	portsrepo "github.com/yomu-app/yomu_backend/internal/core/ports/repositories"
)

type PgxStatsRepository struct {
	BaseRepository
}

// newPgxStatsRepository creates a new repository for dashboard aggregates.
func newPgxStatsRepository(pool *pgxpool.Pool) portsrepo.StatsRepositoryFacade {
	return &PgxStatsRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxStatsRepository implements portsrepo.StatsRepositoryFacade
var _ portsrepo.StatsRepositoryFacade = (*PgxStatsRepository)(nil)

// GetSiswaStats collects a borrower's dashboard counters and current loans.
func (r *PgxStatsRepository) GetSiswaStats(ctx context.Context, userID string) (*domain.SiswaStats, error) {
	var stats domain.SiswaStats

	counters := `
		SELECT
			COUNT(*) FILTER (WHERE status IN ('PENDING', 'APPROVED', 'BORROWED', 'OVERDUE')),
			COUNT(*) FILTER (WHERE status IN ('BORROWED', 'OVERDUE')),
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'OVERDUE'),
			MIN(due_date) FILTER (WHERE status IN ('BORROWED', 'OVERDUE'))
		FROM loans WHERE user_id = $1;
	`
	err := r.Pool.QueryRow(ctx, counters, userID).Scan(
		&stats.ActiveLoans, &stats.BorrowedBooks, &stats.TotalLoans,
		&stats.OverdueCount, &stats.NearestDueDate,
	)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to aggregate loan counters", err)
	}

	sideCounters := `
		SELECT
			(SELECT COUNT(*) FROM favorites WHERE user_id = $1),
			(SELECT COUNT(*) FROM messages WHERE receiver_id = $1 AND NOT is_read);
	`
	if err := r.Pool.QueryRow(ctx, sideCounters, userID).Scan(&stats.FavoriteCount, &stats.UnreadMessages); err != nil {
		return nil, apperrors.NewAppError(500, "failed to aggregate side counters", err)
	}

	currentLoans := `SELECT` + loanSelectColumns + loanJoins + `
	WHERE l.user_id = $1 AND l.status IN ('APPROVED', 'BORROWED', 'OVERDUE')
	ORDER BY l.due_date ASC;`

	rows, err := r.Pool.Query(ctx, currentLoans, userID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list current loans", err)
	}
	defer rows.Close()

	for rows.Next() {
		loan, err := scanLoan(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan current loan row", err)
		}
		stats.CurrentLoans = append(stats.CurrentLoans, *loan)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate current loan rows", err)
	}

	return &stats, nil
}

// GetAdminStats collects library-wide counters. Month windows are calendar
// months anchored at now.
func (r *PgxStatsRepository) GetAdminStats(ctx context.Context, now time.Time) (*domain.AdminStats, error) {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	lastMonthStart := monthStart.AddDate(0, -1, 0)

	var stats domain.AdminStats

	bookUserCounters := `
		SELECT
			(SELECT COUNT(*) FROM books WHERE deleted_at IS NULL),
			(SELECT COALESCE(SUM(available_stock), 0) FROM books WHERE deleted_at IS NULL),
			(SELECT COUNT(*) FROM users WHERE deleted_at IS NULL),
			(SELECT COUNT(*) FROM users WHERE deleted_at IS NULL AND is_active),
			(SELECT COUNT(*) FROM users WHERE deleted_at IS NULL AND created_at >= $1);
	`
	err := r.Pool.QueryRow(ctx, bookUserCounters, monthStart).Scan(
		&stats.TotalBooks, &stats.AvailableBooks, &stats.TotalUsers,
		&stats.ActiveUsers, &stats.NewUsersThisMonth,
	)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to aggregate book/user counters", err)
	}

	loanCounters := `
		SELECT
			COUNT(*) FILTER (WHERE status = 'PENDING'),
			COUNT(*) FILTER (WHERE status IN ('APPROVED', 'BORROWED')),
			COUNT(*) FILTER (WHERE status = 'OVERDUE'),
			COUNT(*) FILTER (WHERE status = 'RETURNING'),
			COUNT(*) FILTER (WHERE created_at >= $1),
			COUNT(*) FILTER (WHERE created_at >= $2 AND created_at < $1)
		FROM loans;
	`
	err = r.Pool.QueryRow(ctx, loanCounters, monthStart, lastMonthStart).Scan(
		&stats.PendingLoans, &stats.ActiveLoans, &stats.OverdueLoans,
		&stats.ReturningLoans, &stats.LoansThisMonth, &stats.LoansLastMonth,
	)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to aggregate loan counters", err)
	}

	return &stats, nil
}
