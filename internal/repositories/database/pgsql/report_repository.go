package pgsql

import (
	"context"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yomu-app/yomu_backend/internal/apperrors"
	"github.com/yomu-app/yomu_backend/internal/core/domain"
	portsrepo "github.com/yomu-app/yomu_backend/internal/core/ports/repositories"
)

type PgxReportRepository struct {
	BaseRepository
}

// newPgxReportRepository creates a new repository for admin reporting
// aggregates.
func newPgxReportRepository(pool *pgxpool.Pool) portsrepo.ReportRepositoryFacade {
	return &PgxReportRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxReportRepository implements portsrepo.ReportRepositoryFacade
var _ portsrepo.ReportRepositoryFacade = (*PgxReportRepository)(nil)

// GetSummary collects library-wide circulation counters plus a per-status
// breakdown and trailing-window activity.
func (r *PgxReportRepository) GetSummary(ctx context.Context, recentSince time.Time) (*domain.ReportSummary, error) {
	var summary domain.ReportSummary

	counters := `
		SELECT
			(SELECT COUNT(*) FROM books WHERE deleted_at IS NULL),
			(SELECT COUNT(*) FROM users WHERE deleted_at IS NULL AND role = 'SISWA'),
			COUNT(*),
			COUNT(*) FILTER (WHERE status IN ('BORROWED', 'APPROVED')),
			COUNT(*) FILTER (WHERE status = 'OVERDUE'),
			COUNT(*) FILTER (WHERE status = 'PENDING'),
			COUNT(*) FILTER (WHERE created_at >= $1),
			COUNT(*) FILTER (WHERE status = 'RETURNED' AND return_date >= $1)
		FROM loans;
	`
	err := r.Pool.QueryRow(ctx, counters, recentSince).Scan(
		&summary.TotalBooks, &summary.TotalUsers, &summary.TotalLoans,
		&summary.ActiveLoans, &summary.OverdueLoans, &summary.PendingLoans,
		&summary.RecentLoans, &summary.RecentReturns,
	)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to aggregate report counters", err)
	}

	rows, err := r.Pool.Query(ctx, `SELECT status, COUNT(*) FROM loans GROUP BY status;`)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to group loans by status", err)
	}
	defer rows.Close()

	summary.LoansByStatus = make(map[string]int64)
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan status count row", err)
		}
		summary.LoansByStatus[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate status count rows", err)
	}

	return &summary, nil
}

// buildReturnFilter restricts loans to verified returns inside the window.
func buildReturnFilter(window portsrepo.LoanReportWindow) []goqu.Expression {
	exprs := []goqu.Expression{
		goqu.Ex{"l.status": string(domain.LoanReturned)},
		goqu.I("l.verified_by").IsNotNull(),
	}
	if window.Start != nil {
		exprs = append(exprs, goqu.I("l.return_date").Gte(*window.Start))
	}
	if window.End != nil {
		exprs = append(exprs, goqu.I("l.return_date").Lt(*window.End))
	}
	return exprs
}

// ListVerifiedReturns pages the window's verified returns, newest first.
func (r *PgxReportRepository) ListVerifiedReturns(ctx context.Context, window portsrepo.LoanReportWindow, limit, offset int) ([]domain.Loan, int64, error) {
	filter := buildReturnFilter(window)

	countSQL, countArgs, err := pgDialect.
		From(goqu.T("loans").As("l")).
		Select(goqu.COUNT("*")).
		Where(filter...).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, 0, apperrors.NewAppError(500, "failed to build return report count query", err)
	}

	var total int64
	if err := r.Pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, apperrors.NewAppError(500, "failed to count verified returns", err)
	}

	if limit <= 0 {
		limit = 20
	}

	pageSQL, pageArgs, err := pgDialect.
		From(goqu.T("loans").As("l")).
		Select(goqu.L(loanSelectColumns)).
		Join(goqu.T("users").As("u"), goqu.On(goqu.I("u.user_id").Eq(goqu.I("l.user_id")))).
		Join(goqu.T("books").As("b"), goqu.On(goqu.I("b.book_id").Eq(goqu.I("l.book_id")))).
		LeftJoin(goqu.T("users").As("v"), goqu.On(goqu.I("v.user_id").Eq(goqu.I("l.verified_by")))).
		Where(filter...).
		Order(goqu.I("l.return_date").Desc()).
		Limit(uint(limit)).
		Offset(uint(offset)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, 0, apperrors.NewAppError(500, "failed to build return report query", err)
	}

	rows, err := r.Pool.Query(ctx, pageSQL, pageArgs...)
	if err != nil {
		return nil, 0, apperrors.NewAppError(500, "failed to list verified returns", err)
	}
	defer rows.Close()

	loans := make([]domain.Loan, 0, limit)
	for rows.Next() {
		loan, err := scanLoan(rows)
		if err != nil {
			return nil, 0, apperrors.NewAppError(500, "failed to scan return report row", err)
		}
		loans = append(loans, *loan)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperrors.NewAppError(500, "failed to iterate return report rows", err)
	}

	return loans, total, nil
}

// GetLoanReportStats summarizes the window's verified returns.
func (r *PgxReportRepository) GetLoanReportStats(ctx context.Context, window portsrepo.LoanReportWindow) (*domain.LoanReportStats, error) {
	statsSQL, statsArgs, err := pgDialect.
		From(goqu.T("loans").As("l")).
		Select(
			goqu.COUNT("*"),
			goqu.L("COUNT(*) FILTER (WHERE l.return_date <= l.due_date)"),
			goqu.L("COUNT(*) FILTER (WHERE l.book_condition = 'DAMAGED')"),
		).
		Where(buildReturnFilter(window)...).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to build return report stats query", err)
	}

	var stats domain.LoanReportStats
	if err := r.Pool.QueryRow(ctx, statsSQL, statsArgs...).Scan(&stats.TotalReturned, &stats.OnTime, &stats.Damaged); err != nil {
		return nil, apperrors.NewAppError(500, "failed to aggregate return report stats", err)
	}
	return &stats, nil
}

// ListPopularBooks ranks live books by all-time loan count.
func (r *PgxReportRepository) ListPopularBooks(ctx context.Context, limit int) ([]domain.PopularBook, error) {
	query := `
		SELECT b.book_id, b.title, b.author, b.cover_url, c.name, c.color, COUNT(l.loan_id)
		FROM books b
		JOIN categories c ON c.category_id = b.category_id
		LEFT JOIN loans l ON l.book_id = b.book_id
		WHERE b.deleted_at IS NULL
		GROUP BY b.book_id, b.title, b.author, b.cover_url, c.name, c.color
		ORDER BY COUNT(l.loan_id) DESC, b.title ASC
		LIMIT $1;
	`
	rows, err := r.Pool.Query(ctx, query, limit)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to rank popular books", err)
	}
	defer rows.Close()

	books := make([]domain.PopularBook, 0, limit)
	for rows.Next() {
		var book domain.PopularBook
		err := rows.Scan(&book.BookID, &book.Title, &book.Author, &book.CoverURL,
			&book.CategoryName, &book.CategoryColor, &book.LoanCount)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan popular book row", err)
		}
		books = append(books, book)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate popular book rows", err)
	}
	return books, nil
}

// ListActiveMembers ranks live borrowers by all-time loan count.
func (r *PgxReportRepository) ListActiveMembers(ctx context.Context, limit int) ([]domain.ActiveMember, error) {
	query := `
		SELECT u.user_id, u.name, cl.name, u.avatar_url, COUNT(l.loan_id)
		FROM users u
		LEFT JOIN classes cl ON cl.class_id = u.class_id
		LEFT JOIN loans l ON l.user_id = u.user_id
		WHERE u.deleted_at IS NULL AND u.role = 'SISWA'
		GROUP BY u.user_id, u.name, cl.name, u.avatar_url
		ORDER BY COUNT(l.loan_id) DESC, u.name ASC
		LIMIT $1;
	`
	rows, err := r.Pool.Query(ctx, query, limit)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to rank active members", err)
	}
	defer rows.Close()

	members := make([]domain.ActiveMember, 0, limit)
	for rows.Next() {
		var member domain.ActiveMember
		err := rows.Scan(&member.UserID, &member.Name, &member.ClassName,
			&member.AvatarURL, &member.LoanCount)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan active member row", err)
		}
		members = append(members, member)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate active member rows", err)
	}
	return members, nil
}
