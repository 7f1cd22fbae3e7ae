package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/yomu-app/yomu_backend/internal/apperrors"
	"github.com/yomu-app/yomu_backend/internal/core/domain"
	portsrepo "github.com/yomu-app/yomu_backend/internal/core/ports/repositories"
	"github.com/yomu-app/yomu_backend/internal/dto"
)

var pgDialect = goqu.Dialect("postgres")

// loanSortColumns maps API sort keys to loan table columns.
var loanSortColumns = map[string]string{
	"loanDate":  "l.loan_date",
	"dueDate":   "l.due_date",
	"createdAt": "l.created_at",
}

type PgxLoanRepository struct {
	BaseRepository
	bookRepo portsrepo.BookStockManager
}

// newPgxLoanRepository creates a new repository for loan data. The stock
// manager is injected so reservation/release run under this repository's
// transactions.
func newPgxLoanRepository(pool *pgxpool.Pool, bookRepo portsrepo.BookStockManager) portsrepo.LoanRepositoryFacade {
	return &PgxLoanRepository{
		BaseRepository: BaseRepository{Pool: pool},
		bookRepo:       bookRepo,
	}
}

// Ensure PgxLoanRepository implements portsrepo.LoanRepositoryFacade
var _ portsrepo.LoanRepositoryFacade = (*PgxLoanRepository)(nil)

const loanSelectColumns = `
	l.loan_id, l.user_id, l.book_id, l.loan_date, l.due_date, l.return_date,
	l.status, l.book_condition, l.fine_amount, l.admin_notes, l.verified_by,
	l.created_at, l.created_by, l.last_updated_at, l.last_updated_by,
	u.user_id, u.name, u.email, u.avatar_url,
	b.book_id, b.title, b.author, b.cover_url, b.isbn,
	v.user_id, v.name`

const loanJoins = `
	FROM loans l
	JOIN users u ON u.user_id = l.user_id
	JOIN books b ON b.book_id = l.book_id
	LEFT JOIN users v ON v.user_id = l.verified_by`

// scanLoan reads one joined loan row into a domain.Loan with summaries.
func scanLoan(row pgx.Row) (*domain.Loan, error) {
	var loan domain.Loan
	var user domain.UserSummary
	var book domain.BookSummary
	var condition *string
	var verifierID, verifierName *string

	err := row.Scan(
		&loan.LoanID, &loan.UserID, &loan.BookID, &loan.LoanDate, &loan.DueDate, &loan.ReturnDate,
		&loan.Status, &condition, &loan.FineAmount, &loan.AdminNotes, &loan.VerifiedBy,
		&loan.CreatedAt, &loan.CreatedBy, &loan.LastUpdatedAt, &loan.LastUpdatedBy,
		&user.UserID, &user.Name, &user.Email, &user.AvatarURL,
		&book.BookID, &book.Title, &book.Author, &book.CoverURL, &book.ISBN,
		&verifierID, &verifierName,
	)
	if err != nil {
		return nil, err
	}

	if condition != nil {
		c := domain.BookCondition(*condition)
		loan.BookCondition = &c
	}
	loan.User = &user
	loan.Book = &book
	if verifierID != nil {
		loan.Verifier = &domain.UserSummary{UserID: *verifierID, Name: *verifierName}
	}
	return &loan, nil
}

// FindLoanByID retrieves a loan with user/book/verifier summaries attached.
func (r *PgxLoanRepository) FindLoanByID(ctx context.Context, loanID string) (*domain.Loan, error) {
	query := `SELECT` + loanSelectColumns + loanJoins + ` WHERE l.loan_id = $1;`

	loan, err := scanLoan(r.Pool.QueryRow(ctx, query, loanID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find loan by ID "+loanID, err)
	}
	return loan, nil
}

// FindActiveLoan returns the user's PENDING/APPROVED/BORROWED loan for the
// book, or ErrNotFound.
func (r *PgxLoanRepository) FindActiveLoan(ctx context.Context, userID, bookID string) (*domain.Loan, error) {
	query := `SELECT` + loanSelectColumns + loanJoins + `
	WHERE l.user_id = $1 AND l.book_id = $2 AND l.status = ANY($3)
	LIMIT 1;`

	statuses := []string{string(domain.LoanPending), string(domain.LoanApproved), string(domain.LoanBorrowed)}
	loan, err := scanLoan(r.Pool.QueryRow(ctx, query, userID, bookID, statuses))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find active loan", err)
	}
	return loan, nil
}

// buildLoanFilter translates list params into goqu expressions.
func buildLoanFilter(params dto.ListLoansParams) []goqu.Expression {
	exprs := make([]goqu.Expression, 0, 3)
	if params.Status != "" {
		exprs = append(exprs, goqu.Ex{"l.status": params.Status})
	}
	if params.UserID != "" {
		exprs = append(exprs, goqu.Ex{"l.user_id": params.UserID})
	}
	if params.BookID != "" {
		exprs = append(exprs, goqu.Ex{"l.book_id": params.BookID})
	}
	return exprs
}

// ListLoans retrieves a filtered, sorted page of loans plus the total count.
func (r *PgxLoanRepository) ListLoans(ctx context.Context, params dto.ListLoansParams) ([]domain.Loan, int64, error) {
	filter := buildLoanFilter(params)

	countSQL, countArgs, err := pgDialect.
		From(goqu.T("loans").As("l")).
		Select(goqu.COUNT("*")).
		Where(filter...).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, 0, apperrors.NewAppError(500, "failed to build loan count query", err)
	}

	var total int64
	if err := r.Pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, apperrors.NewAppError(500, "failed to count loans", err)
	}

	sortCol, ok := loanSortColumns[params.SortBy]
	if !ok {
		sortCol = "l.created_at"
	}
	order := goqu.I(sortCol).Desc()
	if params.SortOrder == "asc" {
		order = goqu.I(sortCol).Asc()
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 10
	}

	pageSQL, pageArgs, err := pgDialect.
		From(goqu.T("loans").As("l")).
		Select(goqu.L(loanSelectColumns)).
		Join(goqu.T("users").As("u"), goqu.On(goqu.I("u.user_id").Eq(goqu.I("l.user_id")))).
		Join(goqu.T("books").As("b"), goqu.On(goqu.I("b.book_id").Eq(goqu.I("l.book_id")))).
		LeftJoin(goqu.T("users").As("v"), goqu.On(goqu.I("v.user_id").Eq(goqu.I("l.verified_by")))).
		Where(filter...).
		Order(order).
		Limit(uint(limit)).
		Offset(uint(params.Offset())).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, 0, apperrors.NewAppError(500, "failed to build loan list query", err)
	}

	rows, err := r.Pool.Query(ctx, pageSQL, pageArgs...)
	if err != nil {
		return nil, 0, apperrors.NewAppError(500, "failed to list loans", err)
	}
	defer rows.Close()

	loans := make([]domain.Loan, 0, limit)
	for rows.Next() {
		loan, err := scanLoan(rows)
		if err != nil {
			return nil, 0, apperrors.NewAppError(500, "failed to scan loan row", err)
		}
		loans = append(loans, *loan)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperrors.NewAppError(500, "failed to iterate loan rows", err)
	}

	return loans, total, nil
}

// CountLoansByBookAndStatuses counts a book's loans in the given statuses.
func (r *PgxLoanRepository) CountLoansByBookAndStatuses(ctx context.Context, bookID string, statuses []domain.LoanStatus) (int64, error) {
	strs := make([]string, len(statuses))
	for i, s := range statuses {
		strs[i] = string(s)
	}

	var count int64
	query := `SELECT COUNT(*) FROM loans WHERE book_id = $1 AND status = ANY($2);`
	if err := r.Pool.QueryRow(ctx, query, bookID, strs).Scan(&count); err != nil {
		return 0, apperrors.NewAppError(500, "failed to count loans for book "+bookID, err)
	}
	return count, nil
}

// SaveLoan persists a new PENDING loan.
func (r *PgxLoanRepository) SaveLoan(ctx context.Context, loan domain.Loan) error {
	query := `
		INSERT INTO loans (loan_id, user_id, book_id, loan_date, due_date, status,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query,
		loan.LoanID, loan.UserID, loan.BookID, loan.LoanDate, loan.DueDate, loan.Status,
		loan.CreatedAt, loan.CreatedBy, loan.LastUpdatedAt, loan.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to save loan "+loan.LoanID, err)
	}
	return nil
}

// ApproveLoan reserves one stock unit and marks the loan APPROVED as one
// atomic unit. The conditional decrement runs first; when it affects no row
// the transaction rolls back and the loan stays PENDING.
func (r *PgxLoanRepository) ApproveLoan(ctx context.Context, loanID, bookID, adminID string, notes *string, now time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := r.bookRepo.ReserveStockInTx(ctx, tx, bookID); err != nil {
		// ErrConflict when the last copy was taken by a concurrent approval.
		return err
	}

	// The status predicate closes the gap between the service's status read
	// and this write: a concurrent transition leaves zero rows and the
	// reservation rolls back.
	query := `
		UPDATE loans
		SET status = $2, admin_notes = $3, verified_by = $4, last_updated_at = $5, last_updated_by = $4
		WHERE loan_id = $1 AND status = $6;
	`
	ct, err := tx.Exec(ctx, query, loanID, domain.LoanApproved, notes, adminID, now, domain.LoanPending)
	if err != nil {
		return apperrors.NewAppError(500, "failed to approve loan "+loanID, err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("%w: loan %s is no longer PENDING", apperrors.ErrInvalidState, loanID)
	}

	return r.Commit(ctx, tx)
}

// RejectLoan sets the loan REJECTED. No stock effect, none was reserved.
func (r *PgxLoanRepository) RejectLoan(ctx context.Context, loanID, adminID string, notes *string, now time.Time) error {
	query := `
		UPDATE loans
		SET status = $2, admin_notes = $3, verified_by = $4, last_updated_at = $5, last_updated_by = $4
		WHERE loan_id = $1 AND status = $6;
	`
	ct, err := r.Pool.Exec(ctx, query, loanID, domain.LoanRejected, notes, adminID, now, domain.LoanPending)
	if err != nil {
		return apperrors.NewAppError(500, "failed to reject loan "+loanID, err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("%w: loan %s is no longer PENDING", apperrors.ErrInvalidState, loanID)
	}
	return nil
}

// MarkBorrowed sets the loan BORROWED, recording the handoff admin.
func (r *PgxLoanRepository) MarkBorrowed(ctx context.Context, loanID, adminID string, now time.Time) error {
	query := `
		UPDATE loans
		SET status = $2, verified_by = $3, last_updated_at = $4, last_updated_by = $3
		WHERE loan_id = $1 AND status = $5;
	`
	ct, err := r.Pool.Exec(ctx, query, loanID, domain.LoanBorrowed, adminID, now, domain.LoanApproved)
	if err != nil {
		return apperrors.NewAppError(500, "failed to mark loan borrowed "+loanID, err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("%w: loan %s is no longer APPROVED", apperrors.ErrInvalidState, loanID)
	}
	return nil
}

// CompleteReturn finishes a loan in one transaction: RETURNED status plus an
// optional stock release for GOOD-condition returns.
func (r *PgxLoanRepository) CompleteReturn(ctx context.Context, loanID, bookID string, condition domain.BookCondition, returnDate time.Time, releaseStock bool) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		UPDATE loans
		SET status = $2, book_condition = $3, return_date = $4, last_updated_at = $4
		WHERE loan_id = $1 AND status = ANY($5);
	`
	returnable := []string{string(domain.LoanBorrowed), string(domain.LoanOverdue)}
	ct, err := tx.Exec(ctx, query, loanID, domain.LoanReturned, condition, returnDate, returnable)
	if err != nil {
		return apperrors.NewAppError(500, "failed to complete return for loan "+loanID, err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("%w: loan %s is not returnable", apperrors.ErrInvalidState, loanID)
	}

	if releaseStock {
		if err := r.bookRepo.ReleaseStockInTx(ctx, tx, bookID); err != nil {
			return err
		}
	}

	return r.Commit(ctx, tx)
}

// MarkReturning parks the loan for admin verification. Stock stays reserved.
func (r *PgxLoanRepository) MarkReturning(ctx context.Context, loanID string, condition domain.BookCondition, returnDate time.Time) error {
	query := `
		UPDATE loans
		SET status = $2, book_condition = $3, return_date = $4, last_updated_at = $4
		WHERE loan_id = $1 AND status = ANY($5);
	`
	returnable := []string{string(domain.LoanBorrowed), string(domain.LoanOverdue)}
	ct, err := r.Pool.Exec(ctx, query, loanID, domain.LoanReturning, condition, returnDate, returnable)
	if err != nil {
		return apperrors.NewAppError(500, "failed to mark loan returning "+loanID, err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("%w: loan %s is not returnable", apperrors.ErrInvalidState, loanID)
	}
	return nil
}

// VerifyReturn finalizes a RETURNING loan; the stock release (GOOD final
// condition only) commits together with the status write.
func (r *PgxLoanRepository) VerifyReturn(ctx context.Context, loanID, bookID string, condition domain.BookCondition, fine *decimal.Decimal, notes *string, adminID string, releaseStock bool, now time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		UPDATE loans
		SET status = $2, book_condition = $3, fine_amount = $4, admin_notes = $5,
			verified_by = $6, last_updated_at = $7, last_updated_by = $6
		WHERE loan_id = $1 AND status = $8;
	`
	ct, err := tx.Exec(ctx, query, loanID, domain.LoanReturned, condition, fine, notes, adminID, now, domain.LoanReturning)
	if err != nil {
		return apperrors.NewAppError(500, "failed to verify return for loan "+loanID, err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("%w: loan %s is no longer RETURNING", apperrors.ErrInvalidState, loanID)
	}

	if releaseStock {
		if err := r.bookRepo.ReleaseStockInTx(ctx, tx, bookID); err != nil {
			return err
		}
	}

	return r.Commit(ctx, tx)
}

// MarkOverdueLoans bulk-transitions time-expired active loans to OVERDUE.
func (r *PgxLoanRepository) MarkOverdueLoans(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `
		UPDATE loans
		SET status = $1, last_updated_at = now()
		WHERE status = ANY($2) AND due_date < $3;
	`
	statuses := []string{string(domain.LoanBorrowed), string(domain.LoanApproved)}
	ct, err := r.Pool.Exec(ctx, query, domain.LoanOverdue, statuses, cutoff)
	if err != nil {
		return 0, apperrors.NewAppError(500, "failed to mark overdue loans", err)
	}
	return ct.RowsAffected(), nil
}
