package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/yomu-app/yomu_backend/internal/core/domain"
	"github.com/yomu-app/yomu_backend/internal/dto"
)

// LoanReader defines read operations for loan data
type LoanReader interface {
	// FindLoanByID retrieves a loan with user/book/verifier summaries attached.
	FindLoanByID(ctx context.Context, loanID string) (*domain.Loan, error)

	// FindActiveLoan returns the user's loan for the book that is currently in
	// PENDING, APPROVED or BORROWED, or ErrNotFound when there is none.
	FindActiveLoan(ctx context.Context, userID, bookID string) (*domain.Loan, error)

	// ListLoans retrieves a filtered, sorted page of loans plus the total
	// matching count.
	ListLoans(ctx context.Context, params dto.ListLoansParams) ([]domain.Loan, int64, error)

	// CountLoansByBookAndStatuses counts a book's loans in the given statuses.
	CountLoansByBookAndStatuses(ctx context.Context, bookID string, statuses []domain.LoanStatus) (int64, error)
}

// LoanWriter defines the status-transition writes. Every method that also
// touches stock performs both writes inside one database transaction, and
// every transition guards on its source status at write time, returning
// apperrors.ErrInvalidState when a concurrent transition got there first.
type LoanWriter interface {
	// SaveLoan persists a new PENDING loan.
	SaveLoan(ctx context.Context, loan domain.Loan) error

	// ApproveLoan reserves one unit of the book's available stock and sets the
	// loan APPROVED as a single atomic unit. It returns apperrors.ErrConflict
	// (and leaves the loan PENDING) when the conditional stock decrement
	// affects no row.
	ApproveLoan(ctx context.Context, loanID, bookID, adminID string, notes *string, now time.Time) error

	// RejectLoan sets the loan REJECTED. No stock effect.
	RejectLoan(ctx context.Context, loanID, adminID string, notes *string, now time.Time) error

	// MarkBorrowed sets the loan BORROWED, recording the handoff admin.
	MarkBorrowed(ctx context.Context, loanID, adminID string, now time.Time) error

	// CompleteReturn sets the loan RETURNED with the given condition and,
	// when releaseStock is true, increments the book's available stock in the
	// same transaction.
	CompleteReturn(ctx context.Context, loanID, bookID string, condition domain.BookCondition, returnDate time.Time, releaseStock bool) error

	// MarkReturning sets the loan RETURNING with the borrower-reported
	// condition, awaiting admin verification. No stock effect.
	MarkReturning(ctx context.Context, loanID string, condition domain.BookCondition, returnDate time.Time) error

	// VerifyReturn finalizes a RETURNING loan: RETURNED status, final
	// condition, optional fine/notes, verifying admin, and a stock release in
	// the same transaction when releaseStock is true.
	VerifyReturn(ctx context.Context, loanID, bookID string, condition domain.BookCondition, fine *decimal.Decimal, notes *string, adminID string, releaseStock bool, now time.Time) error

	// MarkOverdueLoans bulk-transitions BORROWED/APPROVED loans whose due date
	// is strictly before cutoff to OVERDUE and returns the number updated.
	MarkOverdueLoans(ctx context.Context, cutoff time.Time) (int64, error)
}

// LoanRepositoryFacade combines all loan-related repository interfaces
type LoanRepositoryFacade interface {
	LoanReader
	LoanWriter
}
