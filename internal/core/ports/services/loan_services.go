package services

import (
	"context"

	"github.com/yomu-app/yomu_backend/internal/core/domain"
	"github.com/yomu-app/yomu_backend/internal/dto"
)

// LoanReaderSvc defines read operations over loans.
type LoanReaderSvc interface {
	// GetLoanByID retrieves a loan with its user/book/verifier summaries.
	GetLoanByID(ctx context.Context, loanID string) (*domain.Loan, error)

	// ListLoans retrieves a filtered, sorted page of loans. An overdue sweep
	// runs first so reported statuses are current.
	ListLoans(ctx context.Context, params dto.ListLoansParams) (*dto.ListLoansResponse, error)
}

// LoanBorrowerSvc defines the borrower-facing transitions.
type LoanBorrowerSvc interface {
	// CreateLoan opens a PENDING loan request for the user. Stock is not
	// reserved until approval.
	CreateLoan(ctx context.Context, userID string, req dto.CreateLoanRequest) (*domain.Loan, error)

	// RequestReturn records the borrower's return. GOOD condition completes
	// the loan directly; DAMAGED/LOST parks it in RETURNING for verification.
	RequestReturn(ctx context.Context, loanID, userID string, req dto.ReturnBookRequest) (*domain.Loan, error)
}

// LoanAdminSvc defines the admin-facing transitions.
type LoanAdminSvc interface {
	ApproveLoan(ctx context.Context, loanID, adminID string, req dto.AdminActionRequest) (*domain.Loan, error)
	RejectLoan(ctx context.Context, loanID, adminID string, req dto.AdminActionRequest) (*domain.Loan, error)
	MarkAsBorrowed(ctx context.Context, loanID, adminID string) (*domain.Loan, error)
	VerifyReturn(ctx context.Context, loanID, adminID string, req dto.AdminActionRequest) (*domain.Loan, error)
}

// LoanOverdueSvc defines the time-based reclassification pass.
type LoanOverdueSvc interface {
	// CheckAndUpdateOverdue bulk-transitions time-expired active loans to
	// OVERDUE and returns the number updated. Idempotent.
	CheckAndUpdateOverdue(ctx context.Context) (int64, error)
}

// LoanSvcFacade combines all loan-related service interfaces
type LoanSvcFacade interface {
	LoanReaderSvc
	LoanBorrowerSvc
	LoanAdminSvc
	LoanOverdueSvc
}
