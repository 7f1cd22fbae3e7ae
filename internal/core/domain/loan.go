package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LoanStatus is the state of a loan in its lifecycle.
//
// Allowed transitions:
//
//	PENDING  -> APPROVED | REJECTED
//	APPROVED -> BORROWED | OVERDUE (time-triggered)
//	BORROWED -> OVERDUE (time-triggered)
//	BORROWED | OVERDUE -> RETURNED (good-condition fast path) | RETURNING
//	RETURNING -> RETURNED
//
// REJECTED and RETURNED are terminal.
type LoanStatus string

const (
	LoanPending   LoanStatus = "PENDING"
	LoanApproved  LoanStatus = "APPROVED"
	LoanRejected  LoanStatus = "REJECTED"
	LoanBorrowed  LoanStatus = "BORROWED"
	LoanReturning LoanStatus = "RETURNING"
	LoanReturned  LoanStatus = "RETURNED"
	LoanOverdue   LoanStatus = "OVERDUE"
)

// ActiveLoanStatuses are the statuses that block a second loan of the same
// book by the same user.
var ActiveLoanStatuses = []LoanStatus{LoanPending, LoanApproved, LoanBorrowed}

// BookCondition is the reported physical state of a copy at return time.
type BookCondition string

const (
	ConditionGood    BookCondition = "GOOD"
	ConditionDamaged BookCondition = "DAMAGED"
	ConditionLost    BookCondition = "LOST"
)

// Loan is a single borrow transaction of one book copy by one user.
// Loans are never physically deleted; terminal rows are retained for
// reporting.
type Loan struct {
	LoanID        string           `json:"loanID"` // Primary Key (UUID)
	UserID        string           `json:"userID"`
	BookID        string           `json:"bookID"`
	LoanDate      time.Time        `json:"loanDate"`
	DueDate       time.Time        `json:"dueDate"`
	ReturnDate    *time.Time       `json:"returnDate,omitempty"`
	Status        LoanStatus       `json:"status"`
	BookCondition *BookCondition   `json:"bookCondition,omitempty"`
	FineAmount    *decimal.Decimal `json:"fineAmount,omitempty"`
	AdminNotes    *string          `json:"adminNotes,omitempty"`
	VerifiedBy    *string          `json:"verifiedBy,omitempty"` // Admin UserID
	AuditFields

	User     *UserSummary `json:"user,omitempty"`
	Book     *BookSummary `json:"book,omitempty"`
	Verifier *UserSummary `json:"verifier,omitempty"`
}
