package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/yomu-app/yomu_backend/internal/apperrors"
	"github.com/yomu-app/yomu_backend/internal/core/domain"
	"github.com/yomu-app/yomu_backend/internal/dto"
	"github.com/yomu-app/yomu_backend/internal/utils/timeday"
)

type LoanServiceTestSuite struct {
	suite.Suite
	loanRepo *MockLoanRepository
	bookRepo *MockBookRepository
	userRepo *MockUserRepository
	notifier *MockMessageSender
	service  *loanService

	now time.Time
}

func (suite *LoanServiceTestSuite) SetupTest() {
	suite.loanRepo = new(MockLoanRepository)
	suite.bookRepo = new(MockBookRepository)
	suite.userRepo = new(MockUserRepository)
	suite.notifier = new(MockMessageSender)

	suite.service = NewLoanService(suite.loanRepo, suite.bookRepo, suite.userRepo, suite.notifier).(*loanService)

	// Fixed clock: mid-morning WIB
	suite.now = time.Date(2025, 3, 10, 10, 0, 0, 0, timeday.WIB)
	suite.service.now = func() time.Time { return suite.now }
}

// makeLoan builds a loan due 7 days after the suite clock, with the summaries
// the repository attaches on reads.
func (suite *LoanServiceTestSuite) makeLoan(status domain.LoanStatus) *domain.Loan {
	return &domain.Loan{
		LoanID:   uuid.NewString(),
		UserID:   uuid.NewString(),
		BookID:   uuid.NewString(),
		LoanDate: suite.now,
		DueDate:  suite.now.AddDate(0, 0, 7),
		Status:   status,
		User:     &domain.UserSummary{UserID: uuid.NewString(), Name: "Budi"},
		Book:     &domain.BookSummary{BookID: uuid.NewString(), Title: "Laskar Pelangi"},
	}
}

// --- CreateLoan ---

func (suite *LoanServiceTestSuite) TestCreateLoan_DefaultDuration() {
	ctx := context.Background()
	userID := uuid.NewString()
	bookID := uuid.NewString()

	suite.userRepo.On("FindUserByID", ctx, userID).Return(&domain.User{UserID: userID}, nil).Once()
	suite.bookRepo.On("FindBookByID", ctx, bookID).Return(&domain.Book{BookID: bookID, AvailableStock: 2}, nil).Once()
	suite.loanRepo.On("FindActiveLoan", ctx, userID, bookID).Return(nil, apperrors.ErrNotFound).Once()

	var saved domain.Loan
	suite.loanRepo.On("SaveLoan", ctx, mock.AnythingOfType("domain.Loan")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(domain.Loan) }).
		Return(nil).Once()
	suite.loanRepo.On("FindLoanByID", ctx, mock.AnythingOfType("string")).
		Return(suite.makeLoan(domain.LoanPending), nil).Once()

	loan, err := suite.service.CreateLoan(ctx, userID, dto.CreateLoanRequest{BookID: bookID})

	suite.Require().NoError(err)
	suite.Require().NotNil(loan)
	suite.Equal(domain.LoanPending, saved.Status)
	suite.Equal(suite.now.AddDate(0, 0, 7), saved.DueDate)
	suite.Equal(userID, saved.CreatedBy)
	suite.loanRepo.AssertExpectations(suite.T())
}

func (suite *LoanServiceTestSuite) TestCreateLoan_NoAvailableStock() {
	ctx := context.Background()
	userID := uuid.NewString()
	bookID := uuid.NewString()

	suite.userRepo.On("FindUserByID", ctx, userID).Return(&domain.User{UserID: userID}, nil).Once()
	suite.bookRepo.On("FindBookByID", ctx, bookID).Return(&domain.Book{BookID: bookID, AvailableStock: 0}, nil).Once()

	loan, err := suite.service.CreateLoan(ctx, userID, dto.CreateLoanRequest{BookID: bookID})

	suite.Require().Error(err)
	suite.Nil(loan)
	suite.ErrorIs(err, apperrors.ErrRuleViolation)
	suite.loanRepo.AssertNotCalled(suite.T(), "SaveLoan", mock.Anything, mock.Anything)
}

func (suite *LoanServiceTestSuite) TestCreateLoan_DuplicateActiveLoan() {
	ctx := context.Background()
	userID := uuid.NewString()
	bookID := uuid.NewString()

	suite.userRepo.On("FindUserByID", ctx, userID).Return(&domain.User{UserID: userID}, nil).Once()
	suite.bookRepo.On("FindBookByID", ctx, bookID).Return(&domain.Book{BookID: bookID, AvailableStock: 1}, nil).Once()
	suite.loanRepo.On("FindActiveLoan", ctx, userID, bookID).
		Return(suite.makeLoan(domain.LoanPending), nil).Once()

	loan, err := suite.service.CreateLoan(ctx, userID, dto.CreateLoanRequest{BookID: bookID})

	suite.Require().Error(err)
	suite.Nil(loan)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

// --- ApproveLoan ---

func (suite *LoanServiceTestSuite) TestApproveLoan_Success() {
	ctx := context.Background()
	adminID := uuid.NewString()
	pending := suite.makeLoan(domain.LoanPending)
	approved := *pending
	approved.Status = domain.LoanApproved

	suite.loanRepo.On("FindLoanByID", ctx, pending.LoanID).Return(pending, nil).Once()
	suite.loanRepo.On("ApproveLoan", ctx, pending.LoanID, pending.BookID, adminID, (*string)(nil), suite.now).Return(nil).Once()
	suite.loanRepo.On("FindLoanByID", ctx, pending.LoanID).Return(&approved, nil).Once()
	suite.notifier.On("SendMessage", ctx, adminID, mock.AnythingOfType("dto.SendMessageRequest")).
		Return(&domain.Message{}, nil).Once()

	loan, err := suite.service.ApproveLoan(ctx, pending.LoanID, adminID, dto.AdminActionRequest{})

	suite.Require().NoError(err)
	suite.Equal(domain.LoanApproved, loan.Status)
	suite.loanRepo.AssertExpectations(suite.T())
	suite.notifier.AssertExpectations(suite.T())
}

func (suite *LoanServiceTestSuite) TestApproveLoan_WrongSourceStatus() {
	ctx := context.Background()
	borrowed := suite.makeLoan(domain.LoanBorrowed)

	suite.loanRepo.On("FindLoanByID", ctx, borrowed.LoanID).Return(borrowed, nil).Once()

	loan, err := suite.service.ApproveLoan(ctx, borrowed.LoanID, uuid.NewString(), dto.AdminActionRequest{})

	suite.Require().Error(err)
	suite.Nil(loan)
	suite.ErrorIs(err, apperrors.ErrInvalidState)
	suite.Contains(err.Error(), "BORROWED")
	suite.Contains(err.Error(), "PENDING")
	suite.loanRepo.AssertNotCalled(suite.T(), "ApproveLoan",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LoanServiceTestSuite) TestApproveLoan_StockExhaustedByConcurrentApproval() {
	ctx := context.Background()
	adminID := uuid.NewString()
	pending := suite.makeLoan(domain.LoanPending)

	suite.loanRepo.On("FindLoanByID", ctx, pending.LoanID).Return(pending, nil).Once()
	suite.loanRepo.On("ApproveLoan", ctx, pending.LoanID, pending.BookID, adminID, (*string)(nil), suite.now).
		Return(apperrors.ErrConflict).Once()

	loan, err := suite.service.ApproveLoan(ctx, pending.LoanID, adminID, dto.AdminActionRequest{})

	suite.Require().Error(err)
	suite.Nil(loan)
	suite.ErrorIs(err, apperrors.ErrConflict)
	// No notification for a failed approval
	suite.notifier.AssertNotCalled(suite.T(), "SendMessage", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LoanServiceTestSuite) TestApproveLoan_ConcurrentTransitionLosesRace() {
	ctx := context.Background()
	adminID := uuid.NewString()
	pending := suite.makeLoan(domain.LoanPending)

	// The loan read still sees PENDING, but the guarded status write finds the
	// loan already transitioned and the reservation rolls back.
	suite.loanRepo.On("FindLoanByID", ctx, pending.LoanID).Return(pending, nil).Once()
	suite.loanRepo.On("ApproveLoan", ctx, pending.LoanID, pending.BookID, adminID, (*string)(nil), suite.now).
		Return(fmt.Errorf("%w: loan %s is no longer PENDING", apperrors.ErrInvalidState, pending.LoanID)).Once()

	loan, err := suite.service.ApproveLoan(ctx, pending.LoanID, adminID, dto.AdminActionRequest{})

	suite.Require().Error(err)
	suite.Nil(loan)
	suite.ErrorIs(err, apperrors.ErrInvalidState)
	suite.notifier.AssertNotCalled(suite.T(), "SendMessage", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LoanServiceTestSuite) TestApproveLoan_NotificationFailureDoesNotFail() {
	ctx := context.Background()
	adminID := uuid.NewString()
	pending := suite.makeLoan(domain.LoanPending)
	approved := *pending
	approved.Status = domain.LoanApproved

	suite.loanRepo.On("FindLoanByID", ctx, pending.LoanID).Return(pending, nil).Once()
	suite.loanRepo.On("ApproveLoan", ctx, pending.LoanID, pending.BookID, adminID, (*string)(nil), suite.now).Return(nil).Once()
	suite.loanRepo.On("FindLoanByID", ctx, pending.LoanID).Return(&approved, nil).Once()
	suite.notifier.On("SendMessage", ctx, adminID, mock.AnythingOfType("dto.SendMessageRequest")).
		Return(nil, assert.AnError).Once()

	loan, err := suite.service.ApproveLoan(ctx, pending.LoanID, adminID, dto.AdminActionRequest{})

	suite.Require().NoError(err)
	suite.Equal(domain.LoanApproved, loan.Status)
}

// --- RejectLoan / MarkAsBorrowed ---

func (suite *LoanServiceTestSuite) TestRejectLoan_Success() {
	ctx := context.Background()
	adminID := uuid.NewString()
	notes := "stok dialihkan"
	pending := suite.makeLoan(domain.LoanPending)
	rejected := *pending
	rejected.Status = domain.LoanRejected

	suite.loanRepo.On("FindLoanByID", ctx, pending.LoanID).Return(pending, nil).Once()
	suite.loanRepo.On("RejectLoan", ctx, pending.LoanID, adminID, &notes, suite.now).Return(nil).Once()
	suite.loanRepo.On("FindLoanByID", ctx, pending.LoanID).Return(&rejected, nil).Once()
	suite.notifier.On("SendMessage", ctx, adminID, mock.AnythingOfType("dto.SendMessageRequest")).
		Return(&domain.Message{}, nil).Once()

	loan, err := suite.service.RejectLoan(ctx, pending.LoanID, adminID, dto.AdminActionRequest{AdminNotes: &notes})

	suite.Require().NoError(err)
	suite.Equal(domain.LoanRejected, loan.Status)
}

func (suite *LoanServiceTestSuite) TestMarkAsBorrowed_RequiresApproved() {
	ctx := context.Background()
	pending := suite.makeLoan(domain.LoanPending)

	suite.loanRepo.On("FindLoanByID", ctx, pending.LoanID).Return(pending, nil).Once()

	loan, err := suite.service.MarkAsBorrowed(ctx, pending.LoanID, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(loan)
	suite.ErrorIs(err, apperrors.ErrInvalidState)
}

// --- RequestReturn ---

func (suite *LoanServiceTestSuite) TestRequestReturn_NotOwner() {
	ctx := context.Background()
	borrowed := suite.makeLoan(domain.LoanBorrowed)

	suite.loanRepo.On("FindLoanByID", ctx, borrowed.LoanID).Return(borrowed, nil).Once()

	loan, err := suite.service.RequestReturn(ctx, borrowed.LoanID, uuid.NewString(),
		dto.ReturnBookRequest{BookCondition: "GOOD"})

	suite.Require().Error(err)
	suite.Nil(loan)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *LoanServiceTestSuite) TestRequestReturn_TooEarly() {
	ctx := context.Background()
	borrowed := suite.makeLoan(domain.LoanBorrowed)

	// Three days into a seven-day loan
	suite.now = suite.now.AddDate(0, 0, 3)

	suite.loanRepo.On("FindLoanByID", ctx, borrowed.LoanID).Return(borrowed, nil).Once()

	loan, err := suite.service.RequestReturn(ctx, borrowed.LoanID, borrowed.UserID,
		dto.ReturnBookRequest{BookCondition: "GOOD"})

	suite.Require().Error(err)
	suite.Nil(loan)
	suite.ErrorIs(err, apperrors.ErrRuleViolation)
	suite.Contains(err.Error(), "tunggu 4 hari lagi")
	suite.loanRepo.AssertNotCalled(suite.T(), "CompleteReturn",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LoanServiceTestSuite) TestRequestReturn_OnDueDateGoodCondition() {
	ctx := context.Background()
	borrowed := suite.makeLoan(domain.LoanBorrowed)

	// Early morning of the due date is enough at day granularity
	suite.now = timeday.CivilDate(borrowed.DueDate, timeday.WIB).Add(6 * time.Hour)

	returned := *borrowed
	returned.Status = domain.LoanReturned

	suite.loanRepo.On("FindLoanByID", ctx, borrowed.LoanID).Return(borrowed, nil).Once()
	suite.loanRepo.On("CompleteReturn", ctx, borrowed.LoanID, borrowed.BookID,
		domain.ConditionGood, suite.now, true).Return(nil).Once()
	suite.loanRepo.On("FindLoanByID", ctx, borrowed.LoanID).Return(&returned, nil).Once()

	loan, err := suite.service.RequestReturn(ctx, borrowed.LoanID, borrowed.UserID,
		dto.ReturnBookRequest{BookCondition: "GOOD"})

	suite.Require().NoError(err)
	suite.Equal(domain.LoanReturned, loan.Status)
	suite.loanRepo.AssertExpectations(suite.T())
}

func (suite *LoanServiceTestSuite) TestRequestReturn_OverdueDamagedGoesToVerification() {
	ctx := context.Background()
	overdue := suite.makeLoan(domain.LoanOverdue)
	// Overdue loans skip the early-return gate even before due date math says so
	overdue.DueDate = suite.now.AddDate(0, 0, -2)

	returning := *overdue
	returning.Status = domain.LoanReturning

	suite.loanRepo.On("FindLoanByID", ctx, overdue.LoanID).Return(overdue, nil).Once()
	suite.loanRepo.On("MarkReturning", ctx, overdue.LoanID, domain.ConditionDamaged, suite.now).Return(nil).Once()
	suite.loanRepo.On("FindLoanByID", ctx, overdue.LoanID).Return(&returning, nil).Once()

	loan, err := suite.service.RequestReturn(ctx, overdue.LoanID, overdue.UserID,
		dto.ReturnBookRequest{BookCondition: "DAMAGED"})

	suite.Require().NoError(err)
	suite.Equal(domain.LoanReturning, loan.Status)
	suite.loanRepo.AssertNotCalled(suite.T(), "CompleteReturn",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// --- VerifyReturn ---

func (suite *LoanServiceTestSuite) TestVerifyReturn_LostKeepsStockHeld() {
	ctx := context.Background()
	adminID := uuid.NewString()
	lost := domain.ConditionLost
	returning := suite.makeLoan(domain.LoanReturning)
	returning.BookCondition = &lost

	fine := decimal.NewFromInt(50000)
	verified := *returning
	verified.Status = domain.LoanReturned

	suite.loanRepo.On("FindLoanByID", ctx, returning.LoanID).Return(returning, nil).Once()
	suite.loanRepo.On("VerifyReturn", ctx, returning.LoanID, returning.BookID,
		domain.ConditionLost, &fine, (*string)(nil), adminID, false, suite.now).Return(nil).Once()
	suite.loanRepo.On("FindLoanByID", ctx, returning.LoanID).Return(&verified, nil).Once()
	suite.notifier.On("SendMessage", ctx, adminID, mock.AnythingOfType("dto.SendMessageRequest")).
		Return(&domain.Message{}, nil).Once()

	loan, err := suite.service.VerifyReturn(ctx, returning.LoanID, adminID,
		dto.AdminActionRequest{FineAmount: &fine})

	suite.Require().NoError(err)
	suite.Equal(domain.LoanReturned, loan.Status)
	suite.loanRepo.AssertExpectations(suite.T())
}

func (suite *LoanServiceTestSuite) TestVerifyReturn_AdminOverrideToGoodReleasesStock() {
	ctx := context.Background()
	adminID := uuid.NewString()
	damaged := domain.ConditionDamaged
	good := "GOOD"
	returning := suite.makeLoan(domain.LoanReturning)
	returning.BookCondition = &damaged

	verified := *returning
	verified.Status = domain.LoanReturned

	suite.loanRepo.On("FindLoanByID", ctx, returning.LoanID).Return(returning, nil).Once()
	suite.loanRepo.On("VerifyReturn", ctx, returning.LoanID, returning.BookID,
		domain.ConditionGood, (*decimal.Decimal)(nil), (*string)(nil), adminID, true, suite.now).Return(nil).Once()
	suite.loanRepo.On("FindLoanByID", ctx, returning.LoanID).Return(&verified, nil).Once()
	suite.notifier.On("SendMessage", ctx, adminID, mock.AnythingOfType("dto.SendMessageRequest")).
		Return(&domain.Message{}, nil).Once()

	_, err := suite.service.VerifyReturn(ctx, returning.LoanID, adminID,
		dto.AdminActionRequest{BookCondition: &good})

	suite.Require().NoError(err)
	suite.loanRepo.AssertExpectations(suite.T())
}

func (suite *LoanServiceTestSuite) TestVerifyReturn_RequiresReturning() {
	ctx := context.Background()
	borrowed := suite.makeLoan(domain.LoanBorrowed)

	suite.loanRepo.On("FindLoanByID", ctx, borrowed.LoanID).Return(borrowed, nil).Once()

	loan, err := suite.service.VerifyReturn(ctx, borrowed.LoanID, uuid.NewString(), dto.AdminActionRequest{})

	suite.Require().Error(err)
	suite.Nil(loan)
	suite.ErrorIs(err, apperrors.ErrInvalidState)
}

// --- CheckAndUpdateOverdue ---

func (suite *LoanServiceTestSuite) TestCheckAndUpdateOverdue_UsesStartOfDayCutoff() {
	ctx := context.Background()
	cutoff := timeday.StartOfDay(suite.now)

	suite.loanRepo.On("MarkOverdueLoans", ctx, cutoff).Return(int64(3), nil).Once()

	updated, err := suite.service.CheckAndUpdateOverdue(ctx)

	suite.Require().NoError(err)
	suite.Equal(int64(3), updated)
	suite.loanRepo.AssertExpectations(suite.T())
}

func (suite *LoanServiceTestSuite) TestCheckAndUpdateOverdue_Idempotent() {
	ctx := context.Background()
	cutoff := timeday.StartOfDay(suite.now)

	// A second sweep at the same instant finds nothing left to update
	suite.loanRepo.On("MarkOverdueLoans", ctx, cutoff).Return(int64(2), nil).Once()
	suite.loanRepo.On("MarkOverdueLoans", ctx, cutoff).Return(int64(0), nil).Once()

	first, err := suite.service.CheckAndUpdateOverdue(ctx)
	suite.Require().NoError(err)
	second, err := suite.service.CheckAndUpdateOverdue(ctx)
	suite.Require().NoError(err)

	suite.Equal(int64(2), first)
	suite.Equal(int64(0), second)
}

// --- ListLoans sweeps first ---

func (suite *LoanServiceTestSuite) TestListLoans_SweepFailureOnlyLogs() {
	ctx := context.Background()
	params := dto.ListLoansParams{PageParams: dto.PageParams{Page: 1, Limit: 10}}

	suite.loanRepo.On("MarkOverdueLoans", ctx, mock.AnythingOfType("time.Time")).
		Return(int64(0), assert.AnError).Once()
	suite.loanRepo.On("ListLoans", ctx, params).
		Return([]domain.Loan{*suite.makeLoan(domain.LoanBorrowed)}, int64(1), nil).Once()

	resp, err := suite.service.ListLoans(ctx, params)

	suite.Require().NoError(err)
	suite.Len(resp.Items, 1)
	suite.Equal(int64(1), resp.Meta.Total)
}

func TestLoanServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LoanServiceTestSuite))
}
