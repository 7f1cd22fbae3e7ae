package services

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/yomu-app/yomu_backend/internal/core/domain"
	portsrepo "github.com/yomu-app/yomu_backend/internal/core/ports/repositories"
	"github.com/yomu-app/yomu_backend/internal/dto"
)

// Shared testify mocks for the repository ports, used across the service
// test suites in this package.

// --- MockLoanRepository ---

type MockLoanRepository struct {
	mock.Mock
}

func (m *MockLoanRepository) FindLoanByID(ctx context.Context, loanID string) (*domain.Loan, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) FindActiveLoan(ctx context.Context, userID, bookID string) (*domain.Loan, error) {
	args := m.Called(ctx, userID, bookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) ListLoans(ctx context.Context, params dto.ListLoansParams) ([]domain.Loan, int64, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Loan), args.Get(1).(int64), args.Error(2)
}

func (m *MockLoanRepository) CountLoansByBookAndStatuses(ctx context.Context, bookID string, statuses []domain.LoanStatus) (int64, error) {
	args := m.Called(ctx, bookID, statuses)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLoanRepository) SaveLoan(ctx context.Context, loan domain.Loan) error {
	args := m.Called(ctx, loan)
	return args.Error(0)
}

func (m *MockLoanRepository) ApproveLoan(ctx context.Context, loanID, bookID, adminID string, notes *string, now time.Time) error {
	args := m.Called(ctx, loanID, bookID, adminID, notes, now)
	return args.Error(0)
}

func (m *MockLoanRepository) RejectLoan(ctx context.Context, loanID, adminID string, notes *string, now time.Time) error {
	args := m.Called(ctx, loanID, adminID, notes, now)
	return args.Error(0)
}

func (m *MockLoanRepository) MarkBorrowed(ctx context.Context, loanID, adminID string, now time.Time) error {
	args := m.Called(ctx, loanID, adminID, now)
	return args.Error(0)
}

func (m *MockLoanRepository) CompleteReturn(ctx context.Context, loanID, bookID string, condition domain.BookCondition, returnDate time.Time, releaseStock bool) error {
	args := m.Called(ctx, loanID, bookID, condition, returnDate, releaseStock)
	return args.Error(0)
}

func (m *MockLoanRepository) MarkReturning(ctx context.Context, loanID string, condition domain.BookCondition, returnDate time.Time) error {
	args := m.Called(ctx, loanID, condition, returnDate)
	return args.Error(0)
}

func (m *MockLoanRepository) VerifyReturn(ctx context.Context, loanID, bookID string, condition domain.BookCondition, fine *decimal.Decimal, notes *string, adminID string, releaseStock bool, now time.Time) error {
	args := m.Called(ctx, loanID, bookID, condition, fine, notes, adminID, releaseStock, now)
	return args.Error(0)
}

func (m *MockLoanRepository) MarkOverdueLoans(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

// --- MockBookRepository ---

type MockBookRepository struct {
	mock.Mock
}

func (m *MockBookRepository) FindBookByID(ctx context.Context, bookID string) (*domain.Book, error) {
	args := m.Called(ctx, bookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Book), args.Error(1)
}

func (m *MockBookRepository) FindBookByISBN(ctx context.Context, isbn string, excludeBookID string) (*domain.Book, error) {
	args := m.Called(ctx, isbn, excludeBookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Book), args.Error(1)
}

func (m *MockBookRepository) ListBooks(ctx context.Context, params dto.ListBooksParams) ([]domain.Book, int64, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Book), args.Get(1).(int64), args.Error(2)
}

func (m *MockBookRepository) SaveBook(ctx context.Context, book domain.Book) error {
	args := m.Called(ctx, book)
	return args.Error(0)
}

func (m *MockBookRepository) UpdateBook(ctx context.Context, book domain.Book) error {
	args := m.Called(ctx, book)
	return args.Error(0)
}

func (m *MockBookRepository) MarkBookDeleted(ctx context.Context, bookID string, deletedAt time.Time) error {
	args := m.Called(ctx, bookID, deletedAt)
	return args.Error(0)
}

func (m *MockBookRepository) ReserveStockInTx(ctx context.Context, tx pgx.Tx, bookID string) error {
	args := m.Called(ctx, tx, bookID)
	return args.Error(0)
}

func (m *MockBookRepository) ReleaseStockInTx(ctx context.Context, tx pgx.Tx, bookID string) error {
	args := m.Called(ctx, tx, bookID)
	return args.Error(0)
}

// --- MockUserRepository ---

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) ListUsers(ctx context.Context, params dto.ListUsersParams) ([]domain.User, int64, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) MarkUserDeleted(ctx context.Context, userID string, deletedAt time.Time) error {
	args := m.Called(ctx, userID, deletedAt)
	return args.Error(0)
}

// --- MockCategoryRepository ---

type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) FindCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error) {
	args := m.Called(ctx, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindCategoryByName(ctx context.Context, name string, excludeCategoryID string) (*domain.Category, error) {
	args := m.Called(ctx, name, excludeCategoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) SaveCategory(ctx context.Context, category domain.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) UpdateCategory(ctx context.Context, category domain.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) DeleteCategory(ctx context.Context, categoryID string) error {
	args := m.Called(ctx, categoryID)
	return args.Error(0)
}

// --- MockMessageSender ---

type MockMessageSender struct {
	mock.Mock
}

func (m *MockMessageSender) SendMessage(ctx context.Context, senderID string, req dto.SendMessageRequest) (*domain.Message, error) {
	args := m.Called(ctx, senderID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Message), args.Error(1)
}

// --- MockReportRepository ---

type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) GetSummary(ctx context.Context, recentSince time.Time) (*domain.ReportSummary, error) {
	args := m.Called(ctx, recentSince)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReportSummary), args.Error(1)
}

func (m *MockReportRepository) ListVerifiedReturns(ctx context.Context, window portsrepo.LoanReportWindow, limit, offset int) ([]domain.Loan, int64, error) {
	args := m.Called(ctx, window, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]domain.Loan), args.Get(1).(int64), args.Error(2)
}

func (m *MockReportRepository) GetLoanReportStats(ctx context.Context, window portsrepo.LoanReportWindow) (*domain.LoanReportStats, error) {
	args := m.Called(ctx, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoanReportStats), args.Error(1)
}

func (m *MockReportRepository) ListPopularBooks(ctx context.Context, limit int) ([]domain.PopularBook, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PopularBook), args.Error(1)
}

func (m *MockReportRepository) ListActiveMembers(ctx context.Context, limit int) ([]domain.ActiveMember, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ActiveMember), args.Error(1)
}

// --- MockOverdueSweep ---

type MockOverdueSweep struct {
	mock.Mock
}

func (m *MockOverdueSweep) CheckAndUpdateOverdue(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
