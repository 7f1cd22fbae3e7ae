package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/yomu-app/yomu_backend/internal/apperrors"
	"github.com/yomu-app/yomu_backend/internal/core/domain"
	"github.com/yomu-app/yomu_backend/internal/dto"
)

type BookServiceTestSuite struct {
	suite.Suite
	bookRepo     *MockBookRepository
	categoryRepo *MockCategoryRepository
	loanRepo     *MockLoanRepository
	service      *bookService
}

func (suite *BookServiceTestSuite) SetupTest() {
	suite.bookRepo = new(MockBookRepository)
	suite.categoryRepo = new(MockCategoryRepository)
	suite.loanRepo = new(MockLoanRepository)
	suite.service = NewBookService(suite.bookRepo, suite.categoryRepo, suite.loanRepo).(*bookService)
}

func (suite *BookServiceTestSuite) TestCreateBook_AllCopiesAvailable() {
	ctx := context.Background()
	categoryID := uuid.NewString()
	req := dto.CreateBookRequest{Title: "Bumi Manusia", Author: "Pramoedya", CategoryID: categoryID, Stock: 5}

	suite.categoryRepo.On("FindCategoryByID", ctx, categoryID).
		Return(&domain.Category{CategoryID: categoryID, Name: "Fiksi"}, nil).Once()

	var saved domain.Book
	suite.bookRepo.On("SaveBook", ctx, mock.AnythingOfType("domain.Book")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(domain.Book) }).
		Return(nil).Once()
	suite.bookRepo.On("FindBookByID", ctx, mock.AnythingOfType("string")).
		Return(&domain.Book{Title: req.Title}, nil).Once()

	book, err := suite.service.CreateBook(ctx, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(book)
	suite.Equal(5, saved.Stock)
	suite.Equal(5, saved.AvailableStock)
	suite.bookRepo.AssertExpectations(suite.T())
}

func (suite *BookServiceTestSuite) TestCreateBook_UnknownCategory() {
	ctx := context.Background()
	categoryID := uuid.NewString()

	suite.categoryRepo.On("FindCategoryByID", ctx, categoryID).Return(nil, apperrors.ErrNotFound).Once()

	book, err := suite.service.CreateBook(ctx, dto.CreateBookRequest{Title: "X", Author: "Y", CategoryID: categoryID, Stock: 1})

	suite.Require().Error(err)
	suite.Nil(book)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.bookRepo.AssertNotCalled(suite.T(), "SaveBook", mock.Anything, mock.Anything)
}

func (suite *BookServiceTestSuite) TestCreateBook_DuplicateISBN() {
	ctx := context.Background()
	categoryID := uuid.NewString()
	isbn := "9789799731234"

	suite.categoryRepo.On("FindCategoryByID", ctx, categoryID).
		Return(&domain.Category{CategoryID: categoryID}, nil).Once()
	suite.bookRepo.On("FindBookByISBN", ctx, isbn, "").
		Return(&domain.Book{BookID: uuid.NewString(), ISBN: &isbn}, nil).Once()

	book, err := suite.service.CreateBook(ctx, dto.CreateBookRequest{Title: "X", Author: "Y", CategoryID: categoryID, ISBN: &isbn, Stock: 1})

	suite.Require().Error(err)
	suite.Nil(book)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *BookServiceTestSuite) TestUpdateBook_StockChangeRecomputesAvailable() {
	ctx := context.Background()
	bookID := uuid.NewString()
	existing := &domain.Book{BookID: bookID, Title: "X", Stock: 5, AvailableStock: 2}

	// Three copies are held by active loans; shrinking the total to 4 leaves one available
	newStock := 4
	suite.bookRepo.On("FindBookByID", ctx, bookID).Return(existing, nil).Once()
	suite.loanRepo.On("CountLoansByBookAndStatuses", ctx, bookID, reservedStatuses).
		Return(int64(3), nil).Once()

	var updated domain.Book
	suite.bookRepo.On("UpdateBook", ctx, mock.AnythingOfType("domain.Book")).
		Run(func(args mock.Arguments) { updated = args.Get(1).(domain.Book) }).
		Return(nil).Once()
	suite.bookRepo.On("FindBookByID", ctx, bookID).Return(existing, nil).Once()

	_, err := suite.service.UpdateBook(ctx, bookID, dto.UpdateBookRequest{Stock: &newStock})

	suite.Require().NoError(err)
	suite.Equal(4, updated.Stock)
	suite.Equal(1, updated.AvailableStock)
}

func (suite *BookServiceTestSuite) TestUpdateBook_AvailableNeverNegative() {
	ctx := context.Background()
	bookID := uuid.NewString()
	existing := &domain.Book{BookID: bookID, Title: "X", Stock: 5, AvailableStock: 2}

	newStock := 2
	suite.bookRepo.On("FindBookByID", ctx, bookID).Return(existing, nil).Once()
	suite.loanRepo.On("CountLoansByBookAndStatuses", ctx, bookID, reservedStatuses).
		Return(int64(3), nil).Once()

	var updated domain.Book
	suite.bookRepo.On("UpdateBook", ctx, mock.AnythingOfType("domain.Book")).
		Run(func(args mock.Arguments) { updated = args.Get(1).(domain.Book) }).
		Return(nil).Once()
	suite.bookRepo.On("FindBookByID", ctx, bookID).Return(existing, nil).Once()

	_, err := suite.service.UpdateBook(ctx, bookID, dto.UpdateBookRequest{Stock: &newStock})

	suite.Require().NoError(err)
	suite.Equal(0, updated.AvailableStock)
}

func (suite *BookServiceTestSuite) TestDeleteBook_BlockedWhileCopiesOut() {
	ctx := context.Background()
	bookID := uuid.NewString()

	suite.bookRepo.On("FindBookByID", ctx, bookID).Return(&domain.Book{BookID: bookID}, nil).Once()
	suite.loanRepo.On("CountLoansByBookAndStatuses", ctx, bookID,
		[]domain.LoanStatus{domain.LoanBorrowed, domain.LoanOverdue}).
		Return(int64(1), nil).Once()

	err := suite.service.DeleteBook(ctx, bookID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.bookRepo.AssertNotCalled(suite.T(), "MarkBookDeleted", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *BookServiceTestSuite) TestDeleteBook_SoftDeletes() {
	ctx := context.Background()
	bookID := uuid.NewString()

	suite.bookRepo.On("FindBookByID", ctx, bookID).Return(&domain.Book{BookID: bookID}, nil).Once()
	suite.loanRepo.On("CountLoansByBookAndStatuses", ctx, bookID,
		[]domain.LoanStatus{domain.LoanBorrowed, domain.LoanOverdue}).
		Return(int64(0), nil).Once()
	suite.bookRepo.On("MarkBookDeleted", ctx, bookID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	err := suite.service.DeleteBook(ctx, bookID)

	suite.Require().NoError(err)
	suite.bookRepo.AssertExpectations(suite.T())
}

func TestBookServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BookServiceTestSuite))
}
