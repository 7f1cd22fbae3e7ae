package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/yomu-app/yomu_backend/internal/apperrors"
	"github.com/yomu-app/yomu_backend/internal/core/domain"
	portssvc "github.com/yomu-app/yomu_backend/internal/core/ports/services"
	"github.com/yomu-app/yomu_backend/internal/dto"
	"github.com/yomu-app/yomu_backend/internal/middleware"
	"github.com/yomu-app/yomu_backend/internal/utils"
)

// --- Mock LoanService ---

type MockLoanService struct {
	mock.Mock
}

func (m *MockLoanService) GetLoanByID(ctx context.Context, loanID string) (*domain.Loan, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLoanService) ListLoans(ctx context.Context, params dto.ListLoansParams) (*dto.ListLoansResponse, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListLoansResponse), args.Error(1)
}

func (m *MockLoanService) CreateLoan(ctx context.Context, userID string, req dto.CreateLoanRequest) (*domain.Loan, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLoanService) RequestReturn(ctx context.Context, loanID, userID string, req dto.ReturnBookRequest) (*domain.Loan, error) {
	args := m.Called(ctx, loanID, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLoanService) ApproveLoan(ctx context.Context, loanID, adminID string, req dto.AdminActionRequest) (*domain.Loan, error) {
	args := m.Called(ctx, loanID, adminID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLoanService) RejectLoan(ctx context.Context, loanID, adminID string, req dto.AdminActionRequest) (*domain.Loan, error) {
	args := m.Called(ctx, loanID, adminID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLoanService) MarkAsBorrowed(ctx context.Context, loanID, adminID string) (*domain.Loan, error) {
	args := m.Called(ctx, loanID, adminID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLoanService) VerifyReturn(ctx context.Context, loanID, adminID string, req dto.AdminActionRequest) (*domain.Loan, error) {
	args := m.Called(ctx, loanID, adminID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLoanService) CheckAndUpdateOverdue(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

var _ portssvc.LoanSvcFacade = (*MockLoanService)(nil)

// --- Test Suite Setup ---

type LoanHandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	loanService *MockLoanService
	jwtSecret   string
}

func (suite *LoanHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.jwtSecret = "test-secret-key-that-is-long-enough"
	suite.router = gin.New()

	suite.loanService = new(MockLoanService)

	v1 := suite.router.Group("/api/v1", middleware.AuthMiddleware(suite.jwtSecret))
	registerLoanRoutes(v1, suite.loanService)
}

func (suite *LoanHandlerTestSuite) tokenFor(userID string, role domain.UserRole) string {
	token, err := utils.GenerateJWT(userID, string(role), suite.jwtSecret, time.Hour, "yomu-test")
	suite.Require().NoError(err)
	return token
}

func (suite *LoanHandlerTestSuite) doJSON(method, url, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req, _ := http.NewRequest(method, url, &buf)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- Test Cases ---

func (suite *LoanHandlerTestSuite) TestCreateLoan_Created() {
	userID := uuid.NewString()
	bookID := uuid.NewString()
	loan := &domain.Loan{LoanID: uuid.NewString(), UserID: userID, BookID: bookID, Status: domain.LoanPending}

	suite.loanService.On("CreateLoan", mock.Anything, userID,
		dto.CreateLoanRequest{BookID: bookID}).Return(loan, nil).Once()

	w := suite.doJSON(http.MethodPost, "/api/v1/loans", suite.tokenFor(userID, domain.RoleSiswa),
		gin.H{"bookId": bookID})

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.LoanResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(loan.LoanID, resp.LoanID)
	suite.Equal("PENDING", resp.Status)
}

func (suite *LoanHandlerTestSuite) TestCreateLoan_MissingBookID() {
	w := suite.doJSON(http.MethodPost, "/api/v1/loans",
		suite.tokenFor(uuid.NewString(), domain.RoleSiswa), gin.H{})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.loanService.AssertNotCalled(suite.T(), "CreateLoan", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LoanHandlerTestSuite) TestApproveLoan_ForbiddenForSiswa() {
	w := suite.doJSON(http.MethodPut, "/api/v1/loans/"+uuid.NewString()+"/approve",
		suite.tokenFor(uuid.NewString(), domain.RoleSiswa), nil)

	suite.Equal(http.StatusForbidden, w.Code)
	suite.loanService.AssertNotCalled(suite.T(), "ApproveLoan", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LoanHandlerTestSuite) TestApproveLoan_InvalidStateMapsTo400() {
	adminID := uuid.NewString()
	loanID := uuid.NewString()

	suite.loanService.On("ApproveLoan", mock.Anything, loanID, adminID, dto.AdminActionRequest{}).
		Return(nil, apperrors.ErrInvalidState).Once()

	w := suite.doJSON(http.MethodPut, "/api/v1/loans/"+loanID+"/approve",
		suite.tokenFor(adminID, domain.RoleAdmin), nil)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *LoanHandlerTestSuite) TestApproveLoan_StockConflictMapsTo409() {
	adminID := uuid.NewString()
	loanID := uuid.NewString()

	suite.loanService.On("ApproveLoan", mock.Anything, loanID, adminID, dto.AdminActionRequest{}).
		Return(nil, apperrors.ErrConflict).Once()

	w := suite.doJSON(http.MethodPut, "/api/v1/loans/"+loanID+"/approve",
		suite.tokenFor(adminID, domain.RoleAdmin), nil)

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *LoanHandlerTestSuite) TestRequestReturn_EarlyReturnMapsTo400() {
	userID := uuid.NewString()
	loanID := uuid.NewString()

	suite.loanService.On("RequestReturn", mock.Anything, loanID, userID,
		dto.ReturnBookRequest{BookCondition: "GOOD"}).
		Return(nil, apperrors.ErrRuleViolation).Once()

	w := suite.doJSON(http.MethodPut, "/api/v1/loans/"+loanID+"/return",
		suite.tokenFor(userID, domain.RoleSiswa), gin.H{"bookCondition": "GOOD"})

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *LoanHandlerTestSuite) TestListMyLoans_ForcesOwnUserID() {
	userID := uuid.NewString()

	suite.loanService.On("ListLoans", mock.Anything, mock.MatchedBy(func(p dto.ListLoansParams) bool {
		return p.UserID == userID
	})).Return(&dto.ListLoansResponse{
		Items: []dto.LoanResponse{},
		Meta:  dto.NewPaginationMeta(1, 10, 0),
	}, nil).Once()

	// A userId query param must not override the token's subject
	w := suite.doJSON(http.MethodGet, "/api/v1/loans/my?userId="+uuid.NewString(),
		suite.tokenFor(userID, domain.RoleSiswa), nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.loanService.AssertExpectations(suite.T())
}

func (suite *LoanHandlerTestSuite) TestCheckOverdue_AdminOnly() {
	adminID := uuid.NewString()

	suite.loanService.On("CheckAndUpdateOverdue", mock.Anything).Return(int64(4), nil).Once()

	w := suite.doJSON(http.MethodPost, "/api/v1/loans/check-overdue",
		suite.tokenFor(adminID, domain.RoleAdmin), nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.OverdueSweepResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(int64(4), resp.Updated)
}

func (suite *LoanHandlerTestSuite) TestGetLoan_NotFound() {
	loanID := uuid.NewString()

	suite.loanService.On("GetLoanByID", mock.Anything, loanID).
		Return(nil, apperrors.ErrNotFound).Once()

	w := suite.doJSON(http.MethodGet, "/api/v1/loans/"+loanID,
		suite.tokenFor(uuid.NewString(), domain.RoleSiswa), nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *LoanHandlerTestSuite) TestMissingToken_Unauthorized() {
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/loans/my", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
}

func TestLoanHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(LoanHandlerTestSuite))
}
