package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/yomu-app/yomu_backend/internal/core/domain"
	portssvc "github.com/yomu-app/yomu_backend/internal/core/ports/services"
	"github.com/yomu-app/yomu_backend/internal/dto"
	"github.com/yomu-app/yomu_backend/pkg/config"
)

// --- Mock AuthService ---

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.AuthResponse), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.AuthResponse), args.Error(1)
}

func (m *MockAuthService) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockAuthService) UpdateProfile(ctx context.Context, userID string, req dto.UpdateProfileRequest) (*domain.User, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockAuthService) ChangePassword(ctx context.Context, userID string, req dto.ChangePasswordRequest) error {
	args := m.Called(ctx, userID, req)
	return args.Error(0)
}

var _ portssvc.AuthSvcFacade = (*MockAuthService)(nil)

// --- Test Suite Setup ---

type AuthHandlerTestSuite struct {
	suite.Suite
	authService *MockAuthService
}

func (suite *AuthHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.authService = new(MockAuthService)
}

// newAuthRouter builds a fresh router so each test gets its own limiter
// window.
func (suite *AuthHandlerTestSuite) newAuthRouter(authRateLimit string) *gin.Engine {
	router := gin.New()
	cfg := &config.Config{
		JWTSecret:     "test-secret-key-that-is-long-enough",
		AuthRateLimit: authRateLimit,
	}
	registerAuthRoutes(router, cfg, suite.authService)
	return router
}

func (suite *AuthHandlerTestSuite) postLogin(router *gin.Engine) *httptest.ResponseRecorder {
	body, err := json.Marshal(dto.LoginRequest{Email: "siti@example.com", Password: "rahasia1"})
	suite.Require().NoError(err)
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// --- Test Cases ---

func (suite *AuthHandlerTestSuite) TestLogin_Success() {
	router := suite.newAuthRouter("5-M")
	suite.authService.On("Login", mock.Anything, mock.AnythingOfType("dto.LoginRequest")).
		Return(&dto.AuthResponse{AccessToken: "token"}, nil).Once()

	w := suite.postLogin(router)

	suite.Equal(http.StatusOK, w.Code)
	suite.authService.AssertExpectations(suite.T())
}

func (suite *AuthHandlerTestSuite) TestLogin_RateLimited() {
	router := suite.newAuthRouter("2-M")
	suite.authService.On("Login", mock.Anything, mock.AnythingOfType("dto.LoginRequest")).
		Return(&dto.AuthResponse{AccessToken: "token"}, nil).Twice()

	suite.Equal(http.StatusOK, suite.postLogin(router).Code)
	suite.Equal(http.StatusOK, suite.postLogin(router).Code)

	w := suite.postLogin(router)

	suite.Equal(http.StatusTooManyRequests, w.Code)
	// The third attempt never reaches the service
	suite.authService.AssertNumberOfCalls(suite.T(), "Login", 2)
}

func (suite *AuthHandlerTestSuite) TestLogin_MalformedRateLimitFallsBack() {
	// A broken AUTH_RATE_LIMIT must not disable the endpoints
	router := suite.newAuthRouter("not-a-rate")
	suite.authService.On("Login", mock.Anything, mock.AnythingOfType("dto.LoginRequest")).
		Return(&dto.AuthResponse{AccessToken: "token"}, nil).Once()

	w := suite.postLogin(router)

	suite.Equal(http.StatusOK, w.Code)
}

func TestAuthHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(AuthHandlerTestSuite))
}
