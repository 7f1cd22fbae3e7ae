package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/yomu-app/yomu_backend/internal/apperrors"
	"github.com/yomu-app/yomu_backend/internal/core/domain"
	"github.com/yomu-app/yomu_backend/internal/dto"
	"github.com/yomu-app/yomu_backend/internal/utils"
	"github.com/yomu-app/yomu_backend/pkg/config"
)

type AuthServiceTestSuite struct {
	suite.Suite
	userRepo *MockUserRepository
	service  *authService
}

func (suite *AuthServiceTestSuite) SetupTest() {
	suite.userRepo = new(MockUserRepository)
	cfg := &config.Config{
		JWTSecret:         "test-secret",
		JWTExpiryDuration: time.Hour,
		JWTIssuer:         "yomu-test",
	}
	suite.service = NewAuthService(suite.userRepo, cfg).(*authService)
}

func (suite *AuthServiceTestSuite) activeUser(password string) *domain.User {
	hash, err := utils.HashPassword(password)
	suite.Require().NoError(err)
	return &domain.User{
		UserID:       uuid.NewString(),
		Name:         "Siti",
		Email:        "siti@sekolah.sch.id",
		PasswordHash: hash,
		Role:         domain.RoleSiswa,
		IsActive:     true,
	}
}

func (suite *AuthServiceTestSuite) TestRegister_Success() {
	ctx := context.Background()
	req := dto.RegisterRequest{Name: "Siti", Email: "siti@sekolah.sch.id", Password: "rahasia1"}

	suite.userRepo.On("FindUserByEmail", ctx, req.Email).Return(nil, apperrors.ErrNotFound).Once()

	var saved domain.User
	suite.userRepo.On("SaveUser", ctx, mock.AnythingOfType("domain.User")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(domain.User) }).
		Return(nil).Once()

	resp, err := suite.service.Register(ctx, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(resp)
	suite.NotEmpty(resp.AccessToken)
	suite.Equal(domain.RoleSiswa, saved.Role)
	suite.True(saved.IsActive)
	suite.NotEqual(req.Password, saved.PasswordHash)

	// The issued token round-trips with the configured secret
	claims, err := utils.ParseAndValidateJWT(resp.AccessToken, "test-secret")
	suite.Require().NoError(err)
	suite.Equal(saved.UserID, claims.Subject)
	suite.Equal(string(domain.RoleSiswa), claims.Role)
}

func (suite *AuthServiceTestSuite) TestRegister_EmailTaken() {
	ctx := context.Background()
	req := dto.RegisterRequest{Name: "Siti", Email: "siti@sekolah.sch.id", Password: "rahasia1"}

	suite.userRepo.On("FindUserByEmail", ctx, req.Email).
		Return(suite.activeUser("other"), nil).Once()

	resp, err := suite.service.Register(ctx, req)

	suite.Require().Error(err)
	suite.Nil(resp)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.userRepo.AssertNotCalled(suite.T(), "SaveUser", mock.Anything, mock.Anything)
}

func (suite *AuthServiceTestSuite) TestLogin_Success() {
	ctx := context.Background()
	user := suite.activeUser("rahasia1")

	suite.userRepo.On("FindUserByEmail", ctx, user.Email).Return(user, nil).Once()

	resp, err := suite.service.Login(ctx, dto.LoginRequest{Email: user.Email, Password: "rahasia1"})

	suite.Require().NoError(err)
	suite.NotEmpty(resp.AccessToken)
	suite.Equal(user.UserID, resp.User.UserID)
}

func (suite *AuthServiceTestSuite) TestLogin_WrongPassword() {
	ctx := context.Background()
	user := suite.activeUser("rahasia1")

	suite.userRepo.On("FindUserByEmail", ctx, user.Email).Return(user, nil).Once()

	resp, err := suite.service.Login(ctx, dto.LoginRequest{Email: user.Email, Password: "salah"})

	suite.Require().Error(err)
	suite.Nil(resp)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *AuthServiceTestSuite) TestLogin_UnknownEmailIsUnauthorized() {
	ctx := context.Background()

	suite.userRepo.On("FindUserByEmail", ctx, "ghost@sekolah.sch.id").
		Return(nil, apperrors.ErrNotFound).Once()

	resp, err := suite.service.Login(ctx, dto.LoginRequest{Email: "ghost@sekolah.sch.id", Password: "x"})

	suite.Require().Error(err)
	suite.Nil(resp)
	// Unknown email reads the same as a bad password
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *AuthServiceTestSuite) TestLogin_InactiveAccount() {
	ctx := context.Background()
	user := suite.activeUser("rahasia1")
	user.IsActive = false

	suite.userRepo.On("FindUserByEmail", ctx, user.Email).Return(user, nil).Once()

	resp, err := suite.service.Login(ctx, dto.LoginRequest{Email: user.Email, Password: "rahasia1"})

	suite.Require().Error(err)
	suite.Nil(resp)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *AuthServiceTestSuite) TestChangePassword_WrongCurrent() {
	ctx := context.Background()
	user := suite.activeUser("rahasia1")

	suite.userRepo.On("FindUserByID", ctx, user.UserID).Return(user, nil).Once()

	err := suite.service.ChangePassword(ctx, user.UserID,
		dto.ChangePasswordRequest{CurrentPassword: "salah", NewPassword: "baru123"})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.userRepo.AssertNotCalled(suite.T(), "UpdateUser", mock.Anything, mock.Anything)
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}
