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

type CategoryServiceTestSuite struct {
	suite.Suite
	categoryRepo *MockCategoryRepository
	service      *categoryService
}

func (suite *CategoryServiceTestSuite) SetupTest() {
	suite.categoryRepo = new(MockCategoryRepository)
	suite.service = NewCategoryService(suite.categoryRepo).(*categoryService)
}

func (suite *CategoryServiceTestSuite) TestCreateCategory_DuplicateName() {
	ctx := context.Background()

	suite.categoryRepo.On("FindCategoryByName", ctx, "Fiksi", "").
		Return(&domain.Category{CategoryID: uuid.NewString(), Name: "Fiksi"}, nil).Once()

	category, err := suite.service.CreateCategory(ctx, dto.CreateCategoryRequest{Name: "Fiksi"})

	suite.Require().Error(err)
	suite.Nil(category)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.categoryRepo.AssertNotCalled(suite.T(), "SaveCategory", mock.Anything, mock.Anything)
}

func (suite *CategoryServiceTestSuite) TestDeleteCategory_BlockedWhileBooksAssigned() {
	ctx := context.Background()
	categoryID := uuid.NewString()

	suite.categoryRepo.On("FindCategoryByID", ctx, categoryID).
		Return(&domain.Category{CategoryID: categoryID, Name: "Fiksi", BookCount: 3}, nil).Once()

	err := suite.service.DeleteCategory(ctx, categoryID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrRuleViolation)
	suite.categoryRepo.AssertNotCalled(suite.T(), "DeleteCategory", mock.Anything, mock.Anything)
}

func (suite *CategoryServiceTestSuite) TestDeleteCategory_EmptyCategory() {
	ctx := context.Background()
	categoryID := uuid.NewString()

	suite.categoryRepo.On("FindCategoryByID", ctx, categoryID).
		Return(&domain.Category{CategoryID: categoryID, Name: "Fiksi", BookCount: 0}, nil).Once()
	suite.categoryRepo.On("DeleteCategory", ctx, categoryID).Return(nil).Once()

	err := suite.service.DeleteCategory(ctx, categoryID)

	suite.Require().NoError(err)
	suite.categoryRepo.AssertExpectations(suite.T())
}

func TestCategoryServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CategoryServiceTestSuite))
}
