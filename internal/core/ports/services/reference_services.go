package services

import (
	"context"

	"github.com/yomu-app/yomu_backend/internal/core/domain"
	"github.com/yomu-app/yomu_backend/internal/dto"
)

// CategorySvcFacade defines category reference-data operations.
type CategorySvcFacade interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
	GetCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error)
	CreateCategory(ctx context.Context, req dto.CreateCategoryRequest) (*domain.Category, error)
	UpdateCategory(ctx context.Context, categoryID string, req dto.UpdateCategoryRequest) (*domain.Category, error)

	// DeleteCategory removes a category; fails with ErrRuleViolation while
	// books still reference it.
	DeleteCategory(ctx context.Context, categoryID string) error
}

// MajorSvcFacade defines major reference-data operations.
type MajorSvcFacade interface {
	ListMajors(ctx context.Context) ([]domain.Major, error)
	GetMajorByID(ctx context.Context, majorID string) (*domain.Major, error)
	CreateMajor(ctx context.Context, req dto.CreateMajorRequest) (*domain.Major, error)
	UpdateMajor(ctx context.Context, majorID string, req dto.UpdateMajorRequest) (*domain.Major, error)
	DeleteMajor(ctx context.Context, majorID string) error
}

// ClassSvcFacade defines class reference-data operations.
type ClassSvcFacade interface {
	ListClasses(ctx context.Context) ([]domain.Class, error)
	GetClassByID(ctx context.Context, classID string) (*domain.Class, error)
	CreateClass(ctx context.Context, req dto.CreateClassRequest) (*domain.Class, error)
	UpdateClass(ctx context.Context, classID string, req dto.UpdateClassRequest) (*domain.Class, error)
	DeleteClass(ctx context.Context, classID string) error
}
