package repositories

import (
	"context"

	"github.com/yomu-app/yomu_backend/internal/core/domain"
)

// CategoryRepositoryFacade defines storage operations for categories.
type CategoryRepositoryFacade interface {
	// FindCategoryByID retrieves a category with its book count.
	FindCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error)

	// FindCategoryByName retrieves a category by exact name, excluding the
	// given category ID (pass "" to match any).
	FindCategoryByName(ctx context.Context, name string, excludeCategoryID string) (*domain.Category, error)

	// ListCategories retrieves all categories ordered by name.
	ListCategories(ctx context.Context) ([]domain.Category, error)

	SaveCategory(ctx context.Context, category domain.Category) error
	UpdateCategory(ctx context.Context, category domain.Category) error

	// DeleteCategory removes a category. Callers must ensure no books
	// reference it.
	DeleteCategory(ctx context.Context, categoryID string) error
}

// MajorRepositoryFacade defines storage operations for majors.
type MajorRepositoryFacade interface {
	FindMajorByID(ctx context.Context, majorID string) (*domain.Major, error)
	ListMajors(ctx context.Context) ([]domain.Major, error)
	SaveMajor(ctx context.Context, major domain.Major) error
	UpdateMajor(ctx context.Context, major domain.Major) error
	DeleteMajor(ctx context.Context, majorID string) error

	// CountMajorReferences counts users and classes still pointing at the major.
	CountMajorReferences(ctx context.Context, majorID string) (int64, error)
}

// ClassRepositoryFacade defines storage operations for classes.
type ClassRepositoryFacade interface {
	FindClassByID(ctx context.Context, classID string) (*domain.Class, error)
	ListClasses(ctx context.Context) ([]domain.Class, error)
	SaveClass(ctx context.Context, class domain.Class) error
	UpdateClass(ctx context.Context, class domain.Class) error
	DeleteClass(ctx context.Context, classID string) error

	// CountClassMembers counts users still assigned to the class.
	CountClassMembers(ctx context.Context, classID string) (int64, error)
}
