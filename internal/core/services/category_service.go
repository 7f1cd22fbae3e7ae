package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/yomu-app/yomu_backend/internal/apperrors"
	"github.com/yomu-app/yomu_backend/internal/core/domain"
	portsrepo "github.com/yomu-app/yomu_backend/internal/core/ports/repositories"
	portssvc "github.com/yomu-app/yomu_backend/internal/core/ports/services"
	"github.com/yomu-app/yomu_backend/internal/dto"
)

var (
	ErrCategoryNameTaken = errors.New("a category with this name already exists")
	ErrCategoryInUse     = errors.New("category still has books assigned")
)

// categoryService manages shelf categories.
type categoryService struct {
	BaseService
	categoryRepo portsrepo.CategoryRepositoryFacade
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(categoryRepo portsrepo.CategoryRepositoryFacade) portssvc.CategorySvcFacade {
	return &categoryService{categoryRepo: categoryRepo}
}

// Ensure categoryService implements the portssvc.CategorySvcFacade interface
var _ portssvc.CategorySvcFacade = (*categoryService)(nil)

func (s *categoryService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.categoryRepo.ListCategories(ctx)
}

func (s *categoryService) GetCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error) {
	return s.categoryRepo.FindCategoryByID(ctx, categoryID)
}

func (s *categoryService) checkName(ctx context.Context, name, excludeID string) error {
	existing, err := s.categoryRepo.FindCategoryByName(ctx, name, excludeID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("failed to check category name: %w", err)
	}
	if existing != nil {
		return fmt.Errorf("%w: %s", apperrors.ErrDuplicate, ErrCategoryNameTaken)
	}
	return nil
}

func (s *categoryService) CreateCategory(ctx context.Context, req dto.CreateCategoryRequest) (*domain.Category, error) {
	if err := s.checkName(ctx, req.Name, ""); err != nil {
		return nil, err
	}

	now := time.Now()
	category := domain.Category{
		CategoryID:  uuid.NewString(),
		Name:        req.Name,
		Color:       req.Color,
		Description: req.Description,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}
	if err := s.categoryRepo.SaveCategory(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	s.GetLogger(ctx).Info("Category created", slog.String("category_id", category.CategoryID))
	return &category, nil
}

func (s *categoryService) UpdateCategory(ctx context.Context, categoryID string, req dto.UpdateCategoryRequest) (*domain.Category, error) {
	category, err := s.categoryRepo.FindCategoryByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && *req.Name != category.Name {
		if err := s.checkName(ctx, *req.Name, categoryID); err != nil {
			return nil, err
		}
		category.Name = *req.Name
	}
	if req.Color != nil {
		category.Color = req.Color
	}
	if req.Description != nil {
		category.Description = req.Description
	}
	category.LastUpdatedAt = time.Now()

	if err := s.categoryRepo.UpdateCategory(ctx, *category); err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	return category, nil
}

// DeleteCategory removes a category; books still assigned block the delete.
func (s *categoryService) DeleteCategory(ctx context.Context, categoryID string) error {
	category, err := s.categoryRepo.FindCategoryByID(ctx, categoryID)
	if err != nil {
		return err
	}
	if category.BookCount > 0 {
		return fmt.Errorf("%w: %s", apperrors.ErrRuleViolation, ErrCategoryInUse)
	}
	if err := s.categoryRepo.DeleteCategory(ctx, categoryID); err != nil {
		return err
	}
	s.GetLogger(ctx).Info("Category deleted", slog.String("category_id", categoryID))
	return nil
}
