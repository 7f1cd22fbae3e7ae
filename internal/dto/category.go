package dto

import "github.com/yomu-app/yomu_backend/internal/core/domain"

// CategoryResponse defines the data returned for a category.
type CategoryResponse struct {
	CategoryID  string  `json:"categoryID"`
	Name        string  `json:"name"`
	Color       *string `json:"color,omitempty"`
	Description *string `json:"description,omitempty"`
	BookCount   int     `json:"bookCount"`
}

// CreateCategoryRequest defines the data needed to create a category.
type CreateCategoryRequest struct {
	Name        string  `json:"name" binding:"required"`
	Color       *string `json:"color"`
	Description *string `json:"description"`
}

// UpdateCategoryRequest defines the data allowed for updating a category.
type UpdateCategoryRequest struct {
	Name        *string `json:"name"`
	Color       *string `json:"color"`
	Description *string `json:"description"`
}

// ToCategoryResponse converts a domain.Category to CategoryResponse DTO.
func ToCategoryResponse(c *domain.Category) CategoryResponse {
	return CategoryResponse{
		CategoryID:  c.CategoryID,
		Name:        c.Name,
		Color:       c.Color,
		Description: c.Description,
		BookCount:   c.BookCount,
	}
}
