package dto

import (
	"time"

	"github.com/yomu-app/yomu_backend/internal/core/domain"
)

// BookResponse defines the data returned for a book.
type BookResponse struct {
	BookID         string            `json:"bookID"`
	Title          string            `json:"title"`
	Author         string            `json:"author"`
	Publisher      *string           `json:"publisher,omitempty"`
	Year           *int              `json:"year,omitempty"`
	ISBN           *string           `json:"isbn,omitempty"`
	CategoryID     string            `json:"categoryID"`
	Synopsis       *string           `json:"synopsis,omitempty"`
	CoverURL       *string           `json:"coverURL,omitempty"`
	Stock          int               `json:"stock"`
	AvailableStock int               `json:"availableStock"`
	Category       *CategoryResponse `json:"category,omitempty"`
	AverageRating  float64           `json:"averageRating"`
	ReviewCount    int               `json:"reviewCount"`
	CreatedAt      time.Time         `json:"createdAt"`
}

// CreateBookRequest defines the data needed to add a book to the catalog.
type CreateBookRequest struct {
	Title      string  `json:"title" binding:"required"`
	Author     string  `json:"author" binding:"required"`
	Publisher  *string `json:"publisher"`
	Year       *int    `json:"year" binding:"omitempty,min=1000,max=2100"`
	ISBN       *string `json:"isbn"`
	CategoryID string  `json:"categoryID" binding:"required"`
	Synopsis   *string `json:"synopsis"`
	CoverURL   *string `json:"coverURL"`
	Stock      int     `json:"stock" binding:"required,min=0"`
}

// UpdateBookRequest defines the data allowed for updating a book.
type UpdateBookRequest struct {
	Title      *string `json:"title"`
	Author     *string `json:"author"`
	Publisher  *string `json:"publisher"`
	Year       *int    `json:"year" binding:"omitempty,min=1000,max=2100"`
	ISBN       *string `json:"isbn"`
	CategoryID *string `json:"categoryID"`
	Synopsis   *string `json:"synopsis"`
	CoverURL   *string `json:"coverURL"`
	Stock      *int    `json:"stock" binding:"omitempty,min=0"`
}

// ListBooksParams defines query parameters for listing books.
type ListBooksParams struct {
	PageParams
	Search     string `form:"search"`
	CategoryID string `form:"categoryId"`
	SortBy     string `form:"sortBy" binding:"omitempty,oneof=title author year createdAt"`
	SortOrder  string `form:"sortOrder" binding:"omitempty,oneof=asc desc"`
}

// ListBooksResponse wraps the list of books with pagination metadata.
type ListBooksResponse struct {
	Items []BookResponse `json:"items"`
	Meta  PaginationMeta `json:"meta"`
}

// ToBookResponse converts a domain.Book to BookResponse DTO.
func ToBookResponse(b *domain.Book) BookResponse {
	resp := BookResponse{
		BookID:         b.BookID,
		Title:          b.Title,
		Author:         b.Author,
		Publisher:      b.Publisher,
		Year:           b.Year,
		ISBN:           b.ISBN,
		CategoryID:     b.CategoryID,
		Synopsis:       b.Synopsis,
		CoverURL:       b.CoverURL,
		Stock:          b.Stock,
		AvailableStock: b.AvailableStock,
		AverageRating:  b.AverageRating,
		ReviewCount:    b.ReviewCount,
		CreatedAt:      b.CreatedAt,
	}
	if b.Category != nil {
		cat := ToCategoryResponse(b.Category)
		resp.Category = &cat
	}
	return resp
}

// ToListBooksResponse converts domain books plus page info into the list DTO.
func ToListBooksResponse(books []domain.Book, page, limit int, total int64) ListBooksResponse {
	items := make([]BookResponse, len(books))
	for i, b := range books {
		items[i] = ToBookResponse(&b)
	}
	return ListBooksResponse{
		Items: items,
		Meta:  NewPaginationMeta(page, limit, total),
	}
}
