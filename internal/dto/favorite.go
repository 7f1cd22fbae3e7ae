package dto

import (
	"time"

	"github.com/yomu-app/yomu_backend/internal/core/domain"
)

// FavoriteResponse defines the data returned for a favorite entry.
type FavoriteResponse struct {
	FavoriteID string          `json:"favoriteID"`
	BookID     string          `json:"bookID"`
	Book       *BookSummaryDTO `json:"book,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// CheckFavoriteResponse reports whether a book is favorited by the caller.
type CheckFavoriteResponse struct {
	IsFavorite bool `json:"isFavorite"`
}

// ToFavoriteResponse converts a domain.Favorite to FavoriteResponse DTO.
func ToFavoriteResponse(f *domain.Favorite) FavoriteResponse {
	return FavoriteResponse{
		FavoriteID: f.FavoriteID,
		BookID:     f.BookID,
		Book:       ToBookSummaryDTO(f.Book),
		CreatedAt:  f.CreatedAt,
	}
}
