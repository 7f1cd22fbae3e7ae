package services

import (
	"context"

	"github.com/yomu-app/yomu_backend/internal/core/domain"
	"github.com/yomu-app/yomu_backend/internal/dto"
)

// ReviewSvcFacade defines review operations.
type ReviewSvcFacade interface {
	CreateReview(ctx context.Context, userID, bookID string, req dto.CreateReviewRequest) (*domain.Review, error)
	ListBookReviews(ctx context.Context, bookID string) (*dto.ListReviewsResponse, error)
	DeleteReview(ctx context.Context, reviewID, userID string, isAdmin bool) error
}

// FavoriteSvcFacade defines favorite operations.
type FavoriteSvcFacade interface {
	AddFavorite(ctx context.Context, userID, bookID string) (*domain.Favorite, error)
	RemoveFavorite(ctx context.Context, userID, bookID string) error
	ListFavorites(ctx context.Context, userID string) ([]domain.Favorite, error)
	CheckFavorite(ctx context.Context, userID, bookID string) (bool, error)
}
