package repositories

import (
	"context"

	"github.com/yomu-app/yomu_backend/internal/core/domain"
)

// ReviewRepositoryFacade defines storage operations for book reviews.
type ReviewRepositoryFacade interface {
	SaveReview(ctx context.Context, review domain.Review) error
	FindReviewByID(ctx context.Context, reviewID string) (*domain.Review, error)
	FindReviewByUserAndBook(ctx context.Context, userID, bookID string) (*domain.Review, error)
	ListReviewsByBook(ctx context.Context, bookID string) ([]domain.Review, error)
	DeleteReview(ctx context.Context, reviewID string) error

	// BookRating returns the average rating and review count for a book.
	BookRating(ctx context.Context, bookID string) (float64, int, error)
}

// FavoriteRepositoryFacade defines storage operations for favorites.
type FavoriteRepositoryFacade interface {
	SaveFavorite(ctx context.Context, favorite domain.Favorite) error
	DeleteFavorite(ctx context.Context, userID, bookID string) error
	ListFavoritesByUser(ctx context.Context, userID string) ([]domain.Favorite, error)
	IsFavorite(ctx context.Context, userID, bookID string) (bool, error)
}
