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
	ErrAlreadyReviewed  = errors.New("user already reviewed this book")
	ErrNotReviewAuthor  = errors.New("only the author or an admin can delete a review")
	ErrAlreadyFavorited = errors.New("book is already in favorites")
)

// reviewService handles book reviews.
type reviewService struct {
	BaseService
	reviewRepo portsrepo.ReviewRepositoryFacade
	bookRepo   portsrepo.BookReader
}

// NewReviewService creates a new ReviewService.
func NewReviewService(reviewRepo portsrepo.ReviewRepositoryFacade, bookRepo portsrepo.BookReader) portssvc.ReviewSvcFacade {
	return &reviewService{reviewRepo: reviewRepo, bookRepo: bookRepo}
}

// Ensure reviewService implements the portssvc.ReviewSvcFacade interface
var _ portssvc.ReviewSvcFacade = (*reviewService)(nil)

// CreateReview adds the user's review of a book. One review per (user, book).
func (s *reviewService) CreateReview(ctx context.Context, userID, bookID string, req dto.CreateReviewRequest) (*domain.Review, error) {
	if _, err := s.bookRepo.FindBookByID(ctx, bookID); err != nil {
		return nil, err
	}

	existing, err := s.reviewRepo.FindReviewByUserAndBook(ctx, userID, bookID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check for existing review: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrDuplicate, ErrAlreadyReviewed)
	}

	now := time.Now()
	review := domain.Review{
		ReviewID: uuid.NewString(),
		UserID:   userID,
		BookID:   bookID,
		Rating:   req.Rating,
		Comment:  req.Comment,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if err := s.reviewRepo.SaveReview(ctx, review); err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	s.GetLogger(ctx).Info("Review created",
		slog.String("review_id", review.ReviewID), slog.String("book_id", bookID))
	return s.reviewRepo.FindReviewByUserAndBook(ctx, userID, bookID)
}

// ListBookReviews returns a book's reviews with its aggregate rating.
func (s *reviewService) ListBookReviews(ctx context.Context, bookID string) (*dto.ListReviewsResponse, error) {
	if _, err := s.bookRepo.FindBookByID(ctx, bookID); err != nil {
		return nil, err
	}

	reviews, err := s.reviewRepo.ListReviewsByBook(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	avg, count, err := s.reviewRepo.BookRating(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate rating: %w", err)
	}

	items := make([]dto.ReviewResponse, len(reviews))
	for i := range reviews {
		items[i] = dto.ToReviewResponse(&reviews[i])
	}
	return &dto.ListReviewsResponse{Items: items, AverageRating: avg, ReviewCount: count}, nil
}

// DeleteReview removes a review. Authors can delete their own; admins any.
func (s *reviewService) DeleteReview(ctx context.Context, reviewID, userID string, isAdmin bool) error {
	review, err := s.reviewRepo.FindReviewByID(ctx, reviewID)
	if err != nil {
		return err
	}
	if !isAdmin && review.UserID != userID {
		return fmt.Errorf("%w: %s", apperrors.ErrForbidden, ErrNotReviewAuthor)
	}
	return s.reviewRepo.DeleteReview(ctx, reviewID)
}

// favoriteService handles per-user book favorites.
type favoriteService struct {
	BaseService
	favoriteRepo portsrepo.FavoriteRepositoryFacade
	bookRepo     portsrepo.BookReader
}

// NewFavoriteService creates a new FavoriteService.
func NewFavoriteService(favoriteRepo portsrepo.FavoriteRepositoryFacade, bookRepo portsrepo.BookReader) portssvc.FavoriteSvcFacade {
	return &favoriteService{favoriteRepo: favoriteRepo, bookRepo: bookRepo}
}

// Ensure favoriteService implements the portssvc.FavoriteSvcFacade interface
var _ portssvc.FavoriteSvcFacade = (*favoriteService)(nil)

// AddFavorite saves a book to the user's favorites.
func (s *favoriteService) AddFavorite(ctx context.Context, userID, bookID string) (*domain.Favorite, error) {
	book, err := s.bookRepo.FindBookByID(ctx, bookID)
	if err != nil {
		return nil, err
	}

	already, err := s.favoriteRepo.IsFavorite(ctx, userID, bookID)
	if err != nil {
		return nil, err
	}
	if already {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrDuplicate, ErrAlreadyFavorited)
	}

	now := time.Now()
	favorite := domain.Favorite{
		FavoriteID: uuid.NewString(),
		UserID:     userID,
		BookID:     bookID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
		Book: &domain.BookSummary{
			BookID:   book.BookID,
			Title:    book.Title,
			Author:   book.Author,
			CoverURL: book.CoverURL,
			ISBN:     book.ISBN,
		},
	}
	if err := s.favoriteRepo.SaveFavorite(ctx, favorite); err != nil {
		return nil, fmt.Errorf("failed to add favorite: %w", err)
	}
	return &favorite, nil
}

// RemoveFavorite deletes the user's favorite for the book.
func (s *favoriteService) RemoveFavorite(ctx context.Context, userID, bookID string) error {
	return s.favoriteRepo.DeleteFavorite(ctx, userID, bookID)
}

// ListFavorites lists the user's favorites with book summaries.
func (s *favoriteService) ListFavorites(ctx context.Context, userID string) ([]domain.Favorite, error) {
	return s.favoriteRepo.ListFavoritesByUser(ctx, userID)
}

// CheckFavorite reports whether the user favorited the book.
func (s *favoriteService) CheckFavorite(ctx context.Context, userID, bookID string) (bool, error) {
	return s.favoriteRepo.IsFavorite(ctx, userID, bookID)
}
