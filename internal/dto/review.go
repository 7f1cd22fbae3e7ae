package dto

import (
	"time"

	"github.com/yomu-app/yomu_backend/internal/core/domain"
)

// CreateReviewRequest defines the payload for reviewing a book.
type CreateReviewRequest struct {
	Rating  int     `json:"rating" binding:"required,min=1,max=5"`
	Comment *string `json:"comment"`
}

// ReviewResponse defines the data returned for a review.
type ReviewResponse struct {
	ReviewID  string          `json:"reviewID"`
	UserID    string          `json:"userID"`
	BookID    string          `json:"bookID"`
	Rating    int             `json:"rating"`
	Comment   *string         `json:"comment,omitempty"`
	User      *UserSummaryDTO `json:"user,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

// ListReviewsResponse wraps a book's reviews with its aggregate rating.
type ListReviewsResponse struct {
	Items         []ReviewResponse `json:"items"`
	AverageRating float64          `json:"averageRating"`
	ReviewCount   int              `json:"reviewCount"`
}

// ToReviewResponse converts a domain.Review to ReviewResponse DTO.
func ToReviewResponse(r *domain.Review) ReviewResponse {
	return ReviewResponse{
		ReviewID:  r.ReviewID,
		UserID:    r.UserID,
		BookID:    r.BookID,
		Rating:    r.Rating,
		Comment:   r.Comment,
		User:      ToUserSummaryDTO(r.User),
		CreatedAt: r.CreatedAt,
	}
}
