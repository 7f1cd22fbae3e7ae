package pgsql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yomu-app/yomu_backend/internal/apperrors"
	"github.com/yomu-app/yomu_backend/internal/core/domain"
	portsrepo "github.com/yomu-app/yomu_backend/internal/core/ports/repositories"
)

type PgxReviewRepository struct {
	BaseRepository
}

// newPgxReviewRepository creates a new repository for book reviews.
func newPgxReviewRepository(pool *pgxpool.Pool) portsrepo.ReviewRepositoryFacade {
	return &PgxReviewRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxReviewRepository implements portsrepo.ReviewRepositoryFacade
var _ portsrepo.ReviewRepositoryFacade = (*PgxReviewRepository)(nil)

const reviewSelect = `
	SELECT r.review_id, r.user_id, r.book_id, r.rating, r.comment,
		r.created_at, r.created_by, r.last_updated_at, r.last_updated_by,
		u.user_id, u.name, u.email, u.avatar_url
	FROM reviews r
	JOIN users u ON u.user_id = r.user_id`

func scanReview(row pgx.Row) (*domain.Review, error) {
	var review domain.Review
	var user domain.UserSummary
	err := row.Scan(
		&review.ReviewID, &review.UserID, &review.BookID, &review.Rating, &review.Comment,
		&review.CreatedAt, &review.CreatedBy, &review.LastUpdatedAt, &review.LastUpdatedBy,
		&user.UserID, &user.Name, &user.Email, &user.AvatarURL,
	)
	if err != nil {
		return nil, err
	}
	review.User = &user
	return &review, nil
}

// SaveReview persists a new review.
func (r *PgxReviewRepository) SaveReview(ctx context.Context, review domain.Review) error {
	query := `
		INSERT INTO reviews (review_id, user_id, book_id, rating, comment,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.Pool.Exec(ctx, query,
		review.ReviewID, review.UserID, review.BookID, review.Rating, review.Comment,
		review.CreatedAt, review.CreatedBy, review.LastUpdatedAt, review.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to save review "+review.ReviewID, err)
	}
	return nil
}

// FindReviewByID retrieves a review by its primary key.
func (r *PgxReviewRepository) FindReviewByID(ctx context.Context, reviewID string) (*domain.Review, error) {
	query := reviewSelect + ` WHERE r.review_id = $1;`
	review, err := scanReview(r.Pool.QueryRow(ctx, query, reviewID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find review by ID "+reviewID, err)
	}
	return review, nil
}

// FindReviewByUserAndBook retrieves the user's review of the book, if any.
func (r *PgxReviewRepository) FindReviewByUserAndBook(ctx context.Context, userID, bookID string) (*domain.Review, error) {
	query := reviewSelect + ` WHERE r.user_id = $1 AND r.book_id = $2;`
	review, err := scanReview(r.Pool.QueryRow(ctx, query, userID, bookID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find review", err)
	}
	return review, nil
}

// ListReviewsByBook retrieves a book's reviews, newest first.
func (r *PgxReviewRepository) ListReviewsByBook(ctx context.Context, bookID string) ([]domain.Review, error) {
	query := reviewSelect + ` WHERE r.book_id = $1 ORDER BY r.created_at DESC;`
	rows, err := r.Pool.Query(ctx, query, bookID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list reviews", err)
	}
	defer rows.Close()

	var reviews []domain.Review
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan review row", err)
		}
		reviews = append(reviews, *review)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate review rows", err)
	}
	return reviews, nil
}

// DeleteReview removes a review.
func (r *PgxReviewRepository) DeleteReview(ctx context.Context, reviewID string) error {
	ct, err := r.Pool.Exec(ctx, `DELETE FROM reviews WHERE review_id = $1;`, reviewID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete review "+reviewID, err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// BookRating returns the average rating and review count for a book.
func (r *PgxReviewRepository) BookRating(ctx context.Context, bookID string) (float64, int, error) {
	var avg float64
	var count int
	query := `SELECT COALESCE(AVG(rating), 0), COUNT(*) FROM reviews WHERE book_id = $1;`
	if err := r.Pool.QueryRow(ctx, query, bookID).Scan(&avg, &count); err != nil {
		return 0, 0, apperrors.NewAppError(500, "failed to aggregate book rating "+bookID, err)
	}
	return avg, count, nil
}
