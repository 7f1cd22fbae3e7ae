package pgsql

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yomu-app/yomu_backend/internal/apperrors"
	"github.com/yomu-app/yomu_backend/internal/core/domain"
	portsrepo "github.com/yomu-app/yomu_backend/internal/core/ports/repositories"
)

type PgxFavoriteRepository struct {
	BaseRepository
}

// newPgxFavoriteRepository creates a new repository for favorites.
func newPgxFavoriteRepository(pool *pgxpool.Pool) portsrepo.FavoriteRepositoryFacade {
	return &PgxFavoriteRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxFavoriteRepository implements portsrepo.FavoriteRepositoryFacade
var _ portsrepo.FavoriteRepositoryFacade = (*PgxFavoriteRepository)(nil)

// SaveFavorite persists a favorite.
func (r *PgxFavoriteRepository) SaveFavorite(ctx context.Context, favorite domain.Favorite) error {
	query := `
		INSERT INTO favorites (favorite_id, user_id, book_id, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.Pool.Exec(ctx, query,
		favorite.FavoriteID, favorite.UserID, favorite.BookID,
		favorite.CreatedAt, favorite.CreatedBy, favorite.LastUpdatedAt, favorite.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to save favorite "+favorite.FavoriteID, err)
	}
	return nil
}

// DeleteFavorite removes the user's favorite for the book.
func (r *PgxFavoriteRepository) DeleteFavorite(ctx context.Context, userID, bookID string) error {
	ct, err := r.Pool.Exec(ctx, `DELETE FROM favorites WHERE user_id = $1 AND book_id = $2;`, userID, bookID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete favorite", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ListFavoritesByUser retrieves the user's favorites with book summaries,
// newest first.
func (r *PgxFavoriteRepository) ListFavoritesByUser(ctx context.Context, userID string) ([]domain.Favorite, error) {
	query := `
		SELECT f.favorite_id, f.user_id, f.book_id,
			f.created_at, f.created_by, f.last_updated_at, f.last_updated_by,
			b.book_id, b.title, b.author, b.cover_url, b.isbn
		FROM favorites f
		JOIN books b ON b.book_id = f.book_id
		WHERE f.user_id = $1 AND b.deleted_at IS NULL
		ORDER BY f.created_at DESC;
	`
	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list favorites", err)
	}
	defer rows.Close()

	var favorites []domain.Favorite
	for rows.Next() {
		var fav domain.Favorite
		var book domain.BookSummary
		err := rows.Scan(
			&fav.FavoriteID, &fav.UserID, &fav.BookID,
			&fav.CreatedAt, &fav.CreatedBy, &fav.LastUpdatedAt, &fav.LastUpdatedBy,
			&book.BookID, &book.Title, &book.Author, &book.CoverURL, &book.ISBN,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan favorite row", err)
		}
		fav.Book = &book
		favorites = append(favorites, fav)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate favorite rows", err)
	}
	return favorites, nil
}

// IsFavorite reports whether the user favorited the book.
func (r *PgxFavoriteRepository) IsFavorite(ctx context.Context, userID, bookID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM favorites WHERE user_id = $1 AND book_id = $2);`
	if err := r.Pool.QueryRow(ctx, query, userID, bookID).Scan(&exists); err != nil {
		return false, apperrors.NewAppError(500, "failed to check favorite", err)
	}
	return exists, nil
}
