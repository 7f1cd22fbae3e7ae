package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yomu-app/yomu_backend/internal/apperrors"
	"github.com/yomu-app/yomu_backend/internal/core/domain"
	portsrepo "github.com/yomu-app/yomu_backend/internal/core/ports/repositories"
	"github.com/yomu-app/yomu_backend/internal/dto"
)

// bookSortColumns maps API sort keys to book table columns.
var bookSortColumns = map[string]string{
	"title":     "b.title",
	"author":    "b.author",
	"year":      "b.year",
	"createdAt": "b.created_at",
}

type PgxBookRepository struct {
	BaseRepository
}

// newPgxBookRepository creates a new repository for catalog data.
func newPgxBookRepository(pool *pgxpool.Pool) portsrepo.BookRepositoryFacade {
	return &PgxBookRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxBookRepository implements portsrepo.BookRepositoryFacade
var _ portsrepo.BookRepositoryFacade = (*PgxBookRepository)(nil)

const bookSelectColumns = `
	b.book_id, b.title, b.author, b.publisher, b.year, b.isbn, b.category_id,
	b.synopsis, b.cover_url, b.stock, b.available_stock,
	b.created_at, b.created_by, b.last_updated_at, b.last_updated_by, b.deleted_at,
	c.category_id, c.name, c.color, c.description,
	COALESCE(AVG(r.rating), 0), COUNT(r.review_id)`

const bookJoins = `
	FROM books b
	JOIN categories c ON c.category_id = b.category_id
	LEFT JOIN reviews r ON r.book_id = b.book_id`

const bookGroupBy = `
	GROUP BY b.book_id, c.category_id`

func scanBook(row pgx.Row) (*domain.Book, error) {
	var book domain.Book
	var category domain.Category

	err := row.Scan(
		&book.BookID, &book.Title, &book.Author, &book.Publisher, &book.Year, &book.ISBN, &book.CategoryID,
		&book.Synopsis, &book.CoverURL, &book.Stock, &book.AvailableStock,
		&book.CreatedAt, &book.CreatedBy, &book.LastUpdatedAt, &book.LastUpdatedBy, &book.DeletedAt,
		&category.CategoryID, &category.Name, &category.Color, &category.Description,
		&book.AverageRating, &book.ReviewCount,
	)
	if err != nil {
		return nil, err
	}
	book.Category = &category
	return &book, nil
}

// FindBookByID retrieves a book with its category and rating aggregates.
func (r *PgxBookRepository) FindBookByID(ctx context.Context, bookID string) (*domain.Book, error) {
	query := `SELECT` + bookSelectColumns + bookJoins + `
	WHERE b.book_id = $1 AND b.deleted_at IS NULL` + bookGroupBy + `;`

	book, err := scanBook(r.Pool.QueryRow(ctx, query, bookID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find book by ID "+bookID, err)
	}
	return book, nil
}

// FindBookByISBN retrieves a non-deleted book by ISBN, excluding excludeBookID.
func (r *PgxBookRepository) FindBookByISBN(ctx context.Context, isbn string, excludeBookID string) (*domain.Book, error) {
	query := `SELECT` + bookSelectColumns + bookJoins + `
	WHERE b.isbn = $1 AND b.book_id <> $2 AND b.deleted_at IS NULL` + bookGroupBy + `
	LIMIT 1;`

	book, err := scanBook(r.Pool.QueryRow(ctx, query, isbn, excludeBookID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find book by ISBN", err)
	}
	return book, nil
}

func buildBookFilter(params dto.ListBooksParams) []goqu.Expression {
	exprs := []goqu.Expression{goqu.I("b.deleted_at").IsNull()}
	if params.Search != "" {
		pattern := "%" + params.Search + "%"
		exprs = append(exprs, goqu.Or(
			goqu.I("b.title").ILike(pattern),
			goqu.I("b.author").ILike(pattern),
		))
	}
	if params.CategoryID != "" {
		exprs = append(exprs, goqu.Ex{"b.category_id": params.CategoryID})
	}
	return exprs
}

// ListBooks retrieves a filtered, sorted page of books plus the total count.
func (r *PgxBookRepository) ListBooks(ctx context.Context, params dto.ListBooksParams) ([]domain.Book, int64, error) {
	filter := buildBookFilter(params)

	countSQL, countArgs, err := pgDialect.
		From(goqu.T("books").As("b")).
		Select(goqu.COUNT("*")).
		Where(filter...).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, 0, apperrors.NewAppError(500, "failed to build book count query", err)
	}

	var total int64
	if err := r.Pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, apperrors.NewAppError(500, "failed to count books", err)
	}

	sortCol, ok := bookSortColumns[params.SortBy]
	if !ok {
		sortCol = "b.created_at"
	}
	order := goqu.I(sortCol).Desc()
	if params.SortOrder == "asc" {
		order = goqu.I(sortCol).Asc()
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 10
	}

	pageSQL, pageArgs, err := pgDialect.
		From(goqu.T("books").As("b")).
		Select(goqu.L(bookSelectColumns)).
		Join(goqu.T("categories").As("c"), goqu.On(goqu.I("c.category_id").Eq(goqu.I("b.category_id")))).
		LeftJoin(goqu.T("reviews").As("r"), goqu.On(goqu.I("r.book_id").Eq(goqu.I("b.book_id")))).
		Where(filter...).
		GroupBy(goqu.I("b.book_id"), goqu.I("c.category_id")).
		Order(order).
		Limit(uint(limit)).
		Offset(uint(params.Offset())).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, 0, apperrors.NewAppError(500, "failed to build book list query", err)
	}

	rows, err := r.Pool.Query(ctx, pageSQL, pageArgs...)
	if err != nil {
		return nil, 0, apperrors.NewAppError(500, "failed to list books", err)
	}
	defer rows.Close()

	books := make([]domain.Book, 0, limit)
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, 0, apperrors.NewAppError(500, "failed to scan book row", err)
		}
		books = append(books, *book)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperrors.NewAppError(500, "failed to iterate book rows", err)
	}

	return books, total, nil
}

// SaveBook persists a new book.
func (r *PgxBookRepository) SaveBook(ctx context.Context, book domain.Book) error {
	query := `
		INSERT INTO books (book_id, title, author, publisher, year, isbn, category_id,
			synopsis, cover_url, stock, available_stock,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err := r.Pool.Exec(ctx, query,
		book.BookID, book.Title, book.Author, book.Publisher, book.Year, book.ISBN, book.CategoryID,
		book.Synopsis, book.CoverURL, book.Stock, book.AvailableStock,
		book.CreatedAt, book.CreatedBy, book.LastUpdatedAt, book.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to save book "+book.BookID, err)
	}
	return nil
}

// UpdateBook updates an existing book's details and stock counters.
func (r *PgxBookRepository) UpdateBook(ctx context.Context, book domain.Book) error {
	query := `
		UPDATE books
		SET title = $2, author = $3, publisher = $4, year = $5, isbn = $6,
			category_id = $7, synopsis = $8, cover_url = $9,
			stock = $10, available_stock = $11,
			last_updated_at = $12, last_updated_by = $13
		WHERE book_id = $1 AND deleted_at IS NULL;
	`
	ct, err := r.Pool.Exec(ctx, query,
		book.BookID, book.Title, book.Author, book.Publisher, book.Year, book.ISBN,
		book.CategoryID, book.Synopsis, book.CoverURL,
		book.Stock, book.AvailableStock,
		book.LastUpdatedAt, book.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update book "+book.BookID, err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// MarkBookDeleted marks a book as deleted (soft delete).
func (r *PgxBookRepository) MarkBookDeleted(ctx context.Context, bookID string, deletedAt time.Time) error {
	query := `UPDATE books SET deleted_at = $2, last_updated_at = $2 WHERE book_id = $1 AND deleted_at IS NULL;`
	ct, err := r.Pool.Exec(ctx, query, bookID, deletedAt)
	if err != nil {
		return apperrors.NewAppError(500, "failed to mark book deleted "+bookID, err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ReserveStockInTx decrements availableStock by one. The WHERE clause makes
// the decrement conditional so concurrent approvals of the last copy resolve
// to exactly one winner; the loser sees zero affected rows.
func (r *PgxBookRepository) ReserveStockInTx(ctx context.Context, tx pgx.Tx, bookID string) error {
	query := `
		UPDATE books
		SET available_stock = available_stock - 1, last_updated_at = now()
		WHERE book_id = $1 AND available_stock > 0 AND deleted_at IS NULL;
	`
	ct, err := tx.Exec(ctx, query, bookID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to reserve stock for book "+bookID, err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.ErrConflict
	}
	return nil
}

// ReleaseStockInTx increments availableStock by one.
func (r *PgxBookRepository) ReleaseStockInTx(ctx context.Context, tx pgx.Tx, bookID string) error {
	query := `
		UPDATE books
		SET available_stock = available_stock + 1, last_updated_at = now()
		WHERE book_id = $1;
	`
	ct, err := tx.Exec(ctx, query, bookID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to release stock for book "+bookID, err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
