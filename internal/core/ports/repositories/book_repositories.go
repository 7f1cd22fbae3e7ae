package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/yomu-app/yomu_backend/internal/core/domain"
	"github.com/yomu-app/yomu_backend/internal/dto"
)

// BookReader defines read operations for catalog data
type BookReader interface {
	// FindBookByID retrieves a book by ID. Soft-deleted books are not returned.
	FindBookByID(ctx context.Context, bookID string) (*domain.Book, error)

	// FindBookByISBN retrieves a non-deleted book by ISBN, excluding the given
	// book ID (pass "" to match any).
	FindBookByISBN(ctx context.Context, isbn string, excludeBookID string) (*domain.Book, error)

	// ListBooks retrieves a page of books plus the total matching count.
	ListBooks(ctx context.Context, params dto.ListBooksParams) ([]domain.Book, int64, error)
}

// BookWriter defines write operations for catalog data
type BookWriter interface {
	// SaveBook persists a new book.
	SaveBook(ctx context.Context, book domain.Book) error

	// UpdateBook updates an existing book's details and stock counters.
	UpdateBook(ctx context.Context, book domain.Book) error

	// MarkBookDeleted marks a book as deleted (soft delete).
	MarkBookDeleted(ctx context.Context, bookID string, deletedAt time.Time) error
}

// BookStockManager mutates available-stock counters. Both methods must be
// called inside a caller-owned transaction so the stock change commits or
// rolls back together with the loan-status write that caused it.
type BookStockManager interface {
	// ReserveStockInTx decrements availableStock by one as a single
	// conditional update. It returns apperrors.ErrConflict when the book has
	// no available copy left.
	ReserveStockInTx(ctx context.Context, tx pgx.Tx, bookID string) error

	// ReleaseStockInTx increments availableStock by one. Releases are paired
	// 1:1 with prior reservations.
	ReleaseStockInTx(ctx context.Context, tx pgx.Tx, bookID string) error
}

// BookRepositoryFacade combines all book-related repository interfaces
type BookRepositoryFacade interface {
	BookReader
	BookWriter
	BookStockManager
}
