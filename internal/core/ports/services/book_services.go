package services

import (
	"context"

	"github.com/yomu-app/yomu_backend/internal/core/domain"
	"github.com/yomu-app/yomu_backend/internal/dto"
)

// BookReaderSvc defines read operations over the catalog.
type BookReaderSvc interface {
	// GetBookByID retrieves a book with category and rating attached.
	GetBookByID(ctx context.Context, bookID string) (*domain.Book, error)

	// ListBooks retrieves a searched/filtered/sorted page of books.
	ListBooks(ctx context.Context, params dto.ListBooksParams) (*dto.ListBooksResponse, error)
}

// BookWriterSvc defines catalog mutations (admin only).
type BookWriterSvc interface {
	CreateBook(ctx context.Context, req dto.CreateBookRequest) (*domain.Book, error)
	UpdateBook(ctx context.Context, bookID string, req dto.UpdateBookRequest) (*domain.Book, error)

	// DeleteBook soft-deletes a book. Fails with ErrConflict while copies are
	// out with borrowers (BORROWED/OVERDUE loans).
	DeleteBook(ctx context.Context, bookID string) error
}

// BookSvcFacade combines all book-related service interfaces
type BookSvcFacade interface {
	BookReaderSvc
	BookWriterSvc
}
