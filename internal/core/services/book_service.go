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
	ErrISBNTaken       = errors.New("a book with this ISBN already exists")
	ErrBookHasBorrowed = errors.New("book has copies out with borrowers")
)

// reservedStatuses are the loan states that hold a stock unit.
var reservedStatuses = []domain.LoanStatus{
	domain.LoanApproved,
	domain.LoanBorrowed,
	domain.LoanOverdue,
	domain.LoanReturning,
}

// bookService manages the catalog.
type bookService struct {
	BaseService
	bookRepo     portsrepo.BookRepositoryFacade
	categoryRepo portsrepo.CategoryRepositoryFacade
	loanRepo     portsrepo.LoanReader
}

// NewBookService creates a new BookService.
func NewBookService(bookRepo portsrepo.BookRepositoryFacade, categoryRepo portsrepo.CategoryRepositoryFacade, loanRepo portsrepo.LoanReader) portssvc.BookSvcFacade {
	return &bookService{bookRepo: bookRepo, categoryRepo: categoryRepo, loanRepo: loanRepo}
}

// Ensure bookService implements the portssvc.BookSvcFacade interface
var _ portssvc.BookSvcFacade = (*bookService)(nil)

// GetBookByID retrieves a book with category and rating attached.
func (s *bookService) GetBookByID(ctx context.Context, bookID string) (*domain.Book, error) {
	return s.bookRepo.FindBookByID(ctx, bookID)
}

// ListBooks retrieves a searched/filtered/sorted page of books.
func (s *bookService) ListBooks(ctx context.Context, params dto.ListBooksParams) (*dto.ListBooksResponse, error) {
	books, total, err := s.bookRepo.ListBooks(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	resp := dto.ToListBooksResponse(books, params.Page, params.Limit, total)
	return &resp, nil
}

func (s *bookService) checkISBN(ctx context.Context, isbn *string, excludeBookID string) error {
	if isbn == nil || *isbn == "" {
		return nil
	}
	existing, err := s.bookRepo.FindBookByISBN(ctx, *isbn, excludeBookID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("failed to check ISBN uniqueness: %w", err)
	}
	if existing != nil {
		return fmt.Errorf("%w: %s", apperrors.ErrDuplicate, ErrISBNTaken)
	}
	return nil
}

// CreateBook adds a title to the catalog with all copies available.
func (s *bookService) CreateBook(ctx context.Context, req dto.CreateBookRequest) (*domain.Book, error) {
	if _, err := s.categoryRepo.FindCategoryByID(ctx, req.CategoryID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: category %s does not exist", apperrors.ErrValidation, req.CategoryID)
		}
		return nil, err
	}
	if err := s.checkISBN(ctx, req.ISBN, ""); err != nil {
		return nil, err
	}

	now := time.Now()
	book := domain.Book{
		BookID:         uuid.NewString(),
		Title:          req.Title,
		Author:         req.Author,
		Publisher:      req.Publisher,
		Year:           req.Year,
		ISBN:           req.ISBN,
		CategoryID:     req.CategoryID,
		Synopsis:       req.Synopsis,
		CoverURL:       req.CoverURL,
		Stock:          req.Stock,
		AvailableStock: req.Stock,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	if err := s.bookRepo.SaveBook(ctx, book); err != nil {
		return nil, fmt.Errorf("failed to create book: %w", err)
	}

	s.GetLogger(ctx).Info("Book created", slog.String("book_id", book.BookID), slog.String("title", book.Title))
	return s.bookRepo.FindBookByID(ctx, book.BookID)
}

// UpdateBook updates a book. When total stock changes, availableStock is
// recomputed as the new total minus copies currently held by loans, floored
// at zero.
func (s *bookService) UpdateBook(ctx context.Context, bookID string, req dto.UpdateBookRequest) (*domain.Book, error) {
	book, err := s.bookRepo.FindBookByID(ctx, bookID)
	if err != nil {
		return nil, err
	}

	if req.CategoryID != nil {
		if _, err := s.categoryRepo.FindCategoryByID(ctx, *req.CategoryID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: category %s does not exist", apperrors.ErrValidation, *req.CategoryID)
			}
			return nil, err
		}
		book.CategoryID = *req.CategoryID
	}
	if req.ISBN != nil {
		if err := s.checkISBN(ctx, req.ISBN, bookID); err != nil {
			return nil, err
		}
		book.ISBN = req.ISBN
	}
	if req.Title != nil {
		book.Title = *req.Title
	}
	if req.Author != nil {
		book.Author = *req.Author
	}
	if req.Publisher != nil {
		book.Publisher = req.Publisher
	}
	if req.Year != nil {
		book.Year = req.Year
	}
	if req.Synopsis != nil {
		book.Synopsis = req.Synopsis
	}
	if req.CoverURL != nil {
		book.CoverURL = req.CoverURL
	}
	if req.Stock != nil && *req.Stock != book.Stock {
		held, err := s.loanRepo.CountLoansByBookAndStatuses(ctx, bookID, reservedStatuses)
		if err != nil {
			return nil, fmt.Errorf("failed to count held copies: %w", err)
		}
		book.Stock = *req.Stock
		available := *req.Stock - int(held)
		if available < 0 {
			available = 0
		}
		book.AvailableStock = available
	}
	book.LastUpdatedAt = time.Now()

	if err := s.bookRepo.UpdateBook(ctx, *book); err != nil {
		return nil, fmt.Errorf("failed to update book: %w", err)
	}
	return s.bookRepo.FindBookByID(ctx, bookID)
}

// DeleteBook soft-deletes a book. Copies out with borrowers block deletion.
func (s *bookService) DeleteBook(ctx context.Context, bookID string) error {
	if _, err := s.bookRepo.FindBookByID(ctx, bookID); err != nil {
		return err
	}

	out, err := s.loanRepo.CountLoansByBookAndStatuses(ctx, bookID, []domain.LoanStatus{domain.LoanBorrowed, domain.LoanOverdue})
	if err != nil {
		return fmt.Errorf("failed to count outstanding loans: %w", err)
	}
	if out > 0 {
		return fmt.Errorf("%w: %s", apperrors.ErrConflict, ErrBookHasBorrowed)
	}

	if err := s.bookRepo.MarkBookDeleted(ctx, bookID, time.Now()); err != nil {
		return err
	}
	s.GetLogger(ctx).Info("Book deleted", slog.String("book_id", bookID))
	return nil
}
