package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/yomu-app/yomu_backend/internal/core/domain"
)

// CreateLoanRequest defines the data a borrower submits to request a loan.
type CreateLoanRequest struct {
	BookID       string `json:"bookId" binding:"required"`
	DurationDays int    `json:"durationDays" binding:"omitempty,min=1,max=30"`
}

// AdminActionRequest carries the optional fields an admin may set when
// approving, rejecting or verifying a loan.
type AdminActionRequest struct {
	AdminNotes    *string          `json:"adminNotes"`
	BookCondition *string          `json:"bookCondition" binding:"omitempty,oneof=GOOD DAMAGED LOST"`
	FineAmount    *decimal.Decimal `json:"fineAmount"`
}

// ReturnBookRequest carries the borrower's self-reported book condition.
type ReturnBookRequest struct {
	BookCondition string `json:"bookCondition" binding:"required,oneof=GOOD DAMAGED LOST"`
}

// ListLoansParams defines query parameters for listing loans.
type ListLoansParams struct {
	PageParams
	Status    string `form:"status" binding:"omitempty,oneof=PENDING APPROVED REJECTED BORROWED RETURNING RETURNED OVERDUE"`
	UserID    string `form:"userId"`
	BookID    string `form:"bookId"`
	SortBy    string `form:"sortBy" binding:"omitempty,oneof=loanDate dueDate createdAt"`
	SortOrder string `form:"sortOrder" binding:"omitempty,oneof=asc desc"`
}

// LoanResponse defines the data returned for a loan, with borrower/book/
// verifier summaries attached.
type LoanResponse struct {
	LoanID        string           `json:"loanID"`
	UserID        string           `json:"userID"`
	BookID        string           `json:"bookID"`
	LoanDate      time.Time        `json:"loanDate"`
	DueDate       time.Time        `json:"dueDate"`
	ReturnDate    *time.Time       `json:"returnDate,omitempty"`
	Status        string           `json:"status"`
	BookCondition *string          `json:"bookCondition,omitempty"`
	FineAmount    *decimal.Decimal `json:"fineAmount,omitempty"`
	AdminNotes    *string          `json:"adminNotes,omitempty"`
	User          *UserSummaryDTO  `json:"user,omitempty"`
	Book          *BookSummaryDTO  `json:"book,omitempty"`
	Verifier      *UserSummaryDTO  `json:"verifier,omitempty"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

// UserSummaryDTO is the trimmed user shape embedded in other responses.
type UserSummaryDTO struct {
	UserID    string  `json:"userID"`
	Name      string  `json:"name"`
	Email     string  `json:"email,omitempty"`
	AvatarURL *string `json:"avatarURL,omitempty"`
}

// BookSummaryDTO is the trimmed book shape embedded in other responses.
type BookSummaryDTO struct {
	BookID   string  `json:"bookID"`
	Title    string  `json:"title"`
	Author   string  `json:"author"`
	CoverURL *string `json:"coverURL,omitempty"`
	ISBN     *string `json:"isbn,omitempty"`
}

// ListLoansResponse wraps the list of loans with pagination metadata.
type ListLoansResponse struct {
	Items []LoanResponse `json:"items"`
	Meta  PaginationMeta `json:"meta"`
}

// OverdueSweepResponse reports the outcome of an overdue sweep.
type OverdueSweepResponse struct {
	Updated int64  `json:"updated"`
	Message string `json:"message"`
}

// ToUserSummaryDTO converts a domain.UserSummary to its DTO.
func ToUserSummaryDTO(u *domain.UserSummary) *UserSummaryDTO {
	if u == nil {
		return nil
	}
	return &UserSummaryDTO{UserID: u.UserID, Name: u.Name, Email: u.Email, AvatarURL: u.AvatarURL}
}

// ToBookSummaryDTO converts a domain.BookSummary to its DTO.
func ToBookSummaryDTO(b *domain.BookSummary) *BookSummaryDTO {
	if b == nil {
		return nil
	}
	return &BookSummaryDTO{BookID: b.BookID, Title: b.Title, Author: b.Author, CoverURL: b.CoverURL, ISBN: b.ISBN}
}

// ToLoanResponse converts a domain.Loan to LoanResponse DTO.
func ToLoanResponse(l *domain.Loan) LoanResponse {
	var condition *string
	if l.BookCondition != nil {
		c := string(*l.BookCondition)
		condition = &c
	}
	return LoanResponse{
		LoanID:        l.LoanID,
		UserID:        l.UserID,
		BookID:        l.BookID,
		LoanDate:      l.LoanDate,
		DueDate:       l.DueDate,
		ReturnDate:    l.ReturnDate,
		Status:        string(l.Status),
		BookCondition: condition,
		FineAmount:    l.FineAmount,
		AdminNotes:    l.AdminNotes,
		User:          ToUserSummaryDTO(l.User),
		Book:          ToBookSummaryDTO(l.Book),
		Verifier:      ToUserSummaryDTO(l.Verifier),
		CreatedAt:     l.CreatedAt,
		UpdatedAt:     l.LastUpdatedAt,
	}
}

// ToListLoansResponse converts domain loans plus page info into the list DTO.
func ToListLoansResponse(loans []domain.Loan, page, limit int, total int64) ListLoansResponse {
	items := make([]LoanResponse, len(loans))
	for i, l := range loans {
		items[i] = ToLoanResponse(&l)
	}
	return ListLoansResponse{
		Items: items,
		Meta:  NewPaginationMeta(page, limit, total),
	}
}
