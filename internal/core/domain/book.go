package domain

import "time"

// Book is a catalog title with physical stock counters.
// AvailableStock is the number of copies not currently lent out and is only
// mutated inside the same transaction as the loan-status write that causes
// the change.
type Book struct {
	BookID         string  `json:"bookID"` // Primary Key (UUID)
	Title          string  `json:"title"`
	Author         string  `json:"author"`
	Publisher      *string `json:"publisher,omitempty"`
	Year           *int    `json:"year,omitempty"`
	ISBN           *string `json:"isbn,omitempty"`
	CategoryID     string  `json:"categoryID"`
	Synopsis       *string `json:"synopsis,omitempty"`
	CoverURL       *string `json:"coverURL,omitempty"`
	Stock          int     `json:"stock"`
	AvailableStock int     `json:"availableStock"`
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty"` // Used for soft delete

	Category      *Category `json:"category,omitempty"`
	AverageRating float64   `json:"averageRating,omitempty"`
	ReviewCount   int       `json:"reviewCount,omitempty"`
}

// BookSummary is the trimmed book shape attached to loans and messages.
type BookSummary struct {
	BookID   string  `json:"bookID"`
	Title    string  `json:"title"`
	Author   string  `json:"author"`
	CoverURL *string `json:"coverURL,omitempty"`
	ISBN     *string `json:"isbn,omitempty"`
}
