package dto

import "time"

// CurrentLoanItem is one of a borrower's active loans on the dashboard.
type CurrentLoanItem struct {
	LoanID    string         `json:"loanID"`
	Book      BookSummaryDTO `json:"book"`
	Status    string         `json:"status"`
	DueDate   time.Time      `json:"dueDate"`
	IsOverdue bool           `json:"isOverdue"`
}

// SiswaStatsResponse is the borrower dashboard payload.
type SiswaStatsResponse struct {
	ActiveLoans    int64             `json:"activeLoans"`
	BorrowedBooks  int64             `json:"borrowedBooks"`
	TotalLoans     int64             `json:"totalLoans"`
	FavoriteCount  int64             `json:"favoriteCount"`
	UnreadMessages int64             `json:"unreadMessages"`
	OverdueCount   int64             `json:"overdueCount"`
	NearestDueDate *time.Time        `json:"nearestDueDate,omitempty"`
	CurrentLoans   []CurrentLoanItem `json:"currentLoans"`
}

// AdminStatsResponse is the admin dashboard payload.
type AdminStatsResponse struct {
	TotalBooks        int64   `json:"totalBooks"`
	AvailableBooks    int64   `json:"availableBooks"`
	TotalUsers        int64   `json:"totalUsers"`
	ActiveUsers       int64   `json:"activeUsers"`
	PendingLoans      int64   `json:"pendingLoans"`
	ActiveLoans       int64   `json:"activeLoans"`
	OverdueLoans      int64   `json:"overdueLoans"`
	ReturningLoans    int64   `json:"returningLoans"`
	LoansThisMonth    int64   `json:"loansThisMonth"`
	LoansLastMonth    int64   `json:"loansLastMonth"`
	NewUsersThisMonth int64   `json:"newUsersThisMonth"`
	LoansTrend        float64 `json:"loansTrend"`
}
