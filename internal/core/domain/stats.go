package domain

import "time"

// SiswaStats aggregates a borrower's dashboard counters.
type SiswaStats struct {
	ActiveLoans    int64
	BorrowedBooks  int64
	TotalLoans     int64
	FavoriteCount  int64
	UnreadMessages int64
	OverdueCount   int64
	NearestDueDate *time.Time
	CurrentLoans   []Loan
}

// AdminStats aggregates library-wide dashboard counters.
type AdminStats struct {
	TotalBooks        int64
	AvailableBooks    int64
	TotalUsers        int64
	ActiveUsers       int64
	PendingLoans      int64
	ActiveLoans       int64
	OverdueLoans      int64
	ReturningLoans    int64
	LoansThisMonth    int64
	LoansLastMonth    int64
	NewUsersThisMonth int64
}
