package domain

// ReportSummary aggregates library-wide circulation counters for the admin
// reports page, including a per-status breakdown and trailing-window activity.
type ReportSummary struct {
	TotalBooks    int64
	TotalUsers    int64
	TotalLoans    int64
	ActiveLoans   int64
	OverdueLoans  int64
	PendingLoans  int64
	LoansByStatus map[string]int64
	RecentLoans   int64
	RecentReturns int64
}

// LoanReportStats summarizes the verified returns inside a report window.
type LoanReportStats struct {
	TotalReturned int64
	OnTime        int64
	Damaged       int64
}

// PopularBook ranks a book by how often it has been borrowed.
type PopularBook struct {
	BookID        string
	Title         string
	Author        string
	CoverURL      *string
	CategoryName  string
	CategoryColor *string
	LoanCount     int64
}

// ActiveMember ranks a borrower by total loan count.
type ActiveMember struct {
	UserID    string
	Name      string
	ClassName *string
	AvatarURL *string
	LoanCount int64
}
