package dto

import "github.com/yomu-app/yomu_backend/internal/core/domain"

// LoanReportParams filters the verified-returns report by return date.
// Dates are civil days (YYYY-MM-DD); the end date covers its whole day.
type LoanReportParams struct {
	PageParams
	StartDate string `form:"startDate" binding:"omitempty,datetime=2006-01-02"`
	EndDate   string `form:"endDate" binding:"omitempty,datetime=2006-01-02"`
}

// TopListParams bounds the popular-books and active-members rankings.
type TopListParams struct {
	Limit int `form:"limit,default=10" binding:"omitempty,min=1,max=50"`
}

// RecentActivity counts circulation events over the trailing week.
type RecentActivity struct {
	NewLoans int64 `json:"newLoans"`
	Returns  int64 `json:"returns"`
}

// ReportSummaryResponse is the admin reports landing payload.
type ReportSummaryResponse struct {
	TotalBooks     int64            `json:"totalBooks"`
	TotalUsers     int64            `json:"totalUsers"`
	TotalLoans     int64            `json:"totalLoans"`
	ActiveLoans    int64            `json:"activeLoans"`
	OverdueLoans   int64            `json:"overdueLoans"`
	PendingLoans   int64            `json:"pendingLoans"`
	LoansByStatus  map[string]int64 `json:"loansByStatus"`
	RecentActivity RecentActivity   `json:"recentActivity"`
}

// LoanReportStatsDTO summarizes the report window.
type LoanReportStatsDTO struct {
	TotalReturned int64 `json:"totalReturned"`
	OnTime        int64 `json:"onTime"`
	Damaged       int64 `json:"damaged"`
}

// LoanReportResponse pages the verified returns with their window summary.
type LoanReportResponse struct {
	Items []LoanResponse     `json:"items"`
	Meta  PaginationMeta     `json:"meta"`
	Stats LoanReportStatsDTO `json:"stats"`
}

// PopularBookItem is one row of the popular-books ranking.
type PopularBookItem struct {
	BookID        string  `json:"bookID"`
	Title         string  `json:"title"`
	Author        string  `json:"author"`
	CoverURL      *string `json:"coverURL,omitempty"`
	CategoryName  string  `json:"categoryName"`
	CategoryColor *string `json:"categoryColor,omitempty"`
	LoanCount     int64   `json:"loanCount"`
}

// ActiveMemberItem is one row of the active-members ranking.
type ActiveMemberItem struct {
	UserID    string  `json:"userID"`
	Name      string  `json:"name"`
	ClassName *string `json:"className,omitempty"`
	AvatarURL *string `json:"avatarURL,omitempty"`
	LoanCount int64   `json:"loanCount"`
}

// ToPopularBookItem converts a domain.PopularBook to its DTO.
func ToPopularBookItem(b *domain.PopularBook) PopularBookItem {
	return PopularBookItem{
		BookID:        b.BookID,
		Title:         b.Title,
		Author:        b.Author,
		CoverURL:      b.CoverURL,
		CategoryName:  b.CategoryName,
		CategoryColor: b.CategoryColor,
		LoanCount:     b.LoanCount,
	}
}

// ToActiveMemberItem converts a domain.ActiveMember to its DTO.
func ToActiveMemberItem(m *domain.ActiveMember) ActiveMemberItem {
	return ActiveMemberItem{
		UserID:    m.UserID,
		Name:      m.Name,
		ClassName: m.ClassName,
		AvatarURL: m.AvatarURL,
		LoanCount: m.LoanCount,
	}
}
