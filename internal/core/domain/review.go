package domain

// Review is a user's rating of a book. One review per (user, book).
type Review struct {
	ReviewID string  `json:"reviewID"` // Primary Key (UUID)
	UserID   string  `json:"userID"`
	BookID   string  `json:"bookID"`
	Rating   int     `json:"rating"` // 1..5
	Comment  *string `json:"comment,omitempty"`
	AuditFields

	User *UserSummary `json:"user,omitempty"`
}

// Favorite marks a book saved by a user.
type Favorite struct {
	FavoriteID string `json:"favoriteID"` // Primary Key (UUID)
	UserID     string `json:"userID"`
	BookID     string `json:"bookID"`
	AuditFields

	Book *BookSummary `json:"book,omitempty"`
}
