package domain

import "time"

// UserRole distinguishes borrowers from library staff.
type UserRole string

const (
	RoleSiswa UserRole = "SISWA"
	RoleAdmin UserRole = "ADMIN"
)

// User represents a library member or administrator.
type User struct {
	UserID       string   `json:"userID"` // Primary Key (UUID)
	Name         string   `json:"name"`
	Email        string   `json:"email"`
	PasswordHash string   `json:"-"`
	Role         UserRole `json:"role"`
	MajorID      *string  `json:"majorID,omitempty"`
	ClassID      *string  `json:"classID,omitempty"`
	AvatarURL    *string  `json:"avatarURL,omitempty"`
	IsActive     bool     `json:"isActive"`
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty"` // Used for soft delete

	// Optional joined references, populated on detail reads.
	Major *Major `json:"major,omitempty"`
	Class *Class `json:"class,omitempty"`
}

// UserSummary is the trimmed user shape attached to loans and messages.
type UserSummary struct {
	UserID    string  `json:"userID"`
	Name      string  `json:"name"`
	Email     string  `json:"email,omitempty"`
	AvatarURL *string `json:"avatarURL,omitempty"`
}
