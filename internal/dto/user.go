package dto

import (
	"time"

	"github.com/yomu-app/yomu_backend/internal/core/domain"
)

// UserResponse defines the data returned for a user.
type UserResponse struct {
	UserID    string    `json:"userID"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	MajorID   *string   `json:"majorID,omitempty"`
	ClassID   *string   `json:"classID,omitempty"`
	AvatarURL *string   `json:"avatarURL,omitempty"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateUserRequest defines the data needed to create a user (admin action).
type CreateUserRequest struct {
	Name     string  `json:"name" binding:"required"`
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required,min=6"`
	Role     string  `json:"role" binding:"omitempty,oneof=SISWA ADMIN"`
	MajorID  *string `json:"majorID"`
	ClassID  *string `json:"classID"`
}

// UpdateUserRequest defines the data allowed for updating a user.
// Pointers differentiate omitted fields from zero-value fields.
type UpdateUserRequest struct {
	Name     *string `json:"name"`
	MajorID  *string `json:"majorID"`
	ClassID  *string `json:"classID"`
	IsActive *bool   `json:"isActive"`
	Role     *string `json:"role" binding:"omitempty,oneof=SISWA ADMIN"`
}

// ListUsersParams defines query parameters for listing users.
type ListUsersParams struct {
	PageParams
	Search string `form:"search"`
	Role   string `form:"role" binding:"omitempty,oneof=SISWA ADMIN"`
}

// ListUsersResponse wraps the list of users with pagination metadata.
type ListUsersResponse struct {
	Items []UserResponse `json:"items"`
	Meta  PaginationMeta `json:"meta"`
}

// ToUserResponse converts a domain.User to UserResponse DTO.
func ToUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		UserID:    u.UserID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		MajorID:   u.MajorID,
		ClassID:   u.ClassID,
		AvatarURL: u.AvatarURL,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

// ToListUsersResponse converts domain users plus page info into the list DTO.
func ToListUsersResponse(users []domain.User, page, limit int, total int64) ListUsersResponse {
	items := make([]UserResponse, len(users))
	for i, u := range users {
		items[i] = ToUserResponse(&u)
	}
	return ListUsersResponse{
		Items: items,
		Meta:  NewPaginationMeta(page, limit, total),
	}
}
