package dto

// RegisterRequest defines the data needed for self-registration.
type RegisterRequest struct {
	Name     string  `json:"name" binding:"required"`
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required,min=6"`
	MajorID  *string `json:"majorID"`
	ClassID  *string `json:"classID"`
	Role     string  `json:"role" binding:"omitempty,oneof=SISWA ADMIN"`
}

// LoginRequest defines the credentials for login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse bundles the authenticated user with an access token.
type AuthResponse struct {
	User        UserResponse `json:"user"`
	AccessToken string       `json:"accessToken"`
}

// UpdateProfileRequest defines the self-service profile updates.
type UpdateProfileRequest struct {
	Name      *string `json:"name"`
	MajorID   *string `json:"majorID"`
	ClassID   *string `json:"classID"`
	AvatarURL *string `json:"avatarURL"`
}

// ChangePasswordRequest defines the payload for changing the password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
}
