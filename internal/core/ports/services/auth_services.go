package services

import (
	"context"

	"github.com/yomu-app/yomu_backend/internal/core/domain"
	"github.com/yomu-app/yomu_backend/internal/dto"
)

// AuthSvcFacade defines registration, login and self-service profile
// operations.
type AuthSvcFacade interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error)
	GetProfile(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, req dto.UpdateProfileRequest) (*domain.User, error)
	ChangePassword(ctx context.Context, userID string, req dto.ChangePasswordRequest) error
}
