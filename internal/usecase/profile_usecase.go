// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"
	"io"

	"munch/internal/domain/entity"

	"github.com/google/uuid"
)

// ProfileUsecase defines the interface for profile-related business operations.
type ProfileUsecase interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*entity.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input *UpdateProfileInput) (*entity.User, error)
	UploadAvatar(ctx context.Context, userID uuid.UUID, contentType string, content io.Reader) (*UploadAvatarOutput, error)
	GetUserRoles(ctx context.Context, userID uuid.UUID) ([]string, error)
}

// --- Input DTOs ---

// UpdateProfileInput defines the data required to update a profile.
// Nil fields are left unchanged.
type UpdateProfileInput struct {
	Name       *string `json:"name,omitempty"`
	FullName   *string `json:"full_name,omitempty"`
	Address    *string `json:"address,omitempty"`
	Country    *string `json:"country,omitempty"`
	City       *string `json:"city,omitempty"`
	PostalCode *string `json:"postal_code,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	FCMToken   *string `json:"fcm_token,omitempty"`
}

// --- Output DTOs ---

// UploadAvatarOutput returns the stored avatar's path and public URL.
type UploadAvatarOutput struct {
	AvatarPath string
	AvatarURL  string
}
