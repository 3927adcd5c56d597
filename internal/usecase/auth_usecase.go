// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"
	"time"

	"contacts/internal/domain/entity"
	"contacts/internal/domain/service"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new user.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// LoginInput defines the data required for a user to log in.
type LoginInput struct {
	Email    string
	Password string
}

// UpdateProfileInput carries a partial profile update. Nil fields are left unchanged.
type UpdateProfileInput struct {
	Name            *string
	Email           *string
	CurrentPassword *string
	NewPassword     *string
}

// --- Output DTOs ---

// SessionOutput is returned by every flow that opens a new session.
type SessionOutput struct {
	AccessToken            string
	RefreshToken           string
	RefreshTokenValidUntil time.Time
	User                   *entity.User
}

// AuthUsecase defines the account and session operations exposed over HTTP.
type AuthUsecase interface {
	Register(ctx context.Context, input *RegisterInput) (*entity.User, error)
	Login(ctx context.Context, input *LoginInput) (*SessionOutput, error)
	Refresh(ctx context.Context, refreshToken string) (*SessionOutput, error)
	Logout(ctx context.Context, refreshToken string) error

	// Authenticate resolves a bearer access token to its user, requiring a live session row.
	Authenticate(ctx context.Context, accessToken string) (*entity.User, error)

	Current(ctx context.Context, userID uuid.UUID) (*entity.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input *UpdateProfileInput) (*entity.User, error)
	UpdateAvatar(ctx context.Context, userID uuid.UUID, upload *service.PhotoUpload) (*entity.User, error)

	GoogleAuthURL(ctx context.Context) (string, error)
	GoogleLogin(ctx context.Context, code, state string) (*SessionOutput, error)
}
