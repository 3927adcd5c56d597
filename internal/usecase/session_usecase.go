package usecase

import (
	"context"

	"contacts/internal/domain/entity"
	"contacts/internal/domain/service"

	"github.com/google/uuid"
)

// SessionStore owns the single live session of each user.
type SessionStore interface {
	// CreateSession atomically replaces any existing session of the user.
	CreateSession(ctx context.Context, userID uuid.UUID, pair *service.TokenPair) (*entity.Session, error)

	// RotateSession replaces the session only while it still holds refreshToken.
	RotateSession(ctx context.Context, refreshToken string, userID uuid.UUID, pair *service.TokenPair) (*entity.Session, error)

	// FindByRefreshToken returns the session for a still-valid refresh token.
	FindByRefreshToken(ctx context.Context, refreshToken string) (*entity.Session, error)

	// FindActiveByAccessToken returns the session holding a still-valid access token of the user.
	FindActiveByAccessToken(ctx context.Context, userID uuid.UUID, accessToken string) (*entity.Session, error)

	DeleteSession(ctx context.Context, refreshToken string) error
	DeleteAllSessionsForUser(ctx context.Context, userID uuid.UUID) error

	// PurgeExpired removes sessions whose refresh token has expired.
	PurgeExpired(ctx context.Context) (int64, error)
}
