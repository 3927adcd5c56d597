package repository

import (
	"context"
	"errors"
	"time"

	"contacts/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrSessionNotFound is returned when no session matches the lookup key.
var ErrSessionNotFound = errors.New("session not found")

// SessionRepository persists the single live session of each user.
type SessionRepository interface {
	// Upsert stores the session as the user's only session, overwriting any previous one
	// in a single statement.
	Upsert(ctx context.Context, session *entity.Session) error

	// Rotate swaps the user's session for the given one only while it still holds
	// oldRefreshToken. It returns ErrSessionNotFound when another rotation, logout or
	// login got there first.
	Rotate(ctx context.Context, oldRefreshToken string, session *entity.Session) error

	// FindByAccessToken returns the session currently holding the access token.
	FindByAccessToken(ctx context.Context, accessToken string) (*entity.Session, error)

	// FindByRefreshToken returns the session currently holding the refresh token.
	FindByRefreshToken(ctx context.Context, refreshToken string) (*entity.Session, error)

	// DeleteByUserID removes every session of the user. Missing rows are not an error.
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error

	// DeleteByRefreshToken removes the session holding the refresh token. Missing rows are not an error.
	DeleteByRefreshToken(ctx context.Context, refreshToken string) error

	// DeleteExpired removes sessions whose refresh window closed before now.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
