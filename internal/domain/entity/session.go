package entity

import (
	"time"

	"github.com/google/uuid"
)

// Session binds a user to its current live access/refresh token pair.
// At most one session exists per user; a new login replaces the previous one.
type Session struct {
	ID                     uuid.UUID
	UserID                 uuid.UUID
	AccessToken            string
	RefreshToken           string
	AccessTokenValidUntil  time.Time
	RefreshTokenValidUntil time.Time
	CreatedAt              time.Time
}

// AccessTokenActive reports whether the access token window is still open at now.
func (s *Session) AccessTokenActive(now time.Time) bool {
	return s.AccessTokenValidUntil.After(now)
}

// RefreshTokenExpired reports whether the refresh token can no longer be exchanged at now.
func (s *Session) RefreshTokenExpired(now time.Time) bool {
	return s.RefreshTokenValidUntil.Before(now)
}
