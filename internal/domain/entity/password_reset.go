package entity

import (
	"time"

	"github.com/google/uuid"
)

// PasswordReset is a pending, single-use password reset request.
// Only the SHA-256 hash of the emailed token is stored.
type PasswordReset struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the reset link is no longer usable at now.
func (r *PasswordReset) Expired(now time.Time) bool {
	return !r.ExpiresAt.After(now)
}
