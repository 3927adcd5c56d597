package repository

import (
	"context"
	"errors"

	"contacts/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrPasswordResetNotFound is returned when no pending reset matches the token hash.
var ErrPasswordResetNotFound = errors.New("password reset not found")

// PasswordResetRepository persists pending password reset requests.
type PasswordResetRepository interface {
	// Create stores a pending reset request.
	Create(ctx context.Context, reset *entity.PasswordReset) error

	// FindByTokenHash returns the pending reset whose token hashes to tokenHash.
	FindByTokenHash(ctx context.Context, tokenHash string) (*entity.PasswordReset, error)

	// DeleteByUserID removes every pending reset of the user.
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
}
