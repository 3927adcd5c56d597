package usecase

import "context"

// PasswordUsecase drives the forgot/reset password flow.
type PasswordUsecase interface {
	// RequestReset emails a reset link when the address belongs to a user. Unknown addresses are not reported.
	RequestReset(ctx context.Context, email string) error

	// ResetPassword sets a new password for the token's user and ends all of their sessions.
	ResetPassword(ctx context.Context, token, newPassword string) error
}
