package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrTokenExpired is returned when a syntactically valid token is past its expiry.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid is returned for malformed or wrongly signed tokens.
	ErrTokenInvalid = errors.New("token invalid")
)

// Claims defines the custom claims for the access token.
type Claims struct {
	UserID uuid.UUID `json:"uid"`
	jwt.RegisteredClaims
}

// TokenPair is a freshly issued access/refresh token pair with their expiry instants.
type TokenPair struct {
	AccessToken            string
	RefreshToken           string
	AccessTokenValidUntil  time.Time
	RefreshTokenValidUntil time.Time
}

// TokenService issues and validates session tokens.
type TokenService interface {
	// IssuePair creates a signed access token and an opaque refresh token for the user.
	IssuePair(userID uuid.UUID, now time.Time) (*TokenPair, error)

	// ValidateAccessToken verifies the signature and expiry of an access token.
	ValidateAccessToken(token string) (*Claims, error)

	// RefreshTokenTTL returns the configured refresh token lifetime.
	RefreshTokenTTL() time.Duration
}
