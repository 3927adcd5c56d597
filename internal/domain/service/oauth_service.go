package service

import (
	"context"
)

// OAuthUser represents the identity returned by Google after a code exchange.
type OAuthUser struct {
	Subject       string // Google's 'sub' claim
	Email         string
	EmailVerified bool
	GivenName     string
	FamilyName    string
	Picture       string
}

// OAuthService drives the Google authorization code flow.
type OAuthService interface {
	// AuthURL builds the consent screen URL and remembers the state for the callback.
	AuthURL(state string) string

	// ValidateState consumes a state issued by AuthURL. It reports false for unknown,
	// expired or already used values.
	ValidateState(state string) bool

	// Exchange trades an authorization code for a verified identity.
	Exchange(ctx context.Context, code string) (*OAuthUser, error)
}
