// Package google implements the Google authorization code flow.
package google

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"contacts/config"
	"contacts/internal/domain/service"

	"github.com/pkg/errors"
	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
	"google.golang.org/api/idtoken"
)

var defaultScopes = []string{"openid", "email", "profile"}

const stateTTL = 10 * time.Minute

// idTokenValidator is a seam over idtoken.Validate.
type idTokenValidator func(ctx context.Context, idToken, audience string) (*idtoken.Payload, error)

// OAuthService exchanges Google authorization codes for verified identities.
type OAuthService struct {
	oauth    *oauth2.Config
	validate idTokenValidator
	logger   *slog.Logger
	now      func() time.Time

	// Issued states for CSRF protection, keyed by value with their expiry.
	stateStore map[string]time.Time
	stateMutex sync.Mutex
}

// NewOAuthService returns nil when Google credentials are not configured.
func NewOAuthService(cfg *config.Config, logger *slog.Logger) service.OAuthService {
	if cfg.GoogleOAuth == nil || cfg.GoogleOAuth.ClientID == "" || cfg.GoogleOAuth.ClientSecret == "" {
		logger.Info("Google OAuth is not configured")

		return nil
	}

	return newOAuthService(&oauth2.Config{
		ClientID:     cfg.GoogleOAuth.ClientID,
		ClientSecret: cfg.GoogleOAuth.ClientSecret,
		RedirectURL:  cfg.GoogleOAuth.RedirectURI,
		Scopes:       defaultScopes,
		Endpoint:     googleoauth.Endpoint,
	}, idtoken.Validate, logger)
}

func newOAuthService(oauthCfg *oauth2.Config, validate idTokenValidator, logger *slog.Logger) *OAuthService {
	return &OAuthService{
		oauth:      oauthCfg,
		validate:   validate,
		logger:     logger,
		now:        time.Now,
		stateStore: make(map[string]time.Time),
	}
}

// AuthURL builds the Google consent screen URL and stores the state until the callback.
func (s *OAuthService) AuthURL(state string) string {
	s.stateMutex.Lock()
	defer s.stateMutex.Unlock()

	now := s.now()
	for issued, expiry := range s.stateStore {
		if now.After(expiry) {
			delete(s.stateStore, issued)
		}
	}
	s.stateStore[state] = now.Add(stateTTL)

	return s.oauth.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// ValidateState consumes the state so a callback cannot be replayed.
func (s *OAuthService) ValidateState(state string) bool {
	if state == "" {
		return false
	}

	s.stateMutex.Lock()
	defer s.stateMutex.Unlock()

	expiry, ok := s.stateStore[state]
	if !ok {
		return false
	}
	delete(s.stateStore, state)

	return !s.now().After(expiry)
}

// Exchange trades the code for tokens and verifies the returned id_token against our client ID.
func (s *OAuthService) Exchange(ctx context.Context, code string) (*service.OAuthUser, error) {
	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, errors.Wrap(err, "failed to exchange authorization code")
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return nil, errors.New("token response has no id_token")
	}

	payload, err := s.validate(ctx, rawIDToken, s.oauth.ClientID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to verify id_token")
	}

	user := &service.OAuthUser{
		Subject:       payload.Subject,
		Email:         claimString(payload.Claims, "email"),
		EmailVerified: claimBool(payload.Claims, "email_verified"),
		GivenName:     claimString(payload.Claims, "given_name"),
		FamilyName:    claimString(payload.Claims, "family_name"),
		Picture:       claimString(payload.Claims, "picture"),
	}
	if user.Email == "" {
		return nil, errors.New("id_token has no email claim")
	}
	if !user.EmailVerified {
		return nil, errors.New("email not verified")
	}

	s.logger.InfoContext(ctx, "Google identity verified", slog.String("subject", user.Subject))

	return user, nil
}

func claimString(claims map[string]any, key string) string {
	v, _ := claims[key].(string)

	return v
}

func claimBool(claims map[string]any, key string) bool {
	switch v := claims[key].(type) {
	case bool:
		return v
	case string:
		return v == "true"
	default:
		return false
	}
}
