package google

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"contacts/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	"google.golang.org/api/idtoken"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTokenServer(t *testing.T, body string) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "auth-code", r.PostForm.Get("code"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)

	return srv
}

func testConfig(tokenURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURL:  "http://localhost:3000/auth/google/callback",
		Scopes:       defaultScopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:   "https://accounts.example.com/auth",
			TokenURL:  tokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}

func TestNewOAuthService_NotConfigured(t *testing.T) {
	assert.Nil(t, NewOAuthService(&config.Config{}, discardLogger()))
	assert.Nil(t, NewOAuthService(&config.Config{GoogleOAuth: &config.GoogleOAuthConfig{ClientID: "id"}}, discardLogger()))
}

func TestOAuthService_AuthURL(t *testing.T) {
	svc := newOAuthService(testConfig("https://unused"), nil, discardLogger())

	raw := svc.AuthURL("state-123")
	parsed, err := url.Parse(raw)
	require.NoError(t, err)

	q := parsed.Query()
	assert.Equal(t, "client-id", q.Get("client_id"))
	assert.Equal(t, "state-123", q.Get("state"))
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "openid email profile", q.Get("scope"))
	assert.Equal(t, "http://localhost:3000/auth/google/callback", q.Get("redirect_uri"))
}

func TestOAuthService_Exchange(t *testing.T) {
	srv := newTokenServer(t, `{"access_token":"at","token_type":"Bearer","expires_in":3600,"id_token":"raw-id-token"}`)

	var gotAudience string
	validate := func(_ context.Context, idToken, audience string) (*idtoken.Payload, error) {
		gotAudience = audience
		assert.Equal(t, "raw-id-token", idToken)

		return &idtoken.Payload{
			Subject: "google-sub",
			Claims: map[string]any{
				"email":          "jane@example.com",
				"email_verified": true,
				"given_name":     "Jane",
				"family_name":    "Doe",
			},
		}, nil
	}

	svc := newOAuthService(testConfig(srv.URL), validate, discardLogger())
	user, err := svc.Exchange(context.Background(), "auth-code")
	require.NoError(t, err)

	assert.Equal(t, "client-id", gotAudience)
	assert.Equal(t, "google-sub", user.Subject)
	assert.Equal(t, "jane@example.com", user.Email)
	assert.True(t, user.EmailVerified)
	assert.Equal(t, "Jane", user.GivenName)
	assert.Equal(t, "Doe", user.FamilyName)
}

func TestOAuthService_ExchangeFailures(t *testing.T) {
	okValidator := func(context.Context, string, string) (*idtoken.Payload, error) {
		return &idtoken.Payload{Claims: map[string]any{"email": "a@b.co"}}, nil
	}

	t.Run("missing id_token", func(t *testing.T) {
		srv := newTokenServer(t, `{"access_token":"at","token_type":"Bearer"}`)
		svc := newOAuthService(testConfig(srv.URL), okValidator, discardLogger())

		_, err := svc.Exchange(context.Background(), "auth-code")
		assert.ErrorContains(t, err, "id_token")
	})

	t.Run("invalid id_token", func(t *testing.T) {
		srv := newTokenServer(t, `{"access_token":"at","token_type":"Bearer","id_token":"bad"}`)
		svc := newOAuthService(testConfig(srv.URL), func(context.Context, string, string) (*idtoken.Payload, error) {
			return nil, errors.New("bad signature")
		}, discardLogger())

		_, err := svc.Exchange(context.Background(), "auth-code")
		assert.ErrorContains(t, err, "bad signature")
	})

	t.Run("unverified email", func(t *testing.T) {
		srv := newTokenServer(t, `{"access_token":"at","token_type":"Bearer","id_token":"raw"}`)
		svc := newOAuthService(testConfig(srv.URL), func(context.Context, string, string) (*idtoken.Payload, error) {
			return &idtoken.Payload{Claims: map[string]any{"email": "victim@example.com", "email_verified": false}}, nil
		}, discardLogger())

		user, err := svc.Exchange(context.Background(), "auth-code")
		assert.Nil(t, user)
		assert.ErrorContains(t, err, "email not verified")
	})

	t.Run("no email claim", func(t *testing.T) {
		srv := newTokenServer(t, `{"access_token":"at","token_type":"Bearer","id_token":"raw"}`)
		svc := newOAuthService(testConfig(srv.URL), func(context.Context, string, string) (*idtoken.Payload, error) {
			return &idtoken.Payload{Claims: map[string]any{}}, nil
		}, discardLogger())

		_, err := svc.Exchange(context.Background(), "auth-code")
		assert.ErrorContains(t, err, "email")
	})
}

func TestOAuthService_ValidateState(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc := newOAuthService(testConfig("https://unused"), nil, discardLogger())
	svc.now = func() time.Time { return now }

	svc.AuthURL("issued")
	svc.AuthURL("stale")

	assert.False(t, svc.ValidateState(""))
	assert.False(t, svc.ValidateState("never-issued"))

	assert.True(t, svc.ValidateState("issued"))
	assert.False(t, svc.ValidateState("issued"), "state must be single use")

	now = now.Add(stateTTL + time.Second)
	assert.False(t, svc.ValidateState("stale"))
}

func TestOAuthService_AuthURL_DropsExpiredStates(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc := newOAuthService(testConfig("https://unused"), nil, discardLogger())
	svc.now = func() time.Time { return now }

	svc.AuthURL("old")
	now = now.Add(stateTTL + time.Minute)
	svc.AuthURL("new")

	assert.Len(t, svc.stateStore, 1)
	assert.Contains(t, svc.stateStore, "new")
}
