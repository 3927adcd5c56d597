package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"contacts/config"
	"contacts/internal/delivery/api/middleware"
	"contacts/internal/domain/entity"
	"contacts/internal/domain/repository"
	"contacts/internal/infra/auth"
	"contacts/internal/usecase/impl"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type memUserRepository struct {
	mu    sync.Mutex
	users map[uuid.UUID]*entity.User
}

func (r *memUserRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	clone := *user

	return &clone, nil
}

func (r *memUserRepository) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.Email == email {
			clone := *user

			return &clone, nil
		}
	}

	return nil, repository.ErrUserNotFound
}

func (r *memUserRepository) Create(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Email == user.Email {
			return repository.ErrEmailTaken
		}
	}
	user.CreatedAt = time.Now()
	clone := *user
	r.users[user.ID] = &clone

	return nil
}

func (r *memUserRepository) Update(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := *user
	r.users[user.ID] = &clone

	return nil
}

func (r *memUserRepository) UpdatePassword(_ context.Context, id uuid.UUID, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	user.PasswordHash = passwordHash

	return nil
}

// memSessionRepository keeps one session per user, like the unique user_id index.
type memSessionRepository struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*entity.Session
}

func (r *memSessionRepository) Upsert(_ context.Context, session *entity.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := *session
	r.sessions[session.UserID] = &clone

	return nil
}

func (r *memSessionRepository) Rotate(_ context.Context, oldRefreshToken string, session *entity.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.sessions[session.UserID]
	if !ok || current.RefreshToken != oldRefreshToken {
		return repository.ErrSessionNotFound
	}
	clone := *session
	r.sessions[session.UserID] = &clone

	return nil
}

func (r *memSessionRepository) find(match func(*entity.Session) bool) (*entity.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, session := range r.sessions {
		if match(session) {
			clone := *session

			return &clone, nil
		}
	}

	return nil, repository.ErrSessionNotFound
}

func (r *memSessionRepository) FindByAccessToken(_ context.Context, accessToken string) (*entity.Session, error) {
	return r.find(func(s *entity.Session) bool { return s.AccessToken == accessToken })
}

func (r *memSessionRepository) FindByRefreshToken(_ context.Context, refreshToken string) (*entity.Session, error) {
	return r.find(func(s *entity.Session) bool { return s.RefreshToken == refreshToken })
}

func (r *memSessionRepository) DeleteByUserID(_ context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, userID)

	return nil
}

func (r *memSessionRepository) DeleteByRefreshToken(_ context.Context, refreshToken string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for userID, session := range r.sessions {
		if session.RefreshToken == refreshToken {
			delete(r.sessions, userID)
		}
	}

	return nil
}

func (r *memSessionRepository) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var purged int64
	for userID, session := range r.sessions {
		if session.RefreshTokenExpired(now) {
			delete(r.sessions, userID)
			purged++
		}
	}

	return purged, nil
}

// memTransactionManager runs fn against the shared in-memory repositories.
type memTransactionManager struct {
	users    *memUserRepository
	sessions *memSessionRepository
}

func (m *memTransactionManager) Execute(_ context.Context, fn func(repository.RepositoryFactory) error) error {
	return fn(m)
}

func (m *memTransactionManager) NewUserRepository() repository.UserRepository       { return m.users }
func (m *memTransactionManager) NewSessionRepository() repository.SessionRepository { return m.sessions }

func (m *memTransactionManager) NewPasswordResetRepository() repository.PasswordResetRepository {
	return nil
}

func (m *memTransactionManager) NewContactRepository() repository.ContactRepository { return nil }

// newAuthFlowServer wires the real auth stack over in-memory storage.
func newAuthFlowServer(t *testing.T) *authFlowServer {
	t.Helper()

	users := &memUserRepository{users: make(map[uuid.UUID]*entity.User)}
	sessions := &memSessionRepository{sessions: make(map[uuid.UUID]*entity.Session)}
	logger := newDiscardLogger()

	cfg := &config.Config{Auth: &config.AuthConfig{
		BcryptCost:      bcrypt.MinCost,
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 24 * time.Hour,
	}}
	cfg.SecretKey.Access = "test-access-secret"

	tokens, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	store := impl.NewSessionStore(impl.SessionStoreParams{SessionRepo: sessions, Logger: logger})
	authUC, err := impl.NewAuthService(impl.AuthServiceParams{
		TxManager:    &memTransactionManager{users: users, sessions: sessions},
		UserRepo:     users,
		Sessions:     store,
		Hasher:       auth.NewBcryptHasher(cfg),
		TokenService: tokens,
		Logger:       logger,
	})
	require.NoError(t, err)

	h := NewAuthHandler(AuthHandlerParams{AuthUC: authUC, Config: newTestConfig(), Logger: logger})
	guard := middleware.NewAuthMiddleware(authUC)

	e := newTestEcho()
	e.POST("/auth/register", h.Register)
	e.POST("/auth/login", h.Login)
	e.POST("/auth/refresh", h.Refresh)
	e.POST("/auth/logout", h.Logout)
	e.GET("/auth/current", h.Current, guard.Authenticate)

	return &authFlowServer{t: t, e: e}
}

type authFlowServer struct {
	t *testing.T
	e *echo.Echo
}

func (s *authFlowServer) do(req *http.Request) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()

	return serve(s.t, s.e, req)
}

func (s *authFlowServer) current(accessToken string) int {
	req := httptest.NewRequest(http.MethodGet, "/auth/current", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+accessToken)
	rec, _ := s.do(req)

	return rec.Code
}

func (s *authFlowServer) refresh(refreshToken string) (*httptest.ResponseRecorder, string) {
	req := httptest.NewRequest(http.MethodPost, "/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: refreshTokenCookie, Value: refreshToken})
	rec, body := s.do(req)

	return rec, accessTokenOf(s.t, body)
}

func accessTokenOf(t *testing.T, body envelope) string {
	t.Helper()

	if len(body.Data) == 0 {
		return ""
	}

	var data accessTokenResponse
	require.NoError(t, json.Unmarshal(body.Data, &data))

	return data.AccessToken
}

func TestAuthFlow_RegisterLoginRefreshLogout(t *testing.T) {
	srv := newAuthFlowServer(t)

	rec, _ := srv.do(jsonRequest(http.MethodPost, "/auth/register", map[string]string{
		"name": "Jane", "email": "Jane@Example.com", "password": "secret123",
	}))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, body := srv.do(jsonRequest(http.MethodPost, "/auth/login", map[string]string{
		"email": "jane@example.com", "password": "secret123",
	}))
	require.Equal(t, http.StatusOK, rec.Code)
	access1 := accessTokenOf(t, body)
	refresh1 := findCookie(rec, refreshTokenCookie)
	require.NotEmpty(t, access1)
	require.NotNil(t, refresh1)

	assert.Equal(t, http.StatusOK, srv.current(access1))

	rec, access2 := srv.refresh(refresh1.Value)
	require.Equal(t, http.StatusOK, rec.Code)
	refresh2 := findCookie(rec, refreshTokenCookie)
	require.NotNil(t, refresh2)
	assert.NotEqual(t, refresh1.Value, refresh2.Value)
	assert.NotEqual(t, access1, access2)

	rec, _ = srv.refresh(refresh1.Value)
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "rotated refresh token must be dead")
	assert.Equal(t, http.StatusUnauthorized, srv.current(access1), "rotated access token must be dead")
	assert.Equal(t, http.StatusOK, srv.current(access2))

	logout := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	logout.AddCookie(refresh2)
	rec, _ = srv.do(logout)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	assert.Equal(t, http.StatusUnauthorized, srv.current(access2))
	rec, _ = srv.refresh(refresh2.Value)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthFlow_SecondLoginEndsFirstSession(t *testing.T) {
	srv := newAuthFlowServer(t)

	rec, _ := srv.do(jsonRequest(http.MethodPost, "/auth/register", map[string]string{
		"name": "Jane", "email": "jane@example.com", "password": "secret123",
	}))
	require.Equal(t, http.StatusCreated, rec.Code)

	login := func() (string, string) {
		rec, body := srv.do(jsonRequest(http.MethodPost, "/auth/login", map[string]string{
			"email": "jane@example.com", "password": "secret123",
		}))
		require.Equal(t, http.StatusOK, rec.Code)

		return accessTokenOf(t, body), findCookie(rec, refreshTokenCookie).Value
	}

	access1, refresh1 := login()
	access2, _ := login()

	assert.Equal(t, http.StatusUnauthorized, srv.current(access1))
	assert.Equal(t, http.StatusOK, srv.current(access2))

	rec, _ = srv.refresh(refresh1)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
