package impl

import (
	"context"
	"testing"
	"time"

	"contacts/internal/domain/entity"
	domainerrors "contacts/internal/domain/errors"
	"contacts/internal/domain/repository"
	"contacts/internal/domain/service"
	mockRepo "contacts/internal/mocks/repository"
	mockService "contacts/internal/mocks/service"
	mockUsecase "contacts/internal/mocks/usecase"
	"contacts/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type authFixture struct {
	txManager *mockRepo.MockTransactionManager
	userRepo  *mockRepo.MockUserRepository
	sessions  *mockUsecase.MockSessionStore
	hasher    *mockService.MockPasswordHasher
	tokens    *mockService.MockTokenService
	oauth     *mockService.MockOAuthService
	storage   *mockService.MockPhotoStorage
	service   *authService
	now       time.Time
}

func newAuthFixture(t *testing.T) *authFixture {
	f := &authFixture{
		txManager: mockRepo.NewMockTransactionManager(t),
		userRepo:  mockRepo.NewMockUserRepository(t),
		sessions:  mockUsecase.NewMockSessionStore(t),
		hasher:    mockService.NewMockPasswordHasher(t),
		tokens:    mockService.NewMockTokenService(t),
		oauth:     mockService.NewMockOAuthService(t),
		storage:   mockService.NewMockPhotoStorage(t),
		now:       time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	f.hasher.On("Hash", mock.Anything).Return("dummy-hash", nil).Once()

	srv, err := NewAuthService(AuthServiceParams{
		TxManager:    f.txManager,
		UserRepo:     f.userRepo,
		Sessions:     f.sessions,
		Hasher:       f.hasher,
		TokenService: f.tokens,
		OAuthService: f.oauth,
		PhotoStorage: f.storage,
		Logger:       newDiscardLogger(),
	})
	require.NoError(t, err)

	f.service = srv.(*authService)
	f.service.now = fixedClock(f.now)

	return f
}

// inTx makes the next Execute call run against a factory serving the given user repository.
func (f *authFixture) inTx(t *testing.T, userRepo repository.UserRepository) {
	factory := mockRepo.NewMockRepositoryFactory(t)
	factory.On("NewUserRepository").Return(userRepo)
	f.txManager.On("Execute", mock.Anything, mock.Anything).Return(factory).Once()
}

func (f *authFixture) expectSession(userID uuid.UUID) *service.TokenPair {
	pair := &service.TokenPair{
		AccessToken:            "access-token",
		RefreshToken:           "refresh-token",
		AccessTokenValidUntil:  f.now.Add(15 * time.Minute),
		RefreshTokenValidUntil: f.now.Add(30 * 24 * time.Hour),
	}
	f.tokens.On("IssuePair", userID, f.now).Return(pair, nil).Once()
	f.sessions.On("CreateSession", mock.Anything, userID, pair).Return(&entity.Session{UserID: userID}, nil).Once()

	return pair
}

func TestAuthService_Register_Success(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	txUserRepo := mockRepo.NewMockUserRepository(t)
	f.inTx(t, txUserRepo)

	f.hasher.On("Hash", "secret123").Return("hashed", nil)
	txUserRepo.On("FindByEmail", ctx, "jane@example.com").Return(nil, repository.ErrUserNotFound)
	txUserRepo.On("Create", ctx, mock.MatchedBy(func(u *entity.User) bool {
		return u.Email == "jane@example.com" && u.PasswordHash == "hashed" && u.Name == "Jane" &&
			u.Subscription == entity.SubscriptionStarter && u.ID != uuid.Nil
	})).Return(nil)

	user, err := f.service.Register(ctx, &usecase.RegisterInput{Name: " Jane ", Email: " Jane@Example.COM ", Password: "secret123"})

	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", user.Email)
}

func TestAuthService_Register_PasswordRejectedByHasher(t *testing.T) {
	f := newAuthFixture(t)
	f.hasher.On("Hash", "too-long").Return("", errors.WithStack(domainerrors.ErrValidationFailed.WithDetails("password must be at most 72 bytes")))

	_, err := f.service.Register(context.Background(), &usecase.RegisterInput{Name: "Jane", Email: "jane@example.com", Password: "too-long"})

	require.ErrorIs(t, err, domainerrors.ErrValidationFailed)
	assert.NotErrorIs(t, err, domainerrors.ErrPasswordHashFailed)
}

func TestAuthService_Register_HashFailure(t *testing.T) {
	f := newAuthFixture(t)
	f.hasher.On("Hash", "secret123").Return("", errors.New("boom"))

	_, err := f.service.Register(context.Background(), &usecase.RegisterInput{Name: "Jane", Email: "jane@example.com", Password: "secret123"})

	require.ErrorIs(t, err, domainerrors.ErrPasswordHashFailed)
}

func TestAuthService_Register_EmailInUse(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	txUserRepo := mockRepo.NewMockUserRepository(t)
	f.inTx(t, txUserRepo)

	f.hasher.On("Hash", "secret123").Return("hashed", nil)
	txUserRepo.On("FindByEmail", ctx, "jane@example.com").Return(&entity.User{ID: uuid.New()}, nil)

	_, err := f.service.Register(ctx, &usecase.RegisterInput{Name: "Jane", Email: "jane@example.com", Password: "secret123"})

	require.ErrorIs(t, err, domainerrors.ErrEmailInUse)
}

func TestAuthService_Register_UniqueViolationRace(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	txUserRepo := mockRepo.NewMockUserRepository(t)
	f.inTx(t, txUserRepo)

	f.hasher.On("Hash", "secret123").Return("hashed", nil)
	txUserRepo.On("FindByEmail", ctx, "jane@example.com").Return(nil, repository.ErrUserNotFound)
	txUserRepo.On("Create", ctx, mock.Anything).Return(repository.ErrEmailTaken)

	_, err := f.service.Register(ctx, &usecase.RegisterInput{Name: "Jane", Email: "jane@example.com", Password: "secret123"})

	require.ErrorIs(t, err, domainerrors.ErrEmailInUse)
}

func TestAuthService_Login_Success(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	user := &entity.User{ID: uuid.New(), Email: "jane@example.com", PasswordHash: "hashed"}

	f.userRepo.On("FindByEmail", ctx, "jane@example.com").Return(user, nil)
	f.hasher.On("Check", "secret123", "hashed").Return(true)
	pair := f.expectSession(user.ID)

	out, err := f.service.Login(ctx, &usecase.LoginInput{Email: "JANE@example.com", Password: "secret123"})

	require.NoError(t, err)
	assert.Equal(t, pair.AccessToken, out.AccessToken)
	assert.Equal(t, pair.RefreshToken, out.RefreshToken)
	assert.Equal(t, pair.RefreshTokenValidUntil, out.RefreshTokenValidUntil)
	assert.Same(t, user, out.User)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	user := &entity.User{ID: uuid.New(), Email: "jane@example.com", PasswordHash: "hashed"}

	f.userRepo.On("FindByEmail", ctx, "jane@example.com").Return(user, nil)
	f.hasher.On("Check", "wrong", "hashed").Return(false)

	_, err := f.service.Login(ctx, &usecase.LoginInput{Email: "jane@example.com", Password: "wrong"})

	require.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
	f.sessions.AssertNotCalled(t, "CreateSession", mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthService_Login_UnknownEmailStillHashes(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	f.userRepo.On("FindByEmail", ctx, "ghost@example.com").Return(nil, repository.ErrUserNotFound)
	f.hasher.On("Check", "secret123", "dummy-hash").Return(false).Once()

	_, err := f.service.Login(ctx, &usecase.LoginInput{Email: "ghost@example.com", Password: "secret123"})

	require.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestAuthService_Refresh_RotatesSession(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	user := &entity.User{ID: uuid.New()}

	f.sessions.On("FindByRefreshToken", ctx, "old-refresh").Return(&entity.Session{UserID: user.ID}, nil)
	f.userRepo.On("FindByID", ctx, user.ID).Return(user, nil)
	pair := &service.TokenPair{AccessToken: "access-token", RefreshToken: "refresh-token"}
	f.tokens.On("IssuePair", user.ID, f.now).Return(pair, nil).Once()
	f.sessions.On("RotateSession", ctx, "old-refresh", user.ID, pair).Return(&entity.Session{UserID: user.ID}, nil).Once()

	out, err := f.service.Refresh(ctx, "old-refresh")

	require.NoError(t, err)
	assert.Equal(t, pair.RefreshToken, out.RefreshToken)
	assert.Same(t, user, out.User)
	f.sessions.AssertNotCalled(t, "CreateSession", mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthService_Refresh_Errors(t *testing.T) {
	t.Run("missing token", func(t *testing.T) {
		f := newAuthFixture(t)

		_, err := f.service.Refresh(context.Background(), "")

		require.ErrorIs(t, err, domainerrors.ErrRefreshTokenMissing)
	})

	t.Run("expired token", func(t *testing.T) {
		f := newAuthFixture(t)
		ctx := context.Background()
		f.sessions.On("FindByRefreshToken", ctx, "stale").Return(nil, errors.WithStack(domainerrors.ErrRefreshTokenExpired))

		_, err := f.service.Refresh(ctx, "stale")

		require.ErrorIs(t, err, domainerrors.ErrRefreshTokenExpired)
	})

	t.Run("user gone", func(t *testing.T) {
		f := newAuthFixture(t)
		ctx := context.Background()
		userID := uuid.New()
		f.sessions.On("FindByRefreshToken", ctx, "orphan").Return(&entity.Session{UserID: userID}, nil)
		f.userRepo.On("FindByID", ctx, userID).Return(nil, repository.ErrUserNotFound)

		_, err := f.service.Refresh(ctx, "orphan")

		require.ErrorIs(t, err, domainerrors.ErrSessionUserNotFound)
	})

	t.Run("concurrent refresh already rotated", func(t *testing.T) {
		f := newAuthFixture(t)
		ctx := context.Background()
		user := &entity.User{ID: uuid.New()}
		f.sessions.On("FindByRefreshToken", ctx, "replayed").Return(&entity.Session{UserID: user.ID}, nil)
		f.userRepo.On("FindByID", ctx, user.ID).Return(user, nil)
		f.tokens.On("IssuePair", user.ID, f.now).Return(&service.TokenPair{}, nil)
		f.sessions.On("RotateSession", ctx, "replayed", user.ID, mock.Anything).Return(nil, errors.WithStack(domainerrors.ErrSessionNotFound))

		_, err := f.service.Refresh(ctx, "replayed")

		require.ErrorIs(t, err, domainerrors.ErrSessionNotFound)

		var appErr domainerrors.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, 401, appErr.HTTPCode())
	})
}

func TestAuthService_Logout(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	f.sessions.On("DeleteSession", ctx, "refresh").Return(nil).Once()

	require.NoError(t, f.service.Logout(ctx, "refresh"))
	require.NoError(t, f.service.Logout(ctx, ""))
}

func TestAuthService_Authenticate(t *testing.T) {
	userID := uuid.New()
	user := &entity.User{ID: userID}

	tests := []struct {
		name      string
		token     string
		setup     func(f *authFixture)
		expectErr error
	}{
		{
			name:      "empty token",
			token:     "",
			setup:     func(*authFixture) {},
			expectErr: domainerrors.ErrAuthenticationRequired,
		},
		{
			name:  "expired token",
			token: "expired",
			setup: func(f *authFixture) {
				f.tokens.On("ValidateAccessToken", "expired").Return(nil, service.ErrTokenExpired)
			},
			expectErr: domainerrors.ErrAccessTokenExpired,
		},
		{
			name:  "tampered token",
			token: "tampered",
			setup: func(f *authFixture) {
				f.tokens.On("ValidateAccessToken", "tampered").Return(nil, service.ErrTokenInvalid)
			},
			expectErr: domainerrors.ErrAccessTokenInvalid,
		},
		{
			name:  "no session row",
			token: "valid",
			setup: func(f *authFixture) {
				f.tokens.On("ValidateAccessToken", "valid").Return(&service.Claims{UserID: userID}, nil)
				f.sessions.On("FindActiveByAccessToken", mock.Anything, userID, "valid").
					Return(nil, errors.WithStack(domainerrors.ErrNoActiveSession))
			},
			expectErr: domainerrors.ErrNoActiveSession,
		},
		{
			name:  "user deleted",
			token: "valid",
			setup: func(f *authFixture) {
				f.tokens.On("ValidateAccessToken", "valid").Return(&service.Claims{UserID: userID}, nil)
				f.sessions.On("FindActiveByAccessToken", mock.Anything, userID, "valid").Return(&entity.Session{}, nil)
				f.userRepo.On("FindByID", mock.Anything, userID).Return(nil, repository.ErrUserNotFound)
			},
			expectErr: domainerrors.ErrSessionUserNotFound,
		},
		{
			name:  "authenticated",
			token: "valid",
			setup: func(f *authFixture) {
				f.tokens.On("ValidateAccessToken", "valid").Return(&service.Claims{UserID: userID}, nil)
				f.sessions.On("FindActiveByAccessToken", mock.Anything, userID, "valid").Return(&entity.Session{}, nil)
				f.userRepo.On("FindByID", mock.Anything, userID).Return(user, nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture(t)
			tt.setup(f)

			got, err := f.service.Authenticate(context.Background(), tt.token)

			if tt.expectErr != nil {
				require.ErrorIs(t, err, tt.expectErr)
				assert.Nil(t, got)

				return
			}
			require.NoError(t, err)
			assert.Equal(t, userID, got.ID)
		})
	}
}

func TestAuthService_Current_NotFound(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	userID := uuid.New()
	f.userRepo.On("FindByID", ctx, userID).Return(nil, repository.ErrUserNotFound)

	_, err := f.service.Current(ctx, userID)

	require.ErrorIs(t, err, domainerrors.ErrUserNotFound)
}

func strPtr(s string) *string { return &s }

func TestAuthService_UpdateProfile(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name      string
		input     *usecase.UpdateProfileInput
		setup     func(f *authFixture, repo *mockRepo.MockUserRepository)
		expectErr error
		check     func(t *testing.T, user *entity.User)
	}{
		{
			name:  "new password without current",
			input: &usecase.UpdateProfileInput{NewPassword: strPtr("newsecret")},
			setup: func(*authFixture, *mockRepo.MockUserRepository) {},

			expectErr: domainerrors.ErrCurrentPasswordRequired,
		},
		{
			name:  "wrong current password",
			input: &usecase.UpdateProfileInput{CurrentPassword: strPtr("nope"), NewPassword: strPtr("newsecret")},
			setup: func(f *authFixture, _ *mockRepo.MockUserRepository) {
				f.hasher.On("Check", "nope", "hashed").Return(false)
			},
			expectErr: domainerrors.ErrCurrentPasswordWrong,
		},
		{
			name:  "email taken",
			input: &usecase.UpdateProfileInput{Email: strPtr("taken@example.com")},
			setup: func(_ *authFixture, repo *mockRepo.MockUserRepository) {
				repo.On("FindByEmail", mock.Anything, "taken@example.com").Return(&entity.User{ID: uuid.New()}, nil)
			},
			expectErr: domainerrors.ErrEmailInUse,
		},
		{
			name:  "password and name change",
			input: &usecase.UpdateProfileInput{Name: strPtr("Janet"), CurrentPassword: strPtr("old"), NewPassword: strPtr("newsecret")},
			setup: func(f *authFixture, repo *mockRepo.MockUserRepository) {
				f.hasher.On("Check", "old", "hashed").Return(true)
				f.hasher.On("Hash", "newsecret").Return("new-hash", nil)
				repo.On("Update", mock.Anything, mock.Anything).Return(nil)
			},
			check: func(t *testing.T, user *entity.User) {
				assert.Equal(t, "Janet", user.Name)
				assert.Equal(t, "new-hash", user.PasswordHash)
			},
		},
		{
			name:  "same email is not a conflict",
			input: &usecase.UpdateProfileInput{Email: strPtr("JANE@example.com")},
			setup: func(_ *authFixture, repo *mockRepo.MockUserRepository) {
				repo.On("Update", mock.Anything, mock.Anything).Return(nil)
			},
			check: func(t *testing.T, user *entity.User) {
				assert.Equal(t, "jane@example.com", user.Email)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture(t)
			txUserRepo := mockRepo.NewMockUserRepository(t)
			f.inTx(t, txUserRepo)
			txUserRepo.On("FindByID", mock.Anything, userID).
				Return(&entity.User{ID: userID, Name: "Jane", Email: "jane@example.com", PasswordHash: "hashed"}, nil)
			tt.setup(f, txUserRepo)

			user, err := f.service.UpdateProfile(context.Background(), userID, tt.input)

			if tt.expectErr != nil {
				require.ErrorIs(t, err, tt.expectErr)

				return
			}
			require.NoError(t, err)
			tt.check(t, user)
		})
	}
}

func TestAuthService_UpdateAvatar(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	userID := uuid.New()
	upload := &service.PhotoUpload{Filename: "me.png"}

	f.userRepo.On("FindByID", ctx, userID).Return(&entity.User{ID: userID}, nil)
	f.storage.On("Save", ctx, "avatars", upload).Return("https://cdn.example.com/avatars/me.png", nil)
	f.userRepo.On("Update", ctx, mock.MatchedBy(func(u *entity.User) bool {
		return u.AvatarURL == "https://cdn.example.com/avatars/me.png"
	})).Return(nil)

	user, err := f.service.UpdateAvatar(ctx, userID, upload)

	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/avatars/me.png", user.AvatarURL)
}

func TestAuthService_GoogleAuthURL(t *testing.T) {
	f := newAuthFixture(t)
	f.oauth.On("AuthURL", mock.AnythingOfType("string")).Return("https://accounts.google.com/o/oauth2/auth?state=x")

	url, err := f.service.GoogleAuthURL(context.Background())

	require.NoError(t, err)
	assert.Contains(t, url, "accounts.google.com")
}

func TestAuthService_GoogleAuthURL_NotConfigured(t *testing.T) {
	f := newAuthFixture(t)
	f.service.oauthService = nil

	_, err := f.service.GoogleAuthURL(context.Background())

	require.ErrorIs(t, err, domainerrors.ErrOAuthNotConfigured)
}

func TestAuthService_GoogleLogin_CreatesUser(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	f.oauth.On("ValidateState", "state").Return(true)
	f.oauth.On("Exchange", ctx, "code").Return(&service.OAuthUser{Email: "Jane@Example.com", EmailVerified: true, GivenName: "Jane", FamilyName: "Doe"}, nil)
	f.userRepo.On("FindByEmail", ctx, "jane@example.com").Return(nil, repository.ErrUserNotFound)
	f.hasher.On("Hash", mock.AnythingOfType("string")).Return("random-hash", nil)

	var created *entity.User
	f.userRepo.On("Create", ctx, mock.Anything).Run(func(args mock.Arguments) {
		created = args.Get(1).(*entity.User)
	}).Return(nil)
	f.tokens.On("IssuePair", mock.Anything, f.now).Return(&service.TokenPair{AccessToken: "a", RefreshToken: "r"}, nil)
	f.sessions.On("CreateSession", ctx, mock.Anything, mock.Anything).Return(&entity.Session{}, nil)

	out, err := f.service.GoogleLogin(ctx, "code", "state")

	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, "Jane Doe", created.Name)
	assert.Equal(t, "random-hash", created.PasswordHash)
	assert.Equal(t, "a", out.AccessToken)
}

func TestAuthService_GoogleLogin_ExistingUser(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	user := &entity.User{ID: uuid.New(), Email: "jane@example.com"}

	f.oauth.On("ValidateState", "state").Return(true)
	f.oauth.On("Exchange", ctx, "code").Return(&service.OAuthUser{Email: "jane@example.com", EmailVerified: true}, nil)
	f.userRepo.On("FindByEmail", ctx, "jane@example.com").Return(user, nil)
	f.expectSession(user.ID)

	out, err := f.service.GoogleLogin(ctx, "code", "state")

	require.NoError(t, err)
	assert.Same(t, user, out.User)
}

func TestAuthService_GoogleLogin_ExchangeFails(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	f.oauth.On("ValidateState", "state").Return(true)
	f.oauth.On("Exchange", ctx, "bad").Return(nil, errors.New("invalid_grant"))

	_, err := f.service.GoogleLogin(ctx, "bad", "state")

	require.ErrorIs(t, err, domainerrors.ErrOAuthFailed)
}

func TestAuthService_GoogleLogin_UnknownState(t *testing.T) {
	f := newAuthFixture(t)
	f.oauth.On("ValidateState", "forged").Return(false)

	_, err := f.service.GoogleLogin(context.Background(), "code", "forged")

	require.ErrorIs(t, err, domainerrors.ErrOAuthFailed)
	f.oauth.AssertNotCalled(t, "Exchange", mock.Anything, mock.Anything)
}

func TestAuthService_GoogleLogin_UnverifiedEmailDoesNotMatchAccount(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	f.oauth.On("ValidateState", "state").Return(true)
	f.oauth.On("Exchange", ctx, "code").Return(&service.OAuthUser{Email: "victim@example.com", EmailVerified: false}, nil)

	out, err := f.service.GoogleLogin(ctx, "code", "state")

	require.ErrorIs(t, err, domainerrors.ErrOAuthFailed)
	assert.Nil(t, out)
	f.userRepo.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
	f.sessions.AssertNotCalled(t, "CreateSession", mock.Anything, mock.Anything, mock.Anything)
}

func TestOAuthDisplayName(t *testing.T) {
	assert.Equal(t, "Jane Doe", oauthDisplayName(&service.OAuthUser{GivenName: "Jane", FamilyName: "Doe"}))
	assert.Equal(t, "Jane", oauthDisplayName(&service.OAuthUser{GivenName: "Jane"}))
	assert.Equal(t, "Doe", oauthDisplayName(&service.OAuthUser{FamilyName: "Doe"}))
	assert.Equal(t, "Guest", oauthDisplayName(&service.OAuthUser{}))
}
