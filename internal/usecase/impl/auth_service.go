package impl

import (
	"context"
	"log/slog"
	"strings"
	"time"

	deliverycontext "contacts/internal/delivery/context"
	"contacts/internal/domain/entity"
	domainerrors "contacts/internal/domain/errors"
	"contacts/internal/domain/repository"
	"contacts/internal/domain/service"
	"contacts/internal/usecase"
	"contacts/internal/util"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const (
	avatarFolder       = "avatars"
	oauthStateBytes    = 16
	oauthPasswordBytes = 32
	guestName          = "Guest"
)

// authService implements the AuthUsecase interface.
type authService struct {
	txManager    repository.TransactionManager
	userRepo     repository.UserRepository
	sessions     usecase.SessionStore
	hasher       service.PasswordHasher
	tokenService service.TokenService
	oauthService service.OAuthService
	photoStorage service.PhotoStorage
	now          func() time.Time
	logger       *slog.Logger

	// dummyHash keeps the unknown-email login path as slow as a real password check.
	dummyHash string
}

// AuthServiceParams holds dependencies for AuthService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	UserRepo     repository.UserRepository
	Sessions     usecase.SessionStore
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	OAuthService service.OAuthService `optional:"true"`
	PhotoStorage service.PhotoStorage
	Logger       *slog.Logger
}

// NewAuthService is the constructor for authService.
func NewAuthService(params AuthServiceParams) (usecase.AuthUsecase, error) {
	dummyHash, err := params.Hasher.Hash(uuid.NewString())
	if err != nil {
		return nil, errors.Wrap(err, "failed to prepare dummy password hash")
	}

	return &authService{
		txManager:    params.TxManager,
		userRepo:     params.UserRepo,
		sessions:     params.Sessions,
		hasher:       params.Hasher,
		tokenService: params.TokenService,
		oauthService: params.OAuthService,
		photoStorage: params.PhotoStorage,
		now:          time.Now,
		logger:       params.Logger,
		dummyHash:    dummyHash,
	}, nil
}

// hashPassword keeps hasher validation errors as 400s and reports everything else as a hash failure.
func hashPassword(hasher service.PasswordHasher, password string) (string, error) {
	hash, err := hasher.Hash(password)
	if err == nil {
		return hash, nil
	}
	if errors.Is(err, domainerrors.ErrValidationFailed) {
		return "", err
	}

	return "", errors.Wrap(domainerrors.ErrPasswordHashFailed, err.Error())
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register creates a password account. The email must not be in use.
func (srv *authService) Register(ctx context.Context, input *usecase.RegisterInput) (*entity.User, error) {
	email := entity.NormalizeEmail(input.Email)
	srv.log(ctx).Info("Starting registration", slog.String("email", email))

	passwordHash, err := hashPassword(srv.hasher, input.Password)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		PasswordHash: passwordHash,
		Subscription: entity.SubscriptionStarter,
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.NewUserRepository()

		_, err := userRepo.FindByEmail(ctx, email)
		if err == nil {
			return errors.WithStack(domainerrors.ErrEmailInUse)
		}
		if !errors.Is(err, repository.ErrUserNotFound) {
			return errors.Wrap(err, "failed to find user by email")
		}

		if err := userRepo.Create(ctx, user); err != nil {
			if errors.Is(err, repository.ErrEmailTaken) {
				return errors.WithStack(domainerrors.ErrEmailInUse)
			}

			return errors.Wrap(err, "failed to create user")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Registration failed", slog.String("email", email), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute user registration transaction")
	}

	srv.log(ctx).Debug("Registration completed", slog.Any("userID", user.ID))

	return user, nil
}

// Login verifies the credentials and replaces the user's session with a fresh one.
func (srv *authService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.SessionOutput, error) {
	email := entity.NormalizeEmail(input.Email)

	user, err := srv.userRepo.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrUserNotFound) {
		srv.hasher.Check(input.Password, srv.dummyHash)

		return nil, errors.WithStack(domainerrors.ErrInvalidCredentials)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to find user by email")
	}

	if !srv.hasher.Check(input.Password, user.PasswordHash) {
		srv.log(ctx).Info("Login rejected", slog.Any("userID", user.ID))

		return nil, errors.WithStack(domainerrors.ErrInvalidCredentials)
	}

	return srv.openSession(ctx, user)
}

// Refresh rotates the pair behind a still-valid refresh token.
func (srv *authService) Refresh(ctx context.Context, refreshToken string) (*usecase.SessionOutput, error) {
	if refreshToken == "" {
		return nil, errors.WithStack(domainerrors.ErrRefreshTokenMissing)
	}

	session, err := srv.sessions.FindByRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := srv.userRepo.FindByID(ctx, session.UserID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, errors.WithStack(domainerrors.ErrSessionUserNotFound)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to find session user")
	}

	pair, err := srv.tokenService.IssuePair(user.ID, srv.now())
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrTokenIssueFailed, err.Error())
	}

	if _, err := srv.sessions.RotateSession(ctx, refreshToken, user.ID, pair); err != nil {
		return nil, err
	}

	return sessionOutput(user, pair), nil
}

// Logout ends the session behind the refresh token. Unknown tokens are ignored.
func (srv *authService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}

	return srv.sessions.DeleteSession(ctx, refreshToken)
}

func (srv *authService) Authenticate(ctx context.Context, accessToken string) (*entity.User, error) {
	if accessToken == "" {
		return nil, errors.WithStack(domainerrors.ErrAuthenticationRequired)
	}

	claims, err := srv.tokenService.ValidateAccessToken(accessToken)
	if errors.Is(err, service.ErrTokenExpired) {
		return nil, errors.WithStack(domainerrors.ErrAccessTokenExpired)
	}
	if err != nil {
		return nil, errors.WithStack(domainerrors.ErrAccessTokenInvalid)
	}

	if _, err := srv.sessions.FindActiveByAccessToken(ctx, claims.UserID, accessToken); err != nil {
		return nil, err
	}

	user, err := srv.userRepo.FindByID(ctx, claims.UserID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, errors.WithStack(domainerrors.ErrSessionUserNotFound)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to find session user")
	}

	return user, nil
}

func (srv *authService) Current(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, errors.WithStack(domainerrors.ErrUserNotFound)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to find user")
	}

	return user, nil
}

// UpdateProfile changes name, email or password. A new password requires the current one.
func (srv *authService) UpdateProfile(ctx context.Context, userID uuid.UUID, input *usecase.UpdateProfileInput) (*entity.User, error) {
	var updated *entity.User

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.NewUserRepository()

		user, err := userRepo.FindByID(ctx, userID)
		if errors.Is(err, repository.ErrUserNotFound) {
			return errors.WithStack(domainerrors.ErrUserNotFound)
		}
		if err != nil {
			return errors.Wrap(err, "failed to find user")
		}

		if err := srv.applyPasswordChange(user, input); err != nil {
			return err
		}

		if input.Email != nil {
			email := entity.NormalizeEmail(*input.Email)
			if email != user.Email {
				if err := ensureEmailFree(ctx, userRepo, email); err != nil {
					return err
				}
				user.Email = email
			}
		}

		if input.Name != nil {
			user.Name = strings.TrimSpace(*input.Name)
		}

		if err := userRepo.Update(ctx, user); err != nil {
			if errors.Is(err, repository.ErrEmailTaken) {
				return errors.WithStack(domainerrors.ErrEmailInUse)
			}

			return errors.Wrap(err, "failed to update user")
		}
		updated = user

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute update profile transaction")
	}

	srv.log(ctx).Debug("Profile updated", slog.Any("userID", userID))

	return updated, nil
}

func (srv *authService) applyPasswordChange(user *entity.User, input *usecase.UpdateProfileInput) error {
	if input.NewPassword == nil {
		return nil
	}
	if input.CurrentPassword == nil || *input.CurrentPassword == "" {
		return errors.WithStack(domainerrors.ErrCurrentPasswordRequired)
	}
	if !srv.hasher.Check(*input.CurrentPassword, user.PasswordHash) {
		return errors.WithStack(domainerrors.ErrCurrentPasswordWrong)
	}

	passwordHash, err := hashPassword(srv.hasher, *input.NewPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = passwordHash

	return nil
}

func ensureEmailFree(ctx context.Context, userRepo repository.UserRepository, email string) error {
	_, err := userRepo.FindByEmail(ctx, email)
	if err == nil {
		return errors.WithStack(domainerrors.ErrEmailInUse)
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return errors.Wrap(err, "failed to find user by email")
	}

	return nil
}

// UpdateAvatar stores the image and points the user's avatar at it.
func (srv *authService) UpdateAvatar(ctx context.Context, userID uuid.UUID, upload *service.PhotoUpload) (*entity.User, error) {
	user, err := srv.Current(ctx, userID)
	if err != nil {
		return nil, err
	}

	avatarURL, err := srv.photoStorage.Save(ctx, avatarFolder, upload)
	if err != nil {
		return nil, errors.Wrap(err, "failed to store avatar")
	}

	user.AvatarURL = avatarURL
	if err := srv.userRepo.Update(ctx, user); err != nil {
		return nil, errors.Wrap(err, "failed to update avatar")
	}

	return user, nil
}

func (srv *authService) GoogleAuthURL(ctx context.Context) (string, error) {
	if srv.oauthService == nil {
		return "", errors.WithStack(domainerrors.ErrOAuthNotConfigured)
	}

	state, err := util.RandomHex(oauthStateBytes)
	if err != nil {
		return "", errors.Wrap(err, "failed to generate oauth state")
	}

	return srv.oauthService.AuthURL(state), nil
}

// GoogleLogin exchanges the code, creates the account on first sign-in and opens a session.
func (srv *authService) GoogleLogin(ctx context.Context, code, state string) (*usecase.SessionOutput, error) {
	if srv.oauthService == nil {
		return nil, errors.WithStack(domainerrors.ErrOAuthNotConfigured)
	}

	if !srv.oauthService.ValidateState(state) {
		srv.log(ctx).Warn("Rejected Google callback with unknown state")

		return nil, errors.Wrap(domainerrors.ErrOAuthFailed, "invalid oauth state")
	}

	oauthUser, err := srv.oauthService.Exchange(ctx, code)
	if err != nil {
		srv.log(ctx).Warn("Google code exchange failed", slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrOAuthFailed, err.Error())
	}

	// Accounts are matched by email, so Google must have verified it.
	if !oauthUser.EmailVerified {
		srv.log(ctx).Warn("Rejected Google identity with unverified email", slog.String("subject", oauthUser.Subject))

		return nil, errors.Wrap(domainerrors.ErrOAuthFailed, "google email not verified")
	}

	user, err := srv.findOrCreateOAuthUser(ctx, oauthUser)
	if err != nil {
		return nil, err
	}

	return srv.openSession(ctx, user)
}

func (srv *authService) findOrCreateOAuthUser(ctx context.Context, oauthUser *service.OAuthUser) (*entity.User, error) {
	email := entity.NormalizeEmail(oauthUser.Email)

	user, err := srv.userRepo.FindByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, errors.Wrap(err, "failed to find user by email")
	}

	// OAuth accounts get an unusable random password.
	randomPassword, err := util.RandomHex(oauthPasswordBytes)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate password")
	}
	passwordHash, err := hashPassword(srv.hasher, randomPassword)
	if err != nil {
		return nil, err
	}

	user = &entity.User{
		ID:           uuid.New(),
		Name:         oauthDisplayName(oauthUser),
		Email:        email,
		PasswordHash: passwordHash,
		Subscription: entity.SubscriptionStarter,
		AvatarURL:    oauthUser.Picture,
	}

	if err := srv.userRepo.Create(ctx, user); err != nil {
		if !errors.Is(err, repository.ErrEmailTaken) {
			return nil, errors.Wrap(err, "failed to create oauth user")
		}

		// Lost a race with a concurrent first sign-in.
		existing, findErr := srv.userRepo.FindByEmail(ctx, email)
		if findErr != nil {
			return nil, errors.Wrap(findErr, "failed to find user by email")
		}

		return existing, nil
	}

	srv.log(ctx).Info("Created user from Google sign-in", slog.Any("userID", user.ID))

	return user, nil
}

func oauthDisplayName(oauthUser *service.OAuthUser) string {
	name := strings.TrimSpace(strings.Join([]string{oauthUser.GivenName, oauthUser.FamilyName}, " "))
	if name == "" {
		return guestName
	}

	return name
}

func (srv *authService) openSession(ctx context.Context, user *entity.User) (*usecase.SessionOutput, error) {
	pair, err := srv.tokenService.IssuePair(user.ID, srv.now())
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrTokenIssueFailed, err.Error())
	}

	if _, err := srv.sessions.CreateSession(ctx, user.ID, pair); err != nil {
		return nil, err
	}

	return sessionOutput(user, pair), nil
}

func sessionOutput(user *entity.User, pair *service.TokenPair) *usecase.SessionOutput {
	return &usecase.SessionOutput{
		AccessToken:            pair.AccessToken,
		RefreshToken:           pair.RefreshToken,
		RefreshTokenValidUntil: pair.RefreshTokenValidUntil,
		User:                   user,
	}
}
