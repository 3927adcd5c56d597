package impl

import (
	"context"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"contacts/config"
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
	resetTokenBytes      = 32
	defaultResetTokenTTL = 15 * time.Minute
	resetPasswordPath    = "/reset-password"
	resetPasswordSubject = "Reset your password"
)

// passwordService implements the PasswordUsecase interface.
type passwordService struct {
	txManager repository.TransactionManager
	userRepo  repository.UserRepository
	hasher    service.PasswordHasher
	sender    service.EmailSender
	templates service.MailTemplates
	appDomain string
	tokenTTL  time.Duration
	now       func() time.Time
	logger    *slog.Logger
}

// PasswordServiceParams holds dependencies for PasswordService, injected by Fx.
type PasswordServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	UserRepo  repository.UserRepository
	Hasher    service.PasswordHasher
	Sender    service.EmailSender
	Templates service.MailTemplates
	Config    *config.Config
	Logger    *slog.Logger
}

// NewPasswordService is the constructor for passwordService.
func NewPasswordService(params PasswordServiceParams) usecase.PasswordUsecase {
	tokenTTL := defaultResetTokenTTL
	if params.Config.Auth != nil && params.Config.Auth.ResetTokenTTL > 0 {
		tokenTTL = params.Config.Auth.ResetTokenTTL
	}

	return &passwordService{
		txManager: params.TxManager,
		userRepo:  params.UserRepo,
		hasher:    params.Hasher,
		sender:    params.Sender,
		templates: params.Templates,
		appDomain: strings.TrimRight(params.Config.App.Domain, "/"),
		tokenTTL:  tokenTTL,
		now:       time.Now,
		logger:    params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *passwordService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// RequestReset stores a hashed single-use token and emails the raw one.
func (srv *passwordService) RequestReset(ctx context.Context, email string) error {
	email = entity.NormalizeEmail(email)

	user, err := srv.userRepo.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrUserNotFound) {
		srv.log(ctx).Info("Password reset requested for unknown email")

		return nil
	}
	if err != nil {
		return errors.Wrap(err, "failed to find user by email")
	}

	token, err := util.RandomHex(resetTokenBytes)
	if err != nil {
		return errors.Wrap(err, "failed to generate reset token")
	}

	now := srv.now()
	reset := &entity.PasswordReset{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: util.HashToken(token),
		ExpiresAt: now.Add(srv.tokenTTL),
		CreatedAt: now,
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		resetRepo := repoFactory.NewPasswordResetRepository()

		if err := resetRepo.DeleteByUserID(ctx, user.ID); err != nil {
			return errors.Wrap(err, "failed to delete previous reset tokens")
		}
		if err := resetRepo.Create(ctx, reset); err != nil {
			return errors.Wrap(err, "failed to create reset token")
		}

		return nil
	})
	if err != nil {
		return errors.Wrap(err, "failed to execute password reset transaction")
	}

	html, err := srv.templates.ResetPassword(service.ResetPasswordMail{
		Name:      user.Name,
		Link:      srv.resetLink(token),
		ExpiresIn: humanizeDuration(srv.tokenTTL),
		Year:      now.Year(),
	})
	if err != nil {
		return errors.Wrap(err, "failed to render reset email")
	}

	if err := srv.sender.Send(ctx, &service.EmailMessage{To: user.Email, Subject: resetPasswordSubject, HTML: html}); err != nil {
		srv.log(ctx).Error("Failed to send reset email", slog.Any("userID", user.ID), slog.Any("error", err))

		return errors.Wrap(domainerrors.ErrEmailSendFailed, err.Error())
	}

	srv.log(ctx).Info("Password reset email sent", slog.Any("userID", user.ID))

	return nil
}

func (srv *passwordService) resetLink(token string) string {
	return srv.appDomain + resetPasswordPath + "?token=" + url.QueryEscape(token)
}

// ResetPassword consumes the token, sets the password and signs the user out everywhere.
func (srv *passwordService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if token == "" {
		return errors.WithStack(domainerrors.ErrResetTokenInvalid)
	}

	passwordHash, err := hashPassword(srv.hasher, newPassword)
	if err != nil {
		return err
	}

	var userID uuid.UUID
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		resetRepo := repoFactory.NewPasswordResetRepository()

		reset, err := resetRepo.FindByTokenHash(ctx, util.HashToken(token))
		if errors.Is(err, repository.ErrPasswordResetNotFound) {
			return errors.WithStack(domainerrors.ErrResetTokenInvalid)
		}
		if err != nil {
			return errors.Wrap(err, "failed to find reset token")
		}
		if reset.Expired(srv.now()) {
			return errors.WithStack(domainerrors.ErrResetTokenInvalid)
		}
		userID = reset.UserID

		if err := repoFactory.NewUserRepository().UpdatePassword(ctx, reset.UserID, passwordHash); err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return errors.WithStack(domainerrors.ErrResetTokenInvalid)
			}

			return errors.Wrap(err, "failed to update password")
		}
		if err := repoFactory.NewSessionRepository().DeleteByUserID(ctx, reset.UserID); err != nil {
			return errors.Wrap(err, "failed to delete sessions")
		}
		if err := resetRepo.DeleteByUserID(ctx, reset.UserID); err != nil {
			return errors.Wrap(err, "failed to delete reset tokens")
		}

		return nil
	})
	if err != nil {
		return errors.Wrap(err, "failed to execute reset password transaction")
	}

	srv.log(ctx).Info("Password reset completed", slog.Any("userID", userID))

	return nil
}

// humanizeDuration renders a TTL for the email body, e.g. "15 minutes" or "1 hour".
func humanizeDuration(d time.Duration) string {
	switch {
	case d >= time.Hour && d%time.Hour == 0:
		return pluralize(int(d/time.Hour), "hour")
	case d >= time.Minute:
		return pluralize(int(d/time.Minute), "minute")
	default:
		return pluralize(int(d/time.Second), "second")
	}
}

func pluralize(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}

	return strconv.Itoa(n) + " " + unit + "s"
}
