// Package impl contains the application-specific business rules implementations.
package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "contacts/internal/delivery/context"
	"contacts/internal/domain/entity"
	domainerrors "contacts/internal/domain/errors"
	"contacts/internal/domain/repository"
	"contacts/internal/domain/service"
	"contacts/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// sessionStore implements the SessionStore interface on top of the session repository.
type sessionStore struct {
	sessionRepo repository.SessionRepository
	metrics     service.SessionMetrics
	now         func() time.Time
	logger      *slog.Logger
}

// SessionStoreParams holds dependencies for SessionStore, injected by Fx.
type SessionStoreParams struct {
	fx.In

	SessionRepo repository.SessionRepository
	Metrics     service.SessionMetrics `optional:"true"`
	Logger      *slog.Logger
}

// NewSessionStore is the constructor for sessionStore.
func NewSessionStore(params SessionStoreParams) usecase.SessionStore {
	return &sessionStore{
		sessionRepo: params.SessionRepo,
		metrics:     params.Metrics,
		now:         time.Now,
		logger:      params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the store's logger.
func (s *sessionStore) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, s.logger)
}

func (s *sessionStore) newSession(userID uuid.UUID, pair *service.TokenPair) *entity.Session {
	return &entity.Session{
		ID:                     uuid.New(),
		UserID:                 userID,
		AccessToken:            pair.AccessToken,
		RefreshToken:           pair.RefreshToken,
		AccessTokenValidUntil:  pair.AccessTokenValidUntil,
		RefreshTokenValidUntil: pair.RefreshTokenValidUntil,
		CreatedAt:              s.now(),
	}
}

// CreateSession overwrites whatever session the user had with the new pair.
func (s *sessionStore) CreateSession(ctx context.Context, userID uuid.UUID, pair *service.TokenPair) (*entity.Session, error) {
	session := s.newSession(userID, pair)

	if err := s.sessionRepo.Upsert(ctx, session); err != nil {
		s.log(ctx).Error("Failed to create session", slog.Any("userID", userID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to create session")
	}

	s.sessionCreated(ctx, session)

	return session, nil
}

// RotateSession replaces the session holding refreshToken. Only one caller can win a given
// refresh token; the others get ErrSessionNotFound.
func (s *sessionStore) RotateSession(ctx context.Context, refreshToken string, userID uuid.UUID, pair *service.TokenPair) (*entity.Session, error) {
	session := s.newSession(userID, pair)

	err := s.sessionRepo.Rotate(ctx, refreshToken, session)
	if errors.Is(err, repository.ErrSessionNotFound) {
		s.log(ctx).Warn("Refresh token already rotated", slog.Any("userID", userID))

		return nil, errors.WithStack(domainerrors.ErrSessionNotFound)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to rotate session")
	}

	s.sessionCreated(ctx, session)

	return session, nil
}

func (s *sessionStore) sessionCreated(ctx context.Context, session *entity.Session) {
	if s.metrics != nil {
		s.metrics.SessionCreated()
	}
	s.log(ctx).Debug("Session created", slog.Any("userID", session.UserID), slog.Any("sessionID", session.ID))
}

func (s *sessionStore) FindByRefreshToken(ctx context.Context, refreshToken string) (*entity.Session, error) {
	session, err := s.sessionRepo.FindByRefreshToken(ctx, refreshToken)
	if errors.Is(err, repository.ErrSessionNotFound) {
		return nil, errors.WithStack(domainerrors.ErrSessionNotFound)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to find session by refresh token")
	}

	if session.RefreshTokenExpired(s.now()) {
		return nil, errors.WithStack(domainerrors.ErrRefreshTokenExpired)
	}

	return session, nil
}

func (s *sessionStore) FindActiveByAccessToken(ctx context.Context, userID uuid.UUID, accessToken string) (*entity.Session, error) {
	session, err := s.sessionRepo.FindByAccessToken(ctx, accessToken)
	if errors.Is(err, repository.ErrSessionNotFound) {
		return nil, errors.WithStack(domainerrors.ErrNoActiveSession)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to find session by access token")
	}

	if session.UserID != userID || !session.AccessTokenActive(s.now()) {
		return nil, errors.WithStack(domainerrors.ErrNoActiveSession)
	}

	return session, nil
}

func (s *sessionStore) DeleteSession(ctx context.Context, refreshToken string) error {
	if err := s.sessionRepo.DeleteByRefreshToken(ctx, refreshToken); err != nil {
		return errors.Wrap(err, "failed to delete session")
	}

	return nil
}

func (s *sessionStore) DeleteAllSessionsForUser(ctx context.Context, userID uuid.UUID) error {
	if err := s.sessionRepo.DeleteByUserID(ctx, userID); err != nil {
		return errors.Wrap(err, "failed to delete user sessions")
	}

	return nil
}

func (s *sessionStore) PurgeExpired(ctx context.Context) (int64, error) {
	purged, err := s.sessionRepo.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, errors.Wrap(err, "failed to purge expired sessions")
	}

	if s.metrics != nil && purged > 0 {
		s.metrics.SessionsPurged(purged)
	}

	return purged, nil
}
