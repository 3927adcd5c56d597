package postgres

import (
	"context"
	"time"

	"contacts/internal/domain/entity"
	domainerrors "contacts/internal/domain/errors"
	"contacts/internal/domain/repository"
	"contacts/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/plugin/dbresolver"
)

type sessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository creates a new instance of SessionRepository.
func NewSessionRepository(db *gorm.DB) repository.SessionRepository {
	return &sessionRepository{db: db}
}

var replacedSessionColumns = []string{
	"id", "access_token", "refresh_token", "access_token_valid_until", "refresh_token_valid_until", "created_at",
}

// Upsert relies on idx_sessions_user_id: concurrent logins serialize on the row and the last one wins.
func (repo *sessionRepository) Upsert(ctx context.Context, session *entity.Session) error {
	sessionM := fromSessionDomain(session)

	err := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns(replacedSessionColumns),
		}).
		Create(sessionM).Error
	if err != nil {
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrUserNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to upsert session")
	}

	session.ID = sessionM.ID
	session.CreatedAt = sessionM.CreatedAt

	return nil
}

// Rotate is a compare-and-swap on the refresh token. A concurrent rotation blocks on the row
// lock and then matches zero rows, because Postgres re-checks the WHERE clause on the new version.
func (repo *sessionRepository) Rotate(ctx context.Context, oldRefreshToken string, session *entity.Session) error {
	sessionM := fromSessionDomain(session)

	result := repo.db.WithContext(ctx).
		Model(&model.SessionModel{}).
		Where("user_id = ? AND refresh_token = ?", session.UserID, oldRefreshToken).
		Updates(map[string]any{
			"id":                        sessionM.ID,
			"access_token":              sessionM.AccessToken,
			"refresh_token":             sessionM.RefreshToken,
			"access_token_valid_until":  sessionM.AccessTokenValidUntil,
			"refresh_token_valid_until": sessionM.RefreshTokenValidUntil,
			"created_at":                session.CreatedAt,
		})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to rotate session")
	}
	if result.RowsAffected == 0 {
		return repository.ErrSessionNotFound
	}

	return nil
}

// FindByAccessToken always reads from the primary: a session rotated moments ago
// must never be served stale from a replica.
func (repo *sessionRepository) FindByAccessToken(ctx context.Context, accessToken string) (*entity.Session, error) {
	return repo.findOne(ctx, "access_token = ?", accessToken)
}

func (repo *sessionRepository) FindByRefreshToken(ctx context.Context, refreshToken string) (*entity.Session, error) {
	return repo.findOne(ctx, "refresh_token = ?", refreshToken)
}

func (repo *sessionRepository) findOne(ctx context.Context, query string, arg any) (*entity.Session, error) {
	var sessionM model.SessionModel
	err := repo.db.WithContext(ctx).
		Clauses(dbresolver.Write).
		Where(query, arg).
		First(&sessionM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrSessionNotFound
		}

		return nil, errors.Wrap(err, "failed to find session")
	}

	return toSessionDomain(&sessionM), nil
}

func (repo *sessionRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	if err := repo.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.SessionModel{}).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to delete user sessions")
	}

	return nil
}

func (repo *sessionRepository) DeleteByRefreshToken(ctx context.Context, refreshToken string) error {
	if err := repo.db.WithContext(ctx).Where("refresh_token = ?", refreshToken).Delete(&model.SessionModel{}).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to delete session")
	}

	return nil
}

func (repo *sessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := repo.db.WithContext(ctx).Where("refresh_token_valid_until < ?", now).Delete(&model.SessionModel{})
	if result.Error != nil {
		return 0, domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete expired sessions")
	}

	return result.RowsAffected, nil
}

func toSessionDomain(data *model.SessionModel) *entity.Session {
	return &entity.Session{
		ID:                     data.ID,
		UserID:                 data.UserID,
		AccessToken:            data.AccessToken,
		RefreshToken:           data.RefreshToken,
		AccessTokenValidUntil:  data.AccessTokenValidUntil,
		RefreshTokenValidUntil: data.RefreshTokenValidUntil,
		CreatedAt:              data.CreatedAt,
	}
}

func fromSessionDomain(data *entity.Session) *model.SessionModel {
	return &model.SessionModel{
		ID:                     data.ID,
		UserID:                 data.UserID,
		AccessToken:            data.AccessToken,
		RefreshToken:           data.RefreshToken,
		AccessTokenValidUntil:  data.AccessTokenValidUntil,
		RefreshTokenValidUntil: data.RefreshTokenValidUntil,
	}
}
