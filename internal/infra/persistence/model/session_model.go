package model

import (
	"time"

	"github.com/google/uuid"
)

// SessionModel mirrors the 'sessions' table. user_id and refresh_token are unique.
type SessionModel struct {
	ID                     uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID                 uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_sessions_user_id;not null"`
	AccessToken            string    `gorm:"type:text;not null"`
	RefreshToken           string    `gorm:"type:varchar(128);uniqueIndex:idx_sessions_refresh_token;not null"`
	AccessTokenValidUntil  time.Time `gorm:"not null"`
	RefreshTokenValidUntil time.Time `gorm:"not null;index:idx_sessions_refresh_valid_until"`
	CreatedAt              time.Time
}

// TableName explicitly sets the table name for GORM.
func (SessionModel) TableName() string {
	return "sessions"
}

// PasswordResetModel mirrors the 'password_resets' table.
type PasswordResetModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index:idx_password_resets_user_id"`
	TokenHash string    `gorm:"type:varchar(64);uniqueIndex:idx_password_resets_token_hash;not null"`
	ExpiresAt time.Time `gorm:"not null"`
	CreatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (PasswordResetModel) TableName() string {
	return "password_resets"
}
