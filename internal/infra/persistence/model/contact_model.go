package model

import (
	"time"

	"github.com/google/uuid"
)

// ContactModel mirrors the 'contacts' table. Rows are always scoped by owner_id.
type ContactModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	OwnerID     uuid.UUID `gorm:"type:uuid;not null;index:idx_contacts_owner_id"`
	Name        string    `gorm:"type:varchar(20);not null"`
	Email       string    `gorm:"type:varchar(255);not null;default:''"`
	PhoneNumber string    `gorm:"type:varchar(20);not null"`
	IsFavourite bool      `gorm:"not null;default:false"`
	ContactType string    `gorm:"type:varchar(20);not null;default:personal"`
	Photo       string    `gorm:"type:text;not null;default:''"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName explicitly sets the table name for GORM.
func (ContactModel) TableName() string {
	return "contacts"
}
