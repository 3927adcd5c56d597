package entity

import (
	"time"

	"github.com/google/uuid"
)

// ContactType classifies a contact.
type ContactType string

const (
	ContactTypePersonal ContactType = "personal"
	ContactTypeWork     ContactType = "work"
	ContactTypeOther    ContactType = "other"
)

// IsValid checks if the ContactType is a valid value.
func (t ContactType) IsValid() bool {
	switch t {
	case ContactTypePersonal, ContactTypeWork, ContactTypeOther:
		return true
	default:
		return false
	}
}

// Contact is an address book entry owned by exactly one user.
type Contact struct {
	ID          uuid.UUID   `json:"id"`
	OwnerID     uuid.UUID   `json:"ownerId"`
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	PhoneNumber string      `json:"phoneNumber"`
	IsFavourite bool        `json:"isFavourite"`
	ContactType ContactType `json:"contactType"`
	Photo       string      `json:"photo,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}
