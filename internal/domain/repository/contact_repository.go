package repository

import (
	"context"
	"errors"

	"contacts/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrContactNotFound is returned when a contact does not exist or is owned by someone else.
var ErrContactNotFound = errors.New("contact not found")

// ContactPatch holds the fields of a partial contact update. Nil fields are left untouched.
type ContactPatch struct {
	Name        *string
	Email       *string
	PhoneNumber *string
	IsFavourite *bool
	ContactType *entity.ContactType
	Photo       *string
}

// IsEmpty reports whether the patch would change nothing.
func (p ContactPatch) IsEmpty() bool {
	return p.Name == nil && p.Email == nil && p.PhoneNumber == nil &&
		p.IsFavourite == nil && p.ContactType == nil && p.Photo == nil
}

// ContactRepository defines owner-scoped contact persistence.
// Every lookup and mutation is keyed by both contact ID and owner ID.
type ContactRepository interface {
	// List returns one page of the owner's contacts and the total count matching the filter.
	List(ctx context.Context, ownerID uuid.UUID, query entity.ContactQuery) ([]*entity.Contact, int64, error)

	// FindByID returns the owner's contact.
	FindByID(ctx context.Context, ownerID, id uuid.UUID) (*entity.Contact, error)

	// Create persists a new contact.
	Create(ctx context.Context, contact *entity.Contact) error

	// Update applies the patch to the owner's contact and returns the stored result.
	Update(ctx context.Context, ownerID, id uuid.UUID, patch ContactPatch) (*entity.Contact, error)

	// Delete removes the owner's contact and returns what was removed.
	Delete(ctx context.Context, ownerID, id uuid.UUID) (*entity.Contact, error)
}
