package usecase

import (
	"context"

	"contacts/internal/domain/entity"
	"contacts/internal/domain/service"

	"github.com/google/uuid"
)

// ListContactsInput holds the raw listing query. Invalid values fall back to defaults.
type ListContactsInput struct {
	Page        string
	PerPage     string
	SortBy      string
	SortOrder   string
	ContactType string
	IsFavourite string
	PhoneNumber string
	Name        string
}

// CreateContactInput defines a new contact.
type CreateContactInput struct {
	Name        string
	Email       string
	PhoneNumber string
	IsFavourite bool
	ContactType entity.ContactType
	Photo       *service.PhotoUpload
}

// UpdateContactInput is a partial contact update. Nil fields are left unchanged.
type UpdateContactInput struct {
	Name        *string
	Email       *string
	PhoneNumber *string
	IsFavourite *bool
	ContactType *entity.ContactType
	Photo       *service.PhotoUpload
}

// ContactUsecase manages contacts owned by the authenticated user.
type ContactUsecase interface {
	List(ctx context.Context, ownerID uuid.UUID, input *ListContactsInput) (*entity.ContactPage, error)
	Get(ctx context.Context, ownerID, contactID uuid.UUID) (*entity.Contact, error)
	Create(ctx context.Context, ownerID uuid.UUID, input *CreateContactInput) (*entity.Contact, error)
	Update(ctx context.Context, ownerID, contactID uuid.UUID, input *UpdateContactInput) (*entity.Contact, error)
	Delete(ctx context.Context, ownerID, contactID uuid.UUID) error
}
