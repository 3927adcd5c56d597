package impl

import (
	"context"
	"log/slog"
	"strings"

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

const contactPhotoFolder = "contacts"

// contactService implements the ContactUsecase interface.
type contactService struct {
	contactRepo  repository.ContactRepository
	photoStorage service.PhotoStorage
	logger       *slog.Logger
}

// ContactServiceParams holds dependencies for ContactService, injected by Fx.
type ContactServiceParams struct {
	fx.In

	ContactRepo  repository.ContactRepository
	PhotoStorage service.PhotoStorage
	Logger       *slog.Logger
}

// NewContactService is the constructor for contactService.
func NewContactService(params ContactServiceParams) usecase.ContactUsecase {
	return &contactService{
		contactRepo:  params.ContactRepo,
		photoStorage: params.PhotoStorage,
		logger:       params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *contactService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *contactService) List(ctx context.Context, ownerID uuid.UUID, input *usecase.ListContactsInput) (*entity.ContactPage, error) {
	query := buildContactQuery(input)

	contacts, total, err := srv.contactRepo.List(ctx, ownerID, query)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list contacts")
	}

	return entity.NewContactPage(contacts, query.Page, query.PerPage, total), nil
}

func (srv *contactService) Get(ctx context.Context, ownerID, contactID uuid.UUID) (*entity.Contact, error) {
	contact, err := srv.contactRepo.FindByID(ctx, ownerID, contactID)
	if err != nil {
		return nil, mapContactError(err, "failed to find contact")
	}

	return contact, nil
}

func (srv *contactService) Create(ctx context.Context, ownerID uuid.UUID, input *usecase.CreateContactInput) (*entity.Contact, error) {
	contactType := input.ContactType
	if contactType == "" {
		contactType = entity.ContactTypePersonal
	}

	contact := &entity.Contact{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Name:        strings.TrimSpace(input.Name),
		Email:       strings.TrimSpace(input.Email),
		PhoneNumber: strings.TrimSpace(input.PhoneNumber),
		IsFavourite: input.IsFavourite,
		ContactType: contactType,
	}

	if input.Photo != nil {
		photoURL, err := srv.photoStorage.Save(ctx, contactPhotoFolder, input.Photo)
		if err != nil {
			return nil, errors.Wrap(err, "failed to store contact photo")
		}
		contact.Photo = photoURL
	}

	if err := srv.contactRepo.Create(ctx, contact); err != nil {
		return nil, errors.Wrap(err, "failed to create contact")
	}

	srv.log(ctx).Debug("Contact created", slog.Any("ownerID", ownerID), slog.Any("contactID", contact.ID))

	return contact, nil
}

// Update applies a partial update. The photo is stored only after the contact is known to exist.
func (srv *contactService) Update(ctx context.Context, ownerID, contactID uuid.UUID, input *usecase.UpdateContactInput) (*entity.Contact, error) {
	patch := repository.ContactPatch{
		Name:        trimmed(input.Name),
		Email:       trimmed(input.Email),
		PhoneNumber: trimmed(input.PhoneNumber),
		IsFavourite: input.IsFavourite,
		ContactType: input.ContactType,
	}
	if patch.IsEmpty() && input.Photo == nil {
		return nil, errors.WithStack(domainerrors.ErrEmptyUpdate)
	}

	if input.Photo != nil {
		if _, err := srv.contactRepo.FindByID(ctx, ownerID, contactID); err != nil {
			return nil, mapContactError(err, "failed to find contact")
		}

		photoURL, err := srv.photoStorage.Save(ctx, contactPhotoFolder, input.Photo)
		if err != nil {
			return nil, errors.Wrap(err, "failed to store contact photo")
		}
		patch.Photo = &photoURL
	}

	contact, err := srv.contactRepo.Update(ctx, ownerID, contactID, patch)
	if err != nil {
		return nil, mapContactError(err, "failed to update contact")
	}

	return contact, nil
}

func (srv *contactService) Delete(ctx context.Context, ownerID, contactID uuid.UUID) error {
	if _, err := srv.contactRepo.Delete(ctx, ownerID, contactID); err != nil {
		return mapContactError(err, "failed to delete contact")
	}

	srv.log(ctx).Debug("Contact deleted", slog.Any("ownerID", ownerID), slog.Any("contactID", contactID))

	return nil
}

func mapContactError(err error, message string) error {
	if errors.Is(err, repository.ErrContactNotFound) {
		return errors.WithStack(domainerrors.ErrContactNotFound)
	}

	return errors.Wrap(err, message)
}

func trimmed(value *string) *string {
	if value == nil {
		return nil
	}
	out := strings.TrimSpace(*value)

	return &out
}
