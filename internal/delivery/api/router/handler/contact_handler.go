package handler

import (
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"contacts/internal/delivery/api/middleware"
	"contacts/internal/delivery/api/response"
	"contacts/internal/domain/entity"
	domainerrors "contacts/internal/domain/errors"
	"contacts/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type createContactRequest struct {
	Name        string `json:"name" form:"name" validate:"required,min=3,max=20"`
	Email       string `json:"email" form:"email" validate:"required,email,max=255"`
	PhoneNumber string `json:"phoneNumber" form:"phoneNumber" validate:"required,min=3,max=20"`
	IsFavourite bool   `json:"isFavourite" form:"isFavourite"`
	ContactType string `json:"contactType" form:"contactType" validate:"omitempty,oneof=personal work other"`
}

type updateContactRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=3,max=20"`
	Email       *string `json:"email" validate:"omitempty,email,max=255"`
	PhoneNumber *string `json:"phoneNumber" validate:"omitempty,min=3,max=20"`
	IsFavourite *bool   `json:"isFavourite"`
	ContactType *string `json:"contactType" validate:"omitempty,oneof=personal work other"`
}

// ContactHandler holds dependencies for contact handlers.
type ContactHandler struct {
	uc     usecase.ContactUsecase
	logger *slog.Logger
}

// NewContactHandler is the constructor for ContactHandler, injected by Fx.
func NewContactHandler(uc usecase.ContactUsecase, logger *slog.Logger) *ContactHandler {
	return &ContactHandler{
		uc:     uc,
		logger: logger,
	}
}

// List returns one page of the user's contacts.
func (h *ContactHandler) List(c echo.Context) error {
	ownerID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	page, err := h.uc.List(c.Request().Context(), ownerID, &usecase.ListContactsInput{
		Page:        c.QueryParam("page"),
		PerPage:     c.QueryParam("perPage"),
		SortBy:      c.QueryParam("sortBy"),
		SortOrder:   c.QueryParam("sortOrder"),
		ContactType: c.QueryParam("contactType"),
		IsFavourite: c.QueryParam("isFavourite"),
		PhoneNumber: c.QueryParam("phoneNumber"),
		Name:        c.QueryParam("name"),
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, page, "Successfully found contacts!")
}

// Get returns a single contact.
func (h *ContactHandler) Get(c echo.Context) error {
	ownerID, contactID, err := contactScope(c)
	if err != nil {
		return err
	}

	contact, err := h.uc.Get(c.Request().Context(), ownerID, contactID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, contact, "Successfully found contact with id "+contactID.String()+"!")
}

// Create adds a contact from a JSON or multipart body. A multipart "photo" file is optional.
func (h *ContactHandler) Create(c echo.Context) error {
	ownerID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	var req createContactRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	photo, closer, err := photoFromForm(c, "photo")
	if err != nil {
		return err
	}
	defer closeQuietly(closer)

	contact, err := h.uc.Create(c.Request().Context(), ownerID, &usecase.CreateContactInput{
		Name:        req.Name,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		IsFavourite: req.IsFavourite,
		ContactType: entity.ContactType(req.ContactType),
		Photo:       photo,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, contact, "Successfully created a contact!")
}

// Update applies a partial update from a JSON or multipart body.
func (h *ContactHandler) Update(c echo.Context) error {
	ownerID, contactID, err := contactScope(c)
	if err != nil {
		return err
	}

	req, err := bindUpdateContact(c)
	if err != nil {
		return err
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	photo, closer, err := photoFromForm(c, "photo")
	if err != nil {
		return err
	}
	defer closeQuietly(closer)

	input := &usecase.UpdateContactInput{
		Name:        req.Name,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		IsFavourite: req.IsFavourite,
		Photo:       photo,
	}
	if req.ContactType != nil {
		contactType := entity.ContactType(*req.ContactType)
		input.ContactType = &contactType
	}

	contact, err := h.uc.Update(c.Request().Context(), ownerID, contactID, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, contact, "Successfully patched a contact!")
}

// Delete removes a contact.
func (h *ContactHandler) Delete(c echo.Context) error {
	ownerID, contactID, err := contactScope(c)
	if err != nil {
		return err
	}

	if err := h.uc.Delete(c.Request().Context(), ownerID, contactID); err != nil {
		return errors.WithStack(err)
	}

	return response.NoContent(c)
}

func contactScope(c echo.Context) (ownerID, contactID uuid.UUID, err error) {
	ownerID, err = middleware.GetUserID(c)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}

	contactID, err = uuid.Parse(c.Param("contactId"))
	if err != nil {
		return uuid.Nil, uuid.Nil, errors.WithStack(domainerrors.ErrInvalidID)
	}

	return ownerID, contactID, nil
}

// bindUpdateContact reads a partial update. Multipart fields are only set when present in the form.
func bindUpdateContact(c echo.Context) (*updateContactRequest, error) {
	var req updateContactRequest

	if !strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		if err := c.Bind(&req); err != nil {
			return nil, errors.WithStack(domainerrors.ErrValidationFailed.WithDetails("malformed request body"))
		}

		return &req, nil
	}

	form, err := c.MultipartForm()
	if err != nil {
		return nil, errors.WithStack(echo.NewHTTPError(http.StatusBadRequest, "Invalid multipart form"))
	}

	req.Name = formValue(form, "name")
	req.Email = formValue(form, "email")
	req.PhoneNumber = formValue(form, "phoneNumber")
	req.ContactType = formValue(form, "contactType")

	if raw := formValue(form, "isFavourite"); raw != nil {
		favourite, err := strconv.ParseBool(*raw)
		if err != nil {
			return nil, errors.WithStack(domainerrors.ErrValidationFailed.WithDetails("isFavourite must be a boolean"))
		}
		req.IsFavourite = &favourite
	}

	return &req, nil
}

func formValue(form *multipart.Form, key string) *string {
	values, ok := form.Value[key]
	if !ok || len(values) == 0 {
		return nil
	}

	return &values[0]
}
