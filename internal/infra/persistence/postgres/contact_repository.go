package postgres

import (
	"context"
	"strings"
	"time"

	"contacts/internal/domain/entity"
	domainerrors "contacts/internal/domain/errors"
	"contacts/internal/domain/repository"
	"contacts/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// contactSortColumns maps the public sort keys to their columns.
var contactSortColumns = map[entity.ContactSortField]string{
	entity.ContactSortID:          "id",
	entity.ContactSortName:        "name",
	entity.ContactSortPhoneNumber: "phone_number",
	entity.ContactSortEmail:       "email",
	entity.ContactSortIsFavourite: "is_favourite",
	entity.ContactSortContactType: "contact_type",
	entity.ContactSortCreatedAt:   "created_at",
	entity.ContactSortUpdatedAt:   "updated_at",
}

type contactRepository struct {
	db *gorm.DB
}

// NewContactRepository creates a new instance of ContactRepository.
func NewContactRepository(db *gorm.DB) repository.ContactRepository {
	return &contactRepository{db: db}
}

func (repo *contactRepository) List(ctx context.Context, ownerID uuid.UUID, query entity.ContactQuery) ([]*entity.Contact, int64, error) {
	base := repo.filtered(repo.db.WithContext(ctx).Model(&model.ContactModel{}), ownerID, query.Filter)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to count contacts")
	}

	column, ok := contactSortColumns[query.SortBy]
	if !ok {
		column = "id"
	}

	var rows []*model.ContactModel
	err := base.Session(&gorm.Session{}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: query.SortOrder == entity.SortDesc}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}}).
		Offset(query.Offset()).
		Limit(query.PerPage).
		Find(&rows).Error
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to list contacts")
	}

	contacts := make([]*entity.Contact, 0, len(rows))
	for _, row := range rows {
		contacts = append(contacts, toContactDomain(row))
	}

	return contacts, total, nil
}

func (repo *contactRepository) filtered(db *gorm.DB, ownerID uuid.UUID, filter entity.ContactFilter) *gorm.DB {
	db = db.Where("owner_id = ?", ownerID)

	if filter.ContactType != nil {
		db = db.Where("contact_type = ?", string(*filter.ContactType))
	}
	if filter.IsFavourite != nil {
		db = db.Where("is_favourite = ?", *filter.IsFavourite)
	}
	if filter.PhoneNumber != nil {
		db = db.Where("phone_number = ?", *filter.PhoneNumber)
	}
	if filter.Name != nil {
		db = db.Where("name ILIKE ?", "%"+escapeLike(*filter.Name)+"%")
	}

	return db
}

func (repo *contactRepository) FindByID(ctx context.Context, ownerID, id uuid.UUID) (*entity.Contact, error) {
	var contactM model.ContactModel
	err := repo.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&contactM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrContactNotFound
		}

		return nil, errors.Wrap(err, "failed to find contact")
	}

	return toContactDomain(&contactM), nil
}

func (repo *contactRepository) Create(ctx context.Context, contact *entity.Contact) error {
	contactM := fromContactDomain(contact)

	if err := repo.db.WithContext(ctx).Create(contactM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrUserNotFound
		}
		if isNotNullConstraintViolation(err) || isCheckConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("invalid contact data")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create contact")
	}

	*contact = *toContactDomain(contactM)

	return nil
}

func (repo *contactRepository) Update(ctx context.Context, ownerID, id uuid.UUID, patch repository.ContactPatch) (*entity.Contact, error) {
	updates := map[string]any{"updated_at": time.Now()}
	if patch.Name != nil {
		updates["name"] = *patch.Name
	}
	if patch.Email != nil {
		updates["email"] = *patch.Email
	}
	if patch.PhoneNumber != nil {
		updates["phone_number"] = *patch.PhoneNumber
	}
	if patch.IsFavourite != nil {
		updates["is_favourite"] = *patch.IsFavourite
	}
	if patch.ContactType != nil {
		updates["contact_type"] = string(*patch.ContactType)
	}
	if patch.Photo != nil {
		updates["photo"] = *patch.Photo
	}

	var contactM model.ContactModel
	result := repo.db.WithContext(ctx).
		Model(&contactM).
		Clauses(clause.Returning{}).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Updates(updates)
	if err := result.Error; err != nil {
		if isNotNullConstraintViolation(err) || isCheckConstraintViolation(err) {
			return nil, domainerrors.ErrValidationFailed.WrapMessage("invalid contact data")
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to update contact")
	}
	if result.RowsAffected == 0 {
		return nil, repository.ErrContactNotFound
	}

	return toContactDomain(&contactM), nil
}

func (repo *contactRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) (*entity.Contact, error) {
	var contactM model.ContactModel
	result := repo.db.WithContext(ctx).
		Clauses(clause.Returning{}).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&contactM)
	if result.Error != nil {
		return nil, domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete contact")
	}
	if result.RowsAffected == 0 {
		return nil, repository.ErrContactNotFound
	}

	return toContactDomain(&contactM), nil
}

// escapeLike neutralizes LIKE wildcards in user input.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func toContactDomain(data *model.ContactModel) *entity.Contact {
	return &entity.Contact{
		ID:          data.ID,
		OwnerID:     data.OwnerID,
		Name:        data.Name,
		Email:       data.Email,
		PhoneNumber: data.PhoneNumber,
		IsFavourite: data.IsFavourite,
		ContactType: entity.ContactType(data.ContactType),
		Photo:       data.Photo,
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
}

func fromContactDomain(data *entity.Contact) *model.ContactModel {
	contactType := data.ContactType
	if !contactType.IsValid() {
		contactType = entity.ContactTypePersonal
	}

	return &model.ContactModel{
		ID:          data.ID,
		OwnerID:     data.OwnerID,
		Name:        data.Name,
		Email:       data.Email,
		PhoneNumber: data.PhoneNumber,
		IsFavourite: data.IsFavourite,
		ContactType: string(contactType),
		Photo:       data.Photo,
	}
}
