package impl

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"contacts/internal/domain/entity"
	"contacts/internal/usecase"
)

const (
	defaultPage    = 1
	defaultPerPage = 10
	maxPerPage     = 100
	// maxPage keeps (page-1)*perPage well inside int and Postgres bigint.
	maxPage = math.MaxInt32
)

var phoneNumberPattern = regexp.MustCompile(`^\+?\d{10,15}$`)

var contactSortFields = map[string]entity.ContactSortField{
	"id":          entity.ContactSortID,
	"_id":         entity.ContactSortID,
	"name":        entity.ContactSortName,
	"phoneNumber": entity.ContactSortPhoneNumber,
	"email":       entity.ContactSortEmail,
	"isFavourite": entity.ContactSortIsFavourite,
	"contactType": entity.ContactSortContactType,
	"createdAt":   entity.ContactSortCreatedAt,
	"updatedAt":   entity.ContactSortUpdatedAt,
}

// buildContactQuery turns raw query strings into a listing query. Invalid values fall back to defaults
// and invalid filters are dropped.
func buildContactQuery(input *usecase.ListContactsInput) entity.ContactQuery {
	if input == nil {
		input = &usecase.ListContactsInput{}
	}

	query := entity.ContactQuery{
		Page:      parsePositiveInt(input.Page, defaultPage),
		PerPage:   parsePositiveInt(input.PerPage, defaultPerPage),
		SortBy:    entity.ContactSortID,
		SortOrder: entity.SortAsc,
	}
	if query.PerPage > maxPerPage {
		query.PerPage = maxPerPage
	}
	if query.Page > maxPage {
		query.Page = maxPage
	}

	if field, ok := contactSortFields[strings.TrimSpace(input.SortBy)]; ok {
		query.SortBy = field
	}
	if strings.EqualFold(strings.TrimSpace(input.SortOrder), string(entity.SortDesc)) {
		query.SortOrder = entity.SortDesc
	}

	query.Filter = buildContactFilter(input)

	return query
}

func buildContactFilter(input *usecase.ListContactsInput) entity.ContactFilter {
	var filter entity.ContactFilter

	if contactType := entity.ContactType(strings.TrimSpace(input.ContactType)); contactType.IsValid() {
		filter.ContactType = &contactType
	}

	switch strings.TrimSpace(input.IsFavourite) {
	case "true":
		favourite := true
		filter.IsFavourite = &favourite
	case "false":
		favourite := false
		filter.IsFavourite = &favourite
	}

	if phone := strings.TrimSpace(input.PhoneNumber); phoneNumberPattern.MatchString(phone) {
		filter.PhoneNumber = &phone
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		filter.Name = &name
	}

	return filter
}

func parsePositiveInt(raw string, fallback int) int {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || value < 1 {
		return fallback
	}

	return value
}
