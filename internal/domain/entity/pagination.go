package entity

import "math"

// SortOrder is the direction of a contact listing.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ContactSortField is a whitelisted column a contact listing can be ordered by.
type ContactSortField string

const (
	ContactSortID          ContactSortField = "id"
	ContactSortName        ContactSortField = "name"
	ContactSortPhoneNumber ContactSortField = "phoneNumber"
	ContactSortEmail       ContactSortField = "email"
	ContactSortIsFavourite ContactSortField = "isFavourite"
	ContactSortContactType ContactSortField = "contactType"
	ContactSortCreatedAt   ContactSortField = "createdAt"
	ContactSortUpdatedAt   ContactSortField = "updatedAt"
)

// ContactFilter narrows a listing. Nil fields are not applied.
type ContactFilter struct {
	ContactType *ContactType
	IsFavourite *bool
	PhoneNumber *string
	Name        *string
}

// ContactQuery is a fully normalized listing request for one owner.
type ContactQuery struct {
	Page      int
	PerPage   int
	SortBy    ContactSortField
	SortOrder SortOrder
	Filter    ContactFilter
}

// Offset returns the number of rows to skip for the requested page. It saturates at
// math.MaxInt instead of overflowing.
func (q ContactQuery) Offset() int {
	if q.Page <= 1 || q.PerPage <= 0 {
		return 0
	}
	if q.Page-1 > math.MaxInt/q.PerPage {
		return math.MaxInt
	}

	return (q.Page - 1) * q.PerPage
}

// ContactPage is one page of contacts plus the pagination envelope.
type ContactPage struct {
	Data            []*Contact `json:"data"`
	Page            int        `json:"page"`
	PerPage         int        `json:"perPage"`
	TotalItems      int64      `json:"totalItems"`
	TotalPages      int        `json:"totalPages"`
	HasPreviousPage bool       `json:"hasPreviousPage"`
	HasNextPage     bool       `json:"hasNextPage"`
}

// NewContactPage computes the pagination envelope for a page of results.
func NewContactPage(items []*Contact, page, perPage int, total int64) *ContactPage {
	totalPages := 0
	if perPage > 0 {
		totalPages = int((total + int64(perPage) - 1) / int64(perPage))
	}

	if items == nil {
		items = []*Contact{}
	}

	return &ContactPage{
		Data:            items,
		Page:            page,
		PerPage:         perPage,
		TotalItems:      total,
		TotalPages:      totalPages,
		HasPreviousPage: page != 1,
		HasNextPage:     page < totalPages,
	}
}
