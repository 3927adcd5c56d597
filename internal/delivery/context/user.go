package context

import (
	"context"

	"contacts/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	// KeyUser is the key for the authenticated user in echo.Context.
	KeyUser ContextKey = "user"

	// KeyUserID is the key for the authenticated user's ID.
	KeyUserID ContextKey = "user_id"
)

// SetUser stores the authenticated user on echo.Context and its ID on the request context.
func SetUser(c echo.Context, user *entity.User) {
	c.Set(string(KeyUser), user)
	c.Set(string(KeyUserID), user.ID)

	ctx := context.WithValue(c.Request().Context(), KeyUserID, user.ID)
	c.SetRequest(c.Request().WithContext(ctx))
}

// GetUser returns the authenticated user, or nil outside guarded routes.
func GetUser(c echo.Context) *entity.User {
	user, _ := c.Get(string(KeyUser)).(*entity.User)

	return user
}

// GetUserID returns the authenticated user's ID.
func GetUserID(c echo.Context) (uuid.UUID, bool) {
	id, ok := c.Get(string(KeyUserID)).(uuid.UUID)

	return id, ok
}

// GetUserIDFromContext extracts the authenticated user's ID from standard context.Context.
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(KeyUserID).(uuid.UUID)

	return id, ok
}
