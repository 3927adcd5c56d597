package handler

import (
	"net/http"

	"contacts/internal/delivery/api/response"
	"contacts/internal/usecase"

	"github.com/labstack/echo/v4"
)

// HealthHandler serves liveness and the welcome route.
type HealthHandler struct {
	uc usecase.HealthUsecase
}

// NewHealthHandler is the constructor for HealthHandler, injected by Fx.
func NewHealthHandler(uc usecase.HealthUsecase) *HealthHandler {
	return &HealthHandler{uc: uc}
}

// Health reports process uptime and database reachability.
func (h *HealthHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, h.uc.Check(c.Request().Context()))
}

// Welcome greets callers of the API root.
func (h *HealthHandler) Welcome(c echo.Context) error {
	return response.Success(c, http.StatusOK, nil, "Welcome to the contacts API!")
}
