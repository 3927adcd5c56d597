// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"contacts/config"
	"contacts/internal/delivery/api/middleware"
	"contacts/internal/delivery/api/router/handler"
	"contacts/internal/infra/metrics"
	"contacts/internal/infra/storage"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler    *handler.AuthHandler
	ContactHandler *handler.ContactHandler
	HealthHandler  *handler.HealthHandler
	AuthMiddleware *middleware.AuthMiddleware
	Metrics        *metrics.Metrics
	Config         *config.Config
}

// router holds all the handlers that need to be registered.
type router struct {
	authHandler    *handler.AuthHandler
	contactHandler *handler.ContactHandler
	healthHandler  *handler.HealthHandler
	authMiddleware *middleware.AuthMiddleware
	metrics        *metrics.Metrics
	config         *config.Config
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		authHandler:    params.AuthHandler,
		contactHandler: params.ContactHandler,
		healthHandler:  params.HealthHandler,
		authMiddleware: params.AuthMiddleware,
		metrics:        params.Metrics,
		config:         params.Config,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.GET("/", r.healthHandler.Welcome)
	e.GET("/health", r.healthHandler.Health)

	// Auth routes
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/register", r.authHandler.Register)
		authGroup.POST("/login", r.authHandler.Login)
		authGroup.POST("/refresh", r.authHandler.Refresh)
		authGroup.POST("/logout", r.authHandler.Logout)
		authGroup.POST("/forgot-password", r.authHandler.ForgotPassword)
		authGroup.POST("/reset-password", r.authHandler.ResetPassword)
		authGroup.GET("/google", r.authHandler.GoogleURL)
		authGroup.POST("/google/callback", r.authHandler.GoogleCallback)

		authGroup.GET("/current", r.authHandler.Current, r.authMiddleware.Authenticate)
		authGroup.PATCH("/profile", r.authHandler.UpdateProfile, r.authMiddleware.Authenticate)
		authGroup.PATCH("/avatar", r.authHandler.UpdateAvatar, r.authMiddleware.Authenticate)
	}

	// Contact routes, all scoped to the authenticated owner
	contactsGroup := e.Group("/contacts")
	contactsGroup.Use(r.authMiddleware.Authenticate)
	{
		contactsGroup.GET("", r.contactHandler.List)
		contactsGroup.POST("", r.contactHandler.Create)
		contactsGroup.GET("/:contactId", r.contactHandler.Get)
		contactsGroup.PATCH("/:contactId", r.contactHandler.Update)
		contactsGroup.DELETE("/:contactId", r.contactHandler.Delete)
	}
}

// RegisterInfraRoutes exposes metrics and, for the local driver, the upload directory.
func (r *router) RegisterInfraRoutes(e *echo.Echo) {
	if r.config.Metrics != nil && r.config.Metrics.Enabled {
		e.GET(r.config.Metrics.Path, echo.WrapHandler(r.metrics.Handler()))
	}

	if r.config.Storage != nil && r.config.Storage.Driver != config.StorageDriverS3 {
		e.Static(storage.LocalURLPrefix, r.config.Storage.Local.Dir)
	}
}
