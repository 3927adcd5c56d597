// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"

	"contacts/config"
	"contacts/internal/delivery/api/middleware"
	"contacts/internal/delivery/api/response"
	domainerrors "contacts/internal/domain/errors"
	"contacts/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

type registerRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,maxbytes=72"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type updateProfileRequest struct {
	Name            *string `json:"name" validate:"omitempty,min=1,max=100"`
	Email           *string `json:"email" validate:"omitempty,email,max=255"`
	CurrentPassword *string `json:"currentPassword"`
	NewPassword     *string `json:"newPassword" validate:"omitempty,min=6,maxbytes=72"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type resetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=6,maxbytes=72"`
}

type googleCallbackRequest struct {
	Code  string `json:"code" validate:"required"`
	State string `json:"state" validate:"required"`
}

type accessTokenResponse struct {
	AccessToken string `json:"accessToken"`
}

// AuthHandler holds dependencies for account and session handlers.
type AuthHandler struct {
	authUC       usecase.AuthUsecase
	passwordUC   usecase.PasswordUsecase
	secureCookie bool
	logger       *slog.Logger
}

// AuthHandlerParams holds dependencies for AuthHandler, injected by Fx.
type AuthHandlerParams struct {
	fx.In

	AuthUC     usecase.AuthUsecase
	PasswordUC usecase.PasswordUsecase
	Config     *config.Config
	Logger     *slog.Logger
}

// NewAuthHandler is the constructor for AuthHandler, injected by Fx.
func NewAuthHandler(params AuthHandlerParams) *AuthHandler {
	return &AuthHandler{
		authUC:       params.AuthUC,
		passwordUC:   params.PasswordUC,
		secureCookie: params.Config.IsProduction(),
		logger:       params.Logger,
	}
}

// bindAndValidate decodes the request body into req and runs the struct validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return errors.WithStack(domainerrors.ErrValidationFailed.WithDetails("malformed request body"))
	}

	return c.Validate(req)
}

// Register handles the user registration request.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.authUC.Register(c.Request().Context(), &usecase.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, user.Profile(), "Successfully registered a user!")
}

// Login handles the user login request.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	out, err := h.authUC.Login(c.Request().Context(), &usecase.LoginInput{Email: req.Email, Password: req.Password})
	if err != nil {
		return errors.WithStack(err)
	}

	return h.sessionResponse(c, out, "Successfully logged in an user!")
}

// Refresh rotates the session behind the refresh token.
func (h *AuthHandler) Refresh(c echo.Context) error {
	out, err := h.authUC.Refresh(c.Request().Context(), refreshTokenFrom(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return h.sessionResponse(c, out, "Successfully refreshed a session!")
}

// Logout ends the current session, if any, and always clears the cookie.
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.authUC.Logout(c.Request().Context(), refreshTokenFrom(c)); err != nil {
		return errors.WithStack(err)
	}

	clearRefreshCookie(c, h.secureCookie)

	return response.NoContent(c)
}

// Current returns the authenticated user's profile.
func (h *AuthHandler) Current(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	user, err := h.authUC.Current(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, user.Profile(), "Successfully found the current user!")
}

// UpdateProfile changes the authenticated user's name, email or password.
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.authUC.UpdateProfile(c.Request().Context(), userID, &usecase.UpdateProfileInput{
		Name:            req.Name,
		Email:           req.Email,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, user.Profile(), "Successfully updated the profile!")
}

// UpdateAvatar stores the multipart "avatar" file as the user's avatar.
func (h *AuthHandler) UpdateAvatar(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	upload, closer, err := photoFromForm(c, "avatar")
	if err != nil {
		return err
	}
	defer closeQuietly(closer)
	if upload == nil {
		return errors.WithStack(domainerrors.ErrValidationFailed.WithDetails("avatar is required"))
	}

	user, err := h.authUC.UpdateAvatar(c.Request().Context(), userID, upload)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, user.Profile(), "Successfully updated the avatar!")
}

// ForgotPassword sends a reset link. The response does not reveal whether the email is registered.
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.passwordUC.RequestReset(c.Request().Context(), req.Email); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, struct{}{}, "If the email is registered, a reset link has been sent.")
}

// ResetPassword sets a new password from a reset token.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.passwordUC.ResetPassword(c.Request().Context(), req.Token, req.Password); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, struct{}{}, "Password has been successfully reset.")
}

// GoogleURL returns the Google consent screen URL.
func (h *AuthHandler) GoogleURL(c echo.Context) error {
	url, err := h.authUC.GoogleAuthURL(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"url": url}, "Successfully get Google OAuth url!")
}

// GoogleCallback signs in with a Google authorization code and the state issued by GoogleURL.
func (h *AuthHandler) GoogleCallback(c echo.Context) error {
	var req googleCallbackRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	out, err := h.authUC.GoogleLogin(c.Request().Context(), req.Code, req.State)
	if err != nil {
		return errors.WithStack(err)
	}

	return h.sessionResponse(c, out, "Successfully logged in via Google OAuth!")
}

func (h *AuthHandler) sessionResponse(c echo.Context, out *usecase.SessionOutput, message string) error {
	setRefreshCookie(c, out.RefreshToken, out.RefreshTokenValidUntil, h.secureCookie)

	return response.Success(c, http.StatusOK, accessTokenResponse{AccessToken: out.AccessToken}, message)
}
