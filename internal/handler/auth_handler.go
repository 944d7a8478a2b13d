package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"rentals/internal/auth"
	"rentals/internal/errors"
	"rentals/internal/service"
)

// AuthHandler handles session endpoints.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// LoginRequest represents a user login request.
// Email is not format-checked: any unmatched address is just a failed login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// SessionResponse is returned after a successful login or registration.
type SessionResponse struct {
	Token string `json:"token"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func newSessionResponse(s *service.Session) SessionResponse {
	return SessionResponse{Token: s.Token, Email: s.User.Email, Name: s.User.Name}
}

// Login godoc
// @Summary Log in
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} SessionResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 429 {object} map[string]string
// @Failure 500 {object} errors.ErrorResponse
// @Router /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(err)
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(err)
	}

	session, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, newSessionResponse(session))
}

// Logout godoc
// @Summary Revoke the current session token
// @Tags auth
// @Security BearerAuth
// @Success 204
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	identity, ok := auth.IdentityFrom(c)
	if !ok {
		return mapError(errors.ErrUnauthorized)
	}
	if err := h.authService.Logout(c.Request().Context(), identity); err != nil {
		return mapError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
