package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"rentals/internal/auth"
	"rentals/internal/errors"
	"rentals/internal/service"
)

// UserHandler handles user endpoints.
type UserHandler struct {
	authService service.AuthService
	userService service.UserService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(authService service.AuthService, userService service.UserService) *UserHandler {
	return &UserHandler{authService: authService, userService: userService}
}

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

// TokenResponse echoes the caller's bearer token.
type TokenResponse struct {
	Token string `json:"token"`
}

// Register godoc
// @Summary Register a new user
// @Tags users
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 201 {object} SessionResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 429 {object} map[string]string
// @Failure 500 {object} errors.ErrorResponse
// @Router /users [post]
func (h *UserHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(err)
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(err)
	}

	session, err := h.authService.Register(c.Request().Context(), req.Email, req.Name, req.Password)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusCreated, newSessionResponse(session))
}

// ListUsers godoc
// @Summary List users with their places
// @Tags users
// @Produce json
// @Success 200 {array} model.User
// @Failure 500 {object} errors.ErrorResponse
// @Router /users [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.userService.ListUsers(c.Request().Context())
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, users)
}

// Token godoc
// @Summary Echo the verified bearer token
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} TokenResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /users/token [get]
func (h *UserHandler) Token(c echo.Context) error {
	identity, ok := auth.IdentityFrom(c)
	if !ok {
		return mapError(errors.ErrUnauthorized)
	}
	return c.JSON(http.StatusOK, TokenResponse{Token: identity.Token})
}
