package auth

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"rentals/internal/errors"
)

const identityContextKey = "identity"

// Identity is the caller resolved from a valid session token.
type Identity struct {
	UserID    uuid.UUID
	Email     string
	TokenID   string
	ExpiresAt time.Time
	Token     string
}

// Guard resolves bearer tokens into identities.
type Guard struct {
	jwtService *JWTService
	tokenStore TokenStoreInterface
}

// NewGuard creates a new access guard.
func NewGuard(jwtService *JWTService, tokenStore TokenStoreInterface) *Guard {
	return &Guard{jwtService: jwtService, tokenStore: tokenStore}
}

// Resolve verifies a raw token and returns the identity it carries.
// Every failure collapses into errors.ErrUnauthorized.
func (g *Guard) Resolve(ctx context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, errors.ErrUnauthorized
	}
	claims, err := g.jwtService.ValidateToken(token)
	if err != nil {
		return nil, errors.ErrUnauthorized
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, errors.ErrUnauthorized
	}
	if g.tokenStore != nil && g.tokenStore.IsRevoked(ctx, claims.ID) {
		return nil, errors.ErrUnauthorized
	}
	return &Identity{
		UserID:    userID,
		Email:     claims.Email,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
		Token:     token,
	}, nil
}

// Middleware rejects requests without a valid "Bearer <token>" Authorization header
// (scheme matched case-insensitively) and stores the Identity for handlers.
func (g *Guard) Middleware() echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  identityContextKey,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			return g.Resolve(c.Request().Context(), token)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
				Error: errors.ErrUnauthorized.Error(),
				Code:  "UNAUTHORIZED",
			})
		},
	})
}

// IdentityFrom returns the identity stored by Middleware.
func IdentityFrom(c echo.Context) (*Identity, bool) {
	id, ok := c.Get(identityContextKey).(*Identity)
	return id, ok && id != nil
}
