package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	"rentals/internal/auth"
	"rentals/internal/config"
	"rentals/internal/handler"
	"rentals/internal/logging"
	"rentals/internal/metrics"
)

// createPlaceBodyLimit leaves room for five 25 MiB images plus form fields.
const createPlaceBodyLimit = "130M"

// Handlers groups the HTTP handlers served by the router.
type Handlers struct {
	Auth  *handler.AuthHandler
	User  *handler.UserHandler
	Place *handler.PlaceHandler
}

// Register wires routes and middleware.
func Register(e *echo.Echo, cfg *config.Config, log logrus.FieldLogger, guard *auth.Guard, h Handlers) {
	e.Use(middleware.RequestID())
	e.Use(logging.RequestLogger(log))
	e.Use(middleware.Recover())
	e.Use(metrics.Middleware())

	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", metrics.Handler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	requireAuth := guard.Middleware()
	limitAuth := authRateLimiter(cfg.AuthRateLimit)

	// Session routes
	e.POST("/login", h.Auth.Login, limitAuth...)
	e.POST("/logout", h.Auth.Logout, requireAuth)

	// User routes
	e.GET("/users", h.User.ListUsers)
	e.POST("/users", h.User.Register, limitAuth...)
	e.GET("/users/token", h.User.Token, requireAuth)

	// Place routes
	e.GET("/places", h.Place.ListPlaces)
	e.GET("/places/:id", h.Place.GetPlace)
	e.POST("/places", h.Place.CreatePlace, middleware.BodyLimit(createPlaceBodyLimit), requireAuth)
	e.PUT("/places/:id", h.Place.UpdatePlace, requireAuth)
	e.DELETE("/places/:id", h.Place.DeletePlace, requireAuth)
}

// authRateLimiter throttles credential endpoints per client IP. A non-positive
// limit disables throttling.
func authRateLimiter(perSecond int) []echo.MiddlewareFunc {
	if perSecond <= 0 {
		return nil
	}
	store := middleware.NewRateLimiterMemoryStore(rate.Limit(perSecond))
	return []echo.MiddlewareFunc{middleware.RateLimiter(store)}
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
