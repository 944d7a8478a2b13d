package handler

import (
	stderrors "errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"rentals/internal/errors"
)

// mapError converts a service error into an echo.HTTPError carrying an ErrorResponse.
// The original error is kept as the internal cause for the request logger.
func mapError(err error) error {
	httpErr := errors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse()).SetInternal(err)
}

func invalidBody(err error) error {
	return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
		Error: "invalid request body",
		Code:  "INVALID_REQUEST",
	}).SetInternal(err)
}

func validationFailed(err error) error {
	return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
		Error: err.Error(),
		Code:  "VALIDATION_FAILED",
	})
}

func isNotFound(err error) bool {
	return stderrors.Is(err, errors.ErrPlaceNotFound)
}
