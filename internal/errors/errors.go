package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrUnauthorized is returned when a bearer token is missing, invalid, expired or revoked.
	ErrUnauthorized = errors.New("token missing or invalid")
	// ErrInvalidCredentials is returned when email or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrDuplicateEmail is returned when registering an email that is already taken.
	ErrDuplicateEmail = errors.New("email must be unique")
	// ErrPlaceNotFound is returned when no place matches the given id.
	ErrPlaceNotFound = errors.New("place not found")
	// ErrForbidden is returned when the caller does not own the place.
	ErrForbidden = errors.New("place belongs to another user")
	// ErrTooManyImages is returned when a listing carries more images than allowed.
	ErrTooManyImages = errors.New("too many images")
	// ErrImageTooLarge is returned when a single image exceeds the size limit.
	ErrImageTooLarge = errors.New("image too large")
)

// UploadError wraps an object storage failure.
type UploadError struct {
	Key string
	Err error
}

func (e *UploadError) Error() string {
	return "upload " + e.Key + ": " + e.Err.Error()
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	var uploadErr *UploadError
	switch {
	case errors.Is(err, ErrUnauthorized):
		return NewHTTPError(http.StatusUnauthorized, ErrUnauthorized.Error(), "UNAUTHORIZED")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, ErrInvalidCredentials.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrDuplicateEmail):
		return NewHTTPError(http.StatusBadRequest, ErrDuplicateEmail.Error(), "DUPLICATE_EMAIL")
	case errors.Is(err, ErrPlaceNotFound):
		return NewHTTPError(http.StatusNotFound, ErrPlaceNotFound.Error(), "NOT_FOUND")
	case errors.Is(err, ErrForbidden):
		return NewHTTPError(http.StatusForbidden, ErrForbidden.Error(), "FORBIDDEN")
	case errors.Is(err, ErrTooManyImages):
		return NewHTTPError(http.StatusBadRequest, ErrTooManyImages.Error(), "TOO_MANY_IMAGES")
	case errors.Is(err, ErrImageTooLarge):
		return NewHTTPError(http.StatusBadRequest, ErrImageTooLarge.Error(), "IMAGE_TOO_LARGE")
	case errors.As(err, &uploadErr):
		return NewHTTPError(http.StatusInternalServerError, "image upload failed", "UPLOAD_FAILED")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
