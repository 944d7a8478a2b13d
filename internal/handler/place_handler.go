package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"rentals/internal/auth"
	"rentals/internal/errors"
	"rentals/internal/media"
	"rentals/internal/service"
)

// ImageFormField is the multipart field carrying listing images.
const ImageFormField = "rentalPlaceImage"

// PlaceHandler handles listing endpoints.
type PlaceHandler struct {
	placeService service.PlaceService
}

// NewPlaceHandler creates a new place handler.
func NewPlaceHandler(placeService service.PlaceService) *PlaceHandler {
	return &PlaceHandler{placeService: placeService}
}

// CreatePlaceRequest holds the form fields of a new listing.
type CreatePlaceRequest struct {
	Title         string `form:"title" validate:"max=200"`
	StreetAddress string `form:"streetAddress" validate:"max=200"`
	PostCode      string `form:"postCode" validate:"max=20"`
	City          string `form:"city" validate:"max=100"`
	Rent          string `form:"rent" validate:"max=50"`
	Description   string `form:"description" validate:"max=5000"`
	Latitude      string `form:"latitude" validate:"omitempty,latitude"`
	Longitude     string `form:"longitude" validate:"omitempty,longitude"`
}

// UpdatePlaceRequest replaces the mutable fields of a listing.
type UpdatePlaceRequest struct {
	Title         string `json:"title" validate:"max=200"`
	City          string `json:"city" validate:"max=100"`
	StreetAddress string `json:"streetAddress" validate:"max=200"`
	Rent          string `json:"rent" validate:"max=50"`
}

// ListPlaces godoc
// @Summary List places
// @Tags places
// @Produce json
// @Success 200 {array} model.Place
// @Failure 500 {object} errors.ErrorResponse
// @Router /places [get]
func (h *PlaceHandler) ListPlaces(c echo.Context) error {
	places, err := h.placeService.List(c.Request().Context())
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, places)
}

// GetPlace godoc
// @Summary Get place by id
// @Tags places
// @Produce json
// @Param id path string true "Place ID"
// @Success 200 {object} model.Place
// @Failure 404
// @Failure 500 {object} errors.ErrorResponse
// @Router /places/{id} [get]
func (h *PlaceHandler) GetPlace(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.NoContent(http.StatusNotFound)
	}
	place, err := h.placeService.Get(c.Request().Context(), id)
	if isNotFound(err) {
		return c.NoContent(http.StatusNotFound)
	}
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, place)
}

// CreatePlace godoc
// @Summary Create a place with up to five JPEG images
// @Tags places
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param title formData string false "Title"
// @Param streetAddress formData string false "Street address"
// @Param postCode formData string false "Post code"
// @Param city formData string false "City"
// @Param rent formData string false "Rent"
// @Param description formData string false "Description"
// @Param latitude formData string false "Latitude"
// @Param longitude formData string false "Longitude"
// @Param rentalPlaceImage formData file false "JPEG image, repeat up to five times"
// @Success 201 {object} model.Place
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /places [post]
func (h *PlaceHandler) CreatePlace(c echo.Context) error {
	identity, ok := auth.IdentityFrom(c)
	if !ok {
		return mapError(errors.ErrUnauthorized)
	}

	var req CreatePlaceRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(err)
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(err)
	}

	var payloads []media.Payload
	if form, err := c.MultipartForm(); err == nil {
		payloads, err = media.FromMultipart(form.File[ImageFormField])
		if err != nil {
			return mapError(err)
		}
	}

	place, err := h.placeService.Create(c.Request().Context(), identity, service.PlaceDetails{
		Title:         req.Title,
		StreetAddress: req.StreetAddress,
		PostCode:      req.PostCode,
		City:          req.City,
		Rent:          req.Rent,
		Description:   req.Description,
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
	}, payloads)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusCreated, place)
}

// UpdatePlace godoc
// @Summary Replace the descriptive fields of a place
// @Tags places
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Place ID"
// @Param request body UpdatePlaceRequest true "New values"
// @Success 200 {object} model.Place
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /places/{id} [put]
func (h *PlaceHandler) UpdatePlace(c echo.Context) error {
	identity, ok := auth.IdentityFrom(c)
	if !ok {
		return mapError(errors.ErrUnauthorized)
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return mapError(errors.ErrPlaceNotFound)
	}

	var req UpdatePlaceRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(err)
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(err)
	}

	place, err := h.placeService.Update(c.Request().Context(), identity, id, service.PlaceUpdate{
		Title:         req.Title,
		City:          req.City,
		StreetAddress: req.StreetAddress,
		Rent:          req.Rent,
	})
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, place)
}

// DeletePlace godoc
// @Summary Delete a place
// @Tags places
// @Security BearerAuth
// @Param id path string true "Place ID"
// @Success 204
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /places/{id} [delete]
func (h *PlaceHandler) DeletePlace(c echo.Context) error {
	identity, ok := auth.IdentityFrom(c)
	if !ok {
		return mapError(errors.ErrUnauthorized)
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.NoContent(http.StatusNoContent)
	}
	if err := h.placeService.Delete(c.Request().Context(), identity, id); err != nil {
		return mapError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
