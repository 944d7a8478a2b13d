package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"rentals/internal/auth"
	"rentals/internal/cache"
	apperrors "rentals/internal/errors"
	"rentals/internal/media"
	"rentals/internal/model"
	"rentals/internal/repository"
)

const placeCacheTTL = 5 * time.Minute

// PlaceDetails are the descriptive fields supplied when a place is created.
type PlaceDetails struct {
	Title         string
	StreetAddress string
	PostCode      string
	City          string
	Rent          string
	Description   string
	Latitude      string
	Longitude     string
}

// PlaceUpdate replaces the mutable descriptive fields of a place.
type PlaceUpdate struct {
	Title         string
	City          string
	StreetAddress string
	Rent          string
}

// ImageSideloader uploads listing images and removes them again.
type ImageSideloader interface {
	Upload(ctx context.Context, payloads []media.Payload) ([]media.Object, error)
	Discard(ctx context.Context, keys []string)
}

// PlaceService handles the place listing lifecycle.
type PlaceService interface {
	List(ctx context.Context) ([]model.Place, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Place, error)
	Create(ctx context.Context, owner *auth.Identity, details PlaceDetails, images []media.Payload) (*model.Place, error)
	Update(ctx context.Context, caller *auth.Identity, id uuid.UUID, update PlaceUpdate) (*model.Place, error)
	Delete(ctx context.Context, caller *auth.Identity, id uuid.UUID) error
}

type placeService struct {
	placeRepo repository.PlaceRepository
	images    ImageSideloader
	cache     *cache.Client
	log       logrus.FieldLogger
	now       func() time.Time
}

// NewPlaceService creates a new place service. cache may be nil.
func NewPlaceService(placeRepo repository.PlaceRepository, images ImageSideloader, cache *cache.Client, log logrus.FieldLogger) PlaceService {
	return &placeService{
		placeRepo: placeRepo,
		images:    images,
		cache:     cache,
		log:       log,
		now:       time.Now,
	}
}

func (s *placeService) cacheKey(id uuid.UUID) string {
	return "place:" + id.String()
}

func (s *placeService) versionKey(id uuid.UUID) string {
	return "place_version:" + id.String()
}

func (s *placeService) invalidate(ctx context.Context, id uuid.UUID) {
	s.cache.Invalidate(ctx, s.cacheKey(id), s.versionKey(id))
}

func (s *placeService) List(ctx context.Context) ([]model.Place, error) {
	return s.placeRepo.List(ctx)
}

// Get retrieves a place by ID with caching.
func (s *placeService) Get(ctx context.Context, id uuid.UUID) (*model.Place, error) {
	var cached model.Place
	if s.cache.GetJSON(ctx, s.cacheKey(id), &cached) {
		return &cached, nil
	}

	// read the version before the row so a write landing in between blocks the fill
	version, versioned := s.cache.Version(ctx, s.versionKey(id))
	place, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if versioned {
		s.cache.SetJSONIfVersion(ctx, s.cacheKey(id), s.versionKey(id), version, place, placeCacheTTL)
	}
	return place, nil
}

// Create uploads the images, then persists the place on behalf of owner.
// Nothing is persisted unless every accepted image uploaded; uploaded images are
// removed again if persisting fails.
func (s *placeService) Create(ctx context.Context, owner *auth.Identity, details PlaceDetails, images []media.Payload) (*model.Place, error) {
	if owner == nil {
		return nil, apperrors.ErrUnauthorized
	}

	objects, err := s.images.Upload(ctx, images)
	if err != nil {
		return nil, fmt.Errorf("sideload images: %w", err)
	}

	place := &model.Place{
		Title:         details.Title,
		StreetAddress: details.StreetAddress,
		PostCode:      details.PostCode,
		City:          details.City,
		Rent:          details.Rent,
		Description:   details.Description,
		Date:          s.now().UTC(),
		Location: model.Location{
			Latitude:  details.Latitude,
			Longitude: details.Longitude,
		},
		UserID: owner.UserID,
		Images: make([]model.PlaceImage, 0, len(objects)),
	}
	for i, o := range objects {
		place.Images = append(place.Images, model.PlaceImage{
			Position:   i,
			StorageKey: o.Key,
			ImageURL:   o.URL,
		})
	}

	if err := s.placeRepo.CreateForOwner(ctx, place); err != nil {
		s.images.Discard(context.WithoutCancel(ctx), media.Keys(objects))
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// token outlived its user
			return nil, apperrors.ErrUnauthorized
		}
		return nil, fmt.Errorf("create place: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"place_id": place.ID,
		"user_id":  owner.UserID,
		"images":   len(place.Images),
	}).Info("place created")
	return place, nil
}

// Update replaces the descriptive fields of a place the caller owns.
func (s *placeService) Update(ctx context.Context, caller *auth.Identity, id uuid.UUID, update PlaceUpdate) (*model.Place, error) {
	place, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if caller == nil || place.UserID != caller.UserID {
		return nil, apperrors.ErrForbidden
	}

	place.Title = update.Title
	place.City = update.City
	place.StreetAddress = update.StreetAddress
	place.Rent = update.Rent
	if err := s.placeRepo.UpdateDetails(ctx, place); err != nil {
		return nil, fmt.Errorf("update place: %w", err)
	}

	s.invalidate(ctx, id)
	return place, nil
}

// Delete removes a place the caller owns. Deleting a missing place succeeds.
func (s *placeService) Delete(ctx context.Context, caller *auth.Identity, id uuid.UUID) error {
	place, err := s.find(ctx, id)
	if errors.Is(err, apperrors.ErrPlaceNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if caller == nil || place.UserID != caller.UserID {
		return apperrors.ErrForbidden
	}

	if err := s.placeRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete place: %w", err)
	}
	s.invalidate(ctx, id)

	keys := make([]string, 0, len(place.Images))
	for _, img := range place.Images {
		// seeded images reference external URLs
		if img.StorageKey != "" {
			keys = append(keys, img.StorageKey)
		}
	}
	s.images.Discard(context.WithoutCancel(ctx), keys)
	return nil
}

func (s *placeService) find(ctx context.Context, id uuid.UUID) (*model.Place, error) {
	place, err := s.placeRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPlaceNotFound
		}
		return nil, fmt.Errorf("find place: %w", err)
	}
	return place, nil
}
