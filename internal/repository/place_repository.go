package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"rentals/internal/model"
)

// PlaceRepository defines place persistence operations.
type PlaceRepository interface {
	List(ctx context.Context) ([]model.Place, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Place, error)
	CreateForOwner(ctx context.Context, place *model.Place) error
	CountByOwner(ctx context.Context, userID uuid.UUID) (int64, error)
	UpdateDetails(ctx context.Context, place *model.Place) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type placeRepository struct {
	db *gorm.DB
}

// NewPlaceRepository creates a new place repository.
func NewPlaceRepository(db *gorm.DB) PlaceRepository {
	return &placeRepository{db: db}
}

func withOwnerAndImages(db *gorm.DB) *gorm.DB {
	return db.
		Preload("User").
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") })
}

// List returns every place, newest first.
func (r *placeRepository) List(ctx context.Context) ([]model.Place, error) {
	var places []model.Place
	if err := withOwnerAndImages(r.db.WithContext(ctx)).Order("date DESC").Find(&places).Error; err != nil {
		return nil, err
	}
	return places, nil
}

// FindByID finds a place by ID with its owner and images.
func (r *placeRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Place, error) {
	var place model.Place
	if err := withOwnerAndImages(r.db.WithContext(ctx)).Where("id = ?", id).First(&place).Error; err != nil {
		return nil, err
	}
	return &place, nil
}

// CreateForOwner persists the place with its images and records it on the owner
// in one transaction. The owner row is locked so the owner cannot vanish mid-way;
// a missing owner yields gorm.ErrRecordNotFound and nothing is written.
func (r *placeRepository) CreateForOwner(ctx context.Context, place *model.Place) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var owner model.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", place.UserID).First(&owner).Error; err != nil {
			return err
		}
		if err := tx.Create(place).Error; err != nil {
			return err
		}
		return tx.Model(&model.User{}).
			Where("id = ?", owner.ID).
			Update("updated_at", time.Now().UTC()).Error
	})
}

// CountByOwner returns how many places userID owns.
func (r *placeRepository) CountByOwner(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Place{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// UpdateDetails overwrites the mutable descriptive fields, empty values included.
func (r *placeRepository) UpdateDetails(ctx context.Context, place *model.Place) error {
	return r.db.WithContext(ctx).Model(place).
		Select("Title", "City", "StreetAddress", "Rent").
		Updates(place).Error
}

// Delete removes a place and its images. Deleting a missing place is not an error.
func (r *placeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("place_id = ?", id).Delete(&model.PlaceImage{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&model.Place{}).Error
	})
}
