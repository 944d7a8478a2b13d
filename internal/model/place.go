package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Location holds string-encoded coordinates of a place.
type Location struct {
	Latitude  string `json:"latitude" gorm:"size:32"`
	Longitude string `json:"longitude" gorm:"size:32"`
}

// Place represents a rental listing owned by exactly one user.
type Place struct {
	ID            uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Title         string    `json:"title" gorm:"size:255"`
	StreetAddress string    `json:"streetAddress" gorm:"size:255"`
	PostCode      string    `json:"postCode" gorm:"size:32"`
	City          string    `json:"city" gorm:"size:128;index"`
	Rent          string    `json:"rent" gorm:"size:64"`
	Description   string    `json:"description" gorm:"type:text"`
	Date          time.Time `json:"date" gorm:"not null;index"`
	Location      Location  `json:"location" gorm:"embedded;embeddedPrefix:location_"`
	UserID        uuid.UUID `json:"userId" gorm:"type:char(36);not null;index"`
	UpdatedAt     time.Time `json:"-"`

	// Relations
	Images []PlaceImage `json:"images" gorm:"foreignKey:PlaceID;constraint:OnDelete:CASCADE"`
	User   *User        `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// BeforeCreate sets UUID before creating the record.
func (p *Place) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// PlaceImage is a durable URL of an image attached to a place.
type PlaceImage struct {
	ID         uuid.UUID `json:"-" gorm:"type:char(36);primaryKey"`
	PlaceID    uuid.UUID `json:"-" gorm:"type:char(36);not null;index"`
	Position   int       `json:"-" gorm:"not null"`
	StorageKey string    `json:"-" gorm:"size:512;not null"`
	ImageURL   string    `json:"imageUrl" gorm:"size:1024;not null"`
}

// BeforeCreate sets UUID before creating the record.
func (i *PlaceImage) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
