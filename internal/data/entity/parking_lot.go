package entity

import "github.com/google/uuid"

type ParkingLot struct {
	Base
	Name         string  `db:"name"`
	Address      string  `db:"address"`
	City         string  `db:"city"`
	Latitude     float64 `db:"latitude"`
	Longitude    float64 `db:"longitude"`
	PricePerHour float64 `db:"price_per_hour"`
	Description  *string `db:"description"`
	CameraURL    *string `db:"camera_url"`
	ImageURL     *string `db:"image_url"`

	// Derived from per-slot statuses; only the slot registry writes these.
	TotalSlots     int `db:"total_slots"`
	AvailableSlots int `db:"available_slots"`

	IsActive     bool       `db:"is_active"`
	OwnerID      *uuid.UUID `db:"owner_id"`
	SafetyRating float64    `db:"safety_rating"`
	TotalReviews int        `db:"total_reviews"`
}
