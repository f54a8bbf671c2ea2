package response

import (
	"time"

	"smart-parking/internal/data/entity"
)

type LotResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Address        string    `json:"address"`
	City           string    `json:"city"`
	Latitude       float64   `json:"latitude"`
	Longitude      float64   `json:"longitude"`
	PricePerHour   float64   `json:"price_per_hour"`
	Description    *string   `json:"description,omitempty"`
	CameraURL      *string   `json:"camera_url,omitempty"`
	ImageURL       *string   `json:"image_url,omitempty"`
	TotalSlots     int       `json:"total_slots"`
	AvailableSlots int       `json:"available_slots"`
	IsActive       bool      `json:"is_active"`
	OwnerID        *string   `json:"owner_id,omitempty"`
	SafetyRating   float64   `json:"safety_rating"`
	TotalReviews   int       `json:"total_reviews"`
	CreatedAt      time.Time `json:"created_at"`
}

func LotToResponse(lot *entity.ParkingLot) LotResponse {
	resp := LotResponse{
		ID:             lot.ID.String(),
		Name:           lot.Name,
		Address:        lot.Address,
		City:           lot.City,
		Latitude:       lot.Latitude,
		Longitude:      lot.Longitude,
		PricePerHour:   lot.PricePerHour,
		Description:    lot.Description,
		CameraURL:      lot.CameraURL,
		ImageURL:       lot.ImageURL,
		TotalSlots:     lot.TotalSlots,
		AvailableSlots: lot.AvailableSlots,
		IsActive:       lot.IsActive,
		SafetyRating:   lot.SafetyRating,
		TotalReviews:   lot.TotalReviews,
		CreatedAt:      lot.CreatedAt,
	}

	if lot.OwnerID != nil {
		ownerID := lot.OwnerID.String()
		resp.OwnerID = &ownerID
	}

	return resp
}
