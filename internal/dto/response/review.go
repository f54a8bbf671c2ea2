package response

import (
	"time"

	"smart-parking/internal/data/entity"
)

type ReviewResponse struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	ParkingLotID string    `json:"parking_lot_id"`
	Rating       int       `json:"rating"`
	HasLighting  bool      `json:"has_lighting"`
	HasSecurity  bool      `json:"has_security"`
	Comment      *string   `json:"comment,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func ReviewToResponse(review *entity.SafetyReview) ReviewResponse {
	return ReviewResponse{
		ID:           review.ID.String(),
		UserID:       review.UserID.String(),
		ParkingLotID: review.ParkingLotID.String(),
		Rating:       review.Rating,
		HasLighting:  review.HasLighting,
		HasSecurity:  review.HasSecurity,
		Comment:      review.Comment,
		CreatedAt:    review.CreatedAt,
	}
}
