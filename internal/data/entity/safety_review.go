package entity

import (
	"github.com/google/uuid"
)

type SafetyReview struct {
	BaseSimple
	UserID       uuid.UUID `db:"user_id"`
	ParkingLotID uuid.UUID `db:"parking_lot_id"`
	Rating       int       `db:"rating"` // 1-5
	HasLighting  bool      `db:"has_lighting"`
	HasSecurity  bool      `db:"has_security"`
	Comment      *string   `db:"comment"`
}
