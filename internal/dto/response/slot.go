package response

import (
	"time"

	"smart-parking/internal/data/entity"
)

type SlotResponse struct {
	ID               string            `json:"id"`
	ParkingLotID     string            `json:"parking_lot_id"`
	SlotNumber       string            `json:"slot_number"`
	Status           entity.SlotStatus `json:"status"`
	IsDisabledAccess bool              `json:"is_disabled_access"`
	IsEvCharging     bool              `json:"is_ev_charging"`
	LastDetectedAt   *time.Time        `json:"last_detected_at,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
}

func SlotToResponse(slot *entity.ParkingSlot) SlotResponse {
	return SlotResponse{
		ID:               slot.ID.String(),
		ParkingLotID:     slot.ParkingLotID.String(),
		SlotNumber:       slot.SlotNumber,
		Status:           slot.Status,
		IsDisabledAccess: slot.IsDisabledAccess,
		IsEvCharging:     slot.IsEvCharging,
		LastDetectedAt:   slot.LastDetectedAt,
		CreatedAt:        slot.CreatedAt,
	}
}
