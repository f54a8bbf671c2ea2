package entity

import (
	"time"

	"github.com/google/uuid"
)

type SlotStatus string

const (
	SlotStatusAvailable   SlotStatus = "available"
	SlotStatusReserved    SlotStatus = "reserved"
	SlotStatusOccupied    SlotStatus = "occupied"
	SlotStatusMaintenance SlotStatus = "maintenance"
)

func (s SlotStatus) Valid() bool {
	switch s {
	case SlotStatusAvailable, SlotStatusReserved, SlotStatusOccupied, SlotStatusMaintenance:
		return true
	}
	return false
}

type ParkingSlot struct {
	Base
	ParkingLotID     uuid.UUID  `db:"parking_lot_id"`
	SlotNumber       string     `db:"slot_number"` // A1, B3, etc.
	Status           SlotStatus `db:"status"`
	IsDisabledAccess bool       `db:"is_disabled_access"`
	IsEvCharging     bool       `db:"is_ev_charging"`
	LastDetectedAt   *time.Time `db:"last_detected_at"`
}
