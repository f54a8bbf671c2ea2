package events

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	BookingCreated    Type = "booking.created"
	BookingConfirmed  Type = "booking.confirmed"
	BookingStarted    Type = "booking.started"
	BookingEnded      Type = "booking.ended"
	BookingCancelled  Type = "booking.cancelled"
	BookingExpired    Type = "booking.expired"
	SlotStatusChanged Type = "slot.status_changed"
)

// Event is a domain notification emitted by the lifecycle engine and the slot
// registry. Transport to external consumers is up to the subscriber.
type Event struct {
	Type      Type      `json:"type"`
	BookingID uuid.UUID `json:"booking_id,omitempty"`
	SlotID    uuid.UUID `json:"slot_id,omitempty"`
	LotID     uuid.UUID `json:"lot_id,omitempty"`
	Status    string    `json:"status,omitempty"`
	At        time.Time `json:"at"`
}
