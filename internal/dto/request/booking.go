package request

import "time"

type CreateBookingRequest struct {
	ParkingLotID  string    `json:"parking_lot_id" validate:"required,uuid4"`
	SlotID        *string   `json:"slot_id,omitempty" validate:"omitempty,uuid4"`
	StartTime     time.Time `json:"start_time" validate:"required"`
	EndTime       time.Time `json:"end_time" validate:"required,gtfield=StartTime"`
	VehicleNumber *string   `json:"vehicle_number,omitempty" validate:"omitempty,max=20"`
	Notes         *string   `json:"notes,omitempty" validate:"omitempty,max=500"`
}
