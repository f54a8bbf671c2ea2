package request

import "time"

// SlotDetection is one slot's state as seen by the camera detector.
type SlotDetection struct {
	SlotNumber string  `json:"slot_number" validate:"required,max=10"`
	Status     string  `json:"status" validate:"required,oneof=available occupied"`
	Confidence float64 `json:"confidence" validate:"gte=0,lte=1"`
}

// OccupancyReport is the periodic report pushed by the detection service.
// Rejected wholesale on malformed input; never partially applied.
type OccupancyReport struct {
	ParkingLotID   string          `json:"parking_lot_id" validate:"required,uuid4"`
	TotalSlots     int             `json:"total_slots" validate:"gte=0"`
	AvailableSlots int             `json:"available_slots" validate:"gte=0"`
	OccupiedSlots  int             `json:"occupied_slots" validate:"gte=0"`
	CapturedAt     time.Time       `json:"captured_at" validate:"required"`
	Detections     []SlotDetection `json:"detections" validate:"dive"`
}
