package request

type CreateSlotRequest struct {
	ParkingLotID     string `json:"parking_lot_id" validate:"required,uuid4"`
	SlotNumber       string `json:"slot_number" validate:"required,max=10"`
	IsDisabledAccess bool   `json:"is_disabled_access"`
	IsEvCharging     bool   `json:"is_ev_charging"`
}

type UpdateSlotStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=available reserved occupied maintenance"`
}
