package response

import (
	"time"

	"smart-parking/internal/data/entity"
)

type BookingResponse struct {
	ID              string               `json:"id"`
	BookingCode     string               `json:"booking_code"`
	UserID          string               `json:"user_id"`
	ParkingLotID    string               `json:"parking_lot_id"`
	LotName         string               `json:"lot_name,omitempty"`
	SlotID          *string              `json:"slot_id,omitempty"`
	SlotNumber      string               `json:"slot_number,omitempty"`
	Status          entity.BookingStatus `json:"status"`
	StartTime       time.Time            `json:"start_time"`
	EndTime         time.Time            `json:"end_time"`
	ActualStartTime *time.Time           `json:"actual_start_time,omitempty"`
	ActualEndTime   *time.Time           `json:"actual_end_time,omitempty"`
	PricePerHour    float64              `json:"price_per_hour"`
	TotalPrice      float64              `json:"total_price"`
	PaymentStatus   entity.PaymentStatus `json:"payment_status"`
	VehicleNumber   *string              `json:"vehicle_number,omitempty"`
	Notes           *string              `json:"notes,omitempty"`
	CreatedAt       time.Time            `json:"created_at"`
}

func BookingToResponse(booking *entity.Booking) BookingResponse {
	resp := BookingResponse{
		ID:              booking.ID.String(),
		BookingCode:     booking.BookingCode,
		UserID:          booking.UserID.String(),
		ParkingLotID:    booking.ParkingLotID.String(),
		Status:          booking.Status,
		StartTime:       booking.StartTime,
		EndTime:         booking.EndTime,
		ActualStartTime: booking.ActualStartTime,
		ActualEndTime:   booking.ActualEndTime,
		PricePerHour:    booking.PricePerHour,
		TotalPrice:      booking.TotalPrice,
		PaymentStatus:   booking.PaymentStatus,
		VehicleNumber:   booking.VehicleNumber,
		Notes:           booking.Notes,
		CreatedAt:       booking.CreatedAt,
	}

	if booking.SlotID != nil {
		slotID := booking.SlotID.String()
		resp.SlotID = &slotID
	}

	return resp
}
