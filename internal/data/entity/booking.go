package entity

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusActive    BookingStatus = "active"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusExpired   BookingStatus = "expired"
)

// Terminal reports whether no further transitions are allowed.
func (s BookingStatus) Terminal() bool {
	switch s {
	case BookingStatusCompleted, BookingStatusCancelled, BookingStatusExpired:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

type Booking struct {
	Base
	BookingCode  string        `db:"booking_code"`
	UserID       uuid.UUID     `db:"user_id"`
	ParkingLotID uuid.UUID     `db:"parking_lot_id"`
	SlotID       *uuid.UUID    `db:"slot_id"`
	Status       BookingStatus `db:"status"`

	// Requested window, half-open [StartTime, EndTime)
	StartTime       time.Time  `db:"start_time"`
	EndTime         time.Time  `db:"end_time"`
	ActualStartTime *time.Time `db:"actual_start_time"`
	ActualEndTime   *time.Time `db:"actual_end_time"`

	// PricePerHour is snapshotted at creation and never recomputed.
	PricePerHour  float64       `db:"price_per_hour"`
	TotalPrice    float64       `db:"total_price"`
	PaymentStatus PaymentStatus `db:"payment_status"`

	VehicleNumber *string `db:"vehicle_number"`
	Notes         *string `db:"notes"`
}
