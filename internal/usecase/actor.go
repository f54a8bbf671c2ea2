package usecase

import (
	"smart-parking/internal/data/entity"

	"github.com/google/uuid"
)

// Actor is the already-authenticated caller of a service operation. The auth
// middleware resolves it; services only check capabilities here instead of
// scattering role comparisons.
type Actor struct {
	ID   uuid.UUID
	Role entity.UserRole
}

func (a Actor) IsAdmin() bool {
	return a.Role == entity.RoleAdmin
}

// CanManageLot allows admins and the owning parking_owner.
func (a Actor) CanManageLot(lot *entity.ParkingLot) bool {
	if a.IsAdmin() {
		return true
	}
	return lot.OwnerID != nil && *lot.OwnerID == a.ID
}

// CanManageBooking allows admins and the renter.
func (a Actor) CanManageBooking(booking *entity.Booking) bool {
	return a.IsAdmin() || booking.UserID == a.ID
}

// IsRenter reports whether the actor is the booking's renter. Confirm and
// start are renter-only; even admins cannot act on someone else's arrival.
func (a Actor) IsRenter(booking *entity.Booking) bool {
	return booking.UserID == a.ID
}
