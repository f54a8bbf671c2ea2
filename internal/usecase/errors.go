package usecase

import "errors"

// Sentinel errors returned by services. Handlers classify them with
// errors.Is and translate to HTTP status codes.
var (
	ErrNotFound          = errors.New("not found")
	ErrValidation        = errors.New("validation failed")
	ErrInvalidTransition = errors.New("invalid state transition")
	ErrSlotUnavailable   = errors.New("slot is not available")
	ErrSlotConflict      = errors.New("slot is already booked for this time")
	ErrPaymentRequired   = errors.New("payment required")
	ErrPermission        = errors.New("not enough permissions")
	ErrInactiveResource  = errors.New("resource is not active")
)
