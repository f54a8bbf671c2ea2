package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"smart-parking/internal/data/entity"
	"smart-parking/internal/data/repository"
	"smart-parking/internal/dto/request"
	"smart-parking/internal/dto/response"
	"smart-parking/internal/events"
	"smart-parking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BookingService is the lifecycle engine. It is the only writer of booking
// status and the only trigger of reservation-driven slot status changes.
//
// State machine (terminal: COMPLETED, CANCELLED, EXPIRED):
//
//	PENDING   --confirm(paid)--> CONFIRMED
//	PENDING   --cancel-->        CANCELLED
//	PENDING   --expire-->        EXPIRED
//	CONFIRMED --start-->         ACTIVE
//	CONFIRMED --cancel-->        CANCELLED
//	ACTIVE    --end-->           COMPLETED
//	ACTIVE    --cancel-->        CANCELLED
type BookingService interface {
	CreateBooking(ctx context.Context, actor Actor, req *request.CreateBookingRequest) (*response.BookingResponse, error)
	GetBooking(ctx context.Context, actor Actor, bookingID string) (*response.BookingResponse, error)
	ListUserBookings(ctx context.Context, actor Actor, statusFilter string, page *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)

	// MarkPaid is invoked by the payment collaborator once capture succeeds.
	MarkPaid(ctx context.Context, bookingID string) error

	Confirm(ctx context.Context, actor Actor, bookingID string) (*response.BookingResponse, error)
	Start(ctx context.Context, actor Actor, bookingID string) (*response.BookingResponse, error)
	End(ctx context.Context, actor Actor, bookingID string) (*response.BookingResponse, error)
	Cancel(ctx context.Context, actor Actor, bookingID string) error

	// ExpireStale sweeps PENDING bookings older than the expiry window.
	// Returns how many were expired.
	ExpireStale(ctx context.Context) (int, error)
}

type bookingService struct {
	repo   *repository.Repository
	config *utils.Config
	bus    events.Publisher
	log    *zap.Logger
	now    func() time.Time
}

func NewBookingService(repo *repository.Repository, config *utils.Config, bus events.Publisher, log *zap.Logger) BookingService {
	return &bookingService{
		repo:   repo,
		config: config,
		bus:    bus,
		log:    log.With(zap.String("service", "booking")),
		now:    time.Now,
	}
}

// withRetry retries the unit of work once on a storage conflict (lock
// timeout, deadlock, serialization failure) before surfacing the error.
func (s *bookingService) withRetry(ctx context.Context, fn func(r *repository.Repository) error) error {
	err := s.repo.Tx.WithinTx(ctx, fn)
	if errors.Is(err, repository.ErrTxConflict) {
		s.log.Warn("Transaction conflict, retrying once", zap.Error(err))
		err = s.repo.Tx.WithinTx(ctx, fn)
	}
	return err
}

func (s *bookingService) CreateBooking(ctx context.Context, actor Actor, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create booking validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}

	lotID, err := uuid.Parse(req.ParkingLotID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid parking lot ID %s", ErrValidation, req.ParkingLotID)
	}

	var slotID *uuid.UUID
	if req.SlotID != nil {
		id, err := uuid.Parse(*req.SlotID)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid slot ID %s", ErrValidation, *req.SlotID)
		}
		slotID = &id
	}

	if !req.EndTime.After(req.StartTime) {
		return nil, fmt.Errorf("%w: end time must be after start time", ErrValidation)
	}

	minDuration := time.Duration(s.config.Parking.MinBookingDurationMinutes) * time.Minute
	if req.EndTime.Sub(req.StartTime) < minDuration {
		return nil, fmt.Errorf("%w: minimum booking duration is %d minutes",
			ErrValidation, s.config.Parking.MinBookingDurationMinutes)
	}

	var booking *entity.Booking

	// Availability check, conflict check, booking insert and slot
	// reservation are one atomic unit; the slot row lock serializes
	// concurrent attempts on the same slot.
	err = s.withRetry(ctx, func(r *repository.Repository) error {
		lot, err := r.Lot.FindByID(ctx, lotID)
		if err != nil {
			return err
		}
		if lot == nil {
			return fmt.Errorf("parking lot %s: %w", req.ParkingLotID, ErrNotFound)
		}
		if !lot.IsActive {
			return fmt.Errorf("parking lot %s: %w", req.ParkingLotID, ErrInactiveResource)
		}

		var slot *entity.ParkingSlot
		if slotID != nil {
			slot, err = r.Slot.FindByIDForUpdate(ctx, *slotID)
			if err != nil {
				return err
			}
			if slot == nil {
				return fmt.Errorf("parking slot %s: %w", slotID.String(), ErrNotFound)
			}
			if slot.ParkingLotID != lot.ID {
				return fmt.Errorf("slot %s does not belong to lot %s: %w",
					slotID.String(), req.ParkingLotID, ErrNotFound)
			}

			conflict, err := r.Booking.FindConflicting(ctx, *slotID, req.StartTime, req.EndTime, nil)
			if err != nil {
				return err
			}
			if conflict != nil {
				return fmt.Errorf("slot %s from %s to %s: %w",
					slot.SlotNumber, req.StartTime.Format(time.RFC3339),
					req.EndTime.Format(time.RFC3339), ErrSlotConflict)
			}

			if slot.Status != entity.SlotStatusAvailable {
				return fmt.Errorf("slot %s is %s: %w", slot.SlotNumber, slot.Status, ErrSlotUnavailable)
			}
		}

		now := s.now()
		booking = &entity.Booking{
			Base: entity.Base{
				ID:        uuid.New(),
				CreatedAt: now,
				UpdatedAt: now,
			},
			BookingCode:   utils.GenerateBookingCode(),
			UserID:        actor.ID,
			ParkingLotID:  lot.ID,
			SlotID:        slotID,
			Status:        entity.BookingStatusPending,
			StartTime:     req.StartTime,
			EndTime:       req.EndTime,
			PricePerHour:  lot.PricePerHour,
			TotalPrice:    calcTotalPrice(lot.PricePerHour, req.StartTime, req.EndTime),
			PaymentStatus: entity.PaymentStatusPending,
			VehicleNumber: req.VehicleNumber,
			Notes:         req.Notes,
		}

		if err := r.Booking.Create(ctx, booking); err != nil {
			return err
		}

		if slot != nil {
			return applySlotStatus(ctx, r, slot, entity.SlotStatusReserved, now)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishTransition(events.BookingCreated, booking)

	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("booking_code", booking.BookingCode),
		zap.String("user_id", actor.ID.String()),
		zap.Float64("total_price", booking.TotalPrice),
	)

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) GetBooking(ctx context.Context, actor Actor, bookingID string) (*response.BookingResponse, error) {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid booking ID %s", ErrValidation, bookingID)
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, fmt.Errorf("booking %s: %w", bookingID, ErrNotFound)
	}

	if !actor.CanManageBooking(booking) {
		return nil, fmt.Errorf("view booking %s: %w", bookingID, ErrPermission)
	}

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) ListUserBookings(ctx context.Context, actor Actor, statusFilter string, page *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	var status *entity.BookingStatus
	if statusFilter != "" {
		st := entity.BookingStatus(statusFilter)
		switch st {
		case entity.BookingStatusPending, entity.BookingStatusConfirmed, entity.BookingStatusActive,
			entity.BookingStatusCompleted, entity.BookingStatusCancelled, entity.BookingStatusExpired:
			status = &st
		default:
			return nil, fmt.Errorf("%w: invalid status %s", ErrValidation, statusFilter)
		}
	}

	bookings, err := s.repo.Booking.FindByUserID(ctx, actor.ID, status, page.Limit(), page.Offset())
	if err != nil {
		return nil, err
	}

	total, err := s.repo.Booking.CountByUserID(ctx, actor.ID, status)
	if err != nil {
		return nil, err
	}

	responses := make([]response.BookingResponse, len(bookings))
	for i, booking := range bookings {
		responses[i] = response.BookingToResponse(booking)
	}

	return response.NewPaginatedResponse(responses, page.Page, page.PerPage, total), nil
}

func (s *bookingService) MarkPaid(ctx context.Context, bookingID string) error {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return fmt.Errorf("%w: invalid booking ID %s", ErrValidation, bookingID)
	}

	err = s.withRetry(ctx, func(r *repository.Repository) error {
		booking, err := r.Booking.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if booking == nil {
			return fmt.Errorf("booking %s: %w", bookingID, ErrNotFound)
		}

		if booking.Status != entity.BookingStatusPending {
			return fmt.Errorf("booking %s is %s: %w", bookingID, booking.Status, ErrInvalidTransition)
		}

		if booking.PaymentStatus == entity.PaymentStatusPaid {
			return nil
		}

		booking.PaymentStatus = entity.PaymentStatusPaid
		booking.UpdatedAt = s.now()
		return r.Booking.Update(ctx, booking)
	})
	if err != nil {
		return err
	}

	s.log.Info("Booking marked as paid", zap.String("booking_id", bookingID))
	return nil
}

func (s *bookingService) Confirm(ctx context.Context, actor Actor, bookingID string) (*response.BookingResponse, error) {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid booking ID %s", ErrValidation, bookingID)
	}

	var booking *entity.Booking
	err = s.withRetry(ctx, func(r *repository.Repository) error {
		booking, err = r.Booking.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if booking == nil {
			return fmt.Errorf("booking %s: %w", bookingID, ErrNotFound)
		}

		// Only the renter may confirm.
		if !actor.IsRenter(booking) {
			return fmt.Errorf("confirm booking %s: %w", bookingID, ErrPermission)
		}

		if booking.Status != entity.BookingStatusPending {
			return fmt.Errorf("booking %s is %s: %w", bookingID, booking.Status, ErrInvalidTransition)
		}

		if booking.PaymentStatus != entity.PaymentStatusPaid {
			return fmt.Errorf("booking %s: %w", bookingID, ErrPaymentRequired)
		}

		booking.Status = entity.BookingStatusConfirmed
		booking.UpdatedAt = s.now()
		return r.Booking.Update(ctx, booking)
	})
	if err != nil {
		return nil, err
	}

	s.publishTransition(events.BookingConfirmed, booking)
	s.log.Info("Booking confirmed", zap.String("booking_id", bookingID))

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) Start(ctx context.Context, actor Actor, bookingID string) (*response.BookingResponse, error) {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid booking ID %s", ErrValidation, bookingID)
	}

	var booking *entity.Booking
	err = s.withRetry(ctx, func(r *repository.Repository) error {
		booking, err = r.Booking.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if booking == nil {
			return fmt.Errorf("booking %s: %w", bookingID, ErrNotFound)
		}

		if !actor.IsRenter(booking) {
			return fmt.Errorf("start booking %s: %w", bookingID, ErrPermission)
		}

		if booking.Status != entity.BookingStatusConfirmed {
			return fmt.Errorf("booking %s is %s: %w", bookingID, booking.Status, ErrInvalidTransition)
		}

		now := s.now()
		booking.Status = entity.BookingStatusActive
		booking.ActualStartTime = &now
		booking.UpdatedAt = now
		if err := r.Booking.Update(ctx, booking); err != nil {
			return err
		}

		return s.moveSlot(ctx, r, booking, entity.SlotStatusOccupied, now)
	})
	if err != nil {
		return nil, err
	}

	s.publishTransition(events.BookingStarted, booking)
	s.log.Info("Booking started", zap.String("booking_id", bookingID))

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) End(ctx context.Context, actor Actor, bookingID string) (*response.BookingResponse, error) {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid booking ID %s", ErrValidation, bookingID)
	}

	var booking *entity.Booking
	err = s.withRetry(ctx, func(r *repository.Repository) error {
		booking, err = r.Booking.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if booking == nil {
			return fmt.Errorf("booking %s: %w", bookingID, ErrNotFound)
		}

		if !actor.CanManageBooking(booking) {
			return fmt.Errorf("end booking %s: %w", bookingID, ErrPermission)
		}

		if booking.Status != entity.BookingStatusActive {
			return fmt.Errorf("booking %s is %s: %w", bookingID, booking.Status, ErrInvalidTransition)
		}

		now := s.now()
		booking.Status = entity.BookingStatusCompleted
		booking.ActualEndTime = &now
		booking.UpdatedAt = now
		if err := r.Booking.Update(ctx, booking); err != nil {
			return err
		}

		// Booking is terminal now, so the AVAILABLE guard passes.
		return s.moveSlot(ctx, r, booking, entity.SlotStatusAvailable, now)
	})
	if err != nil {
		return nil, err
	}

	s.publishTransition(events.BookingEnded, booking)
	s.log.Info("Booking completed", zap.String("booking_id", bookingID))

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) Cancel(ctx context.Context, actor Actor, bookingID string) error {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return fmt.Errorf("%w: invalid booking ID %s", ErrValidation, bookingID)
	}

	var booking *entity.Booking
	err = s.withRetry(ctx, func(r *repository.Repository) error {
		booking, err = r.Booking.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if booking == nil {
			return fmt.Errorf("booking %s: %w", bookingID, ErrNotFound)
		}

		if !actor.CanManageBooking(booking) {
			return fmt.Errorf("cancel booking %s: %w", bookingID, ErrPermission)
		}

		if booking.Status.Terminal() {
			return fmt.Errorf("booking %s is %s: %w", bookingID, booking.Status, ErrInvalidTransition)
		}

		now := s.now()
		booking.Status = entity.BookingStatusCancelled
		if booking.PaymentStatus == entity.PaymentStatusPaid {
			booking.PaymentStatus = entity.PaymentStatusRefunded
		}
		booking.UpdatedAt = now
		if err := r.Booking.Update(ctx, booking); err != nil {
			return err
		}

		return s.freeHeldSlot(ctx, r, booking, now)
	})
	if err != nil {
		return err
	}

	s.publishTransition(events.BookingCancelled, booking)
	s.log.Info("Booking cancelled",
		zap.String("booking_id", bookingID),
		zap.String("booking_code", booking.BookingCode),
	)

	return nil
}

func (s *bookingService) ExpireStale(ctx context.Context) (int, error) {
	cutoff := s.now().Add(-time.Duration(s.config.Parking.BookingExpiryMinutes) * time.Minute)

	ids, err := s.repo.Booking.FindExpiredPending(ctx, cutoff, 100)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, id := range ids {
		// Each expiration is its own atomic unit. A concurrent confirm
		// wins if it lands before our re-read.
		err := s.repo.Tx.WithinTx(ctx, func(r *repository.Repository) error {
			booking, err := r.Booking.FindByIDForUpdate(ctx, id)
			if err != nil {
				return err
			}
			if booking == nil || booking.Status != entity.BookingStatusPending || !booking.CreatedAt.Before(cutoff) {
				return nil
			}

			now := s.now()
			booking.Status = entity.BookingStatusExpired
			booking.UpdatedAt = now
			if err := r.Booking.Update(ctx, booking); err != nil {
				return err
			}

			if err := s.freeHeldSlot(ctx, r, booking, now); err != nil {
				return err
			}

			expired++
			s.publishTransition(events.BookingExpired, booking)
			return nil
		})
		if err != nil {
			s.log.Error("Failed to expire booking",
				zap.Error(err),
				zap.String("booking_id", id.String()),
			)
		}
	}

	if expired > 0 {
		s.log.Info("Expired stale pending bookings", zap.Int("count", expired))
	}

	return expired, nil
}

// moveSlot transitions the booking's slot, if any.
func (s *bookingService) moveSlot(ctx context.Context, r *repository.Repository, booking *entity.Booking, status entity.SlotStatus, now time.Time) error {
	if booking.SlotID == nil {
		return nil
	}

	slot, err := r.Slot.FindByIDForUpdate(ctx, *booking.SlotID)
	if err != nil {
		return err
	}
	if slot == nil {
		return fmt.Errorf("parking slot %s: %w", booking.SlotID.String(), ErrNotFound)
	}

	return applySlotStatus(ctx, r, slot, status, now)
}

// freeHeldSlot returns a RESERVED/OCCUPIED slot to AVAILABLE on
// cancel/expire. Slots in MAINTENANCE stay put.
func (s *bookingService) freeHeldSlot(ctx context.Context, r *repository.Repository, booking *entity.Booking, now time.Time) error {
	if booking.SlotID == nil {
		return nil
	}

	slot, err := r.Slot.FindByIDForUpdate(ctx, *booking.SlotID)
	if err != nil {
		return err
	}
	if slot == nil {
		return nil
	}

	if slot.Status != entity.SlotStatusReserved && slot.Status != entity.SlotStatusOccupied {
		return nil
	}

	return applySlotStatus(ctx, r, slot, entity.SlotStatusAvailable, now)
}

func (s *bookingService) publishTransition(evType events.Type, booking *entity.Booking) {
	ev := events.Event{
		Type:      evType,
		BookingID: booking.ID,
		LotID:     booking.ParkingLotID,
		Status:    string(booking.Status),
	}
	if booking.SlotID != nil {
		ev.SlotID = *booking.SlotID
	}
	s.bus.Publish(ev)
}
