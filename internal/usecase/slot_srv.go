package usecase

import (
	"context"
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

type SlotService interface {
	CreateSlot(ctx context.Context, actor Actor, req *request.CreateSlotRequest) (*response.SlotResponse, error)
	GetSlot(ctx context.Context, slotID string) (*response.SlotResponse, error)
	ListSlots(ctx context.Context, lotID string, statusFilter string) ([]response.SlotResponse, error)
	SetStatus(ctx context.Context, actor Actor, slotID string, newStatus string) (*response.SlotResponse, error)
	CountByStatus(ctx context.Context, lotID string, status string) (int64, error)
}

type slotService struct {
	repo *repository.Repository
	bus  events.Publisher
	log  *zap.Logger
}

func NewSlotService(repo *repository.Repository, bus events.Publisher, log *zap.Logger) SlotService {
	return &slotService{
		repo: repo,
		bus:  bus,
		log:  log.With(zap.String("service", "slot")),
	}
}

// applySlotStatus is the single write path for slot status. It rejects a
// transition to AVAILABLE while a non-terminal booking still holds the slot,
// writes the new status and recomputes the lot's aggregate counters in the
// caller's transaction. The guard lives here so the occupancy adapter cannot
// silently free a contractually reserved slot.
func applySlotStatus(ctx context.Context, r *repository.Repository, slot *entity.ParkingSlot, newStatus entity.SlotStatus, now time.Time) error {
	if !newStatus.Valid() {
		return fmt.Errorf("slot status %q: %w", string(newStatus), ErrValidation)
	}

	if slot.Status == newStatus {
		return nil
	}

	if newStatus == entity.SlotStatusAvailable {
		claim, err := r.Booking.FindActiveClaim(ctx, slot.ID, now)
		if err != nil {
			return fmt.Errorf("check slot claim: %w", err)
		}
		if claim != nil {
			return fmt.Errorf("slot %s is held by booking %s: %w",
				slot.SlotNumber, claim.BookingCode, ErrInvalidTransition)
		}
	}

	if err := r.Slot.SetStatus(ctx, slot.ID, newStatus); err != nil {
		return err
	}

	if err := r.Lot.RefreshSlotCounts(ctx, slot.ParkingLotID); err != nil {
		return err
	}

	slot.Status = newStatus
	return nil
}

func (s *slotService) CreateSlot(ctx context.Context, actor Actor, req *request.CreateSlotRequest) (*response.SlotResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create slot validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}

	lotID, err := uuid.Parse(req.ParkingLotID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid parking lot ID %s", ErrValidation, req.ParkingLotID)
	}

	var created *entity.ParkingSlot
	err = s.repo.Tx.WithinTx(ctx, func(r *repository.Repository) error {
		lot, err := r.Lot.FindByID(ctx, lotID)
		if err != nil {
			return err
		}
		if lot == nil {
			return fmt.Errorf("parking lot %s: %w", req.ParkingLotID, ErrNotFound)
		}

		if !actor.CanManageLot(lot) {
			return fmt.Errorf("create slot in lot %s: %w", req.ParkingLotID, ErrPermission)
		}

		existing, err := r.Slot.FindByNumber(ctx, lotID, req.SlotNumber)
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("%w: slot number %s already exists in this lot", ErrValidation, req.SlotNumber)
		}

		now := time.Now()
		created = &entity.ParkingSlot{
			Base: entity.Base{
				ID:        uuid.New(),
				CreatedAt: now,
				UpdatedAt: now,
			},
			ParkingLotID:     lotID,
			SlotNumber:       req.SlotNumber,
			Status:           entity.SlotStatusAvailable,
			IsDisabledAccess: req.IsDisabledAccess,
			IsEvCharging:     req.IsEvCharging,
		}

		if err := r.Slot.Create(ctx, created); err != nil {
			return err
		}

		return r.Lot.RefreshSlotCounts(ctx, lotID)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Parking slot created",
		zap.String("slot_id", created.ID.String()),
		zap.String("lot_id", req.ParkingLotID),
		zap.String("slot_number", req.SlotNumber),
	)

	resp := response.SlotToResponse(created)
	return &resp, nil
}

func (s *slotService) GetSlot(ctx context.Context, slotID string) (*response.SlotResponse, error) {
	id, err := uuid.Parse(slotID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid slot ID %s", ErrValidation, slotID)
	}

	slot, err := s.repo.Slot.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if slot == nil {
		return nil, fmt.Errorf("parking slot %s: %w", slotID, ErrNotFound)
	}

	resp := response.SlotToResponse(slot)
	return &resp, nil
}

func (s *slotService) ListSlots(ctx context.Context, lotID string, statusFilter string) ([]response.SlotResponse, error) {
	id, err := uuid.Parse(lotID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid parking lot ID %s", ErrValidation, lotID)
	}

	lot, err := s.repo.Lot.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if lot == nil {
		return nil, fmt.Errorf("parking lot %s: %w", lotID, ErrNotFound)
	}

	var status *entity.SlotStatus
	if statusFilter != "" {
		st := entity.SlotStatus(statusFilter)
		if !st.Valid() {
			return nil, fmt.Errorf("%w: invalid status %s", ErrValidation, statusFilter)
		}
		status = &st
	}

	slots, err := s.repo.Slot.FindByLotID(ctx, id, status)
	if err != nil {
		return nil, err
	}

	responses := make([]response.SlotResponse, len(slots))
	for i, slot := range slots {
		responses[i] = response.SlotToResponse(slot)
	}

	return responses, nil
}

func (s *slotService) SetStatus(ctx context.Context, actor Actor, slotID string, newStatus string) (*response.SlotResponse, error) {
	id, err := uuid.Parse(slotID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid slot ID %s", ErrValidation, slotID)
	}

	status := entity.SlotStatus(newStatus)
	if !status.Valid() {
		return nil, fmt.Errorf("%w: invalid status %s", ErrValidation, newStatus)
	}

	var updated *entity.ParkingSlot
	err = s.repo.Tx.WithinTx(ctx, func(r *repository.Repository) error {
		slot, err := r.Slot.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if slot == nil {
			return fmt.Errorf("parking slot %s: %w", slotID, ErrNotFound)
		}

		lot, err := r.Lot.FindByID(ctx, slot.ParkingLotID)
		if err != nil {
			return err
		}
		if lot == nil {
			return fmt.Errorf("parking lot %s: %w", slot.ParkingLotID.String(), ErrNotFound)
		}

		if !actor.CanManageLot(lot) {
			return fmt.Errorf("set status of slot %s: %w", slotID, ErrPermission)
		}

		if err := applySlotStatus(ctx, r, slot, status, time.Now()); err != nil {
			return err
		}

		updated = slot
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.bus.Publish(events.Event{
		Type:   events.SlotStatusChanged,
		SlotID: updated.ID,
		LotID:  updated.ParkingLotID,
		Status: string(updated.Status),
	})

	s.log.Info("Slot status updated",
		zap.String("slot_id", slotID),
		zap.String("status", newStatus),
	)

	resp := response.SlotToResponse(updated)
	return &resp, nil
}

func (s *slotService) CountByStatus(ctx context.Context, lotID string, status string) (int64, error) {
	id, err := uuid.Parse(lotID)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid parking lot ID %s", ErrValidation, lotID)
	}

	st := entity.SlotStatus(status)
	if !st.Valid() {
		return 0, fmt.Errorf("%w: invalid status %s", ErrValidation, status)
	}

	return s.repo.Slot.CountByStatus(ctx, id, st)
}
