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

// OccupancyService reconciles camera detection reports against the slot
// registry. Detections are authoritative only for slots with no live
// booking claim; claimed slots get their detection timestamp recorded and
// nothing else.
type OccupancyService interface {
	IngestReport(ctx context.Context, report *request.OccupancyReport) (*response.OccupancyIngestResult, error)
}

type occupancyService struct {
	repo   *repository.Repository
	config *utils.Config
	bus    events.Publisher
	log    *zap.Logger
	now    func() time.Time
}

func NewOccupancyService(repo *repository.Repository, config *utils.Config, bus events.Publisher, log *zap.Logger) OccupancyService {
	return &occupancyService{
		repo:   repo,
		config: config,
		bus:    bus,
		log:    log.With(zap.String("service", "occupancy")),
		now:    time.Now,
	}
}

func (s *occupancyService) IngestReport(ctx context.Context, report *request.OccupancyReport) (*response.OccupancyIngestResult, error) {
	if errs := utils.ValidateStruct(report); len(errs) > 0 {
		s.log.Warn("Occupancy report validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}

	lotID, err := uuid.Parse(report.ParkingLotID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid parking lot ID %s", ErrValidation, report.ParkingLotID)
	}

	if report.OccupiedSlots > report.TotalSlots || report.AvailableSlots > report.TotalSlots {
		return nil, fmt.Errorf("%w: slot counts exceed total_slots", ErrValidation)
	}

	now := s.now()
	stale := time.Duration(s.config.Detection.StaleReportSeconds) * time.Second
	if stale > 0 && now.Sub(report.CapturedAt) > stale {
		return nil, fmt.Errorf("%w: report captured at %s is stale",
			ErrValidation, report.CapturedAt.Format(time.RFC3339))
	}

	result := &response.OccupancyIngestResult{
		ParkingLotID: report.ParkingLotID,
		CapturedAt:   report.CapturedAt,
		ProcessedAt:  now,
	}

	// One transaction per report: either the whole reconciliation lands
	// or none of it does.
	err = s.repo.Tx.WithinTx(ctx, func(r *repository.Repository) error {
		lot, err := r.Lot.FindByID(ctx, lotID)
		if err != nil {
			return err
		}
		if lot == nil {
			return fmt.Errorf("parking lot %s: %w", report.ParkingLotID, ErrNotFound)
		}
		if !lot.IsActive {
			return fmt.Errorf("parking lot %s: %w", report.ParkingLotID, ErrInactiveResource)
		}

		for _, det := range report.Detections {
			slot, err := r.Slot.FindByNumberForUpdate(ctx, lotID, det.SlotNumber)
			if err != nil {
				return err
			}
			if slot == nil {
				// Detector sees markings we don't track. Not fatal.
				s.log.Warn("Detection for unknown slot skipped",
					zap.String("lot_id", report.ParkingLotID),
					zap.String("slot_number", det.SlotNumber),
				)
				result.Skipped++
				continue
			}

			if err := r.Slot.UpdateLastDetected(ctx, slot.ID, report.CapturedAt); err != nil {
				return err
			}

			detected := entity.SlotStatus(det.Status)
			if slot.Status == detected {
				continue
			}

			// Slots under maintenance are ignored entirely.
			if slot.Status == entity.SlotStatusMaintenance {
				result.Skipped++
				continue
			}

			claim, err := r.Booking.FindActiveClaim(ctx, slot.ID, now)
			if err != nil {
				return err
			}
			if claim != nil {
				// The booking engine owns this slot's status. The camera
				// disagreeing is advisory only.
				s.log.Info("Detection conflicts with booking claim, advisory only",
					zap.String("slot_id", slot.ID.String()),
					zap.String("slot_number", slot.SlotNumber),
					zap.String("booking_code", claim.BookingCode),
					zap.String("slot_status", string(slot.Status)),
					zap.String("detected_status", det.Status),
					zap.Float64("confidence", det.Confidence),
				)
				result.Advisory++
				continue
			}

			if err := applySlotStatus(ctx, r, slot, detected, now); err != nil {
				return err
			}
			result.Applied++

			s.bus.Publish(events.Event{
				Type:   events.SlotStatusChanged,
				SlotID: slot.ID,
				LotID:  lotID,
				Status: det.Status,
			})
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Occupancy report ingested",
		zap.String("lot_id", report.ParkingLotID),
		zap.Int("applied", result.Applied),
		zap.Int("advisory", result.Advisory),
		zap.Int("skipped", result.Skipped),
	)

	return result, nil
}
