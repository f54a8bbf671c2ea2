package usecase

import (
	"context"
	"testing"
	"time"

	"smart-parking/internal/data/entity"
	"smart-parking/internal/dto/request"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newOccupancyFixture(t *testing.T) (*memStore, OccupancyService) {
	t.Helper()
	store := newMemStore()
	svc := NewOccupancyService(store.repo(), testConfig(), &capturePublisher{}, zap.NewNop())
	return store, svc
}

func TestIngestReportAppliesDetections(t *testing.T) {
	store, svc := newOccupancyFixture(t)
	lot := seedLot(store, true, 2.00, nil)
	free := seedSlot(store, lot.ID, "A1", entity.SlotStatusAvailable)
	taken := seedSlot(store, lot.ID, "A2", entity.SlotStatusOccupied)

	captured := time.Now().Add(-10 * time.Second)
	result, err := svc.IngestReport(context.Background(), &request.OccupancyReport{
		ParkingLotID:   lot.ID.String(),
		TotalSlots:     2,
		AvailableSlots: 1,
		OccupiedSlots:  1,
		CapturedAt:     captured,
		Detections: []request.SlotDetection{
			{SlotNumber: "A1", Status: "occupied", Confidence: 0.95},
			{SlotNumber: "A2", Status: "available", Confidence: 0.90},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Applied)
	assert.Equal(t, 0, result.Advisory)
	assert.Equal(t, 0, result.Skipped)

	assert.Equal(t, entity.SlotStatusOccupied, store.slots[free.ID].Status)
	assert.Equal(t, entity.SlotStatusAvailable, store.slots[taken.ID].Status)

	require.NotNil(t, store.slots[free.ID].LastDetectedAt)
	assert.True(t, store.slots[free.ID].LastDetectedAt.Equal(captured))

	storedLot := store.lots[lot.ID]
	assert.Equal(t, 2, storedLot.TotalSlots)
	assert.Equal(t, 1, storedLot.AvailableSlots)
}

func TestIngestReportAdvisoryForClaimedSlot(t *testing.T) {
	store, svc := newOccupancyFixture(t)
	lot := seedLot(store, true, 2.00, nil)
	slot := seedSlot(store, lot.ID, "A1", entity.SlotStatusReserved)

	start := time.Now().Add(-30 * time.Minute)
	end := time.Now().Add(90 * time.Minute)
	slotUUID := slot.ID
	seedBooking(store, uuid.New(), lot.ID, &slotUUID, entity.BookingStatusConfirmed, start, end)

	result, err := svc.IngestReport(context.Background(), &request.OccupancyReport{
		ParkingLotID: lot.ID.String(),
		TotalSlots:   1,
		CapturedAt:   time.Now(),
		Detections: []request.SlotDetection{
			// Camera sees the reserved slot as empty; the booking wins.
			{SlotNumber: "A1", Status: "available", Confidence: 0.99},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 0, result.Applied)
	assert.Equal(t, 1, result.Advisory)
	assert.Equal(t, entity.SlotStatusReserved, store.slots[slot.ID].Status)

	// Detection timestamp is still recorded.
	assert.NotNil(t, store.slots[slot.ID].LastDetectedAt)
}

func TestIngestReportSkipsUnknownSlot(t *testing.T) {
	store, svc := newOccupancyFixture(t)
	lot := seedLot(store, true, 2.00, nil)

	result, err := svc.IngestReport(context.Background(), &request.OccupancyReport{
		ParkingLotID: lot.ID.String(),
		TotalSlots:   1,
		CapturedAt:   time.Now(),
		Detections: []request.SlotDetection{
			{SlotNumber: "Z9", Status: "occupied", Confidence: 0.80},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 0, result.Applied)
}

func TestIngestReportSkipsMaintenanceSlot(t *testing.T) {
	store, svc := newOccupancyFixture(t)
	lot := seedLot(store, true, 2.00, nil)
	slot := seedSlot(store, lot.ID, "A1", entity.SlotStatusMaintenance)

	result, err := svc.IngestReport(context.Background(), &request.OccupancyReport{
		ParkingLotID: lot.ID.String(),
		TotalSlots:   1,
		CapturedAt:   time.Now(),
		Detections: []request.SlotDetection{
			{SlotNumber: "A1", Status: "occupied", Confidence: 0.80},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, entity.SlotStatusMaintenance, store.slots[slot.ID].Status)
}

func TestIngestReportRejectsMalformed(t *testing.T) {
	store, svc := newOccupancyFixture(t)
	lot := seedLot(store, true, 2.00, nil)

	// Occupied exceeds total.
	_, err := svc.IngestReport(context.Background(), &request.OccupancyReport{
		ParkingLotID:  lot.ID.String(),
		TotalSlots:    2,
		OccupiedSlots: 5,
		CapturedAt:    time.Now(),
	})
	assert.ErrorIs(t, err, ErrValidation)

	// Unknown detection status.
	_, err = svc.IngestReport(context.Background(), &request.OccupancyReport{
		ParkingLotID: lot.ID.String(),
		TotalSlots:   1,
		CapturedAt:   time.Now(),
		Detections: []request.SlotDetection{
			{SlotNumber: "A1", Status: "half-full", Confidence: 0.50},
		},
	})
	assert.ErrorIs(t, err, ErrValidation)

	// Missing capture timestamp.
	_, err = svc.IngestReport(context.Background(), &request.OccupancyReport{
		ParkingLotID: lot.ID.String(),
		TotalSlots:   1,
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestIngestReportRejectsStale(t *testing.T) {
	store, svc := newOccupancyFixture(t)
	lot := seedLot(store, true, 2.00, nil)

	_, err := svc.IngestReport(context.Background(), &request.OccupancyReport{
		ParkingLotID: lot.ID.String(),
		TotalSlots:   1,
		CapturedAt:   time.Now().Add(-1 * time.Hour),
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestIngestReportInactiveLot(t *testing.T) {
	store, svc := newOccupancyFixture(t)
	lot := seedLot(store, false, 2.00, nil)

	_, err := svc.IngestReport(context.Background(), &request.OccupancyReport{
		ParkingLotID: lot.ID.String(),
		TotalSlots:   1,
		CapturedAt:   time.Now(),
	})
	assert.ErrorIs(t, err, ErrInactiveResource)
}
