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

func newSlotFixture(t *testing.T) (*memStore, SlotService) {
	t.Helper()
	store := newMemStore()
	svc := NewSlotService(store.repo(), &capturePublisher{}, zap.NewNop())
	return store, svc
}

func TestCreateSlotRefreshesCounters(t *testing.T) {
	store, svc := newSlotFixture(t)
	admin := Actor{ID: uuid.New(), Role: entity.RoleAdmin}
	lot := seedLot(store, true, 2.00, nil)

	slot, err := svc.CreateSlot(context.Background(), admin, &request.CreateSlotRequest{
		ParkingLotID: lot.ID.String(),
		SlotNumber:   "A1",
		IsEvCharging: true,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.SlotStatusAvailable, slot.Status)
	assert.True(t, slot.IsEvCharging)

	storedLot := store.lots[lot.ID]
	assert.Equal(t, 1, storedLot.TotalSlots)
	assert.Equal(t, 1, storedLot.AvailableSlots)
}

func TestCreateSlotDuplicateNumber(t *testing.T) {
	store, svc := newSlotFixture(t)
	admin := Actor{ID: uuid.New(), Role: entity.RoleAdmin}
	lot := seedLot(store, true, 2.00, nil)
	seedSlot(store, lot.ID, "A1", entity.SlotStatusAvailable)

	_, err := svc.CreateSlot(context.Background(), admin, &request.CreateSlotRequest{
		ParkingLotID: lot.ID.String(),
		SlotNumber:   "A1",
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateSlotPermission(t *testing.T) {
	store, svc := newSlotFixture(t)
	lot := seedLot(store, true, 2.00, nil)

	user := Actor{ID: uuid.New(), Role: entity.RoleUser}
	_, err := svc.CreateSlot(context.Background(), user, &request.CreateSlotRequest{
		ParkingLotID: lot.ID.String(),
		SlotNumber:   "A1",
	})
	assert.ErrorIs(t, err, ErrPermission)

	// The owning parking_owner may manage their own lot.
	ownerID := uuid.New()
	ownedLot := seedLot(store, true, 2.00, &ownerID)
	owner := Actor{ID: ownerID, Role: entity.RoleParkingOwner}
	_, err = svc.CreateSlot(context.Background(), owner, &request.CreateSlotRequest{
		ParkingLotID: ownedLot.ID.String(),
		SlotNumber:   "B1",
	})
	require.NoError(t, err)
}

func TestSetStatusGuardsHeldSlot(t *testing.T) {
	store, svc := newSlotFixture(t)
	admin := Actor{ID: uuid.New(), Role: entity.RoleAdmin}
	lot := seedLot(store, true, 2.00, nil)
	slot := seedSlot(store, lot.ID, "A1", entity.SlotStatusReserved)

	start := time.Now().Add(30 * time.Minute)
	slotUUID := slot.ID
	seedBooking(store, uuid.New(), lot.ID, &slotUUID, entity.BookingStatusPending, start, start.Add(2*time.Hour))

	// Freeing a slot a live booking still claims is refused.
	_, err := svc.SetStatus(context.Background(), admin, slot.ID.String(), "available")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// Maintenance is fine regardless of claims.
	updated, err := svc.SetStatus(context.Background(), admin, slot.ID.String(), "maintenance")
	require.NoError(t, err)
	assert.Equal(t, entity.SlotStatusMaintenance, updated.Status)
}

func TestSetStatusFreesUnclaimedSlot(t *testing.T) {
	store, svc := newSlotFixture(t)
	admin := Actor{ID: uuid.New(), Role: entity.RoleAdmin}
	lot := seedLot(store, true, 2.00, nil)
	slot := seedSlot(store, lot.ID, "A1", entity.SlotStatusMaintenance)

	updated, err := svc.SetStatus(context.Background(), admin, slot.ID.String(), "available")
	require.NoError(t, err)
	assert.Equal(t, entity.SlotStatusAvailable, updated.Status)

	storedLot := store.lots[lot.ID]
	assert.Equal(t, 1, storedLot.AvailableSlots)
}

func TestSetStatusInvalidValue(t *testing.T) {
	store, svc := newSlotFixture(t)
	admin := Actor{ID: uuid.New(), Role: entity.RoleAdmin}
	lot := seedLot(store, true, 2.00, nil)
	slot := seedSlot(store, lot.ID, "A1", entity.SlotStatusAvailable)

	_, err := svc.SetStatus(context.Background(), admin, slot.ID.String(), "broken")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestListSlotsStatusFilter(t *testing.T) {
	store, svc := newSlotFixture(t)
	lot := seedLot(store, true, 2.00, nil)
	seedSlot(store, lot.ID, "A1", entity.SlotStatusAvailable)
	seedSlot(store, lot.ID, "A2", entity.SlotStatusOccupied)
	seedSlot(store, lot.ID, "A3", entity.SlotStatusAvailable)

	all, err := svc.ListSlots(context.Background(), lot.ID.String(), "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	available, err := svc.ListSlots(context.Background(), lot.ID.String(), "available")
	require.NoError(t, err)
	assert.Len(t, available, 2)

	_, err = svc.ListSlots(context.Background(), lot.ID.String(), "bogus")
	assert.ErrorIs(t, err, ErrValidation)
}
