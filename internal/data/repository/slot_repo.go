package repository

import (
	"context"
	"fmt"
	"time"

	"smart-parking/internal/data/entity"
	"smart-parking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ParkingSlotRepository interface {
	Create(ctx context.Context, slot *entity.ParkingSlot) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.ParkingSlot, error)

	// FindByIDForUpdate takes a row lock; only meaningful inside a transaction.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.ParkingSlot, error)

	FindByNumber(ctx context.Context, lotID uuid.UUID, slotNumber string) (*entity.ParkingSlot, error)
	FindByNumberForUpdate(ctx context.Context, lotID uuid.UUID, slotNumber string) (*entity.ParkingSlot, error)
	FindByLotID(ctx context.Context, lotID uuid.UUID, status *entity.SlotStatus) ([]*entity.ParkingSlot, error)
	CountByStatus(ctx context.Context, lotID uuid.UUID, status entity.SlotStatus) (int64, error)

	SetStatus(ctx context.Context, slotID uuid.UUID, status entity.SlotStatus) error
	UpdateLastDetected(ctx context.Context, slotID uuid.UUID, at time.Time) error
}

type parkingSlotRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewParkingSlotRepository(db database.Querier, log *zap.Logger) ParkingSlotRepository {
	return &parkingSlotRepository{
		db:  db,
		log: log.With(zap.String("repository", "parking_slot")),
	}
}

const slotFields = `id, parking_lot_id, slot_number, status, is_disabled_access, is_ev_charging,
	last_detected_at, created_at, updated_at`

func scanSlot(row pgx.Row) (*entity.ParkingSlot, error) {
	var slot entity.ParkingSlot
	err := row.Scan(
		&slot.ID,
		&slot.ParkingLotID,
		&slot.SlotNumber,
		&slot.Status,
		&slot.IsDisabledAccess,
		&slot.IsEvCharging,
		&slot.LastDetectedAt,
		&slot.CreatedAt,
		&slot.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *parkingSlotRepository) Create(ctx context.Context, slot *entity.ParkingSlot) error {
	query := `
		INSERT INTO parking_slots (id, parking_lot_id, slot_number, status, is_disabled_access,
		                           is_ev_charging, last_detected_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.Exec(ctx, query,
		slot.ID,
		slot.ParkingLotID,
		slot.SlotNumber,
		slot.Status,
		slot.IsDisabledAccess,
		slot.IsEvCharging,
		slot.LastDetectedAt,
		slot.CreatedAt,
		slot.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create parking slot",
			zap.Error(err),
			zap.String("lot_id", slot.ParkingLotID.String()),
			zap.String("slot_number", slot.SlotNumber),
		)
		return fmt.Errorf("create parking slot %s: %w", slot.SlotNumber, err)
	}

	return nil
}

func (r *parkingSlotRepository) findOne(ctx context.Context, query string, args ...any) (*entity.ParkingSlot, error) {
	slot, err := scanSlot(r.db.QueryRow(ctx, query, args...))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find parking slot", zap.Error(err))
		return nil, fmt.Errorf("find parking slot: %w", err)
	}
	return slot, nil
}

func (r *parkingSlotRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.ParkingSlot, error) {
	query := `SELECT ` + slotFields + ` FROM parking_slots WHERE id = $1`
	return r.findOne(ctx, query, id)
}

func (r *parkingSlotRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.ParkingSlot, error) {
	query := `SELECT ` + slotFields + ` FROM parking_slots WHERE id = $1 FOR UPDATE`
	return r.findOne(ctx, query, id)
}

func (r *parkingSlotRepository) FindByNumber(ctx context.Context, lotID uuid.UUID, slotNumber string) (*entity.ParkingSlot, error) {
	query := `SELECT ` + slotFields + ` FROM parking_slots WHERE parking_lot_id = $1 AND slot_number = $2`
	return r.findOne(ctx, query, lotID, slotNumber)
}

func (r *parkingSlotRepository) FindByNumberForUpdate(ctx context.Context, lotID uuid.UUID, slotNumber string) (*entity.ParkingSlot, error) {
	query := `SELECT ` + slotFields + ` FROM parking_slots WHERE parking_lot_id = $1 AND slot_number = $2 FOR UPDATE`
	return r.findOne(ctx, query, lotID, slotNumber)
}

func (r *parkingSlotRepository) FindByLotID(ctx context.Context, lotID uuid.UUID, status *entity.SlotStatus) ([]*entity.ParkingSlot, error) {
	query := `SELECT ` + slotFields + ` FROM parking_slots WHERE parking_lot_id = $1`
	args := []any{lotID}
	if status != nil {
		query += ` AND status = $2`
		args = append(args, *status)
	}
	query += ` ORDER BY slot_number`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to find slots by lot ID",
			zap.Error(err),
			zap.String("lot_id", lotID.String()),
		)
		return nil, fmt.Errorf("find slots by lot ID %s: %w", lotID.String(), err)
	}
	defer rows.Close()

	var slots []*entity.ParkingSlot
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			r.log.Error("Failed to scan parking slot row", zap.Error(err))
			return nil, fmt.Errorf("scan parking slot row: %w", err)
		}
		slots = append(slots, slot)
	}

	return slots, nil
}

func (r *parkingSlotRepository) CountByStatus(ctx context.Context, lotID uuid.UUID, status entity.SlotStatus) (int64, error) {
	query := `SELECT COUNT(*) FROM parking_slots WHERE parking_lot_id = $1 AND status = $2`

	var count int64
	if err := r.db.QueryRow(ctx, query, lotID, status).Scan(&count); err != nil {
		r.log.Error("Failed to count slots by status",
			zap.Error(err),
			zap.String("lot_id", lotID.String()),
			zap.String("status", string(status)),
		)
		return 0, fmt.Errorf("count slots by status %s: %w", string(status), err)
	}

	return count, nil
}

func (r *parkingSlotRepository) SetStatus(ctx context.Context, slotID uuid.UUID, status entity.SlotStatus) error {
	query := `UPDATE parking_slots SET status = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, slotID, status)
	if err != nil {
		r.log.Error("Failed to set slot status",
			zap.Error(err),
			zap.String("slot_id", slotID.String()),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("set slot %s status to %s: %w", slotID.String(), string(status), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("parking slot %s not found", slotID.String())
	}

	return nil
}

func (r *parkingSlotRepository) UpdateLastDetected(ctx context.Context, slotID uuid.UUID, at time.Time) error {
	query := `UPDATE parking_slots SET last_detected_at = $2, updated_at = NOW() WHERE id = $1`

	_, err := r.db.Exec(ctx, query, slotID, at)
	if err != nil {
		r.log.Error("Failed to update last detected timestamp",
			zap.Error(err),
			zap.String("slot_id", slotID.String()),
		)
		return fmt.Errorf("update last detected for slot %s: %w", slotID.String(), err)
	}

	return nil
}
