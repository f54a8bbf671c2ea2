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

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)

	// FindByIDForUpdate takes a row lock; only meaningful inside a transaction.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Booking, error)

	FindByUserID(ctx context.Context, userID uuid.UUID, status *entity.BookingStatus, limit, offset int) ([]*entity.Booking, error)
	CountByUserID(ctx context.Context, userID uuid.UUID, status *entity.BookingStatus) (int64, error)
	Update(ctx context.Context, booking *entity.Booking) error
	UpdateStatus(ctx context.Context, bookingID uuid.UUID, status entity.BookingStatus) error

	// FindConflicting returns a non-terminal booking on the slot whose window
	// overlaps [startTime, endTime) half-open.
	FindConflicting(ctx context.Context, slotID uuid.UUID, startTime, endTime time.Time, excludeID *uuid.UUID) (*entity.Booking, error)

	// FindActiveClaim returns a non-terminal booking that holds the slot at
	// the given instant. ACTIVE bookings claim the slot until ended, past
	// their requested window or not.
	FindActiveClaim(ctx context.Context, slotID uuid.UUID, at time.Time) (*entity.Booking, error)

	// FindExpiredPending lists PENDING bookings created before the cutoff.
	FindExpiredPending(ctx context.Context, cutoff time.Time, limit int) ([]uuid.UUID, error)
}

type bookingRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewBookingRepository(db database.Querier, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

const bookingFields = `id, booking_code, user_id, parking_lot_id, slot_id, status, start_time, end_time,
	actual_start_time, actual_end_time, price_per_hour, total_price, payment_status,
	vehicle_number, notes, created_at, updated_at`

func scanBooking(row pgx.Row) (*entity.Booking, error) {
	var booking entity.Booking
	err := row.Scan(
		&booking.ID,
		&booking.BookingCode,
		&booking.UserID,
		&booking.ParkingLotID,
		&booking.SlotID,
		&booking.Status,
		&booking.StartTime,
		&booking.EndTime,
		&booking.ActualStartTime,
		&booking.ActualEndTime,
		&booking.PricePerHour,
		&booking.TotalPrice,
		&booking.PaymentStatus,
		&booking.VehicleNumber,
		&booking.Notes,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	query := `
		INSERT INTO bookings (id, booking_code, user_id, parking_lot_id, slot_id, status,
		                      start_time, end_time, actual_start_time, actual_end_time,
		                      price_per_hour, total_price, payment_status, vehicle_number,
		                      notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`

	_, err := r.db.Exec(ctx, query,
		booking.ID,
		booking.BookingCode,
		booking.UserID,
		booking.ParkingLotID,
		booking.SlotID,
		booking.Status,
		booking.StartTime,
		booking.EndTime,
		booking.ActualStartTime,
		booking.ActualEndTime,
		booking.PricePerHour,
		booking.TotalPrice,
		booking.PaymentStatus,
		booking.VehicleNumber,
		booking.Notes,
		booking.CreatedAt,
		booking.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("booking_code", booking.BookingCode),
			zap.String("user_id", booking.UserID.String()),
		)
		return fmt.Errorf("create booking %s: %w", booking.BookingCode, err)
	}

	return nil
}

func (r *bookingRepository) findOne(ctx context.Context, query string, args ...any) (*entity.Booking, error) {
	booking, err := scanBooking(r.db.QueryRow(ctx, query, args...))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking", zap.Error(err))
		return nil, fmt.Errorf("find booking: %w", err)
	}
	return booking, nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `SELECT ` + bookingFields + ` FROM bookings WHERE id = $1`
	return r.findOne(ctx, query, id)
}

func (r *bookingRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `SELECT ` + bookingFields + ` FROM bookings WHERE id = $1 FOR UPDATE`
	return r.findOne(ctx, query, id)
}

func (r *bookingRepository) FindByUserID(ctx context.Context, userID uuid.UUID, status *entity.BookingStatus, limit, offset int) ([]*entity.Booking, error) {
	query := `SELECT ` + bookingFields + ` FROM bookings WHERE user_id = $1`
	args := []any{userID}
	if status != nil {
		query += ` AND status = $2`
		args = append(args, *status)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT %d OFFSET %d`, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to find bookings by user ID",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find bookings by user ID %s: %w", userID.String(), err)
	}
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, booking)
	}

	return bookings, nil
}

func (r *bookingRepository) CountByUserID(ctx context.Context, userID uuid.UUID, status *entity.BookingStatus) (int64, error) {
	query := `SELECT COUNT(*) FROM bookings WHERE user_id = $1`
	args := []any{userID}
	if status != nil {
		query += ` AND status = $2`
		args = append(args, *status)
	}

	var count int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		r.log.Error("Failed to count bookings by user ID",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return 0, fmt.Errorf("count bookings by user ID %s: %w", userID.String(), err)
	}

	return count, nil
}

func (r *bookingRepository) Update(ctx context.Context, booking *entity.Booking) error {
	query := `
		UPDATE bookings
		SET status = $2, actual_start_time = $3, actual_end_time = $4,
		    payment_status = $5, updated_at = $6
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		booking.ID,
		booking.Status,
		booking.ActualStartTime,
		booking.ActualEndTime,
		booking.PaymentStatus,
		booking.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to update booking",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
		)
		return fmt.Errorf("update booking %s: %w", booking.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking %s not found", booking.ID.String())
	}

	return nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, bookingID uuid.UUID, status entity.BookingStatus) error {
	query := `UPDATE bookings SET status = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, bookingID, status)
	if err != nil {
		r.log.Error("Failed to update booking status",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("update booking %s status to %s: %w", bookingID.String(), string(status), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking %s not found", bookingID.String())
	}

	return nil
}

func (r *bookingRepository) FindConflicting(ctx context.Context, slotID uuid.UUID, startTime, endTime time.Time, excludeID *uuid.UUID) (*entity.Booking, error) {
	// Half-open overlap: existing.start < endTime AND existing.end > startTime.
	// PENDING bookings hold the slot until expired, so they block too.
	query := `SELECT ` + bookingFields + `
		FROM bookings
		WHERE slot_id = $1
		  AND status IN ('pending', 'confirmed', 'active')
		  AND start_time < $3
		  AND end_time > $2
	`
	args := []any{slotID, startTime, endTime}
	if excludeID != nil {
		query += ` AND id <> $4`
		args = append(args, *excludeID)
	}
	query += ` LIMIT 1`

	return r.findOne(ctx, query, args...)
}

func (r *bookingRepository) FindActiveClaim(ctx context.Context, slotID uuid.UUID, at time.Time) (*entity.Booking, error) {
	query := `SELECT ` + bookingFields + `
		FROM bookings
		WHERE slot_id = $1
		  AND status IN ('pending', 'confirmed', 'active')
		  AND (status = 'active' OR end_time > $2)
		LIMIT 1
	`

	return r.findOne(ctx, query, slotID, at)
}

func (r *bookingRepository) FindExpiredPending(ctx context.Context, cutoff time.Time, limit int) ([]uuid.UUID, error) {
	query := `
		SELECT id FROM bookings
		WHERE status = 'pending' AND created_at < $1
		ORDER BY created_at
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, cutoff, limit)
	if err != nil {
		r.log.Error("Failed to find expired pending bookings", zap.Error(err))
		return nil, fmt.Errorf("find expired pending bookings: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			r.log.Error("Failed to scan booking ID", zap.Error(err))
			return nil, fmt.Errorf("scan booking ID: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, nil
}
