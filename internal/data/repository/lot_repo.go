package repository

import (
	"context"
	"fmt"

	"smart-parking/internal/data/entity"
	"smart-parking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ParkingLotRepository interface {
	Create(ctx context.Context, lot *entity.ParkingLot) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.ParkingLot, error)
	FindAll(ctx context.Context, onlyActive bool, limit, offset int) ([]*entity.ParkingLot, error)
	Count(ctx context.Context, onlyActive bool) (int64, error)
	Update(ctx context.Context, lot *entity.ParkingLot) error

	// RefreshSlotCounts recomputes total_slots/available_slots from the
	// per-slot statuses. Must run in the same transaction as any slot write.
	RefreshSlotCounts(ctx context.Context, lotID uuid.UUID) error

	// RefreshSafetyRating recomputes safety_rating/total_reviews from reviews.
	RefreshSafetyRating(ctx context.Context, lotID uuid.UUID) error
}

type parkingLotRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewParkingLotRepository(db database.Querier, log *zap.Logger) ParkingLotRepository {
	return &parkingLotRepository{
		db:  db,
		log: log.With(zap.String("repository", "parking_lot")),
	}
}

const lotFields = `id, name, address, city, latitude, longitude, price_per_hour, description,
	camera_url, image_url, total_slots, available_slots, is_active, owner_id,
	safety_rating, total_reviews, created_at, updated_at`

func scanLot(row pgx.Row) (*entity.ParkingLot, error) {
	var lot entity.ParkingLot
	err := row.Scan(
		&lot.ID,
		&lot.Name,
		&lot.Address,
		&lot.City,
		&lot.Latitude,
		&lot.Longitude,
		&lot.PricePerHour,
		&lot.Description,
		&lot.CameraURL,
		&lot.ImageURL,
		&lot.TotalSlots,
		&lot.AvailableSlots,
		&lot.IsActive,
		&lot.OwnerID,
		&lot.SafetyRating,
		&lot.TotalReviews,
		&lot.CreatedAt,
		&lot.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &lot, nil
}

func (r *parkingLotRepository) Create(ctx context.Context, lot *entity.ParkingLot) error {
	query := `
		INSERT INTO parking_lots (id, name, address, city, latitude, longitude, price_per_hour,
		                          description, camera_url, image_url, total_slots, available_slots,
		                          is_active, owner_id, safety_rating, total_reviews, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`

	_, err := r.db.Exec(ctx, query,
		lot.ID,
		lot.Name,
		lot.Address,
		lot.City,
		lot.Latitude,
		lot.Longitude,
		lot.PricePerHour,
		lot.Description,
		lot.CameraURL,
		lot.ImageURL,
		lot.TotalSlots,
		lot.AvailableSlots,
		lot.IsActive,
		lot.OwnerID,
		lot.SafetyRating,
		lot.TotalReviews,
		lot.CreatedAt,
		lot.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create parking lot",
			zap.Error(err),
			zap.String("name", lot.Name),
		)
		return fmt.Errorf("create parking lot %s: %w", lot.Name, err)
	}

	return nil
}

func (r *parkingLotRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.ParkingLot, error) {
	query := `SELECT ` + lotFields + ` FROM parking_lots WHERE id = $1`

	lot, err := scanLot(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find parking lot by ID",
			zap.Error(err),
			zap.String("lot_id", id.String()),
		)
		return nil, fmt.Errorf("find parking lot by ID %s: %w", id.String(), err)
	}

	return lot, nil
}

func (r *parkingLotRepository) FindAll(ctx context.Context, onlyActive bool, limit, offset int) ([]*entity.ParkingLot, error) {
	query := `SELECT ` + lotFields + ` FROM parking_lots`
	if onlyActive {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		r.log.Error("Failed to list parking lots", zap.Error(err))
		return nil, fmt.Errorf("list parking lots: %w", err)
	}
	defer rows.Close()

	var lots []*entity.ParkingLot
	for rows.Next() {
		lot, err := scanLot(rows)
		if err != nil {
			r.log.Error("Failed to scan parking lot row", zap.Error(err))
			return nil, fmt.Errorf("scan parking lot row: %w", err)
		}
		lots = append(lots, lot)
	}

	return lots, nil
}

func (r *parkingLotRepository) Count(ctx context.Context, onlyActive bool) (int64, error) {
	query := `SELECT COUNT(*) FROM parking_lots`
	if onlyActive {
		query += ` WHERE is_active = TRUE`
	}

	var count int64
	if err := r.db.QueryRow(ctx, query).Scan(&count); err != nil {
		r.log.Error("Failed to count parking lots", zap.Error(err))
		return 0, fmt.Errorf("count parking lots: %w", err)
	}

	return count, nil
}

func (r *parkingLotRepository) Update(ctx context.Context, lot *entity.ParkingLot) error {
	query := `
		UPDATE parking_lots
		SET name = $2, address = $3, city = $4, latitude = $5, longitude = $6,
		    price_per_hour = $7, description = $8, camera_url = $9, image_url = $10,
		    is_active = $11, updated_at = $12
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		lot.ID,
		lot.Name,
		lot.Address,
		lot.City,
		lot.Latitude,
		lot.Longitude,
		lot.PricePerHour,
		lot.Description,
		lot.CameraURL,
		lot.ImageURL,
		lot.IsActive,
		lot.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to update parking lot",
			zap.Error(err),
			zap.String("lot_id", lot.ID.String()),
		)
		return fmt.Errorf("update parking lot %s: %w", lot.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("parking lot %s not found", lot.ID.String())
	}

	return nil
}

func (r *parkingLotRepository) RefreshSlotCounts(ctx context.Context, lotID uuid.UUID) error {
	query := `
		UPDATE parking_lots
		SET total_slots = (
		        SELECT COUNT(*) FROM parking_slots WHERE parking_lot_id = $1
		    ),
		    available_slots = (
		        SELECT COUNT(*) FROM parking_slots WHERE parking_lot_id = $1 AND status = 'available'
		    ),
		    updated_at = NOW()
		WHERE id = $1
	`

	_, err := r.db.Exec(ctx, query, lotID)
	if err != nil {
		r.log.Error("Failed to refresh slot counts",
			zap.Error(err),
			zap.String("lot_id", lotID.String()),
		)
		return fmt.Errorf("refresh slot counts for lot %s: %w", lotID.String(), err)
	}

	return nil
}

func (r *parkingLotRepository) RefreshSafetyRating(ctx context.Context, lotID uuid.UUID) error {
	query := `
		UPDATE parking_lots
		SET safety_rating = COALESCE((
		        SELECT AVG(rating)::float8 FROM safety_reviews WHERE parking_lot_id = $1
		    ), 0),
		    total_reviews = (
		        SELECT COUNT(*) FROM safety_reviews WHERE parking_lot_id = $1
		    ),
		    updated_at = NOW()
		WHERE id = $1
	`

	_, err := r.db.Exec(ctx, query, lotID)
	if err != nil {
		r.log.Error("Failed to refresh safety rating",
			zap.Error(err),
			zap.String("lot_id", lotID.String()),
		)
		return fmt.Errorf("refresh safety rating for lot %s: %w", lotID.String(), err)
	}

	return nil
}
