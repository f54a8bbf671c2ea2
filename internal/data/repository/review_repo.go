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

type SafetyReviewRepository interface {
	Create(ctx context.Context, review *entity.SafetyReview) error
	FindByUserAndLot(ctx context.Context, userID, lotID uuid.UUID) (*entity.SafetyReview, error)
	FindByLotID(ctx context.Context, lotID uuid.UUID, limit, offset int) ([]*entity.SafetyReview, error)
	CountByLotID(ctx context.Context, lotID uuid.UUID) (int64, error)
}

type safetyReviewRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewSafetyReviewRepository(db database.Querier, log *zap.Logger) SafetyReviewRepository {
	return &safetyReviewRepository{
		db:  db,
		log: log.With(zap.String("repository", "safety_review")),
	}
}

const reviewFields = `id, user_id, parking_lot_id, rating, has_lighting, has_security, comment, created_at`

func scanReview(row pgx.Row) (*entity.SafetyReview, error) {
	var review entity.SafetyReview
	err := row.Scan(
		&review.ID,
		&review.UserID,
		&review.ParkingLotID,
		&review.Rating,
		&review.HasLighting,
		&review.HasSecurity,
		&review.Comment,
		&review.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *safetyReviewRepository) Create(ctx context.Context, review *entity.SafetyReview) error {
	query := `
		INSERT INTO safety_reviews (id, user_id, parking_lot_id, rating, has_lighting,
		                            has_security, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		review.ID,
		review.UserID,
		review.ParkingLotID,
		review.Rating,
		review.HasLighting,
		review.HasSecurity,
		review.Comment,
		review.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create safety review",
			zap.Error(err),
			zap.String("lot_id", review.ParkingLotID.String()),
			zap.String("user_id", review.UserID.String()),
		)
		return fmt.Errorf("create safety review: %w", err)
	}

	return nil
}

func (r *safetyReviewRepository) FindByUserAndLot(ctx context.Context, userID, lotID uuid.UUID) (*entity.SafetyReview, error) {
	query := `SELECT ` + reviewFields + ` FROM safety_reviews WHERE user_id = $1 AND parking_lot_id = $2`

	review, err := scanReview(r.db.QueryRow(ctx, query, userID, lotID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find review by user and lot", zap.Error(err))
		return nil, fmt.Errorf("find review by user %s and lot %s: %w", userID.String(), lotID.String(), err)
	}

	return review, nil
}

func (r *safetyReviewRepository) FindByLotID(ctx context.Context, lotID uuid.UUID, limit, offset int) ([]*entity.SafetyReview, error) {
	query := `SELECT ` + reviewFields + ` FROM safety_reviews WHERE parking_lot_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`

	rows, err := r.db.Query(ctx, query, lotID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find reviews by lot ID",
			zap.Error(err),
			zap.String("lot_id", lotID.String()),
		)
		return nil, fmt.Errorf("find reviews by lot ID %s: %w", lotID.String(), err)
	}
	defer rows.Close()

	var reviews []*entity.SafetyReview
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			r.log.Error("Failed to scan review row", zap.Error(err))
			return nil, fmt.Errorf("scan review row: %w", err)
		}
		reviews = append(reviews, review)
	}

	return reviews, nil
}

func (r *safetyReviewRepository) CountByLotID(ctx context.Context, lotID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM safety_reviews WHERE parking_lot_id = $1`

	var count int64
	if err := r.db.QueryRow(ctx, query, lotID).Scan(&count); err != nil {
		r.log.Error("Failed to count reviews by lot ID",
			zap.Error(err),
			zap.String("lot_id", lotID.String()),
		)
		return 0, fmt.Errorf("count reviews by lot ID %s: %w", lotID.String(), err)
	}

	return count, nil
}
