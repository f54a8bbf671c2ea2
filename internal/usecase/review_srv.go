package usecase

import (
	"context"
	"fmt"
	"time"

	"smart-parking/internal/data/entity"
	"smart-parking/internal/data/repository"
	"smart-parking/internal/dto/request"
	"smart-parking/internal/dto/response"
	"smart-parking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ReviewService interface {
	CreateReview(ctx context.Context, actor Actor, lotID string, req *request.CreateReviewRequest) (*response.ReviewResponse, error)
	ListReviews(ctx context.Context, lotID string, page *request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error)
}

type reviewService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewReviewService(repo *repository.Repository, log *zap.Logger) ReviewService {
	return &reviewService{
		repo: repo,
		log:  log.With(zap.String("service", "review")),
	}
}

func (s *reviewService) CreateReview(ctx context.Context, actor Actor, lotID string, req *request.CreateReviewRequest) (*response.ReviewResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create review validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}

	id, err := uuid.Parse(lotID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid parking lot ID %s", ErrValidation, lotID)
	}

	var review *entity.SafetyReview
	err = s.repo.Tx.WithinTx(ctx, func(r *repository.Repository) error {
		lot, err := r.Lot.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if lot == nil {
			return fmt.Errorf("parking lot %s: %w", lotID, ErrNotFound)
		}

		existing, err := r.Review.FindByUserAndLot(ctx, actor.ID, id)
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("%w: you have already reviewed this parking lot", ErrValidation)
		}

		review = &entity.SafetyReview{
			BaseSimple: entity.BaseSimple{
				ID:        uuid.New(),
				CreatedAt: time.Now(),
			},
			UserID:       actor.ID,
			ParkingLotID: id,
			Rating:       req.Rating,
			HasLighting:  req.HasLighting,
			HasSecurity:  req.HasSecurity,
			Comment:      req.Comment,
		}

		if err := r.Review.Create(ctx, review); err != nil {
			return err
		}

		return r.Lot.RefreshSafetyRating(ctx, id)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Safety review created",
		zap.String("lot_id", lotID),
		zap.String("user_id", actor.ID.String()),
		zap.Int("rating", req.Rating),
	)

	resp := response.ReviewToResponse(review)
	return &resp, nil
}

func (s *reviewService) ListReviews(ctx context.Context, lotID string, page *request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error) {
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

	reviews, err := s.repo.Review.FindByLotID(ctx, id, page.Limit(), page.Offset())
	if err != nil {
		return nil, err
	}

	total, err := s.repo.Review.CountByLotID(ctx, id)
	if err != nil {
		return nil, err
	}

	responses := make([]response.ReviewResponse, len(reviews))
	for i, review := range reviews {
		responses[i] = response.ReviewToResponse(review)
	}

	return response.NewPaginatedResponse(responses, page.Page, page.PerPage, total), nil
}
