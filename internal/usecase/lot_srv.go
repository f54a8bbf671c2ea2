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

type LotService interface {
	CreateLot(ctx context.Context, actor Actor, req *request.CreateLotRequest) (*response.LotResponse, error)
	GetLot(ctx context.Context, lotID string) (*response.LotResponse, error)
	ListLots(ctx context.Context, includeInactive bool, page *request.PaginatedRequest) (*response.PaginatedResponse[response.LotResponse], error)
	UpdateLot(ctx context.Context, actor Actor, lotID string, req *request.UpdateLotRequest) (*response.LotResponse, error)
}

type lotService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewLotService(repo *repository.Repository, log *zap.Logger) LotService {
	return &lotService{
		repo: repo,
		log:  log.With(zap.String("service", "lot")),
	}
}

func (s *lotService) CreateLot(ctx context.Context, actor Actor, req *request.CreateLotRequest) (*response.LotResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create lot validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}

	if actor.Role != entity.RoleAdmin && actor.Role != entity.RoleParkingOwner {
		return nil, fmt.Errorf("create parking lot: %w", ErrPermission)
	}

	now := time.Now()
	lot := &entity.ParkingLot{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:         req.Name,
		Address:      req.Address,
		City:         req.City,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		PricePerHour: req.PricePerHour,
		Description:  req.Description,
		CameraURL:    req.CameraURL,
		ImageURL:     req.ImageURL,
		IsActive:     true,
	}

	if actor.Role == entity.RoleParkingOwner {
		ownerID := actor.ID
		lot.OwnerID = &ownerID
	}

	if err := s.repo.Lot.Create(ctx, lot); err != nil {
		return nil, err
	}

	s.log.Info("Parking lot created",
		zap.String("lot_id", lot.ID.String()),
		zap.String("name", lot.Name),
		zap.String("city", lot.City),
	)

	resp := response.LotToResponse(lot)
	return &resp, nil
}

func (s *lotService) GetLot(ctx context.Context, lotID string) (*response.LotResponse, error) {
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

	resp := response.LotToResponse(lot)
	return &resp, nil
}

func (s *lotService) ListLots(ctx context.Context, includeInactive bool, page *request.PaginatedRequest) (*response.PaginatedResponse[response.LotResponse], error) {
	onlyActive := !includeInactive

	lots, err := s.repo.Lot.FindAll(ctx, onlyActive, page.Limit(), page.Offset())
	if err != nil {
		return nil, err
	}

	total, err := s.repo.Lot.Count(ctx, onlyActive)
	if err != nil {
		return nil, err
	}

	responses := make([]response.LotResponse, len(lots))
	for i, lot := range lots {
		responses[i] = response.LotToResponse(lot)
	}

	return response.NewPaginatedResponse(responses, page.Page, page.PerPage, total), nil
}

func (s *lotService) UpdateLot(ctx context.Context, actor Actor, lotID string, req *request.UpdateLotRequest) (*response.LotResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Update lot validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}

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

	if !actor.CanManageLot(lot) {
		return nil, fmt.Errorf("update parking lot %s: %w", lotID, ErrPermission)
	}

	lot.Name = req.Name
	lot.Address = req.Address
	lot.City = req.City
	lot.Latitude = req.Latitude
	lot.Longitude = req.Longitude
	lot.PricePerHour = req.PricePerHour
	lot.Description = req.Description
	lot.CameraURL = req.CameraURL
	lot.ImageURL = req.ImageURL
	if req.IsActive != nil {
		lot.IsActive = *req.IsActive
	}
	lot.UpdatedAt = time.Now()

	if err := s.repo.Lot.Update(ctx, lot); err != nil {
		return nil, err
	}

	s.log.Info("Parking lot updated", zap.String("lot_id", lotID))

	resp := response.LotToResponse(lot)
	return &resp, nil
}
