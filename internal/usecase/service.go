package usecase

import (
	"smart-parking/internal/data/repository"
	"smart-parking/internal/events"
	"smart-parking/pkg/utils"

	"go.uber.org/zap"
)

// Service bundles all usecases for wiring.
type Service struct {
	Auth      AuthService
	User      UserService
	Lot       LotService
	Slot      SlotService
	Booking   BookingService
	Occupancy OccupancyService
	Review    ReviewService
}

func NewService(repo *repository.Repository, config *utils.Config, bus events.Publisher, log *zap.Logger) *Service {
	return &Service{
		Auth:      NewAuthService(repo, config, log),
		User:      NewUserService(repo, log),
		Lot:       NewLotService(repo, log),
		Slot:      NewSlotService(repo, bus, log),
		Booking:   NewBookingService(repo, config, bus, log),
		Occupancy: NewOccupancyService(repo, config, bus, log),
		Review:    NewReviewService(repo, log),
	}
}
