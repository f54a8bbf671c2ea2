package adaptor

import (
	"net/http"

	"smart-parking/internal/data/entity"
	"smart-parking/internal/usecase"
	"smart-parking/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Auth      *AuthHandler
	User      *UserHandler
	Lot       *LotHandler
	Slot      *SlotHandler
	Booking   *BookingHandler
	Occupancy *OccupancyHandler
	Review    *ReviewHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Auth:      NewAuthHandler(service.Auth, log),
		User:      NewUserHandler(service.User, log),
		Lot:       NewLotHandler(service.Lot, log),
		Slot:      NewSlotHandler(service.Slot, log),
		Booking:   NewBookingHandler(service.Booking, log),
		Occupancy: NewOccupancyHandler(service.Occupancy, log),
		Review:    NewReviewHandler(service.Review, log),
	}
}

// actorFromRequest builds the acting identity from the authenticated context.
func actorFromRequest(r *http.Request) (usecase.Actor, bool) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		return usecase.Actor{}, false
	}

	role, _ := utils.GetRoleFromContext(r.Context())
	return usecase.Actor{
		ID:   userID,
		Role: entity.UserRole(role),
	}, true
}
