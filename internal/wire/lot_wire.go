package wire

import (
	"smart-parking/internal/adaptor"
	"smart-parking/internal/data/repository"
	"smart-parking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireLot(
	r chi.Router,
	lotHandler *adaptor.LotHandler,
	slotHandler *adaptor.SlotHandler,
	reviewHandler *adaptor.ReviewHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	// GET /api/lots - browse parking lots
	r.Get("/api/lots", lotHandler.ListLots)

	// GET /api/lots/{id} - lot details with live availability
	r.Get("/api/lots/{id}", lotHandler.GetLot)

	// GET /api/lots/{id}/slots - slots of a lot, filterable by status
	r.Get("/api/lots/{id}/slots", slotHandler.ListSlots)

	// GET /api/lots/{id}/reviews - safety reviews
	r.Get("/api/lots/{id}/reviews", reviewHandler.ListReviews)

	// ==================== PROTECTED ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))

		// POST /api/lots - register a lot (admin/parking owner)
		r.Post("/api/lots", lotHandler.CreateLot)

		// PUT /api/lots/{id} - update lot (admin/owner)
		r.Put("/api/lots/{id}", lotHandler.UpdateLot)

		// POST /api/lots/{id}/reviews - leave a safety review
		r.Post("/api/lots/{id}/reviews", reviewHandler.CreateReview)
	})
}
