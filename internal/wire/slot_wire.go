package wire

import (
	"smart-parking/internal/adaptor"
	"smart-parking/internal/data/repository"
	"smart-parking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireSlot(
	r chi.Router,
	slotHandler *adaptor.SlotHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	// GET /api/slots/{id} - slot details
	r.Get("/api/slots/{id}", slotHandler.GetSlot)

	// ==================== PROTECTED ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))

		// POST /api/slots - add a slot to a lot (admin/owner)
		r.Post("/api/slots", slotHandler.CreateSlot)

		// PUT /api/slots/{id}/status - manual status override (admin/owner)
		r.Put("/api/slots/{id}/status", slotHandler.UpdateStatus)
	})
}
