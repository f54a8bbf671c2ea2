package wire

import (
	"smart-parking/internal/adaptor"
	"smart-parking/internal/data/repository"
	"smart-parking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireUser(
	r chi.Router,
	userHandler *adaptor.UserHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))

		// GET /api/users/me - current user's profile
		r.Get("/api/users/me", userHandler.GetProfile)

		// PUT /api/users/me - update profile
		r.Put("/api/users/me", userHandler.UpdateProfile)
	})
}
