// internal/wire/wire.go
package wire

import (
	"net/http"

	"smart-parking/internal/adaptor"
	"smart-parking/internal/data/repository"
	"smart-parking/internal/events"
	"smart-parking/internal/usecase"
	"smart-parking/pkg/middleware"
	"smart-parking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// App menyimpan semua dependencies
type App struct {
	Router *chi.Mux
	Bus    *events.Bus
	Expiry *usecase.ExpiryWorker
}

// Wiring menginisialisasi semua dependencies
func Wiring(repo *repository.Repository, config *utils.Config, logger *zap.Logger) *App {
	bus := events.NewBus(logger)

	service := usecase.NewService(repo, config, bus, logger)
	handler := adaptor.NewHandler(service, logger)
	worker := usecase.NewExpiryWorker(service.Booking, config, logger)

	router := setupRouter(handler, worker, repo, config, logger)

	return &App{
		Router: router,
		Bus:    bus,
		Expiry: worker,
	}
}

// setupRouter konfigurasi Chi router
func setupRouter(
	handler *adaptor.Handler,
	worker *usecase.ExpiryWorker,
	repo *repository.Repository,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())

	// Apply routes
	wireAuth(r, handler.Auth, repo, logger)
	wireUser(r, handler.User, repo, logger)
	wireLot(r, handler.Lot, handler.Slot, handler.Review, repo, logger)
	wireSlot(r, handler.Slot, repo, logger)
	wireBooking(r, handler.Booking, repo, logger)
	wireOccupancy(r, handler.Occupancy)

	// Health check endpoint with expiry sweep status
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseSuccess(w, "OK", map[string]any{
			"expiry_sweep": worker.Status(),
		})
	})

	return r
}
