package wire

import (
	"smart-parking/internal/adaptor"
	"smart-parking/internal/data/repository"
	"smart-parking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBooking(
	r chi.Router,
	bookingHandler *adaptor.BookingHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// All booking routes require authentication.
	r.Route("/api/bookings", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))

		// POST /api/bookings - reserve a slot
		r.Post("/", bookingHandler.CreateBooking)

		// GET /api/bookings - own booking history
		r.Get("/", bookingHandler.ListBookings)

		// GET /api/bookings/{id} - booking details
		r.Get("/{id}", bookingHandler.GetBooking)

		// POST /api/bookings/{id}/pay - record payment
		r.Post("/{id}/pay", bookingHandler.MarkPaid)

		// Lifecycle transitions
		r.Post("/{id}/confirm", bookingHandler.Confirm)
		r.Post("/{id}/start", bookingHandler.Start)
		r.Post("/{id}/end", bookingHandler.End)
		r.Post("/{id}/cancel", bookingHandler.Cancel)
	})
}
