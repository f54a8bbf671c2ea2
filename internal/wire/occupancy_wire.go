package wire

import (
	"smart-parking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireOccupancy(r chi.Router, occupancyHandler *adaptor.OccupancyHandler) {
	// POST /api/ai/occupancy-report - detection service callback.
	// The detector runs inside the trusted network, no session auth.
	r.Post("/api/ai/occupancy-report", occupancyHandler.IngestReport)
}
