package adaptor

import (
	"encoding/json"
	"net/http"

	"smart-parking/internal/dto/request"
	"smart-parking/internal/usecase"
	"smart-parking/pkg/utils"

	"go.uber.org/zap"
)

type OccupancyHandler struct {
	service usecase.OccupancyService
	log     *zap.Logger
}

func NewOccupancyHandler(service usecase.OccupancyService, log *zap.Logger) *OccupancyHandler {
	return &OccupancyHandler{
		service: service,
		log:     log.With(zap.String("handler", "occupancy")),
	}
}

// IngestReport handles POST /api/ai/occupancy-report.
// Called by the detection service, not by end users.
func (h *OccupancyHandler) IngestReport(w http.ResponseWriter, r *http.Request) {
	var report request.OccupancyReport
	if err := json.NewDecoder(r.Body).Decode(&report); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.service.IngestReport(r.Context(), &report)
	if err != nil {
		handleServiceError(h.log, w, err, "ingest occupancy report")
		return
	}

	utils.ResponseSuccess(w, "success", result)
}
