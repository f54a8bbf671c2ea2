package adaptor

import (
	"encoding/json"
	"net/http"

	"smart-parking/internal/dto/request"
	"smart-parking/internal/usecase"
	"smart-parking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type LotHandler struct {
	service usecase.LotService
	log     *zap.Logger
}

func NewLotHandler(service usecase.LotService, log *zap.Logger) *LotHandler {
	return &LotHandler{
		service: service,
		log:     log.With(zap.String("handler", "lot")),
	}
}

// CreateLot handles POST /api/lots (admin or parking owner)
func (h *LotHandler) CreateLot(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreateLotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	lot, err := h.service.CreateLot(r.Context(), actor, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "create parking lot")
		return
	}

	utils.ResponseCreated(w, "success", lot)
}

// GetLot handles GET /api/lots/{id} (public)
func (h *LotHandler) GetLot(w http.ResponseWriter, r *http.Request) {
	lotID := chi.URLParam(r, "id")
	if lotID == "" {
		utils.ResponseBadRequest(w, "Parking lot ID is required", nil)
		return
	}

	lot, err := h.service.GetLot(r.Context(), lotID)
	if err != nil {
		handleServiceError(h.log, w, err, "get parking lot")
		return
	}

	utils.ResponseSuccess(w, "success", lot)
}

// ListLots handles GET /api/lots (public)
func (h *LotHandler) ListLots(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page := &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}

	includeInactive := query.Get("include_inactive") == "true"

	lots, err := h.service.ListLots(r.Context(), includeInactive, page)
	if err != nil {
		handleServiceError(h.log, w, err, "list parking lots")
		return
	}

	utils.ResponseSuccess(w, "success", lots)
}

// UpdateLot handles PUT /api/lots/{id} (admin or owner)
func (h *LotHandler) UpdateLot(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	lotID := chi.URLParam(r, "id")
	if lotID == "" {
		utils.ResponseBadRequest(w, "Parking lot ID is required", nil)
		return
	}

	var req request.UpdateLotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	lot, err := h.service.UpdateLot(r.Context(), actor, lotID, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "update parking lot")
		return
	}

	utils.ResponseSuccess(w, "success", lot)
}
