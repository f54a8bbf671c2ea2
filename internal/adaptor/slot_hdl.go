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

type SlotHandler struct {
	service usecase.SlotService
	log     *zap.Logger
}

func NewSlotHandler(service usecase.SlotService, log *zap.Logger) *SlotHandler {
	return &SlotHandler{
		service: service,
		log:     log.With(zap.String("handler", "slot")),
	}
}

// CreateSlot handles POST /api/slots (admin or owner)
func (h *SlotHandler) CreateSlot(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreateSlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	slot, err := h.service.CreateSlot(r.Context(), actor, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "create slot")
		return
	}

	utils.ResponseCreated(w, "success", slot)
}

// GetSlot handles GET /api/slots/{id} (public)
func (h *SlotHandler) GetSlot(w http.ResponseWriter, r *http.Request) {
	slotID := chi.URLParam(r, "id")
	if slotID == "" {
		utils.ResponseBadRequest(w, "Slot ID is required", nil)
		return
	}

	slot, err := h.service.GetSlot(r.Context(), slotID)
	if err != nil {
		handleServiceError(h.log, w, err, "get slot")
		return
	}

	utils.ResponseSuccess(w, "success", slot)
}

// ListSlots handles GET /api/lots/{id}/slots (public)
func (h *SlotHandler) ListSlots(w http.ResponseWriter, r *http.Request) {
	lotID := chi.URLParam(r, "id")
	if lotID == "" {
		utils.ResponseBadRequest(w, "Parking lot ID is required", nil)
		return
	}

	slots, err := h.service.ListSlots(r.Context(), lotID, r.URL.Query().Get("status"))
	if err != nil {
		handleServiceError(h.log, w, err, "list slots")
		return
	}

	utils.ResponseSuccess(w, "success", slots)
}

// UpdateStatus handles PUT /api/slots/{id}/status (admin or owner)
func (h *SlotHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	slotID := chi.URLParam(r, "id")
	if slotID == "" {
		utils.ResponseBadRequest(w, "Slot ID is required", nil)
		return
	}

	var req request.UpdateSlotStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	slot, err := h.service.SetStatus(r.Context(), actor, slotID, req.Status)
	if err != nil {
		handleServiceError(h.log, w, err, "update slot status")
		return
	}

	utils.ResponseSuccess(w, "success", slot)
}
