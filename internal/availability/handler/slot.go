package handler

import (
	"encoding/json"
	"net/http"

	"guidely/internal/availability/service"
	httputil "guidely/pkg/http"
	"guidely/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

type AvailabilityHandler struct {
	service service.AvailabilityService
	log     *logger.Logger
}

func NewAvailabilityHandler(service service.AvailabilityService, log *logger.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{
		service: service,
		log:     log,
	}
}

func (h *AvailabilityHandler) Get(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	guideID := ps.ByName("guideId")

	calendar, err := h.service.Get(r.Context(), guideID)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Get", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, calendar); err != nil {
		h.log.Error("failed to write success response", "handler", "Get", "operation", "WriteSuccess", "error", err)
	}
}

type setSlotRequest struct {
	GuideID string `json:"guideId"`
	Date    string `json:"date"`
	Status  string `json:"status"`
}

func (h *AvailabilityHandler) Set(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req setSlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Set", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.Set(r.Context(), req.GuideID, req.Date, req.Status); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Set", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *AvailabilityHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/availability/:guideId", h.Get)
	router.POST("/api/v1/availability", h.Set)
}
