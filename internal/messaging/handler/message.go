package handler

import (
	"encoding/json"
	"net/http"

	"guidely/internal/messaging/service"
	httputil "guidely/pkg/http"
	"guidely/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

type MessageHandler struct {
	service service.MessagingService
	log     *logger.Logger
}

func NewMessageHandler(service service.MessagingService, log *logger.Logger) *MessageHandler {
	return &MessageHandler{
		service: service,
		log:     log,
	}
}

func (h *MessageHandler) History(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()
	userID := query.Get("userId")
	contactID := query.Get("contactId")

	messages, err := h.service.History(r.Context(), userID, contactID)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "History", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, messages); err != nil {
		h.log.Error("failed to write success response", "handler", "History", "operation", "WriteSuccess", "error", err)
	}
}

func (h *MessageHandler) Conversations(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := ps.ByName("userId")

	conversations, err := h.service.Conversations(r.Context(), userID)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Conversations", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, conversations); err != nil {
		h.log.Error("failed to write success response", "handler", "Conversations", "operation", "WriteSuccess", "error", err)
	}
}

type markReadRequest struct {
	UserID    string `json:"userId"`
	ContactID string `json:"contactId"`
}

func (h *MessageHandler) MarkRead(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req markReadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "MarkRead", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.MarkRead(r.Context(), req.UserID, req.ContactID); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "MarkRead", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *MessageHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/messages", h.History)
	router.GET("/api/v1/messages/conversations/:userId", h.Conversations)
	router.POST("/api/v1/messages/read", h.MarkRead)
}
