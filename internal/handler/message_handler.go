package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/okothkongo/campaign-dispatch-backend/internal/service"
)

// MessageHandler handles single-channel message HTTP requests
type MessageHandler struct {
	messageService service.MessageService
	logger         *slog.Logger
}

// NewMessageHandler creates a new message handler
func NewMessageHandler(messageService service.MessageService, logger *slog.Logger) *MessageHandler {
	return &MessageHandler{
		messageService: messageService,
		logger:         logger,
	}
}

// SendSMS handles POST /messages/send
func (h *MessageHandler) SendSMS(w http.ResponseWriter, r *http.Request) {
	var req service.SendSMSRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON format")
		return
	}

	result, err := h.messageService.SendSMS(r.Context(), &req)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondSuccess(w, result)
}

// SendEmail handles POST /messages/email
func (h *MessageHandler) SendEmail(w http.ResponseWriter, r *http.Request) {
	var req service.SendEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON format")
		return
	}

	result, err := h.messageService.SendEmail(r.Context(), &req)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondSuccess(w, result)
}

// SendBulkEmail handles POST /messages/email/bulk
func (h *MessageHandler) SendBulkEmail(w http.ResponseWriter, r *http.Request) {
	var req service.BulkEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON format")
		return
	}

	result, err := h.messageService.SendBulkEmail(r.Context(), &req)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondSuccess(w, result)
}
