package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// WebhookHandler receives inbound-message and delivery-status callbacks from
// the providers. Callbacks are acknowledged with 200 regardless of payload;
// a non-2xx answer would only make the provider retry.
type WebhookHandler struct {
	logger *slog.Logger
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{logger: logger}
}

// Inbound handles POST /webhook/message/inbound
func (h *WebhookHandler) Inbound(w http.ResponseWriter, r *http.Request) {
	h.logEvent("inbound message received", r)
	respondSuccess(w, map[string]bool{"success": true})
}

// Status handles POST /webhook/message/status
func (h *WebhookHandler) Status(w http.ResponseWriter, r *http.Request) {
	h.logEvent("delivery status received", r)
	respondSuccess(w, map[string]bool{"success": true})
}

func (h *WebhookHandler) logEvent(msg string, r *http.Request) {
	var payload map[string]any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.logger.Warn(msg,
			slog.String("remote", r.RemoteAddr),
			slog.String("error", "unparseable payload"),
		)
		return
	}

	h.logger.Info(msg,
		slog.String("remote", r.RemoteAddr),
		slog.Any("payload", payload),
	)
}
