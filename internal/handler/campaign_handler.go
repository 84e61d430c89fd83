package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/okothkongo/campaign-dispatch-backend/internal/config"
	"github.com/okothkongo/campaign-dispatch-backend/internal/models"
	"github.com/okothkongo/campaign-dispatch-backend/internal/service"
)

// CampaignHandler handles campaign HTTP requests
type CampaignHandler struct {
	executor       service.Executor
	messageService service.MessageService
	runService     service.RunService
	dispatch       config.DispatchConfig
	logger         *slog.Logger
}

// NewCampaignHandler creates a new campaign handler. runService may be nil
// when the process runs without queue/storage (sync-only mode).
func NewCampaignHandler(
	executor service.Executor,
	messageService service.MessageService,
	runService service.RunService,
	dispatch config.DispatchConfig,
	logger *slog.Logger,
) *CampaignHandler {
	return &CampaignHandler{
		executor:       executor,
		messageService: messageService,
		runService:     runService,
		dispatch:       dispatch,
		logger:         logger,
	}
}

// Execute handles POST /campaign/execute. The response body always carries
// the campaign result shape: full results on success, or an error plus any
// partial results on failure; progress is never discarded.
func (h *CampaignHandler) Execute(w http.ResponseWriter, r *http.Request) {
	var req models.ExecuteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, models.ExecuteResponse{
			Success: false,
			Error:   "Invalid JSON format",
		})
		return
	}

	h.applyDefaults(&req)

	resp, err := h.executor.Execute(r.Context(), &req)
	if err != nil {
		// Validation failure: no I/O happened.
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == "INVALID_REQUEST" {
			respondJSON(w, http.StatusBadRequest, models.ExecuteResponse{
				Success: false,
				Error:   appErr.Message,
			})
			return
		}
		handleError(w, err, h.logger)
		return
	}

	if !resp.Success {
		respondJSON(w, http.StatusInternalServerError, resp)
		return
	}

	respondSuccess(w, resp)
}

// Call handles POST /campaign/call, a single ad-hoc voice call
func (h *CampaignHandler) Call(w http.ResponseWriter, r *http.Request) {
	var req service.SendCallRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON format")
		return
	}

	result, err := h.messageService.SendCall(r.Context(), &req)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondSuccess(w, result)
}

// Queue handles POST /campaign/queue, accepting a campaign for asynchronous
// execution by the worker
func (h *CampaignHandler) Queue(w http.ResponseWriter, r *http.Request) {
	if h.runService == nil {
		respondError(w, http.StatusServiceUnavailable, "NOT_CONFIGURED", "Asynchronous execution is not configured")
		return
	}

	var req models.ExecuteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON format")
		return
	}

	h.applyDefaults(&req)

	result, err := h.runService.Queue(r.Context(), &req)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondAccepted(w, result)
}

// GetRun handles GET /campaign/runs/{id}
func (h *CampaignHandler) GetRun(w http.ResponseWriter, r *http.Request) {
	if h.runService == nil {
		respondError(w, http.StatusServiceUnavailable, "NOT_CONFIGURED", "Asynchronous execution is not configured")
		return
	}

	id := chi.URLParam(r, "id")

	run, err := h.runService.GetRun(r.Context(), id)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondSuccess(w, run)
}

// ListRuns handles GET /campaign/runs
func (h *CampaignHandler) ListRuns(w http.ResponseWriter, r *http.Request) {
	if h.runService == nil {
		respondError(w, http.StatusServiceUnavailable, "NOT_CONFIGURED", "Asynchronous execution is not configured")
		return
	}

	runs, err := h.runService.ListRuns(r.Context(), 20)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondSuccess(w, runs)
}

func (h *CampaignHandler) applyDefaults(req *models.ExecuteRequest) {
	req.ApplyDefaults(
		h.dispatch.FromPhone,
		h.dispatch.FromEmail,
		h.dispatch.FromName,
		h.dispatch.DelayBetweenContactsMs,
	)
}
