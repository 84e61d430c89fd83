package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/okothkongo/campaign-dispatch-backend/internal/models"
	"github.com/okothkongo/campaign-dispatch-backend/internal/repository"
	"github.com/okothkongo/campaign-dispatch-backend/internal/service"
)

// Defaults are the environment-derived values injected into a stored request
// before execution, mirroring what the API does for synchronous campaigns.
type Defaults struct {
	FromPhone            string
	FromEmail            string
	FromName             string
	DelayBetweenContacts int
}

// RunProcessor executes queued campaign runs pulled from the queue
type RunProcessor struct {
	runRepo  repository.RunRepository
	executor service.Executor
	defaults Defaults
	logger   *slog.Logger
}

// NewRunProcessor creates a new campaign run processor
func NewRunProcessor(
	runRepo repository.RunRepository,
	executor service.Executor,
	defaults Defaults,
	logger *slog.Logger,
) *RunProcessor {
	return &RunProcessor{
		runRepo:  runRepo,
		executor: executor,
		defaults: defaults,
		logger:   logger,
	}
}

// Process handles a single run job: load the stored request, execute the
// campaign and persist the aggregate response
func (p *RunProcessor) Process(ctx context.Context, job *models.RunJob) error {
	run, err := p.runRepo.GetByID(ctx, job.RunID)
	if err != nil {
		p.logger.Error("failed to fetch campaign run",
			slog.String("run_id", job.RunID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to fetch campaign run: %w", err)
	}

	// Requeued or duplicated jobs must not re-execute a finished run.
	if run.Status != models.RunStatusQueued {
		p.logger.Warn("skipping run in unexpected status",
			slog.String("run_id", run.ID),
			slog.String("status", run.Status),
		)
		return nil
	}

	var req models.ExecuteRequest
	if err := json.Unmarshal(run.Request, &req); err != nil {
		errMsg := fmt.Sprintf("stored request is not valid JSON: %v", err)
		return p.markFailed(ctx, run.ID, errMsg)
	}

	req.ApplyDefaults(p.defaults.FromPhone, p.defaults.FromEmail, p.defaults.FromName, p.defaults.DelayBetweenContacts)

	if err := p.runRepo.UpdateStatus(ctx, run.ID, models.RunStatusRunning, nil); err != nil {
		p.logger.Error("failed to mark run as running",
			slog.String("run_id", run.ID),
			slog.String("error", err.Error()),
		)
		return err
	}

	p.logger.Info("executing campaign run",
		slog.String("run_id", run.ID),
		slog.Int("contacts", len(req.Contacts)),
	)

	resp, err := p.executor.Execute(ctx, &req)
	if err != nil {
		// Validation failed against a stored request; nothing to retry.
		return p.markFailed(ctx, run.ID, err.Error())
	}

	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("failed to marshal run response: %w", err)
	}

	status := models.RunStatusCompleted
	if !resp.Success {
		status = models.RunStatusFailed
	}

	// Shutdown cancels the job context mid-campaign; the job is already
	// popped from the queue, so the final state (including any partial
	// results) must still reach the store or the run would be stuck in
	// running forever.
	saveCtx, cancel := terminalContext(ctx)
	defer cancel()

	if err := p.runRepo.SaveResponse(saveCtx, run.ID, status, data); err != nil {
		p.logger.Error("failed to save run response",
			slog.String("run_id", run.ID),
			slog.String("error", err.Error()),
		)
		return err
	}

	p.logger.Info("campaign run finished",
		slog.String("run_id", run.ID),
		slog.String("status", status),
		slog.Int("results", len(resp.Results)+len(resp.PartialResults)),
	)

	return nil
}

// markFailed records a terminal failure for a run
func (p *RunProcessor) markFailed(ctx context.Context, runID, errMsg string) error {
	updateCtx, cancel := terminalContext(ctx)
	defer cancel()

	if err := p.runRepo.UpdateStatus(updateCtx, runID, models.RunStatusFailed, &errMsg); err != nil {
		return fmt.Errorf("failed to mark run as failed: %w", err)
	}
	return nil
}

// terminalContext detaches from the job context for terminal status writes,
// which must survive worker shutdown
func terminalContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
}
