package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/okothkongo/campaign-dispatch-backend/internal/models"
	"github.com/okothkongo/campaign-dispatch-backend/internal/queue"
	"github.com/okothkongo/campaign-dispatch-backend/internal/repository"
)

// RunService handles asynchronous campaign runs: persisted submissions
// executed later by the worker
type RunService interface {
	Queue(ctx context.Context, req *models.ExecuteRequest) (*QueueRunResult, error)
	GetRun(ctx context.Context, id string) (*models.CampaignRun, error)
	ListRuns(ctx context.Context, limit int) ([]*models.CampaignRun, error)
}

type runService struct {
	runRepo     repository.RunRepository
	queueClient queue.Client
	logger      *slog.Logger
}

// NewRunService creates a new run service
func NewRunService(runRepo repository.RunRepository, queueClient queue.Client, logger *slog.Logger) RunService {
	return &runService{
		runRepo:     runRepo,
		queueClient: queueClient,
		logger:      logger,
	}
}

// Queue validates the campaign request, stores it as a run and enqueues it
// for the worker
func (s *runService) Queue(ctx context.Context, req *models.ExecuteRequest) (*QueueRunResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal campaign request: %w", err)
	}

	run := &models.CampaignRun{
		ID:      uuid.NewString(),
		Status:  models.RunStatusQueued,
		Request: data,
	}

	if err := s.runRepo.Create(ctx, run); err != nil {
		s.logger.Error("failed to store campaign run",
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to store campaign run: %w", err)
	}

	if err := s.queueClient.Publish(ctx, &models.RunJob{RunID: run.ID}); err != nil {
		s.logger.Error("failed to enqueue campaign run",
			slog.String("run_id", run.ID),
			slog.String("error", err.Error()),
		)

		errMsg := err.Error()
		if updateErr := s.runRepo.UpdateStatus(ctx, run.ID, models.RunStatusFailed, &errMsg); updateErr != nil {
			s.logger.Error("failed to mark run as failed",
				slog.String("run_id", run.ID),
				slog.String("error", updateErr.Error()),
			)
		}

		return nil, fmt.Errorf("failed to enqueue campaign run: %w", err)
	}

	s.logger.Info("campaign run queued",
		slog.String("run_id", run.ID),
		slog.Int("contacts", len(req.Contacts)),
	)

	return &QueueRunResult{RunID: run.ID, Status: models.RunStatusQueued}, nil
}

// GetRun retrieves a stored campaign run with its results, if finished
func (s *runService) GetRun(ctx context.Context, id string) (*models.CampaignRun, error) {
	return s.runRepo.GetByID(ctx, id)
}

// ListRuns retrieves the most recent campaign runs
func (s *runService) ListRuns(ctx context.Context, limit int) ([]*models.CampaignRun, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.runRepo.List(ctx, limit)
}
