package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/okothkongo/campaign-dispatch-backend/internal/models"
)

// RunRepository defines the interface for campaign run persistence
type RunRepository interface {
	Create(ctx context.Context, run *models.CampaignRun) error
	GetByID(ctx context.Context, id string) (*models.CampaignRun, error)
	UpdateStatus(ctx context.Context, id, status string, errMsg *string) error
	SaveResponse(ctx context.Context, id, status string, response []byte) error
	List(ctx context.Context, limit int) ([]*models.CampaignRun, error)
}

// runRepository implements RunRepository using PostgreSQL
type runRepository struct {
	db *sql.DB
}

// NewRunRepository creates a new campaign run repository
func NewRunRepository(db *sql.DB) RunRepository {
	return &runRepository{db: db}
}

// Create inserts a new campaign run
func (r *runRepository) Create(ctx context.Context, run *models.CampaignRun) error {
	query := `
		INSERT INTO campaign_runs (id, status, request)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowContext(
		ctx,
		query,
		run.ID,
		run.Status,
		run.Request,
	).Scan(&run.CreatedAt, &run.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create campaign run: %w", err)
	}

	return nil
}

// GetByID retrieves a campaign run by ID
func (r *runRepository) GetByID(ctx context.Context, id string) (*models.CampaignRun, error) {
	query := `
		SELECT id, status, request, response, error, created_at, updated_at
		FROM campaign_runs
		WHERE id = $1`

	run := &models.CampaignRun{}
	var response []byte
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&run.ID,
		&run.Status,
		&run.Request,
		&response,
		&run.Error,
		&run.CreatedAt,
		&run.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, models.ErrNotFoundWithMsg(fmt.Sprintf("campaign run %s not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get campaign run: %w", err)
	}

	run.Response = response

	return run, nil
}

// UpdateStatus updates a run's status and optional error message
func (r *runRepository) UpdateStatus(ctx context.Context, id, status string, errMsg *string) error {
	query := `
		UPDATE campaign_runs
		SET status = $2, error = $3, updated_at = NOW()
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, status, errMsg)
	if err != nil {
		return fmt.Errorf("failed to update run status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return models.ErrNotFoundWithMsg(fmt.Sprintf("campaign run %s not found", id))
	}

	return nil
}

// SaveResponse stores the execution response and final status for a run
func (r *runRepository) SaveResponse(ctx context.Context, id, status string, response []byte) error {
	query := `
		UPDATE campaign_runs
		SET status = $2, response = $3, updated_at = NOW()
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, status, response)
	if err != nil {
		return fmt.Errorf("failed to save run response: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return models.ErrNotFoundWithMsg(fmt.Sprintf("campaign run %s not found", id))
	}

	return nil
}

// List retrieves the most recent campaign runs
func (r *runRepository) List(ctx context.Context, limit int) ([]*models.CampaignRun, error) {
	query := `
		SELECT id, status, request, response, error, created_at, updated_at
		FROM campaign_runs
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list campaign runs: %w", err)
	}
	defer rows.Close()

	runs := make([]*models.CampaignRun, 0, limit)
	for rows.Next() {
		run := &models.CampaignRun{}
		var response []byte
		if err := rows.Scan(
			&run.ID,
			&run.Status,
			&run.Request,
			&response,
			&run.Error,
			&run.CreatedAt,
			&run.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan campaign run: %w", err)
		}
		run.Response = response
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate campaign runs: %w", err)
	}

	return runs, nil
}
