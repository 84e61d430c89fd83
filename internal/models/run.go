package models

import (
	"encoding/json"
	"time"
)

// Campaign run status constants
const (
	RunStatusQueued    = "queued"
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// CampaignRun is a persisted asynchronous campaign execution. The request is
// stored verbatim at submission time; the response is filled in by the worker
// once execution finishes.
type CampaignRun struct {
	ID        string          `json:"id"`
	Status    string          `json:"status"`
	Request   json.RawMessage `json:"request"`
	Response  json.RawMessage `json:"response,omitempty"`
	Error     *string         `json:"error,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// IsValidRunStatus checks if the run status is valid
func IsValidRunStatus(status string) bool {
	switch status {
	case RunStatusQueued, RunStatusRunning, RunStatusCompleted, RunStatusFailed:
		return true
	default:
		return false
	}
}

// RunJob is the queue payload pointing the worker at a stored campaign run
type RunJob struct {
	RunID string `json:"run_id"`
}
