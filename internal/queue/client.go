package queue

import (
	"context"

	"github.com/okothkongo/campaign-dispatch-backend/internal/models"
)

// Client defines the interface for queue operations
type Client interface {
	// Publish enqueues a campaign run job
	Publish(ctx context.Context, job *models.RunJob) error

	// Consume receives run jobs from the queue and processes them with the
	// handler; concurrency controls how many jobs run simultaneously
	Consume(ctx context.Context, handler RunHandler, concurrency int) error

	// Close closes the queue connection
	Close() error

	// Health checks if the queue is healthy
	Health(ctx context.Context) error
}

// RunHandler is a function that processes one campaign run job
type RunHandler func(ctx context.Context, job *models.RunJob) error
