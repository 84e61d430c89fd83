package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/okothkongo/campaign-dispatch-backend/internal/models"
)

// redisClient implements Client using a Redis list
type redisClient struct {
	client    *redis.Client
	queueName string
	logger    *slog.Logger
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	URL       string
	QueueName string
}

// NewRedisClient creates a new Redis queue client
func NewRedisClient(cfg RedisConfig, logger *slog.Logger) (Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("connected to Redis",
		slog.String("addr", opts.Addr),
		slog.String("queue", cfg.QueueName),
	)

	return &redisClient{
		client:    client,
		queueName: cfg.QueueName,
		logger:    logger,
	}, nil
}

// Publish enqueues a campaign run job
func (c *redisClient) Publish(ctx context.Context, job *models.RunJob) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}

	// LPUSH paired with BRPOP keeps FIFO order.
	if err := c.client.LPush(ctx, c.queueName, data).Err(); err != nil {
		return fmt.Errorf("failed to push job to queue: %w", err)
	}

	c.logger.Debug("run job published",
		slog.String("run_id", job.RunID),
	)

	return nil
}

// Consume receives run jobs from the queue and processes them with the
// handler. Campaign runs are long-lived (they pace between contacts), so
// concurrency is deliberately small.
func (c *redisClient) Consume(ctx context.Context, handler RunHandler, concurrency int) error {
	if concurrency < 1 {
		concurrency = 1
	}
	if concurrency > 5 {
		concurrency = 5
	}

	c.logger.Info("starting run consumer",
		slog.String("queue", c.queueName),
		slog.Int("concurrency", concurrency),
	)

	// Semaphore to limit concurrent runs
	semaphore := make(chan struct{}, concurrency)

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("consumer stopped by context, waiting for in-flight runs to complete")
			for i := 0; i < concurrency; i++ {
				semaphore <- struct{}{}
			}
			c.logger.Info("all in-flight runs completed")
			return ctx.Err()

		default:
			// Blocking pop (blocks for 1 second if empty)
			result, err := c.client.BRPop(ctx, 1*time.Second, c.queueName).Result()
			if err != nil {
				if err == redis.Nil {
					continue
				}
				if err == context.Canceled || err == context.DeadlineExceeded {
					c.logger.Info("consumer stopped by context")
					for i := 0; i < concurrency; i++ {
						semaphore <- struct{}{}
					}
					return err
				}
				c.logger.Error("failed to pop from queue", slog.String("error", err.Error()))
				// Avoid a tight loop on persistent errors.
				time.Sleep(1 * time.Second)
				continue
			}

			// BRPOP returns [queueName, value]
			if len(result) < 2 {
				c.logger.Error("unexpected BRPOP result format")
				continue
			}

			var job models.RunJob
			if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
				c.logger.Error("failed to unmarshal run job",
					slog.String("error", err.Error()),
					slog.String("data", result[1]),
				)
				continue
			}

			semaphore <- struct{}{}

			go func(job models.RunJob) {
				defer func() { <-semaphore }()

				if err := handler(ctx, &job); err != nil {
					c.logger.Error("handler failed to process run",
						slog.String("run_id", job.RunID),
						slog.String("error", err.Error()),
					)
				}
			}(job)
		}
	}
}

// Close closes the Redis connection
func (c *redisClient) Close() error {
	c.logger.Info("closing Redis connection")
	return c.client.Close()
}

// Health checks if Redis is healthy
func (c *redisClient) Health(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("Redis health check failed: %w", err)
	}
	return nil
}
