package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/okothkongo/campaign-dispatch-backend/internal/config"
	"github.com/okothkongo/campaign-dispatch-backend/internal/db"
	"github.com/okothkongo/campaign-dispatch-backend/internal/models"
	"github.com/okothkongo/campaign-dispatch-backend/internal/queue"
	"github.com/okothkongo/campaign-dispatch-backend/internal/repository"
	"github.com/okothkongo/campaign-dispatch-backend/internal/sender"
	"github.com/okothkongo/campaign-dispatch-backend/internal/service"
	"github.com/okothkongo/campaign-dispatch-backend/internal/worker"
)

func main() {
	// Initialize logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	logger.Info("starting campaign dispatch worker")

	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file found, relying on OS environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Connect to database
	database, err := db.New(db.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		logger.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.Close()

	logger.Info("connected to database")

	// Connect to Redis queue
	queueClient, err := queue.NewRedisClient(queue.RedisConfig{
		URL:       cfg.Queue.RedisURL,
		QueueName: cfg.Queue.QueueName,
	}, logger)
	if err != nil {
		logger.Error("failed to connect to Redis", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer queueClient.Close()

	// Initialize senders and executor
	callSender, smsSender, emailSender := buildSenders(cfg, logger)
	executor := service.NewExecutor(callSender, smsSender, emailSender, logger)

	runRepo := repository.NewRunRepository(database.DB)

	processor := worker.NewRunProcessor(
		runRepo,
		executor,
		worker.Defaults{
			FromPhone:            cfg.Dispatch.FromPhone,
			FromEmail:            cfg.Dispatch.FromEmail,
			FromName:             cfg.Dispatch.FromName,
			DelayBetweenContacts: cfg.Dispatch.DelayBetweenContactsMs,
		},
		logger,
	)

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start consuming run jobs
	consumerErrors := make(chan error, 1)
	go func() {
		logger.Info("starting run consumer",
			slog.Int("concurrency", cfg.Worker.Concurrency),
		)

		handler := func(ctx context.Context, job *models.RunJob) error {
			return processor.Process(ctx, job)
		}

		consumerErrors <- queueClient.Consume(ctx, handler, cfg.Worker.Concurrency)
	}()

	// Wait for interrupt signal or consumer error
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-consumerErrors:
		if err != nil && err != context.Canceled {
			logger.Error("consumer error", slog.String("error", err.Error()))
			os.Exit(1)
		}

	case sig := <-quit:
		logger.Info("shutting down worker", slog.String("signal", sig.String()))

		// Cancel context to stop the consumer
		cancel()

		// Give in-flight runs time to wind down
		time.Sleep(5 * time.Second)

		logger.Info("worker stopped gracefully")
	}
}

// buildSenders constructs the three channel capabilities from config,
// swapping in simulated senders when mocks are enabled
func buildSenders(cfg *config.Config, logger *slog.Logger) (sender.CallSender, sender.SmsSender, sender.EmailSender) {
	if cfg.Providers.UseMocks {
		logger.Info("using mock senders")
		mock := sender.NewMockSender(0.92)
		return mock, mock, sender.NewMockEmailSender(0.92)
	}

	return sender.NewVoiceClient(providerConfig(cfg.Providers.Voice), logger),
		sender.NewSmsClient(providerConfig(cfg.Providers.SMS), logger),
		sender.NewEmailClient(providerConfig(cfg.Providers.Email), logger)
}

func providerConfig(p config.ProviderConfig) sender.ProviderConfig {
	return sender.ProviderConfig{
		BaseURL:       p.BaseURL,
		APIKey:        p.APIKey,
		RatePerSecond: p.RatePerSecond,
	}
}
