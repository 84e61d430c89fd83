package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/okothkongo/campaign-dispatch-backend/internal/config"
	"github.com/okothkongo/campaign-dispatch-backend/internal/db"
	"github.com/okothkongo/campaign-dispatch-backend/internal/handler"
	"github.com/okothkongo/campaign-dispatch-backend/internal/queue"
	"github.com/okothkongo/campaign-dispatch-backend/internal/repository"
	"github.com/okothkongo/campaign-dispatch-backend/internal/sender"
	"github.com/okothkongo/campaign-dispatch-backend/internal/service"
)

func main() {
	// Initialize logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	logger.Info("starting campaign dispatch API server")

	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file found, relying on OS environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Database and queue back the async run pipeline only. With async
	// disabled the API starts without them and serves sync campaigns.
	var (
		sqlDB       *sql.DB
		queueClient queue.Client
		runSvc      service.RunService
	)
	if cfg.Queue.AsyncEnabled {
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
		sqlDB = database.DB

		logger.Info("connected to database")

		redisClient, err := queue.NewRedisClient(queue.RedisConfig{
			URL:       cfg.Queue.RedisURL,
			QueueName: cfg.Queue.QueueName,
		}, logger)
		if err != nil {
			logger.Error("failed to connect to Redis", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer redisClient.Close()
		queueClient = redisClient

		runRepo := repository.NewRunRepository(database.DB)
		runSvc = service.NewRunService(runRepo, redisClient, logger)
	} else {
		logger.Info("asynchronous execution disabled, serving sync campaigns only")
	}

	// Initialize senders
	callSender, smsSender, emailSender := buildSenders(cfg, logger)

	// Initialize services
	defaults := service.SenderDefaults{
		FromPhone: cfg.Dispatch.FromPhone,
		FromEmail: cfg.Dispatch.FromEmail,
		FromName:  cfg.Dispatch.FromName,
	}
	executor := service.NewExecutor(callSender, smsSender, emailSender, logger)
	messageSvc := service.NewMessageService(callSender, smsSender, emailSender, defaults, logger)

	// Initialize handlers
	campaignHandler := handler.NewCampaignHandler(executor, messageSvc, runSvc, cfg.Dispatch, logger)
	messageHandler := handler.NewMessageHandler(messageSvc, logger)
	webhookHandler := handler.NewWebhookHandler(logger)
	healthHandler := handler.NewHealthHandler(sqlDB, queueClient, logger)

	// Setup router
	r := chi.NewRouter()

	r.Use(handler.RecoveryMiddleware(logger))
	r.Use(handler.LoggingMiddleware(logger))
	r.Use(handler.CORSMiddleware)

	r.Get("/health", healthHandler.Health)

	r.Route("/campaign", func(r chi.Router) {
		r.Post("/execute", campaignHandler.Execute)
		r.Post("/call", campaignHandler.Call)
		r.Post("/queue", campaignHandler.Queue)
		r.Get("/runs", campaignHandler.ListRuns)
		r.Get("/runs/{id}", campaignHandler.GetRun)
	})

	r.Route("/messages", func(r chi.Router) {
		r.Post("/send", messageHandler.SendSMS)
		r.Post("/email", messageHandler.SendEmail)
		r.Post("/email/bulk", messageHandler.SendBulkEmail)
	})

	r.Route("/webhook/message", func(r chi.Router) {
		r.Post("/inbound", webhookHandler.Inbound)
		r.Post("/status", webhookHandler.Status)
	})

	// Create server
	addr := fmt.Sprintf(":%d", cfg.API.Port)
	server := &http.Server{
		Addr:        addr,
		Handler:     r,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
		// No write timeout: synchronous campaigns legitimately run for
		// minutes when pacing large contact lists.
	}

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("API server listening", slog.String("addr", addr))
		serverErrors <- server.ListenAndServe()
	}()

	// Wait for interrupt signal or server error
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)

	case sig := <-quit:
		logger.Info("shutting down server", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("server shutdown failed", slog.String("error", err.Error()))
			os.Exit(1)
		}

		logger.Info("server stopped gracefully")
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
