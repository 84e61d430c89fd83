package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	API       APIConfig
	Database  DatabaseConfig
	Queue     QueueConfig
	Worker    WorkerConfig
	Providers ProvidersConfig
	Dispatch  DispatchConfig
}

// APIConfig holds API server configuration
type APIConfig struct {
	Port int
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// QueueConfig holds queue configuration (Redis)
type QueueConfig struct {
	RedisURL  string
	QueueName string

	// AsyncEnabled gates the queue/storage wiring in the API process.
	// When false the API starts without Postgres or Redis and serves
	// synchronous campaigns only.
	AsyncEnabled bool
}

// WorkerConfig holds worker configuration
type WorkerConfig struct {
	Concurrency int
}

// ProviderConfig holds the connection settings for one delivery gateway
type ProviderConfig struct {
	BaseURL       string
	APIKey        string
	RatePerSecond float64
}

// ProvidersConfig holds the settings for all three delivery gateways
type ProvidersConfig struct {
	Voice ProviderConfig
	SMS   ProviderConfig
	Email ProviderConfig

	// UseMocks swaps the gateway clients for simulated senders (dev/test).
	UseMocks bool
}

// DispatchConfig holds the environment-derived campaign defaults
type DispatchConfig struct {
	FromPhone              string
	FromEmail              string
	FromName               string
	DelayBetweenContactsMs int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	apiPort, err := strconv.Atoi(getEnv("API_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid API_PORT: %w", err)
	}

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	workerConcurrency, err := strconv.Atoi(getEnv("WORKER_CONCURRENCY", "2"))
	if err != nil {
		return nil, fmt.Errorf("invalid WORKER_CONCURRENCY: %w", err)
	}

	delayMs, err := strconv.Atoi(getEnv("DELAY_BETWEEN_CONTACTS_MS", "3000"))
	if err != nil {
		return nil, fmt.Errorf("invalid DELAY_BETWEEN_CONTACTS_MS: %w", err)
	}

	senderRate, err := strconv.ParseFloat(getEnv("SENDER_RATE_PER_SECOND", "5"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid SENDER_RATE_PER_SECOND: %w", err)
	}

	return &Config{
		API: APIConfig{
			Port: apiPort,
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("DB_USER", "campaign_dispatch"),
			Password: getEnv("DB_PASSWORD", "campaign_dispatch"),
			DBName:   getEnv("DB_NAME", "campaign_dispatch"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Queue: QueueConfig{
			RedisURL:     getEnv("REDIS_URL", "redis://localhost:6379/0"),
			QueueName:    getEnv("QUEUE_NAME", "campaign_runs"),
			AsyncEnabled: getEnv("ASYNC_ENABLED", "true") == "true",
		},
		Worker: WorkerConfig{
			Concurrency: workerConcurrency,
		},
		Providers: ProvidersConfig{
			Voice: ProviderConfig{
				BaseURL:       getEnv("VOICE_API_URL", "https://voice.gateway.local/v1"),
				APIKey:        os.Getenv("VOICE_API_KEY"),
				RatePerSecond: senderRate,
			},
			SMS: ProviderConfig{
				BaseURL:       getEnv("SMS_API_URL", "https://sms.gateway.local/v1"),
				APIKey:        os.Getenv("SMS_API_KEY"),
				RatePerSecond: senderRate,
			},
			Email: ProviderConfig{
				BaseURL:       getEnv("EMAIL_API_URL", "https://mail.gateway.local/api/v1"),
				APIKey:        os.Getenv("EMAIL_API_KEY"),
				RatePerSecond: senderRate,
			},
			UseMocks: getEnv("USE_MOCK_SENDERS", "false") == "true",
		},
		Dispatch: DispatchConfig{
			FromPhone:              getEnv("DEFAULT_FROM_PHONE", "+15550000000"),
			FromEmail:              getEnv("DEFAULT_FROM_EMAIL", "noreply@example.com"),
			FromName:               getEnv("DEFAULT_FROM_NAME", "Campaign Dispatch"),
			DelayBetweenContactsMs: delayMs,
		},
	}, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
