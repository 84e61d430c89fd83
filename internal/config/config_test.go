package config

import "testing"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.API.Port != 8080 {
		t.Errorf("API.Port = %d, want 8080", cfg.API.Port)
	}
	if cfg.Queue.QueueName != "campaign_runs" {
		t.Errorf("Queue.QueueName = %q, want %q", cfg.Queue.QueueName, "campaign_runs")
	}
	// Async execution is on unless explicitly switched off.
	if !cfg.Queue.AsyncEnabled {
		t.Errorf("Queue.AsyncEnabled = false, want true by default")
	}
	if cfg.Dispatch.DelayBetweenContactsMs != 3000 {
		t.Errorf("Dispatch.DelayBetweenContactsMs = %d, want 3000", cfg.Dispatch.DelayBetweenContactsMs)
	}
}

func TestLoad_AsyncDisabled(t *testing.T) {
	t.Setenv("ASYNC_ENABLED", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Queue.AsyncEnabled {
		t.Errorf("Queue.AsyncEnabled = true, want false when ASYNC_ENABLED=false")
	}
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("API_PORT", "not-a-number")

	if _, err := Load(); err == nil {
		t.Error("Load() should fail on a non-numeric API_PORT")
	}
}
