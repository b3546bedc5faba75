package worker

import (
	"flag"
	"testing"
	"time"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("worker", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.ProgressionBaseURL != "http://localhost:8081" {
		t.Fatalf("expected default progression url, got %q", cfg.ProgressionBaseURL)
	}
	if cfg.PollInterval != time.Minute {
		t.Fatalf("expected default poll interval 1m, got %v", cfg.PollInterval)
	}
}

func TestParseConfigOverrides(t *testing.T) {
	fs := flag.NewFlagSet("worker", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{
		"-user-id", "user-walker",
		"-health-file", "/tmp/steps.json",
		"-poll-interval", "15s",
	})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.UserID != "user-walker" {
		t.Fatalf("expected user override, got %q", cfg.UserID)
	}
	if cfg.HealthFile != "/tmp/steps.json" {
		t.Fatalf("expected health file override, got %q", cfg.HealthFile)
	}
	if cfg.PollInterval != 15*time.Second {
		t.Fatalf("expected poll interval 15s, got %v", cfg.PollInterval)
	}
}
