// Package worker parses worker command flags and launches the sync agent
// runtime.
package worker

import (
	"context"
	"flag"
	"time"

	entrypoint "github.com/stridebound/stridebound/internal/platform/cmd"
	workerserver "github.com/stridebound/stridebound/internal/services/worker/app"
)

// Config holds worker command configuration.
type Config struct {
	UserID             string        `env:"STRIDEBOUND_WORKER_USER_ID"`
	HealthFile         string        `env:"STRIDEBOUND_WORKER_HEALTH_FILE"`
	ProgressionBaseURL string        `env:"STRIDEBOUND_PROGRESSION_BASE_URL" envDefault:"http://localhost:8081"`
	PollInterval       time.Duration `env:"STRIDEBOUND_WORKER_POLL_INTERVAL" envDefault:"1m"`
	MinSyncInterval    time.Duration `env:"STRIDEBOUND_WORKER_MIN_SYNC_INTERVAL"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.UserID, "user-id", cfg.UserID, "The user whose steps the agent syncs")
	fs.StringVar(&cfg.HealthFile, "health-file", cfg.HealthFile, "Path to the health provider step file")
	fs.StringVar(&cfg.ProgressionBaseURL, "progression-url", cfg.ProgressionBaseURL, "The progression API base URL")
	fs.DurationVar(&cfg.PollInterval, "poll-interval", cfg.PollInterval, "Step file poll interval")
	fs.DurationVar(&cfg.MinSyncInterval, "min-sync-interval", cfg.MinSyncInterval, "Minimum delay between sync requests")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the sync agent runtime.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceWorker, func(context.Context) error {
		return workerserver.Run(ctx, workerserver.RuntimeConfig{
			UserID:             cfg.UserID,
			HealthFile:         cfg.HealthFile,
			ProgressionBaseURL: cfg.ProgressionBaseURL,
			PollInterval:       cfg.PollInterval,
			MinSyncInterval:    cfg.MinSyncInterval,
		})
	})
}
