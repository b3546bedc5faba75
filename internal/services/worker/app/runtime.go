// Package app wires the sync agent runtime.
package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/stridebound/stridebound/internal/platform/logging"
	progressionclient "github.com/stridebound/stridebound/internal/services/progression/client"
	"github.com/stridebound/stridebound/internal/services/worker/agent"
)

// RuntimeConfig holds the sync agent runtime settings.
type RuntimeConfig struct {
	UserID             string
	HealthFile         string
	ProgressionBaseURL string
	PollInterval       time.Duration
	MinSyncInterval    time.Duration
}

func (cfg RuntimeConfig) validate() error {
	if strings.TrimSpace(cfg.UserID) == "" {
		return fmt.Errorf("worker user id is required")
	}
	if strings.TrimSpace(cfg.HealthFile) == "" {
		return fmt.Errorf("worker health file is required")
	}
	if strings.TrimSpace(cfg.ProgressionBaseURL) == "" {
		return fmt.Errorf("progression base url is required")
	}
	return nil
}

// Run starts the sync agent until context cancellation.
func Run(ctx context.Context, cfg RuntimeConfig) error {
	if err := cfg.validate(); err != nil {
		return err
	}
	logger := logging.New("worker")

	syncAgent, err := agent.New(agent.Config{
		UserID:          cfg.UserID,
		HealthFile:      cfg.HealthFile,
		PollInterval:    cfg.PollInterval,
		MinSyncInterval: cfg.MinSyncInterval,
	}, progressionclient.New(cfg.ProgressionBaseURL), logger)
	if err != nil {
		return err
	}
	return syncAgent.Run(ctx)
}
