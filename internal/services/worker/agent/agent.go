// Package agent runs the device-side sync loop. It watches the health
// export file, forwards step readings to the progression service for one
// configured user, and resets daily counters when the local day rolls over.
package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	apperrors "github.com/stridebound/stridebound/internal/platform/errors"
	progressionclient "github.com/stridebound/stridebound/internal/services/progression/client"
	"github.com/stridebound/stridebound/internal/services/progression/healthsync"
	"github.com/stridebound/stridebound/internal/services/worker/health"
)

const dayFormat = "2006-01-02"

// ProgressAPI is the slice of the progression client the agent needs.
type ProgressAPI interface {
	SyncSteps(ctx context.Context, userID string, steps int) (progressionclient.Progress, error)
	ResetDailyStats(ctx context.Context, userID string) (progressionclient.Progress, error)
	GetProgress(ctx context.Context, userID string) (progressionclient.Progress, error)
}

// Config holds the agent settings.
type Config struct {
	UserID          string
	HealthFile      string
	PollInterval    time.Duration
	MinSyncInterval time.Duration
}

// Agent drives the sync loop.
type Agent struct {
	cfg     Config
	client  ProgressAPI
	syncer  *healthsync.Syncer
	logger  *slog.Logger
	clock   func() time.Time
	lastDay string
}

// New creates an agent for the configured user.
func New(cfg Config, client ProgressAPI, logger *slog.Logger) (*Agent, error) {
	if strings.TrimSpace(cfg.UserID) == "" {
		return nil, errors.New("user id is required")
	}
	if strings.TrimSpace(cfg.HealthFile) == "" {
		return nil, errors.New("health file path is required")
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}

	source := health.NewFileSource(cfg.HealthFile)
	remote := remoteProgress{client: client, userID: cfg.UserID}
	syncer := healthsync.NewSyncer(source, remote, cfg.UserID, cfg.MinSyncInterval, logger)

	return &Agent{
		cfg:    cfg,
		client: client,
		syncer: syncer,
		logger: logger,
		clock:  time.Now,
	}, nil
}

// Run drives the sync loop until context cancellation. It wakes on health
// file writes and on a coarse poll ticker.
func (a *Agent) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the parent directory so rewrites that replace the file are
	// still observed.
	watchDir := filepath.Dir(a.cfg.HealthFile)
	if err := watcher.Add(watchDir); err != nil {
		return fmt.Errorf("watch %s: %w", watchDir, err)
	}

	ticker := time.NewTicker(a.cfg.PollInterval)
	defer ticker.Stop()

	a.logger.Info("sync agent started",
		"user_id", a.cfg.UserID,
		"health_file", a.cfg.HealthFile,
		"poll_interval", a.cfg.PollInterval,
	)
	a.Tick(ctx)

	target := filepath.Clean(a.cfg.HealthFile)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			a.Tick(ctx)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			a.logger.Warn("file watcher error", "error", err)
		case <-ticker.C:
			a.Tick(ctx)
		}
	}
}

// Tick runs one rollover check plus sync cycle.
func (a *Agent) Tick(ctx context.Context) {
	a.checkRollover(ctx)

	if _, err := a.syncer.Sync(ctx); err != nil {
		if errors.Is(err, apperrors.New(apperrors.CodeProgressSyncInFlight, "")) {
			return
		}
		a.logger.Warn("step sync failed", "user_id", a.cfg.UserID, "error", err)
	}
}

// checkRollover resets the daily counters once per local day change. On
// failure the reset retries on the next tick.
func (a *Agent) checkRollover(ctx context.Context) {
	day := a.clock().Format(dayFormat)
	if a.lastDay == "" {
		a.lastDay = day
		return
	}
	if day == a.lastDay {
		return
	}

	if _, err := a.client.ResetDailyStats(ctx, a.cfg.UserID); err != nil {
		a.logger.Warn("daily reset failed", "user_id", a.cfg.UserID, "error", err)
		return
	}
	a.logger.Info("daily counters reset", "user_id", a.cfg.UserID, "day", day)
	a.lastDay = day
}
