// Package healthsync drives progress updates from a device health source.
// It reads the absolute step count for the current day and forwards it to
// the progression session layer, which computes deltas and awards XP.
package healthsync

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	apperrors "github.com/stridebound/stridebound/internal/platform/errors"
	"github.com/stridebound/stridebound/internal/progress"
)

// Source yields today's absolute step count as reported by the device
// health store.
type Source interface {
	StepsToday(ctx context.Context) (int, error)
}

// ProgressSync is the slice of the session registry the syncer needs.
type ProgressSync interface {
	SyncFromHealth(ctx context.Context, userID string, rawStepsToday int, xpMultiplier float64) (progress.Snapshot, error)
	Snapshot(ctx context.Context, userID string) (progress.Snapshot, error)
}

// Syncer pulls step counts from a Source and applies them to one user's
// progress. Concurrent triggers are collapsed: while a sync is running a
// second trigger is dropped, and triggers arriving faster than the minimum
// interval return the current snapshot without touching the source.
type Syncer struct {
	source   Source
	sync     ProgressSync
	userID   string
	limiter  *rate.Limiter
	logger   *slog.Logger
	inFlight atomic.Bool
}

// NewSyncer creates a syncer for userID. minInterval throttles how often the
// source is consulted; zero or negative disables throttling.
func NewSyncer(source Source, progressSync ProgressSync, userID string, minInterval time.Duration, logger *slog.Logger) *Syncer {
	if logger == nil {
		logger = slog.Default()
	}
	limit := rate.Inf
	if minInterval > 0 {
		limit = rate.Every(minInterval)
	}
	return &Syncer{
		source:  source,
		sync:    progressSync,
		userID:  userID,
		limiter: rate.NewLimiter(limit, 1),
		logger:  logger,
	}
}

// Sync performs one read-and-apply cycle and returns the resulting snapshot.
// If another sync is already running it returns a CodeProgressSyncInFlight
// error. Source read failures are logged and treated as zero steps, which
// the delta reducer turns into a no-op.
func (s *Syncer) Sync(ctx context.Context) (progress.Snapshot, error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		return progress.Snapshot{}, apperrors.New(apperrors.CodeProgressSyncInFlight, "a step sync is already in progress")
	}
	defer s.inFlight.Store(false)

	if !s.limiter.Allow() {
		return s.sync.Snapshot(ctx, s.userID)
	}

	steps, err := s.source.StepsToday(ctx)
	if err != nil {
		s.logger.Warn("health source read failed", "user_id", s.userID, "error", err)
		steps = 0
	}

	return s.sync.SyncFromHealth(ctx, s.userID, steps, 0)
}
