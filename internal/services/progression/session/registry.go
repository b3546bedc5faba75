// Package session manages one progression tracker per user.
//
// The tracker itself does no locking; the registry provides the caller-side
// guard by serializing all operations for a given user behind a per-user
// mutex. Persistence and leaderboard publishing happen after a mutation
// commits and are fire-and-forget: their failure is logged and never rolls
// back in-memory state.
package session

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	apperrors "github.com/stridebound/stridebound/internal/platform/errors"
	"github.com/stridebound/stridebound/internal/progress"
	"github.com/stridebound/stridebound/internal/services/progression/storage"
)

// XP multipliers applied to step-derived XP during health syncs. Policy
// constants owned by the application, not by the tracker.
const (
	StandardMultiplier = 1.0
	PremiumMultiplier  = 1.5
)

// ScorePublisher pushes a committed snapshot to the leaderboard.
type ScorePublisher interface {
	PublishScore(ctx context.Context, userID string, snap progress.Snapshot, syncedAt time.Time) error
}

// Registry owns the per-user trackers and their storage lifecycle.
type Registry struct {
	store     storage.ProgressStore
	publisher ScorePublisher
	logger    *slog.Logger
	clock     func() time.Time

	mu    sync.Mutex
	users map[string]*userSession
}

type userSession struct {
	mu         sync.Mutex
	tracker    *progress.Tracker
	pending    *progress.Snapshot
	hydrated   bool
	lastSyncAt time.Time
}

// NewRegistry creates a registry backed by store. publisher may be nil when
// no leaderboard is configured.
func NewRegistry(store storage.ProgressStore, publisher ScorePublisher, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		store:     store,
		publisher: publisher,
		logger:    logger,
		clock:     time.Now,
		users:     make(map[string]*userSession),
	}
}

// SyncFromHealth applies an absolute health reading for userID and returns
// the committed snapshot. A non-positive multiplier selects the policy
// multiplier from the user's premium flag.
func (r *Registry) SyncFromHealth(ctx context.Context, userID string, rawStepsToday int, xpMultiplier float64) (progress.Snapshot, error) {
	sess, err := r.acquire(ctx, userID)
	if err != nil {
		return progress.Snapshot{}, err
	}
	defer sess.mu.Unlock()

	if rawStepsToday < 0 {
		return progress.Snapshot{}, apperrors.New(apperrors.CodeProgressNegativeSteps, "raw steps must not be negative")
	}
	if xpMultiplier <= 0 {
		xpMultiplier = StandardMultiplier
		if sess.tracker.Snapshot().Premium {
			xpMultiplier = PremiumMultiplier
		}
	}

	sess.tracker.SyncFromHealth(rawStepsToday, xpMultiplier)
	r.flush(ctx, userID, sess, true)
	return sess.tracker.Snapshot(), nil
}

// AddSteps applies an additive step increment. Non-positive increments are a
// no-op, mirroring the tracker contract.
func (r *Registry) AddSteps(ctx context.Context, userID string, steps int) (progress.Snapshot, error) {
	sess, err := r.acquire(ctx, userID)
	if err != nil {
		return progress.Snapshot{}, err
	}
	defer sess.mu.Unlock()

	sess.tracker.AddSteps(steps)
	r.flush(ctx, userID, sess, false)
	return sess.tracker.Snapshot(), nil
}

// SetPremium updates the premium flag.
func (r *Registry) SetPremium(ctx context.Context, userID string, premium bool) (progress.Snapshot, error) {
	sess, err := r.acquire(ctx, userID)
	if err != nil {
		return progress.Snapshot{}, err
	}
	defer sess.mu.Unlock()

	sess.tracker.SetPremium(premium)
	r.flush(ctx, userID, sess, false)
	return sess.tracker.Snapshot(), nil
}

// ResetDailyStats zeroes the daily counters at a day boundary.
func (r *Registry) ResetDailyStats(ctx context.Context, userID string) (progress.Snapshot, error) {
	sess, err := r.acquire(ctx, userID)
	if err != nil {
		return progress.Snapshot{}, err
	}
	defer sess.mu.Unlock()

	sess.tracker.ResetDailyStats()
	r.flush(ctx, userID, sess, false)
	return sess.tracker.Snapshot(), nil
}

// Snapshot returns the current state for userID, hydrating it if needed.
// Unknown users start from a zeroed tracker.
func (r *Registry) Snapshot(ctx context.Context, userID string) (progress.Snapshot, error) {
	sess, err := r.acquire(ctx, userID)
	if err != nil {
		return progress.Snapshot{}, err
	}
	defer sess.mu.Unlock()
	return sess.tracker.Snapshot(), nil
}

// acquire returns the user's session with its mutex held and its tracker
// hydrated. Callers must unlock sess.mu.
func (r *Registry) acquire(ctx context.Context, userID string) (*userSession, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, apperrors.New(apperrors.CodeProgressUserMissing, "user id is required")
	}

	r.mu.Lock()
	sess, ok := r.users[userID]
	if !ok {
		sess = &userSession{}
		sess.tracker = progress.NewTracker(func(snap progress.Snapshot) {
			sess.pending = &snap
		})
		r.users[userID] = sess
	}
	r.mu.Unlock()

	sess.mu.Lock()
	if !sess.hydrated {
		if err := r.hydrate(ctx, userID, sess); err != nil {
			sess.mu.Unlock()
			return nil, err
		}
	}
	return sess, nil
}

func (r *Registry) hydrate(ctx context.Context, userID string, sess *userSession) error {
	record, err := r.store.GetProgress(ctx, userID)
	switch {
	case err == nil:
		sess.tracker.Hydrate(record.TotalXP, record.StepsToday, record.Premium)
		sess.lastSyncAt = record.LastSyncAt
	case errors.Is(err, storage.ErrNotFound):
		// First session for this user; the zeroed tracker stands.
	default:
		return err
	}
	sess.hydrated = true
	sess.pending = nil
	return nil
}

// flush persists and publishes the snapshot committed by the last operation,
// if any. Both writes are fire-and-forget.
func (r *Registry) flush(ctx context.Context, userID string, sess *userSession, synced bool) {
	if sess.pending == nil {
		return
	}
	snap := *sess.pending
	sess.pending = nil
	now := r.clock().UTC()
	if synced {
		sess.lastSyncAt = now
	}

	record := storage.Progress{
		UserID:     userID,
		TotalXP:    snap.TotalXP,
		StepsToday: snap.StepsToday,
		Premium:    snap.Premium,
		LastSyncAt: sess.lastSyncAt,
		UpdatedAt:  now,
	}
	if err := r.store.PutProgress(ctx, record); err != nil {
		r.logger.Warn("persist progress failed", "user_id", userID, "error", err)
	}

	if r.publisher != nil {
		if err := r.publisher.PublishScore(ctx, userID, snap, now); err != nil {
			r.logger.Warn("publish score failed", "user_id", userID, "error", err)
		}
	}
}
