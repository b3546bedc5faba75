// Package progress owns the canonical step progression state for one user.
//
// A Tracker is the only writer of its state. Operations are synchronous,
// perform no I/O, and commit a fully consistent snapshot or nothing. The
// tracker does no locking of its own: callers are responsible for never
// invoking two operations concurrently (see the session registry).
package progress

import (
	"math"

	"github.com/stridebound/stridebound/internal/core/evolution"
)

// Snapshot is an immutable view of tracker state plus the cached derivation
// of TotalXP through the evolution engine.
type Snapshot struct {
	TotalXP           float64
	StepsToday        int
	DailyBonusGranted bool
	Premium           bool

	Level         int
	Rank          evolution.Rank
	Ranked        bool
	Progress      float64
	XPToNextLevel float64
}

// RankProgress derives the rank-band progress view for this snapshot.
func (s Snapshot) RankProgress() evolution.RankProgress {
	return evolution.RankProgressFor(s.TotalXP)
}

// Observer receives the committed snapshot after every mutating operation.
// Persistence and publishing live behind this callback, never inside the
// tracker itself.
type Observer func(Snapshot)

// Tracker applies step deltas and maintains the derived progression state.
type Tracker struct {
	snapshot Snapshot
	observer Observer
}

// NewTracker creates a zeroed tracker. observer may be nil.
func NewTracker(observer Observer) *Tracker {
	t := &Tracker{observer: observer}
	t.snapshot = derive(Snapshot{})
	return t
}

// Snapshot returns the current committed state.
func (t *Tracker) Snapshot() Snapshot {
	return t.snapshot
}

// AddSteps applies an additive step increment, typically from a manual or
// simulated step event. Non-positive increments are a no-op. No XP
// multiplier applies on this path.
func (t *Tracker) AddSteps(newSteps int) {
	if newSteps <= 0 {
		return
	}

	next := t.snapshot
	next.StepsToday += newSteps
	earnedXP := evolution.StepsToXP(float64(newSteps))

	if !next.DailyBonusGranted && evolution.IsDailyGoalReached(next.StepsToday) {
		earnedXP += evolution.DailyGoalBonusXP
		next.DailyBonusGranted = true
	}

	next.TotalXP += earnedXP
	t.commit(next)
}

// Hydrate replaces the full state from persisted values, once per session
// start. The daily bonus is considered already consumed when the restored
// step count meets the goal, so restarts never re-grant it. Hydration does
// not notify the observer; the values came from storage in the first place.
func (t *Tracker) Hydrate(totalXP float64, stepsToday int, premium bool) {
	if totalXP < 0 {
		totalXP = 0
	}
	if stepsToday < 0 {
		stepsToday = 0
	}
	t.snapshot = derive(Snapshot{
		TotalXP:           totalXP,
		StepsToday:        stepsToday,
		DailyBonusGranted: evolution.IsDailyGoalReached(stepsToday),
		Premium:           premium,
	})
}

// SetPremium updates the premium flag only.
func (t *Tracker) SetPremium(value bool) {
	if t.snapshot.Premium == value {
		return
	}
	next := t.snapshot
	next.Premium = value
	t.commit(next)
}

// ResetDailyStats zeroes the daily step count and clears the bonus flag.
// The day-boundary trigger is the caller's responsibility.
func (t *Tracker) ResetDailyStats() {
	next := t.snapshot
	next.StepsToday = 0
	next.DailyBonusGranted = false
	t.commit(next)
}

// SyncFromHealth applies an absolute steps-so-far-today reading from a
// health source and returns the new total XP for the caller to persist.
//
// Only forward progress is honored: when rawStepsToday is below the
// previously recorded count (day rollover not yet reset here, or a sensor
// re-count) the delta is zero and the call is a no-op. The multiplier
// applies to step-derived XP only, never to the flat daily bonus; a
// non-positive multiplier falls back to 1. StepsToday is set to the raw
// absolute value, keeping it ground truth independent of XP scaling.
func (t *Tracker) SyncFromHealth(rawStepsToday int, xpMultiplier float64) float64 {
	if rawStepsToday < 0 {
		rawStepsToday = 0
	}
	if xpMultiplier <= 0 {
		xpMultiplier = 1
	}

	delta := math.Max(float64(rawStepsToday-t.snapshot.StepsToday), 0)
	if delta == 0 {
		return t.snapshot.TotalXP
	}

	next := t.snapshot
	earnedXP := evolution.StepsToXP(delta) * xpMultiplier

	if !next.DailyBonusGranted && evolution.IsDailyGoalReached(rawStepsToday) {
		earnedXP += evolution.DailyGoalBonusXP
		next.DailyBonusGranted = true
	}

	next.TotalXP += earnedXP
	next.StepsToday = rawStepsToday
	t.commit(next)
	return next.TotalXP
}

func (t *Tracker) commit(next Snapshot) {
	t.snapshot = derive(next)
	if t.observer != nil {
		t.observer(t.snapshot)
	}
}

func derive(s Snapshot) Snapshot {
	state := evolution.Compute(s.TotalXP)
	s.Level = state.Level
	s.Rank = state.Rank
	s.Ranked = state.Ranked
	s.Progress = state.Progress
	s.XPToNextLevel = state.XPToNextLevel
	return s
}
