// Package storage defines persistence contracts for leaderboard entries.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/stridebound/stridebound/internal/services/board/ranking"
)

// ErrNotFound indicates a requested board entry is missing.
var ErrNotFound = errors.New("entry not found")

// Entry is one user's row on the leaderboard. The weekly and monthly step
// counters accumulate server-side from daily deltas.
type Entry struct {
	UserID      string
	DisplayName string
	PhotoURL    string
	TotalXP     float64
	StepsToday  int
	StepsWeek   int
	StepsMonth  int
	Country     string
	LastSyncAt  time.Time
	UpdatedAt   time.Time
}

// SortValue returns the entry's value for the column the filter orders by.
func (e Entry) SortValue(filter ranking.TimeFilter) float64 {
	switch filter {
	case ranking.FilterDaily:
		return float64(e.StepsToday)
	case ranking.FilterWeekly:
		return float64(e.StepsWeek)
	case ranking.FilterMonthly:
		return float64(e.StepsMonth)
	default:
		return e.TotalXP
	}
}

// ScoreUpdate carries one score publication. Optional profile fields are
// applied only when present so score publishers never blank them out.
type ScoreUpdate struct {
	TotalXP     float64
	StepsToday  int
	DisplayName *string
	PhotoURL    *string
	Country     *string
	SyncedAt    time.Time
}

// EntryStore persists leaderboard entries.
type EntryStore interface {
	// PutEntry overwrites the full entry row.
	PutEntry(ctx context.Context, entry Entry) error
	// ApplyScore upserts a score publication, accumulating weekly and
	// monthly counters from the positive daily delta.
	ApplyScore(ctx context.Context, userID string, update ScoreUpdate) (Entry, error)
	GetEntry(ctx context.Context, userID string) (Entry, error)
	// TopEntries lists the highest entries for the filter, optionally
	// scoped to a country code.
	TopEntries(ctx context.Context, filter ranking.TimeFilter, country string, limit int) ([]Entry, error)
	// CountAbove counts entries whose sort value is strictly greater than
	// value, optionally scoped to a country code.
	CountAbove(ctx context.Context, filter ranking.TimeFilter, country string, value float64) (int, error)
}
