// Package storage defines persistence contracts for progression state.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound indicates a requested progress record is missing.
var ErrNotFound = errors.New("record not found")

// Progress stores one user's persisted progression counters. Derived fields
// (level, rank, progress fractions) are never persisted; they are recomputed
// from TotalXP on hydration.
type Progress struct {
	UserID     string
	TotalXP    float64
	StepsToday int
	Premium    bool
	LastSyncAt time.Time
	UpdatedAt  time.Time
}

// ProgressStore persists progression records.
type ProgressStore interface {
	PutProgress(ctx context.Context, record Progress) error
	GetProgress(ctx context.Context, userID string) (Progress, error)
}
