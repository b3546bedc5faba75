// Package storage defines persistence contracts for account records.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound indicates a requested user record is missing.
var ErrNotFound = errors.New("user not found")

// User is one persisted account.
type User struct {
	ID          string
	Email       string
	DisplayName string
	PhotoURL    string
	Anonymous   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// UserStore persists account records.
type UserStore interface {
	PutUser(ctx context.Context, record User) error
	GetUser(ctx context.Context, userID string) (User, error)
	DeleteUser(ctx context.Context, userID string) error
}
