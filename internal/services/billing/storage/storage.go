// Package storage defines persistence contracts for billing entitlements.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound indicates a requested entitlement record is missing.
var ErrNotFound = errors.New("entitlement not found")

// Entitlement is one user's granted entitlement.
type Entitlement struct {
	UserID      string
	Entitlement string
	PackageID   string
	Active      bool
	GrantedAt   time.Time
	UpdatedAt   time.Time
}

// EntitlementStore persists entitlement grants.
type EntitlementStore interface {
	PutEntitlement(ctx context.Context, record Entitlement) error
	GetEntitlement(ctx context.Context, userID string) (Entitlement, error)
}
