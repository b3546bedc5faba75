// Package sqlite provides a SQLite-backed billing storage implementation.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	sqlitemigrate "github.com/stridebound/stridebound/internal/platform/storage/sqlitemigrate"
	"github.com/stridebound/stridebound/internal/services/billing/storage"
	"github.com/stridebound/stridebound/internal/services/billing/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// Store persists billing entitlements in SQLite.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	if value.IsZero() {
		return 0
	}
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	if value == 0 {
		return time.Time{}
	}
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite billing store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// PutEntitlement upserts one user's entitlement record.
func (s *Store) PutEntitlement(ctx context.Context, record storage.Entitlement) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	userID := strings.TrimSpace(record.UserID)
	if userID == "" {
		return fmt.Errorf("user id is required")
	}

	active := 0
	if record.Active {
		active = 1
	}
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO entitlements (user_id, entitlement, package_id, active, granted_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
		   entitlement = excluded.entitlement,
		   package_id = excluded.package_id,
		   active = excluded.active,
		   granted_at = excluded.granted_at,
		   updated_at = excluded.updated_at`,
		userID,
		record.Entitlement,
		record.PackageID,
		active,
		toMillis(record.GrantedAt),
		toMillis(record.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("put entitlement: %w", err)
	}
	return nil
}

// GetEntitlement returns one user's entitlement record.
func (s *Store) GetEntitlement(ctx context.Context, userID string) (storage.Entitlement, error) {
	if err := ctx.Err(); err != nil {
		return storage.Entitlement{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.Entitlement{}, fmt.Errorf("storage is not configured")
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return storage.Entitlement{}, fmt.Errorf("user id is required")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT user_id, entitlement, package_id, active, granted_at, updated_at
		 FROM entitlements
		 WHERE user_id = ?`,
		userID,
	)
	var record storage.Entitlement
	var active int
	var grantedAt int64
	var updatedAt int64
	err := row.Scan(
		&record.UserID,
		&record.Entitlement,
		&record.PackageID,
		&active,
		&grantedAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Entitlement{}, storage.ErrNotFound
		}
		return storage.Entitlement{}, fmt.Errorf("get entitlement: %w", err)
	}
	record.Active = active != 0
	record.GrantedAt = fromMillis(grantedAt)
	record.UpdatedAt = fromMillis(updatedAt)
	return record, nil
}
