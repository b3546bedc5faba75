// Package sqlite provides a SQLite-backed progression storage implementation.
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
	"github.com/stridebound/stridebound/internal/services/progression/storage"
	"github.com/stridebound/stridebound/internal/services/progression/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// Store persists progression state in SQLite.
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

// Open opens a SQLite progression store and applies embedded migrations.
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

// PutProgress upserts one user's progression record.
func (s *Store) PutProgress(ctx context.Context, record storage.Progress) error {
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
	if record.TotalXP < 0 {
		return fmt.Errorf("total xp must not be negative")
	}
	if record.StepsToday < 0 {
		return fmt.Errorf("steps today must not be negative")
	}

	premium := 0
	if record.Premium {
		premium = 1
	}
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO progress (user_id, total_xp, steps_today, premium, last_sync_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
		   total_xp = excluded.total_xp,
		   steps_today = excluded.steps_today,
		   premium = excluded.premium,
		   last_sync_at = excluded.last_sync_at,
		   updated_at = excluded.updated_at`,
		userID,
		record.TotalXP,
		record.StepsToday,
		premium,
		toMillis(record.LastSyncAt),
		toMillis(record.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("put progress: %w", err)
	}
	return nil
}

// GetProgress returns one user's progression record.
func (s *Store) GetProgress(ctx context.Context, userID string) (storage.Progress, error) {
	if err := ctx.Err(); err != nil {
		return storage.Progress{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.Progress{}, fmt.Errorf("storage is not configured")
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return storage.Progress{}, fmt.Errorf("user id is required")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT user_id, total_xp, steps_today, premium, last_sync_at, updated_at
		 FROM progress
		 WHERE user_id = ?`,
		userID,
	)
	var record storage.Progress
	var premium int
	var lastSyncAt int64
	var updatedAt int64
	err := row.Scan(
		&record.UserID,
		&record.TotalXP,
		&record.StepsToday,
		&premium,
		&lastSyncAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Progress{}, storage.ErrNotFound
		}
		return storage.Progress{}, fmt.Errorf("get progress: %w", err)
	}
	record.Premium = premium != 0
	record.LastSyncAt = fromMillis(lastSyncAt)
	record.UpdatedAt = fromMillis(updatedAt)
	return record, nil
}
