// Package sqlite provides a SQLite-backed account storage implementation.
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
	"github.com/stridebound/stridebound/internal/services/account/storage"
	"github.com/stridebound/stridebound/internal/services/account/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// Store persists account records in SQLite.
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

// Open opens a SQLite account store and applies embedded migrations.
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

// PutUser upserts one account record.
func (s *Store) PutUser(ctx context.Context, record storage.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	userID := strings.TrimSpace(record.ID)
	if userID == "" {
		return fmt.Errorf("user id is required")
	}

	anonymous := 0
	if record.Anonymous {
		anonymous = 1
	}
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO users (user_id, email, display_name, photo_url, anonymous, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
		   email = excluded.email,
		   display_name = excluded.display_name,
		   photo_url = excluded.photo_url,
		   anonymous = excluded.anonymous,
		   updated_at = excluded.updated_at`,
		userID,
		strings.ToLower(strings.TrimSpace(record.Email)),
		record.DisplayName,
		record.PhotoURL,
		anonymous,
		toMillis(record.CreatedAt),
		toMillis(record.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("put user: %w", err)
	}
	return nil
}

// GetUser returns one account record.
func (s *Store) GetUser(ctx context.Context, userID string) (storage.User, error) {
	if err := ctx.Err(); err != nil {
		return storage.User{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.User{}, fmt.Errorf("storage is not configured")
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return storage.User{}, fmt.Errorf("user id is required")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT user_id, email, display_name, photo_url, anonymous, created_at, updated_at
		 FROM users
		 WHERE user_id = ?`,
		userID,
	)
	var record storage.User
	var anonymous int
	var createdAt int64
	var updatedAt int64
	err := row.Scan(
		&record.ID,
		&record.Email,
		&record.DisplayName,
		&record.PhotoURL,
		&anonymous,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.User{}, storage.ErrNotFound
		}
		return storage.User{}, fmt.Errorf("get user: %w", err)
	}
	record.Anonymous = anonymous != 0
	record.CreatedAt = fromMillis(createdAt)
	record.UpdatedAt = fromMillis(updatedAt)
	return record, nil
}

// DeleteUser removes one account record. Deleting a missing user is not an
// error.
func (s *Store) DeleteUser(ctx context.Context, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return fmt.Errorf("user id is required")
	}

	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM users WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}
