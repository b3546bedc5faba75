// Package sqlite provides a SQLite-backed leaderboard storage implementation.
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
	"github.com/stridebound/stridebound/internal/services/board/ranking"
	"github.com/stridebound/stridebound/internal/services/board/storage"
	"github.com/stridebound/stridebound/internal/services/board/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

const defaultDisplayName = "Anonymous"

// Store persists leaderboard entries in SQLite.
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

// Open opens a SQLite board store and applies embedded migrations.
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

// PutEntry overwrites one user's full board entry.
func (s *Store) PutEntry(ctx context.Context, entry storage.Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	userID := strings.TrimSpace(entry.UserID)
	if userID == "" {
		return fmt.Errorf("user id is required")
	}
	if entry.TotalXP < 0 {
		return fmt.Errorf("total xp must not be negative")
	}
	displayName := strings.TrimSpace(entry.DisplayName)
	if displayName == "" {
		displayName = defaultDisplayName
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO board_entries
		   (user_id, display_name, photo_url, total_xp, steps_today, steps_week, steps_month, country, last_sync_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
		   display_name = excluded.display_name,
		   photo_url = excluded.photo_url,
		   total_xp = excluded.total_xp,
		   steps_today = excluded.steps_today,
		   steps_week = excluded.steps_week,
		   steps_month = excluded.steps_month,
		   country = excluded.country,
		   last_sync_at = excluded.last_sync_at,
		   updated_at = excluded.updated_at`,
		userID,
		displayName,
		entry.PhotoURL,
		entry.TotalXP,
		entry.StepsToday,
		entry.StepsWeek,
		entry.StepsMonth,
		strings.ToUpper(strings.TrimSpace(entry.Country)),
		toMillis(entry.LastSyncAt),
		toMillis(entry.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("put board entry: %w", err)
	}
	return nil
}

// ApplyScore upserts a score publication for one user. The weekly and
// monthly counters accumulate the positive delta of the daily step count so
// a backward daily reading never shrinks them.
func (s *Store) ApplyScore(ctx context.Context, userID string, update storage.ScoreUpdate) (storage.Entry, error) {
	if err := ctx.Err(); err != nil {
		return storage.Entry{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.Entry{}, fmt.Errorf("storage is not configured")
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return storage.Entry{}, fmt.Errorf("user id is required")
	}
	if update.TotalXP < 0 || update.StepsToday < 0 {
		return storage.Entry{}, fmt.Errorf("score values must not be negative")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return storage.Entry{}, fmt.Errorf("begin score update: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	entry, err := getEntryTx(ctx, tx, userID)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		entry = storage.Entry{UserID: userID, DisplayName: defaultDisplayName}
	case err != nil:
		return storage.Entry{}, err
	}

	delta := update.StepsToday - entry.StepsToday
	if delta < 0 {
		delta = 0
	}
	entry.TotalXP = update.TotalXP
	entry.StepsToday = update.StepsToday
	entry.StepsWeek += delta
	entry.StepsMonth += delta
	if update.DisplayName != nil {
		entry.DisplayName = strings.TrimSpace(*update.DisplayName)
		if entry.DisplayName == "" {
			entry.DisplayName = defaultDisplayName
		}
	}
	if update.PhotoURL != nil {
		entry.PhotoURL = *update.PhotoURL
	}
	if update.Country != nil {
		entry.Country = strings.ToUpper(strings.TrimSpace(*update.Country))
	}
	if !update.SyncedAt.IsZero() {
		entry.LastSyncAt = update.SyncedAt
	}
	entry.UpdatedAt = time.Now().UTC()

	_, err = tx.ExecContext(
		ctx,
		`INSERT INTO board_entries
		   (user_id, display_name, photo_url, total_xp, steps_today, steps_week, steps_month, country, last_sync_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
		   display_name = excluded.display_name,
		   photo_url = excluded.photo_url,
		   total_xp = excluded.total_xp,
		   steps_today = excluded.steps_today,
		   steps_week = excluded.steps_week,
		   steps_month = excluded.steps_month,
		   country = excluded.country,
		   last_sync_at = excluded.last_sync_at,
		   updated_at = excluded.updated_at`,
		entry.UserID,
		entry.DisplayName,
		entry.PhotoURL,
		entry.TotalXP,
		entry.StepsToday,
		entry.StepsWeek,
		entry.StepsMonth,
		entry.Country,
		toMillis(entry.LastSyncAt),
		toMillis(entry.UpdatedAt),
	)
	if err != nil {
		return storage.Entry{}, fmt.Errorf("apply score: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return storage.Entry{}, fmt.Errorf("commit score update: %w", err)
	}
	return entry, nil
}

// GetEntry returns one user's board entry.
func (s *Store) GetEntry(ctx context.Context, userID string) (storage.Entry, error) {
	if err := ctx.Err(); err != nil {
		return storage.Entry{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.Entry{}, fmt.Errorf("storage is not configured")
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return storage.Entry{}, fmt.Errorf("user id is required")
	}
	return getEntry(ctx, s.sqlDB, userID)
}

type rowQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getEntry(ctx context.Context, q rowQuerier, userID string) (storage.Entry, error) {
	row := q.QueryRowContext(
		ctx,
		`SELECT user_id, display_name, photo_url, total_xp, steps_today, steps_week, steps_month, country, last_sync_at, updated_at
		 FROM board_entries
		 WHERE user_id = ?`,
		userID,
	)
	return scanEntry(row)
}

func getEntryTx(ctx context.Context, tx *sql.Tx, userID string) (storage.Entry, error) {
	return getEntry(ctx, tx, userID)
}

func scanEntry(row *sql.Row) (storage.Entry, error) {
	var entry storage.Entry
	var lastSyncAt int64
	var updatedAt int64
	err := row.Scan(
		&entry.UserID,
		&entry.DisplayName,
		&entry.PhotoURL,
		&entry.TotalXP,
		&entry.StepsToday,
		&entry.StepsWeek,
		&entry.StepsMonth,
		&entry.Country,
		&lastSyncAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Entry{}, storage.ErrNotFound
		}
		return storage.Entry{}, fmt.Errorf("get board entry: %w", err)
	}
	entry.LastSyncAt = fromMillis(lastSyncAt)
	entry.UpdatedAt = fromMillis(updatedAt)
	return entry, nil
}

// TopEntries lists the highest entries for the filter, optionally scoped to
// a country code.
func (s *Store) TopEntries(ctx context.Context, filter ranking.TimeFilter, country string, limit int) ([]storage.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if limit <= 0 {
		limit = ranking.DefaultLimit
	}

	// The sort column comes from a fixed filter mapping, never from the
	// request verbatim.
	query := fmt.Sprintf(
		`SELECT user_id, display_name, photo_url, total_xp, steps_today, steps_week, steps_month, country, last_sync_at, updated_at
		 FROM board_entries
		 %s
		 ORDER BY %s DESC, user_id ASC
		 LIMIT ?`,
		countryClause(country),
		filter.SortColumn(),
	)
	args := countryArgs(country)
	args = append(args, limit)

	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list board entries: %w", err)
	}
	defer rows.Close()

	var entries []storage.Entry
	for rows.Next() {
		var entry storage.Entry
		var lastSyncAt int64
		var updatedAt int64
		err := rows.Scan(
			&entry.UserID,
			&entry.DisplayName,
			&entry.PhotoURL,
			&entry.TotalXP,
			&entry.StepsToday,
			&entry.StepsWeek,
			&entry.StepsMonth,
			&entry.Country,
			&lastSyncAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan board entry: %w", err)
		}
		entry.LastSyncAt = fromMillis(lastSyncAt)
		entry.UpdatedAt = fromMillis(updatedAt)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate board entries: %w", err)
	}
	return entries, nil
}

// CountAbove counts entries whose sort value is strictly greater than value,
// optionally scoped to a country code.
func (s *Store) CountAbove(ctx context.Context, filter ranking.TimeFilter, country string, value float64) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s == nil || s.sqlDB == nil {
		return 0, fmt.Errorf("storage is not configured")
	}

	query := fmt.Sprintf(
		`SELECT COUNT(*) FROM board_entries %s`,
		countryClause(country),
	)
	if strings.Contains(query, "WHERE") {
		query += fmt.Sprintf(" AND %s > ?", filter.SortColumn())
	} else {
		query += fmt.Sprintf(" WHERE %s > ?", filter.SortColumn())
	}
	args := countryArgs(country)
	args = append(args, value)

	var count int
	if err := s.sqlDB.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count board entries: %w", err)
	}
	return count, nil
}

func countryClause(country string) string {
	if strings.TrimSpace(country) == "" {
		return ""
	}
	return "WHERE country = ?"
}

func countryArgs(country string) []any {
	country = strings.ToUpper(strings.TrimSpace(country))
	if country == "" {
		return nil
	}
	return []any{country}
}
