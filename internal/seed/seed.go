// Package seed fills local development databases with leaderboard fixtures.
// Fixtures are YAML documents; without one a built-in roster of runners is
// used.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	boardstorage "github.com/stridebound/stridebound/internal/services/board/storage"
	boardsqlite "github.com/stridebound/stridebound/internal/services/board/storage/sqlite"
	progressionstorage "github.com/stridebound/stridebound/internal/services/progression/storage"
	progressionsqlite "github.com/stridebound/stridebound/internal/services/progression/storage/sqlite"
)

// Config holds the seed tool settings.
type Config struct {
	BoardDBPath       string
	ProgressionDBPath string
	FixturePath       string
	Logger            *slog.Logger
}

// User is one seeded account. StepsWeek defaults to StepsToday and
// StepsMonth to StepsWeek when omitted.
type User struct {
	UserID      string  `yaml:"user_id"`
	DisplayName string  `yaml:"display_name"`
	Country     string  `yaml:"country"`
	TotalXP     float64 `yaml:"total_xp"`
	StepsToday  int     `yaml:"steps_today"`
	StepsWeek   int     `yaml:"steps_week"`
	StepsMonth  int     `yaml:"steps_month"`
	Premium     bool    `yaml:"premium"`
}

// Fixture is the YAML document root.
type Fixture struct {
	Users []User `yaml:"users"`
}

// DefaultFixture returns the built-in roster of fifteen runners with
// descending scores.
func DefaultFixture() Fixture {
	users := make([]User, 0, 15)
	for i := 0; i < 15; i++ {
		users = append(users, User{
			UserID:      fmt.Sprintf("mock_user_%d", i),
			DisplayName: fmt.Sprintf("Runner %d", i+1),
			Country:     "US",
			TotalXP:     float64(10000 - i*500),
			StepsToday:  5000 - i*100,
		})
	}
	return Fixture{Users: users}
}

// LoadFixture reads and validates a YAML fixture file.
func LoadFixture(path string) (Fixture, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Fixture{}, fmt.Errorf("read fixture: %w", err)
	}
	var fixture Fixture
	if err := yaml.Unmarshal(raw, &fixture); err != nil {
		return Fixture{}, fmt.Errorf("parse fixture: %w", err)
	}
	if err := fixture.validate(); err != nil {
		return Fixture{}, err
	}
	return fixture, nil
}

func (f Fixture) validate() error {
	if len(f.Users) == 0 {
		return fmt.Errorf("fixture has no users")
	}
	seen := make(map[string]bool, len(f.Users))
	for i, user := range f.Users {
		userID := strings.TrimSpace(user.UserID)
		if userID == "" {
			return fmt.Errorf("users[%d]: user_id is required", i)
		}
		if seen[userID] {
			return fmt.Errorf("users[%d]: duplicate user_id %q", i, userID)
		}
		seen[userID] = true
		if user.TotalXP < 0 {
			return fmt.Errorf("users[%d]: total_xp must not be negative", i)
		}
		if user.StepsToday < 0 || user.StepsWeek < 0 || user.StepsMonth < 0 {
			return fmt.Errorf("users[%d]: step counts must not be negative", i)
		}
	}
	return nil
}

// normalized applies the documented defaults.
func (u User) normalized() User {
	if u.StepsWeek == 0 {
		u.StepsWeek = u.StepsToday
	}
	if u.StepsMonth == 0 {
		u.StepsMonth = u.StepsWeek
	}
	return u
}

// Run seeds both databases from the configured fixture.
func Run(ctx context.Context, cfg Config) error {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	fixture := DefaultFixture()
	if strings.TrimSpace(cfg.FixturePath) != "" {
		loaded, err := LoadFixture(cfg.FixturePath)
		if err != nil {
			return err
		}
		fixture = loaded
	}

	boardStore, err := boardsqlite.Open(cfg.BoardDBPath)
	if err != nil {
		return fmt.Errorf("open board db: %w", err)
	}
	defer boardStore.Close()

	progressionStore, err := progressionsqlite.Open(cfg.ProgressionDBPath)
	if err != nil {
		return fmt.Errorf("open progression db: %w", err)
	}
	defer progressionStore.Close()

	now := time.Now().UTC()
	for _, user := range fixture.Users {
		user = user.normalized()

		err := progressionStore.PutProgress(ctx, progressionstorage.Progress{
			UserID:     user.UserID,
			TotalXP:    user.TotalXP,
			StepsToday: user.StepsToday,
			Premium:    user.Premium,
			LastSyncAt: now,
			UpdatedAt:  now,
		})
		if err != nil {
			return fmt.Errorf("seed progress for %s: %w", user.UserID, err)
		}

		err = boardStore.PutEntry(ctx, boardstorage.Entry{
			UserID:      user.UserID,
			DisplayName: user.DisplayName,
			TotalXP:     user.TotalXP,
			StepsToday:  user.StepsToday,
			StepsWeek:   user.StepsWeek,
			StepsMonth:  user.StepsMonth,
			Country:     user.Country,
			LastSyncAt:  now,
			UpdatedAt:   now,
		})
		if err != nil {
			return fmt.Errorf("seed board entry for %s: %w", user.UserID, err)
		}
	}

	logger.Info("seeded fixtures", "users", len(fixture.Users))
	return nil
}
