package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stridebound/stridebound/internal/services/board/ranking"
	boardsqlite "github.com/stridebound/stridebound/internal/services/board/storage/sqlite"
	progressionsqlite "github.com/stridebound/stridebound/internal/services/progression/storage/sqlite"
)

func TestDefaultFixture(t *testing.T) {
	fixture := DefaultFixture()
	if len(fixture.Users) != 15 {
		t.Fatalf("len(users) = %d, want 15", len(fixture.Users))
	}
	first := fixture.Users[0]
	if first.DisplayName != "Runner 1" {
		t.Errorf("first display name = %q, want %q", first.DisplayName, "Runner 1")
	}
	if first.TotalXP != 10000 {
		t.Errorf("first total xp = %v, want 10000", first.TotalXP)
	}
	last := fixture.Users[14]
	if last.TotalXP != 3000 {
		t.Errorf("last total xp = %v, want 3000", last.TotalXP)
	}
	if last.StepsToday != 3600 {
		t.Errorf("last steps today = %d, want 3600", last.StepsToday)
	}
	if err := fixture.validate(); err != nil {
		t.Fatalf("validate() = %v", err)
	}
}

func TestLoadFixture(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixture.yaml")
	doc := `users:
  - user_id: pacer
    display_name: Pacer
    country: ca
    total_xp: 1200
    steps_today: 800
`
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatal(err)
	}

	fixture, err := LoadFixture(path)
	if err != nil {
		t.Fatalf("LoadFixture() = %v", err)
	}
	if len(fixture.Users) != 1 {
		t.Fatalf("len(users) = %d, want 1", len(fixture.Users))
	}
	user := fixture.Users[0].normalized()
	if user.StepsWeek != 800 || user.StepsMonth != 800 {
		t.Errorf("defaulted steps = %d/%d, want 800/800", user.StepsWeek, user.StepsMonth)
	}
}

func TestLoadFixtureRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty", "users: []\n"},
		{"missing id", "users:\n  - display_name: Pacer\n"},
		{"duplicate id", "users:\n  - user_id: pacer\n  - user_id: pacer\n"},
		{"negative xp", "users:\n  - user_id: pacer\n    total_xp: -5\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "fixture.yaml")
			if err := os.WriteFile(path, []byte(tt.doc), 0o600); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadFixture(path); err == nil {
				t.Fatal("LoadFixture() = nil, want error")
			}
		})
	}
}

func TestRunSeedsBothStores(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{
		BoardDBPath:       filepath.Join(dir, "board.db"),
		ProgressionDBPath: filepath.Join(dir, "progression.db"),
	}

	ctx := context.Background()
	if err := Run(ctx, cfg); err != nil {
		t.Fatalf("Run() = %v", err)
	}

	boardStore, err := boardsqlite.Open(cfg.BoardDBPath)
	if err != nil {
		t.Fatal(err)
	}
	defer boardStore.Close()

	entries, err := boardStore.TopEntries(ctx, ranking.FilterAllTime, "", 50)
	if err != nil {
		t.Fatalf("TopEntries() = %v", err)
	}
	if len(entries) != 15 {
		t.Fatalf("len(entries) = %d, want 15", len(entries))
	}
	if entries[0].DisplayName != "Runner 1" {
		t.Errorf("top entry = %q, want %q", entries[0].DisplayName, "Runner 1")
	}

	progressionStore, err := progressionsqlite.Open(cfg.ProgressionDBPath)
	if err != nil {
		t.Fatal(err)
	}
	defer progressionStore.Close()

	record, err := progressionStore.GetProgress(ctx, "mock_user_0")
	if err != nil {
		t.Fatalf("GetProgress() = %v", err)
	}
	if record.TotalXP != 10000 {
		t.Errorf("total xp = %v, want 10000", record.TotalXP)
	}
}
