package seed

import (
	"flag"
	"testing"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.BoardDBPath != "data/board.db" {
		t.Fatalf("expected default board db path, got %q", cfg.BoardDBPath)
	}
	if cfg.FixturePath != "" {
		t.Fatalf("expected empty fixture path, got %q", cfg.FixturePath)
	}
}

func TestParseConfigOverrides(t *testing.T) {
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-fixture", "users.yaml", "-board-db", "/tmp/board.db"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.FixturePath != "users.yaml" {
		t.Fatalf("expected fixture override, got %q", cfg.FixturePath)
	}
	if cfg.BoardDBPath != "/tmp/board.db" {
		t.Fatalf("expected board db override, got %q", cfg.BoardDBPath)
	}
}
