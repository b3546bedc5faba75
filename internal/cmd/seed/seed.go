// Package seed parses seed command flags and runs the fixture loader.
package seed

import (
	"context"
	"flag"

	entrypoint "github.com/stridebound/stridebound/internal/platform/cmd"
	"github.com/stridebound/stridebound/internal/seed"
)

// Config holds seed command configuration.
type Config struct {
	BoardDBPath       string `env:"STRIDEBOUND_BOARD_DB_PATH" envDefault:"data/board.db"`
	ProgressionDBPath string `env:"STRIDEBOUND_PROGRESSION_DB_PATH" envDefault:"data/progression.db"`
	FixturePath       string `env:"STRIDEBOUND_SEED_FIXTURE"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.BoardDBPath, "board-db", cfg.BoardDBPath, "The board SQLite database path")
	fs.StringVar(&cfg.ProgressionDBPath, "progression-db", cfg.ProgressionDBPath, "The progression SQLite database path")
	fs.StringVar(&cfg.FixturePath, "fixture", cfg.FixturePath, "YAML fixture path (default: built-in roster)")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run seeds the development databases.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceSeed, func(context.Context) error {
		return seed.Run(ctx, seed.Config{
			BoardDBPath:       cfg.BoardDBPath,
			ProgressionDBPath: cfg.ProgressionDBPath,
			FixturePath:       cfg.FixturePath,
		})
	})
}
