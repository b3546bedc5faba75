// Package board parses board command flags and starts the leaderboard
// runtime.
package board

import (
	"context"
	"flag"

	entrypoint "github.com/stridebound/stridebound/internal/platform/cmd"
	server "github.com/stridebound/stridebound/internal/services/board/app"
)

// Config holds board command configuration.
type Config struct {
	Port int    `env:"STRIDEBOUND_BOARD_PORT" envDefault:"8082"`
	Addr string `env:"STRIDEBOUND_BOARD_ADDR"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The board server port")
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "The board server listen address (overrides -port)")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the board API service.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceBoard, func(context.Context) error {
		if cfg.Addr != "" {
			return server.RunWithAddr(ctx, cfg.Addr)
		}
		return server.Run(ctx, cfg.Port)
	})
}
