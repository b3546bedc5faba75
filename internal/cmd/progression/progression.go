// Package progression parses progression command flags and starts the
// progression runtime.
package progression

import (
	"context"
	"flag"

	entrypoint "github.com/stridebound/stridebound/internal/platform/cmd"
	server "github.com/stridebound/stridebound/internal/services/progression/app"
)

// Config holds progression command configuration.
type Config struct {
	Port int    `env:"STRIDEBOUND_PROGRESSION_PORT" envDefault:"8081"`
	Addr string `env:"STRIDEBOUND_PROGRESSION_ADDR"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The progression server port")
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "The progression server listen address (overrides -port)")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the progression API service.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceProgression, func(context.Context) error {
		if cfg.Addr != "" {
			return server.RunWithAddr(ctx, cfg.Addr)
		}
		return server.Run(ctx, cfg.Port)
	})
}
