// Package account parses account command flags and starts the auth runtime.
package account

import (
	"context"
	"flag"

	entrypoint "github.com/stridebound/stridebound/internal/platform/cmd"
	server "github.com/stridebound/stridebound/internal/services/account/app"
)

// Config holds account command configuration.
type Config struct {
	Port int    `env:"STRIDEBOUND_ACCOUNT_PORT" envDefault:"8083"`
	Addr string `env:"STRIDEBOUND_ACCOUNT_ADDR"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The account server port")
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "The account server listen address (overrides -port)")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the account API service.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceAccount, func(context.Context) error {
		if cfg.Addr != "" {
			return server.RunWithAddr(ctx, cfg.Addr)
		}
		return server.Run(ctx, cfg.Port)
	})
}
