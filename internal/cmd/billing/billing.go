// Package billing parses billing command flags and starts the billing
// runtime.
package billing

import (
	"context"
	"flag"

	entrypoint "github.com/stridebound/stridebound/internal/platform/cmd"
	server "github.com/stridebound/stridebound/internal/services/billing/app"
)

// Config holds billing command configuration.
type Config struct {
	Port int    `env:"STRIDEBOUND_BILLING_PORT" envDefault:"8084"`
	Addr string `env:"STRIDEBOUND_BILLING_ADDR"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The billing server port")
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "The billing server listen address (overrides -port)")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the billing API service.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceBilling, func(context.Context) error {
		if cfg.Addr != "" {
			return server.RunWithAddr(ctx, cfg.Addr)
		}
		return server.Run(ctx, cfg.Port)
	})
}
