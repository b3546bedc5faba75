package cmd

import (
	"context"
	"errors"
	"flag"
	"testing"
)

type launchConfig struct {
	Addr string `env:"STRIDEBOUND_CMD_TEST_ADDR" envDefault:"127.0.0.1:8080"`
	Mode string `env:"STRIDEBOUND_CMD_TEST_MODE" envDefault:"serve"`
}

func TestParseConfigThenFlags(t *testing.T) {
	t.Setenv("STRIDEBOUND_CMD_TEST_ADDR", "env:9000")
	t.Setenv("STRIDEBOUND_CMD_TEST_MODE", "env-mode")

	var cfg launchConfig
	if err := ParseConfig(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "addr")
	fs.StringVar(&cfg.Mode, "mode", cfg.Mode, "mode")
	if err := ParseArgs(fs, []string{"-addr", "flag:9001"}); err != nil {
		t.Fatalf("parse args: %v", err)
	}

	if cfg.Addr != "flag:9001" {
		t.Fatalf("addr = %q, want flag override", cfg.Addr)
	}
	if cfg.Mode != "env-mode" {
		t.Fatalf("mode = %q, want env value", cfg.Mode)
	}
}

func TestParseConfigFromArgs(t *testing.T) {
	t.Setenv("STRIDEBOUND_CMD_TEST_ADDR", "env:9100")

	var cfg launchConfig
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	if err := ParseConfigFromArgs(&cfg, fs, nil); err != nil {
		t.Fatalf("parse config from args: %v", err)
	}
	if cfg.Addr != "env:9100" {
		t.Fatalf("addr = %q, want env value", cfg.Addr)
	}
	if cfg.Mode != "serve" {
		t.Fatalf("mode = %q, want default", cfg.Mode)
	}
}

func TestParseArgsRequiresFlagSet(t *testing.T) {
	if err := ParseArgs(nil, nil); err == nil {
		t.Fatal("expected error for nil flag set")
	}
}

func TestRunWithTelemetryRequiresService(t *testing.T) {
	err := RunWithTelemetry(context.Background(), "  ", func(context.Context) error { return nil })
	if err == nil {
		t.Fatal("expected error for blank service name")
	}
}

func TestRunWithTelemetryRunsFunc(t *testing.T) {
	t.Setenv("STRIDEBOUND_OTEL_ENDPOINT", "")

	wantErr := errors.New("run failed")
	err := RunWithTelemetry(context.Background(), "test-service", func(context.Context) error {
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("RunWithTelemetry() = %v, want run error", err)
	}
}
