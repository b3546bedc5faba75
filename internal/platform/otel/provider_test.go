package otel_test

import (
	"context"
	"testing"

	"github.com/stridebound/stridebound/internal/platform/otel"
)

func TestSetupNoop(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
		enabled  string
	}{
		{"no endpoint", "", ""},
		{"explicitly disabled", "http://localhost:4318", "false"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("STRIDEBOUND_OTEL_ENDPOINT", tt.endpoint)
			t.Setenv("STRIDEBOUND_OTEL_ENABLED", tt.enabled)

			shutdown, err := otel.Setup(context.Background(), "test-service")
			if err != nil {
				t.Fatalf("Setup() = %v", err)
			}

			// A no-op shutdown must succeed even with a dead context.
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			if err := shutdown(ctx); err != nil {
				t.Fatalf("shutdown = %v", err)
			}
		})
	}
}

func TestSetupCreatesProviderWhenEndpointSet(t *testing.T) {
	// Non-routable address so no export actually happens.
	t.Setenv("STRIDEBOUND_OTEL_ENDPOINT", "http://192.0.2.1:4318")
	t.Setenv("STRIDEBOUND_OTEL_ENABLED", "")

	shutdown, err := otel.Setup(context.Background(), "test-service")
	if err != nil {
		t.Fatalf("Setup() = %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown = %v", err)
	}
}
