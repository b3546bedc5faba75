// Package otel wires opt-in OpenTelemetry tracing for service entrypoints.
package otel

import (
	"context"
	"os"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

const (
	envEndpoint = "STRIDEBOUND_OTEL_ENDPOINT"
	envEnabled  = "STRIDEBOUND_OTEL_ENABLED"
)

// ShutdownFunc flushes pending spans; callers defer it.
type ShutdownFunc func(context.Context) error

func noopShutdown(context.Context) error { return nil }

// tracingEnabled reports whether an exporter endpoint is configured and
// tracing has not been explicitly switched off.
func tracingEnabled() (string, bool) {
	if strings.EqualFold(os.Getenv(envEnabled), "false") {
		return "", false
	}
	endpoint := os.Getenv(envEndpoint)
	return endpoint, endpoint != ""
}

// Setup initialises OpenTelemetry tracing for the given service. Tracing is
// opt-in: without STRIDEBOUND_OTEL_ENDPOINT, or with
// STRIDEBOUND_OTEL_ENABLED=false, no global provider is registered and the
// returned shutdown is a no-op.
func Setup(ctx context.Context, serviceName string) (ShutdownFunc, error) {
	endpoint, ok := tracingEnabled()
	if !ok {
		return noopShutdown, nil
	}

	exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(endpoint))
	if err != nil {
		return noopShutdown, err
	}

	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceName(serviceName)))
	if err != nil {
		return noopShutdown, err
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return provider.Shutdown, nil
}
