// Package telemetry wires an OTLP trace exporter when a Logfire token is
// configured, and is a no-op otherwise: go.opentelemetry.io/otel's
// global tracer is already safe to call with no provider registered, so
// internal/fn's span creation costs nothing when telemetry is off.
package telemetry

import (
	"context"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

const defaultEndpoint = "logfire-api.pydantic.dev"

// Shutdown flushes and tears down the tracer provider. Calling it is
// always safe, including when Setup installed nothing.
type Shutdown func(context.Context) error

// Setup installs a global TracerProvider exporting to Logfire's OTLP/HTTP
// endpoint when LOGFIRE_TOKEN is set. With no token it returns a no-op
// Shutdown and leaves the default global no-op tracer in place.
func Setup(ctx context.Context, service string) (Shutdown, error) {
	token := os.Getenv("LOGFIRE_TOKEN")
	if token == "" {
		return func(context.Context) error { return nil }, nil
	}

	endpoint := os.Getenv("LOGFIRE_ENDPOINT")
	if endpoint == "" {
		endpoint = defaultEndpoint
	}

	exp, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(endpoint),
		otlptracehttp.WithHeaders(map[string]string{"Authorization": "Bearer " + token}),
	)
	if err != nil {
		return nil, err
	}

	res, err := resource.Merge(resource.Default(), resource.NewSchemaless(
		semconv.ServiceName(service),
	))
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return tp.Shutdown(ctx)
	}, nil
}
