// Package telemetry configures OpenTelemetry tracing for the proxy.
package telemetry

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const serviceName = "gemini-proxy"

// ServiceVersion is reported as the service.version resource attribute. It is overwritten with build information at
// startup.
var ServiceVersion = "dev"

// Config holds the configuration for telemetry
type Config struct {
	Enabled  bool
	Endpoint string // host:port of an OTLP/HTTP collector
	Insecure bool
}

// Provider owns the tracer provider for the lifetime of the process
type Provider struct {
	tracerProvider *sdktrace.TracerProvider // nil when telemetry is disabled
	tracer         trace.Tracer
}

// NewProvider creates a provider exporting spans over OTLP/HTTP. When telemetry is disabled the returned provider
// hands out no-op tracers.
func NewProvider(ctx context.Context, config Config) (*Provider, error) {
	if !config.Enabled {
		log.Printf("Telemetry disabled")
		return &Provider{tracer: noop.NewTracerProvider().Tracer(serviceName)}, nil
	}

	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(config.Endpoint)}
	if config.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	exporter, err := otlptrace.New(ctx, otlptracehttp.NewClient(opts...))
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	log.Printf("Telemetry enabled, exporting spans to %s", config.Endpoint)
	return newProvider(sdktrace.WithBatcher(exporter))
}

// NewProviderWithExporter creates a provider that synchronously sends every ended span to the given exporter, e.g. an
// in-memory exporter in tests
func NewProviderWithExporter(exporter sdktrace.SpanExporter) (*Provider, error) {
	return newProvider(sdktrace.WithSyncer(exporter))
}

func newProvider(processor sdktrace.TracerProviderOption) (*Provider, error) {
	res, err := resource.Merge(
		resource.Default(),
		resource.NewSchemaless(
			attribute.String("service.name", serviceName),
			attribute.String("service.version", ServiceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build telemetry resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		processor,
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	return &Provider{
		tracerProvider: tp,
		tracer:         tp.Tracer(serviceName),
	}, nil
}

// Tracer returns the tracer used to instrument chat turns
func (p *Provider) Tracer() trace.Tracer {
	return p.tracer
}

// Shutdown flushes and stops the exporter
func (p *Provider) Shutdown(ctx context.Context) error {
	if p.tracerProvider == nil {
		return nil
	}
	log.Printf("Shutting down telemetry provider")
	return p.tracerProvider.Shutdown(ctx)
}

// NewTurnID generates a new turn UUID
func NewTurnID() string {
	return uuid.New().String()
}
