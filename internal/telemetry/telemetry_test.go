package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestNewProvider_Disabled(t *testing.T) {
	p, err := NewProvider(context.Background(), Config{Enabled: false})
	require.NoError(t, err)

	_, span := p.Tracer().Start(context.Background(), "noop")
	span.End()
	assert.False(t, span.SpanContext().IsValid())
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestNewProvider_EnabledBuildsOTLPExporter(t *testing.T) {
	p, err := NewProvider(context.Background(), Config{Enabled: true, Endpoint: "localhost:4318", Insecure: true})
	require.NoError(t, err)

	require.NotNil(t, p.tracerProvider)
	assert.NotNil(t, p.Tracer())
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestNewProviderWithExporter_RecordsSpans(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	p, err := NewProviderWithExporter(exporter)
	require.NoError(t, err)

	_, span := p.Tracer().Start(context.Background(), "chat.turn")
	span.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "chat.turn", spans[0].Name)

	var name string
	for _, attr := range spans[0].Resource.Attributes() {
		if attr.Key == "service.name" {
			name = attr.Value.AsString()
		}
	}
	assert.Equal(t, serviceName, name)
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestNewTurnID_Unique(t *testing.T) {
	assert.NotEqual(t, NewTurnID(), NewTurnID())
	assert.Len(t, NewTurnID(), 36)
}
