package pubsub

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupOTel(t *testing.T) {
	ctx := context.Background()

	t.Run("disabled tracing", func(t *testing.T) {
		tracer, cleanup, err := SetupOTel(ctx, TracingConfig{Enabled: false})
		require.NoError(t, err)
		require.NotNil(t, tracer)
		require.NotNil(t, cleanup)

		_, span := tracer.Start(ctx, "test")
		assert.False(t, span.SpanContext().IsValid(), "no-op tracer records nothing")
		span.End()
		cleanup()
	})

	t.Run("enabled tracing with unreachable collector", func(t *testing.T) {
		tracer, cleanup, err := SetupOTel(ctx, TracingConfig{
			Enabled:     true,
			ServiceName: "test-service",
			ZipkinURL:   "http://invalid-url:9411/api/v2/spans",
		})
		require.NoError(t, err)
		require.NotNil(t, tracer)

		_, span := tracer.Start(ctx, "test")
		assert.True(t, span.SpanContext().IsValid())
		span.End()
		cleanup()
	})
}

type tracingSettings struct {
	enabled bool
	name    string
	url     string
}

func (s tracingSettings) GetTracingEnabled() bool { return s.enabled }
func (s tracingSettings) GetTracingServiceName() string { return s.name }
func (s tracingSettings) GetTracingZipkinURL() string { return s.url }

func TestTracingConfigFrom(t *testing.T) {
	cfg := TracingConfigFrom(tracingSettings{enabled: true, name: "fogwar-test"})
	assert.True(t, cfg.Enabled)
	assert.Equal(t, "fogwar-test", cfg.ServiceName)
	assert.Equal(t, DefaultTracingConfig().ZipkinURL, cfg.ZipkinURL)

	cfg = TracingConfigFrom(tracingSettings{url: "http://zipkin:9411/api/v2/spans"})
	assert.False(t, cfg.Enabled)
	assert.Equal(t, DefaultTracingConfig().ServiceName, cfg.ServiceName)
	assert.Equal(t, "http://zipkin:9411/api/v2/spans", cfg.ZipkinURL)
}
