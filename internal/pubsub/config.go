package pubsub

// TracingSource is the part of the application configuration that controls
// event tracing.
type TracingSource interface {
	GetTracingEnabled() bool
	GetTracingServiceName() string
	GetTracingZipkinURL() string
}

// TracingConfigFrom builds the tracer settings from the application
// configuration. Empty names and URLs keep their defaults.
func TracingConfigFrom(src TracingSource) TracingConfig {
	tc := DefaultTracingConfig()
	tc.Enabled = src.GetTracingEnabled()
	if name := src.GetTracingServiceName(); name != "" {
		tc.ServiceName = name
	}
	if url := src.GetTracingZipkinURL(); url != "" {
		tc.ZipkinURL = url
	}
	return tc
}
