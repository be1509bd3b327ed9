package idregistry

import (
	"log/slog"

	"github.com/viant/afs"
	"github.com/viant/idregistry/model"
	"github.com/viant/idregistry/service/dao"
	"github.com/viant/idregistry/service/event"
	"github.com/viant/idregistry/service/messaging"
	"go.opentelemetry.io/otel/trace"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Option customises Service.
type Option func(s *Service)

// WithConfig replaces the default configuration with a copy of config.
// Options apply in order, so tracing options should follow it.
func WithConfig(config *Config) Option {
	return func(s *Service) {
		if config != nil {
			clone := *config
			s.config = &clone
		}
	}
}

// WithStore sets the snapshot store; it takes precedence over Config.Store.Vendor.
func WithStore(store dao.Service[string, model.Snapshot]) Option {
	return func(s *Service) {
		s.store = store
	}
}

// WithQueue sets the queue receiving a change event after every mutation.
func WithQueue(queue messaging.Queue[event.Event[event.Change]]) Option {
	return func(s *Service) {
		s.queue = queue
	}
}

// WithLogger sets the structured logger; logs are discarded by default.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRand sets the random source of the probe start; fn returns a value in [0, n).
func WithRand(fn func(n int64) int64) Option {
	return func(s *Service) {
		s.randFn = fn
	}
}

// WithFs sets the afs service used by the fs store and file exports.
func WithFs(fs afs.Service) Option {
	return func(s *Service) {
		s.fs = fs
	}
}

// WithTracer sets the tracer used for operation spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tracer
	}
}

// WithTracing configures OpenTelemetry tracing for the service. If outputFile
// is empty spans are written to stdout.
func WithTracing(serviceName, serviceVersion, outputFile string) Option {
	return func(s *Service) {
		s.config.Tracing = TracingConfig{Enabled: true, Output: outputFile, ServiceName: serviceName}
		s.serviceVersion = serviceVersion
	}
}

// WithTracingExporter configures tracing with a custom SpanExporter, for
// example OTLP, Jaeger or Zipkin.
func WithTracingExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) Option {
	return func(s *Service) {
		s.config.Tracing.ServiceName = serviceName
		s.serviceVersion = serviceVersion
		s.exporter = exporter
	}
}
