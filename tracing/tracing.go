package tracing

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation scope of every span started here.
const TracerName = "github.com/viant/idregistry"

// Init installs a global provider exporting to stdout, or to output when set.
// Only the first successful call takes effect.
func Init(serviceName, serviceVersion, output string) error {
	exporter, err := NewStdoutExporter(output)
	if err != nil {
		return err
	}
	return InitWithExporter(serviceName, serviceVersion, exporter)
}

// InitWithExporter installs a global provider backed by exporter. Only the
// first successful call takes effect; a nil exporter is a no-op.
func InitWithExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) error {
	if exporter == nil {
		return nil
	}
	providerOnce.Do(func() {
		var provider *sdktrace.TracerProvider
		if provider, providerErr = NewProvider(serviceName, serviceVersion, exporter); providerErr == nil {
			otel.SetTracerProvider(provider)
		}
	})
	return providerErr
}

var (
	providerOnce sync.Once
	providerErr  error
)

// NewStdoutExporter creates a pretty-printing exporter writing to output, or
// to os.Stdout when output is empty. An output file is closed when the
// exporter shuts down.
func NewStdoutExporter(output string) (sdktrace.SpanExporter, error) {
	if output == "" {
		return stdouttrace.New(stdouttrace.WithWriter(os.Stdout), stdouttrace.WithPrettyPrint())
	}
	f, err := os.Create(output)
	if err != nil {
		return nil, fmt.Errorf("failed to create trace output %s: %w", output, err)
	}
	exporter, err := stdouttrace.New(stdouttrace.WithWriter(f), stdouttrace.WithPrettyPrint())
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return &fileExporter{SpanExporter: exporter, file: f}, nil
}

// fileExporter owns the file its embedded exporter writes to.
type fileExporter struct {
	sdktrace.SpanExporter
	file *os.File
}

// Shutdown flushes the exporter and closes the file.
func (e *fileExporter) Shutdown(ctx context.Context) error {
	return errors.Join(e.SpanExporter.Shutdown(ctx), e.file.Close())
}

// NewProvider builds a tracer provider that synchronously hands every span
// to exporter. Callers own the provider and must Shutdown it.
func NewProvider(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) (*sdktrace.TracerProvider, error) {
	res, err := resource.New(context.Background(),
		resource.WithAttributes(
			attribute.String("service.name", serviceName),
			attribute.String("service.version", serviceVersion),
		),
	)
	if err != nil {
		return nil, err
	}
	return sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(sdktrace.NewSimpleSpanProcessor(exporter)),
		sdktrace.WithResource(res),
	), nil
}

// Span wraps an OpenTelemetry span.
type Span struct {
	span trace.Span
}

// WithAttributes attaches string attributes to the span.
func (s *Span) WithAttributes(attrs map[string]string) *Span {
	if s == nil || len(attrs) == 0 {
		return s
	}
	values := make([]attribute.KeyValue, 0, len(attrs))
	for k, v := range attrs {
		values = append(values, attribute.String(k, v))
	}
	s.span.SetAttributes(values...)
	return s
}

// SetStatus records err on the span, or an OK status when err is nil.
func (s *Span) SetStatus(err error) {
	if s == nil {
		return
	}
	if err != nil {
		s.span.RecordError(err)
		s.span.SetStatus(codes.Error, err.Error())
		return
	}
	s.span.SetStatus(codes.Ok, "")
}

// StartSpan starts an internal span using the global provider.
func StartSpan(ctx context.Context, name string) (context.Context, *Span) {
	return Start(ctx, nil, name)
}

// Start starts an internal span with tracer, falling back to the global
// provider when tracer is nil.
func Start(ctx context.Context, tracer trace.Tracer, name string) (context.Context, *Span) {
	if tracer == nil {
		tracer = otel.Tracer(TracerName)
	}
	ctx, span := tracer.Start(ctx, name, trace.WithSpanKind(trace.SpanKindInternal))
	return ctx, &Span{span: span}
}

// EndSpan records the status derived from err and ends the span.
func EndSpan(sp *Span, err error) {
	if sp == nil {
		return
	}
	sp.SetStatus(err)
	sp.span.End()
}
