// Package tracing wraps OpenTelemetry so that registry operations can be
// traced with a couple of helper calls (Start/EndSpan). Exporters are
// configured through Init, InitWithExporter or NewProvider.
package tracing
