package tracing

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestStart(t *testing.T) {
	var testCases = []struct {
		description string
		err         error
		expect      codes.Code
	}{
		{description: "ok", expect: codes.Ok},
		{description: "error", err: errors.New("boom"), expect: codes.Error},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			recorder := tracetest.NewSpanRecorder()
			provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
			defer func() { _ = provider.Shutdown(context.Background()) }()

			_, span := Start(context.Background(), provider.Tracer(TracerName), "registry.create")
			span.WithAttributes(map[string]string{"label": "Sword"})
			EndSpan(span, testCase.err)

			ended := recorder.Ended()
			require.Len(t, ended, 1)
			assert.Equal(t, "registry.create", ended[0].Name())
			assert.Equal(t, testCase.expect, ended[0].Status().Code)
			assert.Contains(t, ended[0].Attributes(), attribute.String("label", "Sword"))
		})
	}
}

func TestNewProvider_File(t *testing.T) {
	output := filepath.Join(t.TempDir(), "spans.json")
	exporter, err := NewStdoutExporter(output)
	require.NoError(t, err)
	provider, err := NewProvider("idregistry", "0.0.1", exporter)
	require.NoError(t, err)

	_, span := Start(context.Background(), provider.Tracer(TracerName), "test")
	EndSpan(span, nil)
	require.NoError(t, provider.Shutdown(context.Background()))

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"Name": "test"`)

	fileExp, ok := exporter.(*fileExporter)
	require.True(t, ok)
	_, err = fileExp.file.WriteString("late")
	assert.ErrorIs(t, err, os.ErrClosed)
}

func TestNilSpan(t *testing.T) {
	var span *Span
	assert.Nil(t, span.WithAttributes(map[string]string{"k": "v"}))
	EndSpan(nil, nil)
}
