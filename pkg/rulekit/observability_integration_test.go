package rulekit

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// The global providers are installed once for the whole test binary: the
// package-level tracer and default meter bind to whatever provider is
// registered first.
var (
	spanExporter = tracetest.NewInMemoryExporter()
	metricReader = sdkmetric.NewManualReader()
)

func TestMain(m *testing.M) {
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(spanExporter))
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(metricReader))
	otel.SetTracerProvider(tp)
	otel.SetMeterProvider(mp)

	code := m.Run()

	_ = tp.Shutdown(context.Background())
	_ = mp.Shutdown(context.Background())
	os.Exit(code)
}

func TestEngine_WithTracing(t *testing.T) {
	spanExporter.Reset()
	e := New(WithTracing(true))

	_, err := e.Evaluate(context.Background(), "a + 1", Vars{"a": 1})
	require.NoError(t, err)

	spans := spanExporter.GetSpans()
	require.Len(t, spans, 2)
	compile, eval := spans[0], spans[1]
	assert.Equal(t, "rulekit.compile", compile.Name)
	assert.Equal(t, "rulekit.evaluate", eval.Name)
	assert.Equal(t, eval.SpanContext.SpanID(), compile.Parent.SpanID())
	assert.Equal(t, codes.Ok, eval.Status.Code)
}

func TestEngine_WithTracing_Error(t *testing.T) {
	spanExporter.Reset()
	e := New(WithTracing(true))

	_, err := e.Evaluate(context.Background(), "1 / 0", nil)
	require.Error(t, err)

	spans := spanExporter.GetSpans()
	require.NotEmpty(t, spans)
	eval := spans[len(spans)-1]
	assert.Equal(t, "rulekit.evaluate", eval.Name)
	assert.Equal(t, codes.Error, eval.Status.Code)
}

func TestEngine_WithTracing_Disabled(t *testing.T) {
	spanExporter.Reset()
	e := New()

	_, err := e.Evaluate(context.Background(), "1", nil)
	require.NoError(t, err)
	assert.Empty(t, spanExporter.GetSpans())
}

func TestEngine_WithMetrics(t *testing.T) {
	e := New(WithMetrics(true), WithProgramCache(4))
	ctx := context.Background()

	for range 3 {
		_, err := e.Evaluate(ctx, "x > 1", Vars{"x": 2})
		require.NoError(t, err)
	}

	var rm metricdata.ResourceMetrics
	require.NoError(t, metricReader.Collect(ctx, &rm))

	names := map[string]bool{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			names[m.Name] = true
		}
	}
	for _, want := range []string{
		"rulekit.evaluations",
		"rulekit.evaluation.latency_ms",
		"rulekit.compilations",
		"rulekit.cache.lookups",
	} {
		assert.True(t, names[want], "missing metric %s", want)
	}
}
