package observability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/randalmurphal/rulekit/pkg/rulekit/diag"
)

// setupMetricsTest creates a test meter provider and returns its reader.
func setupMetricsTest(t *testing.T) (*sdkmetric.ManualReader, func()) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	originalProvider := otel.GetMeterProvider()
	otel.SetMeterProvider(provider)

	cleanup := func() {
		otel.SetMeterProvider(originalProvider)
		if err := provider.Shutdown(context.Background()); err != nil {
			t.Logf("Error shutting down meter provider: %v", err)
		}
	}

	return reader, cleanup
}

func collectMetrics(t *testing.T, reader *sdkmetric.ManualReader) *metricdata.ResourceMetrics {
	var rm metricdata.ResourceMetrics
	err := reader.Collect(context.Background(), &rm)
	require.NoError(t, err)
	return &rm
}

func findMetric(rm *metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

// sumWhere totals the Int64 sum datapoints carrying attribute key=value.
func sumWhere(t *testing.T, m *metricdata.Metrics, key, value string) int64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "Expected Sum type")

	var total int64
	for _, dp := range sum.DataPoints {
		if v, ok := dp.Attributes.Value(attribute.Key(key)); ok && v.Emit() == value {
			total += dp.Value
		}
	}
	return total
}

func TestNewMetricsRecorder(t *testing.T) {
	_, cleanup := setupMetricsTest(t)
	defer cleanup()

	recorder := NewMetricsRecorder()
	require.NotNil(t, recorder)

	_, isNoop := recorder.(NoopMetrics)
	assert.False(t, isNoop, "Expected real metrics recorder, got noop")
}

func TestRecordEvaluation(t *testing.T) {
	reader, cleanup := setupMetricsTest(t)
	defer cleanup()

	m, err := newOtelMetrics()
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("records count and latency", func(t *testing.T) {
		m.RecordEvaluation(ctx, 3*time.Millisecond, nil)

		rm := collectMetrics(t, reader)
		count := findMetric(rm, "rulekit.evaluations")
		require.NotNil(t, count)
		assert.GreaterOrEqual(t, sumWhere(t, count, "success", "true"), int64(1))

		latency := findMetric(rm, "rulekit.evaluation.latency_ms")
		require.NotNil(t, latency)
		hist, ok := latency.Data.(metricdata.Histogram[float64])
		require.True(t, ok, "Expected Histogram type")
		require.NotEmpty(t, hist.DataPoints)
	})

	t.Run("records errors by category", func(t *testing.T) {
		m.RecordEvaluation(ctx, time.Millisecond, diag.NewEvalError("/", diag.ErrDivisionByZero, ""))

		rm := collectMetrics(t, reader)
		errs := findMetric(rm, "rulekit.evaluation.errors")
		require.NotNil(t, errs)
		assert.Equal(t, int64(1), sumWhere(t, errs, "category", "evaluation"))
	})
}

func TestRecordCompile(t *testing.T) {
	reader, cleanup := setupMetricsTest(t)
	defer cleanup()

	m, err := newOtelMetrics()
	require.NoError(t, err)
	ctx := context.Background()

	m.RecordCompile(ctx, time.Millisecond, nil)
	m.RecordCompile(ctx, time.Millisecond, &diag.LexError{Offset: 0, Remaining: "#"})

	rm := collectMetrics(t, reader)
	compilations := findMetric(rm, "rulekit.compilations")
	require.NotNil(t, compilations)
	assert.Equal(t, int64(1), sumWhere(t, compilations, "success", "true"))
	assert.Equal(t, int64(1), sumWhere(t, compilations, "success", "false"))

	errs := findMetric(rm, "rulekit.compile.errors")
	require.NotNil(t, errs)
	assert.Equal(t, int64(1), sumWhere(t, errs, "category", "lexical"))

	require.NotNil(t, findMetric(rm, "rulekit.compile.latency_ms"))
}

func TestRecordCacheLookup(t *testing.T) {
	reader, cleanup := setupMetricsTest(t)
	defer cleanup()

	m, err := newOtelMetrics()
	require.NoError(t, err)
	ctx := context.Background()

	m.RecordCacheLookup(ctx, false)
	m.RecordCacheLookup(ctx, true)
	m.RecordCacheLookup(ctx, true)

	rm := collectMetrics(t, reader)
	lookups := findMetric(rm, "rulekit.cache.lookups")
	require.NotNil(t, lookups)
	assert.Equal(t, int64(2), sumWhere(t, lookups, "hit", "true"))
	assert.Equal(t, int64(1), sumWhere(t, lookups, "hit", "false"))
}
