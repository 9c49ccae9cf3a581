package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/randalmurphal/rulekit/pkg/rulekit/diag"
)

// MetricsRecorder records rulekit metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordEvaluation records an evaluation with its duration and error status.
	RecordEvaluation(ctx context.Context, duration time.Duration, err error)

	// RecordCompile records a compilation (lex + parse).
	RecordCompile(ctx context.Context, duration time.Duration, err error)

	// RecordCacheLookup records a program cache lookup.
	RecordCacheLookup(ctx context.Context, hit bool)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	evaluations       metric.Int64Counter
	evaluationLatency metric.Float64Histogram
	evaluationErrors  metric.Int64Counter
	compilations      metric.Int64Counter
	compileLatency    metric.Float64Histogram
	compileErrors     metric.Int64Counter
	cacheLookups      metric.Int64Counter
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics returns the default OTel metrics instance.
// Lazily initializes the metrics on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

// newOtelMetrics creates a new OTel metrics instance.
func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("rulekit")

	evaluations, err := meter.Int64Counter("rulekit.evaluations",
		metric.WithDescription("Number of expression evaluations"),
	)
	if err != nil {
		return nil, err
	}

	evaluationLatency, err := meter.Float64Histogram("rulekit.evaluation.latency_ms",
		metric.WithDescription("Evaluation latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	evaluationErrors, err := meter.Int64Counter("rulekit.evaluation.errors",
		metric.WithDescription("Number of failed evaluations"),
	)
	if err != nil {
		return nil, err
	}

	compilations, err := meter.Int64Counter("rulekit.compilations",
		metric.WithDescription("Number of expression compilations"),
	)
	if err != nil {
		return nil, err
	}

	compileLatency, err := meter.Float64Histogram("rulekit.compile.latency_ms",
		metric.WithDescription("Compilation latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	compileErrors, err := meter.Int64Counter("rulekit.compile.errors",
		metric.WithDescription("Number of failed compilations"),
	)
	if err != nil {
		return nil, err
	}

	cacheLookups, err := meter.Int64Counter("rulekit.cache.lookups",
		metric.WithDescription("Number of program cache lookups"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		evaluations:       evaluations,
		evaluationLatency: evaluationLatency,
		evaluationErrors:  evaluationErrors,
		compilations:      compilations,
		compileLatency:    compileLatency,
		compileErrors:     compileErrors,
		cacheLookups:      cacheLookups,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordEvaluation records an evaluation.
func (m *otelMetrics) RecordEvaluation(ctx context.Context, duration time.Duration, err error) {
	attrs := []attribute.KeyValue{
		attribute.Bool("success", err == nil),
	}
	m.evaluations.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.evaluationLatency.Record(ctx, milliseconds(duration), metric.WithAttributes(attrs...))

	if err != nil {
		m.evaluationErrors.Add(ctx, 1, metric.WithAttributes(
			attribute.String("category", diag.Categorize(err).String()),
		))
	}
}

// RecordCompile records a compilation.
func (m *otelMetrics) RecordCompile(ctx context.Context, duration time.Duration, err error) {
	attrs := []attribute.KeyValue{
		attribute.Bool("success", err == nil),
	}
	m.compilations.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.compileLatency.Record(ctx, milliseconds(duration), metric.WithAttributes(attrs...))

	if err != nil {
		m.compileErrors.Add(ctx, 1, metric.WithAttributes(
			attribute.String("category", diag.Categorize(err).String()),
		))
	}
}

// RecordCacheLookup records a cache lookup.
func (m *otelMetrics) RecordCacheLookup(ctx context.Context, hit bool) {
	m.cacheLookups.Add(ctx, 1, metric.WithAttributes(attribute.Bool("hit", hit)))
}

func milliseconds(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}
