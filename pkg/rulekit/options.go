package rulekit

import (
	"log/slog"

	"github.com/randalmurphal/rulekit/pkg/rulekit/observability"
)

// engineConfig holds configuration for an Engine.
type engineConfig struct {
	logger *slog.Logger

	metricsEnabled bool
	metrics        observability.MetricsRecorder

	tracingEnabled bool
	spans          observability.SpanManager

	cacheEnabled bool
	cacheSize    int
}

// defaultEngineConfig returns a configuration with observability disabled
// and no program cache.
func defaultEngineConfig() engineConfig {
	return engineConfig{
		metrics: observability.NoopMetrics{},
		spans:   observability.NoopSpanManager{},
	}
}

// Option configures an Engine.
type Option func(*engineConfig)

// WithLogger sets the logger for compile and evaluation events.
// Successful operations log at Debug, failures at Warn. A nil logger
// disables logging.
func WithLogger(logger *slog.Logger) Option {
	return func(c *engineConfig) {
		c.logger = logger
	}
}

// WithMetrics enables OpenTelemetry metrics using the global meter
// provider. Disabled by default.
//
// Recorded metrics:
//   - rulekit.evaluations, rulekit.evaluation.latency_ms, rulekit.evaluation.errors
//   - rulekit.compilations, rulekit.compile.latency_ms, rulekit.compile.errors
//   - rulekit.cache.lookups
func WithMetrics(enabled bool) Option {
	return func(c *engineConfig) {
		c.metricsEnabled = enabled
		if enabled {
			c.metrics = observability.NewMetricsRecorder()
		} else {
			c.metrics = observability.NoopMetrics{}
		}
	}
}

// WithMetricsRecorder installs a custom recorder and enables metrics.
func WithMetricsRecorder(m observability.MetricsRecorder) Option {
	return func(c *engineConfig) {
		if m == nil {
			return
		}
		c.metricsEnabled = true
		c.metrics = m
	}
}

// WithTracing enables OpenTelemetry spans using the global tracer
// provider. Disabled by default.
func WithTracing(enabled bool) Option {
	return func(c *engineConfig) {
		c.tracingEnabled = enabled
		if enabled {
			c.spans = observability.NewSpanManager()
		} else {
			c.spans = observability.NoopSpanManager{}
		}
	}
}

// WithSpanManager installs a custom span manager and enables tracing.
func WithSpanManager(sm observability.SpanManager) Option {
	return func(c *engineConfig) {
		if sm == nil {
			return
		}
		c.tracingEnabled = true
		c.spans = sm
	}
}

// WithProgramCache caches compiled programs by source text. When more than
// maxEntries programs are cached the oldest is evicted; zero or negative
// means unbounded. Sources that fail to compile are never cached.
//
// Example:
//
//	engine := rulekit.New(rulekit.WithProgramCache(1024))
func WithProgramCache(maxEntries int) Option {
	return func(c *engineConfig) {
		c.cacheEnabled = true
		c.cacheSize = maxEntries
	}
}
