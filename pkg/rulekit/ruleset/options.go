package ruleset

import (
	"log/slog"

	"github.com/randalmurphal/rulekit/pkg/rulekit"
	"github.com/randalmurphal/rulekit/pkg/rulekit/observability"
)

// setConfig holds configuration for building a Ruleset.
type setConfig struct {
	engine    *rulekit.Engine
	constants map[string]any
	logger    *slog.Logger
	spans     observability.SpanManager
}

func defaultSetConfig() setConfig {
	return setConfig{
		engine: rulekit.New(),
		spans:  observability.NoopSpanManager{},
	}
}

// Option configures a Ruleset.
type Option func(*setConfig)

// WithEngine compiles and evaluates rules with e, inheriting its logging,
// metrics, tracing and program cache.
func WithEngine(e *rulekit.Engine) Option {
	return func(c *setConfig) {
		if e != nil {
			c.engine = e
		}
	}
}

// WithConstants sets constants shared by every rule. Constants from a
// ruleset file are merged underneath these.
func WithConstants(constants map[string]any) Option {
	return func(c *setConfig) {
		if c.constants == nil {
			c.constants = make(map[string]any, len(constants))
		}
		for k, v := range constants {
			c.constants[k] = v
		}
	}
}

// WithLogger sets the logger for ruleset events.
func WithLogger(logger *slog.Logger) Option {
	return func(c *setConfig) {
		c.logger = logger
	}
}

// WithTracing wraps each rule evaluation in a span using the global
// tracer provider.
func WithTracing(enabled bool) Option {
	return func(c *setConfig) {
		if enabled {
			c.spans = observability.NewSpanManager()
		} else {
			c.spans = observability.NoopSpanManager{}
		}
	}
}
