// Package observability provides structured logging, metrics, and tracing
// for rule compilation and evaluation.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"log/slog"
	"time"

	"github.com/randalmurphal/rulekit/pkg/rulekit/diag"
)

// maxSourceLen bounds expression text copied into log fields and span
// attributes.
const maxSourceLen = 256

// EnrichLogger adds rule context to a logger.
// Returns a new logger with ruleset and rule fields.
//
// Example:
//
//	enriched := EnrichLogger(logger, "pricing", "vip_discount")
//	enriched.Info("evaluating") // includes ruleset, rule
func EnrichLogger(logger *slog.Logger, ruleset, rule string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("ruleset", ruleset),
		slog.String("rule", rule),
	)
}

// LogEvaluateStart logs the start of an evaluation.
func LogEvaluateStart(logger *slog.Logger, source string) {
	if logger == nil {
		return
	}
	logger.Debug("evaluation starting",
		slog.String("expression", Truncate(source)),
	)
}

// LogEvaluateComplete logs a successful evaluation.
func LogEvaluateComplete(logger *slog.Logger, source string, durationMs float64, result string) {
	if logger == nil {
		return
	}
	logger.Debug("evaluation completed",
		slog.String("expression", Truncate(source)),
		slog.Float64("duration_ms", durationMs),
		slog.String("result", Truncate(result)),
	)
}

// LogEvaluateError logs a failed evaluation with its error category.
func LogEvaluateError(logger *slog.Logger, source string, err error, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Warn("evaluation failed",
		slog.String("expression", Truncate(source)),
		slog.String("error", err.Error()),
		slog.String("category", diag.Categorize(err).String()),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogCompile logs the outcome of compiling an expression.
func LogCompile(logger *slog.Logger, source string, durationMs float64, err error) {
	if logger == nil {
		return
	}
	if err != nil {
		logger.Warn("compile failed",
			slog.String("expression", Truncate(source)),
			slog.String("error", err.Error()),
			slog.String("category", diag.Categorize(err).String()),
		)
		return
	}
	logger.Debug("compiled",
		slog.String("expression", Truncate(source)),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogCacheHit logs a program served from the cache.
func LogCacheHit(logger *slog.Logger, source string) {
	if logger == nil {
		return
	}
	logger.Debug("program cache hit",
		slog.String("expression", Truncate(source)),
	)
}

// LogRulesetLoaded logs a ruleset becoming ready for evaluation.
func LogRulesetLoaded(logger *slog.Logger, name string, rules int) {
	if logger == nil {
		return
	}
	logger.Info("ruleset loaded",
		slog.String("ruleset", name),
		slog.Int("rules", rules),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time in milliseconds.
//
// Example:
//
//	done := TimedOperation()
//	// ... do work ...
//	durationMs := done()
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start).Microseconds()) / 1000
	}
}

// Truncate shortens s to a bounded length for logs and span attributes.
func Truncate(s string) string {
	if len(s) <= maxSourceLen {
		return s
	}
	return s[:maxSourceLen] + "..."
}
