package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracer is the rulekit tracer instance.
// Uses the global OTel tracer provider.
var tracer = otel.Tracer("rulekit")

// SpanManager handles trace span lifecycle.
// Use NewSpanManager() for OTel tracing or NoopSpanManager{} when disabled.
type SpanManager interface {
	// StartCompileSpan starts a span for lexing and parsing an expression.
	StartCompileSpan(ctx context.Context, source string) (context.Context, trace.Span)

	// StartEvaluateSpan starts a span for evaluating an expression.
	StartEvaluateSpan(ctx context.Context, source string) (context.Context, trace.Span)

	// StartRuleSpan starts a span for one rule of a ruleset.
	// Evaluate spans started from the returned context are its children.
	StartRuleSpan(ctx context.Context, ruleset, rule string) (context.Context, trace.Span)

	// EndSpanWithError completes a span, optionally recording an error.
	EndSpanWithError(span trace.Span, err error)

	// AddSpanEvent adds an event to the current span in context.
	AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue)
}

// otelSpanManager implements SpanManager using OpenTelemetry.
type otelSpanManager struct{}

// NewSpanManager returns a SpanManager that uses OpenTelemetry.
//
// The span manager uses the global OTel tracer provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetTracerProvider(yourProvider)
func NewSpanManager() SpanManager {
	return &otelSpanManager{}
}

// StartCompileSpan starts a span for a compilation.
func (m *otelSpanManager) StartCompileSpan(ctx context.Context, source string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "rulekit.compile",
		trace.WithAttributes(
			attribute.String("rulekit.expression", Truncate(source)),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// StartEvaluateSpan starts a span for an evaluation.
func (m *otelSpanManager) StartEvaluateSpan(ctx context.Context, source string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "rulekit.evaluate",
		trace.WithAttributes(
			attribute.String("rulekit.expression", Truncate(source)),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// StartRuleSpan starts a span for a ruleset rule.
func (m *otelSpanManager) StartRuleSpan(ctx context.Context, ruleset, rule string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "rulekit.rule."+rule,
		trace.WithAttributes(
			attribute.String("rulekit.ruleset", ruleset),
			attribute.String("rulekit.rule", rule),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndSpanWithError completes a span, optionally recording an error.
func (m *otelSpanManager) EndSpanWithError(span trace.Span, err error) {
	EndSpanWithError(span, err)
}

// AddSpanEvent adds an event to the current span.
func (m *otelSpanManager) AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	AddSpanEvent(ctx, name, attrs...)
}

// EndSpanWithError completes a span, optionally recording an error.
func EndSpanWithError(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// AddSpanEvent adds an event to the current span in context.
func AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if span == nil || !span.IsRecording() {
		return
	}
	span.AddEvent(name, trace.WithAttributes(attrs...))
}
