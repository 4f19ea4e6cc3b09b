package tracing

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// StartDispatchSpan traces one work-pusher iteration that obtained key for
// dispatch.
func (t *Tracer) StartDispatchSpan(ctx context.Context, key string, attempt int) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "dispatch",
		trace.WithAttributes(
			attribute.String("gradenet.key", key),
			attribute.Int("gradenet.attempt", attempt),
		),
	)
}

// StartAlarmSpan traces one per-assignment alarm's sleep-then-check cycle.
func (t *Tracer) StartAlarmSpan(ctx context.Context, key string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "alarm",
		trace.WithAttributes(attribute.String("gradenet.key", key)),
	)
}

// StartRPCSpan traces one request/response exchange over a named channel
// (files, results, heartbeat_resp).
func (t *Tracer) StartRPCSpan(ctx context.Context, channel string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "rpc."+channel,
		trace.WithAttributes(attribute.String("gradenet.channel", channel)),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

// StartExecutionSpan traces the agent's sequential execution of one
// assignment's commands.
func (t *Tracer) StartExecutionSpan(ctx context.Context, key string, commandCount int) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "execute",
		trace.WithAttributes(
			attribute.String("gradenet.key", key),
			attribute.Int("gradenet.command_count", commandCount),
		),
	)
}
