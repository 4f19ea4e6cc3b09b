/*
Package tracing wires an OpenTelemetry tracer provider for gradenet, with a
stdout exporter for local runs and an OTLP/gRPC exporter for production. It
is purely observational: disabling it (the default) never changes dispatch,
retry, or execution behavior, only whether spans are recorded.

StartDispatchSpan, StartAlarmSpan, StartRPCSpan, and StartExecutionSpan wrap
otel.Tracer.Start with the attribute sets each of the commander's and agent's
operations care about (assignment key, attempt count, channel name).
*/
package tracing
