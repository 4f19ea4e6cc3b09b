/*
Package metrics provides Prometheus metrics collection and exposition for
gradenet.

Metrics cover four areas: the assignment registry's state (gradenet_assignments_total,
gradenet_assignments_by_state, gradenet_assignment_attempts_total), the
liveness tracker (gradenet_workers_connected, gradenet_worker_evictions_total),
the messaging fabric (gradenet_messages_sent_total, gradenet_messages_received_total,
gradenet_protocol_errors_total, all labeled by channel), and agent-side command
execution and host sampling (gradenet_commands_executed_total,
gradenet_command_duration_seconds, gradenet_agent_host_*).

Handler returns the standard promhttp handler for mounting on an HTTP mux.
Collector polls the registry and liveness tracker on a fixed interval and
keeps the gauges current; counters and histograms are updated inline by the
commander and agent service loops as events occur.

Timer is a small helper for recording operation duration into a histogram:

	timer := metrics.NewTimer()
	// ... do work ...
	timer.ObserveDuration(metrics.DispatchLatency)
*/
package metrics
