package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry state
	AssignmentsTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "gradenet_assignments_total",
			Help: "Total number of assignments the registry was seeded with",
		},
	)

	AssignmentsByState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "gradenet_assignments_by_state",
			Help: "Current assignment count by state (not_assigned, assigned, finished, exhausted)",
		},
		[]string{"state"},
	)

	AssignmentAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gradenet_assignment_attempts_total",
			Help: "Total number of dispatch attempts by outcome (assigned, timed_out, completed)",
		},
		[]string{"outcome"},
	)

	// Liveness
	WorkersConnected = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "gradenet_workers_connected",
			Help: "Number of worker IPs currently tracked as live",
		},
	)

	WorkerEvictionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "gradenet_worker_evictions_total",
			Help: "Total number of workers evicted by the liveness tracker for missing heartbeats",
		},
	)

	// Dispatch latency
	DispatchLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gradenet_dispatch_latency_seconds",
			Help:    "Time to encode and push the TestSpec of one popped assignment",
			Buckets: prometheus.DefBuckets,
		},
	)

	AssignmentDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gradenet_assignment_duration_seconds",
			Help:    "Wall-clock time from dispatch to a completion or timeout being recorded",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
		},
	)

	// Messaging fabric
	MessagesSentTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gradenet_messages_sent_total",
			Help: "Total number of messages sent by channel kind",
		},
		[]string{"channel"},
	)

	MessagesReceivedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gradenet_messages_received_total",
			Help: "Total number of messages received by channel kind",
		},
		[]string{"channel"},
	)

	ProtocolErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gradenet_protocol_errors_total",
			Help: "Total number of messages rejected as invalid for their channel",
		},
		[]string{"channel"},
	)

	// Agent-side command execution
	CommandsExecutedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gradenet_commands_executed_total",
			Help: "Total number of grading commands executed by exit outcome (ok, nonzero, timeout, error)",
		},
		[]string{"outcome"},
	)

	CommandDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gradenet_command_duration_seconds",
			Help:    "Duration of a single executed grading command",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"outcome"},
	)

	// Local event broker (ambient observability, never part of the wire protocol)
	EventsDroppedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gradenet_events_dropped_total",
			Help: "Total number of local events dropped because a subscriber's buffer was full, by event type",
		},
		[]string{"type"},
	)

	// Host sampling (agent-side, ambient — never part of the wire protocol)
	HostCPUPercent = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "gradenet_agent_host_cpu_percent",
			Help: "Most recently sampled host CPU utilization percentage",
		},
	)

	HostMemPercent = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "gradenet_agent_host_mem_percent",
			Help: "Most recently sampled host memory utilization percentage",
		},
	)

	HostLoad1 = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "gradenet_agent_host_load1",
			Help: "Most recently sampled 1-minute host load average",
		},
	)
)

func init() {
	prometheus.MustRegister(AssignmentsTotal)
	prometheus.MustRegister(AssignmentsByState)
	prometheus.MustRegister(AssignmentAttemptsTotal)
	prometheus.MustRegister(WorkersConnected)
	prometheus.MustRegister(WorkerEvictionsTotal)
	prometheus.MustRegister(DispatchLatency)
	prometheus.MustRegister(AssignmentDuration)
	prometheus.MustRegister(MessagesSentTotal)
	prometheus.MustRegister(MessagesReceivedTotal)
	prometheus.MustRegister(ProtocolErrorsTotal)
	prometheus.MustRegister(CommandsExecutedTotal)
	prometheus.MustRegister(CommandDuration)
	prometheus.MustRegister(EventsDroppedTotal)
	prometheus.MustRegister(HostCPUPercent)
	prometheus.MustRegister(HostMemPercent)
	prometheus.MustRegister(HostLoad1)
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer is a helper for timing operations.
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ObserveDuration records the duration to a histogram.
func (t *Timer) ObserveDuration(histogram prometheus.Histogram) {
	duration := time.Since(t.start).Seconds()
	histogram.Observe(duration)
}

// ObserveDurationVec records the duration to a histogram vec with labels.
func (t *Timer) ObserveDurationVec(histogram prometheus.ObserverVec, labels ...string) {
	duration := time.Since(t.start).Seconds()
	histogram.WithLabelValues(labels...).Observe(duration)
}

// Duration returns the elapsed time since timer started.
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
