/*
Package events provides an in-memory event broker for gradenet's run
observability.

Broker is a lightweight, topic-agnostic pub/sub bus: every Publish reaches
every current Subscriber, each over its own buffered channel so one slow
consumer cannot block another or the publisher.

	┌──────────────── EVENT BROKER ─────────────────┐
	│  Publish → eventCh (configurable buffer) →    │
	│     broadcast loop → one subscriber channel   │
	│     each (configurable buffer; a full buffer  │
	│     drops the event and counts it in          │
	│     gradenet_events_dropped_total)            │
	└────────────────────────────────────────────────┘

Event types track one commander run's lifecycle: assignment.dispatched,
assignment.finished, assignment.failed, assignment.exhausted,
worker.connected, worker.timed_out, and run.done. The CLI's "commander run"
subscribes and logs each event at debug level, without touching the
registry or liveness tracker's internal locks.
*/
package events
