package events

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cuemby/gradenet/pkg/metrics"
)

// EventType represents the type of event
type EventType string

const (
	EventAssignmentDispatched EventType = "assignment.dispatched"
	EventAssignmentFinished   EventType = "assignment.finished"
	EventAssignmentFailed     EventType = "assignment.failed"
	EventAssignmentExhausted  EventType = "assignment.exhausted"
	EventWorkerConnected      EventType = "worker.connected"
	EventWorkerTimedOut       EventType = "worker.timed_out"
	EventRunDone              EventType = "run.done"
)

// Event represents one occurrence in a commander run.
type Event struct {
	ID        string
	Type      EventType
	Timestamp time.Time
	Message   string
	Metadata  map[string]string
}

// NewEvent stamps a correlation ID and timestamp at construction time,
// rather than leaving that to Publish, so a caller holding an *Event before
// it is ever published (e.g. for logging or comparison) already has both.
func NewEvent(t EventType, message string) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Type:      t,
		Timestamp: time.Now(),
		Message:   message,
	}
}

// Subscriber is a channel that receives events.
type Subscriber chan *Event

// Default buffer sizes used when a Broker is built with a non-positive
// size for either argument. The event queue is sized for a dispatch-heavy
// commander run (many assignments in flight at once); the per-subscriber
// buffer is smaller since subscribers are expected to drain promptly (a CLI
// event logger, a future status API) rather than batch.
const (
	DefaultEventBufferSize      = 256
	DefaultSubscriberBufferSize = 32
)

// Broker manages event subscriptions and distribution. Slow subscribers
// that fill their buffer have events dropped rather than blocking the
// commander's dispatch/result path; drops are counted so operators can see
// it happening instead of silently losing visibility.
type Broker struct {
	subscribers  map[Subscriber]bool
	mu           sync.RWMutex
	eventCh      chan *Event
	stopCh       chan struct{}
	subBufferCap int
}

// NewBroker creates a new event broker. A non-positive eventBufferSize or
// subscriberBufferSize falls back to this package's default.
func NewBroker(eventBufferSize, subscriberBufferSize int) *Broker {
	if eventBufferSize <= 0 {
		eventBufferSize = DefaultEventBufferSize
	}
	if subscriberBufferSize <= 0 {
		subscriberBufferSize = DefaultSubscriberBufferSize
	}
	return &Broker{
		subscribers:  make(map[Subscriber]bool),
		eventCh:      make(chan *Event, eventBufferSize),
		stopCh:       make(chan struct{}),
		subBufferCap: subscriberBufferSize,
	}
}

// Start begins the broker's event distribution loop
func (b *Broker) Start() {
	go b.run()
}

// Stop stops the broker
func (b *Broker) Stop() {
	close(b.stopCh)
}

// Subscribe creates a new subscription and returns a channel
func (b *Broker) Subscribe() Subscriber {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub := make(Subscriber, b.subBufferCap)
	b.subscribers[sub] = true
	return sub
}

// Unsubscribe removes a subscription
func (b *Broker) Unsubscribe(sub Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.subscribers, sub)
	close(sub)
}

// Publish enqueues event for distribution to every current subscriber. If
// event was not built via NewEvent and still has a zero ID or Timestamp,
// Publish fills them in so every delivered event carries both.
func (b *Broker) Publish(event *Event) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	select {
	case b.eventCh <- event:
	case <-b.stopCh:
	}
}

func (b *Broker) run() {
	for {
		select {
		case event := <-b.eventCh:
			b.broadcast(event)
		case <-b.stopCh:
			return
		}
	}
}

func (b *Broker) broadcast(event *Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for sub := range b.subscribers {
		select {
		case sub <- event:
		default:
			metrics.EventsDroppedTotal.WithLabelValues(string(event.Type)).Inc()
		}
	}
}

// SubscriberCount returns the number of active subscribers
func (b *Broker) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
