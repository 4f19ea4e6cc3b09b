package mq

import (
	"fmt"
	"sync"

	"github.com/nats-io/nats.go"

	"github.com/cuemby/gradenet/pkg/wire"
)

// Subscriber receives every Publish sent on one subject after it connects.
// Messages sent before Connect are never seen.
type Subscriber struct {
	conn    *nats.Conn
	subject string

	mu  sync.Mutex
	sub *nats.Subscription
}

// NewSubscriber returns a Subscriber for subject over conn.
func NewSubscriber(conn *nats.Conn, subject string) *Subscriber {
	return &Subscriber{conn: conn, subject: subject}
}

// Connect installs handler for every message received on the subject.
// handler runs on a NATS-managed goroutine per message, and keeps running
// until Close is called.
func (s *Subscriber) Connect(handler func(data []byte)) error {
	sub, err := s.conn.Subscribe(s.subject, func(msg *nats.Msg) {
		handler(msg.Data)
	})
	if err != nil {
		return fmt.Errorf("%w: subscribe to %s: %v", wire.ErrTransport, s.subject, err)
	}

	s.mu.Lock()
	s.sub = sub
	s.mu.Unlock()
	return nil
}

// Close unsubscribes. Idempotent.
func (s *Subscriber) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sub == nil {
		return nil
	}
	err := s.sub.Unsubscribe()
	s.sub = nil
	if err != nil {
		return fmt.Errorf("%w: unsubscribe from %s: %v", wire.ErrTransport, s.subject, err)
	}
	return nil
}
