package mq

import (
	"fmt"
	"sync"

	"github.com/nats-io/nats.go"

	"github.com/cuemby/gradenet/pkg/wire"
)

// Publisher broadcasts messages on one subject. Binding is implicit in NATS:
// a Publisher needs no prior Subscriber to exist.
type Publisher struct {
	conn    *nats.Conn
	subject string

	mu     sync.Mutex
	closed bool
}

// NewPublisher returns a Publisher for subject over conn. conn is shared
// with the rest of the fabric and is not closed by Publisher.Close.
func NewPublisher(conn *nats.Conn, subject string) *Publisher {
	return &Publisher{conn: conn, subject: subject}
}

// Publish sends data to every currently-connected Subscriber.
func (p *Publisher) Publish(data []byte) error {
	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()
	if closed {
		return fmt.Errorf("%w: publish on closed publisher", wire.ErrShutdown)
	}

	if err := p.conn.Publish(p.subject, data); err != nil {
		return fmt.Errorf("%w: publish to %s: %v", wire.ErrTransport, p.subject, err)
	}
	return nil
}

// Close marks the Publisher closed. Idempotent; does not touch conn, which
// the other fabric roles may still be using.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}
