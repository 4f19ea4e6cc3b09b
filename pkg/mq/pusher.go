package mq

import (
	"fmt"
	"sync"

	"github.com/nats-io/nats.go"

	"github.com/cuemby/gradenet/pkg/wire"
)

// Pusher delivers each message to exactly one member of the pull group,
// implemented as a NATS publish against subscribers sharing PullGroup.
type Pusher struct {
	conn    *nats.Conn
	subject string

	mu     sync.Mutex
	closed bool
}

// NewPusher returns a Pusher for subject over conn.
func NewPusher(conn *nats.Conn, subject string) *Pusher {
	return &Pusher{conn: conn, subject: subject}
}

// Push delivers data to exactly one connected Puller.
func (p *Pusher) Push(data []byte) error {
	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()
	if closed {
		return fmt.Errorf("%w: push on closed pusher", wire.ErrShutdown)
	}

	if err := p.conn.Publish(p.subject, data); err != nil {
		return fmt.Errorf("%w: push to %s: %v", wire.ErrTransport, p.subject, err)
	}
	return nil
}

// Close marks the Pusher closed. Idempotent.
func (p *Pusher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}
