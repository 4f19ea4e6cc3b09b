package mq

import (
	"fmt"
	"sync"

	"github.com/nats-io/nats.go"

	"github.com/cuemby/gradenet/pkg/wire"
)

// Puller receives a load-balanced share of the messages pushed to one
// subject: joining PullGroup guarantees NATS delivers each message to only
// one member.
type Puller struct {
	conn    *nats.Conn
	subject string

	mu  sync.Mutex
	sub *nats.Subscription
}

// NewPuller returns a Puller for subject over conn.
func NewPuller(conn *nats.Conn, subject string) *Puller {
	return &Puller{conn: conn, subject: subject}
}

// Connect installs handler for this Puller's share of pushed messages.
// Runs until Close breaks the underlying subscription.
func (p *Puller) Connect(handler func(data []byte)) error {
	sub, err := p.conn.QueueSubscribe(p.subject, PullGroup, func(msg *nats.Msg) {
		handler(msg.Data)
	})
	if err != nil {
		return fmt.Errorf("%w: queue subscribe to %s: %v", wire.ErrTransport, p.subject, err)
	}

	p.mu.Lock()
	p.sub = sub
	p.mu.Unlock()
	return nil
}

// Close unsubscribes, breaking the main pull loop. Idempotent.
func (p *Puller) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.sub == nil {
		return nil
	}
	err := p.sub.Unsubscribe()
	p.sub = nil
	if err != nil {
		return fmt.Errorf("%w: unsubscribe from %s: %v", wire.ErrTransport, p.subject, err)
	}
	return nil
}
