package mq

import (
	"fmt"
	"sync"

	"github.com/nats-io/nats.go"

	"github.com/cuemby/gradenet/pkg/wire"
)

// Responder answers every request on one subject exactly once. Serve blocks
// until Close is called, so callers run it on its own goroutine.
type Responder struct {
	conn    *nats.Conn
	subject string

	mu        sync.Mutex
	sub       *nats.Subscription
	stopCh    chan struct{}
	closeOnce sync.Once
}

// NewResponder returns a Responder for subject over conn.
func NewResponder(conn *nats.Conn, subject string) *Responder {
	return &Responder{conn: conn, subject: subject, stopCh: make(chan struct{})}
}

// Serve installs handler and blocks until Close unblocks it. handler is
// invoked once per request and its return value is sent back as the single
// reply; a failed reply send is dropped rather than surfaced, since the
// requester's own retry (driven by the commander's alarm/timeout path)
// recovers it.
func (r *Responder) Serve(handler func(data []byte) []byte) error {
	sub, err := r.conn.Subscribe(r.subject, func(msg *nats.Msg) {
		reply := handler(msg.Data)
		_ = msg.Respond(reply)
	})
	if err != nil {
		return fmt.Errorf("%w: subscribe to %s: %v", wire.ErrTransport, r.subject, err)
	}

	r.mu.Lock()
	r.sub = sub
	r.mu.Unlock()

	<-r.stopCh
	return nil
}

// Close unblocks Serve and unsubscribes. Idempotent.
func (r *Responder) Close() error {
	var unsubErr error
	r.closeOnce.Do(func() {
		r.mu.Lock()
		if r.sub != nil {
			unsubErr = r.sub.Unsubscribe()
			r.sub = nil
		}
		r.mu.Unlock()
		close(r.stopCh)
	})
	if unsubErr != nil {
		return fmt.Errorf("%w: unsubscribe from %s: %v", wire.ErrTransport, r.subject, unsubErr)
	}
	return nil
}
