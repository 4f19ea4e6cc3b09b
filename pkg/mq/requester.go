package mq

import (
	"context"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/cuemby/gradenet/pkg/wire"
)

// Requester sends one message on a subject and blocks until the matching
// Responder replies.
type Requester struct {
	conn    *nats.Conn
	subject string
}

// NewRequester returns a Requester for subject over conn.
func NewRequester(conn *nats.Conn, subject string) *Requester {
	return &Requester{conn: conn, subject: subject}
}

// Request sends data and returns the Responder's reply payload.
func (r *Requester) Request(ctx context.Context, data []byte) ([]byte, error) {
	msg, err := r.conn.RequestWithContext(ctx, r.subject, data)
	if err != nil {
		return nil, fmt.Errorf("%w: request to %s: %v", wire.ErrTransport, r.subject, err)
	}
	return msg.Data, nil
}

// Close is a no-op: a Requester holds no standing subscription to release.
// Present for symmetry with the other five roles.
func (r *Requester) Close() error {
	return nil
}
