package mq

import (
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/cuemby/gradenet/pkg/log"
	"github.com/cuemby/gradenet/pkg/wire"
)

// Fabric owns the single shared NATS connection gradenet's five channels
// are multiplexed over, plus the subjects those channels resolve to.
type Fabric struct {
	conn     *nats.Conn
	subjects Subjects
}

// Dial connects to url and derives the channel layout from basePort.
func Dial(url string, basePort uint16) (*Fabric, error) {
	opts := []nats.Option{
		nats.Name("gradenet"),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn("nats disconnected: " + err.Error())
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("nats reconnected to " + nc.ConnectedUrl())
		}),
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: connect to %s: %v", wire.ErrTransport, url, err)
	}

	return &Fabric{conn: nc, subjects: NewSubjects(basePort)}, nil
}

// Subjects returns the channel layout this Fabric was built with.
func (f *Fabric) Subjects() Subjects {
	return f.subjects
}

// Connected reports whether the shared NATS connection is currently up.
// Used by health probes to back the "mq" readiness component with the
// fabric's actual connection state instead of a flag set once at startup.
func (f *Fabric) Connected() bool {
	return f.conn.IsConnected()
}

func (f *Fabric) HeartbeatPublisher() *Publisher     { return NewPublisher(f.conn, f.subjects.Heartbeat) }
func (f *Fabric) HeartbeatSubscriber() *Subscriber   { return NewSubscriber(f.conn, f.subjects.Heartbeat) }
func (f *Fabric) TestSpecPusher() *Pusher            { return NewPusher(f.conn, f.subjects.TestSpec) }
func (f *Fabric) TestSpecPuller() *Puller            { return NewPuller(f.conn, f.subjects.TestSpec) }
func (f *Fabric) FileResponder() *Responder          { return NewResponder(f.conn, f.subjects.Files) }
func (f *Fabric) FileRequester() *Requester          { return NewRequester(f.conn, f.subjects.Files) }
func (f *Fabric) ResultResponder() *Responder        { return NewResponder(f.conn, f.subjects.Results) }
func (f *Fabric) ResultRequester() *Requester        { return NewRequester(f.conn, f.subjects.Results) }
func (f *Fabric) HeartbeatRespResponder() *Responder { return NewResponder(f.conn, f.subjects.HeartbeatResp) }
func (f *Fabric) HeartbeatRespRequester() *Requester { return NewRequester(f.conn, f.subjects.HeartbeatResp) }

// Close closes the shared NATS connection. Any role wrapper built from this
// Fabric becomes unusable afterward.
func (f *Fabric) Close() {
	f.conn.Close()
}
