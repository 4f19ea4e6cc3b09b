package agent

import (
	"context"
	"sync"

	"github.com/cuemby/gradenet/pkg/config"
	"github.com/cuemby/gradenet/pkg/mq"
	"github.com/cuemby/gradenet/pkg/tracing"
)

// Agent is gradenet's worker client: one heartbeat subscriber plus one main
// pull loop, built once from New and driven to completion by Run.
type Agent struct {
	cfg    config.AgentConfig
	fabric *mq.Fabric
	tracer *tracing.Tracer

	heartbeatSub     *mq.Subscriber
	puller           *mq.Puller
	fileReq          *mq.Requester
	resultReq        *mq.Requester
	heartbeatRespReq *mq.Requester

	finishedMu sync.Mutex
	finished   bool
	doneCh     chan struct{}
	closeOnce  sync.Once
}

// New dials the messaging fabric at cfg.RemotePort and builds the five
// role wrappers the agent needs: one subscriber, one puller, and three
// requesters.
func New(cfg config.AgentConfig, tracer *tracing.Tracer) (*Agent, error) {
	fabric, err := mq.Dial(cfg.NATSURL, cfg.RemotePort)
	if err != nil {
		return nil, err
	}

	return &Agent{
		cfg:              cfg,
		fabric:           fabric,
		tracer:           tracer,
		heartbeatSub:     fabric.HeartbeatSubscriber(),
		puller:           fabric.TestSpecPuller(),
		fileReq:          fabric.FileRequester(),
		resultReq:        fabric.ResultRequester(),
		heartbeatRespReq: fabric.HeartbeatRespRequester(),
		doneCh:           make(chan struct{}),
	}, nil
}

// Run connects the heartbeat subscriber and the main pull loop, then blocks
// until a done=true heartbeat is observed or ctx is cancelled.
func (a *Agent) Run(ctx context.Context) error {
	if err := a.heartbeatSub.Connect(a.handleHeartbeat); err != nil {
		return err
	}
	if err := a.puller.Connect(a.handleTestSpec); err != nil {
		return err
	}

	select {
	case <-a.doneCh:
	case <-ctx.Done():
	}
	a.Close()
	return nil
}

// FabricConnected reports whether the messaging fabric's NATS connection is
// currently up, for the agent's "mq" health probe.
func (a *Agent) FabricConnected() bool { return a.fabric.Connected() }

func (a *Agent) isFinished() bool {
	a.finishedMu.Lock()
	defer a.finishedMu.Unlock()
	return a.finished
}

// markFinished flips the finished flag and, the first time only, closes
// the puller to break the main pull loop and unblocks Run.
func (a *Agent) markFinished() {
	a.finishedMu.Lock()
	already := a.finished
	a.finished = true
	a.finishedMu.Unlock()

	if already {
		return
	}
	_ = a.puller.Close()
	a.closeOnce.Do(func() { close(a.doneCh) })
}

// Close closes every socket. Idempotent.
func (a *Agent) Close() {
	_ = a.heartbeatSub.Close()
	_ = a.puller.Close()
	a.fabric.Close()
}
