package commander

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cuemby/gradenet/pkg/config"
	"github.com/cuemby/gradenet/pkg/events"
	"github.com/cuemby/gradenet/pkg/liveness"
	"github.com/cuemby/gradenet/pkg/metrics"
	"github.com/cuemby/gradenet/pkg/mq"
	"github.com/cuemby/gradenet/pkg/registry"
	"github.com/cuemby/gradenet/pkg/tracing"
	"github.com/cuemby/gradenet/pkg/util"
	"github.com/cuemby/gradenet/pkg/wire"
)

// Callbacks are the user's observation channel during a run. Any left nil
// default to no-ops.
type Callbacks struct {
	OnSuccess         func(key string)
	OnFailure         func(key string)
	OnClientConnected func(ip string)
	OnClientTimeout   func(ip string)
}

func (c Callbacks) fillDefaults() Callbacks {
	if c.OnSuccess == nil {
		c.OnSuccess = func(string) {}
	}
	if c.OnFailure == nil {
		c.OnFailure = func(string) {}
	}
	if c.OnClientConnected == nil {
		c.OnClientConnected = func(string) {}
	}
	if c.OnClientTimeout == nil {
		c.OnClientTimeout = func(string) {}
	}
	return c
}

// Commander is the central dispatch-and-completion engine. Build one with
// New, then call Run.
type Commander struct {
	cfg       config.CommanderConfig
	fabric    *mq.Fabric
	registry  *registry.Registry
	liveness  *liveness.Tracker
	commands  []string
	callbacks Callbacks
	events    *events.Broker
	tracer    *tracing.Tracer

	heartbeatPub        *mq.Publisher
	heartbeatRespServer *mq.Responder
	testSpecPusher      *mq.Pusher
	fileServer          *mq.Responder
	resultServer        *mq.Responder

	shutdownMu sync.Mutex
	shutdown   bool
	closeOnce  sync.Once

	heartbeatResult *util.Cell[error]
	heartbeatRespResult *util.Cell[error]
	workPusherResult    *util.Cell[error]
	fileResponderResult *util.Cell[error]
	resultResponderResult *util.Cell[error]
}

// New dials the messaging fabric, seeds the assignment registry from the
// immediate subdirectories of cfg.TestDir, loads the command list, and
// installs callbacks (defaulting each unset one to a no-op).
func New(cfg config.CommanderConfig, callbacks Callbacks, tracer *tracing.Tracer) (*Commander, error) {
	fabric, err := mq.Dial(cfg.NATSURL, cfg.BasePort)
	if err != nil {
		return nil, err
	}

	keys, err := scanAssignmentKeys(cfg.TestDir)
	if err != nil {
		fabric.Close()
		return nil, err
	}

	commands, err := config.ReadCommands(cfg.CommandFile)
	if err != nil {
		fabric.Close()
		return nil, err
	}

	broker := events.NewBroker(0, 0)
	broker.Start()

	return &Commander{
		cfg:                   cfg,
		fabric:                fabric,
		registry:              registry.NewRegistry(keys),
		liveness:              liveness.NewTracker(),
		commands:              commands,
		callbacks:             callbacks.fillDefaults(),
		events:                broker,
		tracer:                tracer,
		heartbeatPub:          fabric.HeartbeatPublisher(),
		heartbeatRespServer:   fabric.HeartbeatRespResponder(),
		testSpecPusher:        fabric.TestSpecPusher(),
		fileServer:            fabric.FileResponder(),
		resultServer:          fabric.ResultResponder(),
		heartbeatResult:       util.NewCell[error](),
		heartbeatRespResult:   util.NewCell[error](),
		workPusherResult:      util.NewCell[error](),
		fileResponderResult:   util.NewCell[error](),
		resultResponderResult: util.NewCell[error](),
	}, nil
}

// scanAssignmentKeys enumerates the immediate subdirectories of testDir,
// which name the assignment keys the registry is seeded with.
func scanAssignmentKeys(testDir string) ([]string, error) {
	entries, err := os.ReadDir(testDir)
	if err != nil {
		return nil, fmt.Errorf("%w: scan test dir %s: %v", wire.ErrIO, testDir, err)
	}
	var keys []string
	for _, e := range entries {
		if e.IsDir() {
			keys = append(keys, e.Name())
		}
	}
	return keys, nil
}

// Registry exposes the underlying assignment registry, e.g. for a status
// endpoint.
func (c *Commander) Registry() *registry.Registry { return c.registry }

// Liveness exposes the underlying liveness tracker.
func (c *Commander) Liveness() *liveness.Tracker { return c.liveness }

// Events exposes the broker callers can Subscribe to for live run updates.
func (c *Commander) Events() *events.Broker { return c.events }

// FabricConnected reports whether the messaging fabric's NATS connection is
// currently up, for the commander's "mq" health probe.
func (c *Commander) FabricConnected() bool { return c.fabric.Connected() }

func (c *Commander) isShuttingDown() bool {
	c.shutdownMu.Lock()
	defer c.shutdownMu.Unlock()
	return c.shutdown
}

// Run starts the five service loops and blocks until every assignment key
// has reached a terminal state. It returns the first surfaced error among
// the five loops' result cells, or nil if every loop exited cleanly.
func (c *Commander) Run() error {
	collector := metrics.NewCollector(c.registry, c.liveness)
	collector.Start()
	defer collector.Stop()

	var wg sync.WaitGroup
	wg.Add(5)
	// runLoop stores loop's result in cell; a panic in loop is recovered and
	// stored as an error so it ends only that loop.
	runLoop := func(cell *util.Cell[error], loop func() error) {
		defer wg.Done()
		defer func() {
			if r := recover(); r != nil {
				cell.Set(fmt.Errorf("service loop panicked: %v", r))
			}
		}()
		cell.Set(loop())
	}
	go runLoop(c.heartbeatResult, c.runHeartbeatPublisher)
	go runLoop(c.heartbeatRespResult, c.runHeartbeatResponder)
	go runLoop(c.workPusherResult, c.runWorkPusher)
	go runLoop(c.fileResponderResult, c.runFileResponder)
	go runLoop(c.resultResponderResult, c.runResultResponder)

	c.registry.WaitForDone()
	c.events.Publish(events.NewEvent(events.EventRunDone, "all assignments reached a terminal state"))

	c.Close()
	wg.Wait()

	for _, cell := range []*util.Cell[error]{
		c.heartbeatResult, c.heartbeatRespResult, c.workPusherResult,
		c.fileResponderResult, c.resultResponderResult,
	} {
		if err, ok := cell.Get(); ok && err != nil {
			return err
		}
	}
	return nil
}

// Close drives the shutdown sequence: wait long enough for a final
// done=true heartbeat to reach every worker, flip the shutdown flag so
// each service loop's next iteration exits, then close every socket.
// Idempotent, so a CLI signal handler and Run's own natural-completion path
// can both call it without double-closing anything.
func (c *Commander) Close() {
	c.closeOnce.Do(c.closeLocked)
}

func (c *Commander) closeLocked() {
	time.Sleep(2 * c.cfg.ClientTimeoutDuration())

	c.shutdownMu.Lock()
	c.shutdown = true
	c.shutdownMu.Unlock()

	_ = c.heartbeatPub.Close()
	_ = c.heartbeatRespServer.Close()
	_ = c.testSpecPusher.Close()
	_ = c.fileServer.Close()
	_ = c.resultServer.Close()
	c.fabric.Close()
	c.events.Stop()
}

// ResultsDir returns the directory results are written to.
func (c *Commander) ResultsDir() string {
	return c.cfg.ResultsDir
}

func resultPath(dir, key, ext string) string {
	return filepath.Join(dir, key+"."+ext)
}
