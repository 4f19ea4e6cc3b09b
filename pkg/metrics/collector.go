package metrics

import (
	"time"

	"github.com/cuemby/gradenet/pkg/liveness"
	"github.com/cuemby/gradenet/pkg/registry"
)

// Collector periodically samples the assignment registry and the liveness
// tracker and publishes their state as gauges.
type Collector struct {
	reg    *registry.Registry
	live   *liveness.Tracker
	stopCh chan struct{}
}

// NewCollector builds a Collector over reg and live.
func NewCollector(reg *registry.Registry, live *liveness.Tracker) *Collector {
	return &Collector{
		reg:    reg,
		live:   live,
		stopCh: make(chan struct{}),
	}
}

// Start begins sampling on a 15-second interval, collecting once
// immediately before the first tick.
func (c *Collector) Start() {
	ticker := time.NewTicker(15 * time.Second)
	go func() {
		c.collect()
		for {
			select {
			case <-ticker.C:
				c.collect()
			case <-c.stopCh:
				ticker.Stop()
				return
			}
		}
	}()
}

// Stop halts the collector. Not idempotent: a second call panics on the
// already-closed stop channel.
func (c *Collector) Stop() {
	close(c.stopCh)
}

func (c *Collector) collect() {
	notAssigned, inFlight, finished, exhausted := c.reg.Counts()

	AssignmentsTotal.Set(float64(c.reg.TotalAssignments()))
	AssignmentsByState.WithLabelValues("not_assigned").Set(float64(notAssigned))
	AssignmentsByState.WithLabelValues("assigned").Set(float64(inFlight))
	AssignmentsByState.WithLabelValues("finished").Set(float64(finished))
	AssignmentsByState.WithLabelValues("exhausted").Set(float64(exhausted))

	if c.live != nil {
		WorkersConnected.Set(float64(c.live.Count()))
	}
}
