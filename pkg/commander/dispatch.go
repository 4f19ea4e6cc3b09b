package commander

import (
	"context"
	"errors"
	"time"

	"github.com/cuemby/gradenet/pkg/events"
	"github.com/cuemby/gradenet/pkg/log"
	"github.com/cuemby/gradenet/pkg/metrics"
	"github.com/cuemby/gradenet/pkg/wire"
)

// popYield is how long the work pusher sleeps between PopNext attempts that
// found nothing to dispatch, to avoid a hot spin while assignments are all
// in flight.
const popYield = 50 * time.Millisecond

// runWorkPusher loops, popping an eligible key and pushing its TestSpec to
// whichever puller NATS load-balances it to, spawning a one-shot alarm for
// each dispatch.
func (c *Commander) runWorkPusher() error {
	logger := log.WithComponent("work-pusher")

	for !c.isShuttingDown() {
		key, ok := c.registry.PopNext()
		if !ok {
			c.registry.SignalIfDone()
			time.Sleep(popYield)
			continue
		}
		c.registry.MarkAssigned(key)
		_, span := c.tracer.StartDispatchSpan(context.Background(), key, c.registry.AttemptsFor(key))

		timer := metrics.NewTimer()
		ts := wire.TestSpec{Key: key, TimeoutSeconds: c.cfg.TestTimeout, Commands: c.commands}
		data, err := wire.Encode(ts)
		if err != nil {
			span.End()
			return err
		}

		if err := c.testSpecPusher.Push(data); err != nil {
			if errors.Is(err, wire.ErrShutdown) {
				span.End()
				return nil
			}
			logger.Warn().Err(err).Str("key", key).Msg("push test spec")
		} else {
			metrics.MessagesSentTotal.WithLabelValues("testspec").Inc()
		}
		span.End()
		timer.ObserveDuration(metrics.DispatchLatency)
		metrics.AssignmentAttemptsTotal.WithLabelValues("assigned").Inc()
		c.events.Publish(events.NewEvent(events.EventAssignmentDispatched, key))

		go c.runAlarm(key)
		c.registry.SignalIfDone()
	}
	return nil
}

// runAlarm sleeps client_timeout after dispatching key, then gives up on
// the worker: OnTimeout re-queues the key if it is not yet finished and
// always invokes the failure callback, per the registry's documented
// timeout semantics.
func (c *Commander) runAlarm(key string) {
	_, span := c.tracer.StartAlarmSpan(context.Background(), key)
	defer span.End()

	time.Sleep(c.cfg.ClientTimeoutDuration())

	c.registry.OnTimeout(key, func(k string) {
		metrics.AssignmentAttemptsTotal.WithLabelValues("timed_out").Inc()
		c.events.Publish(events.NewEvent(events.EventAssignmentFailed, k))
		c.callbacks.OnFailure(k)
	})
}
