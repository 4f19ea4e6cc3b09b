package commander

import (
	"errors"
	"time"

	"github.com/cuemby/gradenet/pkg/events"
	"github.com/cuemby/gradenet/pkg/log"
	"github.com/cuemby/gradenet/pkg/metrics"
	"github.com/cuemby/gradenet/pkg/wire"
)

// runHeartbeatPublisher loops, publishing a Heartbeat every client-timeout
// period and sweeping the liveness tracker for stale workers, until Close
// flips the shutdown flag. It keeps running through Close's 2×client_timeout
// drain so the final done=true heartbeat is published before the socket
// closes underneath it.
func (c *Commander) runHeartbeatPublisher() error {
	logger := log.WithComponent("heartbeat-publisher")

	for !c.isShuttingDown() {
		hb := wire.Heartbeat{Time: float64(time.Now().Unix()), Done: c.registry.Done()}
		data, err := wire.Encode(hb)
		if err != nil {
			return err
		}

		if err := c.heartbeatPub.Publish(data); err != nil {
			if errors.Is(err, wire.ErrShutdown) {
				return nil
			}
			logger.Warn().Err(err).Msg("publish heartbeat")
		} else {
			metrics.MessagesSentTotal.WithLabelValues("heartbeat").Inc()
		}

		c.liveness.Cleanup(c.cfg.ClientTimeoutDuration(), func(ip string) {
			metrics.WorkerEvictionsTotal.Inc()
			c.events.Publish(events.NewEvent(events.EventWorkerTimedOut, ip))
			c.callbacks.OnClientTimeout(ip)
		})

		time.Sleep(c.cfg.ClientTimeoutDuration())
	}
	return nil
}

// runHeartbeatResponder serves the heartbeat-ack channel: every
// HeartbeatResp is ACKed with an empty Files and records the worker as
// live. Anything else is ACKed and dropped.
func (c *Commander) runHeartbeatResponder() error {
	logger := log.WithComponent("heartbeat-responder")

	err := c.heartbeatRespServer.Serve(func(data []byte) []byte {
		ack, _ := wire.Encode(wire.Files{})

		hr, err := wire.DecodeHeartbeatResp(data)
		if err != nil {
			metrics.ProtocolErrorsTotal.WithLabelValues("heartbeat_resp").Inc()
			return ack
		}
		metrics.MessagesReceivedTotal.WithLabelValues("heartbeat_resp").Inc()

		c.liveness.AddIP(hr.IP, func(ip string) {
			logger.Info().Str("ip", ip).Msg("worker connected")
			c.events.Publish(events.NewEvent(events.EventWorkerConnected, ip))
			c.callbacks.OnClientConnected(ip)
		})
		return ack
	})
	return err
}
