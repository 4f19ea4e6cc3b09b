package agent

import (
	"context"
	"time"

	"github.com/cuemby/gradenet/pkg/log"
	"github.com/cuemby/gradenet/pkg/metrics"
	"github.com/cuemby/gradenet/pkg/util"
	"github.com/cuemby/gradenet/pkg/wire"
)

// heartbeatRequestTimeout bounds the ack round-trip to the heartbeat
// responder so a stalled commander cannot wedge the subscriber's delivery
// goroutine indefinitely.
const heartbeatRequestTimeout = 10 * time.Second

// handleHeartbeat is the Subscriber.Connect handler: for every Heartbeat
// received, it first marks the agent finished if done is set, so the main
// pull loop unwinds, then discovers this machine's external IP and sends a
// HeartbeatResp.
func (a *Agent) handleHeartbeat(data []byte) {
	logger := log.WithComponent("heartbeat")

	hb, err := wire.DecodeHeartbeat(data)
	if err != nil {
		metrics.ProtocolErrorsTotal.WithLabelValues("heartbeat").Inc()
		logger.Warn().Err(err).Msg("non-heartbeat message on heartbeat channel")
		return
	}
	metrics.MessagesReceivedTotal.WithLabelValues("heartbeat").Inc()

	if hb.Done {
		a.markFinished()
	}

	ip, err := util.DiscoverExternalIP(a.cfg.ExternalIPEndpoint)
	if err != nil {
		logger.Warn().Err(err).Msg("discover external ip")
		return
	}

	resp, err := wire.Encode(wire.HeartbeatResp{IP: ip})
	if err != nil {
		logger.Warn().Err(err).Msg("encode heartbeat response")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), heartbeatRequestTimeout)
	defer cancel()

	if _, err := a.heartbeatRespReq.Request(ctx, resp); err != nil {
		logger.Warn().Err(err).Msg("send heartbeat response")
		return
	}
	metrics.MessagesSentTotal.WithLabelValues("heartbeat_resp").Inc()
}
