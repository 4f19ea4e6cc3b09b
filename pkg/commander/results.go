package commander

import (
	"encoding/base64"
	"fmt"
	"os"

	"github.com/cuemby/gradenet/pkg/events"
	"github.com/cuemby/gradenet/pkg/log"
	"github.com/cuemby/gradenet/pkg/metrics"
	"github.com/cuemby/gradenet/pkg/wire"
)

// resultExt is the fixed extension results are persisted under. The wire
// protocol carries only a key and a base64 blob; the commander, not the
// worker, names the file on disk.
const resultExt = "txt"

// runResultResponder serves the result channel: every TestCompletion is
// ACKed immediately, while its transcript is decoded and persisted on a
// separate goroutine before the registry is told the key is finished.
func (c *Commander) runResultResponder() error {
	logger := log.WithComponent("result-responder")

	return c.resultServer.Serve(func(data []byte) []byte {
		ack, _ := wire.Encode(wire.Files{})

		tc, err := wire.DecodeTestCompletion(data)
		if err != nil {
			metrics.ProtocolErrorsTotal.WithLabelValues("results").Inc()
			return ack
		}
		metrics.MessagesReceivedTotal.WithLabelValues("results").Inc()

		go func() {
			raw, err := base64.StdEncoding.DecodeString(tc.ResultsBase64)
			if err != nil {
				logger.Error().Err(err).Str("key", tc.Key).Msg("decode completion transcript")
				return
			}

			if err := c.writeResult(tc.Key, raw); err != nil {
				logger.Error().Err(err).Str("key", tc.Key).Msg("persist result")
				return
			}

			c.registry.OnResult(tc.Key)
			metrics.AssignmentAttemptsTotal.WithLabelValues("completed").Inc()
			c.events.Publish(events.NewEvent(events.EventAssignmentFinished, tc.Key))
			c.callbacks.OnSuccess(tc.Key)
		}()
		return ack
	})
}

// writeResult persists raw to resultsDir/<key>.<resultExt>, creating
// resultsDir if necessary.
func (c *Commander) writeResult(key string, raw []byte) error {
	if err := os.MkdirAll(c.cfg.ResultsDir, 0o755); err != nil {
		return fmt.Errorf("%w: create results dir %s: %v", wire.ErrIO, c.cfg.ResultsDir, err)
	}
	path := resultPath(c.cfg.ResultsDir, key, resultExt)
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("%w: write result %s: %v", wire.ErrIO, path, err)
	}
	return nil
}
