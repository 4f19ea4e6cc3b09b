package commander

import (
	"path/filepath"

	"github.com/cuemby/gradenet/pkg/log"
	"github.com/cuemby/gradenet/pkg/metrics"
	"github.com/cuemby/gradenet/pkg/wire"
)

// runFileResponder serves the file channel: a FileReq for "common" returns
// common_dir's contents, any other key returns test_dir/<key>'s. I/O
// failures are recovered locally by replying with an empty Files. The
// worker does not treat an empty reply as an error: it runs its commands in
// an empty working directory and reports that transcript, which finishes
// the key, so no re-queue follows.
func (c *Commander) runFileResponder() error {
	logger := log.WithComponent("file-responder")

	return c.fileServer.Serve(func(data []byte) []byte {
		emptyAck, _ := wire.Encode(wire.Files{})

		fr, err := wire.DecodeFileReq(data)
		if err != nil {
			metrics.ProtocolErrorsTotal.WithLabelValues("files").Inc()
			return emptyAck
		}
		metrics.MessagesReceivedTotal.WithLabelValues("files").Inc()

		dir := filepath.Join(c.cfg.TestDir, fr.Key)
		if fr.Key == wire.CommonKey {
			dir = c.cfg.CommonDir
		}

		payloads, err := readDirFiles(dir)
		if err != nil {
			logger.Error().Err(err).Str("key", fr.Key).Msg("read assignment files")
			return emptyAck
		}

		resp, err := wire.Encode(wire.Files{Files: payloads})
		if err != nil {
			logger.Error().Err(err).Str("key", fr.Key).Msg("encode files reply")
			return emptyAck
		}
		return resp
	})
}
