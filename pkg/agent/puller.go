package agent

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/cuemby/gradenet/pkg/log"
	"github.com/cuemby/gradenet/pkg/metrics"
	"github.com/cuemby/gradenet/pkg/wire"
)

// fileRequestTimeout and resultRequestTimeout bound the two request/reply
// round-trips the puller handler makes per assignment.
const (
	fileRequestTimeout   = 30 * time.Second
	resultRequestTimeout = 30 * time.Second
)

// handleTestSpec is the Puller.Connect handler: it fetches an assignment's
// files, materializes them under ./tests/<key>/, runs its commands, and
// reports a TestCompletion. It never returns an error to the caller. A
// file-fetch, materialization or timeout failure is reported as a literal
// "Failed" completion, which the commander records like any other result.
// A message that is not a TestSpec, or a completion that cannot be encoded
// or sent, is logged and dropped; the commander's alarm then re-queues that
// assignment.
func (a *Agent) handleTestSpec(data []byte) {
	logger := log.WithComponent("puller")

	ts, err := wire.DecodeTestSpec(data)
	if err != nil {
		metrics.ProtocolErrorsTotal.WithLabelValues("testspec").Inc()
		logger.Warn().Err(err).Msg("non-testspec message on pull channel")
		return
	}
	metrics.MessagesReceivedTotal.WithLabelValues("testspec").Inc()

	keyLogger := log.WithKey(ts.Key)
	_, span := a.tracer.StartExecutionSpan(context.Background(), ts.Key, len(ts.Commands))
	defer span.End()

	workDir := filepath.Join("tests", ts.Key)
	transcript, failed := a.runAssignment(ts, workDir, keyLogger)

	var resultBytes []byte
	if failed {
		resultBytes = []byte(failedTranscript)
	} else {
		resultBytes = []byte(transcript)
	}

	completion := wire.TestCompletion{Key: ts.Key, ResultsBase64: base64.StdEncoding.EncodeToString(resultBytes)}
	payload, err := wire.Encode(completion)
	if err != nil {
		keyLogger.Error().Err(err).Msg("encode test completion")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), resultRequestTimeout)
	defer cancel()
	if _, err := a.resultReq.Request(ctx, payload); err != nil {
		keyLogger.Warn().Err(err).Msg("send test completion")
		return
	}
	metrics.MessagesSentTotal.WithLabelValues("results").Inc()
}

// runAssignment fetches files, materializes them, and executes commands.
// failed is true whenever the commander should receive the literal
// "Failed" transcript: a file-fetch error or a wall-clock timeout.
func (a *Agent) runAssignment(ts wire.TestSpec, workDir string, logger zerolog.Logger) (transcript string, failed bool) {
	files, err := a.requestFiles(ts.Key)
	if err != nil {
		logger.Warn().Err(err).Msg("request assignment files")
		return "", true
	}

	if err := materializeFiles(workDir, files); err != nil {
		logger.Warn().Err(err).Msg("materialize assignment files")
		return "", true
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(ts.TimeoutSeconds)*time.Second)
	defer cancel()

	transcript, timedOut := runCommands(ctx, workDir, ts.Commands)
	return transcript, timedOut
}

// requestFiles asks the commander's file responder for key's files.
func (a *Agent) requestFiles(key string) (wire.Files, error) {
	req, err := wire.Encode(wire.FileReq{Key: key})
	if err != nil {
		return wire.Files{}, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), fileRequestTimeout)
	defer cancel()

	data, err := a.fileReq.Request(ctx, req)
	if err != nil {
		return wire.Files{}, err
	}
	metrics.MessagesSentTotal.WithLabelValues("files").Inc()

	return wire.DecodeFiles(data)
}

// materializeFiles writes every payload under workDir, creating parent
// directories as needed.
func materializeFiles(workDir string, files wire.Files) error {
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return err
	}
	for _, f := range files.Files {
		dest := filepath.Join(workDir, filepath.FromSlash(f.Path))
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return err
		}
		raw, err := base64.StdEncoding.DecodeString(f.Base64)
		if err != nil {
			return err
		}
		if err := os.WriteFile(dest, raw, 0o644); err != nil {
			return err
		}
	}
	return nil
}
