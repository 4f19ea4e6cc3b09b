package agent

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"syscall"

	"github.com/cuemby/gradenet/pkg/metrics"
)

// runCommands executes commands sequentially in workDir under ctx's
// deadline, writing a "\nEND <command>\n" separator to the shared
// transcript after each one. It stops at the first command that exits
// non-zero, is signaled, or is still running when ctx expires. timedOut
// reports whether the stop was caused by ctx's deadline, in which case the
// caller reports a literal "Failed" transcript rather than the partial
// capture.
func runCommands(ctx context.Context, workDir string, commands []string) (transcript string, timedOut bool) {
	var buf bytes.Buffer

	for _, raw := range commands {
		fields := strings.Fields(raw)
		if len(fields) == 0 {
			continue
		}

		timer := metrics.NewTimer()
		outcome, failed := runOne(ctx, workDir, fields[0], fields[1:], &buf)
		timer.ObserveDurationVec(metrics.CommandDuration, outcome)
		metrics.CommandsExecutedTotal.WithLabelValues(outcome).Inc()

		buf.WriteString(fmt.Sprintf("\nEND %s\n", raw))

		if outcome == "timeout" {
			return buf.String(), true
		}
		if failed {
			return buf.String(), false
		}
	}
	return buf.String(), false
}

// runOne spawns one command as the leader of its own process group so a
// timeout can kill its entire descendant tree, waits for it, and reports
// an outcome label for metrics plus whether the sequence should stop.
func runOne(ctx context.Context, workDir, prog string, args []string, out *bytes.Buffer) (outcome string, failed bool) {
	cmd := exec.Command(prog, args...)
	cmd.Dir = workDir
	cmd.Stdout = out
	cmd.Stderr = out
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := cmd.Start(); err != nil {
		return "error", true
	}

	waitErr := make(chan error, 1)
	go func() { waitErr <- cmd.Wait() }()

	select {
	case err := <-waitErr:
		if err != nil {
			return "nonzero", true
		}
		return "ok", false

	case <-ctx.Done():
		if cmd.Process != nil {
			_ = syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
		}
		<-waitErr
		return "timeout", true
	}
}

// failedTranscript is the literal transcript gradenet reports for an
// assignment whose wall-clock timeout fired mid-execution.
const failedTranscript = "Failed"
