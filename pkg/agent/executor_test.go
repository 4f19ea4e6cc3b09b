package agent

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestRunCommandsCapturesOutputAndEndSeparators(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	transcript, timedOut := runCommands(ctx, dir, []string{"echo hello"})
	if timedOut {
		t.Fatal("runCommands() reported a timeout for a fast command")
	}
	if !strings.Contains(transcript, "hello") {
		t.Errorf("transcript = %q, want it to contain %q", transcript, "hello")
	}
	if !strings.Contains(transcript, "\nEND echo hello\n") {
		t.Errorf("transcript = %q, want an END separator", transcript)
	}
}

func TestRunCommandsStopsAtFirstNonZeroExit(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	transcript, timedOut := runCommands(ctx, dir, []string{"false", "echo should-not-run"})
	if timedOut {
		t.Fatal("runCommands() reported a timeout for a non-zero exit")
	}
	if strings.Contains(transcript, "should-not-run") {
		t.Errorf("transcript = %q, expected execution to stop after the failing command", transcript)
	}
	if !strings.Contains(transcript, "\nEND false\n") {
		t.Errorf("transcript = %q, want an END separator for the failing command", transcript)
	}
}

func TestRunCommandsReportsTimeoutOnSharedDeadline(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	_, timedOut := runCommands(ctx, dir, []string{"sleep 5"})
	if !timedOut {
		t.Fatal("runCommands() did not report a timeout for a command exceeding the deadline")
	}
}

func TestRunCommandsSkipsBlankEntries(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	transcript, timedOut := runCommands(ctx, dir, []string{"", "echo ok"})
	if timedOut {
		t.Fatal("runCommands() reported a timeout unexpectedly")
	}
	if !strings.Contains(transcript, "ok") {
		t.Errorf("transcript = %q, want it to contain %q", transcript, "ok")
	}
}
