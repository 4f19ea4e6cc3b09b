package agent

import (
	"testing"

	"github.com/cuemby/gradenet/pkg/mq"
)

func TestMarkFinishedIsIdempotent(t *testing.T) {
	a := &Agent{doneCh: make(chan struct{}), puller: mq.NewPuller(nil, "gradenet.test.testspec")}

	a.markFinished()
	select {
	case <-a.doneCh:
	default:
		t.Fatal("markFinished() did not close doneCh")
	}

	// A second call must not panic on a double close.
	a.markFinished()

	if !a.isFinished() {
		t.Error("isFinished() = false after markFinished()")
	}
}
