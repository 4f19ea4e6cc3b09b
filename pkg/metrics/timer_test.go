package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sampleCount reads the observation count currently recorded on a
// histogram metric, so ObserveDuration/ObserveDurationVec tests can assert
// against gradenet's own package-level histograms instead of scratch ones.
func sampleCount(t *testing.T, m prometheus.Metric) uint64 {
	t.Helper()
	var pb dto.Metric
	require.NoError(t, m.Write(&pb))
	return pb.GetHistogram().GetSampleCount()
}

func TestNewTimerStartsNow(t *testing.T) {
	timer := NewTimer()
	require.NotNil(t, timer)
	assert.False(t, timer.start.IsZero())
	assert.Less(t, time.Since(timer.start), time.Second)
}

func TestTimerDurationGrowsMonotonically(t *testing.T) {
	timer := NewTimer()

	time.Sleep(20 * time.Millisecond)
	first := timer.Duration()

	time.Sleep(20 * time.Millisecond)
	second := timer.Duration()

	assert.Greater(t, second, first, "Duration() must reflect elapsed time on each call, not a cached value")
}

func TestTimerObserveDurationRecordsIntoDispatchLatency(t *testing.T) {
	before := sampleCount(t, DispatchLatency)

	timer := NewTimer()
	time.Sleep(10 * time.Millisecond)
	timer.ObserveDuration(DispatchLatency)

	assert.Equal(t, before+1, sampleCount(t, DispatchLatency))
}

func TestTimerObserveDurationVecRecordsIntoCommandDuration(t *testing.T) {
	h := CommandDuration.WithLabelValues("ok").(prometheus.Histogram)
	before := sampleCount(t, h)

	timer := NewTimer()
	time.Sleep(10 * time.Millisecond)
	timer.ObserveDurationVec(CommandDuration, "ok")

	assert.Equal(t, before+1, sampleCount(t, h))
}

func TestTimerDurationNeverNegative(t *testing.T) {
	timer := NewTimer()
	assert.GreaterOrEqual(t, timer.Duration(), time.Duration(0))
}
