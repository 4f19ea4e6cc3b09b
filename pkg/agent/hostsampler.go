package agent

import (
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/cuemby/gradenet/pkg/log"
	"github.com/cuemby/gradenet/pkg/metrics"
)

// hostSampleInterval is how often the agent refreshes its host resource
// gauges. Purely observational: nothing here ever touches a wire payload
// or influences dispatch.
const hostSampleInterval = 30 * time.Second

// HostSampler periodically publishes this machine's CPU, memory, and load
// average to the agent's Prometheus gauges.
type HostSampler struct {
	stopCh chan struct{}
}

// NewHostSampler returns a HostSampler. Call Start to begin sampling.
func NewHostSampler() *HostSampler {
	return &HostSampler{stopCh: make(chan struct{})}
}

// Start begins sampling on hostSampleInterval, sampling once immediately.
func (h *HostSampler) Start() {
	go func() {
		h.sample()
		ticker := time.NewTicker(hostSampleInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				h.sample()
			case <-h.stopCh:
				return
			}
		}
	}()
}

// Stop halts sampling.
func (h *HostSampler) Stop() {
	close(h.stopCh)
}

func (h *HostSampler) sample() {
	logger := log.WithComponent("host-sampler")

	if pct, err := cpu.Percent(0, false); err == nil && len(pct) > 0 {
		metrics.HostCPUPercent.Set(pct[0])
	} else if err != nil {
		logger.Warn().Err(err).Msg("sample cpu")
	}

	if vm, err := mem.VirtualMemory(); err == nil && vm != nil {
		metrics.HostMemPercent.Set(vm.UsedPercent)
	} else if err != nil {
		logger.Warn().Err(err).Msg("sample memory")
	}

	if avg, err := load.Avg(); err == nil && avg != nil {
		metrics.HostLoad1.Set(avg.Load1)
	} else if err != nil {
		logger.Warn().Err(err).Msg("sample load average")
	}
}
