package ramp

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/asecurityteam/rolling"
	"github.com/ramp2go/ramp2go/internal/util"
)

const defaultLatencyWindowSize = 50

// Statistics of a single controller
type Statistics struct {
	RunsStarted   atomic.Int64
	RunsCompleted atomic.Int64
	RunsCancelled atomic.Int64
	RunsFailed    atomic.Int64
	Steps         atomic.Int64

	mu            sync.Mutex
	latencyWindow *rolling.PointPolicy
	samples       int
}

func newStatistics(windowSize int) *Statistics {
	if windowSize <= 0 {
		windowSize = defaultLatencyWindowSize
	}
	return &Statistics{
		latencyWindow: util.CreateRollingWindow(windowSize),
	}
}

func (s *Statistics) recordLatency(latency time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latencyWindow.Append(latency.Seconds())
	s.samples++
}

// AvgLatency returns the average duration of an actuator write in seconds
func (s *Statistics) AvgLatency() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.samples == 0 {
		return 0
	}
	return util.GetWindowAvg(s.latencyWindow)
}

// MaxLatency returns the longest duration of an actuator write in seconds
func (s *Statistics) MaxLatency() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.samples == 0 {
		return 0
	}
	return util.GetWindowMax(s.latencyWindow)
}

func (s *Statistics) recordFinished(state State) {
	switch state {
	case StateStoppedAtTarget:
		s.RunsCompleted.Add(1)
	case StateCancelled:
		s.RunsCancelled.Add(1)
	case StateFailed:
		s.RunsFailed.Add(1)
	}
}
