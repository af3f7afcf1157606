package ramp

import (
	"context"
	"sync/atomic"
	"time"
)

type State int32

const (
	StateRunning State = iota
	// StateStoppedAtTarget is reached when the committed value equals the target
	StateStoppedAtTarget
	// StateCancelled is reached when another run replaced this one or the controller was stopped
	StateCancelled
	// StateFailed is reached when the actuator reported a fault
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateStoppedAtTarget:
		return "stoppedAtTarget"
	case StateCancelled:
		return "cancelled"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Run is a single execution of a ramp towards a fixed target
type Run struct {
	target float64
	// positive is true if the target was above the value at start, it is never re-evaluated
	positive bool
	params   Params
	started  time.Time

	cancel context.CancelFunc
	done   chan struct{}
	state  atomic.Int32
	steps  atomic.Int64
	// err is written before the state leaves StateRunning
	err error
}

func newRun(target float64, start float64, params Params) *Run {
	return &Run{
		target:   target,
		positive: target-start > 0,
		params:   params,
		started:  time.Now(),
		done:     make(chan struct{}),
	}
}

func (r *Run) Target() float64 {
	return r.target
}

func (r *Run) Params() Params {
	return r.params
}

func (r *Run) StartedAt() time.Time {
	return r.started
}

func (r *Run) State() State {
	return State(r.state.Load())
}

// Steps returns the number of values emitted by this run
func (r *Run) Steps() int64 {
	return r.steps.Load()
}

// Done is closed once the run has stopped and will not touch the actuator anymore
func (r *Run) Done() <-chan struct{} {
	return r.done
}

// Wait blocks until the run has stopped and returns the actuator fault that aborted it, if any.
// A cancelled run returns nil.
func (r *Run) Wait() error {
	<-r.done
	return r.err
}

// Err returns the actuator fault of a finished run, nil while running
func (r *Run) Err() error {
	if r.State() == StateRunning {
		return nil
	}
	return r.err
}

// finish must be called exactly once, err is published by the state change
func (r *Run) finish(state State, err error) {
	r.err = err
	r.state.Store(int32(state))
}
