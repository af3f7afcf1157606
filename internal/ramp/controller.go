package ramp

import (
	"context"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	cmap "github.com/orcaman/concurrent-map/v2"
	"github.com/ramp2go/ramp2go/internal/actuators"
	"github.com/ramp2go/ramp2go/internal/configuration"
	"github.com/ramp2go/ramp2go/internal/ui"
	"github.com/ramp2go/ramp2go/internal/util"
)

var (
	RampMap = cmap.New[*Controller]()
)

// Observer is notified about everything a controller does. Callbacks are invoked on the goroutine
// of the run and must not call RampTo or Stop of the same controller.
type Observer interface {
	// StepApplied is called after a value was emitted and committed
	StepApplied(controller *Controller, run *Run, value float64)
	// PolaritySignalled is called after the actuator accepted a polarity signal
	PolaritySignalled(controller *Controller, polarity actuators.Polarity)
	// RunFinished is called once per run, after it reached a terminal state
	RunFinished(controller *Controller, run *Run)
}

// Controller drives a single actuator towards a target in bounded steps.
// At most one Run is executing at any time.
type Controller struct {
	id        string
	actuator  actuators.Actuator
	observers []Observer

	// mu serializes the retirement of the active run and the launch of its successor
	mu  sync.Mutex
	run atomic.Pointer[Run]

	paramsMu sync.RWMutex
	params   Params

	current  atomic.Uint64
	polarity atomic.Int32

	stats *Statistics
}

// NewController validates params and emits initialValue to the actuator
func NewController(id string, actuator actuators.Actuator, params Params, initialValue float64, observers ...Observer) (*Controller, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("ramp %s: %w", id, err)
	}

	c := &Controller{
		id:        id,
		actuator:  actuator,
		observers: observers,
		params:    params,
		stats:     newStatistics(configuration.CurrentConfig.LatencyWindowSize),
	}

	err := actuator.OutputValue(initialValue)
	if err != nil {
		return nil, fmt.Errorf("ramp %s: unable to output initial value %v: %w", id, initialValue, err)
	}
	c.setCurrent(initialValue)

	return c, nil
}

func (c *Controller) GetId() string {
	return c.id
}

func (c *Controller) GetActuator() actuators.Actuator {
	return c.actuator
}

// CurrentValue returns the last committed value, it never waits for a running ramp
func (c *Controller) CurrentValue() float64 {
	return math.Float64frombits(c.current.Load())
}

func (c *Controller) setCurrent(value float64) {
	c.current.Store(math.Float64bits(value))
}

// Polarity returns the last polarity accepted by the actuator
func (c *Controller) Polarity() actuators.Polarity {
	return actuators.Polarity(c.polarity.Load())
}

func (c *Controller) Params() Params {
	c.paramsMu.RLock()
	defer c.paramsMu.RUnlock()
	return c.params
}

// SetParams replaces the params used by subsequent runs, a running ramp is not affected
func (c *Controller) SetParams(params Params) error {
	if err := params.Validate(); err != nil {
		return fmt.Errorf("ramp %s: %w", c.id, err)
	}
	c.paramsMu.Lock()
	defer c.paramsMu.Unlock()
	c.params = params
	return nil
}

// CurrentRun returns the most recently started run, which may already be finished
func (c *Controller) CurrentRun() *Run {
	return c.run.Load()
}

func (c *Controller) Statistics() *Statistics {
	return c.stats
}

// RampTo retires the active run, if any, and starts a new one towards target.
// When RampTo returns, the returned run is the only one able to write to the actuator.
func (c *Controller) RampTo(target float64) *Run {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.retire()

	run := newRun(target, c.CurrentValue(), c.Params())
	ctx, cancel := context.WithCancel(context.Background())
	run.cancel = cancel
	c.run.Store(run)
	c.stats.RunsStarted.Add(1)

	ui.Debug("Ramp %s: ramping from %v to %v", c.id, c.CurrentValue(), target)
	go c.execute(ctx, run)

	return run
}

// Increase ramps to the current value plus delta, evaluated at call time
func (c *Controller) Increase(delta float64) *Run {
	return c.RampTo(c.CurrentValue() + delta)
}

// Decrease ramps to the current value minus delta, evaluated at call time
func (c *Controller) Decrease(delta float64) *Run {
	return c.RampTo(c.CurrentValue() - delta)
}

// Stop retires the active run without starting another one
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.retire()
}

// retire cancels the active run and waits for its goroutine to exit, the caller must hold mu
func (c *Controller) retire() {
	run := c.run.Load()
	if run == nil {
		return
	}
	run.cancel()
	<-run.done
}

func (c *Controller) execute(ctx context.Context, run *Run) {
	state, err := c.step(ctx, run)
	run.finish(state, err)
	c.stats.recordFinished(state)

	switch state {
	case StateFailed:
		ui.Error("Ramp %s: run towards %v aborted at %v: %v", c.id, run.target, c.CurrentValue(), err)
	case StateCancelled:
		ui.Debug("Ramp %s: run towards %v cancelled at %v", c.id, run.target, c.CurrentValue())
	case StateStoppedAtTarget:
		ui.Debug("Ramp %s: reached %v", c.id, run.target)
	}

	for _, observer := range c.observers {
		observer.RunFinished(c, run)
	}
	close(run.done)
	run.cancel()
}

// step runs the stepping loop until the target is reached, the actuator fails or ctx is cancelled
func (c *Controller) step(ctx context.Context, run *Run) (State, error) {
	params := run.params
	target := run.target

	if math.IsNaN(target) || math.IsInf(target, 0) {
		return StateFailed, fmt.Errorf("%w: ramp %s: invalid target %v", actuators.ErrOutOfRange, c.id, target)
	}

	for {
		current := c.CurrentValue()
		polarity := c.Polarity()
		next := nextValue(current, target, run.positive, polarity, params)

		if sign := actuators.Polarity(util.Sign(next)); departsFromZero(current, next) && sign != polarity {
			err := c.actuator.SetPolaritySignal(sign)
			if err != nil {
				return StateFailed, err
			}
			c.polarity.Store(int32(sign))
			for _, observer := range c.observers {
				observer.PolaritySignalled(c, sign)
			}
		}

		start := time.Now()
		err := c.actuator.OutputValue(next)
		if err != nil {
			return StateFailed, err
		}
		c.stats.recordLatency(time.Since(start))
		c.stats.Steps.Add(1)
		run.steps.Add(1)
		c.setCurrent(next)

		for _, observer := range c.observers {
			observer.StepApplied(c, run, next)
		}

		if next == target {
			return StateStoppedAtTarget, nil
		}

		timer := time.NewTimer(params.StepDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return StateCancelled, nil
		case <-timer.C:
			if ctx.Err() != nil {
				return StateCancelled, nil
			}
		}
	}
}

// nextValue computes the value of the next step
func nextValue(current float64, target float64, positive bool, polarity actuators.Polarity, params Params) float64 {
	next := current

	if !util.FloatEquals(current, target, params.Tolerance) {
		if positive {
			next = current + params.StepSize
			if params.ClampToTarget && next > target {
				next = target
			}
		} else {
			next = current - params.StepSize
			if params.ClampToTarget && next < target {
				next = target
			}
		}
	}

	if params.Mode == ModeAccelerated {
		if polarity == actuators.PolarityPositive && !positive {
			switch {
			case target > 0:
				next = target
			case target < 0:
				next = -1
			default:
				next = 0
			}
		} else if polarity == actuators.PolarityNegative && positive {
			switch {
			case target > 0:
				next = 1
			case target < 0:
				next = target
			default:
				next = 0
			}
		}
	}

	if params.Tolerance > 0 && util.FloatEquals(next, target, params.Tolerance) {
		next = target
	}

	return next
}

// departsFromZero is true for a step that leaves zero or crosses it
func departsFromZero(current float64, next float64) bool {
	if next == 0 {
		return false
	}
	return util.Sign(current) != util.Sign(next)
}
