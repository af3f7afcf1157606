package ramp

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ramp2go/ramp2go/internal/actuators"
	"github.com/ramp2go/ramp2go/internal/configuration"
)

// event is either a polarity signal or an emitted value
type event struct {
	polarity actuators.Polarity
	value    float64
}

func value(v float64) event {
	return event{value: v}
}

func signal(p actuators.Polarity) event {
	return event{polarity: p}
}

type mockActuator struct {
	mu      sync.Mutex
	events  []event
	outputs int
	failOn  int
	latency time.Duration
	// failPolarity makes every polarity signal fail
	failPolarity bool

	inFlight atomic.Int32
	overlaps atomic.Int32
}

func (m *mockActuator) GetId() string {
	return "mock"
}

func (m *mockActuator) GetConfig() configuration.ActuatorConfig {
	return configuration.ActuatorConfig{ID: "mock"}
}

func (m *mockActuator) OutputValue(v float64) error {
	if m.inFlight.Add(1) > 1 {
		m.overlaps.Add(1)
	}
	defer m.inFlight.Add(-1)

	if m.latency > 0 {
		time.Sleep(m.latency)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.outputs++
	if m.failOn > 0 && m.outputs == m.failOn {
		return fmt.Errorf("%w: mock disconnected", actuators.ErrNoConnection)
	}
	m.events = append(m.events, value(v))
	return nil
}

func (m *mockActuator) SetPolaritySignal(polarity actuators.Polarity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failPolarity {
		return fmt.Errorf("%w: mock polarity relay disconnected", actuators.ErrNoConnection)
	}
	m.events = append(m.events, signal(polarity))
	return nil
}

func (m *mockActuator) GetLastValue() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.events) - 1; i >= 0; i-- {
		if m.events[i].polarity == actuators.PolarityUnset {
			return m.events[i].value
		}
	}
	return 0
}

// failAfter makes the n-th output from now on fail
func (m *mockActuator) failAfter(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failOn = m.outputs + n
}

func (m *mockActuator) reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = nil
}

func (m *mockActuator) log() []event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]event{}, m.events...)
}

func (m *mockActuator) values() []float64 {
	var result []float64
	for _, e := range m.log() {
		if e.polarity == actuators.PolarityUnset {
			result = append(result, e.value)
		}
	}
	return result
}

type mockObserver struct {
	mu         sync.Mutex
	steps      []float64
	polarities []actuators.Polarity
	finished   []State
}

func (o *mockObserver) StepApplied(controller *Controller, run *Run, value float64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.steps = append(o.steps, value)
}

func (o *mockObserver) PolaritySignalled(controller *Controller, polarity actuators.Polarity) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.polarities = append(o.polarities, polarity)
}

func (o *mockObserver) RunFinished(controller *Controller, run *Run) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.finished = append(o.finished, run.State())
}

func (o *mockObserver) finishedStates() []State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]State{}, o.finished...)
}

func (m *mockActuator) setFailPolarity(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failPolarity = fail
}
