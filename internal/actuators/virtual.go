package actuators

import (
	"fmt"
	"sync"

	"github.com/ramp2go/ramp2go/internal/configuration"
)

// VirtualActuator keeps every emitted value and polarity in memory
type VirtualActuator struct {
	Config configuration.ActuatorConfig `json:"config"`

	mu         sync.Mutex
	values     []float64
	polarities []Polarity
	lastValue  floatValue
}

func (actuator *VirtualActuator) GetId() string {
	return actuator.Config.ID
}

func (actuator *VirtualActuator) GetConfig() configuration.ActuatorConfig {
	return actuator.Config
}

func (actuator *VirtualActuator) OutputValue(value float64) error {
	if err := checkRange(actuator.Config, value); err != nil {
		return err
	}

	actuator.mu.Lock()
	defer actuator.mu.Unlock()

	failAfter := 0
	if actuator.Config.Virtual != nil {
		failAfter = actuator.Config.Virtual.FailAfter
	}
	if failAfter > 0 && len(actuator.values) >= failAfter {
		return fmt.Errorf("%w: actuator %s: failing after %d values", ErrNoConnection, actuator.Config.ID, failAfter)
	}

	actuator.values = append(actuator.values, value)
	actuator.lastValue.Store(value)
	return nil
}

func (actuator *VirtualActuator) SetPolaritySignal(polarity Polarity) error {
	actuator.mu.Lock()
	defer actuator.mu.Unlock()
	actuator.polarities = append(actuator.polarities, polarity)
	return nil
}

func (actuator *VirtualActuator) GetLastValue() float64 {
	return actuator.lastValue.Load()
}

// Values returns a copy of all emitted values
func (actuator *VirtualActuator) Values() []float64 {
	actuator.mu.Lock()
	defer actuator.mu.Unlock()
	return append([]float64{}, actuator.values...)
}

// Polarities returns a copy of all signalled polarities
func (actuator *VirtualActuator) Polarities() []Polarity {
	actuator.mu.Lock()
	defer actuator.mu.Unlock()
	return append([]Polarity{}, actuator.polarities...)
}

func (actuator *VirtualActuator) Reset() {
	actuator.mu.Lock()
	defer actuator.mu.Unlock()
	actuator.values = nil
	actuator.polarities = nil
}
