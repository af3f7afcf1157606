package internal

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/ramp2go/ramp2go/internal/actuators"
	"github.com/ramp2go/ramp2go/internal/configuration"
	"github.com/ramp2go/ramp2go/internal/persistence"
	"github.com/stretchr/testify/assert"
)

func floatPtr(value float64) *float64 {
	return &value
}

func registerVirtualActuator(t *testing.T, id string) *actuators.VirtualActuator {
	actuator := &actuators.VirtualActuator{
		Config: configuration.ActuatorConfig{
			ID:      id,
			Virtual: &configuration.VirtualActuatorConfig{},
		},
	}
	actuators.ActuatorMap.Set(id, actuator)
	t.Cleanup(func() {
		actuators.ActuatorMap.Remove(id)
	})
	return actuator
}

func createPersistence(t *testing.T) persistence.Persistence {
	pers := persistence.NewPersistence(filepath.Join(t.TempDir(), "ramp2go.db"))
	assert.NoError(t, pers.Init())
	return pers
}

func TestNewRampController_InitialValue(t *testing.T) {
	// GIVEN
	actuator := registerVirtualActuator(t, "motor")
	pers := createPersistence(t)
	config := configuration.RampConfig{
		ID:           "port",
		Actuator:     "motor",
		StepSize:     1,
		StepDelay:    time.Millisecond,
		InitialValue: floatPtr(3),
	}

	// WHEN
	controller, err := NewRampController(config, pers)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, 3.0, controller.CurrentValue())
	assert.Equal(t, []float64{3}, actuator.Values())
}

func TestNewRampController_RestoreLastValue(t *testing.T) {
	// GIVEN
	actuator := registerVirtualActuator(t, "motor")
	pers := createPersistence(t)
	err := pers.SaveRampState("port", persistence.RampState{Value: -4, Polarity: -1, Timestamp: time.Now()})
	assert.NoError(t, err)

	config := configuration.RampConfig{
		ID:               "port",
		Actuator:         "motor",
		StepSize:         1,
		StepDelay:        time.Millisecond,
		InitialValue:     floatPtr(3),
		RestoreLastValue: true,
	}

	// WHEN
	controller, err := NewRampController(config, pers)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, -4.0, controller.CurrentValue())
	assert.Equal(t, []float64{-4}, actuator.Values())
}

func TestNewRampController_RestoreWithoutState(t *testing.T) {
	// GIVEN
	registerVirtualActuator(t, "motor")
	pers := createPersistence(t)
	config := configuration.RampConfig{
		ID:               "port",
		Actuator:         "motor",
		StepSize:         1,
		StepDelay:        time.Millisecond,
		RestoreLastValue: true,
	}

	// WHEN
	controller, err := NewRampController(config, pers)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, 0.0, controller.CurrentValue())
}

func TestNewRampController_MissingActuator(t *testing.T) {
	// GIVEN
	config := configuration.RampConfig{
		ID:        "port",
		Actuator:  "missing",
		StepSize:  1,
		StepDelay: time.Millisecond,
	}

	// WHEN
	_, err := NewRampController(config, nil)

	// THEN
	assert.EqualError(t, err, "ramp port: actuator 'missing' not found")
}

func TestNewRampController_InvalidParams(t *testing.T) {
	// GIVEN
	registerVirtualActuator(t, "motor")
	config := configuration.RampConfig{
		ID:        "port",
		Actuator:  "motor",
		StepSize:  0,
		StepDelay: time.Millisecond,
	}

	// WHEN
	_, err := NewRampController(config, nil)

	// THEN
	assert.ErrorIs(t, err, actuators.ErrConfiguration)
}

func TestSaveRampState(t *testing.T) {
	// GIVEN
	registerVirtualActuator(t, "motor")
	pers := createPersistence(t)
	config := configuration.RampConfig{
		ID:        "port",
		Actuator:  "motor",
		StepSize:  1,
		StepDelay: time.Millisecond,
	}
	controller, err := NewRampController(config, pers)
	assert.NoError(t, err)
	assert.NoError(t, controller.RampTo(-2).Wait())

	// WHEN
	err = saveRampState(pers, controller)

	// THEN
	assert.NoError(t, err)
	state, err := pers.LoadRampState("port")
	assert.NoError(t, err)
	assert.Equal(t, -2.0, state.Value)
	assert.Equal(t, int(actuators.PolarityNegative), state.Polarity)
}
