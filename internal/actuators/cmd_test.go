package actuators

import (
	"errors"
	"testing"

	"github.com/ramp2go/ramp2go/internal/configuration"
	"github.com/stretchr/testify/assert"
)

func TestReplacePlaceholder(t *testing.T) {
	// GIVEN
	args := []string{"--motor", "1", "--value=%value%"}

	// WHEN
	result := replacePlaceholder(args, valuePlaceholder, "2.5")

	// THEN
	assert.Equal(t, []string{"--motor", "1", "--value=2.5"}, result)
	assert.Equal(t, "--value=%value%", args[2])
}

func TestCmdActuator_OutputValue_ExecutableMissing(t *testing.T) {
	// GIVEN
	config := configuration.ActuatorConfig{
		ID: "motor",
		Cmd: &configuration.CmdActuatorConfig{
			SetValue: &configuration.ExecConfig{
				Exec: "/path/does/not/exist",
				Args: []string{"%value%"},
			},
		},
	}
	actuator, _ := NewActuator(config)

	// WHEN
	err := actuator.OutputValue(1)

	// THEN
	assert.True(t, errors.Is(err, ErrNoConnection))
	assert.Equal(t, 0.0, actuator.GetLastValue())
}

func TestCmdActuator_OutputValue_OutOfRange(t *testing.T) {
	// GIVEN
	config := configuration.ActuatorConfig{
		ID:  "motor",
		Min: floatPtr(0),
		Cmd: &configuration.CmdActuatorConfig{
			SetValue: &configuration.ExecConfig{
				Exec: "/path/does/not/exist",
			},
		},
	}
	actuator, _ := NewActuator(config)

	// WHEN
	err := actuator.OutputValue(-1)

	// THEN
	assert.True(t, errors.Is(err, ErrOutOfRange))
}

func TestCmdActuator_SetPolaritySignal_NotConfigured(t *testing.T) {
	// GIVEN
	config := configuration.ActuatorConfig{
		ID: "motor",
		Cmd: &configuration.CmdActuatorConfig{
			SetValue: &configuration.ExecConfig{
				Exec: "/path/does/not/exist",
			},
		},
	}
	actuator, _ := NewActuator(config)

	// WHEN
	err := actuator.SetPolaritySignal(PolarityPositive)

	// THEN
	assert.NoError(t, err)
}
