package actuators

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ramp2go/ramp2go/internal/configuration"
	"github.com/ramp2go/ramp2go/internal/util"
	"github.com/stretchr/testify/assert"
)

func TestFileActuator_OutputValue(t *testing.T) {
	// GIVEN
	dir := t.TempDir()
	valuePath := filepath.Join(dir, "value")
	config := configuration.ActuatorConfig{
		ID: "motor",
		File: &configuration.FileActuatorConfig{
			Path: valuePath,
		},
	}
	actuator, _ := NewActuator(config)

	// WHEN
	err := actuator.OutputValue(-2.5)

	// THEN
	assert.NoError(t, err)
	value, err := util.ReadFloatFromFile(valuePath)
	assert.NoError(t, err)
	assert.Equal(t, -2.5, value)
	assert.Equal(t, -2.5, actuator.GetLastValue())
}

func TestFileActuator_OutputValue_OutOfRange(t *testing.T) {
	// GIVEN
	dir := t.TempDir()
	valuePath := filepath.Join(dir, "value")
	config := configuration.ActuatorConfig{
		ID:  "motor",
		Max: floatPtr(5),
		File: &configuration.FileActuatorConfig{
			Path: valuePath,
		},
	}
	actuator, _ := NewActuator(config)

	// WHEN
	err := actuator.OutputValue(6)

	// THEN
	assert.True(t, errors.Is(err, ErrOutOfRange))
	_, statErr := os.Stat(valuePath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestFileActuator_OutputValue_MissingDirectory(t *testing.T) {
	// GIVEN
	config := configuration.ActuatorConfig{
		ID: "motor",
		File: &configuration.FileActuatorConfig{
			Path: filepath.Join(t.TempDir(), "missing", "value"),
		},
	}
	actuator, _ := NewActuator(config)

	// WHEN
	err := actuator.OutputValue(1)

	// THEN
	assert.True(t, errors.Is(err, ErrNoConnection))
	assert.Equal(t, 0.0, actuator.GetLastValue())
}

func TestFileActuator_SetPolaritySignal(t *testing.T) {
	// GIVEN
	dir := t.TempDir()
	polarityPath := filepath.Join(dir, "polarity")
	config := configuration.ActuatorConfig{
		ID: "motor",
		File: &configuration.FileActuatorConfig{
			Path:         filepath.Join(dir, "value"),
			PolarityPath: polarityPath,
		},
	}
	actuator, _ := NewActuator(config)

	// WHEN
	err := actuator.SetPolaritySignal(PolarityNegative)

	// THEN
	assert.NoError(t, err)
	value, err := util.ReadFloatFromFile(polarityPath)
	assert.NoError(t, err)
	assert.Equal(t, -1.0, value)
}

func TestFileActuator_SetPolaritySignal_NoPath(t *testing.T) {
	// GIVEN
	config := configuration.ActuatorConfig{
		ID: "motor",
		File: &configuration.FileActuatorConfig{
			Path: filepath.Join(t.TempDir(), "value"),
		},
	}
	actuator, _ := NewActuator(config)

	// WHEN
	err := actuator.SetPolaritySignal(PolarityPositive)

	// THEN
	assert.NoError(t, err)
}
