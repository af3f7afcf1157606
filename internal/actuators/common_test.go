package actuators

import (
	"errors"
	"math"
	"testing"

	"github.com/ramp2go/ramp2go/internal/configuration"
	"github.com/stretchr/testify/assert"
)

func floatPtr(value float64) *float64 {
	return &value
}

func TestNewActuator_NoMatchingType(t *testing.T) {
	// GIVEN
	config := configuration.ActuatorConfig{
		ID: "motor",
	}

	// WHEN
	actuator, err := NewActuator(config)

	// THEN
	assert.Nil(t, actuator)
	assert.True(t, errors.Is(err, ErrConfiguration))
}

func TestNewActuator_Types(t *testing.T) {
	tests := []struct {
		name     string
		config   configuration.ActuatorConfig
		expected Actuator
	}{
		{"file", configuration.ActuatorConfig{ID: "a", File: &configuration.FileActuatorConfig{Path: "/tmp/a"}}, &FileActuator{}},
		{"cmd", configuration.ActuatorConfig{ID: "a", Cmd: &configuration.CmdActuatorConfig{}}, &CmdActuator{}},
		{"labjack", configuration.ActuatorConfig{ID: "a", LabJack: &configuration.LabJackActuatorConfig{}}, &LabJackActuator{}},
		{"serial", configuration.ActuatorConfig{ID: "a", Serial: &configuration.SerialActuatorConfig{}}, &SerialActuator{}},
		{"group", configuration.ActuatorConfig{ID: "a", Group: &configuration.GroupActuatorConfig{}}, &GroupActuator{}},
		{"virtual", configuration.ActuatorConfig{ID: "a", Virtual: &configuration.VirtualActuatorConfig{}}, &VirtualActuator{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actuator, err := NewActuator(tt.config)
			assert.NoError(t, err)
			assert.IsType(t, tt.expected, actuator)
			assert.Equal(t, "a", actuator.GetId())
		})
	}
}

func TestCheckRange(t *testing.T) {
	// GIVEN
	config := configuration.ActuatorConfig{
		ID:  "motor",
		Min: floatPtr(-10),
		Max: floatPtr(10),
	}

	// THEN
	assert.NoError(t, checkRange(config, -10))
	assert.NoError(t, checkRange(config, 10))
	assert.True(t, errors.Is(checkRange(config, 10.5), ErrOutOfRange))
	assert.True(t, errors.Is(checkRange(config, -11), ErrOutOfRange))
	assert.True(t, errors.Is(checkRange(config, math.NaN()), ErrOutOfRange))
}

func TestCheckRange_Unbounded(t *testing.T) {
	// GIVEN
	config := configuration.ActuatorConfig{
		ID: "motor",
	}

	// THEN
	assert.NoError(t, checkRange(config, 1e9))
	assert.NoError(t, checkRange(config, -1e9))
}

func TestParsePolarity(t *testing.T) {
	tests := map[string]Polarity{
		"+":         PolarityPositive,
		"positive":  PolarityPositive,
		"1":         PolarityPositive,
		"-":         PolarityNegative,
		" Negative": PolarityNegative,
		"-1":        PolarityNegative,
	}

	for text, expected := range tests {
		result, err := ParsePolarity(text)
		assert.NoError(t, err)
		assert.Equal(t, expected, result)
	}

	_, err := ParsePolarity("up")
	assert.EqualError(t, err, "unknown polarity 'up', use one of: + | -")
}

func TestPolarity_String(t *testing.T) {
	assert.Equal(t, "+", PolarityPositive.String())
	assert.Equal(t, "-", PolarityNegative.String())
	assert.Equal(t, "unset", PolarityUnset.String())
}

func TestClose_ReleasesPort(t *testing.T) {
	// GIVEN
	port := &mockPort{}
	actuator := newSerialActuator(port, nil)
	assert.NoError(t, actuator.OutputValue(5))

	// WHEN
	err := Close(actuator)

	// THEN
	assert.NoError(t, err)
	assert.True(t, port.closed)
}

func TestClose_WithoutConnection(t *testing.T) {
	// GIVEN
	actuator := &VirtualActuator{
		Config: configuration.ActuatorConfig{ID: "motor", Virtual: &configuration.VirtualActuatorConfig{}},
	}

	// WHEN
	err := Close(actuator)

	// THEN
	assert.NoError(t, err)
}
