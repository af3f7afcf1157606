package actuators

import (
	"errors"
	"testing"

	"github.com/goburrow/modbus"
	"github.com/ramp2go/ramp2go/internal/configuration"
	"github.com/stretchr/testify/assert"
)

type registerWrite struct {
	address uint16
	value   []byte
}

type mockModbusClient struct {
	modbus.Client
	writes []registerWrite
	err    error
}

func (c *mockModbusClient) WriteSingleRegister(address, value uint16) ([]byte, error) {
	if c.err != nil {
		return nil, c.err
	}
	c.writes = append(c.writes, registerWrite{address: address, value: []byte{byte(value >> 8), byte(value)}})
	return nil, nil
}

func (c *mockModbusClient) WriteMultipleRegisters(address, quantity uint16, value []byte) ([]byte, error) {
	if c.err != nil {
		return nil, c.err
	}
	c.writes = append(c.writes, registerWrite{address: address, value: value})
	return nil, nil
}

func newLabJackActuator(conf configuration.LabJackActuatorConfig) (*LabJackActuator, *mockModbusClient) {
	client := &mockModbusClient{}
	actuator := &LabJackActuator{
		Config: configuration.ActuatorConfig{
			ID:      "motor",
			LabJack: &conf,
		},
		client: client,
	}
	return actuator, client
}

func TestEncodeTimerValue(t *testing.T) {
	tests := []struct {
		value    float64
		expected []byte
	}{
		{0, []byte{0xFF, 0xFF, 0x00, 0x00}},
		{100, []byte{0x00, 0x00, 0x00, 0x00}},
		{-100, []byte{0x00, 0x00, 0x00, 0x00}},
		{-50, []byte{0x80, 0x00, 0x00, 0x00}},
	}

	for _, tt := range tests {
		result, err := encodeTimerValue(tt.value)
		assert.NoError(t, err)
		assert.Equal(t, tt.expected, result, "value %v", tt.value)
	}
}

func TestEncodeTimerValue_OutOfRange(t *testing.T) {
	// WHEN
	_, err := encodeTimerValue(100.5)

	// THEN
	assert.True(t, errors.Is(err, ErrOutOfRange))
}

func TestEncodeRegisterValue(t *testing.T) {
	result, err := encodeRegisterValue(-1, 0)
	assert.NoError(t, err)
	assert.Equal(t, uint16(0xFFFF), result)

	result, err = encodeRegisterValue(2.5, 10)
	assert.NoError(t, err)
	assert.Equal(t, uint16(25), result)

	_, err = encodeRegisterValue(40000, 1)
	assert.True(t, errors.Is(err, ErrOutOfRange))
}

func TestLabJackActuator_OutputValue_Timer(t *testing.T) {
	// GIVEN
	actuator, client := newLabJackActuator(configuration.LabJackActuatorConfig{
		Address:       "localhost:502",
		ValueRegister: 7200,
	})

	// WHEN
	err := actuator.OutputValue(100)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, []registerWrite{{address: 7200, value: []byte{0, 0, 0, 0}}}, client.writes)
	assert.Equal(t, 100.0, actuator.GetLastValue())
}

func TestLabJackActuator_OutputValue_Register(t *testing.T) {
	// GIVEN
	actuator, client := newLabJackActuator(configuration.LabJackActuatorConfig{
		Address:       "localhost:502",
		ValueRegister: 5000,
		Encoding:      configuration.LabJackEncodingRegister,
		Scale:         2,
	})

	// WHEN
	err := actuator.OutputValue(3)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, []registerWrite{{address: 5000, value: []byte{0, 6}}}, client.writes)
}

func TestLabJackActuator_OutputValue_ConnectionLost(t *testing.T) {
	// GIVEN
	actuator, client := newLabJackActuator(configuration.LabJackActuatorConfig{
		Address:       "localhost:502",
		ValueRegister: 7200,
	})
	client.err = errors.New("modbus: exception '4'")

	// WHEN
	err := actuator.OutputValue(10)

	// THEN
	assert.True(t, errors.Is(err, ErrNoConnection))
	assert.Nil(t, actuator.client)
	assert.Equal(t, 0.0, actuator.GetLastValue())
}

func TestLabJackActuator_SetPolaritySignal(t *testing.T) {
	// GIVEN
	register := uint16(6005)
	actuator, client := newLabJackActuator(configuration.LabJackActuatorConfig{
		Address:          "localhost:502",
		ValueRegister:    7200,
		PolarityRegister: &register,
	})

	// WHEN
	err := actuator.SetPolaritySignal(PolarityPositive)
	assert.NoError(t, err)
	err = actuator.SetPolaritySignal(PolarityNegative)
	assert.NoError(t, err)

	// THEN
	assert.Equal(t, []registerWrite{
		{address: 6005, value: []byte{0, 1}},
		{address: 6005, value: []byte{0, 0}},
	}, client.writes)
}

func TestLabJackActuator_SetPolaritySignal_NoRegister(t *testing.T) {
	// GIVEN
	actuator, client := newLabJackActuator(configuration.LabJackActuatorConfig{
		Address:       "localhost:502",
		ValueRegister: 7200,
	})

	// WHEN
	err := actuator.SetPolaritySignal(PolarityPositive)

	// THEN
	assert.NoError(t, err)
	assert.Empty(t, client.writes)
}
