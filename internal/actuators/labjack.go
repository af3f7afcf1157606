package actuators

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/goburrow/modbus"
	"github.com/ramp2go/ramp2go/internal/configuration"
	"github.com/ramp2go/ramp2go/internal/ui"
)

const (
	// maxTimerValue corresponds to a duty cycle of 0%, a timer value of 0 to a duty cycle of 100%
	maxTimerValue   = 65535
	maxDutyCycle    = 100.0
	defaultBaudRate = 19200
	defaultSlaveId  = 1
)

type modbusHandler interface {
	modbus.ClientHandler
	Connect() error
	Close() error
}

// LabJackActuator drives the output of a LabJack DAQ device over Modbus TCP or RTU
type LabJackActuator struct {
	Config configuration.ActuatorConfig `json:"config"`

	mu        sync.Mutex
	handler   modbusHandler
	client    modbus.Client
	lastValue floatValue
}

func (actuator *LabJackActuator) GetId() string {
	return actuator.Config.ID
}

func (actuator *LabJackActuator) GetConfig() configuration.ActuatorConfig {
	return actuator.Config
}

func (actuator *LabJackActuator) OutputValue(value float64) error {
	if err := checkRange(actuator.Config, value); err != nil {
		return err
	}

	conf := actuator.Config.LabJack

	actuator.mu.Lock()
	defer actuator.mu.Unlock()

	client, err := actuator.connect()
	if err != nil {
		return err
	}

	switch conf.Encoding {
	case configuration.LabJackEncodingRegister:
		raw, err := encodeRegisterValue(value, conf.Scale)
		if err != nil {
			return fmt.Errorf("actuator %s: %w", actuator.Config.ID, err)
		}
		_, err = client.WriteSingleRegister(conf.ValueRegister, raw)
		if err != nil {
			return actuator.connectionLost(err)
		}
	default:
		timerValue, err := encodeTimerValue(value)
		if err != nil {
			return fmt.Errorf("actuator %s: %w", actuator.Config.ID, err)
		}
		_, err = client.WriteMultipleRegisters(conf.ValueRegister, 2, timerValue)
		if err != nil {
			return actuator.connectionLost(err)
		}
	}

	actuator.lastValue.Store(value)
	return nil
}

func (actuator *LabJackActuator) SetPolaritySignal(polarity Polarity) error {
	register := actuator.Config.LabJack.PolarityRegister
	if register == nil {
		// not supported
		return nil
	}

	var state uint16
	switch polarity {
	case PolarityPositive:
		state = 1
	case PolarityNegative:
		state = 0
	default:
		return fmt.Errorf("%w: actuator %s: cannot signal polarity %s", ErrConfiguration, actuator.Config.ID, polarity)
	}

	actuator.mu.Lock()
	defer actuator.mu.Unlock()

	client, err := actuator.connect()
	if err != nil {
		return err
	}

	_, err = client.WriteSingleRegister(*register, state)
	if err != nil {
		return actuator.connectionLost(err)
	}
	return nil
}

func (actuator *LabJackActuator) GetLastValue() float64 {
	return actuator.lastValue.Load()
}

// Close releases the underlying modbus connection, it is reopened on the next write
func (actuator *LabJackActuator) Close() error {
	actuator.mu.Lock()
	defer actuator.mu.Unlock()
	if actuator.handler == nil {
		return nil
	}
	err := actuator.handler.Close()
	actuator.handler = nil
	actuator.client = nil
	return err
}

// connect lazily opens the modbus connection, the caller must hold mu
func (actuator *LabJackActuator) connect() (modbus.Client, error) {
	if actuator.client != nil {
		return actuator.client, nil
	}

	conf := actuator.Config.LabJack
	timeout := conf.Timeout
	if timeout <= 0 {
		timeout = 1 * time.Second
	}
	slaveId := conf.SlaveId
	if slaveId == 0 {
		slaveId = defaultSlaveId
	}

	var handler modbusHandler
	if len(conf.Address) > 0 {
		tcpHandler := modbus.NewTCPClientHandler(conf.Address)
		tcpHandler.Timeout = timeout
		tcpHandler.SlaveId = slaveId
		handler = tcpHandler
	} else {
		rtuHandler := modbus.NewRTUClientHandler(conf.Device)
		rtuHandler.BaudRate = conf.BaudRate
		if rtuHandler.BaudRate <= 0 {
			rtuHandler.BaudRate = defaultBaudRate
		}
		rtuHandler.DataBits = 8
		rtuHandler.Parity = "N"
		rtuHandler.StopBits = 1
		rtuHandler.Timeout = timeout
		rtuHandler.SlaveId = slaveId
		handler = rtuHandler
	}

	if err := handler.Connect(); err != nil {
		return nil, fmt.Errorf("%w: actuator %s: %v", ErrNoConnection, actuator.Config.ID, err)
	}

	actuator.handler = handler
	actuator.client = modbus.NewClient(handler)
	return actuator.client, nil
}

// connectionLost drops the current connection, the caller must hold mu
func (actuator *LabJackActuator) connectionLost(err error) error {
	ui.Warning("Lost connection to labjack of actuator %s: %v", actuator.Config.ID, err)
	if actuator.handler != nil {
		_ = actuator.handler.Close()
	}
	actuator.handler = nil
	actuator.client = nil
	return fmt.Errorf("%w: actuator %s: %v", ErrNoConnection, actuator.Config.ID, err)
}

// encodeTimerValue maps the magnitude of a duty cycle percentage onto a 32 bit timer value,
// written as an LSB/MSB register pair
func encodeTimerValue(value float64) ([]byte, error) {
	magnitude := math.Abs(value)
	if magnitude > maxDutyCycle {
		return nil, fmt.Errorf("%w: duty cycle %v exceeds %v%%", ErrOutOfRange, value, maxDutyCycle)
	}

	timerValue := uint32(math.Round((1 - magnitude/maxDutyCycle) * maxTimerValue))

	result := make([]byte, 4)
	binary.BigEndian.PutUint16(result[0:2], uint16(timerValue&0xFFFF))
	binary.BigEndian.PutUint16(result[2:4], uint16(timerValue>>16))
	return result, nil
}

// encodeRegisterValue scales the value into a signed 16 bit register value
func encodeRegisterValue(value float64, scale float64) (uint16, error) {
	if scale == 0 {
		scale = 1
	}
	raw := math.Round(value * scale)
	if raw < math.MinInt16 || raw > math.MaxInt16 {
		return 0, fmt.Errorf("%w: %v does not fit into a register", ErrOutOfRange, value)
	}
	return uint16(int16(raw)), nil
}
