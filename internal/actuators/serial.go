package actuators

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/ramp2go/ramp2go/internal/configuration"
	"github.com/ramp2go/ramp2go/internal/util"
	"github.com/tarm/serial"
)

const defaultSerialBaud = 9600

// SerialActuator speaks a line based protocol to a motor driver:
//
//	V <value>\n  sets the output value
//	P <+|->\n    sets the polarity
type SerialActuator struct {
	Config configuration.ActuatorConfig `json:"config"`

	mu        sync.Mutex
	open      func() (io.ReadWriteCloser, error)
	port      io.ReadWriteCloser
	lastValue floatValue
}

func NewSerialActuator(config configuration.ActuatorConfig) *SerialActuator {
	return &SerialActuator{
		Config: config,
		open: func() (io.ReadWriteCloser, error) {
			baud := config.Serial.Baud
			if baud <= 0 {
				baud = defaultSerialBaud
			}
			timeout := config.Serial.Timeout
			if timeout <= 0 {
				timeout = 1 * time.Second
			}
			port, err := serial.OpenPort(&serial.Config{
				Name:        config.Serial.Device,
				Baud:        baud,
				ReadTimeout: timeout,
			})
			if err != nil {
				return nil, err
			}
			return port, nil
		},
	}
}

func (actuator *SerialActuator) GetId() string {
	return actuator.Config.ID
}

func (actuator *SerialActuator) GetConfig() configuration.ActuatorConfig {
	return actuator.Config
}

func (actuator *SerialActuator) OutputValue(value float64) error {
	if err := checkRange(actuator.Config, value); err != nil {
		return err
	}
	err := actuator.writeLine(fmt.Sprintf("V %s\n", util.FormatFloat(value)))
	if err != nil {
		return err
	}
	actuator.lastValue.Store(value)
	return nil
}

func (actuator *SerialActuator) SetPolaritySignal(polarity Polarity) error {
	if polarity == PolarityUnset {
		return fmt.Errorf("%w: actuator %s: cannot signal polarity %s", ErrConfiguration, actuator.Config.ID, polarity)
	}
	return actuator.writeLine(fmt.Sprintf("P %s\n", polarity))
}

func (actuator *SerialActuator) GetLastValue() float64 {
	return actuator.lastValue.Load()
}

func (actuator *SerialActuator) Close() error {
	actuator.mu.Lock()
	defer actuator.mu.Unlock()
	if actuator.port == nil {
		return nil
	}
	err := actuator.port.Close()
	actuator.port = nil
	return err
}

func (actuator *SerialActuator) writeLine(line string) error {
	actuator.mu.Lock()
	defer actuator.mu.Unlock()

	if actuator.port == nil {
		port, err := actuator.open()
		if err != nil {
			return fmt.Errorf("%w: actuator %s: %v", ErrNoConnection, actuator.Config.ID, err)
		}
		actuator.port = port
	}

	_, err := io.WriteString(actuator.port, line)
	if err != nil {
		_ = actuator.port.Close()
		actuator.port = nil
		return fmt.Errorf("%w: actuator %s: %v", ErrNoConnection, actuator.Config.ID, err)
	}
	return nil
}
