package actuators

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"sync/atomic"

	cmap "github.com/orcaman/concurrent-map/v2"
	"github.com/ramp2go/ramp2go/internal/configuration"
)

type Polarity int

const (
	PolarityUnset    Polarity = 0
	PolarityPositive Polarity = 1
	PolarityNegative Polarity = -1
)

func (p Polarity) String() string {
	switch p {
	case PolarityPositive:
		return "+"
	case PolarityNegative:
		return "-"
	default:
		return "unset"
	}
}

// ParsePolarity accepts "+", "-", "positive", "negative", "1" and "-1"
func ParsePolarity(text string) (Polarity, error) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "+", "positive", "1":
		return PolarityPositive, nil
	case "-", "negative", "-1":
		return PolarityNegative, nil
	}
	return PolarityUnset, fmt.Errorf("unknown polarity '%s', use one of: + | -", text)
}

var (
	// ErrConfiguration is returned when the actuator rejects the requested output or polarity configuration
	ErrConfiguration = errors.New("actuator configuration error")
	// ErrOutOfRange is returned when a value is outside the accepted domain of the actuator
	ErrOutOfRange = errors.New("value out of range")
	// ErrNoConnection is returned when the actuator cannot be reached
	ErrNoConnection = errors.New("no connection to actuator")
)

var (
	ActuatorMap = cmap.New[Actuator]()
)

type Actuator interface {
	GetId() string

	GetConfig() configuration.ActuatorConfig

	// OutputValue pushes the given value to the actuator
	OutputValue(value float64) error

	// SetPolaritySignal signals the direction the output departs from zero
	SetPolaritySignal(polarity Polarity) error

	// GetLastValue returns the last value that was successfully emitted
	GetLastValue() float64
}

func NewActuator(config configuration.ActuatorConfig) (Actuator, error) {
	if config.File != nil {
		return &FileActuator{
			Config: config,
		}, nil
	}

	if config.Cmd != nil {
		return &CmdActuator{
			Config: config,
		}, nil
	}

	if config.LabJack != nil {
		return &LabJackActuator{
			Config: config,
		}, nil
	}

	if config.Serial != nil {
		return NewSerialActuator(config), nil
	}

	if config.Group != nil {
		return &GroupActuator{
			Config: config,
		}, nil
	}

	if config.Virtual != nil {
		return &VirtualActuator{
			Config: config,
		}, nil
	}

	return nil, fmt.Errorf("%w: no matching actuator type for actuator: %s", ErrConfiguration, config.ID)
}

// checkRange verifies value against the optional min/max of the actuator config
func checkRange(config configuration.ActuatorConfig, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return fmt.Errorf("%w: actuator %s: %v is not a finite number", ErrOutOfRange, config.ID, value)
	}
	if config.Min != nil && value < *config.Min {
		return fmt.Errorf("%w: actuator %s: %v is below the minimum of %v", ErrOutOfRange, config.ID, value, *config.Min)
	}
	if config.Max != nil && value > *config.Max {
		return fmt.Errorf("%w: actuator %s: %v is above the maximum of %v", ErrOutOfRange, config.ID, value, *config.Max)
	}
	return nil
}

// floatValue is a float64 that can be read while another goroutine writes it
type floatValue struct {
	bits atomic.Uint64
}

func (v *floatValue) Load() float64 {
	return math.Float64frombits(v.bits.Load())
}

func (v *floatValue) Store(value float64) {
	v.bits.Store(math.Float64bits(value))
}

// Close releases the connection held by an actuator, actuators without one are left untouched
func Close(actuator Actuator) error {
	if closer, ok := actuator.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
