package ramp

import (
	"fmt"
	"math"
	"time"

	"github.com/ramp2go/ramp2go/internal/actuators"
	"github.com/ramp2go/ramp2go/internal/configuration"
)

type Mode int

const (
	// ModeDefault steps through zero when reversing
	ModeDefault Mode = iota
	// ModeAccelerated snaps across zero when reversing
	ModeAccelerated
)

func (m Mode) String() string {
	switch m {
	case ModeAccelerated:
		return string(configuration.RampModeAccelerated)
	default:
		return string(configuration.RampModeDefault)
	}
}

func ModeOf(mode configuration.RampMode) (Mode, error) {
	switch mode {
	case "", configuration.RampModeDefault:
		return ModeDefault, nil
	case configuration.RampModeAccelerated:
		return ModeAccelerated, nil
	}
	return ModeDefault, fmt.Errorf("%w: unsupported ramp mode '%s'", actuators.ErrConfiguration, mode)
}

// Params are snapshotted by every run when it starts
type Params struct {
	StepSize  float64
	StepDelay time.Duration
	Mode      Mode
	// Tolerance used when comparing the current value with the target, 0 means exact comparison.
	// A value within tolerance of the target is committed as exactly the target.
	Tolerance float64
	// ClampToTarget prevents a step from moving past the target
	ClampToTarget bool
}

func (p Params) Validate() error {
	if !(p.StepSize > 0) || math.IsInf(p.StepSize, 0) {
		return fmt.Errorf("%w: stepSize must be > 0, got %v", actuators.ErrConfiguration, p.StepSize)
	}
	if p.StepDelay < 0 {
		return fmt.Errorf("%w: stepDelay must not be negative, got %v", actuators.ErrConfiguration, p.StepDelay)
	}
	if !(p.Tolerance >= 0) {
		return fmt.Errorf("%w: tolerance must not be negative, got %v", actuators.ErrConfiguration, p.Tolerance)
	}
	if p.Mode != ModeDefault && p.Mode != ModeAccelerated {
		return fmt.Errorf("%w: unsupported ramp mode %d", actuators.ErrConfiguration, p.Mode)
	}
	return nil
}

func ParamsFromConfig(config configuration.RampConfig) (Params, error) {
	mode, err := ModeOf(config.GetMode())
	if err != nil {
		return Params{}, err
	}
	params := Params{
		StepSize:      config.StepSize,
		StepDelay:     config.GetStepDelay(),
		Mode:          mode,
		Tolerance:     config.Tolerance,
		ClampToTarget: config.ClampToTarget,
	}
	return params, params.Validate()
}
