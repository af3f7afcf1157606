package configuration

import "time"

type RampMode string

const (
	RampModeDefault     RampMode = "default"
	RampModeAccelerated RampMode = "accelerated"
)

type RampConfig struct {
	ID       string `json:"id"`
	Actuator string `json:"actuator"`

	// StepSize is the magnitude of a single increment, must be > 0
	StepSize float64 `json:"stepSize"`
	// StepDelay is the pause between two steps
	StepDelay time.Duration `json:"stepDelay,omitempty"`
	Mode      RampMode      `json:"mode,omitempty"`
	// Tolerance used when comparing values, 0 means exact comparison
	Tolerance float64 `json:"tolerance,omitempty"`
	// ClampToTarget prevents a step from moving past the target
	ClampToTarget bool `json:"clampToTarget,omitempty"`

	InitialValue *float64 `json:"initialValue,omitempty"`
	// Target is ramped to once the daemon has started
	Target *float64 `json:"target,omitempty"`
	// RestoreLastValue uses the last persisted value instead of InitialValue, if available
	RestoreLastValue bool `json:"restoreLastValue,omitempty"`
}

// GetStepDelay returns the configured step delay, falling back to the global default
func (c RampConfig) GetStepDelay() time.Duration {
	if c.StepDelay > 0 {
		return c.StepDelay
	}
	return CurrentConfig.DefaultStepDelay
}

// GetMode returns the configured ramp mode, falling back to RampModeDefault
func (c RampConfig) GetMode() RampMode {
	if len(c.Mode) <= 0 {
		return RampModeDefault
	}
	return c.Mode
}
