package actuators

import (
	"fmt"

	"github.com/ramp2go/ramp2go/internal/configuration"
	"github.com/ramp2go/ramp2go/internal/ui"
	"github.com/ramp2go/ramp2go/internal/util"
)

type FileActuator struct {
	Config    configuration.ActuatorConfig `json:"config"`
	lastValue floatValue
}

func (actuator *FileActuator) GetId() string {
	return actuator.Config.ID
}

func (actuator *FileActuator) GetConfig() configuration.ActuatorConfig {
	return actuator.Config
}

func (actuator *FileActuator) OutputValue(value float64) error {
	if err := checkRange(actuator.Config, value); err != nil {
		return err
	}

	filePath, err := util.ExpandHomePath(actuator.Config.File.Path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	err = util.WriteFloatToFileAtomic(value, filePath)
	if err != nil {
		ui.Error("Unable to write to file: %v", actuator.Config.File.Path)
		return fmt.Errorf("%w: %v", ErrNoConnection, err)
	}
	actuator.lastValue.Store(value)
	return nil
}

func (actuator *FileActuator) SetPolaritySignal(polarity Polarity) error {
	if len(actuator.Config.File.PolarityPath) <= 0 {
		// not supported
		return nil
	}

	filePath, err := util.ExpandHomePath(actuator.Config.File.PolarityPath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	err = util.WriteFloatToFileAtomic(float64(polarity), filePath)
	if err != nil {
		ui.Error("Unable to write to file: %v", actuator.Config.File.PolarityPath)
		return fmt.Errorf("%w: %v", ErrNoConnection, err)
	}
	return nil
}

func (actuator *FileActuator) GetLastValue() float64 {
	return actuator.lastValue.Load()
}
