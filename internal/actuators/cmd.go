package actuators

import (
	"fmt"
	"strings"
	"time"

	"github.com/ramp2go/ramp2go/internal/configuration"
	"github.com/ramp2go/ramp2go/internal/util"
)

const (
	valuePlaceholder    = "%value%"
	polarityPlaceholder = "%polarity%"
)

type CmdActuator struct {
	Config    configuration.ActuatorConfig `json:"config"`
	lastValue floatValue
}

func (actuator *CmdActuator) GetId() string {
	return actuator.Config.ID
}

func (actuator *CmdActuator) GetConfig() configuration.ActuatorConfig {
	return actuator.Config
}

func (actuator *CmdActuator) OutputValue(value float64) error {
	if err := checkRange(actuator.Config, value); err != nil {
		return err
	}

	conf := actuator.Config.Cmd.SetValue
	args := replacePlaceholder(conf.Args, valuePlaceholder, util.FormatFloat(value))

	_, err := util.SafeCmdExecution(conf.Exec, args, actuatorTimeout())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNoConnection, err)
	}

	actuator.lastValue.Store(value)
	return nil
}

func (actuator *CmdActuator) SetPolaritySignal(polarity Polarity) error {
	conf := actuator.Config.Cmd.SetPolarity
	if conf == nil {
		// not supported
		return nil
	}

	args := replacePlaceholder(conf.Args, polarityPlaceholder, polarity.String())

	_, err := util.SafeCmdExecution(conf.Exec, args, actuatorTimeout())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNoConnection, err)
	}
	return nil
}

func (actuator *CmdActuator) GetLastValue() float64 {
	return actuator.lastValue.Load()
}

func replacePlaceholder(args []string, placeholder string, value string) []string {
	var result = []string{}
	for _, arg := range args {
		result = append(result, strings.ReplaceAll(arg, placeholder, value))
	}
	return result
}

func actuatorTimeout() time.Duration {
	if configuration.CurrentConfig.ActuatorTimeout > 0 {
		return configuration.CurrentConfig.ActuatorTimeout
	}
	return 2 * time.Second
}
