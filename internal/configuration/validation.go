package configuration

import (
	"fmt"
	"strings"

	"github.com/looplab/tarjan"
	"github.com/ramp2go/ramp2go/internal/ui"
	"github.com/ramp2go/ramp2go/internal/util"
	"golang.org/x/exp/slices"
)

func Validate(configPath string) error {
	return validateConfig(&CurrentConfig, configPath)
}

func validateConfig(config *Configuration, path string) error {
	err := validateActuators(config)
	if err != nil {
		return err
	}
	err = validateRamps(config)
	if err != nil {
		return err
	}

	if containsCmdActuators(config) && len(path) > 0 {
		if _, err := util.CheckFilePermissionsForExecution(path); err != nil {
			return fmt.Errorf("config file '%s' has invalid permissions: %s", path, err)
		}
	}

	return nil
}

func containsCmdActuators(config *Configuration) bool {
	for _, actuatorConfig := range config.Actuators {
		if actuatorConfig.Cmd != nil {
			return true
		}
	}

	return false
}

func validateActuators(config *Configuration) error {
	var actuatorIds []string
	graph := make(map[interface{}][]interface{})

	for _, actuatorConfig := range config.Actuators {
		if slices.Contains(actuatorIds, actuatorConfig.ID) {
			return fmt.Errorf("duplicate actuator id detected: %s", actuatorConfig.ID)
		}
		actuatorIds = append(actuatorIds, actuatorConfig.ID)

		subConfigs := 0
		if actuatorConfig.File != nil {
			subConfigs++
		}
		if actuatorConfig.Cmd != nil {
			subConfigs++
		}
		if actuatorConfig.LabJack != nil {
			subConfigs++
		}
		if actuatorConfig.Serial != nil {
			subConfigs++
		}
		if actuatorConfig.Group != nil {
			subConfigs++
		}
		if actuatorConfig.Virtual != nil {
			subConfigs++
		}
		if subConfigs > 1 {
			return fmt.Errorf("actuator %s: only one actuator type can be used per actuator definition block", actuatorConfig.ID)
		}
		if subConfigs <= 0 {
			return fmt.Errorf("actuator %s: sub-configuration for actuator is missing, use one of: file | cmd | labjack | serial | group | virtual", actuatorConfig.ID)
		}

		if actuatorConfig.Min != nil && actuatorConfig.Max != nil && *actuatorConfig.Min >= *actuatorConfig.Max {
			return fmt.Errorf("actuator %s: min must be smaller than max", actuatorConfig.ID)
		}

		if !isActuatorConfigInUse(actuatorConfig, config) {
			ui.Warning("Unused actuator configuration: %s", actuatorConfig.ID)
		}

		if actuatorConfig.File != nil {
			if len(actuatorConfig.File.Path) <= 0 {
				return fmt.Errorf("actuator %s: no file path provided", actuatorConfig.ID)
			}
		}

		if actuatorConfig.Cmd != nil {
			cmdConfig := actuatorConfig.Cmd
			if cmdConfig.SetValue == nil {
				return fmt.Errorf("actuator %s: missing setValue configuration", actuatorConfig.ID)
			}
			if len(cmdConfig.SetValue.Exec) <= 0 {
				return fmt.Errorf("actuator %s: setValue executable is missing", actuatorConfig.ID)
			}
			if cmdConfig.SetPolarity != nil && len(cmdConfig.SetPolarity.Exec) <= 0 {
				return fmt.Errorf("actuator %s: setPolarity executable is missing", actuatorConfig.ID)
			}
		}

		if actuatorConfig.LabJack != nil {
			labJackConfig := actuatorConfig.LabJack
			if len(labJackConfig.Address) <= 0 && len(labJackConfig.Device) <= 0 {
				return fmt.Errorf("actuator %s: labjack requires either an address or a device", actuatorConfig.ID)
			}
			supportedEncodings := []string{LabJackEncodingTimer, LabJackEncodingRegister}
			if len(labJackConfig.Encoding) > 0 && !slices.Contains(supportedEncodings, labJackConfig.Encoding) {
				return fmt.Errorf("actuator %s: unsupported encoding '%s', use one of: %s", actuatorConfig.ID, labJackConfig.Encoding, strings.Join(supportedEncodings, " | "))
			}
		}

		if actuatorConfig.Serial != nil {
			if len(actuatorConfig.Serial.Device) <= 0 {
				return fmt.Errorf("actuator %s: no serial device provided", actuatorConfig.ID)
			}
		}

		if actuatorConfig.Group != nil {
			if len(actuatorConfig.Group.Actuators) <= 0 {
				return fmt.Errorf("actuator %s: group has no members", actuatorConfig.ID)
			}
			var connections []interface{}
			for _, member := range actuatorConfig.Group.Actuators {
				if member == actuatorConfig.ID {
					return fmt.Errorf("actuator %s: a group cannot reference itself", actuatorConfig.ID)
				}
				if !actuatorIdExists(member, config) {
					return fmt.Errorf("actuator %s: no actuator definition with id '%s' found", actuatorConfig.ID, member)
				}
				connections = append(connections, member)
			}
			graph[actuatorConfig.ID] = connections
		}
	}

	return validateNoLoops(graph)
}

func validateNoLoops(graph map[interface{}][]interface{}) error {
	output := tarjan.Connections(graph)
	for _, items := range output {
		if len(items) > 1 {
			return fmt.Errorf("you have created an actuator group cycle: %v", items)
		}
	}
	return nil
}

func isActuatorConfigInUse(config ActuatorConfig, configuration *Configuration) bool {
	for _, rampConfig := range configuration.Ramps {
		if rampConfig.Actuator == config.ID {
			return true
		}
	}

	for _, actuatorConfig := range configuration.Actuators {
		if actuatorConfig.Group != nil && util.ContainsString(actuatorConfig.Group.Actuators, config.ID) {
			return true
		}
	}

	return false
}

func actuatorIdExists(actuatorId string, config *Configuration) bool {
	_, found := findActuator(actuatorId, config)
	return found
}

func validateRamps(config *Configuration) error {
	var rampIds []string

	for _, rampConfig := range config.Ramps {
		if slices.Contains(rampIds, rampConfig.ID) {
			return fmt.Errorf("duplicate ramp id detected: %s", rampConfig.ID)
		}
		rampIds = append(rampIds, rampConfig.ID)

		if len(rampConfig.Actuator) <= 0 {
			return fmt.Errorf("ramp %s: missing actuator id", rampConfig.ID)
		}

		actuatorConfig, found := findActuator(rampConfig.Actuator, config)
		if !found {
			return fmt.Errorf("ramp %s: no actuator definition with id '%s' found", rampConfig.ID, rampConfig.Actuator)
		}

		for _, other := range config.Ramps {
			if other.ID != rampConfig.ID && other.Actuator == rampConfig.Actuator {
				return fmt.Errorf("ramp %s: actuator '%s' is already driven by ramp '%s'", rampConfig.ID, rampConfig.Actuator, other.ID)
			}
		}

		if rampConfig.StepSize <= 0 {
			return fmt.Errorf("ramp %s: stepSize must be > 0", rampConfig.ID)
		}
		if rampConfig.StepDelay < 0 {
			return fmt.Errorf("ramp %s: stepDelay must not be negative", rampConfig.ID)
		}
		if rampConfig.Tolerance < 0 {
			return fmt.Errorf("ramp %s: tolerance must not be negative", rampConfig.ID)
		}

		supportedModes := []RampMode{RampModeDefault, RampModeAccelerated}
		if !slices.Contains(supportedModes, rampConfig.GetMode()) {
			return fmt.Errorf("ramp %s: unsupported mode '%s', use one of: %s | %s", rampConfig.ID, rampConfig.Mode, RampModeDefault, RampModeAccelerated)
		}

		if err := validateRampValue(rampConfig.ID, "initialValue", rampConfig.InitialValue, actuatorConfig); err != nil {
			return err
		}
		if err := validateRampValue(rampConfig.ID, "target", rampConfig.Target, actuatorConfig); err != nil {
			return err
		}
	}

	return nil
}

func validateRampValue(rampId string, name string, value *float64, actuatorConfig ActuatorConfig) error {
	if value == nil {
		return nil
	}
	if actuatorConfig.Min != nil && *value < *actuatorConfig.Min {
		return fmt.Errorf("ramp %s: %s %v is below the minimum of actuator '%s'", rampId, name, *value, actuatorConfig.ID)
	}
	if actuatorConfig.Max != nil && *value > *actuatorConfig.Max {
		return fmt.Errorf("ramp %s: %s %v is above the maximum of actuator '%s'", rampId, name, *value, actuatorConfig.ID)
	}
	return nil
}

func findActuator(actuatorId string, config *Configuration) (ActuatorConfig, bool) {
	for _, actuator := range config.Actuators {
		if actuator.ID == actuatorId {
			return actuator, true
		}
	}
	return ActuatorConfig{}, false
}
