package actuator

import (
	"fmt"

	"github.com/ramp2go/ramp2go/internal/actuators"
	"github.com/ramp2go/ramp2go/internal/configuration"
	"github.com/ramp2go/ramp2go/internal/ui"
	"github.com/spf13/cobra"
)

var actuatorId string

var Command = &cobra.Command{
	Use:              "actuator",
	Short:            "Actuator related commands",
	TraverseChildren: true,
}

func init() {
	Command.PersistentFlags().StringVarP(
		&actuatorId,
		"id", "i",
		"",
		"Actuator ID as specified in the config",
	)
	_ = Command.MarkPersistentFlagRequired("id")
}

// getActuator creates all configured actuators and returns the one with the given id.
// Group members are resolved from the registry, so every actuator is created.
func getActuator(id string) (actuators.Actuator, error) {
	configPath := configuration.DetectAndReadConfigFile()
	ui.Info("Using configuration file at: %s", configPath)
	configuration.LoadConfig()
	err := configuration.Validate(configPath)
	if err != nil {
		ui.Fatal("%v", err)
	}

	availableActuatorIds := []string{}
	for _, config := range configuration.CurrentConfig.Actuators {
		availableActuatorIds = append(availableActuatorIds, config.ID)
		actuator, err := actuators.NewActuator(config)
		if err != nil {
			return nil, err
		}
		actuators.ActuatorMap.Set(config.ID, actuator)
	}

	actuator, ok := actuators.ActuatorMap.Get(id)
	if !ok {
		return nil, fmt.Errorf("no actuator with id found: %s, options: %s", id, availableActuatorIds)
	}
	return actuator, nil
}
