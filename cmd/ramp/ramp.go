package ramp

import (
	"fmt"

	"github.com/ramp2go/ramp2go/internal"
	"github.com/ramp2go/ramp2go/internal/actuators"
	"github.com/ramp2go/ramp2go/internal/configuration"
	"github.com/ramp2go/ramp2go/internal/persistence"
	rampctl "github.com/ramp2go/ramp2go/internal/ramp"
	"github.com/ramp2go/ramp2go/internal/ui"
	"github.com/spf13/cobra"
)

var rampId string

var Command = &cobra.Command{
	Use:              "ramp",
	Short:            "Ramp related commands",
	TraverseChildren: true,
}

func init() {
	Command.PersistentFlags().StringVarP(
		&rampId,
		"id", "i",
		"",
		"Ramp ID as specified in the config",
	)
}

func loadConfig() {
	configPath := configuration.DetectAndReadConfigFile()
	ui.Info("Using configuration file at: %s", configPath)
	configuration.LoadConfig()
	err := configuration.Validate(configPath)
	if err != nil {
		ui.Fatal("%v", err)
	}
}

func getRampConfig(id string) (configuration.RampConfig, error) {
	availableRampIds := []string{}
	for _, rampConf := range configuration.CurrentConfig.Ramps {
		availableRampIds = append(availableRampIds, rampConf.ID)
		if id == rampConf.ID {
			return rampConf, nil
		}
	}

	return configuration.RampConfig{}, fmt.Errorf("no ramp with id found: %s, options: %s", id, availableRampIds)
}

// createController creates all configured actuators and the controller of the given ramp
func createController(config configuration.RampConfig, pers persistence.Persistence, observers ...rampctl.Observer) (*rampctl.Controller, error) {
	for _, actuatorConfig := range configuration.CurrentConfig.Actuators {
		actuator, err := actuators.NewActuator(actuatorConfig)
		if err != nil {
			return nil, err
		}
		actuators.ActuatorMap.Set(actuatorConfig.ID, actuator)
	}

	return internal.NewRampController(config, pers, observers...)
}

// stepPrinter prints every step of a ramp to the console
type stepPrinter struct{}

func (stepPrinter) StepApplied(controller *rampctl.Controller, run *rampctl.Run, value float64) {
	ui.Info("%s: %v (target %v)", controller.GetId(), value, run.Target())
}

func (stepPrinter) PolaritySignalled(controller *rampctl.Controller, polarity actuators.Polarity) {
	ui.Info("%s: polarity %s", controller.GetId(), polarity)
}

func (stepPrinter) RunFinished(controller *rampctl.Controller, run *rampctl.Run) {}
