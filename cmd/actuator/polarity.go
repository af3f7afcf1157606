package actuator

import (
	"github.com/ramp2go/ramp2go/internal/actuators"
	"github.com/ramp2go/ramp2go/internal/ui"
	"github.com/spf13/cobra"
)

var polarityCmd = &cobra.Command{
	Use:   "polarity <+|->",
	Short: "Signal a polarity to an actuator",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		polarity, err := actuators.ParsePolarity(args[0])
		if err != nil {
			return err
		}

		actuator, err := getActuator(actuatorId)
		if err != nil {
			return err
		}

		if err = actuator.SetPolaritySignal(polarity); err != nil {
			return err
		}
		ui.Success("Actuator %s: polarity %s", actuator.GetId(), polarity)
		return nil
	},
}

func init() {
	Command.AddCommand(polarityCmd)
}
