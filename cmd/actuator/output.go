package actuator

import (
	"strconv"

	"github.com/ramp2go/ramp2go/internal/ui"
	"github.com/spf13/cobra"
)

var outputCmd = &cobra.Command{
	Use:   "output <value>",
	Short: "Emit a single value to an actuator, bypassing any ramp",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		value, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return err
		}

		actuator, err := getActuator(actuatorId)
		if err != nil {
			return err
		}

		if err = actuator.OutputValue(value); err != nil {
			return err
		}
		ui.Success("Actuator %s: %v", actuator.GetId(), value)
		return nil
	},
}

func init() {
	Command.AddCommand(outputCmd)
}
