package ramp

import (
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/ramp2go/ramp2go/internal/configuration"
	"github.com/ramp2go/ramp2go/internal/persistence"
	"github.com/ramp2go/ramp2go/internal/ui"
	"github.com/spf13/cobra"
)

var toCmd = &cobra.Command{
	Use:   "to <target>",
	Short: "Ramp the actuator of a ramp to the given target and wait until it is reached",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return err
		}

		loadConfig()
		config, err := getRampConfig(rampId)
		if err != nil {
			return err
		}

		dbPath := configuration.CurrentConfig.DbPath
		ui.Info("Using persistence at: %s", dbPath)
		pers := persistence.NewPersistence(dbPath)
		if err = pers.Init(); err != nil {
			return err
		}

		controller, err := createController(config, pers, stepPrinter{})
		if err != nil {
			return err
		}

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sig)

		run := controller.RampTo(target)
		select {
		case <-run.Done():
		case <-sig:
			ui.Info("Interrupted, stopping ramp...")
			controller.Stop()
		}

		saveErr := pers.SaveRampState(controller.GetId(), persistence.RampState{
			Value:     controller.CurrentValue(),
			Polarity:  int(controller.Polarity()),
			Timestamp: time.Now(),
		})
		if saveErr != nil {
			ui.Warning("Unable to persist state of ramp %s: %v", controller.GetId(), saveErr)
		}

		if err = run.Err(); err != nil {
			return err
		}
		ui.Success("Ramp %s %s at %v after %d steps", controller.GetId(), run.State(), controller.CurrentValue(), run.Steps())
		return nil
	},
}

func init() {
	Command.AddCommand(toCmd)
}
