package ramp

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/mgutz/ansi"
	"github.com/ramp2go/ramp2go/cmd/global"
	"github.com/ramp2go/ramp2go/internal/actuators"
	"github.com/ramp2go/ramp2go/internal/configuration"
	rampctl "github.com/ramp2go/ramp2go/internal/ramp"
	"github.com/ramp2go/ramp2go/internal/ui"
	"github.com/ramp2go/ramp2go/internal/util"
	"github.com/spf13/cobra"
	"github.com/tomlazar/table"
)

var (
	realtime bool
	maxSteps int64
)

var simulateCmd = &cobra.Command{
	Use:   "simulate <from> <to> [<to>...]",
	Short: "Simulate a ramp against a virtual actuator and plot the emitted values",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		values := make([]float64, 0, len(args))
		for _, arg := range args {
			value, err := strconv.ParseFloat(arg, 64)
			if err != nil {
				return err
			}
			values = append(values, value)
		}

		loadConfig()
		config, err := getRampConfig(rampId)
		if err != nil {
			return err
		}

		params, err := rampctl.ParamsFromConfig(config)
		if err != nil {
			return err
		}
		if !realtime {
			params.StepDelay = 0
		}

		virtualConfig := configuration.ActuatorConfig{
			ID:      "simulated-" + config.Actuator,
			Virtual: &configuration.VirtualActuatorConfig{},
		}
		if actuatorConfig, ok := configuration.FindActuatorConfig(config.Actuator); ok {
			virtualConfig.Min = actuatorConfig.Min
			virtualConfig.Max = actuatorConfig.Max
		}
		actuator := &actuators.VirtualActuator{Config: virtualConfig}

		controller, err := rampctl.NewController(config.ID, actuator, params, values[0])
		if err != nil {
			return err
		}

		rows := [][]string{}
		for _, target := range values[1:] {
			run := controller.RampTo(target)
			waitForRun(controller, run)
			errText := ""
			if err := run.Err(); err != nil {
				errText = err.Error()
			}
			rows = append(rows, []string{
				util.FormatFloat(target),
				run.State().String(),
				strconv.FormatInt(run.Steps(), 10),
				util.FormatFloat(controller.CurrentValue()),
				errText,
			})
		}

		tab := table.Table{
			Headers: []string{"Target", "State", "Steps", "Value", "Error"},
			Rows:    rows,
		}
		var buf bytes.Buffer
		tableErr := tab.WriteTable(&buf, &table.Config{
			ShowIndex:       true,
			Color:           !global.NoColor,
			AlternateColors: true,
			TitleColorCode:  ansi.ColorCode("white+buf"),
			AltColorCodes: []string{
				ansi.ColorCode("white"),
				ansi.ColorCode("white:236"),
			},
		})
		if tableErr != nil {
			return tableErr
		}
		ui.Printfln(buf.String())

		polarities := []string{}
		for _, polarity := range actuator.Polarities() {
			polarities = append(polarities, polarity.String())
		}
		ui.Printfln("Polarity signals: %s", strings.Join(polarities, " "))

		emitted := actuator.Values()
		if len(emitted) < 2 {
			return nil
		}
		caption := fmt.Sprintf("%s: %d values in [%v, %v], mode %s", config.ID, len(emitted), util.Min(emitted), util.Max(emitted), params.Mode)
		graph := asciigraph.Plot(emitted, asciigraph.Height(15), asciigraph.Width(100), asciigraph.Caption(caption))
		ui.Printfln(graph)

		return nil
	},
}

// waitForRun blocks until the run has finished, stopping it when it exceeds maxSteps
func waitForRun(controller *rampctl.Controller, run *rampctl.Run) {
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-run.Done():
			return
		case <-ticker.C:
			if maxSteps > 0 && run.Steps() > maxSteps {
				ui.Warning("Ramp %s did not reach %v within %d steps, stopping", controller.GetId(), run.Target(), maxSteps)
				controller.Stop()
				return
			}
		}
	}
}

func init() {
	simulateCmd.Flags().BoolVarP(&realtime, "realtime", "r", false, "Use the configured step delay instead of stepping as fast as possible")
	simulateCmd.Flags().Int64VarP(&maxSteps, "max-steps", "m", 10000, "Stop a ramp that did not reach its target after this many steps, 0 disables the limit")
	Command.AddCommand(simulateCmd)
}
