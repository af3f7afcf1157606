package ramp

import (
	"bytes"
	"errors"
	"os"
	"strconv"

	"github.com/mgutz/ansi"
	"github.com/ramp2go/ramp2go/cmd/global"
	"github.com/ramp2go/ramp2go/internal/configuration"
	"github.com/ramp2go/ramp2go/internal/persistence"
	rampctl "github.com/ramp2go/ramp2go/internal/ramp"
	"github.com/ramp2go/ramp2go/internal/ui"
	"github.com/ramp2go/ramp2go/internal/util"
	"github.com/spf13/cobra"
	"github.com/tomlazar/table"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the configured ramps to console",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		loadConfig()

		pers := persistence.NewPersistence(configuration.CurrentConfig.DbPath)

		rows := [][]string{}
		for _, config := range configuration.CurrentConfig.Ramps {
			params, err := rampctl.ParamsFromConfig(config)
			if err != nil {
				return err
			}

			lastValue := "-"
			state, err := pers.LoadRampState(config.ID)
			if err == nil {
				lastValue = util.FormatFloat(state.Value)
			} else if !errors.Is(err, os.ErrNotExist) {
				ui.Warning("Unable to load last value of ramp %s: %v", config.ID, err)
			}

			rows = append(rows, []string{
				config.ID,
				config.Actuator,
				util.FormatFloat(params.StepSize),
				params.StepDelay.String(),
				params.Mode.String(),
				util.FormatFloat(params.Tolerance),
				strconv.FormatBool(params.ClampToTarget),
				formatOptional(config.InitialValue),
				formatOptional(config.Target),
				lastValue,
			})
		}

		tab := table.Table{
			Headers: []string{"ID", "Actuator", "Step Size", "Step Delay", "Mode", "Tolerance", "Clamp", "Initial", "Target", "Last Value"},
			Rows:    rows,
		}
		var buf bytes.Buffer
		tableErr := tab.WriteTable(&buf, &table.Config{
			ShowIndex:       false,
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

		return nil
	},
}

func formatOptional(value *float64) string {
	if value == nil {
		return "-"
	}
	return util.FormatFloat(*value)
}

func init() {
	Command.AddCommand(listCmd)
}
