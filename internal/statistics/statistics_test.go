package statistics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/ramp2go/ramp2go/internal/actuators"
	"github.com/ramp2go/ramp2go/internal/configuration"
	"github.com/ramp2go/ramp2go/internal/ramp"
	"github.com/stretchr/testify/assert"
)

func newVirtualActuator(id string) *actuators.VirtualActuator {
	return &actuators.VirtualActuator{
		Config: configuration.ActuatorConfig{
			ID:      id,
			Virtual: &configuration.VirtualActuatorConfig{},
		},
	}
}

func TestActuatorCollector(t *testing.T) {
	// GIVEN
	actuator := newVirtualActuator("motor")
	_ = actuator.OutputValue(2.5)
	collector := NewActuatorCollector([]actuators.Actuator{actuator})

	expected := `
# HELP ramp2go_actuator_value Last value successfully emitted to the actuator
# TYPE ramp2go_actuator_value gauge
ramp2go_actuator_value{id="motor"} 2.5
`

	// WHEN
	err := testutil.CollectAndCompare(collector, strings.NewReader(expected))

	// THEN
	assert.NoError(t, err)
}

func TestRampCollector(t *testing.T) {
	// GIVEN
	actuator := newVirtualActuator("motor")
	controller, err := ramp.NewController("port", actuator, ramp.Params{StepSize: 1, StepDelay: time.Millisecond}, 0)
	assert.NoError(t, err)
	assert.NoError(t, controller.RampTo(3).Wait())
	collector := NewRampCollector([]*ramp.Controller{controller})

	expected := `
# HELP ramp2go_ramp_value Last value committed by the ramp
# TYPE ramp2go_ramp_value gauge
ramp2go_ramp_value{id="port"} 3
# HELP ramp2go_ramp_target Target of the most recent run
# TYPE ramp2go_ramp_target gauge
ramp2go_ramp_target{id="port"} 3
# HELP ramp2go_ramp_polarity Last polarity signalled to the actuator (1, -1 or 0 if unset)
# TYPE ramp2go_ramp_polarity gauge
ramp2go_ramp_polarity{id="port"} 1
# HELP ramp2go_ramp_running 1 while a run is in progress
# TYPE ramp2go_ramp_running gauge
ramp2go_ramp_running{id="port"} 0
# HELP ramp2go_ramp_steps_total Number of values emitted to the actuator
# TYPE ramp2go_ramp_steps_total counter
ramp2go_ramp_steps_total{id="port"} 3
# HELP ramp2go_ramp_runs_completed_total Number of runs that reached their target
# TYPE ramp2go_ramp_runs_completed_total counter
ramp2go_ramp_runs_completed_total{id="port"} 1
`

	// WHEN
	err = testutil.CollectAndCompare(collector, strings.NewReader(expected),
		"ramp2go_ramp_value",
		"ramp2go_ramp_target",
		"ramp2go_ramp_polarity",
		"ramp2go_ramp_running",
		"ramp2go_ramp_steps_total",
		"ramp2go_ramp_runs_completed_total",
	)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, 10, testutil.CollectAndCount(collector))
}
