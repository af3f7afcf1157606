package statistics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/ramp2go/ramp2go/internal/actuators"
)

const actuatorSubsystem = "actuator"

type ActuatorCollector struct {
	actuators []actuators.Actuator
	value     *prometheus.Desc
}

func NewActuatorCollector(actuators []actuators.Actuator) *ActuatorCollector {
	return &ActuatorCollector{
		actuators: actuators,
		value: prometheus.NewDesc(prometheus.BuildFQName(namespace, actuatorSubsystem, "value"),
			"Last value successfully emitted to the actuator",
			[]string{"id"}, nil,
		),
	}
}

func (collector *ActuatorCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.value
}

// Collect implements required collect function for all prometheus collectors
func (collector *ActuatorCollector) Collect(ch chan<- prometheus.Metric) {
	for _, actuator := range collector.actuators {
		ch <- prometheus.MustNewConstMetric(collector.value, prometheus.GaugeValue, actuator.GetLastValue(), actuator.GetId())
	}
}
