package statistics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/ramp2go/ramp2go/internal/ramp"
)

const rampSubsystem = "ramp"

type RampCollector struct {
	controllers []*ramp.Controller

	value         *prometheus.Desc
	target        *prometheus.Desc
	polarity      *prometheus.Desc
	running       *prometheus.Desc
	steps         *prometheus.Desc
	runsStarted   *prometheus.Desc
	runsCompleted *prometheus.Desc
	runsCancelled *prometheus.Desc
	runsFailed    *prometheus.Desc
	avgLatency    *prometheus.Desc
}

func NewRampCollector(controllers []*ramp.Controller) *RampCollector {
	return &RampCollector{
		controllers: controllers,
		value: prometheus.NewDesc(prometheus.BuildFQName(namespace, rampSubsystem, "value"),
			"Last value committed by the ramp",
			[]string{"id"}, nil,
		),
		target: prometheus.NewDesc(prometheus.BuildFQName(namespace, rampSubsystem, "target"),
			"Target of the most recent run",
			[]string{"id"}, nil,
		),
		polarity: prometheus.NewDesc(prometheus.BuildFQName(namespace, rampSubsystem, "polarity"),
			"Last polarity signalled to the actuator (1, -1 or 0 if unset)",
			[]string{"id"}, nil,
		),
		running: prometheus.NewDesc(prometheus.BuildFQName(namespace, rampSubsystem, "running"),
			"1 while a run is in progress",
			[]string{"id"}, nil,
		),
		steps: prometheus.NewDesc(prometheus.BuildFQName(namespace, rampSubsystem, "steps_total"),
			"Number of values emitted to the actuator",
			[]string{"id"}, nil,
		),
		runsStarted: prometheus.NewDesc(prometheus.BuildFQName(namespace, rampSubsystem, "runs_started_total"),
			"Number of started runs",
			[]string{"id"}, nil,
		),
		runsCompleted: prometheus.NewDesc(prometheus.BuildFQName(namespace, rampSubsystem, "runs_completed_total"),
			"Number of runs that reached their target",
			[]string{"id"}, nil,
		),
		runsCancelled: prometheus.NewDesc(prometheus.BuildFQName(namespace, rampSubsystem, "runs_cancelled_total"),
			"Number of runs that were replaced or stopped",
			[]string{"id"}, nil,
		),
		runsFailed: prometheus.NewDesc(prometheus.BuildFQName(namespace, rampSubsystem, "runs_failed_total"),
			"Number of runs aborted by an actuator fault",
			[]string{"id"}, nil,
		),
		avgLatency: prometheus.NewDesc(prometheus.BuildFQName(namespace, rampSubsystem, "actuator_latency_seconds_avg"),
			"Average duration of an actuator write over the latency window",
			[]string{"id"}, nil,
		),
	}
}

func (collector *RampCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.value
	ch <- collector.target
	ch <- collector.polarity
	ch <- collector.running
	ch <- collector.steps
	ch <- collector.runsStarted
	ch <- collector.runsCompleted
	ch <- collector.runsCancelled
	ch <- collector.runsFailed
	ch <- collector.avgLatency
}

// Collect implements required collect function for all prometheus collectors
func (collector *RampCollector) Collect(ch chan<- prometheus.Metric) {
	for _, controller := range collector.controllers {
		id := controller.GetId()
		stats := controller.Statistics()

		target := controller.CurrentValue()
		running := 0.0
		if run := controller.CurrentRun(); run != nil {
			target = run.Target()
			if run.State() == ramp.StateRunning {
				running = 1
			}
		}

		ch <- prometheus.MustNewConstMetric(collector.value, prometheus.GaugeValue, controller.CurrentValue(), id)
		ch <- prometheus.MustNewConstMetric(collector.target, prometheus.GaugeValue, target, id)
		ch <- prometheus.MustNewConstMetric(collector.polarity, prometheus.GaugeValue, float64(controller.Polarity()), id)
		ch <- prometheus.MustNewConstMetric(collector.running, prometheus.GaugeValue, running, id)
		ch <- prometheus.MustNewConstMetric(collector.steps, prometheus.CounterValue, float64(stats.Steps.Load()), id)
		ch <- prometheus.MustNewConstMetric(collector.runsStarted, prometheus.CounterValue, float64(stats.RunsStarted.Load()), id)
		ch <- prometheus.MustNewConstMetric(collector.runsCompleted, prometheus.CounterValue, float64(stats.RunsCompleted.Load()), id)
		ch <- prometheus.MustNewConstMetric(collector.runsCancelled, prometheus.CounterValue, float64(stats.RunsCancelled.Load()), id)
		ch <- prometheus.MustNewConstMetric(collector.runsFailed, prometheus.CounterValue, float64(stats.RunsFailed.Load()), id)
		ch <- prometheus.MustNewConstMetric(collector.avgLatency, prometheus.GaugeValue, stats.AvgLatency(), id)
	}
}
