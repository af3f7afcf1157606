package statistics

import "github.com/prometheus/client_golang/prometheus"

const (
	namespace = "ramp2go"
)

func Register(collector prometheus.Collector) {
	prometheus.MustRegister(collector)
}
