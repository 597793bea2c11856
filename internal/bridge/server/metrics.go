package server

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Execution outcomes recorded by Metrics.
const (
	outcomeOK      = "ok"
	outcomeFailed  = "failed"
	outcomeInvalid = "invalid"
	outcomeUnknown = "unknown_tool"
)

// Metrics records bridge executions.
type Metrics struct {
	executions *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// NewMetrics registers bridge collectors on registry. A nil registry disables metrics.
func NewMetrics(registry *prometheus.Registry) *Metrics {
	if registry == nil {
		return nil
	}

	m := &Metrics{
		executions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "felipe_bridge_executions_total",
				Help: "Total number of tool executions by tool and outcome",
			},
			[]string{"tool", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "felipe_bridge_execution_duration_seconds",
				Help:    "Time spent executing tools",
				Buckets: prometheus.ExponentialBuckets(0.01, 4, 8),
			},
			[]string{"tool"},
		),
	}

	registry.MustRegister(m.executions, m.duration)
	return m
}

func (m *Metrics) observe(tool, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.executions.WithLabelValues(tool, outcome).Inc()
	if outcome == outcomeOK || outcome == outcomeFailed {
		m.duration.WithLabelValues(tool).Observe(elapsed.Seconds())
	}
}
