package donation

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts flow outcomes and times backend calls. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	outcomes *prometheus.CounterVec
	steps    *prometheus.HistogramVec
}

// NewMetrics registers the flow metrics on reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "donatehub",
			Subsystem: "flow",
			Name:      "outcomes_total",
			Help:      "Donation flows by terminal state.",
		}, []string{"state"}),
		steps: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "donatehub",
			Subsystem: "flow",
			Name:      "step_duration_seconds",
			Help:      "Duration of suspending flow steps.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"step"}),
	}
	reg.MustRegister(m.outcomes, m.steps)
	return m
}

func (m *Metrics) outcome(s State) {
	if m == nil {
		return
	}
	m.outcomes.WithLabelValues(string(s)).Inc()
}

func (m *Metrics) step(name string, start time.Time) {
	if m == nil {
		return
	}
	m.steps.WithLabelValues(name).Observe(time.Since(start).Seconds())
}
