package command

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Dispatch outcomes.
const (
	outcomeCommitted = "committed"
	outcomePrevented = "prevented"
	outcomeRejected  = "rejected"
)

// Metrics collects command statistics as prometheus collectors.
// A nil *Metrics records nothing.
type Metrics struct {
	invocations *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	dispatches  *prometheus.CounterVec
	panics      *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		invocations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "quill",
				Subsystem: "command",
				Name:      "invocations_total",
				Help:      "Command body invocations by mode, command and result.",
			},
			[]string{"mode", "command", "result"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "quill",
				Subsystem: "command",
				Name:      "duration_seconds",
				Help:      "Duration of command body invocations.",
				Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 8),
			},
			[]string{"mode"},
		),
		dispatches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "quill",
				Subsystem: "command",
				Name:      "dispatches_total",
				Help:      "Transactions handed to the view, by mode and outcome.",
			},
			[]string{"mode", "outcome"},
		),
		panics: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "quill",
				Subsystem: "command",
				Name:      "panics_total",
				Help:      "Recovered command panics.",
			},
			[]string{"command"},
		),
	}

	if reg != nil {
		for _, c := range m.collectors() {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{m.invocations, m.duration, m.dispatches, m.panics}
}

func (m *Metrics) recordInvocation(mode Mode, name string, ok bool, d time.Duration) {
	if m == nil {
		return
	}
	result := "false"
	if ok {
		result = "true"
	}
	m.invocations.WithLabelValues(string(mode), name, result).Inc()
	m.duration.WithLabelValues(string(mode)).Observe(d.Seconds())
}

func (m *Metrics) recordDispatch(mode Mode, outcome string) {
	if m == nil {
		return
	}
	m.dispatches.WithLabelValues(string(mode), outcome).Inc()
}

func (m *Metrics) recordPanic(name string) {
	if m == nil {
		return
	}
	m.panics.WithLabelValues(name).Inc()
}
