package relay

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the relay client's prometheus collectors.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	requests     *prometheus.CounterVec
	submits      *prometheus.CounterVec
	polls        *prometheus.CounterVec
	waitOutcomes *prometheus.CounterVec
	waitDuration prometheus.Histogram
}

// NewMetrics creates the relay collectors and registers them with reg.
//
// Parameters:
// - reg: the registerer to use; prometheus.DefaultRegisterer when nil.
//
// Returns:
// - *Metrics: the collectors.
// - error: when a collector with the same name is already registered.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hubspoke",
			Subsystem: "relay",
			Name:      "requests_total",
			Help:      "Relay HTTP requests by action and result.",
		}, []string{"action", "result"}),
		submits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hubspoke",
			Subsystem: "relay",
			Name:      "submits_total",
			Help:      "Transaction submissions by result.",
		}, []string{"result"}),
		polls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hubspoke",
			Subsystem: "relay",
			Name:      "polls_total",
			Help:      "Packet status polls by result.",
		}, []string{"result"}),
		waitOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hubspoke",
			Subsystem: "relay",
			Name:      "wait_outcomes_total",
			Help:      "Terminal states reached while waiting for execution.",
		}, []string{"state"}),
		waitDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "hubspoke",
			Subsystem: "relay",
			Name:      "wait_duration_seconds",
			Help:      "Time from the first poll until a terminal state.",
			Buckets:   []float64{1, 2, 5, 10, 20, 30, 60, 120, 300},
		}),
	}

	for _, c := range []prometheus.Collector{m.requests, m.submits, m.polls, m.waitOutcomes, m.waitDuration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observeRequest(action Action, result string) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(string(action), result).Inc()
}

func (m *Metrics) observeSubmit(result string) {
	if m == nil {
		return
	}
	m.submits.WithLabelValues(result).Inc()
}

func (m *Metrics) observePoll(result string) {
	if m == nil {
		return
	}
	m.polls.WithLabelValues(result).Inc()
}

func (m *Metrics) observeWait(state string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.waitOutcomes.WithLabelValues(state).Inc()
	m.waitDuration.Observe(elapsed.Seconds())
}
