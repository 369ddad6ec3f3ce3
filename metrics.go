package hbridge

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels what the adapter did with a request.
type Outcome string

const (
	// OutcomeServed means a handler (or the not-found handler) produced the response.
	OutcomeServed Outcome = "served"
	// OutcomeNotFound means the adapter answered an unmatched request with a 404.
	OutcomeNotFound Outcome = "not_found"
	// OutcomeDelegated means the request was handed back to the host.
	OutcomeDelegated Outcome = "delegated"
)

// Metrics are the prometheus collectors of an adapter. A nil *Metrics records nothing.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	inflight prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hbridge",
			Name:      "requests_total",
			Help:      "Requests seen by the bridge, by outcome and response status.",
		}, []string{"outcome", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "hbridge",
			Name:      "request_duration_seconds",
			Help:      "Time spent serving bridged requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),
		inflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "hbridge",
			Name:      "requests_in_flight",
			Help:      "Bridged requests currently being served.",
		}),
	}

	for _, c := range []prometheus.Collector{m.requests, m.duration, m.inflight} {
		if err := reg.Register(c); err != nil {
			return nil, errors.Wrap(err, "failed to register collector")
		}
	}

	return m, nil
}

func (m *Metrics) begin() func(Outcome, int) {
	if m == nil {
		return func(Outcome, int) {}
	}

	start := time.Now()
	m.inflight.Inc()

	return func(o Outcome, status int) {
		m.inflight.Dec()

		code := "none"
		if status > 0 {
			code = statusLabel(status)
		}

		m.requests.WithLabelValues(string(o), code).Inc()

		if o != OutcomeDelegated {
			m.duration.WithLabelValues(string(o)).Observe(time.Since(start).Seconds())
		}
	}
}

func statusLabel(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	case status >= 200:
		return "2xx"
	default:
		return "1xx"
	}
}
