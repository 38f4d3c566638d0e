package authgate

import (
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome label used for successful authorizations.
const OutcomeAuthorized = "authorized"

// Metrics receives authorization and key set fetch measurements.
type Metrics interface {
	ObserveAuthorization(permission, outcome string, status int, duration time.Duration)
	ObserveKeySetFetch(err error)
}

// NoopMetrics is a default metrics implementation that does nothing.
type NoopMetrics struct{}

func (NoopMetrics) ObserveAuthorization(string, string, int, time.Duration) {}
func (NoopMetrics) ObserveKeySetFetch(error)                                {}

// PrometheusMetrics implements Metrics using Prometheus collectors.
type PrometheusMetrics struct {
	authorizations *prometheus.CounterVec
	latency        *prometheus.HistogramVec
	fetches        *prometheus.CounterVec
}

// NewPrometheusMetrics creates the collectors and registers them with reg.
func NewPrometheusMetrics(reg prometheus.Registerer) (*PrometheusMetrics, error) {
	m := &PrometheusMetrics{
		authorizations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "authgate",
			Name:      "authorizations_total",
			Help:      "Authorization attempts by required permission, outcome code and HTTP status.",
		}, []string{"permission", "outcome", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "authgate",
			Name:      "authorization_duration_seconds",
			Help:      "Time spent authorizing a request, key set fetches included.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "authgate",
			Name:      "jwks_fetches_total",
			Help:      "Key set fetches by result.",
		}, []string{"result"}),
	}

	for _, c := range []prometheus.Collector{m.authorizations, m.latency, m.fetches} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("registering authgate metrics: %w", err)
		}
	}

	return m, nil
}

// ObserveAuthorization counts one attempt and records its duration.
func (m *PrometheusMetrics) ObserveAuthorization(permission, outcome string, status int, duration time.Duration) {
	m.authorizations.WithLabelValues(permission, outcome, strconv.Itoa(status)).Inc()
	m.latency.WithLabelValues(outcome).Observe(duration.Seconds())
}

// ObserveKeySetFetch counts one key set fetch.
func (m *PrometheusMetrics) ObserveKeySetFetch(err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	m.fetches.WithLabelValues(result).Inc()
}
