package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for backend calls and console pages.
type Metrics struct {
	APIRequests        *prometheus.CounterVec
	APIRequestDuration *prometheus.HistogramVec
	APITransportErrors *prometheus.CounterVec
	PageLatency        *prometheus.HistogramVec
	SessionTransitions *prometheus.CounterVec
}

// New registers the collectors on reg. Tests pass a fresh prometheus.NewRegistry();
// binaries pass prometheus.DefaultRegisterer so /metrics exposes them.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		APIRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hrconsole_api_requests_total",
			Help: "Backend API requests by method, route and response status",
		}, []string{"method", "route", "status"}),
		APIRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hrconsole_api_request_duration_seconds",
			Help:    "Latency of backend API requests in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		APITransportErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hrconsole_api_transport_errors_total",
			Help: "Backend API requests that produced no response",
		}, []string{"method", "route"}),
		PageLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hrconsole_page_latency_seconds",
			Help:    "Latency of console pages in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		SessionTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hrconsole_session_transitions_total",
			Help: "Session state transitions by target state",
		}, []string{"state"}),
	}
}

// ObserveAPIRequest records one completed backend call. Status 0 means no
// response was received.
func (m *Metrics) ObserveAPIRequest(method, route string, status int, durationSeconds float64) {
	if m == nil {
		return
	}
	m.APIRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.APIRequestDuration.WithLabelValues(method, route).Observe(durationSeconds)
	if status == 0 {
		m.APITransportErrors.WithLabelValues(method, route).Inc()
	}
}

func (m *Metrics) ObservePageLatency(route string, durationSeconds float64) {
	if m == nil {
		return
	}
	m.PageLatency.WithLabelValues(route).Observe(durationSeconds)
}

func (m *Metrics) IncSessionTransition(state string) {
	if m == nil {
		return
	}
	m.SessionTransitions.WithLabelValues(state).Inc()
}
