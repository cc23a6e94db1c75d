package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for the API client.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	// Request pipeline metrics
	Requests        *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	TransportErrors *prometheus.CounterVec
	SessionExpired  prometheus.Counter

	// Profile session metrics
	ProfileFetches *prometheus.CounterVec

	// Error metrics (by error code from structured errors)
	Errors *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all metrics registered
func NewMetrics(registry prometheus.Registerer) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		Requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rcup_api_requests_total",
				Help: "Total number of API requests by method and status class",
			},
			[]string{"method", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "rcup_api_request_duration_seconds",
				Help:    "API request duration in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0},
			},
			[]string{"method"},
		),
		TransportErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rcup_api_transport_errors_total",
				Help: "Requests that received no response",
			},
			[]string{"method"},
		),
		SessionExpired: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "rcup_session_expired_total",
				Help: "Times the server rejected the stored credential and the session was cleared",
			},
		),
		ProfileFetches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rcup_profile_fetches_total",
				Help: "Profile fetches by result (ok, error, skipped)",
			},
			[]string{"result"},
		),
		Errors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rcup_errors_total",
				Help: "Total number of errors by error code",
			},
			[]string{"error_code", "component"},
		),
	}
}

// StatusClass buckets an HTTP status code ("2xx", "4xx", ...).
func StatusClass(code int) string {
	if code < 100 || code > 599 {
		return "unknown"
	}
	return strconv.Itoa(code/100) + "xx"
}

// RecordRequest records a request that received a response.
func (m *Metrics) RecordRequest(method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(method, StatusClass(status)).Inc()
	m.RequestDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}

// RecordTransportError records a request that got no response.
func (m *Metrics) RecordTransportError(method string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.TransportErrors.WithLabelValues(method).Inc()
	m.RequestDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}

// RecordSessionExpired records a server-side session rejection.
func (m *Metrics) RecordSessionExpired() {
	if m == nil {
		return
	}
	m.SessionExpired.Inc()
}

// RecordProfileFetch records a profile fetch outcome.
func (m *Metrics) RecordProfileFetch(result string) {
	if m == nil {
		return
	}
	m.ProfileFetches.WithLabelValues(result).Inc()
}

// RecordError records a coded error.
func (m *Metrics) RecordError(code, component string) {
	if m == nil || code == "" {
		return
	}
	m.Errors.WithLabelValues(code, component).Inc()
}
