// Package metrics exposes Prometheus counters for the check-in and alert
// pipelines.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles all EmoClass collectors on one registry.
type Metrics struct {
	registry *prometheus.Registry

	CheckinsSubmitted *prometheus.CounterVec
	CheckinsRejected  *prometheus.CounterVec
	AlertsDetected    *prometheus.CounterVec
	AlertsDispatched  prometheus.Counter
	DispatchFailures  prometheus.Counter
	HTTPRequests      *prometheus.CounterVec
}

// New creates the EmoClass metrics on a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,

		CheckinsSubmitted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "emoclass",
			Name:      "checkins_submitted_total",
			Help:      "Accepted check-ins by emotion.",
		}, []string{"emotion"}),

		CheckinsRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "emoclass",
			Name:      "checkins_rejected_total",
			Help:      "Rejected check-in submissions by reason.",
		}, []string{"reason"}),

		AlertsDetected: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "emoclass",
			Name:      "alerts_detected_total",
			Help:      "Detected repeated-emotion patterns by severity.",
		}, []string{"severity"}),

		AlertsDispatched: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "emoclass",
			Name:      "alerts_dispatched_total",
			Help:      "Alerts successfully delivered to the notification channel.",
		}),

		DispatchFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "emoclass",
			Name:      "alert_dispatch_failures_total",
			Help:      "Alerts detected but not delivered.",
		}),

		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "emoclass",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, path, and status.",
		}, []string{"method", "path", "status"}),
	}
}

// Handler returns the /metrics endpoint handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
