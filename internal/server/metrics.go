package server

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "promodeck"

// Metrics holds the collectors exposed on /metrics. Each Server owns its
// own registry so several servers can run in one process.
type Metrics struct {
	registry *prometheus.Registry

	unlockRequests *prometheus.CounterVec
	gateOutcomes   *prometheus.CounterVec
	activeSessions prometheus.Gauge
	httpRequests   *prometheus.CounterVec
}

// NewMetrics creates and registers the server collectors
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		unlockRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "unlock_requests_total",
			Help:      "Unlock requests received over WebSocket sessions, by result.",
		}, []string{"result"}),

		gateOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "gate_outcomes_total",
			Help:      "Completed checking runs, by disclosure gate outcome.",
		}, []string{"outcome"}),

		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "sessions_active",
			Help:      "Open WebSocket sessions.",
		}),

		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests served, by route and status code.",
		}, []string{"route", "status"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.unlockRequests,
		m.gateOutcomes,
		m.activeSessions,
		m.httpRequests,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) unlockRequest(accepted bool) {
	result := "ignored"
	if accepted {
		result = "accepted"
	}
	m.unlockRequests.WithLabelValues(result).Inc()
}

func (m *Metrics) gateOutcome(outcome string) {
	m.gateOutcomes.WithLabelValues(outcome).Inc()
}

func (m *Metrics) httpRequest(route string, status int) {
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
}
