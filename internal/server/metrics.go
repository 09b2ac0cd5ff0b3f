package server

import (
	"net/http"

	"github.com/lox/rockpaperscissors/internal/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics tracks server activity on a private registry
type Metrics struct {
	registry *prometheus.Registry
	rounds   *prometheus.CounterVec
	messages *prometheus.CounterVec
	sessions prometheus.Gauge
}

// NewMetrics registers the server collectors on a fresh registry
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		rounds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rps",
			Name:      "rounds_total",
			Help:      "Resolved rounds by verdict.",
		}, []string{"verdict"}),
		messages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rps",
			Name:      "messages_received_total",
			Help:      "WebSocket messages received by type.",
		}, []string{"type"}),
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "rps",
			Name:      "active_sessions",
			Help:      "Connected browser sessions.",
		}),
	}

	m.registry.MustRegister(
		m.rounds,
		m.messages,
		m.sessions,
		collectors.NewGoCollector(),
	)
	return m
}

// Handler exposes the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) observeRound(r session.Round) {
	m.rounds.WithLabelValues(r.Verdict.String()).Inc()
}

func (m *Metrics) observeMessage(t MessageType) {
	m.messages.WithLabelValues(t.String()).Inc()
}

func (m *Metrics) sessionOpened() { m.sessions.Inc() }

func (m *Metrics) sessionClosed() { m.sessions.Dec() }
