// Package metrics provides Prometheus metrics export for the chat pipeline.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Exporter exports chat pipeline metrics in Prometheus format.
type Exporter struct {
	registry *prometheus.Registry

	turns          *prometheus.CounterVec
	classifierTier *prometheus.CounterVec
	tickets        *prometheus.CounterVec
	generative     *prometheus.CounterVec
	turnLatency    prometheus.Histogram
}

// NewExporter creates a new metrics exporter backed by its own registry.
func NewExporter() *Exporter {
	registry := prometheus.NewRegistry()

	e := &Exporter{
		registry: registry,
		turns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "chatdesk",
			Name:      "turns_total",
			Help:      "Total chat turns processed, labeled by resolved intent.",
		}, []string{"intent"}),
		classifierTier: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "chatdesk",
			Name:      "classifier_tier_total",
			Help:      "Classifications served, labeled by cascade tier.",
		}, []string{"tier"}),
		tickets: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "chatdesk",
			Name:      "tickets_created_total",
			Help:      "Support tickets created, labeled by creation reason.",
		}, []string{"reason"}),
		generative: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "chatdesk",
			Name:      "generative_fallback_total",
			Help:      "Generative assistant fallback attempts, labeled by outcome.",
		}, []string{"outcome"}),
		turnLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "chatdesk",
			Name:      "turn_duration_seconds",
			Help:      "Wall-clock time per chat turn.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
		}),
	}

	registry.MustRegister(e.turns, e.classifierTier, e.tickets, e.generative, e.turnLatency)
	return e
}

func (e *Exporter) ObserveTurn(intent string, seconds float64) {
	e.turns.WithLabelValues(intent).Inc()
	e.turnLatency.Observe(seconds)
}

func (e *Exporter) ObserveClassifierTier(tier string) {
	e.classifierTier.WithLabelValues(tier).Inc()
}

func (e *Exporter) ObserveTicket(reason string) {
	e.tickets.WithLabelValues(reason).Inc()
}

// ObserveGenerative records a generative fallback attempt.
// Outcome is one of "delegated", "empty", "error".
func (e *Exporter) ObserveGenerative(outcome string) {
	e.generative.WithLabelValues(outcome).Inc()
}

// Handler returns the HTTP handler serving the /metrics endpoint.
func (e *Exporter) Handler() http.Handler {
	return promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{})
}
