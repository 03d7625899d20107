// Package metrics exposes Prometheus instrumentation for choices, level-ups
// and narrative generation. All methods are safe on a nil *Metrics so
// components can be built without instrumentation.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "questforge"

// Metrics holds the collectors registered on a private registry
type Metrics struct {
	registry *prometheus.Registry

	choicesTotal       *prometheus.CounterVec
	levelUpsTotal      prometheus.Counter
	sessionsCreated    *prometheus.CounterVec
	generationAttempts *prometheus.CounterVec
	generationDuration *prometheus.HistogramVec
	activeWatchers     prometheus.Gauge
}

// New registers every collector on a fresh registry
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		choicesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "choices_total",
			Help:      "Player choices submitted, partitioned by outcome.",
		}, []string{"outcome"}),
		levelUpsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "level_ups_total",
			Help:      "Levels gained across all sessions.",
		}),
		sessionsCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_created_total",
			Help:      "Characters created, partitioned by class.",
		}, []string{"class"}),
		generationAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generation_attempts_total",
			Help:      "Calls to the narrative provider, partitioned by model and status.",
		}, []string{"model", "status"}),
		generationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "generation_duration_seconds",
			Help:      "Duration of narrative provider streams.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"model"}),
		activeWatchers: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "session_watchers",
			Help:      "Open WatchSession streams.",
		}),
	}
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ChoiceResolved counts a choice by outcome ("ok", "rejected", "failed")
func (m *Metrics) ChoiceResolved(outcome string) {
	if m == nil {
		return
	}
	m.choicesTotal.WithLabelValues(outcome).Inc()
}

// LevelsGained counts levels gained by a single choice
func (m *Metrics) LevelsGained(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.levelUpsTotal.Add(float64(n))
}

// SessionCreated counts a new character
func (m *Metrics) SessionCreated(class string) {
	if m == nil {
		return
	}
	m.sessionsCreated.WithLabelValues(class).Inc()
}

// GenerationAttempt records one provider attempt
func (m *Metrics) GenerationAttempt(model, status string, took time.Duration) {
	if m == nil {
		return
	}
	m.generationAttempts.WithLabelValues(model, status).Inc()
	m.generationDuration.WithLabelValues(model).Observe(took.Seconds())
}

// WatcherOpened tracks an open session watch stream
func (m *Metrics) WatcherOpened() {
	if m == nil {
		return
	}
	m.activeWatchers.Inc()
}

// WatcherClosed tracks a closed session watch stream
func (m *Metrics) WatcherClosed() {
	if m == nil {
		return
	}
	m.activeWatchers.Dec()
}
