// Package metrics counts assistant outcomes for prometheus.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/minthub/mintassist/internal/model"
)

// Outcome label values
const (
	OutcomeMatched  = "matched"
	OutcomeFallback = "fallback"
)

// Metrics owns a private registry so tests and batch runs never collide
// with the default one
type Metrics struct {
	registry    *prometheus.Registry
	responses   *prometheus.CounterVec
	keywordHits *prometheus.CounterVec
	confidence  prometheus.Histogram
	sourceLoads *prometheus.CounterVec
}

// New creates and registers the collectors
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		responses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mintassist_responses_total",
			Help: "Responses by outcome",
		}, []string{"outcome"}),
		keywordHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mintassist_keyword_hits_total",
			Help: "Keyword phrases found verbatim in answered messages",
		}, []string{"keyword"}),
		confidence: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "mintassist_confidence_percent",
			Help:    "Confidence of matched responses",
			Buckets: []float64{10, 25, 50, 75, 100},
		}),
		sourceLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mintassist_source_loads_total",
			Help: "Knowledge base and catalog loads by kind and result",
		}, []string{"kind", "result"}),
	}

	m.registry.MustRegister(m.responses, m.keywordHits, m.confidence, m.sourceLoads)
	return m
}

// Record counts one response
func (m *Metrics) Record(resp model.ChosenResponse) {
	if resp.Fallback {
		m.responses.WithLabelValues(OutcomeFallback).Inc()
		return
	}

	m.responses.WithLabelValues(OutcomeMatched).Inc()
	m.confidence.Observe(resp.Confidence)
	for _, kw := range resp.MatchedKeywords {
		m.keywordHits.WithLabelValues(kw).Inc()
	}
}

// SourceLoaded counts a knowledge base or catalog load.
// result is "ok", "fallback" or "error".
func (m *Metrics) SourceLoaded(kind, result string) {
	m.sourceLoads.WithLabelValues(kind, result).Inc()
}

// Registry exposes the registry for gathering
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes all metrics in the node_exporter textfile format
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
