// Package metrics exposes the Prometheus collectors shared by the ads services.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/diamondjirapat/mango-reach-management-mockup/internal/scoring"
)

const namespace = "ads_reach"

type Metrics struct {
	adsCreated    *prometheus.CounterVec
	scores        *prometheus.HistogramVec
	storageErrors prometheus.Counter
	archived      *prometheus.CounterVec
}

// New builds the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		adsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ads_created_total",
			Help:      "Ad entries created, by whether the score was computed or supplied.",
		}, []string{"score_origin"}),
		scores: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "score",
			Help:      "Stored efficiency scores by source channel.",
			Buckets:   prometheus.LinearBuckets(scoring.MinScore, 1, int(scoring.MaxScore)+1),
		}, []string{"source"}),
		storageErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "storage_errors_total",
			Help:      "Failed storage operations.",
		}),
		archived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "archived_events_total",
			Help:      "Ad created events handled by the archiver, by outcome.",
		}, []string{"outcome"}),
	}

	reg.MustRegister(m.adsCreated, m.scores, m.storageErrors, m.archived)
	return m
}

func (m *Metrics) AdCreated(source string, score float64, computed bool) {
	if m == nil {
		return
	}
	origin := "supplied"
	if computed {
		origin = "computed"
	}
	m.adsCreated.WithLabelValues(origin).Inc()
	m.scores.WithLabelValues(sourceLabel(source)).Observe(score)
}

func (m *Metrics) StorageError() {
	if m == nil {
		return
	}
	m.storageErrors.Inc()
}

// Archived records an archiver outcome: stored, duplicate, or failed.
func (m *Metrics) Archived(outcome string) {
	if m == nil {
		return
	}
	m.archived.WithLabelValues(outcome).Inc()
}

// sourceLabel keeps label cardinality bounded: sources outside the weight
// table share one label.
func sourceLabel(source string) string {
	if scoring.IsKnown(source) {
		return source
	}
	return "other"
}
