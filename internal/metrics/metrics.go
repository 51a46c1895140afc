// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metrics exposes Prometheus collectors for the query aggregator
// and the HTTP server.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "catalog_engine"

var (
	fanoutsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fanouts_total",
			Help:      "Total number of query fan-outs issued to sources",
		},
	)

	fanoutDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fanout_duration_seconds",
			Help:      "Time from fan-out start until every source settled",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	sourceFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "source_failures_total",
			Help:      "Total number of degraded source legs",
		},
		[]string{"source"},
	)

	cacheHitsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Total number of queries answered from the query cache",
		},
	)

	staleDiscardsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stale_discards_total",
			Help:      "Total number of fan-out results dropped because a newer query was submitted",
		},
	)
)

func init() {
	prometheus.MustRegister(fanoutsTotal)
	prometheus.MustRegister(fanoutDuration)
	prometheus.MustRegister(sourceFailuresTotal)
	prometheus.MustRegister(cacheHitsTotal)
	prometheus.MustRegister(staleDiscardsTotal)
}

// ObserveFanout records a completed fan-out and its duration.
func ObserveFanout(d time.Duration) {
	fanoutsTotal.Inc()
	fanoutDuration.Observe(d.Seconds())
}

// SourceFailed records a degraded source leg.
func SourceFailed(source string) {
	sourceFailuresTotal.WithLabelValues(source).Inc()
}

// CacheHit records a query served from the cache.
func CacheHit() {
	cacheHitsTotal.Inc()
}

// StaleDiscarded records a dropped fan-out result.
func StaleDiscarded() {
	staleDiscardsTotal.Inc()
}
