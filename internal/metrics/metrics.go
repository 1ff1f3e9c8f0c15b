// Package metrics exposes Prometheus counters for the curation pipeline.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RecordsFetched counts raw records pulled from sources.
	RecordsFetched = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "curator",
		Name:      "records_fetched_total",
		Help:      "Raw records fetched, by source.",
	}, []string{"source"})

	// RecordsRejected counts pipeline rejections by reason.
	RecordsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "curator",
		Name:      "records_rejected_total",
		Help:      "Records rejected by the curation pipeline, by reason.",
	}, []string{"reason"})

	// RecordsKept counts records that survived curation.
	RecordsKept = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "curator",
		Name:      "records_kept_total",
		Help:      "Records accepted into the curated feed.",
	})

	// ProviderCalls counts generation calls by provider and outcome.
	ProviderCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "curator",
		Name:      "provider_calls_total",
		Help:      "Provider generation calls, by provider and outcome.",
	}, []string{"provider", "outcome"})

	// CacheHits and CacheMisses track the generation result cache.
	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "curator",
		Name:      "cache_hits_total",
		Help:      "Generation cache hits.",
	})
	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "curator",
		Name:      "cache_misses_total",
		Help:      "Generation cache misses.",
	})
)

// CountRejections folds a reason histogram into the rejection counter.
func CountRejections(reasons map[string]int) {
	for reason, n := range reasons {
		RecordsRejected.WithLabelValues(reason).Add(float64(n))
	}
}

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
