// README: Prometheus metrics for the booking-support services.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "taxi", Name: "geo_cache_hits_total", Help: "Geo cache hits per category"},
		[]string{"category"},
	)
	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "taxi", Name: "geo_cache_misses_total", Help: "Geo cache misses per category"},
		[]string{"category"},
	)
	ProviderCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "taxi", Name: "geo_provider_calls_total", Help: "Calls forwarded to the geospatial provider"},
		[]string{"category"},
	)
	ProviderErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "taxi", Name: "geo_provider_errors_total", Help: "Provider call failures"},
		[]string{"category"},
	)
	QuotaExhausted = promauto.NewCounter(
		prometheus.CounterOpts{Namespace: "taxi", Name: "geo_quota_exhausted_total", Help: "Requests rejected because the daily provider quota was spent"},
	)

	TariffCalculations = promauto.NewCounter(
		prometheus.CounterOpts{Namespace: "taxi", Name: "tariff_calculations_total", Help: "Fare calculations performed"},
	)

	EmailsEnqueued = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "taxi", Name: "emails_enqueued_total", Help: "Email jobs accepted by the dispatch queue"},
		[]string{"priority"},
	)
	EmailsSent = promauto.NewCounter(
		prometheus.CounterOpts{Namespace: "taxi", Name: "emails_sent_total", Help: "Email jobs delivered"},
	)
	EmailsFailed = promauto.NewCounter(
		prometheus.CounterOpts{Namespace: "taxi", Name: "emails_failed_total", Help: "Email jobs dropped after exhausting retries"},
	)
	EmailQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{Namespace: "taxi", Name: "email_queue_depth", Help: "Jobs currently queued or awaiting retry"},
	)
)
