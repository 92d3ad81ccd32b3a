// Package metrics provides Prometheus metrics for cardwatch.
// Scrape these at /metrics when running in serve mode.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Check pass metrics
	ChecksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cardwatch_checks_total",
			Help: "Total number of watchlist check passes run",
		},
	)

	EntriesCheckedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cardwatch_entries_checked_total",
			Help: "Watchlist entries evaluated, by outcome",
		},
		[]string{"outcome"}, // "deal", "no_deal", "skipped", "error"
	)

	DealsFoundTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cardwatch_deals_found_total",
			Help: "Total number of deal alerts produced",
		},
	)

	PricesRecordedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cardwatch_prices_recorded_total",
			Help: "Total number of price observations written to history",
		},
	)

	WatchlistSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cardwatch_watchlist_size",
			Help: "Number of entries on the watchlist at the last check",
		},
	)

	// Upstream metrics
	UpstreamErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cardwatch_upstream_errors_total",
			Help: "Upstream query failures by source",
		},
		[]string{"source"}, // "ebay", "ygoprodeck"
	)

	UpstreamLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cardwatch_upstream_latency_seconds",
			Help:    "Upstream query latency by source",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"source"},
	)

	CardLookupCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cardwatch_card_lookup_cache_hits_total",
			Help: "Card database lookups served from the LRU cache",
		},
	)

	// Alert delivery metrics
	WebhookDeliveriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cardwatch_webhook_deliveries_total",
			Help: "Webhook alert deliveries by outcome",
		},
		[]string{"outcome"}, // "sent", "failed", "skipped"
	)

	// Archive metrics
	SnapshotsRecordedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cardwatch_snapshots_recorded_total",
			Help: "Price snapshots written to the archive database",
		},
	)
)
