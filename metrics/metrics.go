// Package metrics exposes prometheus counters for the fusion pipeline:
// upstream fetch outcomes, cache behavior, and fused output size.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	fetchCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "flightview",
			Name:      "adapter_fetches_total",
			Help:      "Adapter fetches by source and outcome (live, cache, fallback).",
		},
		[]string{"source", "outcome"},
	)

	cacheCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "flightview",
			Name:      "service_cache_requests_total",
			Help:      "ServiceCache requests by outcome (hit, refresh, coalesced, stale, empty).",
		},
		[]string{"outcome"},
	)

	fusionCycles = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "flightview",
			Name:      "fusion_cycles_total",
			Help:      "Completed fusion refresh cycles.",
		},
	)

	fusedFlights = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "flightview",
			Name:      "fused_flights",
			Help:      "Fused flight views emitted by the most recent cycle.",
		},
	)
)

func init() {
	prometheus.MustRegister(fetchCounter, cacheCounter, fusionCycles, fusedFlights)
}

func RecordFetch(source, outcome string) {
	fetchCounter.WithLabelValues(source, outcome).Inc()
}

func RecordCacheRequest(outcome string) {
	cacheCounter.WithLabelValues(outcome).Inc()
}

func RecordFusionCycle(numViews int) {
	fusionCycles.Inc()
	fusedFlights.Set(float64(numViews))
}

// Handler serves the registry for scraping; mounted at /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
