package quoter

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus instruments for the quoter.
type Metrics struct {
	searchesTotal     *prometheus.CounterVec
	searchDuration    *prometheus.HistogramVec
	candidatesSkipped prometheus.Counter
	poolsLoaded       prometheus.Gauge
}

// NewMetrics registers the quoter's instruments with the given registry.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	factory := promauto.With(registry)
	return &Metrics{
		searchesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clmm",
			Subsystem: "quoter",
			Name:      "searches_total",
			Help:      "Total number of best-route searches by trade type and status",
		}, []string{"trade_type", "status"}),
		searchDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "clmm",
			Subsystem: "quoter",
			Name:      "search_duration_seconds",
			Help:      "Best-route search duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"trade_type"}),
		candidatesSkipped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "clmm",
			Subsystem: "quoter",
			Name:      "candidates_skipped_total",
			Help:      "Total number of candidate pools skipped for insufficient liquidity",
		}),
		poolsLoaded: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "clmm",
			Subsystem: "quoter",
			Name:      "pools_loaded",
			Help:      "Number of pools in the currently loaded universe",
		}),
	}
}
