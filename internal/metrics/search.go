package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "propsim",
			Name:      "search_requests_total",
			Help:      "Total number of similar-listing searches",
		},
		[]string{"mode", "status"},
	)

	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "propsim",
			Name:      "search_duration_seconds",
			Help:      "Similar-listing search duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"mode"},
	)

	SearchResultsReturned = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "propsim",
			Name:      "search_results_returned",
			Help:      "Result count per search after fusion and filtering",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50, 100},
		},
		[]string{"mode"},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Prometheus search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchRequestsTotal)
	prometheus.MustRegister(SearchDuration)
	prometheus.MustRegister(SearchResultsReturned)
	searchMetricsRegistered = true
}
