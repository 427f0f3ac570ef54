package metrics

import "github.com/prometheus/client_golang/prometheus"

// Query kinds used as the "kind" label.
const (
	QueryKindAll   = "all"
	QueryKindQuery = "query"
	QueryKindNone  = "none"
)

// Search Prometheus metrics.
var (
	SearchQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "search_queries_total",
			Help:      "Executed searches by query kind",
		},
		[]string{"kind"},
	)

	SearchFacetsAppliedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "search_facets_applied_total",
			Help:      "Facet directives added to outgoing queries",
		},
		[]string{"field"},
	)

	SearchErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "search_errors_total",
			Help:      "Failed searches by error class",
		},
		[]string{"error_type"},
	)

	FacetingEnabled = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "faceting_enabled",
			Help:      "1 when the configured engine allows faceting",
		},
	)
)

// SetFacetingEnabled records the startup faceting decision.
func SetFacetingEnabled(enabled bool) {
	if enabled {
		FacetingEnabled.Set(1)
		return
	}
	FacetingEnabled.Set(0)
}
