// Package metrics holds the Prometheus collectors of the service.
// Collectors are package-level; the serve command registers them once.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Namespace prefixes every metric name.
const Namespace = "facetdex"

func collectors() []prometheus.Collector {
	return []prometheus.Collector{
		httpRequestDuration,
		httpRequestsTotal,
		SearchQueriesTotal,
		SearchFacetsAppliedTotal,
		SearchErrorsTotal,
		FacetingEnabled,
	}
}

// Register registers HTTP and search collectors on reg. Collectors already
// present on reg are skipped, so repeated calls are harmless.
func Register(reg prometheus.Registerer) error {
	for _, c := range collectors() {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return err
		}
	}
	return nil
}
