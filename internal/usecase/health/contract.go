package health

import "context"

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// IndexChecker reports whether the search index has been created.
type IndexChecker interface {
	Exists(ctx context.Context) (bool, error)
}

// AggregateProber reports whether the backend can compute facet counts.
type AggregateProber interface {
	SupportsAggregate(ctx context.Context) bool
}
