package search

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/kailas-cloud/facetdex/internal/db"
	"github.com/kailas-cloud/facetdex/internal/domain"
	"github.com/kailas-cloud/facetdex/internal/domain/index"
	"github.com/kailas-cloud/facetdex/internal/domain/index/field"
	"github.com/kailas-cloud/facetdex/internal/domain/search/query"
	"github.com/kailas-cloud/facetdex/internal/domain/search/result"
)

// Defaults applied when Config leaves a limit unset.
const (
	DefaultLimit      = 20
	DefaultFacetLimit = 10
)

// store is the consumer interface for search operations (ISP).
type store interface {
	Search(ctx context.Context, q *db.SearchQuery) (*db.SearchResult, error)
	Aggregate(ctx context.Context, q *db.AggregateQuery) ([]db.FacetBucket, error)
	SupportsAggregate(ctx context.Context) bool
}

// Config tunes query compilation.
type Config struct {
	Keyspace index.Keyspace
	// DefaultLimit is used when the query set carries no page size.
	DefaultLimit int
	// FacetLimit caps the number of values returned per facet field.
	FacetLimit int
}

// Repo executes query sets against the shared FT index.
type Repo struct {
	store    store
	registry *index.Registry
	cfg      Config
}

// New creates a search repository.
func New(s store, reg *index.Registry, cfg Config) *Repo {
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = DefaultLimit
	}
	if cfg.FacetLimit <= 0 {
		cfg.FacetLimit = DefaultFacetLimit
	}
	return &Repo{store: s, registry: reg, cfg: cfg}
}

// SupportsFaceting proxies the aggregation capability check from the store.
func (r *Repo) SupportsFaceting(ctx context.Context) bool {
	return r.store.SupportsAggregate(ctx)
}

// Execute runs qs: one FT.SEARCH for the page, one FT.AGGREGATE per facet directive.
// An empty (None) query set returns an empty page without touching the backend.
func (r *Repo) Execute(ctx context.Context, qs query.SearchQuerySet) (result.Page, error) {
	if qs.IsNone() {
		return result.NewPage(0, nil, nil), nil
	}

	match, err := r.compile(qs)
	if err != nil {
		return result.Page{}, err
	}

	facetFields, err := r.facetAttributes(qs.FacetFields())
	if err != nil {
		return result.Page{}, err
	}
	if len(facetFields) > 0 && !r.store.SupportsAggregate(ctx) {
		return result.Page{}, domain.ErrFacetingNotSupported
	}

	limit := qs.Limit()
	if limit <= 0 {
		limit = r.cfg.DefaultLimit
	}

	sr, err := r.store.Search(ctx, &db.SearchQuery{
		IndexName:  r.cfg.Keyspace.IndexName(),
		Match:      match,
		Offset:     qs.Offset(),
		Limit:      limit,
		WithScores: len(match.Clauses) > 0,

		KeyPrefixes: r.keyPrefixes(qs.ModelNames()),
	})
	if err != nil {
		return result.Page{}, fmt.Errorf("search: %w", mapDBError(err))
	}

	facets := make([]result.Facet, 0, len(facetFields))
	for _, f := range facetFields {
		buckets, err := r.store.Aggregate(ctx, &db.AggregateQuery{
			IndexName: r.cfg.Keyspace.IndexName(),
			Match:     match,
			GroupBy:   f,
			Limit:     r.cfg.FacetLimit,
		})
		if err != nil {
			return result.Page{}, fmt.Errorf("facet %s: %w", f, mapDBError(err))
		}
		facets = append(facets, result.Facet{Field: f, Counts: toCounts(buckets)})
	}

	return result.NewPage(sr.Total, r.toHits(sr.Entries), facets), nil
}

// compile translates the query set into a db.Match: text clauses, a model
// restriction and one filter per narrow (narrows intersect).
func (r *Repo) compile(qs query.SearchQuerySet) (db.Match, error) {
	match := db.Match{Clauses: qs.Clauses()}

	if models := qs.ModelNames(); len(models) > 0 {
		for _, m := range models {
			if _, ok := r.registry.Index(m); !ok {
				return db.Match{}, fmt.Errorf("%w: %s", domain.ErrUnknownModel, m)
			}
		}
		match.Tags = append(match.Tags, db.TagFilter{Field: index.ModelField, Values: models})
	}

	for _, n := range qs.Narrows() {
		attr, ok := r.registry.Attribute(n.Field)
		if !ok || attr.Name == index.ModelField {
			return db.Match{}, fmt.Errorf("%w: unknown narrow field %q", domain.ErrInvalidRequest, n.Field)
		}
		switch attr.Type {
		case field.Numeric:
			v, err := strconv.ParseFloat(n.Value, 64)
			if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
				return db.Match{}, fmt.Errorf("%w: %s must be a finite number, got %q", domain.ErrInvalidRequest, n.Field, n.Value)
			}
			match.Ranges = append(match.Ranges, db.NumericRange{Field: attr.Name, Min: v, Max: v})
		case field.Tag:
			match.Tags = append(match.Tags, db.TagFilter{Field: attr.Name, Values: []string{n.Value}})
		default:
			return db.Match{}, fmt.Errorf("%w: text field %q cannot be narrowed", domain.ErrInvalidRequest, n.Field)
		}
	}

	return match, nil
}

// keyPrefixes returns the document key prefixes of models, or of every
// registered model when none are given.
func (r *Repo) keyPrefixes(models []string) []string {
	if len(models) == 0 {
		models = r.registry.Models()
	}
	prefixes := make([]string, len(models))
	for i, m := range models {
		prefixes[i] = r.cfg.Keyspace.ModelPrefix(m)
	}
	return prefixes
}

// facetAttributes validates facet directives against the schema and drops repeats.
func (r *Repo) facetAttributes(names []string) ([]string, error) {
	out := make([]string, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			continue
		}
		attr, ok := r.registry.Attribute(name)
		if !ok || !attr.Facet {
			return nil, fmt.Errorf("%w: %q is not a facet field", domain.ErrInvalidRequest, name)
		}
		seen[name] = true
		out = append(out, name)
	}
	return out, nil
}

func (r *Repo) toHits(entries []db.SearchEntry) []result.Hit {
	hits := make([]result.Hit, 0, len(entries))
	for _, e := range entries {
		model, id, ok := r.cfg.Keyspace.SplitKey(e.Key)
		if !ok {
			continue
		}
		fields := make(map[string]string, len(e.Fields))
		for k, v := range e.Fields {
			if k == index.ModelField {
				continue
			}
			fields[k] = v
		}
		hits = append(hits, result.NewHit(model, id, e.Score, fields))
	}
	return hits
}

func toCounts(buckets []db.FacetBucket) []result.FacetCount {
	counts := make([]result.FacetCount, len(buckets))
	for i, b := range buckets {
		counts[i] = result.FacetCount{Value: b.Value, Count: b.Count}
	}
	return counts
}

func mapDBError(err error) error {
	switch {
	case errors.Is(err, db.ErrIndexNotFound):
		return domain.ErrIndexNotFound
	case errors.Is(err, db.ErrAggregateNotSupported):
		return domain.ErrFacetingNotSupported
	default:
		return err
	}
}
