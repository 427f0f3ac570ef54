package search

import (
	"context"
	"testing"

	"github.com/kailas-cloud/facetdex/internal/db"
	"github.com/kailas-cloud/facetdex/internal/domain/index"
	"github.com/kailas-cloud/facetdex/internal/domain/index/field"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	searchFn            func(ctx context.Context, q *db.SearchQuery) (*db.SearchResult, error)
	aggregateFn         func(ctx context.Context, q *db.AggregateQuery) ([]db.FacetBucket, error)
	supportsAggregateFn func(ctx context.Context) bool

	searchCalls    int
	aggregateCalls []string
}

func (m *mockStore) Search(ctx context.Context, q *db.SearchQuery) (*db.SearchResult, error) {
	m.searchCalls++
	if m.searchFn != nil {
		return m.searchFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func (m *mockStore) Aggregate(ctx context.Context, q *db.AggregateQuery) ([]db.FacetBucket, error) {
	m.aggregateCalls = append(m.aggregateCalls, q.GroupBy)
	if m.aggregateFn != nil {
		return m.aggregateFn(ctx, q)
	}
	return nil, nil
}

func (m *mockStore) SupportsAggregate(ctx context.Context) bool {
	if m.supportsAggregateFn != nil {
		return m.supportsAggregateFn(ctx)
	}
	return true
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	repo := New(ms, testRegistry(t), Config{Keyspace: index.NewKeyspace("facetdex:")})
	return repo, ms
}

func testRegistry(t *testing.T) *index.Registry {
	t.Helper()
	mk := func(f field.Field, err error) field.Field {
		t.Helper()
		if err != nil {
			t.Fatalf("field: %v", err)
		}
		return f
	}
	product, err := index.NewSearchIndex("catalog.product", []field.Field{
		mk(field.New("title", field.Text)),
		mk(field.NewFaceted("color", field.Tag, "")),
		mk(field.NewFaceted("size", field.Tag, "")),
		mk(field.NewFaceted("price", field.Numeric, "")),
		mk(field.New("sku", field.Tag)),
	})
	if err != nil {
		t.Fatalf("NewSearchIndex: %v", err)
	}
	review, err := index.NewSearchIndex("catalog.review", []field.Field{
		mk(field.New("body", field.Text)),
	})
	if err != nil {
		t.Fatalf("NewSearchIndex: %v", err)
	}
	reg, err := index.NewRegistry(product, review)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	return reg
}
