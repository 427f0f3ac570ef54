package search

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/kailas-cloud/facetdex/internal/db"
	"github.com/kailas-cloud/facetdex/internal/domain"
	"github.com/kailas-cloud/facetdex/internal/domain/index"
	"github.com/kailas-cloud/facetdex/internal/domain/search/query"
)

func TestExecute_None(t *testing.T) {
	repo, ms := newTestRepo(t)

	page, err := repo.Execute(context.Background(), query.New().None().Facet("color_exact"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Total() != 0 || len(page.Hits()) != 0 {
		t.Errorf("expected empty page, got %+v", page)
	}
	if ms.searchCalls != 0 || len(ms.aggregateCalls) != 0 {
		t.Errorf("backend must not be called, got %d searches %v aggregations", ms.searchCalls, ms.aggregateCalls)
	}
}

func TestExecute_AllMatchesEverything(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.searchFn = func(_ context.Context, q *db.SearchQuery) (*db.SearchResult, error) {
		if q.IndexName != "facetdex:idx" {
			t.Errorf("unexpected index: %s", q.IndexName)
		}
		if !q.Match.IsEmpty() {
			t.Errorf("expected empty match, got %q", q.Match.String())
		}
		if q.WithScores {
			t.Error("scores requested without text clauses")
		}
		if q.Limit != DefaultLimit || q.Offset != 0 {
			t.Errorf("unexpected paging: offset=%d limit=%d", q.Offset, q.Limit)
		}
		return &db.SearchResult{
			Total: 2,
			Entries: []db.SearchEntry{
				{Key: "facetdex:catalog.product:1", Fields: map[string]string{"__model": "catalog.product", "title": "Red shoes"}},
				{Key: "facetdex:catalog.review:7", Fields: map[string]string{"body": "great"}},
			},
		}, nil
	}

	page, err := repo.Execute(context.Background(), query.New().All())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Total() != 2 {
		t.Fatalf("expected total 2, got %d", page.Total())
	}
	hits := page.Hits()
	if hits[0].Model() != "catalog.product" || hits[0].ID() != "1" {
		t.Errorf("unexpected first hit: %s/%s", hits[0].Model(), hits[0].ID())
	}
	if _, ok := hits[0].Fields()["__model"]; ok {
		t.Error("model tag must not leak into hit fields")
	}
	if hits[1].Model() != "catalog.review" || hits[1].ID() != "7" {
		t.Errorf("unexpected second hit: %s/%s", hits[1].Model(), hits[1].ID())
	}
}

func TestExecute_CompilesQuery(t *testing.T) {
	repo, ms := newTestRepo(t)

	qs := query.New().
		AutoQuery(`"red shoes" -boots`).
		Models("catalog.product").
		Narrow("size_exact", "xl").
		Narrow("price_exact", "49.9").
		Page(20, 10)

	ms.searchFn = func(_ context.Context, q *db.SearchQuery) (*db.SearchResult, error) {
		want := `"red shoes" -boots @__model:{catalog\.product} @size_exact:{xl} @price_exact:[49.9 49.9]`
		if got := q.Match.String(); got != want {
			t.Errorf("match = %q, want %q", got, want)
		}
		if !q.WithScores {
			t.Error("expected scores for text query")
		}
		if q.Offset != 20 || q.Limit != 10 {
			t.Errorf("unexpected paging: offset=%d limit=%d", q.Offset, q.Limit)
		}
		return &db.SearchResult{}, nil
	}

	if _, err := repo.Execute(context.Background(), qs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestExecute_FacetsInOrder(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.aggregateFn = func(_ context.Context, q *db.AggregateQuery) ([]db.FacetBucket, error) {
		if q.Limit != DefaultFacetLimit {
			t.Errorf("unexpected facet limit: %d", q.Limit)
		}
		if q.Match.String() != "shoes" {
			t.Errorf("facet match = %q, want the search match", q.Match.String())
		}
		if q.GroupBy == "size_exact" {
			return []db.FacetBucket{{Value: "xl", Count: 3}, {Value: "m", Count: 1}}, nil
		}
		return []db.FacetBucket{{Value: "red", Count: 4}}, nil
	}

	qs := query.New().AutoQuery("shoes").Facet("size_exact").Facet("color_exact").Facet("size_exact")
	page, err := repo.Execute(context.Background(), qs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if want := []string{"size_exact", "color_exact"}; !reflect.DeepEqual(ms.aggregateCalls, want) {
		t.Errorf("aggregations = %v, want %v", ms.aggregateCalls, want)
	}
	facets := page.Facets()
	if len(facets) != 2 || facets[0].Field != "size_exact" || facets[1].Field != "color_exact" {
		t.Fatalf("unexpected facets: %+v", facets)
	}
	if facets[0].Counts[0].Value != "xl" || facets[0].Counts[0].Count != 3 {
		t.Errorf("unexpected size counts: %+v", facets[0].Counts)
	}
}

func TestExecute_FacetingNotSupported(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.supportsAggregateFn = func(context.Context) bool { return false }

	_, err := repo.Execute(context.Background(), query.New().Facet("color_exact"))
	if !errors.Is(err, domain.ErrFacetingNotSupported) {
		t.Errorf("expected ErrFacetingNotSupported, got %v", err)
	}
	if ms.searchCalls != 0 {
		t.Error("search must not run when faceting is unavailable")
	}
}

func TestExecute_NoFacetsOnUnsupportedBackend(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.supportsAggregateFn = func(context.Context) bool { return false }

	if _, err := repo.Execute(context.Background(), query.New()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ms.searchCalls != 1 {
		t.Errorf("expected 1 search, got %d", ms.searchCalls)
	}
}

func TestExecute_InvalidInput(t *testing.T) {
	tests := []struct {
		name string
		qs   query.SearchQuerySet
		want error
	}{
		{"unknown model", query.New().Models("blog.post"), domain.ErrUnknownModel},
		{"unknown narrow field", query.New().Narrow("weight", "1"), domain.ErrInvalidRequest},
		{"model tag narrow", query.New().Narrow("__model", "catalog.product"), domain.ErrInvalidRequest},
		{"text narrow", query.New().Narrow("title", "shoes"), domain.ErrInvalidRequest},
		{"non-numeric value", query.New().Narrow("price_exact", "cheap"), domain.ErrInvalidRequest},
		{"NaN value", query.New().Narrow("price_exact", "NaN"), domain.ErrInvalidRequest},
		{"infinite value", query.New().Narrow("price_exact", "Inf"), domain.ErrInvalidRequest},
		{"negative infinite value", query.New().Narrow("price_exact", "-infinity"), domain.ErrInvalidRequest},
		{"non-facet directive", query.New().Facet("sku"), domain.ErrInvalidRequest},
		{"unknown facet directive", query.New().Facet("weight_exact"), domain.ErrInvalidRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, ms := newTestRepo(t)
			_, err := repo.Execute(context.Background(), tt.qs)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
			if ms.searchCalls != 0 {
				t.Error("backend must not be called for invalid input")
			}
		})
	}
}

func TestExecute_PlainTagNarrow(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.searchFn = func(_ context.Context, q *db.SearchQuery) (*db.SearchResult, error) {
		if got := q.Match.String(); got != `@sku:{A\-1}` {
			t.Errorf("match = %q", got)
		}
		return &db.SearchResult{}, nil
	}
	if _, err := repo.Execute(context.Background(), query.New().Narrow("sku", "A-1")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestExecute_IndexNotFound(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.searchFn = func(context.Context, *db.SearchQuery) (*db.SearchResult, error) {
		return nil, db.ErrIndexNotFound
	}

	_, err := repo.Execute(context.Background(), query.New())
	if !errors.Is(err, domain.ErrIndexNotFound) {
		t.Errorf("expected ErrIndexNotFound, got %v", err)
	}
}

func TestExecute_AggregateError(t *testing.T) {
	repo, ms := newTestRepo(t)
	boom := &db.Error{Op: db.OpAggregate, Err: context.DeadlineExceeded}
	ms.aggregateFn = func(context.Context, *db.AggregateQuery) ([]db.FacetBucket, error) {
		return nil, boom
	}

	_, err := repo.Execute(context.Background(), query.New().Facet("color_exact"))
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected wrapped backend error, got %v", err)
	}
}

func TestExecute_SkipsForeignKeys(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.searchFn = func(context.Context, *db.SearchQuery) (*db.SearchResult, error) {
		return &db.SearchResult{Total: 1, Entries: []db.SearchEntry{{Key: "other:thing"}}}, nil
	}

	page, err := repo.Execute(context.Background(), query.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.Hits()) != 0 {
		t.Errorf("expected foreign keys to be skipped, got %d hits", len(page.Hits()))
	}
}

func TestSupportsFaceting(t *testing.T) {
	repo, ms := newTestRepo(t)
	if !repo.SupportsFaceting(context.Background()) {
		t.Error("expected faceting support")
	}
	ms.supportsAggregateFn = func(context.Context) bool { return false }
	if repo.SupportsFaceting(context.Background()) {
		t.Error("expected no faceting support")
	}
}

func TestExecute_KeyPrefixes(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		qs     query.SearchQuerySet
		want   []string
	}{
		{
			name:   "all models",
			prefix: "facetdex:",
			qs:     query.New().All(),
			want:   []string{"facetdex:catalog.product:", "facetdex:catalog.review:"},
		},
		{
			name:   "prefix without separator",
			prefix: "shop",
			qs:     query.New().All(),
			want:   []string{"shopcatalog.product:", "shopcatalog.review:"},
		},
		{
			name:   "empty prefix",
			prefix: "",
			qs:     query.New().All(),
			want:   []string{"catalog.product:", "catalog.review:"},
		},
		{
			name:   "restricted to one model",
			prefix: "shop",
			qs:     query.New().All().Models("catalog.review"),
			want:   []string{"shopcatalog.review:"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			ms := &mockStore{searchFn: func(_ context.Context, q *db.SearchQuery) (*db.SearchResult, error) {
				got = q.KeyPrefixes
				return &db.SearchResult{}, nil
			}}
			repo := New(ms, testRegistry(t), Config{Keyspace: index.NewKeyspace(tt.prefix)})

			if _, err := repo.Execute(context.Background(), tt.qs); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("KeyPrefixes = %v, want %v", got, tt.want)
			}
		})
	}
}
