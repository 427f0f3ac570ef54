package index

import (
	"context"
	"testing"

	"github.com/kailas-cloud/facetdex/internal/db"
	domindex "github.com/kailas-cloud/facetdex/internal/domain/index"
	"github.com/kailas-cloud/facetdex/internal/domain/index/field"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	createIndexFn func(ctx context.Context, def *db.IndexDefinition) error
	dropIndexFn   func(ctx context.Context, name string) error
	indexExistsFn func(ctx context.Context, name string) (bool, error)

	created []*db.IndexDefinition
}

func (m *mockStore) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	m.created = append(m.created, def)
	if m.createIndexFn != nil {
		return m.createIndexFn(ctx, def)
	}
	return nil
}

func (m *mockStore) DropIndex(ctx context.Context, name string) error {
	if m.dropIndexFn != nil {
		return m.dropIndexFn(ctx, name)
	}
	return nil
}

func (m *mockStore) IndexExists(ctx context.Context, name string) (bool, error) {
	if m.indexExistsFn != nil {
		return m.indexExistsFn(ctx, name)
	}
	return false, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms, testRegistry(t), domindex.NewKeyspace("facetdex:")), ms
}

func testRegistry(t *testing.T) *domindex.Registry {
	t.Helper()
	mk := func(f field.Field, err error) field.Field {
		t.Helper()
		if err != nil {
			t.Fatalf("field: %v", err)
		}
		return f
	}
	product, err := domindex.NewSearchIndex("catalog.product", []field.Field{
		mk(field.New("title", field.Text)),
		mk(field.NewFaceted("color", field.Tag, "")),
		mk(field.NewFaceted("price", field.Numeric, "")),
	})
	if err != nil {
		t.Fatalf("NewSearchIndex: %v", err)
	}
	review, err := domindex.NewSearchIndex("catalog.review", []field.Field{
		mk(field.New("rating", field.Numeric)),
		mk(field.New("lang", field.Tag)),
	})
	if err != nil {
		t.Fatalf("NewSearchIndex: %v", err)
	}
	reg, err := domindex.NewRegistry(product, review)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	return reg
}
