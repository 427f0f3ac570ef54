package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/facetdex/internal/domain/index"
	"github.com/kailas-cloud/facetdex/internal/domain/index/field"
	"github.com/kailas-cloud/facetdex/internal/domain/search/query"
	"github.com/kailas-cloud/facetdex/internal/domain/search/result"
	"github.com/kailas-cloud/facetdex/internal/usecase/faceting"
)

type mockRepo struct {
	page     result.Page
	err      error
	executed []query.SearchQuerySet
}

func (m *mockRepo) Execute(_ context.Context, qs query.SearchQuerySet) (result.Page, error) {
	m.executed = append(m.executed, qs)
	return m.page, m.err
}

func testRegistry(t *testing.T) *index.Registry {
	t.Helper()
	title, err := field.New("title", field.Text)
	require.NoError(t, err)
	color, err := field.NewFaceted("color", field.Tag, "")
	require.NoError(t, err)
	size, err := field.NewFaceted("size", field.Tag, "")
	require.NoError(t, err)
	body, err := field.New("body", field.Text)
	require.NoError(t, err)

	product, err := index.NewSearchIndex("catalog.product", []field.Field{title, color, size})
	require.NoError(t, err)
	review, err := index.NewSearchIndex("catalog.review", []field.Field{body})
	require.NoError(t, err)
	reg, err := index.NewRegistry(product, review)
	require.NoError(t, err)
	return reg
}

// formConfig returns a FormConfig whose faceting decision comes from settings.
func formConfig(t *testing.T, settings faceting.Settings) FormConfig {
	t.Helper()
	reg := testRegistry(t)
	det, err := faceting.NewDetector().Detect(settings, reg)
	require.NoError(t, err)
	return FormConfig{Models: reg.Models(), Faceting: det}
}

func facetingOn(t *testing.T) FormConfig {
	t.Helper()
	return formConfig(t, faceting.Settings{Engine: "solr"})
}

func facetingOff(t *testing.T) FormConfig {
	t.Helper()
	return formConfig(t, faceting.Settings{Engine: "whoosh"})
}
