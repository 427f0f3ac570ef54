package index

import (
	"fmt"

	"github.com/kailas-cloud/facetdex/internal/db"
	domindex "github.com/kailas-cloud/facetdex/internal/domain/index"
	"github.com/kailas-cloud/facetdex/internal/domain/index/field"
)

// buildIndex creates the shared IndexDefinition for every registered model.
// Facet shadows re-index their source field under the facet alias so
// FT.AGGREGATE can group on it.
func buildIndex(reg *domindex.Registry, ks domindex.Keyspace) (*db.IndexDefinition, error) {
	b := db.NewIndex(ks.IndexName())

	for _, model := range reg.Models() {
		b.Prefix(ks.ModelPrefix(model))
	}

	for _, attr := range reg.Schema() {
		switch {
		case attr.Facet && attr.Type == field.Numeric:
			b.FacetNumeric(attr.Source, attr.Name)
		case attr.Facet:
			b.FacetTag(attr.Source, attr.Name)
		case attr.Type == field.Tag:
			b.Tag(attr.Name)
		case attr.Type == field.Numeric:
			b.Numeric(attr.Name)
		case attr.Type == field.Text:
			b.Text(attr.Name)
		default:
			return nil, fmt.Errorf("unknown field type: %s", attr.Type)
		}
	}

	return b.Build()
}
