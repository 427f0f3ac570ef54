package faceting

import (
	"sort"

	"github.com/kailas-cloud/facetdex/internal/domain/index"
	"github.com/kailas-cloud/facetdex/internal/domain/search/form"
)

// Source enumerates the facet field names configured in the search index.
type Source interface {
	FacetFieldnames() []string
}

// UnifiedSource reads facet names from the keys of the unified index lookup.
type UnifiedSource struct {
	idx *index.UnifiedIndex
}

// NewUnifiedSource creates a Source over the unified index view.
func NewUnifiedSource(idx *index.UnifiedIndex) *UnifiedSource {
	return &UnifiedSource{idx: idx}
}

// FacetFieldnames returns the facet names, sorted.
func (s *UnifiedSource) FacetFieldnames() []string {
	m := s.idx.FacetFieldnames()
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SiteSource reads facet names from the per-field site mapping, skipping
// fields without a facet.
type SiteSource struct {
	site *index.Site
}

// NewSiteSource creates a Source over the per-field site view.
func NewSiteSource(site *index.Site) *SiteSource {
	return &SiteSource{site: site}
}

// FacetFieldnames returns the non-nil facet names, sorted and unique.
func (s *SiteSource) FacetFieldnames() []string {
	seen := make(map[string]bool)
	var names []string
	for _, m := range s.site.FieldMapping() {
		if m.FacetFieldname == nil || seen[*m.FacetFieldname] {
			continue
		}
		seen[*m.FacetFieldname] = true
		names = append(names, *m.FacetFieldname)
	}
	sort.Strings(names)
	return names
}

// Choices converts a source's facet names into (name, name) choices.
// A nil source yields no choices.
func Choices(src Source) []form.Choice {
	if src == nil {
		return nil
	}
	return form.ChoicesFromValues(src.FacetFieldnames())
}
