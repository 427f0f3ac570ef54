package index

import "github.com/kailas-cloud/facetdex/internal/domain/index/field"

// UnifiedIndex is the connection-level view of the registry: one lookup
// keyed by facet field name, covering every model.
type UnifiedIndex struct {
	facetFieldnames map[string][]string
}

// UnifiedIndex builds the unified view.
func (r *Registry) UnifiedIndex() *UnifiedIndex {
	u := &UnifiedIndex{facetFieldnames: make(map[string][]string)}
	for _, idx := range r.indexes {
		for _, f := range idx.fields {
			if !f.Faceted() {
				continue
			}
			if !contains(u.facetFieldnames[f.FacetName()], f.Name()) {
				u.facetFieldnames[f.FacetName()] = append(u.facetFieldnames[f.FacetName()], f.Name())
			}
		}
	}
	return u
}

// FacetFieldnames maps each facet field name to the fields it facets on.
// The returned map is a copy.
func (u *UnifiedIndex) FacetFieldnames() map[string][]string {
	out := make(map[string][]string, len(u.facetFieldnames))
	for k, v := range u.facetFieldnames {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// FieldMapping is the per-field metadata exposed by the site view.
type FieldMapping struct {
	IndexFieldname string
	Type           field.Type
	// FacetFieldname is nil when the field is not faceted.
	FacetFieldname *string
}

// Site is the legacy per-field view of the registry. Faceted fields appear
// twice: under their own name (with FacetFieldname set) and under the facet
// name (with FacetFieldname nil).
type Site struct {
	mapping map[string]FieldMapping
}

// Site builds the per-field view.
func (r *Registry) Site() *Site {
	s := &Site{mapping: make(map[string]FieldMapping, len(r.fields)*2)}
	for _, f := range r.fields {
		m := FieldMapping{IndexFieldname: f.Name(), Type: f.FieldType()}
		if f.Faceted() {
			facet := f.FacetName()
			m.FacetFieldname = &facet
			s.mapping[facet] = FieldMapping{IndexFieldname: facet, Type: facetType(f)}
		}
		s.mapping[f.Name()] = m
	}
	return s
}

// FieldMapping returns a copy of the per-field metadata keyed by index field name.
func (s *Site) FieldMapping() map[string]FieldMapping {
	out := make(map[string]FieldMapping, len(s.mapping))
	for k, v := range s.mapping {
		out[k] = v
	}
	return out
}

// FacetType returns the attribute type used to index a facet shadow of f.
// Text is not groupable, so text facets are indexed as tags.
func FacetType(f field.Field) field.Type {
	return facetType(f)
}

func facetType(f field.Field) field.Type {
	if f.FieldType() == field.Numeric {
		return field.Numeric
	}
	return field.Tag
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
