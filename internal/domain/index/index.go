package index

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/kailas-cloud/facetdex/internal/domain/index/field"
)

// ModelField is the reserved tag attribute that records which model a document belongs to.
const ModelField = "__model"

var modelRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*(\.[a-z][a-z0-9_]*)?$`)

// SearchIndex declares the searchable fields of one model (e.g. "catalog.product").
type SearchIndex struct {
	model  string
	fields []field.Field
}

// NewSearchIndex validates and creates a SearchIndex.
// Model: ^[a-z][a-z0-9_]*(\.[a-z][a-z0-9_]*)?$. Fields: at least one, unique names.
func NewSearchIndex(model string, fields []field.Field) (SearchIndex, error) {
	if model == "" {
		return SearchIndex{}, fmt.Errorf("model name is required")
	}
	if !modelRegex.MatchString(model) {
		return SearchIndex{}, fmt.Errorf("model name %q must look like app.model", model)
	}
	if len(fields) == 0 {
		return SearchIndex{}, fmt.Errorf("model %q: at least one field is required", model)
	}
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if seen[f.Name()] {
			return SearchIndex{}, fmt.Errorf("model %q: duplicate field name: %s", model, f.Name())
		}
		seen[f.Name()] = true
	}
	cp := make([]field.Field, len(fields))
	copy(cp, fields)
	return SearchIndex{model: model, fields: cp}, nil
}

// Model returns the model name.
func (s SearchIndex) Model() string { return s.model }

// Fields returns a copy of the model's fields.
func (s SearchIndex) Fields() []field.Field {
	cp := make([]field.Field, len(s.fields))
	copy(cp, s.fields)
	return cp
}

// Registry is the validated set of search indexes known to the process.
// It is built once from configuration and is read-only afterwards.
type Registry struct {
	indexes []SearchIndex
	byModel map[string]int
	fields  []field.Field // union across models, sorted by name
}

// NewRegistry validates the indexes against each other and builds a Registry.
// A field name must keep the same type and facet name in every model, and
// facet names must not shadow a regular field.
func NewRegistry(indexes ...SearchIndex) (*Registry, error) {
	r := &Registry{byModel: make(map[string]int, len(indexes))}

	byName := make(map[string]field.Field)
	facetOwner := make(map[string]string)

	for _, idx := range indexes {
		if _, dup := r.byModel[idx.model]; dup {
			return nil, fmt.Errorf("duplicate search index for model %q", idx.model)
		}
		for _, f := range idx.fields {
			if prev, ok := byName[f.Name()]; ok {
				if prev.FieldType() != f.FieldType() {
					return nil, fmt.Errorf("field %q declared as %s and %s", f.Name(), prev.FieldType(), f.FieldType())
				}
				if prev.FacetName() != f.FacetName() {
					return nil, fmt.Errorf("field %q has conflicting facet settings", f.Name())
				}
				continue
			}
			byName[f.Name()] = f
			if f.Faceted() {
				if owner, ok := facetOwner[f.FacetName()]; ok {
					return nil, fmt.Errorf("facet name %q used by both %q and %q", f.FacetName(), owner, f.Name())
				}
				facetOwner[f.FacetName()] = f.Name()
			}
		}
		r.byModel[idx.model] = len(r.indexes)
		r.indexes = append(r.indexes, idx)
	}

	for facet, owner := range facetOwner {
		if _, clash := byName[facet]; clash {
			return nil, fmt.Errorf("facet name %q of field %q shadows a regular field", facet, owner)
		}
	}

	r.fields = make([]field.Field, 0, len(byName))
	for _, f := range byName {
		r.fields = append(r.fields, f)
	}
	sort.Slice(r.fields, func(i, j int) bool { return r.fields[i].Name() < r.fields[j].Name() })

	return r, nil
}

// Models returns the registered model names in sorted order.
func (r *Registry) Models() []string {
	models := make([]string, 0, len(r.indexes))
	for _, idx := range r.indexes {
		models = append(models, idx.model)
	}
	sort.Strings(models)
	return models
}

// Index returns the search index for a model.
func (r *Registry) Index(model string) (SearchIndex, bool) {
	i, ok := r.byModel[model]
	if !ok {
		return SearchIndex{}, false
	}
	return r.indexes[i], true
}

// Fields returns the union of all fields across models, sorted by name.
func (r *Registry) Fields() []field.Field {
	cp := make([]field.Field, len(r.fields))
	copy(cp, r.fields)
	return cp
}

// Len returns the number of registered models.
func (r *Registry) Len() int { return len(r.indexes) }
