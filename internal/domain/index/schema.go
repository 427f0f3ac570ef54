package index

import (
	"strings"

	"github.com/kailas-cloud/facetdex/internal/domain/index/field"
)

// Attribute is one queryable attribute of the shared search index.
type Attribute struct {
	// Name is what queries refer to: the field name or its facet alias.
	Name string
	// Source is the document field the attribute reads from.
	Source string
	Type   field.Type
	// Facet marks the groupable shadow of a faceted field.
	Facet bool
}

// Schema lists every indexed attribute: the model tag first, then each
// field followed by its facet shadow when faceted.
func (r *Registry) Schema() []Attribute {
	attrs := make([]Attribute, 0, 1+len(r.fields)*2)
	attrs = append(attrs, Attribute{Name: ModelField, Source: ModelField, Type: field.Tag})
	for _, f := range r.fields {
		attrs = append(attrs, Attribute{Name: f.Name(), Source: f.Name(), Type: f.FieldType()})
		if f.Faceted() {
			attrs = append(attrs, Attribute{
				Name:   f.FacetName(),
				Source: f.Name(),
				Type:   facetType(f),
				Facet:  true,
			})
		}
	}
	return attrs
}

// Attribute looks up a schema attribute by queried name.
func (r *Registry) Attribute(name string) (Attribute, bool) {
	for _, a := range r.Schema() {
		if a.Name == name {
			return a, true
		}
	}
	return Attribute{}, false
}

// Keyspace lays out document keys and the index name under a common prefix:
// documents live at <prefix><model>:<id>, the index is <prefix>idx.
type Keyspace struct {
	prefix string
}

// NewKeyspace creates a keyspace. An empty prefix is allowed.
func NewKeyspace(prefix string) Keyspace {
	return Keyspace{prefix: prefix}
}

// Prefix returns the common key prefix.
func (k Keyspace) Prefix() string { return k.prefix }

// IndexName returns the name of the shared FT index.
func (k Keyspace) IndexName() string { return k.prefix + "idx" }

// ModelPrefix returns the key prefix of one model's documents.
func (k Keyspace) ModelPrefix(model string) string { return k.prefix + model + ":" }

// DocKey returns the storage key of a document.
func (k Keyspace) DocKey(model, id string) string { return k.ModelPrefix(model) + id }

// SplitKey recovers model and id from a document key.
// Model names never contain ':' so the first separator after the prefix splits them.
func (k Keyspace) SplitKey(key string) (model, id string, ok bool) {
	rest, found := strings.CutPrefix(key, k.prefix)
	if !found {
		return "", "", false
	}
	model, id, ok = strings.Cut(rest, ":")
	if !ok || model == "" || id == "" {
		return "", "", false
	}
	return model, id, true
}
