package field

import (
	"fmt"
	"regexp"
)

// Type is the indexing type of a field.
type Type string

// Field type constants.
const (
	// Text is a full-text field.
	Text Type = "text"
	// Tag is an exact-match field; tags are the natural facet type.
	Tag     Type = "tag"
	Numeric Type = "numeric"
)

// FacetSuffix is appended to a faceted field's name to derive its facet field name.
const FacetSuffix = "_exact"

var nameRegex = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*$`)

var reservedFieldNames = map[string]bool{
	"id": true, "__model": true, "score": true,
}

// IsValid checks if the field type is supported.
func (t Type) IsValid() bool {
	return t == Text || t == Tag || t == Numeric
}

// Field is an immutable value object describing an indexed field.
type Field struct {
	name      string
	fieldType Type
	faceted   bool
	facetName string
}

// New validates and creates a Field.
// Name must match ^[a-zA-Z][a-zA-Z0-9_]*$ (max 64 chars) and not be reserved.
func New(name string, ft Type) (Field, error) {
	if name == "" {
		return Field{}, fmt.Errorf("field name is required")
	}
	if len(name) > 64 {
		return Field{}, fmt.Errorf("field name %q too long (max 64)", name)
	}
	if !nameRegex.MatchString(name) {
		return Field{}, fmt.Errorf("field name %q must start with a letter and contain only letters, digits and underscores", name)
	}
	if reservedFieldNames[name] {
		return Field{}, fmt.Errorf("field name %q is reserved", name)
	}
	if !ft.IsValid() {
		return Field{}, fmt.Errorf("invalid field type %q for %q", ft, name)
	}
	return Field{name: name, fieldType: ft}, nil
}

// NewFaceted creates a field that also exposes a facet field.
// An empty facetName defaults to name + FacetSuffix.
func NewFaceted(name string, ft Type, facetName string) (Field, error) {
	f, err := New(name, ft)
	if err != nil {
		return Field{}, err
	}
	if facetName == "" {
		facetName = name + FacetSuffix
	}
	if !nameRegex.MatchString(facetName) {
		return Field{}, fmt.Errorf("facet name %q for %q is invalid", facetName, name)
	}
	if facetName == name {
		return Field{}, fmt.Errorf("facet name for %q must differ from the field name", name)
	}
	f.faceted = true
	f.facetName = facetName
	return f, nil
}

// Name returns the field name.
func (f Field) Name() string { return f.name }

// FieldType returns the field's indexing type.
func (f Field) FieldType() Type { return f.fieldType }

// Faceted reports whether the field is exposed for faceting.
func (f Field) Faceted() bool { return f.faceted }

// FacetName returns the facet field name, or "" for non-faceted fields.
func (f Field) FacetName() string { return f.facetName }
