package facetdex

// FieldType defines how a model field is indexed.
type FieldType string

// Field type constants.
const (
	FieldText    FieldType = "text"
	FieldTag     FieldType = "tag"
	FieldNumeric FieldType = "numeric"
)

// Field declares one indexed field of a model.
type Field struct {
	Name      string
	Type      FieldType
	Facet     bool
	FacetName string // default: Name + "_exact"
}

// TextField declares a full-text field.
func TextField(name string) Field { return Field{Name: name, Type: FieldText} }

// TagField declares an exact-match field.
func TagField(name string) Field { return Field{Name: name, Type: FieldTag} }

// NumericField declares a numeric field.
func NumericField(name string) Field { return Field{Name: name, Type: FieldNumeric} }

// Faceted exposes the field for faceting under its default facet name.
func (f Field) Faceted() Field {
	f.Facet = true
	return f
}

// FacetAs exposes the field for faceting under the given facet name.
func (f Field) FacetAs(name string) Field {
	f.Facet = true
	f.FacetName = name
	return f
}

// Query is one search request.
type Query struct {
	Q      string
	Models []string
	// SelectedFacets are "facet_field:value" narrowing filters.
	SelectedFacets []string
	// PossibleFacets are the facet fields to count, in the order to apply them.
	PossibleFacets []string
	Page           int // 1-based
	PageSize       int
}

// Hit is one matching document.
type Hit struct {
	Model  string
	ID     string
	Score  float64
	Fields map[string]string
}

// FacetCount is one facet value with its document count.
type FacetCount struct {
	Value string
	Count int
}

// Facet carries the counts of one facet field.
type Facet struct {
	Field  string
	Counts []FacetCount
}

// Results is one executed page of a search.
type Results struct {
	Total    int
	Page     int
	PageSize int
	Hits     []Hit
	Facets   []Facet
	// Valid is false when the query was rejected by form validation and
	// every document was searched instead.
	Valid bool
	// Errors holds the form validation messages keyed by field name.
	Errors map[string][]string
}
