package result

// Hit is a single matched document.
type Hit struct {
	model  string
	id     string
	score  float64
	fields map[string]string
}

// NewHit creates a search hit.
func NewHit(model, id string, score float64, fields map[string]string) Hit {
	return Hit{model: model, id: id, score: score, fields: fields}
}

// Model returns the model the document belongs to.
func (h *Hit) Model() string { return h.model }

// ID returns the document identifier within its model.
func (h *Hit) ID() string { return h.id }

// Score returns the relevance score. Zero when the query had no text clauses.
func (h *Hit) Score() float64 { return h.score }

// Fields returns the stored document fields.
func (h *Hit) Fields() map[string]string { return h.fields }

// FacetCount is one distinct value of a facet field and the number of matching documents.
type FacetCount struct {
	Value string
	Count int
}

// Facet holds the counts for one facet field, most frequent value first.
type Facet struct {
	Field  string
	Counts []FacetCount
}

// Page is one page of results plus facet counts over the whole match.
type Page struct {
	total  int
	hits   []Hit
	facets []Facet
}

// NewPage creates a result page. Facets keep the order they were requested in.
func NewPage(total int, hits []Hit, facets []Facet) Page {
	return Page{total: total, hits: hits, facets: facets}
}

// Total returns the number of matching documents across all pages.
func (p *Page) Total() int { return p.total }

// Hits returns the documents on this page.
func (p *Page) Hits() []Hit { return p.hits }

// Facets returns facet counts in request order.
func (p *Page) Facets() []Facet { return p.facets }

// Facet returns the counts for one facet field.
func (p *Page) Facet(field string) (Facet, bool) {
	for _, f := range p.facets {
		if f.Field == field {
			return f, true
		}
	}
	return Facet{}, false
}
