package chi

import (
	"github.com/kailas-cloud/facetdex/internal/domain/search/form"
	"github.com/kailas-cloud/facetdex/internal/domain/search/query"
	"github.com/kailas-cloud/facetdex/internal/domain/search/result"
	healthuc "github.com/kailas-cloud/facetdex/internal/usecase/health"
	searchuc "github.com/kailas-cloud/facetdex/internal/usecase/search"
)

// SearchResponse is the body of GET /search.
type SearchResponse struct {
	Total    int           `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
	Hits     []Hit         `json:"hits"`
	Facets   []Facet       `json:"facets"`
	Query    QuerySummary  `json:"query"`
	Form     FormRendering `json:"form"`
}

// FormResponse is the body of GET /search/form.
type FormResponse struct {
	Form  FormRendering `json:"form"`
	Query QuerySummary  `json:"query"`
}

// Hit is one matching document.
type Hit struct {
	Model  string            `json:"model"`
	ID     string            `json:"id"`
	Score  float64           `json:"score,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

// Facet carries the counts of one facet field.
type Facet struct {
	Field  string       `json:"field"`
	Counts []FacetCount `json:"counts"`
}

// FacetCount is one facet value with its document count.
type FacetCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// QuerySummary describes the query set a form produced.
type QuerySummary struct {
	All     bool           `json:"all"`
	Terms   []QueryTerm    `json:"terms,omitempty"`
	Models  []string       `json:"models,omitempty"`
	Narrows []NarrowFilter `json:"narrows,omitempty"`
	Facets  []string       `json:"facets"`
}

// QueryTerm is one parsed clause of the query text.
type QueryTerm struct {
	Term    string `json:"term"`
	Exact   bool   `json:"exact,omitempty"`
	Negated bool   `json:"negated,omitempty"`
}

// NarrowFilter is one applied field:value restriction.
type NarrowFilter struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// FormRendering is the form state needed to render it again.
type FormRendering struct {
	Bound          bool                `json:"bound"`
	Valid          bool                `json:"valid"`
	Fields         []FormField         `json:"fields"`
	SelectedFacets []string            `json:"selected_facets,omitempty"`
	Errors         map[string][]string `json:"errors,omitempty"`
}

// FormField is one rendered form field.
type FormField struct {
	Name     string        `json:"name"`
	Label    string        `json:"label"`
	Widget   form.Widget   `json:"widget"`
	Required bool          `json:"required"`
	Value    any           `json:"value"`
	Choices  []form.Choice `json:"choices,omitempty"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status healthuc.Status                 `json:"status"`
	Checks map[string]healthuc.CheckResult `json:"checks"`
}

func searchResponseToDTO(resp *searchuc.Response) SearchResponse {
	return SearchResponse{
		Total:    resp.Results.Total(),
		Page:     resp.Page,
		PageSize: resp.PageSize,
		Hits:     hitsToDTO(resp.Results.Hits()),
		Facets:   facetsToDTO(resp.Results.Facets()),
		Query:    querySummary(resp.Query),
		Form:     formToDTO(resp.Form),
	}
}

func hitsToDTO(hits []result.Hit) []Hit {
	out := make([]Hit, 0, len(hits))
	for i := range hits {
		h := &hits[i]
		out = append(out, Hit{
			Model:  h.Model(),
			ID:     h.ID(),
			Score:  h.Score(),
			Fields: h.Fields(),
		})
	}
	return out
}

func facetsToDTO(facets []result.Facet) []Facet {
	out := make([]Facet, 0, len(facets))
	for _, f := range facets {
		counts := make([]FacetCount, 0, len(f.Counts))
		for _, c := range f.Counts {
			counts = append(counts, FacetCount{Value: c.Value, Count: c.Count})
		}
		out = append(out, Facet{Field: f.Field, Counts: counts})
	}
	return out
}

func querySummary(qs query.SearchQuerySet) QuerySummary {
	s := QuerySummary{
		All:    qs.IsAll(),
		Models: qs.ModelNames(),
		Facets: qs.FacetFields(),
	}
	if s.Facets == nil {
		s.Facets = []string{}
	}
	for _, c := range qs.Clauses() {
		s.Terms = append(s.Terms, QueryTerm{Term: c.Term, Exact: c.Exact, Negated: c.Negated})
	}
	for _, n := range qs.Narrows() {
		s.Narrows = append(s.Narrows, NarrowFilter{Field: n.Field, Value: n.Value})
	}
	return s
}

func formToDTO(f *searchuc.Form) FormRendering {
	var (
		q                      string
		models, possibleFacets []string
	)
	if d := f.Data(); d != nil {
		q, models, possibleFacets = d.Q, d.Models, d.PossibleFacets
	}

	out := FormRendering{
		Bound: f.IsBound(),
		Valid: f.IsValid(),
		Fields: []FormField{
			{
				Name:     f.Q.Name,
				Label:    f.Q.Label,
				Widget:   f.Q.Widget,
				Required: f.Q.Required,
				Value:    q,
			},
			choiceField(&f.Models, models),
			choiceField(&f.PossibleFacets, possibleFacets),
		},
		SelectedFacets: f.SelectedFacets(),
	}
	if errs := f.Errors(); len(errs) > 0 {
		out.Errors = errs
	}
	return out
}

func choiceField(fld *form.MultipleChoiceField, value []string) FormField {
	if value == nil {
		value = []string{}
	}
	return FormField{
		Name:     fld.Name,
		Label:    fld.Label,
		Widget:   fld.Widget,
		Required: fld.Required,
		Value:    value,
		Choices:  fld.Choices(),
	}
}
