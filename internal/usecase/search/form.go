package search

import (
	"strings"

	"github.com/kailas-cloud/facetdex/internal/domain/search/form"
	"github.com/kailas-cloud/facetdex/internal/domain/search/query"
	"github.com/kailas-cloud/facetdex/internal/usecase/faceting"
)

// Form field names.
const (
	FieldQuery          = "q"
	FieldModels         = "models"
	FieldSelectedFacets = "selected_facets"
	FieldPossibleFacets = "possible_facets"
)

// Data is the submitted input of a search form.
type Data struct {
	Q              string
	Models         []string
	PossibleFacets []string
}

// CleanedData holds the values of every field that passed validation.
// Fields that failed keep their zero value.
type CleanedData struct {
	Q              string
	Models         []string
	PossibleFacets []string
}

// FormConfig carries what a form needs at construction.
type FormConfig struct {
	// Models are the searchable model names offered as choices.
	Models []string
	// Faceting is the startup capability decision.
	Faceting faceting.Detection
	// Base is the query set Search refines. The zero value matches everything.
	Base query.SearchQuerySet
	// MaxQueryLength bounds q in characters; zero means query.MaxQueryLength.
	MaxQueryLength int
}

// Form is a model search form with facet narrowing and an optional list of
// facets to compute. An empty query searches everything.
type Form struct {
	Q              form.CharField
	Models         form.MultipleChoiceField
	PossibleFacets form.MultipleChoiceField

	data           *Data
	selectedFacets []string
	base           query.SearchQuerySet

	validated bool
	cleaned   CleanedData
	errors    form.Errors
}

// NewForm builds a form. A nil data makes the form unbound: it is never
// valid and searches everything. selectedFacets are raw "field:value"
// narrowing requests and are not validated.
func NewForm(cfg FormConfig, data *Data, selectedFacets []string) *Form {
	maxLen := cfg.MaxQueryLength
	if maxLen <= 0 {
		maxLen = query.MaxQueryLength
	}

	f := &Form{
		Q: form.CharField{
			Name:      FieldQuery,
			Label:     "Search",
			MaxLength: maxLen,
			Widget:    form.WidgetSearchInput,
		},
		Models: form.NewMultipleChoiceField(
			FieldModels, "Search In", form.WidgetCheckboxSelectMultiple, false,
			form.ChoicesFromValues(cfg.Models),
		),
		PossibleFacets: form.NewMultipleChoiceField(
			FieldPossibleFacets, "Possible facets", form.WidgetCheckboxSelectMultiple, false, nil,
		),
		data:           data,
		selectedFacets: append([]string(nil), selectedFacets...),
		base:           cfg.Base,
	}

	if cfg.Faceting.Allowed {
		f.PossibleFacets.SetChoices(faceting.Choices(cfg.Faceting.Source))
	}
	return f
}

// IsBound reports whether the form received input.
func (f *Form) IsBound() bool { return f.data != nil }

// IsValid cleans the input once and reports whether every field passed.
func (f *Form) IsValid() bool {
	f.fullClean()
	return f.IsBound() && len(f.errors) == 0
}

// CleanedData returns the validated values. Call IsValid first.
func (f *Form) CleanedData() CleanedData {
	f.fullClean()
	return CleanedData{
		Q:              f.cleaned.Q,
		Models:         append([]string(nil), f.cleaned.Models...),
		PossibleFacets: append([]string(nil), f.cleaned.PossibleFacets...),
	}
}

// Errors returns validation messages keyed by field name.
func (f *Form) Errors() form.Errors {
	f.fullClean()
	out := make(form.Errors, len(f.errors))
	for k, v := range f.errors {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// Data returns the bound input, nil when unbound.
func (f *Form) Data() *Data { return f.data }

// SelectedFacets returns the raw narrowing requests.
func (f *Form) SelectedFacets() []string {
	return append([]string(nil), f.selectedFacets...)
}

func (f *Form) fullClean() {
	if f.validated {
		return
	}
	f.validated = true
	f.errors = form.Errors{}
	if f.data == nil {
		return
	}

	if q, err := f.Q.Clean([]string{f.data.Q}); err != nil {
		f.errors.Add(FieldQuery, err)
	} else {
		f.cleaned.Q = q
	}

	if models, err := f.Models.Clean(f.data.Models); err != nil {
		f.errors.Add(FieldModels, err)
	} else {
		f.cleaned.Models = models
	}

	if facets, err := f.PossibleFacets.Clean(f.data.PossibleFacets); err != nil {
		f.errors.Add(FieldPossibleFacets, err)
	} else {
		f.cleaned.PossibleFacets = facets
	}
}

// NoQueryFound is the query set used when there is nothing to search for:
// every document.
func (f *Form) NoQueryFound() query.SearchQuerySet {
	return f.base.All()
}

// Search builds the outgoing query set: the text query (or everything),
// restricted to the chosen models, narrowed by each selected facet, with one
// facet directive per chosen possible facet in selection order.
func (f *Form) Search() query.SearchQuerySet {
	var sqs query.SearchQuerySet
	if !f.IsValid() || f.cleaned.Q == "" {
		sqs = f.NoQueryFound()
	} else {
		sqs = f.base.AutoQuery(f.cleaned.Q)
	}

	sqs = sqs.Models(f.models()...)

	for _, facet := range f.selectedFacets {
		field, value, ok := strings.Cut(facet, ":")
		if !ok || value == "" {
			continue
		}
		sqs = sqs.Narrow(field, value)
	}

	for _, field := range f.cleaned.PossibleFacets {
		if field == "" {
			continue
		}
		sqs = sqs.Facet(field)
	}
	return sqs
}

// models returns the chosen models, or none (meaning all) if the form is invalid.
func (f *Form) models() []string {
	if !f.IsValid() {
		return nil
	}
	return f.cleaned.Models
}
