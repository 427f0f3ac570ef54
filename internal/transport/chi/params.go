package chi

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/oapi-codegen/runtime"

	searchuc "github.com/kailas-cloud/facetdex/internal/usecase/search"
)

// Paging query parameters.
const (
	ParamPage     = "page"
	ParamPageSize = "page_size"
)

// searchParams is the decoded query string of /search and /search/form.
type searchParams struct {
	data           *searchuc.Data
	selectedFacets []string
	page           int
	pageSize       int
}

// bindSearchParams decodes form-style query parameters. Array parameters are
// exploded: ?models=a&models=b. The form is bound when any of its fields is
// present in the query string.
func bindSearchParams(r *http.Request) (searchParams, error) {
	values := r.URL.Query()

	var (
		q                        *string
		models, possible, narrow *[]string
		page, pageSize           *int
	)
	bindings := []struct {
		name string
		dest any
	}{
		{searchuc.FieldQuery, &q},
		{searchuc.FieldModels, &models},
		{searchuc.FieldPossibleFacets, &possible},
		{searchuc.FieldSelectedFacets, &narrow},
		{ParamPage, &page},
		{ParamPageSize, &pageSize},
	}
	for _, b := range bindings {
		if err := runtime.BindQueryParameter("form", true, false, b.name, values, b.dest); err != nil {
			return searchParams{}, fmt.Errorf("invalid %s parameter: %w", b.name, err)
		}
	}

	p := searchParams{
		selectedFacets: deref(narrow),
		page:           derefInt(page),
		pageSize:       derefInt(pageSize),
	}
	if isBound(values) {
		p.data = &searchuc.Data{
			Q:              derefString(q),
			Models:         deref(models),
			PossibleFacets: deref(possible),
		}
	}
	return p, nil
}

func isBound(values url.Values) bool {
	for _, name := range []string{
		searchuc.FieldQuery, searchuc.FieldModels, searchuc.FieldPossibleFacets, searchuc.FieldSelectedFacets,
	} {
		if _, ok := values[name]; ok {
			return true
		}
	}
	return false
}

func deref(p *[]string) []string {
	if p == nil {
		return nil
	}
	return *p
}

func derefString(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func derefInt(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
