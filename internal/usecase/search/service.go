package search

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/facetdex/internal/domain"
	"github.com/kailas-cloud/facetdex/internal/domain/search/query"
	"github.com/kailas-cloud/facetdex/internal/domain/search/result"
	"github.com/kailas-cloud/facetdex/internal/metrics"
)

// Paging defaults.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Params is one search request.
type Params struct {
	// Data is the form input; nil means an unbound form.
	Data           *Data
	SelectedFacets []string
	// Page is 1-based; values below 1 mean the first page.
	Page     int
	PageSize int
}

// Response is an executed search together with the form that produced it.
type Response struct {
	Form     *Form
	Query    query.SearchQuerySet
	Results  result.Page
	Page     int
	PageSize int
}

// Config configures the search service.
type Config struct {
	Form            FormConfig
	DefaultPageSize int
	MaxPageSize     int
}

// Service turns search requests into forms and runs their query sets.
type Service struct {
	repo Repository
	cfg  Config
}

// New creates a search service.
func New(repo Repository, cfg Config) *Service {
	if cfg.DefaultPageSize <= 0 {
		cfg.DefaultPageSize = DefaultPageSize
	}
	if cfg.MaxPageSize <= 0 {
		cfg.MaxPageSize = MaxPageSize
	}
	if cfg.DefaultPageSize > cfg.MaxPageSize {
		cfg.DefaultPageSize = cfg.MaxPageSize
	}
	return &Service{repo: repo, cfg: cfg}
}

// FacetingAllowed reports the startup faceting decision.
func (s *Service) FacetingAllowed() bool { return s.cfg.Form.Faceting.Allowed }

// Form returns a bound form without executing it.
func (s *Service) Form(_ context.Context, data *Data, selectedFacets []string) *Form {
	return NewForm(s.cfg.Form, data, selectedFacets)
}

// Search builds the form, derives the query set and executes one page of it.
func (s *Service) Search(ctx context.Context, p Params) (*Response, error) {
	page, size, err := s.paging(p.Page, p.PageSize)
	if err != nil {
		return nil, err
	}

	f := NewForm(s.cfg.Form, p.Data, p.SelectedFacets)
	qs := f.Search().Page((page-1)*size, size)

	res, err := s.repo.Execute(ctx, qs)
	if err != nil {
		metrics.SearchErrorsTotal.WithLabelValues(errorType(err)).Inc()
		return nil, fmt.Errorf("execute search: %w", err)
	}

	metrics.SearchQueriesTotal.WithLabelValues(kindOf(qs)).Inc()
	for _, field := range qs.FacetFields() {
		metrics.SearchFacetsAppliedTotal.WithLabelValues(field).Inc()
	}

	return &Response{Form: f, Query: qs, Results: res, Page: page, PageSize: size}, nil
}

func (s *Service) paging(page, size int) (int, int, error) {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = s.cfg.DefaultPageSize
	}
	if size > s.cfg.MaxPageSize {
		return 0, 0, fmt.Errorf("%w: page_size must be at most %d", domain.ErrInvalidRequest, s.cfg.MaxPageSize)
	}
	return page, size, nil
}

func kindOf(qs query.SearchQuerySet) string {
	switch {
	case qs.IsNone():
		return metrics.QueryKindNone
	case qs.IsAll():
		return metrics.QueryKindAll
	default:
		return metrics.QueryKindQuery
	}
}

func errorType(err error) string {
	switch {
	case errors.Is(err, domain.ErrFacetingNotSupported):
		return "faceting_not_supported"
	case errors.Is(err, domain.ErrIndexNotFound):
		return "index_not_found"
	case errors.Is(err, domain.ErrInvalidRequest), errors.Is(err, domain.ErrUnknownModel):
		return "invalid_request"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return "timeout"
	default:
		return "backend"
	}
}
