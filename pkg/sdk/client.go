package facetdex

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/facetdex/internal/db"
	dbRedis "github.com/kailas-cloud/facetdex/internal/db/redis"
	dbValkey "github.com/kailas-cloud/facetdex/internal/db/valkey"
	"github.com/kailas-cloud/facetdex/internal/domain/index"
	"github.com/kailas-cloud/facetdex/internal/domain/index/field"
	"github.com/kailas-cloud/facetdex/internal/domain/search/result"
	indexrepo "github.com/kailas-cloud/facetdex/internal/repository/index"
	searchrepo "github.com/kailas-cloud/facetdex/internal/repository/search"
	"github.com/kailas-cloud/facetdex/internal/usecase/faceting"
	healthuc "github.com/kailas-cloud/facetdex/internal/usecase/health"
	searchuc "github.com/kailas-cloud/facetdex/internal/usecase/search"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultKeyPrefix        = "facetdex:"
)

// Internal interfaces, replaced in tests.
type searchUseCase interface {
	Search(ctx context.Context, p searchuc.Params) (*searchuc.Response, error)
}

type indexUseCase interface {
	EnsureCreated(ctx context.Context) (bool, error)
	Drop(ctx context.Context) error
	Exists(ctx context.Context) (bool, error)
}

// Client is the facetdex SDK entry point.
type Client struct {
	store     db.Store
	searchSvc searchUseCase
	indexSvc  indexUseCase
	healthSvc healthUseCase
	faceting  faceting.Detection
	obs       *observer
}

// New creates a Client and connects to the database.
// Models and faceting settings are validated before connecting.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{keyPrefix: defaultKeyPrefix}
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("facetdex: database address required (use WithValkey or WithRedis)")
	}

	reg, err := buildRegistry(cfg.models)
	if err != nil {
		return nil, fmt.Errorf("facetdex: %w", err)
	}
	det, err := faceting.NewDetector(cfg.facetingEngines...).Detect(settings(cfg), reg)
	if err != nil {
		return nil, fmt.Errorf("facetdex: %w", err)
	}
	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	store, err := createStore(cfg)
	if err != nil {
		return nil, err
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("facetdex: database not ready: %w", err)
	}

	return wireClient(store, reg, det, cfg, obs), nil
}

func createStore(cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case "valkey":
		s, err := dbValkey.NewStore(dbValkey.Config{
			Addrs:    cfg.addrs,
			Password: cfg.password,
		})
		if err != nil {
			return nil, fmt.Errorf("facetdex: create valkey store: %w", err)
		}
		return s, nil
	case "redis":
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.addrs,
			Password: cfg.password,
		})
		if err != nil {
			return nil, fmt.Errorf("facetdex: create redis store: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("facetdex: unknown driver %q", cfg.driver)
	}
}

func buildRegistry(models []model) (*index.Registry, error) {
	if len(models) == 0 {
		return nil, errors.New("at least one model is required (use WithModel)")
	}
	indexes := make([]index.SearchIndex, 0, len(models))
	for _, m := range models {
		fields := make([]field.Field, 0, len(m.fields))
		for _, f := range m.fields {
			var (
				built field.Field
				err   error
			)
			if f.Facet {
				built, err = field.NewFaceted(f.Name, field.Type(f.Type), f.FacetName)
			} else {
				built, err = field.New(f.Name, field.Type(f.Type))
			}
			if err != nil {
				return nil, fmt.Errorf("model %s: %w", m.name, err)
			}
			fields = append(fields, built)
		}
		si, err := index.NewSearchIndex(m.name, fields)
		if err != nil {
			return nil, err
		}
		indexes = append(indexes, si)
	}
	return index.NewRegistry(indexes...)
}

func settings(cfg *clientConfig) faceting.Settings {
	s := faceting.Settings{Engine: cfg.engine}
	if cfg.connections != nil {
		s.Connections = make(map[string]faceting.Connection, len(cfg.connections))
		for name, engine := range cfg.connections {
			s.Connections[name] = faceting.Connection{Engine: engine}
		}
	}
	return s
}

func wireClient(
	store db.Store, reg *index.Registry, det faceting.Detection, cfg *clientConfig, obs *observer,
) *Client {
	ks := index.NewKeyspace(cfg.keyPrefix)
	indexRepo := indexrepo.New(store, reg, ks)
	searchRepo := searchrepo.New(store, reg, searchrepo.Config{
		Keyspace:     ks,
		DefaultLimit: cfg.defaultPageSize,
		FacetLimit:   cfg.facetLimit,
	})
	searchSvc := searchuc.New(searchRepo, searchuc.Config{
		Form:            searchuc.FormConfig{Models: reg.Models(), Faceting: det},
		DefaultPageSize: cfg.defaultPageSize,
		MaxPageSize:     cfg.maxPageSize,
	})

	return &Client{
		store:     store,
		searchSvc: searchSvc,
		indexSvc:  indexRepo,
		healthSvc: healthuc.New(store, healthuc.WithIndex(indexRepo), healthuc.WithFaceting(det.Allowed, store)),
		faceting:  det,
		obs:       obs,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// FacetingAllowed reports whether the configured engine allows faceting.
func (c *Client) FacetingAllowed() bool { return c.faceting.Allowed }

// PossibleFacets returns the facet fields a query may request, sorted.
// It is empty when faceting is not allowed.
func (c *Client) PossibleFacets() []string {
	if !c.faceting.Allowed || c.faceting.Source == nil {
		return nil
	}
	return c.faceting.Source.FacetFieldnames()
}

// EnsureIndex creates the search index if it does not exist.
// It reports whether the index was created.
func (c *Client) EnsureIndex(ctx context.Context) (created bool, err error) {
	start := time.Now()
	defer func() { c.obs.observe("ensure_index", start, err) }()

	created, err = c.indexSvc.EnsureCreated(ctx)
	if err != nil {
		return false, fmt.Errorf("ensure index: %w", err)
	}
	return created, nil
}

// DropIndex drops the search index. Documents are kept.
func (c *Client) DropIndex(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("drop_index", start, err) }()

	if err = c.indexSvc.Drop(ctx); err != nil {
		return fmt.Errorf("drop index: %w", err)
	}
	return nil
}

// Search runs q through the search form and executes one page of it.
// An empty Q returns every document.
func (c *Client) Search(ctx context.Context, q Query) (_ *Results, err error) {
	start := time.Now()
	defer func() {
		c.obs.observe("search", start, err, "facets", len(q.PossibleFacets), "narrows", len(q.SelectedFacets))
	}()

	resp, err := c.searchSvc.Search(ctx, searchuc.Params{
		Data: &searchuc.Data{
			Q:              q.Q,
			Models:         q.Models,
			PossibleFacets: q.PossibleFacets,
		},
		SelectedFacets: q.SelectedFacets,
		Page:           q.Page,
		PageSize:       q.PageSize,
	})
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	c.obs.facetsRequested(resp.Query.FacetFields())
	return resultsFromResponse(resp), nil
}

func resultsFromResponse(resp *searchuc.Response) *Results {
	out := &Results{
		Total:    resp.Results.Total(),
		Page:     resp.Page,
		PageSize: resp.PageSize,
		Valid:    resp.Form.IsValid(),
	}
	if errs := resp.Form.Errors(); len(errs) > 0 {
		out.Errors = errs
	}

	hits := resp.Results.Hits()
	out.Hits = make([]Hit, 0, len(hits))
	for i := range hits {
		h := &hits[i]
		out.Hits = append(out.Hits, Hit{Model: h.Model(), ID: h.ID(), Score: h.Score(), Fields: h.Fields()})
	}

	out.Facets = make([]Facet, 0, len(resp.Results.Facets()))
	for _, f := range resp.Results.Facets() {
		out.Facets = append(out.Facets, Facet{Field: f.Field, Counts: countsFromResult(f.Counts)})
	}
	return out
}

func countsFromResult(counts []result.FacetCount) []FacetCount {
	out := make([]FacetCount, 0, len(counts))
	for _, c := range counts {
		out = append(out, FacetCount{Value: c.Value, Count: c.Count})
	}
	return out
}
