package index

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/facetdex/internal/db"
	"github.com/kailas-cloud/facetdex/internal/domain"
	domindex "github.com/kailas-cloud/facetdex/internal/domain/index"
)

// store is the consumer interface for index management (ISP).
type store interface {
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	DropIndex(ctx context.Context, name string) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// Repo manages the FT index that backs every registered model.
type Repo struct {
	store    store
	registry *domindex.Registry
	keyspace domindex.Keyspace
}

// New creates an index repository.
func New(s store, reg *domindex.Registry, ks domindex.Keyspace) *Repo {
	return &Repo{store: s, registry: reg, keyspace: ks}
}

// Name returns the FT index name.
func (r *Repo) Name() string { return r.keyspace.IndexName() }

// Definition returns the FT index definition derived from the registry.
func (r *Repo) Definition() (*db.IndexDefinition, error) {
	def, err := buildIndex(r.registry, r.keyspace)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidSchema, err)
	}
	return def, nil
}

// Create builds the definition and runs FT.CREATE.
func (r *Repo) Create(ctx context.Context) error {
	def, err := r.Definition()
	if err != nil {
		return err
	}
	if err := r.store.CreateIndex(ctx, def); err != nil {
		if errors.Is(err, db.ErrIndexExists) {
			return domain.ErrIndexExists
		}
		return fmt.Errorf("create index %s: %w", def.Name, err)
	}
	return nil
}

// EnsureCreated creates the index unless it already exists.
// It reports whether a new index was created.
func (r *Repo) EnsureCreated(ctx context.Context) (bool, error) {
	exists, err := r.Exists(ctx)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}
	if err := r.Create(ctx); err != nil {
		if errors.Is(err, domain.ErrIndexExists) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Drop removes the index. Documents are left in place.
func (r *Repo) Drop(ctx context.Context) error {
	if err := r.store.DropIndex(ctx, r.Name()); err != nil {
		if errors.Is(err, db.ErrIndexNotFound) {
			return domain.ErrIndexNotFound
		}
		return fmt.Errorf("drop index %s: %w", r.Name(), err)
	}
	return nil
}

// Exists reports whether the index has been created.
func (r *Repo) Exists(ctx context.Context) (bool, error) {
	exists, err := r.store.IndexExists(ctx, r.Name())
	if err != nil {
		return false, fmt.Errorf("index info %s: %w", r.Name(), err)
	}
	return exists, nil
}
