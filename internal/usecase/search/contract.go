package search

import (
	"context"

	"github.com/kailas-cloud/facetdex/internal/domain/search/query"
	"github.com/kailas-cloud/facetdex/internal/domain/search/result"
)

// Repository defines the storage contract for search operations.
type Repository interface {
	Execute(ctx context.Context, qs query.SearchQuerySet) (result.Page, error)
}
