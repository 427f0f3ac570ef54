package facetdex

import "github.com/kailas-cloud/facetdex/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrImproperlyConfigured = domain.ErrImproperlyConfigured
	ErrFacetingNotSupported = domain.ErrFacetingNotSupported
	ErrUnknownModel         = domain.ErrUnknownModel
	ErrInvalidSchema        = domain.ErrInvalidSchema
	ErrInvalidRequest       = domain.ErrInvalidRequest
	ErrIndexNotFound        = domain.ErrIndexNotFound
	ErrIndexExists          = domain.ErrIndexExists
)
