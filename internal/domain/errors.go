package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrImproperlyConfigured signals a search configuration that cannot be interpreted.
	ErrImproperlyConfigured = errors.New("improperly configured")
	// ErrFacetingNotSupported signals that the backend cannot compute facet counts.
	ErrFacetingNotSupported = errors.New("faceting not supported by backend")
	// ErrUnknownModel signals a model that has no registered search index.
	ErrUnknownModel = errors.New("unknown model")
	// ErrInvalidSchema signals an invalid index definition.
	ErrInvalidSchema = errors.New("invalid schema")
	// ErrInvalidRequest signals malformed search parameters.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrIndexNotFound signals that the search index has not been created yet.
	ErrIndexNotFound = errors.New("index not found")
	// ErrIndexExists signals an attempt to create an index that is already there.
	ErrIndexExists = errors.New("index already exists")
)

// ConfigError describes which configuration key made the search setup unusable.
type ConfigError struct {
	Key    string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrImproperlyConfigured.Error(), e.Key, e.Reason)
}

func (e *ConfigError) Unwrap() error { return ErrImproperlyConfigured }

// NewConfigError creates an improperly-configured error for the given key.
func NewConfigError(key, reason string) error {
	return &ConfigError{Key: key, Reason: reason}
}
