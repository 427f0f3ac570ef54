package facetdex

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type model struct {
	name   string
	fields []Field
}

type clientConfig struct {
	driver   string // "valkey" or "redis"
	addrs    []string
	password string

	engine          string
	connections     map[string]string
	facetingEngines []string

	models []model

	keyPrefix       string
	defaultPageSize int
	maxPageSize     int
	facetLimit      int

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithValkey configures the client to connect to a Valkey instance.
func WithValkey(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "valkey"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithRedis configures the client to connect to a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "redis"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithEngine names the search engine in the flat settings shape.
// Faceting is allowed when the name equals a faceting-capable engine.
func WithEngine(engine string) Option {
	return optionFunc(func(c *clientConfig) {
		c.engine = engine
	})
}

// WithConnection adds a named connection in the structured settings shape.
// Faceting is allowed when the "default" connection's engine contains a
// faceting-capable engine name.
func WithConnection(name, engine string) Option {
	return optionFunc(func(c *clientConfig) {
		if c.connections == nil {
			c.connections = make(map[string]string)
		}
		c.connections[name] = engine
	})
}

// WithFacetingEngines replaces the faceting-capable engine names.
// Default: solr, xapian.
func WithFacetingEngines(engines ...string) Option {
	return optionFunc(func(c *clientConfig) {
		c.facetingEngines = append([]string(nil), engines...)
	})
}

// WithModel registers a searchable model and its indexed fields.
func WithModel(name string, fields ...Field) Option {
	return optionFunc(func(c *clientConfig) {
		c.models = append(c.models, model{name: name, fields: fields})
	})
}

// WithKeyPrefix sets the prefix of document keys and of the index name.
// Default: "facetdex:".
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = prefix
	})
}

// WithPageSizes sets the default and maximum page sizes. Defaults: 20 and 100.
func WithPageSizes(defaultSize, maxSize int) Option {
	return optionFunc(func(c *clientConfig) {
		c.defaultPageSize = defaultSize
		c.maxPageSize = maxSize
	})
}

// WithFacetLimit caps the number of values returned per facet. Default: 10.
func WithFacetLimit(limit int) Option {
	return optionFunc(func(c *clientConfig) {
		c.facetLimit = limit
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
