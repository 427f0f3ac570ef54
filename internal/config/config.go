package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Supported storage drivers.
const (
	DriverRedis  = "redis"
	DriverValkey = "valkey"
)

// DefaultConnectionName is the connection used in the structured search shape.
const DefaultConnectionName = "default"

// Config holds the facetdex service configuration.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	Auth    AuthConfig    `yaml:"auth"`
	Logging LoggingConfig `yaml:"logging"`
	Search  SearchConfig  `yaml:"search"`
	Indexes []IndexConfig `yaml:"indexes"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error (default: determined by env)
	Format string `yaml:"format"` // json, console (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// SearchConfig describes the search backend. It accepts two shapes: a flat
// engine name with its connection settings inline, or a connections map
// keyed by connection name. A non-empty Engine wins.
type SearchConfig struct {
	// Flat shape.
	Engine   string   `yaml:"engine"`
	Addrs    []string `yaml:"addrs"`
	Username string   `yaml:"username"`
	Password string   `yaml:"password"`
	DB       int      `yaml:"db"`

	// Structured shape.
	Connections map[string]ConnectionConfig `yaml:"connections"`

	// Driver forces the storage driver; by default it is read from the engine identifier.
	Driver string `yaml:"driver"`
	// FacetingEngines overrides the engine names that allow faceting.
	FacetingEngines []string `yaml:"faceting_engines"`

	KeyPrefix        string `yaml:"key_prefix"`
	ReadinessTimeout int    `yaml:"readiness_timeout_sec"`
	DefaultPageSize  int    `yaml:"default_page_size"`
	MaxPageSize      int    `yaml:"max_page_size"`
	FacetLimit       int    `yaml:"facet_limit"`
	MaxQueryLength   int    `yaml:"max_query_length"`
	AutoCreateIndex  bool   `yaml:"auto_create_index"`
}

// ConnectionConfig is one entry of search.connections.
type ConnectionConfig struct {
	Engine   string   `yaml:"engine"`
	Addrs    []string `yaml:"addrs"`
	Username string   `yaml:"username"`
	Password string   `yaml:"password"`
	DB       int      `yaml:"db"`
}

// IndexConfig declares the searchable fields of one model.
type IndexConfig struct {
	Model  string        `yaml:"model"`
	Fields []FieldConfig `yaml:"fields"`
}

// FieldConfig declares one indexed field.
type FieldConfig struct {
	Name      string `yaml:"name"`
	Type      string `yaml:"type"` // text, tag, numeric
	Faceted   bool   `yaml:"faceted"`
	FacetName string `yaml:"facet_name"` // default: <name>_exact
}

// DefaultConnection resolves the connection to open from either shape.
// ok is false when the structured shape has no default connection, or
// when neither shape is present.
func (s *SearchConfig) DefaultConnection() (ConnectionConfig, bool) {
	if s.Engine != "" {
		return ConnectionConfig{
			Engine:   s.Engine,
			Addrs:    s.Addrs,
			Username: s.Username,
			Password: s.Password,
			DB:       s.DB,
		}, true
	}
	conn, ok := s.Connections[DefaultConnectionName]
	return conn, ok
}

// DriverName returns the storage driver: the explicit driver if set,
// otherwise the first segment of the engine identifier naming a known driver,
// otherwise redis.
func (s *SearchConfig) DriverName() string {
	if s.Driver != "" {
		return s.Driver
	}
	if conn, ok := s.DefaultConnection(); ok {
		if d := driverFromEngine(conn.Engine); d != "" {
			return d
		}
	}
	return DriverRedis
}

func driverFromEngine(engine string) string {
	segments := strings.FieldsFunc(strings.ToLower(engine), func(r rune) bool {
		return r == '.' || r == '/' || r == ':' || r == '_'
	})
	for _, seg := range segments {
		switch seg {
		case DriverRedis, DriverValkey:
			return seg
		}
	}
	return ""
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	return LoadFile(findConfigPath(env))
}

// LoadFile reads configuration from an explicit path.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML, expands ${VAR} references, applies defaults and validates.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Search.ReadinessTimeout <= 0 {
		c.Search.ReadinessTimeout = 10
	}
	if c.Search.DefaultPageSize <= 0 {
		c.Search.DefaultPageSize = 20
	}
	if c.Search.MaxPageSize <= 0 {
		c.Search.MaxPageSize = 100
	}
	if c.Search.FacetLimit <= 0 {
		c.Search.FacetLimit = 10
	}
	if c.Search.MaxQueryLength <= 0 {
		c.Search.MaxQueryLength = 4096
	}
	if c.Search.KeyPrefix == "" {
		c.Search.KeyPrefix = "facetdex:"
	}
}

// Validate checks the configuration for correctness. A structured search
// section without a default connection is not rejected here: faceting
// detection reports it as improperly configured at startup.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}

	switch c.Logging.Format {
	case "", "json", "console":
	default:
		return fmt.Errorf("logging.format must be \"json\" or \"console\", got %q", c.Logging.Format)
	}

	switch d := c.Search.DriverName(); d {
	case DriverRedis, DriverValkey:
	default:
		return fmt.Errorf("search.driver must be %q or %q, got %q", DriverRedis, DriverValkey, d)
	}

	if conn, ok := c.Search.DefaultConnection(); ok && len(conn.Addrs) == 0 {
		if c.Search.Engine != "" {
			return fmt.Errorf("search.addrs is required")
		}
		return fmt.Errorf("search.connections.default.addrs is required")
	}

	if c.Search.DefaultPageSize > c.Search.MaxPageSize {
		return fmt.Errorf("search.default_page_size (%d) exceeds search.max_page_size (%d)",
			c.Search.DefaultPageSize, c.Search.MaxPageSize)
	}

	if len(c.Indexes) == 0 {
		return fmt.Errorf("indexes: at least one model is required")
	}
	for i, idx := range c.Indexes {
		if idx.Model == "" {
			return fmt.Errorf("indexes[%d].model is required", i)
		}
		for j, f := range idx.Fields {
			switch f.Type {
			case "text", "tag", "numeric":
			default:
				return fmt.Errorf("indexes[%d].fields[%d].type must be text, tag or numeric, got %q", i, j, f.Type)
			}
			if f.FacetName != "" && !f.Faceted {
				return fmt.Errorf("indexes[%d].fields[%d].facet_name set on a field that is not faceted", i, j)
			}
		}
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
