package faceting

import (
	"strings"

	"github.com/kailas-cloud/facetdex/internal/domain"
	"github.com/kailas-cloud/facetdex/internal/domain/index"
)

// DefaultConnection is the connection name consulted in the structured settings shape.
const DefaultConnection = "default"

// DefaultEngines are the engines known to compute facets server-side.
var DefaultEngines = []string{"solr", "xapian"}

// Connection is one entry of the structured settings shape.
type Connection struct {
	// Engine identifies the backend implementation, e.g. "facetdex.engines.solr".
	// Empty means the key is missing.
	Engine string
}

// Settings is the process-wide search configuration in either of its two shapes:
// a flat Engine name, or Connections keyed by connection name.
// A non-empty Engine takes precedence.
type Settings struct {
	Engine      string
	Connections map[string]Connection
}

// Shape identifies which settings layout is in use.
type Shape int

// Settings shapes.
const (
	ShapeUnknown Shape = iota
	ShapeNone
	ShapeLegacy
	ShapeConnections
)

func (s Shape) String() string {
	switch s {
	case ShapeNone:
		return "none"
	case ShapeLegacy:
		return "legacy"
	case ShapeConnections:
		return "connections"
	default:
		return "unknown"
	}
}

// ClassifyShape reports which settings shape s uses.
func ClassifyShape(s Settings) Shape {
	switch {
	case s.Engine != "":
		return ShapeLegacy
	case s.Connections != nil:
		return ShapeConnections
	default:
		return ShapeNone
	}
}

// Detection is the outcome of capability detection: whether faceting is
// allowed and, if so, how facet fields are enumerated.
type Detection struct {
	Allowed bool
	Shape   Shape
	Engine  string
	Source  Source
}

// Detector decides whether the configured engine supports faceting.
type Detector struct {
	engines []string
}

// NewDetector creates a Detector for the given faceting-capable engines.
// With no engines, DefaultEngines is used.
func NewDetector(engines ...string) *Detector {
	cleaned := make([]string, 0, len(engines))
	for _, e := range engines {
		if e = strings.TrimSpace(e); e != "" {
			cleaned = append(cleaned, e)
		}
	}
	if len(cleaned) == 0 {
		cleaned = append(cleaned, DefaultEngines...)
	}
	return &Detector{engines: cleaned}
}

// Engines returns the faceting-capable engine names.
func (d *Detector) Engines() []string {
	return append([]string(nil), d.engines...)
}

// ShouldAllowFaceting reports whether s names a faceting-capable engine.
// The flat shape must equal an engine name; the structured shape's default
// connection must contain one. A structured shape without a usable default
// connection is an ErrImproperlyConfigured error. No settings at all simply
// disables faceting.
func (d *Detector) ShouldAllowFaceting(s Settings) (bool, error) {
	allowed, _, err := d.evaluate(s)
	return allowed, err
}

// Detect evaluates s and selects the facet enumeration strategy for reg:
// the flat shape reads the per-field site mapping, the structured shape reads
// the unified index.
func (d *Detector) Detect(s Settings, reg *index.Registry) (Detection, error) {
	allowed, engine, err := d.evaluate(s)
	if err != nil {
		return Detection{}, err
	}

	shape := ClassifyShape(s)
	det := Detection{Allowed: allowed, Shape: shape, Engine: engine}
	if !allowed || reg == nil {
		return det, nil
	}

	switch shape {
	case ShapeLegacy:
		det.Source = NewSiteSource(reg.Site())
	case ShapeConnections:
		det.Source = NewUnifiedSource(reg.UnifiedIndex())
	}
	return det, nil
}

func (d *Detector) evaluate(s Settings) (allowed bool, engine string, err error) {
	switch ClassifyShape(s) {
	case ShapeNone:
		return false, "", nil

	case ShapeLegacy:
		for _, e := range d.engines {
			if s.Engine == e {
				return true, s.Engine, nil
			}
		}
		return false, s.Engine, nil

	case ShapeConnections:
		conn, ok := s.Connections[DefaultConnection]
		if !ok {
			return false, "", domain.NewConfigError("search.connections",
				"structured settings without a \"default\" connection")
		}
		if conn.Engine == "" {
			return false, "", domain.NewConfigError("search.connections.default.engine",
				"default connection has no engine")
		}
		for _, e := range d.engines {
			if strings.Contains(conn.Engine, e) {
				return true, conn.Engine, nil
			}
		}
		return false, conn.Engine, nil
	}

	// ClassifyShape only yields the shapes above; if a new shape is ever added
	// without handling it here, faceting stays off.
	return false, "", nil
}
