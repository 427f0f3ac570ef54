package main

import (
	"fmt"

	"github.com/kailas-cloud/facetdex/internal/config"
	"github.com/kailas-cloud/facetdex/internal/db"
	dbRedis "github.com/kailas-cloud/facetdex/internal/db/redis"
	dbValkey "github.com/kailas-cloud/facetdex/internal/db/valkey"
	"github.com/kailas-cloud/facetdex/internal/domain"
	"github.com/kailas-cloud/facetdex/internal/domain/index"
	"github.com/kailas-cloud/facetdex/internal/domain/index/field"
	"github.com/kailas-cloud/facetdex/internal/usecase/faceting"
)

// buildRegistry turns the configured indexes into a validated registry.
func buildRegistry(indexes []config.IndexConfig) (*index.Registry, error) {
	built := make([]index.SearchIndex, 0, len(indexes))
	for _, ic := range indexes {
		fields := make([]field.Field, 0, len(ic.Fields))
		for _, fc := range ic.Fields {
			var (
				f   field.Field
				err error
			)
			if fc.Faceted {
				f, err = field.NewFaceted(fc.Name, field.Type(fc.Type), fc.FacetName)
			} else {
				f, err = field.New(fc.Name, field.Type(fc.Type))
			}
			if err != nil {
				return nil, fmt.Errorf("index %s: %w", ic.Model, err)
			}
			fields = append(fields, f)
		}

		si, err := index.NewSearchIndex(ic.Model, fields)
		if err != nil {
			return nil, fmt.Errorf("index %s: %w", ic.Model, err)
		}
		built = append(built, si)
	}
	return index.NewRegistry(built...)
}

// facetingSettings projects the search section onto the two settings shapes
// the detector understands. Only engine names matter there.
func facetingSettings(sc config.SearchConfig) faceting.Settings {
	s := faceting.Settings{Engine: sc.Engine}
	if sc.Connections != nil {
		s.Connections = make(map[string]faceting.Connection, len(sc.Connections))
		for name, c := range sc.Connections {
			s.Connections[name] = faceting.Connection{Engine: c.Engine}
		}
	}
	return s
}

// detectFaceting runs capability detection once for the process.
func detectFaceting(cfg config.Config, reg *index.Registry) (faceting.Detection, error) {
	return faceting.NewDetector(cfg.Search.FacetingEngines...).Detect(facetingSettings(cfg.Search), reg)
}

// openStore connects to the default search connection with the configured driver.
func openStore(sc config.SearchConfig) (db.Store, error) {
	conn, ok := sc.DefaultConnection()
	if !ok {
		return nil, domain.NewConfigError("search", "no connection to open: set search.engine or search.connections.default")
	}

	switch driver := sc.DriverName(); driver {
	case config.DriverValkey:
		s, err := dbValkey.NewStore(dbValkey.Config{
			Addrs:    conn.Addrs,
			Username: conn.Username,
			Password: conn.Password,
			DB:       conn.DB,
		})
		if err != nil {
			return nil, fmt.Errorf("valkey store: %w", err)
		}
		return s, nil
	case config.DriverRedis:
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    conn.Addrs,
			Username: conn.Username,
			Password: conn.Password,
			DB:       conn.DB,
		})
		if err != nil {
			return nil, fmt.Errorf("redis store: %w", err)
		}
		return s, nil
	default:
		return nil, domain.NewConfigError("search.driver", fmt.Sprintf("unknown driver %q", driver))
	}
}
