package valkey

import (
	"context"

	"github.com/kailas-cloud/facetdex/internal/db"
)

// CreateIndex creates an FT index. valkey-search has no SORTABLE option,
// so the flag is dropped from every field before the command is built.
func (s *Store) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	stripped := *def
	stripped.Fields = make([]db.IndexField, len(def.Fields))
	for i, f := range def.Fields {
		f.Sortable = false
		stripped.Fields[i] = f
	}

	args, err := db.CreateArgs(&stripped)
	if err != nil {
		return err
	}

	cmd := s.b().Arbitrary("FT.CREATE").Args(args...).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		if isRedisErr(err, "already exists") {
			return db.ErrIndexExists
		}
		return &db.Error{Op: db.OpCreateIndex, Err: err}
	}
	return nil
}

// DropIndex removes an FT index by name.
func (s *Store) DropIndex(ctx context.Context, name string) error {
	cmd := s.b().Arbitrary("FT.DROPINDEX").Args(name).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		if isUnknownIndex(err) {
			return db.ErrIndexNotFound
		}
		return &db.Error{Op: db.OpDropIndex, Err: err}
	}
	return nil
}

// IndexExists probes index existence via FT.INFO.
func (s *Store) IndexExists(ctx context.Context, name string) (bool, error) {
	cmd := s.b().Arbitrary("FT.INFO").Args(name).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		if isUnknownIndex(err) {
			return false, nil
		}
		return false, &db.Error{Op: db.OpIndexInfo, Err: err}
	}
	return true, nil
}

func isUnknownIndex(err error) bool {
	return isRedisErr(err, "not found") || isRedisErr(err, "unknown index name") || isRedisErr(err, "no such index")
}
