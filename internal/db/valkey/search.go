package valkey

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/facetdex/internal/db"
)

// Search runs FT.SEARCH. valkey-search rejects a bare "*" query,
// so an empty match falls back to SCAN + HGETALL over q.KeyPrefixes.
func (s *Store) Search(ctx context.Context, q *db.SearchQuery) (*db.SearchResult, error) {
	args, err := db.SearchArgs(q)
	if err != nil {
		return nil, err
	}
	if q.Match.IsEmpty() {
		return s.scanList(ctx, q)
	}

	cmd := s.b().Arbitrary("FT.SEARCH").Args(args...).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		if isUnknownIndex(err) {
			return nil, db.ErrIndexNotFound
		}
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}

	return parseSearchResult(raw, q.WithScores)
}

// Aggregate is not available: valkey-search has no FT.AGGREGATE.
func (s *Store) Aggregate(_ context.Context, _ *db.AggregateQuery) ([]db.FacetBucket, error) {
	return nil, db.ErrAggregateNotSupported
}

// SupportsAggregate returns false for valkey-search.
func (s *Store) SupportsAggregate(_ context.Context) bool {
	return false
}

func (s *Store) scanList(ctx context.Context, q *db.SearchQuery) (*db.SearchResult, error) {
	if len(q.KeyPrefixes) == 0 {
		return nil, errors.New("match-all search requires key prefixes")
	}

	seen := make(map[string]struct{})
	var keys []string
	for _, prefix := range q.KeyPrefixes {
		found, err := s.scan(ctx, escapeGlob(prefix)+"*")
		if err != nil {
			return nil, fmt.Errorf("scan for list: %w", err)
		}
		for _, k := range found {
			if _, dup := seen[k]; !dup {
				seen[k] = struct{}{}
				keys = append(keys, k)
			}
		}
	}

	sort.Strings(keys) // deterministic ordering

	total := len(keys)
	if q.Offset >= total {
		return &db.SearchResult{Total: total}, nil
	}
	end := q.Offset + q.Limit
	if end > total {
		end = total
	}
	pageKeys := keys[q.Offset:end]
	if len(pageKeys) == 0 {
		return &db.SearchResult{Total: total}, nil
	}

	cmds := make([]rueidis.Completed, len(pageKeys))
	for i, key := range pageKeys {
		cmds[i] = s.b().Hgetall().Key(key).Build()
	}

	entries := make([]db.SearchEntry, 0, len(pageKeys))
	for i, res := range s.client.DoMulti(ctx, cmds...) {
		m, err := res.AsStrMap()
		if err != nil {
			return nil, &db.Error{Op: db.OpHGetAll, Err: err}
		}
		if len(m) == 0 {
			continue // key deleted between SCAN and HGETALL
		}
		entries = append(entries, db.SearchEntry{
			Key:    pageKeys[i],
			Fields: pick(m, q.ReturnFields),
		})
	}

	return &db.SearchResult{Total: total, Entries: entries}, nil
}

func (s *Store) scan(ctx context.Context, pattern string) ([]string, error) {
	var keys []string
	var cursor uint64

	for {
		cmd := s.b().Scan().Cursor(cursor).Match(pattern).Count(100).Build()
		res, err := s.do(ctx, cmd).AsScanEntry()
		if err != nil {
			return nil, &db.Error{Op: db.OpScan, Err: err}
		}
		keys = append(keys, res.Elements...)
		cursor = res.Cursor
		if cursor == 0 {
			break
		}
	}

	return keys, nil
}

var globEscaper = strings.NewReplacer(
	`\`, `\\`,
	`*`, `\*`,
	`?`, `\?`,
	`[`, `\[`,
	`]`, `\]`,
)

// escapeGlob quotes SCAN MATCH metacharacters so prefix matches literally.
func escapeGlob(prefix string) string {
	return globEscaper.Replace(prefix)
}

func pick(m map[string]string, fields []string) map[string]string {
	if len(fields) == 0 {
		return m
	}
	out := make(map[string]string, len(fields))
	for _, f := range fields {
		if v, ok := m[f]; ok {
			out[f] = v
		}
	}
	return out
}

// --- Result parsing ---

func parseSearchResult(raw []rueidis.RedisMessage, withScores bool) (*db.SearchResult, error) {
	if len(raw) == 0 {
		return &db.SearchResult{}, nil
	}

	total, err := raw[0].AsInt64()
	if err != nil {
		return nil, fmt.Errorf("parse total: %w", err)
	}
	if total == 0 {
		return &db.SearchResult{}, nil
	}

	stride := 2
	if withScores {
		stride = 3
	}

	entries := make([]db.SearchEntry, 0, (len(raw)-1)/stride)
	for i := 1; i+stride-1 < len(raw); i += stride {
		key, err := raw[i].ToString()
		if err != nil {
			continue
		}

		var score float64
		if withScores {
			scoreStr, err := raw[i+1].ToString()
			if err != nil {
				continue
			}
			if score, err = strconv.ParseFloat(scoreStr, 64); err != nil {
				continue
			}
		}

		fields, err := raw[i+stride-1].ToArray()
		if err != nil {
			continue
		}

		entries = append(entries, db.SearchEntry{
			Key:    key,
			Score:  score,
			Fields: parseFieldPairs(fields),
		})
	}

	return &db.SearchResult{Total: int(total), Entries: entries}, nil
}

// parseFieldPairs reads a flat [name, value, ...] reply. Pairs whose name or
// value is not a string reply are skipped.
func parseFieldPairs(fields []rueidis.RedisMessage) map[string]string {
	m := make(map[string]string, len(fields)/2)
	for j := 0; j+1 < len(fields); j += 2 {
		name, ok := stringReply(&fields[j])
		if !ok {
			continue
		}
		value, ok := stringReply(&fields[j+1])
		if !ok {
			continue
		}
		m[name] = value
	}
	return m
}

func stringReply(msg *rueidis.RedisMessage) (string, bool) {
	if !msg.IsString() {
		return "", false
	}
	s, err := msg.ToString()
	return s, err == nil
}
