package redis

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/facetdex/internal/db"
)

// Search runs FT.SEARCH for q.
func (s *Store) Search(ctx context.Context, q *db.SearchQuery) (*db.SearchResult, error) {
	args, err := db.SearchArgs(q)
	if err != nil {
		return nil, err
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

// Aggregate counts documents per distinct value of q.GroupBy via FT.AGGREGATE.
func (s *Store) Aggregate(ctx context.Context, q *db.AggregateQuery) ([]db.FacetBucket, error) {
	args, err := db.AggregateArgs(q)
	if err != nil {
		return nil, err
	}

	cmd := s.b().Arbitrary("FT.AGGREGATE").Args(args...).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		if isUnknownIndex(err) {
			return nil, db.ErrIndexNotFound
		}
		return nil, &db.Error{Op: db.OpAggregate, Err: err}
	}

	return parseAggregateResult(raw, q.GroupBy)
}

// SupportsAggregate returns true: RediSearch implements FT.AGGREGATE.
func (s *Store) SupportsAggregate(_ context.Context) bool {
	return true
}

// --- Result parsing ---

// parseSearchResult handles both layouts:
// [total, key, fields, ...] and, WITHSCORES, [total, key, score, fields, ...].
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

		entry := db.SearchEntry{Key: key}
		fieldsIdx := i + 1
		if withScores {
			scoreStr, err := raw[i+1].ToString()
			if err != nil {
				continue
			}
			if entry.Score, err = strconv.ParseFloat(scoreStr, 64); err != nil {
				continue
			}
			fieldsIdx = i + 2
		}

		fields, err := raw[fieldsIdx].ToArray()
		if err != nil {
			continue
		}
		entry.Fields = parseFieldPairs(fields)

		entries = append(entries, entry)
	}

	return &db.SearchResult{Total: int(total), Entries: entries}, nil
}

// parseAggregateResult reads [n, [field, value, "count", c], ...].
// Rows without a value for the grouped field are skipped.
func parseAggregateResult(raw []rueidis.RedisMessage, groupBy string) ([]db.FacetBucket, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	if _, err := raw[0].AsInt64(); err != nil {
		return nil, fmt.Errorf("parse aggregate total: %w", err)
	}

	buckets := make([]db.FacetBucket, 0, len(raw)-1)
	for _, row := range raw[1:] {
		pairs, err := row.ToArray()
		if err != nil {
			continue
		}
		fields := parseFieldPairs(pairs)

		value, ok := fields[groupBy]
		if !ok || value == "" {
			continue
		}
		count, err := strconv.Atoi(fields["count"])
		if err != nil {
			return nil, fmt.Errorf("parse count for %s=%q: %w", groupBy, value, err)
		}
		buckets = append(buckets, db.FacetBucket{Value: value, Count: count})
	}
	return buckets, nil
}

// parseFieldPairs reads a flat [name, value, ...] reply. Pairs whose name or
// value is not a string reply are skipped.
func parseFieldPairs(fields []rueidis.RedisMessage) map[string]string {
	m := make(map[string]string, len(fields)/2)
	for j := 0; j+1 < len(fields); j += 2 {
		k, ok := stringReply(&fields[j])
		if !ok {
			continue
		}
		v, ok := stringReply(&fields[j+1])
		if !ok {
			continue
		}
		m[k] = v
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
