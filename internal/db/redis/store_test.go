package redis

import (
	"context"
	"errors"
	"testing"

	"github.com/redis/rueidis"
	"github.com/redis/rueidis/mock"
	"go.uber.org/mock/gomock"

	"github.com/kailas-cloud/facetdex/internal/db"
	"github.com/kailas-cloud/facetdex/internal/domain/search/query"
)

// --- client.go tests ---

func TestPing_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.Result(mock.RedisString("PONG")))

	s := NewStoreForTest(c)
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPing_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreForTest(c)
	if err := s.Ping(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestNewStore_RequiresAddrs(t *testing.T) {
	if _, err := NewStore(Config{}); err == nil {
		t.Fatal("expected error for empty addrs")
	}
}

func TestIsRedisErr(t *testing.T) {
	if isRedisErr(errors.New("Unknown Index name"), "unknown index name") {
		t.Error("plain errors are not server errors")
	}
	if isRedisErr(context.Canceled, "canceled") {
		t.Error("context errors are not server errors")
	}
}

// --- index.go tests ---

func TestCreateIndex_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match(
			"FT.CREATE", "facetdex:idx", "ON", "HASH",
			"PREFIX", "1", "facetdex:catalog.product:",
			"SCHEMA", "__model", "TAG",
			"color", "AS", "color_exact", "TAG", "SEPARATOR", "|", "SORTABLE",
		)).
		Return(mock.Result(mock.RedisString("OK")))

	s := NewStoreForTest(c)
	def := db.NewIndex("facetdex:idx").
		Prefix("facetdex:catalog.product:").
		Tag("__model").
		FacetTag("color", "color_exact").
		MustBuild()
	if err := s.CreateIndex(context.Background(), def); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCreateIndex_AlreadyExists(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.CREATE"
		})).
		Return(mock.Result(mock.RedisError("Index already exists")))

	s := NewStoreForTest(c)
	def := &db.IndexDefinition{
		Name:   "test:idx",
		Fields: []db.IndexField{{Name: "f", Type: db.IndexFieldTag}},
	}
	err := s.CreateIndex(context.Background(), def)
	if !errors.Is(err, db.ErrIndexExists) {
		t.Errorf("expected ErrIndexExists, got %v", err)
	}
}

func TestCreateIndex_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.CREATE"
		})).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreForTest(c)
	def := &db.IndexDefinition{
		Name:   "test:idx",
		Fields: []db.IndexField{{Name: "f", Type: db.IndexFieldTag}},
	}
	err := s.CreateIndex(context.Background(), def)
	if !isDBError(err) {
		t.Errorf("expected db.Error, got %T", err)
	}
}

func TestCreateIndex_InvalidDefinition(t *testing.T) {
	s := NewStoreForTest(nil)
	err := s.CreateIndex(context.Background(), &db.IndexDefinition{Name: "test:idx"})
	if err == nil {
		t.Fatal("expected validation error")
	}
}

func TestDropIndex_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("FT.DROPINDEX", "test:idx")).
		Return(mock.Result(mock.RedisString("OK")))

	s := NewStoreForTest(c)
	if err := s.DropIndex(context.Background(), "test:idx"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDropIndex_NotFound(t *testing.T) {
	for _, msg := range []string{"Unknown Index name", "test:idx: no such index"} {
		t.Run(msg, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			c := mock.NewClient(ctrl)

			c.EXPECT().
				Do(gomock.Any(), mock.Match("FT.DROPINDEX", "test:idx")).
				Return(mock.Result(mock.RedisError(msg)))

			s := NewStoreForTest(c)
			err := s.DropIndex(context.Background(), "test:idx")
			if !errors.Is(err, db.ErrIndexNotFound) {
				t.Errorf("expected ErrIndexNotFound, got %v", err)
			}
		})
	}
}

func TestIndexExists_True(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("FT.INFO", "test:idx")).
		Return(mock.Result(mock.RedisArray(mock.RedisString("index_name"))))

	s := NewStoreForTest(c)
	exists, err := s.IndexExists(context.Background(), "test:idx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !exists {
		t.Error("expected true")
	}
}

func TestIndexExists_False(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("FT.INFO", "test:idx")).
		Return(mock.Result(mock.RedisError("Unknown Index name")))

	s := NewStoreForTest(c)
	exists, err := s.IndexExists(context.Background(), "test:idx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exists {
		t.Error("expected false")
	}
}

// --- search.go tests ---

func TestSearch_WithScores(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match(
			"FT.SEARCH", "facetdex:idx", "shoes @color_exact:{red}",
			"WITHSCORES", "LIMIT", "0", "20", "DIALECT", "2",
		)).
		Return(mock.Result(mock.RedisArray(
			mock.RedisInt64(2),
			mock.RedisString("facetdex:catalog.product:1"),
			mock.RedisString("1.5"),
			mock.RedisArray(mock.RedisString("title"), mock.RedisString("Red shoes")),
			mock.RedisString("facetdex:catalog.product:2"),
			mock.RedisString("0.5"),
			mock.RedisArray(mock.RedisString("title"), mock.RedisString("Running shoes")),
		)))

	s := NewStoreForTest(c)
	res, err := s.Search(context.Background(), &db.SearchQuery{
		IndexName: "facetdex:idx",
		Match: db.Match{
			Clauses: []query.Clause{{Term: "shoes"}},
			Tags:    []db.TagFilter{{Field: "color_exact", Values: []string{"red"}}},
		},
		Limit:      20,
		WithScores: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Total != 2 || len(res.Entries) != 2 {
		t.Fatalf("expected 2 entries, got total=%d entries=%d", res.Total, len(res.Entries))
	}
	first := res.Entries[0]
	if first.Key != "facetdex:catalog.product:1" || first.Score != 1.5 {
		t.Errorf("unexpected first entry: %+v", first)
	}
	if first.Fields["title"] != "Red shoes" {
		t.Errorf("unexpected fields: %v", first.Fields)
	}
}

func TestSearch_WithoutScores(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("FT.SEARCH", "facetdex:idx", "*", "LIMIT", "10", "5", "DIALECT", "2")).
		Return(mock.Result(mock.RedisArray(
			mock.RedisInt64(11),
			mock.RedisString("facetdex:catalog.product:11"),
			mock.RedisArray(mock.RedisString("title"), mock.RedisString("Boots")),
		)))

	s := NewStoreForTest(c)
	res, err := s.Search(context.Background(), &db.SearchQuery{
		IndexName: "facetdex:idx",
		Offset:    10,
		Limit:     5,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Total != 11 {
		t.Errorf("expected total 11, got %d", res.Total)
	}
	if len(res.Entries) != 1 || res.Entries[0].Score != 0 {
		t.Errorf("unexpected entries: %+v", res.Entries)
	}
}

func TestSearch_Empty(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.SEARCH"
		})).
		Return(mock.Result(mock.RedisArray(mock.RedisInt64(0))))

	s := NewStoreForTest(c)
	res, err := s.Search(context.Background(), &db.SearchQuery{IndexName: "facetdex:idx", Limit: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Total != 0 || len(res.Entries) != 0 {
		t.Errorf("expected empty result, got %+v", res)
	}
}

func TestSearch_UnknownIndex(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.SEARCH"
		})).
		Return(mock.Result(mock.RedisError("facetdex:idx: no such index")))

	s := NewStoreForTest(c)
	_, err := s.Search(context.Background(), &db.SearchQuery{IndexName: "facetdex:idx", Limit: 10})
	if !errors.Is(err, db.ErrIndexNotFound) {
		t.Errorf("expected ErrIndexNotFound, got %v", err)
	}
}

func TestSearch_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.SEARCH"
		})).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreForTest(c)
	_, err := s.Search(context.Background(), &db.SearchQuery{IndexName: "facetdex:idx", Limit: 10})
	if !isDBError(err) {
		t.Errorf("expected db.Error, got %T", err)
	}
}

func TestSearch_Validation(t *testing.T) {
	s := NewStoreForTest(nil)
	if _, err := s.Search(context.Background(), &db.SearchQuery{}); err == nil {
		t.Error("expected error for missing index name")
	}
}

func TestAggregate_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match(
			"FT.AGGREGATE", "facetdex:idx", "*",
			"GROUPBY", "1", "@color_exact",
			"REDUCE", "COUNT", "0", "AS", "count",
			"SORTBY", "4", "@count", "DESC", "@color_exact", "ASC",
			"MAX", "10",
			"DIALECT", "2",
		)).
		Return(mock.Result(mock.RedisArray(
			mock.RedisInt64(3),
			mock.RedisArray(
				mock.RedisString("color_exact"), mock.RedisString("red"),
				mock.RedisString("count"), mock.RedisString("4"),
			),
			mock.RedisArray(
				mock.RedisString("color_exact"), mock.RedisString("blue"),
				mock.RedisString("count"), mock.RedisString("2"),
			),
			mock.RedisArray(
				mock.RedisString("color_exact"), mock.RedisNil(),
				mock.RedisString("count"), mock.RedisString("7"),
			),
		)))

	s := NewStoreForTest(c)
	buckets, err := s.Aggregate(context.Background(), &db.AggregateQuery{
		IndexName: "facetdex:idx",
		GroupBy:   "color_exact",
		Limit:     10,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []db.FacetBucket{{Value: "red", Count: 4}, {Value: "blue", Count: 2}}
	if len(buckets) != len(want) {
		t.Fatalf("expected %d buckets, got %v", len(want), buckets)
	}
	for i := range want {
		if buckets[i] != want[i] {
			t.Errorf("bucket[%d] = %+v, want %+v", i, buckets[i], want[i])
		}
	}
}

func TestAggregate_BadCount(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.AGGREGATE"
		})).
		Return(mock.Result(mock.RedisArray(
			mock.RedisInt64(1),
			mock.RedisArray(
				mock.RedisString("size_exact"), mock.RedisString("xl"),
				mock.RedisString("count"), mock.RedisString("many"),
			),
		)))

	s := NewStoreForTest(c)
	_, err := s.Aggregate(context.Background(), &db.AggregateQuery{
		IndexName: "facetdex:idx",
		GroupBy:   "size_exact",
		Limit:     10,
	})
	if err == nil {
		t.Fatal("expected parse error")
	}
}

func TestAggregate_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.AGGREGATE"
		})).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreForTest(c)
	_, err := s.Aggregate(context.Background(), &db.AggregateQuery{
		IndexName: "facetdex:idx",
		GroupBy:   "size_exact",
		Limit:     10,
	})
	var dbErr *db.Error
	if !errors.As(err, &dbErr) || dbErr.Op != db.OpAggregate {
		t.Errorf("expected FT.AGGREGATE db.Error, got %v", err)
	}
}

func TestSupportsAggregate(t *testing.T) {
	s := NewStoreForTest(nil)
	if !s.SupportsAggregate(context.Background()) {
		t.Error("redis store should support aggregation")
	}
}

func TestParseFieldPairs_SkipsNonStrings(t *testing.T) {
	m := parseFieldPairs([]rueidis.RedisMessage{
		mock.RedisString("a"), mock.RedisString("1"),
		mock.RedisString("b"), mock.RedisArray(),
		mock.RedisString("c"), mock.RedisNil(),
		mock.RedisInt64(4), mock.RedisString("x"),
		mock.RedisString("d"), mock.RedisString(""),
	})
	if len(m) != 2 || m["a"] != "1" {
		t.Errorf("unexpected pairs: %v", m)
	}
	if v, ok := m["d"]; !ok || v != "" {
		t.Errorf("empty string value must be kept, got %v", m)
	}
}

func isDBError(err error) bool {
	var dbErr *db.Error
	return errors.As(err, &dbErr)
}
