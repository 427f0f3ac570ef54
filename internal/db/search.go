package db

import "github.com/kailas-cloud/facetdex/internal/domain/search/query"

// TagFilter matches documents whose tag attribute equals any of Values.
type TagFilter struct {
	Field  string
	Values []string
}

// NumericRange matches documents whose numeric attribute lies in [Min, Max].
type NumericRange struct {
	Field string
	Min   float64
	Max   float64
}

// Match is the document-selection part shared by searches and aggregations.
// An empty Match selects every document in the index.
type Match struct {
	Clauses []query.Clause
	Tags    []TagFilter
	Ranges  []NumericRange
}

// SearchQuery is the input for FT.SEARCH.
type SearchQuery struct {
	IndexName    string
	Match        Match
	Offset       int
	Limit        int
	ReturnFields []string
	WithScores   bool

	// KeyPrefixes lists the key prefixes of the documents the index covers.
	// Stores that cannot run a match-all query enumerate keys under them.
	KeyPrefixes []string
}

// AggregateQuery is the input for a single-field FT.AGGREGATE GROUPBY count.
type AggregateQuery struct {
	IndexName string
	Match     Match
	GroupBy   string
	Limit     int
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}

// FacetBucket is one distinct value of a grouped attribute and its document count.
type FacetBucket struct {
	Value string
	Count int
}
