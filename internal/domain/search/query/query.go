// Package query holds the search query object: an immutable, chainable
// description of a not-yet-executed search.
package query

import "strings"

// Limits for query construction.
const (
	MaxQueryLength = 4096
	MaxClauses     = 64
)

type kind int

const (
	kindAll kind = iota
	kindNone
	kindQuery
)

// Clause is one parsed piece of user query text.
type Clause struct {
	Term    string
	Exact   bool // quoted phrase
	Negated bool // prefixed with '-'
}

// Narrow restricts results to documents whose facet field equals Value.
type Narrow struct {
	Field string
	Value string
}

// SearchQuerySet is a search query under construction. Every method returns a
// modified copy, so a base query set can be shared and refined freely.
type SearchQuerySet struct {
	kind    kind
	clauses []Clause
	models  []string
	narrows []Narrow
	facets  []string
	offset  int
	limit   int
}

// New returns a query set that matches every document.
func New() SearchQuerySet {
	return SearchQuerySet{kind: kindAll}
}

// All returns a copy that matches every document, dropping any text clauses.
// Model, narrow and facet directives are kept.
func (q SearchQuerySet) All() SearchQuerySet {
	c := q.clone()
	c.kind = kindAll
	c.clauses = nil
	return c
}

// None returns a copy that matches nothing.
func (q SearchQuerySet) None() SearchQuerySet {
	c := q.clone()
	c.kind = kindNone
	c.clauses = nil
	return c
}

// AutoQuery parses free text into clauses: bare words, "exact phrases" and
// -negated words. Text that yields no clauses leaves the query set unchanged.
func (q SearchQuerySet) AutoQuery(text string) SearchQuerySet {
	clauses := ParseAutoQuery(text)
	if len(clauses) == 0 {
		return q.clone()
	}
	c := q.clone()
	if c.kind == kindNone {
		return c
	}
	c.kind = kindQuery
	c.clauses = append(c.clauses, clauses...)
	if len(c.clauses) > MaxClauses {
		c.clauses = c.clauses[:MaxClauses]
	}
	return c
}

// Models restricts the search to the given models. Repeated calls accumulate.
func (q SearchQuerySet) Models(models ...string) SearchQuerySet {
	c := q.clone()
	for _, m := range models {
		if m == "" || containsString(c.models, m) {
			continue
		}
		c.models = append(c.models, m)
	}
	return c
}

// Narrow adds a facet restriction. Empty fields or values are ignored.
func (q SearchQuerySet) Narrow(field, value string) SearchQuerySet {
	c := q.clone()
	if field == "" || value == "" {
		return c
	}
	c.narrows = append(c.narrows, Narrow{Field: field, Value: value})
	return c
}

// Facet appends a facet directive for field. Directives accumulate in call order.
func (q SearchQuerySet) Facet(field string) SearchQuerySet {
	c := q.clone()
	c.facets = append(c.facets, field)
	return c
}

// Page sets the result window.
func (q SearchQuerySet) Page(offset, limit int) SearchQuerySet {
	c := q.clone()
	if offset < 0 {
		offset = 0
	}
	if limit < 0 {
		limit = 0
	}
	c.offset = offset
	c.limit = limit
	return c
}

// IsAll reports whether the query set matches every document before model
// and narrow restrictions.
func (q SearchQuerySet) IsAll() bool { return q.kind == kindAll }

// IsNone reports whether the query set matches nothing.
func (q SearchQuerySet) IsNone() bool { return q.kind == kindNone }

// Clauses returns the parsed text clauses.
func (q SearchQuerySet) Clauses() []Clause { return append([]Clause(nil), q.clauses...) }

// ModelNames returns the model restriction (empty means all models).
func (q SearchQuerySet) ModelNames() []string { return append([]string(nil), q.models...) }

// Narrows returns the facet restrictions.
func (q SearchQuerySet) Narrows() []Narrow { return append([]Narrow(nil), q.narrows...) }

// FacetFields returns the facet directives in the order they were added.
func (q SearchQuerySet) FacetFields() []string { return append([]string(nil), q.facets...) }

// Offset returns the result offset.
func (q SearchQuerySet) Offset() int { return q.offset }

// Limit returns the result limit (0 means backend default).
func (q SearchQuerySet) Limit() int { return q.limit }

// clone copies the slices so that clones never share backing arrays.
func (q SearchQuerySet) clone() SearchQuerySet {
	return SearchQuerySet{
		kind:    q.kind,
		clauses: append([]Clause(nil), q.clauses...),
		models:  append([]string(nil), q.models...),
		narrows: append([]Narrow(nil), q.narrows...),
		facets:  append([]string(nil), q.facets...),
		offset:  q.offset,
		limit:   q.limit,
	}
}

// ParseAutoQuery splits text into clauses. Unterminated quotes are treated as
// if closed at end of input.
func ParseAutoQuery(text string) []Clause {
	text = truncateRunes(strings.TrimSpace(text), MaxQueryLength)

	var clauses []Clause
	for i := 0; i < len(text); {
		switch {
		case text[i] == ' ' || text[i] == '\t' || text[i] == '\n' || text[i] == '\r':
			i++

		case text[i] == '"' || (text[i] == '-' && i+1 < len(text) && text[i+1] == '"'):
			negated := text[i] == '-'
			if negated {
				i++
			}
			i++ // opening quote
			end := strings.IndexByte(text[i:], '"')
			var phrase string
			if end < 0 {
				phrase, i = text[i:], len(text)
			} else {
				phrase, i = text[i:i+end], i+end+1
			}
			phrase = strings.Join(strings.Fields(phrase), " ")
			if phrase != "" {
				clauses = append(clauses, Clause{Term: phrase, Exact: true, Negated: negated})
			}

		default:
			end := strings.IndexAny(text[i:], " \t\n\r")
			var word string
			if end < 0 {
				word, i = text[i:], len(text)
			} else {
				word, i = text[i:i+end], i+end
			}
			negated := false
			if len(word) > 1 && word[0] == '-' {
				negated, word = true, word[1:]
			}
			if word != "" && word != "-" {
				clauses = append(clauses, Clause{Term: word, Negated: negated})
			}
		}
	}
	return clauses
}

// truncateRunes cuts s to at most n characters without splitting one.
func truncateRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
