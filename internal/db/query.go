package db

import (
	"errors"
	"strconv"
	"strings"

	"github.com/kailas-cloud/facetdex/internal/domain/search/query"
)

// String compiles the match into RediSearch dialect 2 query syntax.
// Clauses and tag filters are intersected; an empty match is "*".
func (m Match) String() string {
	parts := make([]string, 0, len(m.Clauses)+len(m.Tags)+len(m.Ranges))

	for _, c := range m.Clauses {
		if p := buildClause(c); p != "" {
			parts = append(parts, p)
		}
	}
	for _, tf := range m.Tags {
		if p := BuildTagFilter(tf.Field, tf.Values...); p != "" {
			parts = append(parts, p)
		}
	}
	for _, r := range m.Ranges {
		if r.Field != "" {
			parts = append(parts, BuildNumericFilter(r.Field, r.Min, r.Max))
		}
	}

	if len(parts) == 0 {
		return "*"
	}
	return strings.Join(parts, " ")
}

// IsEmpty reports whether the match selects every document.
func (m Match) IsEmpty() bool {
	return m.String() == "*"
}

func buildClause(c query.Clause) string {
	term := EscapeQuery(c.Term)
	if term == "" {
		return ""
	}
	if c.Exact {
		term = `"` + term + `"`
	}
	if c.Negated {
		term = "-" + term
	}
	return term
}

// BuildTagFilter renders "@field:{v1 | v2}". Empty values are skipped.
func BuildTagFilter(field string, values ...string) string {
	escaped := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		escaped = append(escaped, tagEscaper.Replace(v))
	}
	if field == "" || len(escaped) == 0 {
		return ""
	}
	return "@" + field + ":{" + strings.Join(escaped, " | ") + "}"
}

// BuildNumericFilter renders "@field:[min max]" (inclusive bounds).
func BuildNumericFilter(field string, minVal, maxVal float64) string {
	return "@" + field + ":[" + formatNumber(minVal) + " " + formatNumber(maxVal) + "]"
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// SearchArgs builds the FT.SEARCH argument list for q.
func SearchArgs(q *SearchQuery) ([]string, error) {
	if q.IndexName == "" {
		return nil, errors.New("index name is required")
	}
	if q.Limit < 0 || q.Offset < 0 {
		return nil, errors.New("offset and limit must not be negative")
	}

	args := []string{q.IndexName, q.Match.String()}

	if q.WithScores {
		args = append(args, "WITHSCORES")
	}
	if len(q.ReturnFields) > 0 {
		args = append(args, "RETURN", strconv.Itoa(len(q.ReturnFields)))
		args = append(args, q.ReturnFields...)
	}

	args = append(args,
		"LIMIT", strconv.Itoa(q.Offset), strconv.Itoa(q.Limit),
		"DIALECT", "2",
	)
	return args, nil
}

// AggregateArgs builds the FT.AGGREGATE argument list counting documents per
// distinct value of q.GroupBy, most frequent first.
func AggregateArgs(q *AggregateQuery) ([]string, error) {
	if q.IndexName == "" {
		return nil, errors.New("index name is required")
	}
	if q.GroupBy == "" {
		return nil, errors.New("group by field is required")
	}
	if q.Limit <= 0 {
		return nil, errors.New("limit must be positive")
	}

	attr := "@" + q.GroupBy
	return []string{
		q.IndexName, q.Match.String(),
		"GROUPBY", "1", attr,
		"REDUCE", "COUNT", "0", "AS", "count",
		"SORTBY", "4", "@count", "DESC", attr, "ASC",
		"MAX", strconv.Itoa(q.Limit),
		"DIALECT", "2",
	}, nil
}

// CreateArgs builds the FT.CREATE argument list for def.
func CreateArgs(def *IndexDefinition) ([]string, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}

	args := []string{def.Name}

	storage := def.StorageType
	if storage == "" {
		storage = StorageHash
	}
	args = append(args, "ON", string(storage))

	if len(def.Prefixes) > 0 {
		args = append(args, "PREFIX", strconv.Itoa(len(def.Prefixes)))
		args = append(args, def.Prefixes...)
	}

	args = append(args, "SCHEMA")

	for i := range def.Fields {
		fieldArgs, err := buildFieldArgs(&def.Fields[i])
		if err != nil {
			return nil, err
		}
		args = append(args, fieldArgs...)
	}

	return args, nil
}

func buildFieldArgs(f *IndexField) ([]string, error) {
	args := []string{f.Name}

	if f.Alias != "" {
		args = append(args, "AS", f.Alias)
	}

	switch f.Type {
	case IndexFieldNumeric:
		args = append(args, "NUMERIC")

	case IndexFieldText:
		args = append(args, "TEXT")

	case IndexFieldTag:
		args = append(args, "TAG")
		if f.TagSeparator != "" {
			args = append(args, "SEPARATOR", f.TagSeparator)
		}
		if f.TagCaseSensitive {
			args = append(args, "CASESENSITIVE")
		}

	default:
		return nil, errors.New("unknown field type")
	}

	if f.Sortable {
		args = append(args, "SORTABLE")
	}

	return args, nil
}

// EscapeQuery escapes RediSearch query syntax characters in free text.
func EscapeQuery(s string) string {
	return queryEscaper.Replace(s)
}

var tagEscaper = strings.NewReplacer(
	`\`, `\\`,
	",", "\\,",
	".", "\\.",
	"<", "\\<",
	">", "\\>",
	"{", "\\{",
	"}", "\\}",
	"[", "\\[",
	"]", "\\]",
	"\"", "\\\"",
	"'", "\\'",
	":", "\\:",
	";", "\\;",
	"!", "\\!",
	"@", "\\@",
	"#", "\\#",
	"$", "\\$",
	"%", "\\%",
	"^", "\\^",
	"&", "\\&",
	"*", "\\*",
	"(", "\\(",
	")", "\\)",
	"-", "\\-",
	"+", "\\+",
	"=", "\\=",
	"~", "\\~",
	"|", "\\|",
	"/", "\\/",
	" ", "\\ ",
)

var queryEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	`"`, `\"`,
	`@`, `\@`,
	`{`, `\{`,
	`}`, `\}`,
	`(`, `\(`,
	`)`, `\)`,
	`|`, `\|`,
	`-`, `\-`,
	`~`, `\~`,
	`*`, `\*`,
	`[`, `\[`,
	`]`, `\]`,
	`!`, `\!`,
	`%`, `\%`,
	`^`, `\^`,
	`$`, `\$`,
	`<`, `\<`,
	`>`, `\>`,
	`=`, `\=`,
	`;`, `\;`,
	`+`, `\+`,
	`:`, `\:`,
	`,`, `\,`,
	`.`, `\.`,
)
