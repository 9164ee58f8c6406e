package mysql

import (
	"strconv"
	"strings"

	"json2sql/internal/core"
)

// joinClause trims every segment, drops the empty ones and joins the rest with
// single spaces, so omitted segments never leave doubled spaces behind.
func joinClause(segments ...string) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, " ")
}

func unsigned(signed bool) string {
	if signed {
		return ""
	}
	return "unsigned"
}

func nullability(nullable bool) string {
	if nullable {
		return "NULL"
	}
	return "NOT NULL"
}

// defaultClause renders "DEFAULT <v>", or nothing for a null or unset default.
func defaultClause[T any](d core.Default[T], format func(T) string) string {
	v, ok := d.Get()
	if !ok {
		return ""
	}
	return "DEFAULT " + format(v)
}

func formatInt(v int64) string {
	return strconv.FormatInt(v, 10)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatDatetime maps the exact sentinel to CURRENT_TIMESTAMP and quotes anything else.
func (g *Generator) formatDatetime(v string) string {
	if v == core.CurrentTime {
		return "CURRENT_TIMESTAMP"
	}
	return g.QuoteString(v)
}

// formatIndexFields quotes the columns and joins them with bare commas, keeping
// the given order. Empty names are kept; Validate reports them.
func (g *Generator) formatIndexFields(cols []string) string {
	quoted := make([]string, 0, len(cols))
	for _, c := range cols {
		quoted = append(quoted, g.QuoteIdentifier(c))
	}
	return strings.Join(quoted, ",")
}
