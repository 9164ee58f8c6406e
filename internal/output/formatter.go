// Package output provides a set of formatters for compiled tables and parsed
// schema dumps. It provides three formats: SQL, JSON and a compact summary.
package output

import (
	"fmt"
	"strings"

	"json2sql/internal/dialect"
	mysqlparser "json2sql/internal/parser/mysql"
)

// Format is an enum type representing the available output formats.
type Format string

const (
	FormatSQL     Format = "sql"
	FormatJSON    Format = "json"
	FormatSummary Format = "summary"
)

// Formatter is an interface for formatting compiled tables and parsed dumps.
type Formatter interface {
	FormatTables([]*dialect.Result) (string, error)
	FormatDump([]*mysqlparser.TableSummary) (string, error)
}

// NewFormatter creates a new Formatter instance based on the given name.
// If no format is specified, defaults to SQL format.
func NewFormatter(name string) (Formatter, error) {
	format := Format(strings.ToLower(strings.TrimSpace(name)))
	switch format {
	case "", FormatSQL:
		return sqlFormatter{}, nil
	case FormatJSON:
		return jsonFormatter{}, nil
	case FormatSummary:
		return summaryFormatter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s; use 'sql', 'json', or 'summary'", name)
	}
}

func countNoun(n int, singular, plural string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, singular)
	}
	return fmt.Sprintf("%d %s", n, plural)
}
