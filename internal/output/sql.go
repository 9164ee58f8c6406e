package output

import (
	"fmt"
	"strings"

	"json2sql/internal/dialect"
	mysqlparser "json2sql/internal/parser/mysql"
)

type sqlFormatter struct{}

// FormatTables writes every statement followed by a blank line.
func (sqlFormatter) FormatTables(results []*dialect.Result) (string, error) {
	var sb strings.Builder
	for _, r := range results {
		if r == nil {
			continue
		}
		sb.WriteString(r.Statement)
		sb.WriteString("\n\n")
	}
	return sb.String(), nil
}

// FormatDump writes one SQL comment line per table.
func (sqlFormatter) FormatDump(tables []*mysqlparser.TableSummary) (string, error) {
	if len(tables) == 0 {
		return "-- No tables found.\n", nil
	}
	var sb strings.Builder
	for _, t := range tables {
		fmt.Fprintf(&sb, "-- %s: %s, %s", t.Name,
			countNoun(len(t.Columns), "column", "columns"), countNoun(len(t.Indexes), "index", "indexes"))
		if t.Engine != "" {
			fmt.Fprintf(&sb, ", engine %s", t.Engine)
		}
		sb.WriteString("\n")
	}
	return sb.String(), nil
}
