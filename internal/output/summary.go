package output

import (
	"fmt"
	"strings"

	"json2sql/internal/dialect"
	mysqlparser "json2sql/internal/parser/mysql"
)

type summaryFormatter struct{}

// FormatTables formats compiled tables as a compact summary.
// Example output:
//
//	Schema Summary
//	==============
//
//	test_user   5 columns, 1 index    innodb
//
//	Total: 1 table, 5 columns, 1 index
func (summaryFormatter) FormatTables(results []*dialect.Result) (string, error) {
	rows := make([]summaryRow, 0, len(results))
	for _, r := range results {
		if r == nil || r.Normalized == nil {
			continue
		}
		rows = append(rows, summaryRow{
			name:    r.Table,
			columns: r.Normalized.Fields.Len(),
			indexes: r.Normalized.Indexes.Len(),
			engine:  r.Normalized.Engine(),
		})
	}
	return writeSummary(rows), nil
}

// FormatDump formats a parsed schema dump as a compact summary.
func (summaryFormatter) FormatDump(tables []*mysqlparser.TableSummary) (string, error) {
	rows := make([]summaryRow, 0, len(tables))
	for _, t := range tables {
		rows = append(rows, summaryRow{
			name:    t.Name,
			columns: len(t.Columns),
			indexes: len(t.Indexes),
			engine:  t.Engine,
		})
	}
	return writeSummary(rows), nil
}

type summaryRow struct {
	name             string
	columns, indexes int
	engine           string
}

func writeSummary(rows []summaryRow) string {
	if len(rows) == 0 {
		return "No tables.\n"
	}

	var sb strings.Builder
	sb.WriteString("Schema Summary\n")
	sb.WriteString("==============\n\n")

	width := 0
	for _, r := range rows {
		width = max(width, len(r.name))
	}

	var columns, indexes int
	for _, r := range rows {
		counts := countNoun(r.columns, "column", "columns") + ", " + countNoun(r.indexes, "index", "indexes")
		line := fmt.Sprintf("%-*s  %-22s %s", width, r.name, counts, r.engine)
		sb.WriteString(strings.TrimRight(line, " "))
		sb.WriteString("\n")
		columns += r.columns
		indexes += r.indexes
	}

	fmt.Fprintf(&sb, "\nTotal: %s, %s, %s\n",
		countNoun(len(rows), "table", "tables"),
		countNoun(columns, "column", "columns"),
		countNoun(indexes, "index", "indexes"))
	return sb.String()
}
