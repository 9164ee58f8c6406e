package output

import (
	"encoding/json"

	"json2sql/internal/dialect"
	mysqlparser "json2sql/internal/parser/mysql"
)

type jsonFormatter struct{}

type tablesSummary struct {
	Tables  int `json:"tables"`
	Columns int `json:"columns"`
	Indexes int `json:"indexes"`
}

type tablesPayload struct {
	Format  string            `json:"format"`
	Summary tablesSummary     `json:"summary"`
	Tables  []*dialect.Result `json:"tables,omitempty"`
}

type dumpPayload struct {
	Format  string                      `json:"format"`
	Summary tablesSummary               `json:"summary"`
	Tables  []*mysqlparser.TableSummary `json:"tables,omitempty"`
}

type Payload interface {
	tablesPayload | dumpPayload
}

func (jsonFormatter) FormatTables(results []*dialect.Result) (string, error) {
	payload := tablesPayload{Format: string(FormatJSON)}
	for _, r := range results {
		if r == nil {
			continue
		}
		payload.Tables = append(payload.Tables, r)
		payload.Summary.Tables++
		if r.Normalized != nil {
			payload.Summary.Columns += r.Normalized.Fields.Len()
			payload.Summary.Indexes += r.Normalized.Indexes.Len()
		}
	}
	return marshalJSON(payload)
}

func (jsonFormatter) FormatDump(tables []*mysqlparser.TableSummary) (string, error) {
	payload := dumpPayload{Format: string(FormatJSON), Tables: tables}
	payload.Summary.Tables = len(tables)
	for _, t := range tables {
		payload.Summary.Columns += len(t.Columns)
		payload.Summary.Indexes += len(t.Indexes)
	}
	return marshalJSON(payload)
}

func marshalJSON[T Payload](payload T) (string, error) {
	b, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b) + "\n", nil
}
