// Package mysql reads MySQL DDL with the TiDB parser. It is used to verify
// generated CREATE TABLE statements before they are executed, to summarize
// exported dumps and to classify statements by their effect on data.
package mysql

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pingcap/tidb/pkg/parser"
	"github.com/pingcap/tidb/pkg/parser/ast"
	_ "github.com/pingcap/tidb/pkg/parser/test_driver" // registers the value expression driver
)

// ErrNotCreateTable is returned when the input is not exactly one CREATE TABLE statement.
var ErrNotCreateTable = errors.New("not a single CREATE TABLE statement")

// TableSummary is what a CREATE TABLE statement declares.
type TableSummary struct {
	Name    string           `json:"name"`
	Engine  string           `json:"engine,omitempty"`
	Comment string           `json:"comment,omitempty"`
	Columns []*ColumnSummary `json:"columns"`
	Indexes []*IndexSummary  `json:"indexes,omitempty"`
}

// FindColumn returns the column with the given name, or nil.
func (t *TableSummary) FindColumn(name string) *ColumnSummary {
	for _, c := range t.Columns {
		if strings.EqualFold(c.Name, name) {
			return c
		}
	}
	return nil
}

// PrimaryKey returns the columns of the primary key.
func (t *TableSummary) PrimaryKey() []string {
	for _, idx := range t.Indexes {
		if idx.Kind == IndexPrimary {
			return idx.Columns
		}
	}
	return nil
}

// Parser wraps the TiDB SQL parser. It is not safe for concurrent use.
type Parser struct {
	p *parser.Parser
}

func NewParser() *Parser {
	return &Parser{
		p: parser.New(),
	}
}

// ParseCreateTable parses sql and requires it to hold exactly one CREATE TABLE statement.
func (p *Parser) ParseCreateTable(sql string) (*TableSummary, error) {
	stmtNodes, _, err := p.p.Parse(sql, "", "")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotCreateTable, err)
	}
	if len(stmtNodes) != 1 {
		return nil, fmt.Errorf("%w: found %d statements", ErrNotCreateTable, len(stmtNodes))
	}
	stmt, ok := stmtNodes[0].(*ast.CreateTableStmt)
	if !ok {
		return nil, fmt.Errorf("%w: found %T", ErrNotCreateTable, stmtNodes[0])
	}
	return p.convertCreateTable(stmt), nil
}

// ParseDump parses a sequence of statements, such as an exported schema file,
// and summarizes every CREATE TABLE in order. Other statements are skipped.
func (p *Parser) ParseDump(sql string) ([]*TableSummary, error) {
	stmtNodes, _, err := p.p.Parse(sql, "", "")
	if err != nil {
		return nil, fmt.Errorf("failed to parse MySQL dump: %w", err)
	}

	tables := make([]*TableSummary, 0, len(stmtNodes))
	for _, stmtNode := range stmtNodes {
		if createStmt, ok := stmtNode.(*ast.CreateTableStmt); ok {
			tables = append(tables, p.convertCreateTable(createStmt))
		}
	}
	return tables, nil
}

func (p *Parser) convertCreateTable(stmt *ast.CreateTableStmt) *TableSummary {
	table := &TableSummary{
		Name:    stmt.Table.Name.O,
		Columns: make([]*ColumnSummary, 0, len(stmt.Cols)),
	}

	for _, opt := range stmt.Options {
		switch opt.Tp {
		case ast.TableOptionComment:
			table.Comment = opt.StrValue
		case ast.TableOptionEngine:
			table.Engine = strings.ToLower(opt.StrValue)
		}
	}

	p.parseColumns(stmt.Cols, table)
	p.parseConstraints(stmt.Constraints, table)
	return table
}
