package mysql

import (
	"strings"

	"github.com/pingcap/tidb/pkg/parser"
	"github.com/pingcap/tidb/pkg/parser/ast"
)

// StatementAnalysis describes the effect of one statement on stored data.
type StatementAnalysis struct {
	StatementType     string
	IsDestructive     bool
	DestructiveReason string
	// Tables lists the tables the statement touches.
	Tables []string
}

// StatementAnalyzer classifies statements with the TiDB AST.
type StatementAnalyzer struct {
	parser *parser.Parser
}

// NewStatementAnalyzer creates a new AST-based statement analyzer.
func NewStatementAnalyzer() *StatementAnalyzer {
	return &StatementAnalyzer{
		parser: parser.New(),
	}
}

// AnalyzeStatement parses a single SQL statement and returns analysis results.
// Statements the parser rejects fall back to keyword matching.
func (a *StatementAnalyzer) AnalyzeStatement(sql string) *StatementAnalysis {
	stmtNodes, _, err := a.parser.Parse(sql, "", "")
	if err != nil {
		return analyzeKeywords(sql)
	}
	if len(stmtNodes) == 0 {
		return &StatementAnalysis{}
	}
	return analyzeNode(stmtNodes[0], sql)
}

func analyzeNode(node ast.StmtNode, sql string) *StatementAnalysis {
	switch stmt := node.(type) {
	case *ast.DropTableStmt:
		return &StatementAnalysis{
			StatementType:     "DROP TABLE",
			IsDestructive:     true,
			DestructiveReason: "DROP TABLE will permanently delete the table and all its data",
			Tables:            tableNames(stmt.Tables),
		}
	case *ast.DropDatabaseStmt:
		return &StatementAnalysis{
			StatementType:     "DROP DATABASE",
			IsDestructive:     true,
			DestructiveReason: "DROP DATABASE will permanently delete the entire database",
		}
	case *ast.TruncateTableStmt:
		return &StatementAnalysis{
			StatementType:     "TRUNCATE TABLE",
			IsDestructive:     true,
			DestructiveReason: "TRUNCATE TABLE will delete all rows from the table",
			Tables:            tableNames([]*ast.TableName{stmt.Table}),
		}
	case *ast.DeleteStmt:
		return &StatementAnalysis{
			StatementType:     "DELETE",
			IsDestructive:     true,
			DestructiveReason: "DELETE will remove rows from the table",
		}
	case *ast.CreateTableStmt:
		return &StatementAnalysis{
			StatementType: "CREATE TABLE",
			Tables:        tableNames([]*ast.TableName{stmt.Table}),
		}
	case *ast.AlterTableStmt:
		a := &StatementAnalysis{
			StatementType: "ALTER TABLE",
			Tables:        tableNames([]*ast.TableName{stmt.Table}),
		}
		for _, spec := range stmt.Specs {
			if spec.Tp == ast.AlterTableDropColumn {
				a.IsDestructive = true
				a.DestructiveReason = "DROP COLUMN will permanently delete the column and its data"
			}
		}
		return a
	default:
		return analyzeKeywords(sql)
	}
}

func analyzeKeywords(sql string) *StatementAnalysis {
	upper := strings.ToUpper(strings.TrimSpace(sql))
	switch {
	case strings.HasPrefix(upper, "DROP "):
		return &StatementAnalysis{
			StatementType:     "DROP",
			IsDestructive:     true,
			DestructiveReason: "DROP will permanently delete the object",
		}
	case strings.HasPrefix(upper, "CREATE "):
		return &StatementAnalysis{StatementType: "CREATE"}
	default:
		return &StatementAnalysis{StatementType: "OTHER"}
	}
}

func tableNames(tables []*ast.TableName) []string {
	names := make([]string, 0, len(tables))
	for _, t := range tables {
		if t != nil {
			names = append(names, t.Name.O)
		}
	}
	return names
}
