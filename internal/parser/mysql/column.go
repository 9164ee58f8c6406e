package mysql

import (
	"strings"

	"github.com/pingcap/tidb/pkg/parser/ast"
	"github.com/pingcap/tidb/pkg/parser/format"
)

// ColumnSummary is one column of a parsed CREATE TABLE statement.
type ColumnSummary struct {
	Name          string  `json:"name"`
	Type          string  `json:"type"`
	Nullable      bool    `json:"nullable"`
	Default       *string `json:"default,omitempty"`
	AutoIncrement bool    `json:"autoIncrement,omitempty"`
	OnUpdate      *string `json:"onUpdate,omitempty"`
	Comment       string  `json:"comment,omitempty"`
}

type IndexKind string

const (
	IndexPrimary IndexKind = "PRIMARY"
	IndexUnique  IndexKind = "UNIQUE"
	IndexKey     IndexKind = "KEY"
)

// IndexSummary is one index of a parsed CREATE TABLE statement.
type IndexSummary struct {
	Name    string    `json:"name,omitempty"`
	Kind    IndexKind `json:"kind"`
	Columns []string  `json:"columns"`
	Comment string    `json:"comment,omitempty"`
}

func (p *Parser) parseColumns(cols []*ast.ColumnDef, table *TableSummary) {
	for _, colDef := range cols {
		col := &ColumnSummary{
			Name:     colDef.Name.Name.O,
			Type:     strings.ToLower(colDef.Tp.String()),
			Nullable: true,
		}
		for _, opt := range colDef.Options {
			p.applyColumnOption(table, col, opt)
		}
		table.Columns = append(table.Columns, col)
	}
}

func (p *Parser) applyColumnOption(table *TableSummary, col *ColumnSummary, opt *ast.ColumnOption) {
	if opt == nil {
		return
	}

	switch opt.Tp {
	case ast.ColumnOptionNotNull:
		col.Nullable = false
	case ast.ColumnOptionNull:
		col.Nullable = true
	case ast.ColumnOptionPrimaryKey:
		col.Nullable = false
		table.Indexes = append(table.Indexes, &IndexSummary{Kind: IndexPrimary, Columns: []string{col.Name}})
	case ast.ColumnOptionAutoIncrement:
		col.AutoIncrement = true
	case ast.ColumnOptionDefaultValue:
		col.Default = exprToString(opt.Expr)
	case ast.ColumnOptionOnUpdate:
		col.OnUpdate = exprToString(opt.Expr)
	case ast.ColumnOptionUniqKey:
		table.Indexes = append(table.Indexes, &IndexSummary{Kind: IndexUnique, Columns: []string{col.Name}})
	case ast.ColumnOptionComment:
		if s := exprToString(opt.Expr); s != nil {
			col.Comment = *s
		}
	}
}

func (p *Parser) parseConstraints(constraints []*ast.Constraint, table *TableSummary) {
	for _, constraint := range constraints {
		idx := &IndexSummary{Name: constraint.Name}
		for _, key := range constraint.Keys {
			if key.Column != nil {
				idx.Columns = append(idx.Columns, key.Column.Name.O)
			}
		}
		if constraint.Option != nil {
			idx.Comment = constraint.Option.Comment
		}

		switch constraint.Tp {
		case ast.ConstraintPrimaryKey:
			idx.Kind = IndexPrimary
			idx.Name = "PRIMARY"
			for _, name := range idx.Columns {
				if col := table.FindColumn(name); col != nil {
					col.Nullable = false
				}
			}
		case ast.ConstraintUniq, ast.ConstraintUniqKey, ast.ConstraintUniqIndex:
			idx.Kind = IndexUnique
		case ast.ConstraintIndex, ast.ConstraintKey:
			idx.Kind = IndexKey
		default:
			continue
		}
		table.Indexes = append(table.Indexes, idx)
	}
}

func exprToString(expr ast.ExprNode) *string {
	if expr == nil {
		return nil
	}

	var sb strings.Builder
	restoreCtx := format.NewRestoreCtx(format.DefaultRestoreFlags, &sb)
	if err := expr.Restore(restoreCtx); err != nil {
		return nil
	}
	s := strings.TrimSpace(sb.String())

	if unquoted, ok := tryUnquoteSQLStringLiteral(s); ok {
		return &unquoted
	}

	return &s
}

func tryUnquoteSQLStringLiteral(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[len(s)-1] != '\'' {
		return "", false
	}

	if s[0] == '\'' {
		return strings.ReplaceAll(s[1:len(s)-1], "''", "'"), true
	}

	q := strings.IndexByte(s, '\'')
	if q <= 0 {
		return "", false
	}
	prefix := strings.TrimSpace(s[:q])
	if !isSQLStringIntroducer(prefix) {
		return "", false
	}
	inner := s[q+1 : len(s)-1]
	return strings.ReplaceAll(inner, "''", "'"), true
}

// isSQLStringIntroducer reports whether prefix is N or a charset introducer like _utf8mb4.
func isSQLStringIntroducer(prefix string) bool {
	if strings.EqualFold(prefix, "N") {
		return true
	}
	if !strings.HasPrefix(prefix, "_") || len(prefix) == 1 {
		return false
	}
	for _, r := range prefix[1:] {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '_':
		default:
			return false
		}
	}
	return true
}
