// Package mysql provides MySQL dialect support: it compiles core table
// descriptions into CREATE TABLE statements with the injected id and timestamp
// columns, type-specific defaults and index clauses.
package mysql

import (
	"fmt"
	"strings"

	"json2sql/internal/core"
	"json2sql/internal/dialect"
)

func init() {
	dialect.RegisterDialect(dialect.MySQL, func() dialect.Dialect {
		return NewMySQLDialect()
	})
}

// Dialect represents the MySQL dialect.
type Dialect struct{}

// NewMySQLDialect initializes a new MySQL dialect instance.
func NewMySQLDialect() *Dialect {
	return &Dialect{}
}

// Name returns the name of the MySQL dialect.
func (d *Dialect) Name() dialect.Type {
	return dialect.MySQL
}

// Generator returns a statement generator bound to prefix.
func (d *Dialect) Generator(prefix string) dialect.Generator {
	return NewMySQLGenerator(prefix)
}

// Generator is a stateless struct for generating MySQL statements. Every
// compiled table is named prefix + key.
type Generator struct {
	prefix string
}

// NewMySQLGenerator initializes a new MySQL generator for the given table-name prefix.
func NewMySQLGenerator(prefix string) *Generator {
	return &Generator{prefix: prefix}
}

// Prefix returns the table-name prefix of the generator.
func (g *Generator) Prefix() string {
	return g.prefix
}

// TableName returns the full table name for a description key.
func (g *Generator) TableName(name string) string {
	return g.prefix + name
}

// Compile merges the injected defaults into t, renders every field and index
// clause in mapping order and assembles the CREATE TABLE statement for
// prefix + name. The input table is never modified; the returned result carries
// a normalized copy.
func (g *Generator) Compile(name string, t *core.Table) (*dialect.Result, error) {
	if t == nil {
		return nil, fmt.Errorf("table %q: description is nil", name)
	}
	merged := mergeDefaults(name, t)

	lines := make([]string, 0, merged.Fields.Len()+merged.Indexes.Len())
	normalized := core.NewOrderedMap[core.Field]()
	for fieldName, f := range merged.Fields.All() {
		line, norm, err := g.columnDefinition(fieldName, f)
		if err != nil {
			return nil, fmt.Errorf("table %q: %w", name, err)
		}
		lines = append(lines, line)
		normalized.Set(fieldName, norm)
	}
	merged.Fields = normalized

	for indexName, idx := range merged.Indexes.All() {
		line, err := g.indexDefinition(indexName, idx)
		if err != nil {
			return nil, fmt.Errorf("table %q: %w", name, err)
		}
		lines = append(lines, line)
	}

	full := g.TableName(name)
	stmt := fmt.Sprintf("CREATE TABLE %s (\n  %s \n) ENGINE=%s COMMENT=%s;",
		g.QuoteIdentifier(full), strings.Join(lines, ",\n  "), merged.Engine(), g.QuoteString(merged.Comment))

	return &dialect.Result{
		Name:       name,
		Table:      full,
		Statement:  stmt,
		Normalized: merged,
	}, nil
}

// GenerateDropTable generates an SQL statement to drop a table if it exists.
func (g *Generator) GenerateDropTable(table string) string {
	return fmt.Sprintf("DROP TABLE IF EXISTS %s;", g.QuoteIdentifier(table))
}

// QuoteIdentifier is a function used for quote identification inside an SQL dialect.
func (g *Generator) QuoteIdentifier(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, "`", "``")
	return "`" + name + "`"
}

// QuoteString is a function used for quote string inside an SQL dialect.
func (g *Generator) QuoteString(value string) string {
	var b strings.Builder
	b.Grow(len(value) + len(value)/10 + 2)

	b.WriteByte('\'')
	for _, char := range value {
		switch char {
		case '\'':
			b.WriteString("''")
		case '\\':
			b.WriteString(`\\`)
		case '\x00':
			b.WriteString(`\0`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\x1A': // Ctrl+Z
			b.WriteString(`\Z`)
		default:
			b.WriteRune(char)
		}
	}
	b.WriteByte('\'')
	return b.String()
}

// mergeDefaults builds the effective description: the id column leads, caller
// fields follow in caller order, then update_time and create_time unless the
// caller already placed them. A caller entry under a reserved key replaces the
// default content without moving it.
func mergeDefaults(name string, t *core.Table) *core.Table {
	src := t.Clone()
	id := core.PrimaryKeyName(name)

	merged := &core.Table{
		Comment: src.Comment,
		MyISAM:  src.MyISAM,
		Fields:  core.NewOrderedMap[core.Field](),
		Indexes: core.NewOrderedMap[core.Index](),
	}

	merged.Fields.Set(id, &core.IntegerField{Comment: "主键", AutoIncrement: core.Bool(true)})
	for fieldName, f := range src.Fields.All() {
		merged.Fields.Set(fieldName, f)
	}
	for fieldName, f := range tailFields().All() {
		if !merged.Fields.Has(fieldName) {
			merged.Fields.Set(fieldName, f)
		}
	}

	merged.Indexes.Set(id, &core.PrimaryIndex{})
	for indexName, idx := range src.Indexes.All() {
		merged.Indexes.Set(indexName, idx)
	}
	return merged
}

func tailFields() *core.OrderedMap[core.Field] {
	m := core.NewOrderedMap[core.Field]()
	m.Set(core.UpdateTimeColumn, &core.DatetimeField{Comment: "更新时间", IsUpdateCurr: core.Bool(true)})
	m.Set(core.CreateTimeColumn, &core.DatetimeField{Comment: "创建时间", Default: core.Value(core.CurrentTime)})
	return m
}
