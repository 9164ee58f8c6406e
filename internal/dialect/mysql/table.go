package mysql

import (
	"fmt"
	"strings"

	"json2sql/internal/core"
)

const (
	uniqueIndexPrefix = "uni:"
	normalIndexPrefix = "nor:"
)

// columnDefinition resolves the optional attributes of f and renders its clause.
// It returns the clause together with the normalized field.
func (g *Generator) columnDefinition(name string, f core.Field) (string, core.Field, error) {
	switch v := f.(type) {
	case *core.EnumField:
		n := normalizeEnum(v)
		return joinClause(
			g.QuoteIdentifier(name)+" tinyint(1)",
			unsigned(*n.Signed),
			nullability(*n.IsNull),
			defaultClause(n.Default, formatInt),
			g.comment(n.Comment),
		), n, nil
	case *core.IntegerField:
		n := normalizeInteger(v)
		def := defaultClause(n.Default, formatInt)
		auto := ""
		if *n.AutoIncrement {
			def, auto = "", "AUTO_INCREMENT"
		}
		return joinClause(
			g.QuoteIdentifier(name)+" int(11)",
			unsigned(*n.Signed),
			nullability(*n.IsNull),
			def,
			auto,
			g.comment(n.Comment),
		), n, nil
	case *core.NumberField:
		n := normalizeNumber(v)
		return joinClause(
			fmt.Sprintf("%s decimal(%d, %d)", g.QuoteIdentifier(name), *n.PrecisionTotal, *n.PrecisionFraction),
			unsigned(*n.Signed),
			nullability(*n.IsNull),
			defaultClause(n.Default, formatFloat),
			g.comment(n.Comment),
		), n, nil
	case *core.StringField:
		n := normalizeString(v)
		return joinClause(
			fmt.Sprintf("%s varchar(%d)", g.QuoteIdentifier(name), n.Length),
			nullability(*n.IsNull),
			defaultClause(n.Default, g.QuoteString),
			g.comment(n.Comment),
		), n, nil
	case *core.TextField:
		n := *v
		return joinClause(g.QuoteIdentifier(name)+" text", g.comment(n.Comment)), &n, nil
	case *core.DatetimeField:
		n := normalizeDatetime(v)
		onUpdate := ""
		if *n.IsUpdateCurr {
			onUpdate = "ON UPDATE CURRENT_TIMESTAMP"
		}
		return joinClause(
			g.QuoteIdentifier(name)+" datetime",
			nullability(*n.IsNull || *n.IsUpdateCurr),
			defaultClause(n.Default, g.formatDatetime),
			onUpdate,
			g.comment(n.Comment),
		), n, nil
	case *core.CustomField:
		n := &core.CustomField{Raw: strings.TrimSpace(v.Raw)}
		return joinClause(g.QuoteIdentifier(name), n.Raw), n, nil
	case nil:
		return "", nil, fmt.Errorf("field %q: %w: <nil>", name, core.ErrUnsupportedFieldType)
	default:
		return "", nil, fmt.Errorf("field %q: %w %q", name, core.ErrUnsupportedFieldType, f.Type())
	}
}

// indexDefinition renders an index clause. Unique and normal index names are
// namespaced so the two kinds never collide.
func (g *Generator) indexDefinition(name string, idx core.Index) (string, error) {
	switch v := idx.(type) {
	case *core.PrimaryIndex:
		return fmt.Sprintf("PRIMARY KEY (%s)", g.QuoteIdentifier(name)), nil
	case *core.UniqueIndex:
		return fmt.Sprintf("UNIQUE KEY %s (%s) COMMENT %s",
			g.QuoteIdentifier(uniqueIndexPrefix+name), g.formatIndexFields(v.Fields), g.QuoteString(v.Comment)), nil
	case *core.NormalIndex:
		return fmt.Sprintf("KEY %s (%s) COMMENT %s",
			g.QuoteIdentifier(normalIndexPrefix+name), g.formatIndexFields(v.Fields), g.QuoteString(v.Comment)), nil
	case nil:
		return "", fmt.Errorf("index %q: %w: <nil>", name, core.ErrUnsupportedIndexType)
	default:
		return "", fmt.Errorf("index %q: %w %q", name, core.ErrUnsupportedIndexType, idx.Type())
	}
}

func (g *Generator) comment(c string) string {
	return "COMMENT " + g.QuoteString(c)
}

func normalizeEnum(f *core.EnumField) *core.EnumField {
	return &core.EnumField{
		Comment: f.Comment,
		Signed:  core.Bool(boolOr(f.Signed, false)),
		IsNull:  core.Bool(boolOr(f.IsNull, false)),
		Default: f.Default.Or(0),
	}
}

func normalizeInteger(f *core.IntegerField) *core.IntegerField {
	return &core.IntegerField{
		Comment:       f.Comment,
		Signed:        core.Bool(boolOr(f.Signed, false)),
		IsNull:        core.Bool(boolOr(f.IsNull, false)),
		Default:       f.Default.Or(0),
		AutoIncrement: core.Bool(boolOr(f.AutoIncrement, false)),
	}
}

func normalizeNumber(f *core.NumberField) *core.NumberField {
	return &core.NumberField{
		Comment:           f.Comment,
		PrecisionTotal:    core.Int(intOr(f.PrecisionTotal, 10)),
		PrecisionFraction: core.Int(intOr(f.PrecisionFraction, 2)),
		Signed:            core.Bool(boolOr(f.Signed, false)),
		IsNull:            core.Bool(boolOr(f.IsNull, false)),
		Default:           f.Default.Or(0),
	}
}

func normalizeString(f *core.StringField) *core.StringField {
	return &core.StringField{
		Length:  f.Length,
		Comment: f.Comment,
		IsNull:  core.Bool(boolOr(f.IsNull, false)),
		Default: f.Default.Or(""),
	}
}

// normalizeDatetime treats an unset or empty default as null.
func normalizeDatetime(f *core.DatetimeField) *core.DatetimeField {
	def := f.Default
	if v, ok := def.Get(); !ok || v == "" {
		def = core.Null[string]()
	}
	return &core.DatetimeField{
		Comment:      f.Comment,
		IsNull:       core.Bool(boolOr(f.IsNull, false)),
		IsUpdateCurr: core.Bool(boolOr(f.IsUpdateCurr, false)),
		Default:      def,
	}
}

func boolOr(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}

func intOr(i *int, def int) int {
	if i == nil {
		return def
	}
	return *i
}
