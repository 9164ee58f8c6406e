// Package core contains the single source of truth for a table description.
// It provides the structured representation of tables, fields and indexes that
// the loaders produce and the MySQL generator consumes.
package core

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnsupportedFieldType is returned when a field carries a tag outside the known set.
	ErrUnsupportedFieldType = errors.New("unsupported field type")
	// ErrUnsupportedIndexType is returned when an index carries a tag outside the known set.
	ErrUnsupportedIndexType = errors.New("unsupported index type")
)

// Reserved column names injected into every table.
const (
	UpdateTimeColumn = "update_time"
	CreateTimeColumn = "create_time"
)

// CurrentTime is the datetime default sentinel mapped to CURRENT_TIMESTAMP.
const CurrentTime = "curr"

// Table represents one logical table description.
type Table struct {
	Comment string             `json:"comment"`
	Fields  *OrderedMap[Field] `json:"fields,omitempty"`
	Indexes *OrderedMap[Index] `json:"indexes,omitempty"`
	MyISAM  bool               `json:"isMyisam"`
}

// NewTable returns a table with empty field and index mappings.
func NewTable(comment string) *Table {
	return &Table{
		Comment: comment,
		Fields:  NewOrderedMap[Field](),
		Indexes: NewOrderedMap[Index](),
	}
}

// Engine returns the storage engine tag for the table.
func (t *Table) Engine() string {
	if t.MyISAM {
		return "myisam"
	}
	return "innodb"
}

// PrimaryKeyName returns the name of the injected primary key column for a table key.
func PrimaryKeyName(name string) string {
	return name + "_id"
}

// String returns a short representation of a table with field and index counts.
func (t *Table) String() string {
	return fmt.Sprintf("Table: %s (%d fields, %d indexes)", t.Comment, t.Fields.Len(), t.Indexes.Len())
}

// Clone returns a deep copy of the table so callers can normalize without touching the input.
func (t *Table) Clone() *Table {
	if t == nil {
		return nil
	}
	c := &Table{
		Comment: t.Comment,
		MyISAM:  t.MyISAM,
		Fields:  NewOrderedMap[Field](),
		Indexes: NewOrderedMap[Index](),
	}
	for name, f := range t.Fields.All() {
		c.Fields.Set(name, cloneField(f))
	}
	for name, idx := range t.Indexes.All() {
		c.Indexes.Set(name, cloneIndex(idx))
	}
	return c
}

// FieldType is an ENUM with all field tags.
type FieldType string

const (
	FieldEnum     FieldType = "enum"
	FieldInteger  FieldType = "integer"
	FieldNumber   FieldType = "number"
	FieldString   FieldType = "string"
	FieldText     FieldType = "text"
	FieldDatetime FieldType = "datetime"
	FieldCustom   FieldType = "custom"
)

// SupportedFieldTypes returns all recognized field tags.
func SupportedFieldTypes() []FieldType {
	return []FieldType{FieldEnum, FieldInteger, FieldNumber, FieldString, FieldText, FieldDatetime, FieldCustom}
}

// ParseFieldType maps a raw tag to a FieldType.
func ParseFieldType(raw string) (FieldType, error) {
	for _, ft := range SupportedFieldTypes() {
		if strings.EqualFold(string(ft), strings.TrimSpace(raw)) {
			return ft, nil
		}
	}
	return "", fmt.Errorf("%w %q; supported: %v", ErrUnsupportedFieldType, raw, SupportedFieldTypes())
}

// Field is one column description. The generator switches over the concrete types below
// and rejects anything else with ErrUnsupportedFieldType.
type Field interface {
	Type() FieldType
}

// EnumField is a boolean-style tinyint(1) column.
type EnumField struct {
	Comment string         `json:"comment"`
	Signed  *bool          `json:"signed,omitempty"`
	IsNull  *bool          `json:"isNull,omitempty"`
	Default Default[int64] `json:"default,omitzero"`
}

// IntegerField is an int(11) column.
type IntegerField struct {
	Comment       string         `json:"comment"`
	Signed        *bool          `json:"signed,omitempty"`
	IsNull        *bool          `json:"isNull,omitempty"`
	Default       Default[int64] `json:"default,omitzero"`
	AutoIncrement *bool          `json:"autoIncrement,omitempty"`
}

// NumberField is a fixed point decimal column.
type NumberField struct {
	Comment           string           `json:"comment"`
	PrecisionTotal    *int             `json:"per1,omitempty"`
	PrecisionFraction *int             `json:"per2,omitempty"`
	Signed            *bool            `json:"signed,omitempty"`
	IsNull            *bool            `json:"isNull,omitempty"`
	Default           Default[float64] `json:"default,omitzero"`
}

// StringField is a varchar column bounded by Length.
type StringField struct {
	Length  int             `json:"length"`
	Comment string          `json:"comment"`
	IsNull  *bool           `json:"isNull,omitempty"`
	Default Default[string] `json:"default,omitzero"`
}

// TextField is an unbounded text column.
type TextField struct {
	Comment string `json:"comment"`
}

// DatetimeField is a datetime column. A Default of CurrentTime renders CURRENT_TIMESTAMP.
type DatetimeField struct {
	Comment      string          `json:"comment"`
	IsNull       *bool           `json:"isNull,omitempty"`
	IsUpdateCurr *bool           `json:"isUpdateCurr,omitempty"`
	Default      Default[string] `json:"default,omitzero"`
}

// CustomField is an opaque column definition without the column name,
// e.g. "date NULL COMMENT 'day'".
type CustomField struct {
	Raw string `json:"rawStr"`
}

func (*EnumField) Type() FieldType     { return FieldEnum }
func (*IntegerField) Type() FieldType  { return FieldInteger }
func (*NumberField) Type() FieldType   { return FieldNumber }
func (*StringField) Type() FieldType   { return FieldString }
func (*TextField) Type() FieldType     { return FieldText }
func (*DatetimeField) Type() FieldType { return FieldDatetime }
func (*CustomField) Type() FieldType   { return FieldCustom }

// IndexType is an ENUM with all index tags.
type IndexType string

const (
	IndexPrimary IndexType = "primary"
	IndexUnique  IndexType = "unique"
	IndexNormal  IndexType = "normal"
)

// SupportedIndexTypes returns all recognized index tags.
func SupportedIndexTypes() []IndexType {
	return []IndexType{IndexPrimary, IndexUnique, IndexNormal}
}

// ParseIndexType maps a raw tag to an IndexType.
func ParseIndexType(raw string) (IndexType, error) {
	for _, it := range SupportedIndexTypes() {
		if strings.EqualFold(string(it), strings.TrimSpace(raw)) {
			return it, nil
		}
	}
	return "", fmt.Errorf("%w %q; supported: %v", ErrUnsupportedIndexType, raw, SupportedIndexTypes())
}

// Index is one index description.
type Index interface {
	Type() IndexType
}

// PrimaryIndex covers the column named by its own key.
type PrimaryIndex struct{}

// UniqueIndex is a unique key over one or more columns in the given order.
type UniqueIndex struct {
	Fields  []string `json:"fields"`
	Comment string   `json:"comment"`
}

// NormalIndex is a plain key over one or more columns in the given order.
type NormalIndex struct {
	Fields  []string `json:"fields"`
	Comment string   `json:"comment"`
}

func (*PrimaryIndex) Type() IndexType { return IndexPrimary }
func (*UniqueIndex) Type() IndexType  { return IndexUnique }
func (*NormalIndex) Type() IndexType  { return IndexNormal }

func cloneField(f Field) Field {
	switch v := f.(type) {
	case *EnumField:
		c := *v
		c.Signed, c.IsNull = cloneBool(v.Signed), cloneBool(v.IsNull)
		return &c
	case *IntegerField:
		c := *v
		c.Signed, c.IsNull, c.AutoIncrement = cloneBool(v.Signed), cloneBool(v.IsNull), cloneBool(v.AutoIncrement)
		return &c
	case *NumberField:
		c := *v
		c.Signed, c.IsNull = cloneBool(v.Signed), cloneBool(v.IsNull)
		c.PrecisionTotal, c.PrecisionFraction = cloneInt(v.PrecisionTotal), cloneInt(v.PrecisionFraction)
		return &c
	case *StringField:
		c := *v
		c.IsNull = cloneBool(v.IsNull)
		return &c
	case *TextField:
		c := *v
		return &c
	case *DatetimeField:
		c := *v
		c.IsNull, c.IsUpdateCurr = cloneBool(v.IsNull), cloneBool(v.IsUpdateCurr)
		return &c
	case *CustomField:
		c := *v
		return &c
	default:
		return f
	}
}

func cloneIndex(idx Index) Index {
	switch v := idx.(type) {
	case *PrimaryIndex:
		return &PrimaryIndex{}
	case *UniqueIndex:
		return &UniqueIndex{Fields: append([]string(nil), v.Fields...), Comment: v.Comment}
	case *NormalIndex:
		return &NormalIndex{Fields: append([]string(nil), v.Fields...), Comment: v.Comment}
	default:
		return idx
	}
}

func cloneBool(b *bool) *bool {
	if b == nil {
		return nil
	}
	v := *b
	return &v
}

func cloneInt(i *int) *int {
	if i == nil {
		return nil
	}
	v := *i
	return &v
}

// Bool returns a pointer to b.
func Bool(b bool) *bool { return &b }

// Int returns a pointer to i.
func Int(i int) *int { return &i }
