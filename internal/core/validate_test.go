package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type blobField struct{}

func (blobField) Type() FieldType { return "blob" }

type spatialIndex struct{}

func (spatialIndex) Type() IndexType { return "spatial" }

func TestValidateTableValid(t *testing.T) {
	tbl := NewTable("用户表")
	tbl.Fields.Set("name", &StringField{Length: 40, Comment: "用户名"})
	tbl.Fields.Set("price", &NumberField{Comment: "价格", PrecisionTotal: Int(8), PrecisionFraction: Int(3)})
	tbl.Indexes.Set("name", &UniqueIndex{Fields: []string{"name"}, Comment: "name"})
	tbl.Indexes.Set("created", &NormalIndex{Fields: []string{"create_time", "user_id"}, Comment: "created"})

	assert.NoError(t, tbl.Validate("user"))
}

func TestValidateTableErrors(t *testing.T) {
	tests := []struct {
		name  string
		table func() *Table
		want  string
	}{
		{
			name:  "missing comment",
			table: func() *Table { return NewTable("  ") },
			want:  "comment is required",
		},
		{
			name: "zero string length",
			table: func() *Table {
				tbl := NewTable("t")
				tbl.Fields.Set("name", &StringField{Comment: "n"})
				return tbl
			},
			want: "string length must be positive",
		},
		{
			name: "decimal scale exceeds precision",
			table: func() *Table {
				tbl := NewTable("t")
				tbl.Fields.Set("p", &NumberField{Comment: "p", PrecisionTotal: Int(2), PrecisionFraction: Int(3)})
				return tbl
			},
			want: "exceeds precision",
		},
		{
			name: "empty custom definition",
			table: func() *Table {
				tbl := NewTable("t")
				tbl.Fields.Set("c", &CustomField{Raw: " "})
				return tbl
			},
			want: "empty definition",
		},
		{
			name: "index on unknown column",
			table: func() *Table {
				tbl := NewTable("t")
				tbl.Indexes.Set("missing", &NormalIndex{Fields: []string{"missing"}, Comment: "m"})
				return tbl
			},
			want: `references nonexistent column "missing"`,
		},
		{
			name: "index without columns",
			table: func() *Table {
				tbl := NewTable("t")
				tbl.Indexes.Set("empty", &UniqueIndex{Comment: "e"})
				return tbl
			},
			want: "index has no columns",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.table().Validate("user")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidateTableUnsupportedTypes(t *testing.T) {
	tbl := NewTable("t")
	tbl.Fields.Set("b", blobField{})
	assert.ErrorIs(t, tbl.Validate("user"), ErrUnsupportedFieldType)

	tbl = NewTable("t")
	tbl.Indexes.Set("s", spatialIndex{})
	assert.ErrorIs(t, tbl.Validate("user"), ErrUnsupportedIndexType)
}

func TestValidateTableNameTooLong(t *testing.T) {
	long := make([]byte, 65)
	for i := range long {
		long[i] = 'a'
	}
	err := NewTable("t").Validate(string(long))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds maximum length 64")
}
