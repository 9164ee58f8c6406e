package core

import (
	"errors"
	"fmt"
	"strings"
)

const (
	maxIdentifierLength = 64
	maxDecimalPrecision = 65
	maxDecimalScale     = 30
)

// Validate runs structural checks on a table description registered under name.
// The injected id, update_time and create_time columns count as declared, so
// indexes may reference them. It returns the first error encountered.
//
// Compilation does not call Validate: a description that fails here can still be
// compiled, it will just be rejected by the server.
func (t *Table) Validate(name string) error {
	if t == nil {
		return errors.New("table is nil")
	}
	if err := validateName(name); err != nil {
		return fmt.Errorf("table %w", err)
	}
	if strings.TrimSpace(t.Comment) == "" {
		return fmt.Errorf("table %q: comment is required", name)
	}

	for fieldName, f := range t.Fields.All() {
		if err := validateName(fieldName); err != nil {
			return fmt.Errorf("table %q: field %w", name, err)
		}
		if err := validateField(f); err != nil {
			return fmt.Errorf("table %q: field %q: %w", name, fieldName, err)
		}
	}

	for indexName, idx := range t.Indexes.All() {
		if err := t.validateIndex(name, indexName, idx); err != nil {
			return fmt.Errorf("table %q: index %q: %w", name, indexName, err)
		}
	}
	return nil
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("name is empty")
	}
	if len(name) > maxIdentifierLength {
		return fmt.Errorf("%q exceeds maximum length %d", name, maxIdentifierLength)
	}
	return nil
}

func validateField(f Field) error {
	switch v := f.(type) {
	case *EnumField, *IntegerField, *TextField, *DatetimeField:
		return nil
	case *NumberField:
		return validateDecimal(v)
	case *StringField:
		if v.Length <= 0 {
			return fmt.Errorf("string length must be positive, got %d", v.Length)
		}
		return nil
	case *CustomField:
		if strings.TrimSpace(v.Raw) == "" {
			return errors.New("custom field has an empty definition")
		}
		return nil
	case nil:
		return fmt.Errorf("%w: <nil>", ErrUnsupportedFieldType)
	default:
		return fmt.Errorf("%w %q", ErrUnsupportedFieldType, f.Type())
	}
}

func validateDecimal(f *NumberField) error {
	total, fraction := 10, 2
	if f.PrecisionTotal != nil {
		total = *f.PrecisionTotal
	}
	if f.PrecisionFraction != nil {
		fraction = *f.PrecisionFraction
	}
	if total < 1 || total > maxDecimalPrecision {
		return fmt.Errorf("decimal precision %d out of range 1..%d", total, maxDecimalPrecision)
	}
	if fraction < 0 || fraction > maxDecimalScale {
		return fmt.Errorf("decimal scale %d out of range 0..%d", fraction, maxDecimalScale)
	}
	if fraction > total {
		return fmt.Errorf("decimal scale %d exceeds precision %d", fraction, total)
	}
	return nil
}

func (t *Table) validateIndex(table, indexName string, idx Index) error {
	var cols []string
	switch v := idx.(type) {
	case *PrimaryIndex:
		cols = []string{indexName}
	case *UniqueIndex:
		cols = v.Fields
	case *NormalIndex:
		cols = v.Fields
	case nil:
		return fmt.Errorf("%w: <nil>", ErrUnsupportedIndexType)
	default:
		return fmt.Errorf("%w %q", ErrUnsupportedIndexType, idx.Type())
	}

	if len(cols) == 0 {
		return errors.New("index has no columns")
	}
	for _, col := range cols {
		if !t.declares(table, col) {
			return fmt.Errorf("references nonexistent column %q", col)
		}
	}
	return nil
}

func (t *Table) declares(table, col string) bool {
	switch col {
	case PrimaryKeyName(table), UpdateTimeColumn, CreateTimeColumn:
		return true
	}
	return t.Fields.Has(col)
}
