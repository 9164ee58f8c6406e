package core

import "encoding/json"

// Default is the default value of a field. It distinguishes three states:
// unset (the type-specific default applies), explicit null (no DEFAULT clause)
// and an explicit value.
type Default[T any] struct {
	set   bool
	null  bool
	value T
}

// Value returns a Default holding v.
func Value[T any](v T) Default[T] {
	return Default[T]{set: true, value: v}
}

// Null returns an explicit null Default.
func Null[T any]() Default[T] {
	return Default[T]{set: true, null: true}
}

// IsZero reports whether the default is unset.
func (d Default[T]) IsZero() bool { return !d.set }

// IsNull reports whether the default is an explicit null.
func (d Default[T]) IsNull() bool { return d.set && d.null }

// Get returns the value and true when the default holds a value.
func (d Default[T]) Get() (T, bool) {
	if !d.set || d.null {
		var zero T
		return zero, false
	}
	return d.value, true
}

// Or returns d when it is set, otherwise a Default holding def.
func (d Default[T]) Or(def T) Default[T] {
	if d.set {
		return d
	}
	return Value(def)
}

// MarshalJSON encodes unset and null defaults as null.
func (d Default[T]) MarshalJSON() ([]byte, error) {
	v, ok := d.Get()
	if !ok {
		return []byte("null"), nil
	}
	return json.Marshal(v)
}
