// Package patch provides optional field wrappers for partial-update payloads.
//
// Field[T] distinguishes "absent" from "set"; Nullable[T] additionally
// distinguishes an explicit JSON null from both.
package patch

import (
	"bytes"
	"encoding/json"
	"reflect"
)

// Optional is implemented by every wrapper so decoders can inspect the wrapped type.
type Optional interface {
	ElemType() reflect.Type
	AcceptsNull() bool
	// Interface returns the wrapped value, or nil when absent or null.
	Interface() interface{}
}

var null = []byte("null")

// Field is an optional, non-nullable value.
type Field[T any] struct {
	Set   bool
	Value T
}

// Of returns a set Field holding v.
func Of[T any](v T) Field[T] {
	return Field[T]{Set: true, Value: v}
}

// UnmarshalJSON marks the field as present and decodes the value.
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Set = true
	if bytes.Equal(bytes.TrimSpace(data), null) {
		var zero T
		f.Value = zero
		return nil
	}
	return json.Unmarshal(data, &f.Value)
}

// MarshalJSON renders the value, or null when absent.
func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.Set {
		return null, nil
	}
	return json.Marshal(f.Value)
}

// Apply copies the value into dst when the field was provided.
func (f Field[T]) Apply(dst *T) bool {
	if !f.Set {
		return false
	}
	*dst = f.Value
	return true
}

func (f Field[T]) ElemType() reflect.Type { return reflect.TypeOf((*T)(nil)).Elem() }

func (f Field[T]) AcceptsNull() bool { return false }

func (f Field[T]) Interface() interface{} {
	if !f.Set {
		return nil
	}
	return f.Value
}

// Nullable is an optional value that may be explicitly cleared with null.
type Nullable[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// Null returns a set Nullable holding an explicit null.
func Null[T any]() Nullable[T] {
	return Nullable[T]{Set: true, Null: true}
}

// OfNullable returns a set, non-null Nullable holding v.
func OfNullable[T any](v T) Nullable[T] {
	return Nullable[T]{Set: true, Value: v}
}

// UnmarshalJSON marks the field as present and records explicit nulls.
func (n *Nullable[T]) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(data), null) {
		n.Null = true
		var zero T
		n.Value = zero
		return nil
	}
	n.Null = false
	return json.Unmarshal(data, &n.Value)
}

// MarshalJSON renders the value, or null when absent or cleared.
func (n Nullable[T]) MarshalJSON() ([]byte, error) {
	if !n.Set || n.Null {
		return null, nil
	}
	return json.Marshal(n.Value)
}

// Apply updates dst when the field was provided; an explicit null clears it.
func (n Nullable[T]) Apply(dst **T) bool {
	if !n.Set {
		return false
	}
	if n.Null {
		*dst = nil
		return true
	}
	v := n.Value
	*dst = &v
	return true
}

func (n Nullable[T]) ElemType() reflect.Type { return reflect.TypeOf((*T)(nil)).Elem() }

func (n Nullable[T]) AcceptsNull() bool { return true }

func (n Nullable[T]) Interface() interface{} {
	if !n.Set || n.Null {
		return nil
	}
	return n.Value
}
