package gobox

import (
	"reflect"

	"github.com/broady/gobox/types"
)

// Copy returns a copy of v with by-value assignment semantics.
//
// For a *Struct or *Array, fields (or elements) whose declared type is a
// value kind are copied recursively, and fields of reference kind (pointer,
// slice, map, chan, interface, func) alias the same referent. Copy never
// follows a pointer, so cyclic pointer graphs terminate immediately. All
// other values are returned unchanged.
func Copy(v any) any {
	switch x := v.(type) {
	case *Struct:
		return x.Copy()
	case *Array:
		return x.Copy()
	}
	return v
}

// Copy returns an independent copy of s. The copy carries no box marker.
func (s *Struct) Copy() *Struct {
	if s == nil {
		return nil
	}
	c := &Struct{
		typ:    s.typ,
		fields: make([]any, len(s.fields)),
	}
	for i, f := range s.fields {
		if types.IsValueKind(s.typ.Fields[i].Type) {
			c.fields[i] = Copy(f)
		} else {
			c.fields[i] = f
		}
	}
	return c
}

// Copy returns an independent copy of a.
func (a *Array) Copy() *Array {
	if a == nil {
		return nil
	}
	c := &Array{
		typ:   a.typ,
		elems: make([]any, len(a.elems)),
	}
	deep := types.IsValueKind(a.typ.Elem)
	for i, e := range a.elems {
		if deep {
			c.elems[i] = Copy(e)
		} else {
			c.elems[i] = e
		}
	}
	return c
}

// Equal reports whether a and b are equal values.
//
// Pointers (cells) are equal only when they are the same cell; structs and
// arrays are equal when they have the same type and pairwise equal
// contents; boxed values are equal when their dynamic types are identical
// and their payloads are equal. Values the modeled language cannot compare
// (slices, maps, funcs) are never equal.
func Equal(a, b any) bool {
	switch x := a.(type) {
	case *Cell:
		y, ok := b.(*Cell)
		return ok && x == y
	case *Struct:
		y, ok := b.(*Struct)
		if !ok || x == nil || y == nil {
			return ok && x == y
		}
		if !types.Identical(x.typ, y.typ) || len(x.fields) != len(y.fields) {
			return false
		}
		for i := range x.fields {
			if !Equal(x.fields[i], y.fields[i]) {
				return false
			}
		}
		return true
	case *Array:
		y, ok := b.(*Array)
		if !ok || x == nil || y == nil {
			return ok && x == y
		}
		if !types.Identical(x.typ, y.typ) {
			return false
		}
		for i := range x.elems {
			if !Equal(x.elems[i], y.elems[i]) {
				return false
			}
		}
		return true
	case Boxed:
		y, ok := b.(Boxed)
		if !ok {
			return false
		}
		if x.IsNil() || y.IsNil() {
			return x.IsNil() && y.IsNil()
		}
		return types.Identical(x.Type, y.Type) && Equal(x.Value, y.Value)
	case TypedNil:
		y, ok := b.(TypedNil)
		return ok && types.Identical(x.Static, y.Static)
	}

	if a == nil || b == nil {
		return a == nil && b == nil
	}
	// Host values: compare only when the host can.
	if !reflect.TypeOf(a).Comparable() || !reflect.TypeOf(b).Comparable() {
		return false
	}
	return a == b
}
