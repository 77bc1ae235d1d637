package gobox

import (
	"fmt"

	"github.com/broady/gobox/types"
)

// Marker records how the most recent box of a struct occurrence was made.
// It is metadata written at the box site, not part of the struct's storage,
// and is never carried over by Copy.
type Marker uint8

const (
	MarkerNone    Marker = iota // never boxed
	MarkerValue                 // boxed as a plain value
	MarkerPointer               // boxed behind a pointer
)

func (m Marker) String() string {
	switch m {
	case MarkerValue:
		return "value"
	case MarkerPointer:
		return "pointer"
	default:
		return "none"
	}
}

// Struct is an instance of a struct type. Fields whose declared type is a
// value kind (struct or array) hold their own *Struct or *Array, owned by
// this instance; reference-kind fields hold shared referents.
type Struct struct {
	typ    *types.Struct
	fields []any
	marker Marker
}

// NewStruct returns an instance of t. Fields are assigned positionally;
// fields not supplied are set to their zero value. Supplying more values than
// t has fields panics.
func NewStruct(t *types.Struct, fields ...any) *Struct {
	if len(fields) > len(t.Fields) {
		panic(fmt.Sprintf("gobox: too many values in %s literal", t))
	}
	s := &Struct{
		typ:    t,
		fields: make([]any, len(t.Fields)),
	}
	copy(s.fields, fields)
	for i := len(fields); i < len(t.Fields); i++ {
		s.fields[i] = Zero(t.Fields[i].Type)
	}
	return s
}

// Type returns the struct's descriptor.
func (s *Struct) Type() *types.Struct { return s.typ }

// Len returns the number of fields.
func (s *Struct) Len() int { return len(s.fields) }

// Field returns the value of the i'th field.
func (s *Struct) Field(i int) any { return s.fields[i] }

// SetField stores v in the i'th field.
func (s *Struct) SetField(i int, v any) { s.fields[i] = v }

// FieldByName returns the value of the named field.
func (s *Struct) FieldByName(name string) (any, bool) {
	i := s.typ.FieldIndex(name)
	if i < 0 {
		return nil, false
	}
	return s.fields[i], true
}

// SetFieldByName stores v in the named field. It reports whether the field
// exists.
func (s *Struct) SetFieldByName(name string, v any) bool {
	i := s.typ.FieldIndex(name)
	if i < 0 {
		return false
	}
	s.fields[i] = v
	return true
}

// Marker returns how this occurrence was most recently boxed.
func (s *Struct) Marker() Marker { return s.marker }

func (s *Struct) String() string {
	return fmt.Sprintf("%s%v", s.typ, s.fields)
}

// Array is an instance of a fixed-length array type. Like Struct it has
// value semantics: assignment copies it.
type Array struct {
	typ   *types.Array
	elems []any
}

// NewArray returns an instance of t. Elements not supplied are set to the
// zero value of the element type.
func NewArray(t *types.Array, elems ...any) *Array {
	if len(elems) > t.Len {
		panic(fmt.Sprintf("gobox: index %d out of bounds in %s literal", t.Len, t))
	}
	a := &Array{
		typ:   t,
		elems: make([]any, t.Len),
	}
	copy(a.elems, elems)
	for i := len(elems); i < t.Len; i++ {
		a.elems[i] = Zero(t.Elem)
	}
	return a
}

// Type returns the array's descriptor.
func (a *Array) Type() *types.Array { return a.typ }

// Len returns the array length.
func (a *Array) Len() int { return len(a.elems) }

// Index returns the i'th element.
func (a *Array) Index(i int) any { return a.elems[i] }

// SetIndex stores v at index i.
func (a *Array) SetIndex(i int, v any) { a.elems[i] = v }

func (a *Array) String() string {
	return fmt.Sprintf("%s%v", a.typ, a.elems)
}
