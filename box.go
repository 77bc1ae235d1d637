package gobox

import (
	"fmt"

	"github.com/broady/gobox/types"
)

// Boxed is a value held in an interface-typed slot: a dynamic type paired
// with a payload. The zero Boxed is the nil interface. A Boxed whose payload
// is a TypedNil is not nil: it has a dynamic pointer type.
type Boxed struct {
	Type  types.Type
	Value any
}

// IsNil reports whether b is the nil interface, with no dynamic type.
func (b Boxed) IsNil() bool { return b.Type == nil }

func (b Boxed) String() string {
	if b.IsNil() {
		return "<nil>"
	}
	return fmt.Sprintf("(%s) %v", b.Type, b.Value)
}

// TypedNil is the payload of a boxed nil pointer. Static is the pointee type;
// the box's dynamic type is Pointer(Static).
type TypedNil struct {
	Static types.Type
}

func (n TypedNil) String() string {
	return "(*" + types.TypeString(n.Static) + ")(nil)"
}

// Box converts v, a value of static type static, into an interface value.
// It is called at every point where a concrete value flows into an
// interface-typed destination.
//
//   - A pointer type boxes a *Cell. A nil cell becomes a TypedNil payload, so
//     the interface is non-nil. A struct held in a non-nil cell is marked
//     MarkerPointer.
//   - A struct or array type boxes a copy of v marked MarkerValue.
//   - An interface type requires v to already be a Boxed (or nil), which is
//     passed through unchanged.
//   - Anything else is boxed as is.
//
// Box panics with CodeInvalidBox if v does not fit static.
func Box(static types.Type, v any) Boxed {
	if static == nil {
		panic(NewError(CodeInvalidBox, "cannot box a value with no static type"))
	}

	switch t := types.Underlying(static).(type) {
	case *types.Pointer:
		var c *Cell
		switch x := v.(type) {
		case nil:
		case *Cell:
			c = x
		case TypedNil:
			return Boxed{Type: static, Value: x}
		default:
			panic(Errorf(CodeInvalidBox, "cannot box %T as %s", v, static))
		}
		if c == nil {
			return Boxed{Type: static, Value: TypedNil{Static: t.Elem}}
		}
		if s, ok := c.v.(*Struct); ok {
			s.marker = MarkerPointer
		}
		return Boxed{Type: static, Value: c}

	case *types.Interface:
		switch x := v.(type) {
		case nil:
			return Boxed{}
		case Boxed:
			return x
		default:
			panic(Errorf(CodeInvalidBox, "cannot box %T as interface %s", v, static))
		}
	}

	if types.IsValueKind(static) {
		if !fitsAggregate(static, v) {
			panic(Errorf(CodeInvalidBox, "cannot box %T as %s", v, static))
		}
		c := Copy(v)
		if s, ok := c.(*Struct); ok {
			s.marker = MarkerValue
		}
		return Boxed{Type: static, Value: c}
	}
	return Boxed{Type: static, Value: v}
}

// fitsAggregate reports whether v can be held under the struct or array
// type static: a model instance of the same type, or a host value of it.
func fitsAggregate(static types.Type, v any) bool {
	u := types.Underlying(static)
	switch x := v.(type) {
	case *Struct:
		if x == nil {
			return false
		}
		return sameAggregate(x.Type(), u)
	case *Array:
		if x == nil {
			return false
		}
		return sameAggregate(x.Type(), u)
	case nil, Boxed, TypedNil, *Cell, []any, map[any]any:
		return false
	}
	return sameAggregate(types.Underlying(InferType(v)), u)
}

// sameAggregate compares named structs by name, so a descriptor that was
// replaced in the registry still accepts instances built from the old one.
func sameAggregate(a, b types.Type) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if an, bn := a.TypeName(), b.TypeName(); an != "" || bn != "" {
		return an == bn
	}
	return types.Identical(a, b)
}

// BoxPointer boxes c as a value of type *elem.
func BoxPointer(elem types.Type, c *Cell) Boxed {
	return Box(types.NewPointer(elem), c)
}

// BoxValue boxes a copy of s under its own struct type.
func BoxValue(s *Struct) Boxed {
	return Box(s.Type(), s)
}

// unbox returns the payload of b as the asserted concrete type would hold
// it: nil pointers are (*Cell)(nil) again and value kinds are copied out so
// the caller cannot alias the boxed copy.
func unbox(b Boxed) any {
	switch x := b.Value.(type) {
	case TypedNil:
		return (*Cell)(nil)
	case *Struct, *Array:
		return Copy(x)
	}
	return b.Value
}
