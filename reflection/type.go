// Package reflection is the introspection surface over the value model. It
// mirrors the shape of the standard reflect package: a Type describes a
// descriptor, a Value wraps a model value together with the location it was
// read from, so that Set calls write back to every live reference.
//
// Library ports that need formatting, serialization, sorting or comparison
// are expected to go through this package rather than inspect model values
// directly.
package reflection

import (
	"strconv"
	"strings"

	"github.com/broady/gobox"
	"github.com/broady/gobox/types"
)

// Kind is re-exported so that callers can switch on Type.Kind and
// Value.Kind without importing the types package.
type Kind = types.Kind

// Type is the reflection view of a descriptor. The zero Type is invalid.
type Type struct {
	reg *gobox.Registry
	t   types.Type
}

// TypeOf returns the dynamic type of v. For a Boxed value this is the box's
// dynamic type; a nil interface yields the zero Type. Model values report
// their descriptors and host values are inferred from their Go types.
func TypeOf(reg *gobox.Registry, v any) Type {
	if b, ok := v.(gobox.Boxed); ok {
		if b.IsNil() {
			return Type{}
		}
		return Type{reg: reg, t: reg.Resolve(b.Type)}
	}
	return Type{reg: reg, t: reg.Resolve(gobox.InferType(v))}
}

// TypeFor returns the Type of descriptor t.
func TypeFor(reg *gobox.Registry, t types.Type) Type {
	return Type{reg: reg, t: reg.Resolve(t)}
}

// Descriptor returns the underlying descriptor.
func (t Type) Descriptor() types.Type { return t.t }

// IsValid reports whether t describes a type.
func (t Type) IsValid() bool { return t.t != nil }

// Kind returns the kind of the type, following named types to their
// underlying kind.
func (t Type) Kind() Kind {
	if t.t == nil {
		return types.KindInvalid
	}
	return t.t.Kind()
}

// Name returns the unqualified name of a named or basic type, or "".
func (t Type) Name() string {
	if t.t == nil {
		return ""
	}
	if b, ok := t.t.(*types.Basic); ok {
		return b.Name()
	}
	name := t.t.TypeName()
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i+1:]
	}
	return name
}

// PkgPath returns the package qualifier of a named type, or "".
func (t Type) PkgPath() string {
	if t.t == nil {
		return ""
	}
	name := t.t.TypeName()
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[:i]
	}
	return ""
}

// String returns the type in source notation.
func (t Type) String() string {
	if t.t == nil {
		return "<nil>"
	}
	return types.TypeString(t.t)
}

func (t Type) mustBe(method string, k Kind) {
	if t.Kind() != k {
		panic(&ValueError{Method: "reflection.Type." + method, Kind: t.Kind()})
	}
}

func (t Type) wrap(u types.Type) Type {
	return Type{reg: t.reg, t: t.reg.Resolve(u)}
}

// StructField describes one field of a struct type.
type StructField struct {
	Name      string
	Type      Type
	Tag       types.StructTag
	Anonymous bool
	Index     []int
}

// NumField returns the number of fields of a struct type.
func (t Type) NumField() int {
	t.mustBe("NumField", types.KindStruct)
	return types.Underlying(t.t).(*types.Struct).NumField()
}

// Field returns the i'th field of a struct type.
func (t Type) Field(i int) StructField {
	t.mustBe("Field", types.KindStruct)
	s := types.Underlying(t.t).(*types.Struct)
	if i < 0 || i >= len(s.Fields) {
		panic(&RangeError{Method: "reflection.Type.Field", Index: i, Len: len(s.Fields)})
	}
	f := s.Fields[i]
	return StructField{
		Name:      f.Name,
		Type:      t.wrap(f.Type),
		Tag:       f.Tag,
		Anonymous: f.Anonymous,
		Index:     []int{i},
	}
}

// FieldByName returns the struct field with the given name.
func (t Type) FieldByName(name string) (StructField, bool) {
	t.mustBe("FieldByName", types.KindStruct)
	i := types.Underlying(t.t).(*types.Struct).FieldIndex(name)
	if i < 0 {
		return StructField{}, false
	}
	return t.Field(i), true
}

// Elem returns the element type of a pointer, slice, array, map or channel
// type.
func (t Type) Elem() Type {
	switch u := types.Underlying(t.t).(type) {
	case *types.Pointer:
		return t.wrap(u.Elem)
	case *types.Slice:
		return t.wrap(u.Elem)
	case *types.Array:
		return t.wrap(u.Elem)
	case *types.Map:
		return t.wrap(u.Elem)
	case *types.Chan:
		return t.wrap(u.Elem)
	}
	panic(&ValueError{Method: "reflection.Type.Elem", Kind: t.Kind()})
}

// Key returns the key type of a map type.
func (t Type) Key() Type {
	t.mustBe("Key", types.KindMap)
	return t.wrap(types.Underlying(t.t).(*types.Map).Key)
}

// Len returns the length of an array type.
func (t Type) Len() int {
	t.mustBe("Len", types.KindArray)
	return types.Underlying(t.t).(*types.Array).Len
}

// ChanDir returns the direction of a channel type.
func (t Type) ChanDir() types.ChanDir {
	t.mustBe("ChanDir", types.KindChan)
	return types.Underlying(t.t).(*types.Chan).Dir
}

// NumIn returns the number of parameters of a function type.
func (t Type) NumIn() int {
	t.mustBe("NumIn", types.KindFunc)
	return len(types.Underlying(t.t).(*types.Signature).Params)
}

// NumOut returns the number of results of a function type.
func (t Type) NumOut() int {
	t.mustBe("NumOut", types.KindFunc)
	return len(types.Underlying(t.t).(*types.Signature).Results)
}

// NumMethod returns the number of methods in the type's method set. For an
// interface type it is the number of required methods.
func (t Type) NumMethod() int {
	if iface, ok := t.t.(*types.Interface); ok {
		return iface.NumMethod()
	}
	if t.t == nil {
		return 0
	}
	return len(t.reg.MethodSet(t.t))
}

// Implements reports whether the type implements the interface type u.
func (t Type) Implements(u Type) bool {
	iface, ok := u.t.(*types.Interface)
	if !ok {
		panic("reflection: non-interface type passed to Type.Implements")
	}
	if t.t == nil {
		return false
	}
	return t.reg.Implements(t.t, iface)
}

// Bits returns the size of a numeric type in bits.
func (t Type) Bits() int {
	k := t.Kind()
	switch k {
	case types.KindInt, types.KindUint, types.KindUintptr:
		return strconv.IntSize
	case types.KindInt8, types.KindUint8:
		return 8
	case types.KindInt16, types.KindUint16:
		return 16
	case types.KindInt32, types.KindUint32, types.KindFloat32:
		return 32
	case types.KindInt64, types.KindUint64, types.KindFloat64, types.KindComplex64:
		return 64
	case types.KindComplex128:
		return 128
	}
	panic(&ValueError{Method: "reflection.Type.Bits", Kind: k})
}
