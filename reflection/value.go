package reflection

import (
	"math"
	"reflect"

	"github.com/broady/gobox"
	"github.com/broady/gobox/types"
)

// Value is the reflection view of a model value. A Value obtained through
// a pointer (Elem), or from a field or element of such a Value, or from a
// slice element, is addressable: it remembers the location it was read from
// and reads and writes go through that location, so a Set is seen by every
// other holder of the same storage. Any other Value is a snapshot and its
// setters panic with *UnaddressableSetError.
//
// The zero Value is invalid.
type Value struct {
	reg  *gobox.Registry
	typ  types.Type
	val  any
	loc  slot
	addr bool
}

// slot is a location a Value can be written back to.
type slot interface {
	load() any
	store(v any)
}

type cellSlot struct{ c *gobox.Cell }

func (s cellSlot) load() any { return s.c.Get() }
func (s cellSlot) store(v any) { s.c.Set(v) }

type fieldSlot struct {
	s *gobox.Struct
	i int
}

func (s fieldSlot) load() any { return s.s.Field(s.i) }
func (s fieldSlot) store(v any) { s.s.SetField(s.i, v) }

type arraySlot struct {
	a *gobox.Array
	i int
}

func (s arraySlot) load() any { return s.a.Index(s.i) }
func (s arraySlot) store(v any) { s.a.SetIndex(s.i, v) }

type sliceSlot struct {
	s []any
	i int
}

func (s sliceSlot) load() any { return s.s[s.i] }
func (s sliceSlot) store(v any) { s.s[s.i] = v }

// hostSlot is an addressable element of a host slice or array.
type hostSlot struct{ v reflect.Value }

func (s hostSlot) load() any { return s.v.Interface() }
func (s hostSlot) store(v any) {
	s.v.Set(reflect.ValueOf(v).Convert(s.v.Type()))
}

// ValueOf returns a Value for v. A Boxed v is unwrapped to its dynamic type
// and payload, and a nil interface yields the zero Value. The result is
// never addressable; use Elem on a pointer to reach a writable location.
func ValueOf(reg *gobox.Registry, v any) Value {
	if b, ok := v.(gobox.Boxed); ok {
		return unboxed(reg, b)
	}
	t := gobox.InferType(v)
	if t == nil {
		return Value{}
	}
	return Value{reg: reg, typ: reg.Resolve(t), val: v}
}

func unboxed(reg *gobox.Registry, b gobox.Boxed) Value {
	if b.IsNil() {
		return Value{}
	}
	val := b.Value
	if _, ok := val.(gobox.TypedNil); ok {
		val = (*gobox.Cell)(nil)
	}
	return Value{reg: reg, typ: reg.Resolve(b.Type), val: val}
}

// Indirect returns the value v points to. A nil pointer yields the zero
// Value; a non-pointer v is returned unchanged.
func Indirect(v Value) Value {
	if v.Kind() != types.KindPointer {
		return v
	}
	return v.Elem()
}

// get returns the current value, reading through the location if any.
func (v Value) get() any {
	if v.loc != nil {
		return v.loc.load()
	}
	return v.val
}

func (v Value) child(t types.Type, loc slot, addr bool) Value {
	return Value{reg: v.reg, typ: v.reg.Resolve(t), val: loc.load(), loc: loc, addr: addr}
}

func (v Value) mustBe(method string, k Kind) {
	if v.Kind() != k {
		panic(&ValueError{Method: "reflection.Value." + method, Kind: v.Kind()})
	}
}

func (v Value) mustBeAssignable(method string) {
	if v.typ == nil {
		panic(&ValueError{Method: "reflection.Value." + method, Kind: types.KindInvalid})
	}
	if !v.addr || v.loc == nil {
		panic(&UnaddressableSetError{Method: "reflection.Value." + method})
	}
}

// IsValid reports whether v represents a value.
func (v Value) IsValid() bool { return v.typ != nil }

// Kind returns v's kind, or KindInvalid for the zero Value.
func (v Value) Kind() Kind {
	if v.typ == nil {
		return types.KindInvalid
	}
	return v.typ.Kind()
}

// Type returns v's type.
func (v Value) Type() Type {
	if v.typ == nil {
		panic(&ValueError{Method: "reflection.Value.Type", Kind: types.KindInvalid})
	}
	return Type{reg: v.reg, t: v.typ}
}

// CanAddr reports whether v has a location that Set calls write back to.
func (v Value) CanAddr() bool { return v.addr }

// CanSet reports whether the setters may be used on v.
func (v Value) CanSet() bool { return v.addr && v.loc != nil }

// Interface returns v's current value. Structs and arrays are returned as
// copies, as the modeled language's interface conversion does.
func (v Value) Interface() any {
	if v.typ == nil {
		panic(&ValueError{Method: "reflection.Value.Interface", Kind: types.KindInvalid})
	}
	return gobox.Copy(v.get())
}

// Box returns v's current value boxed under its own type.
func (v Value) Box() gobox.Boxed {
	if v.Kind() == types.KindInterface {
		b, _ := v.get().(gobox.Boxed)
		return b
	}
	return gobox.Box(v.typ, v.get())
}

// IsNil reports whether v is a nil pointer, interface, slice, map, channel
// or function.
func (v Value) IsNil() bool {
	x := v.get()
	switch v.Kind() {
	case types.KindPointer:
		c, _ := x.(*gobox.Cell)
		return c == nil
	case types.KindInterface:
		b, _ := x.(gobox.Boxed)
		return b.IsNil()
	case types.KindSlice, types.KindMap, types.KindChan, types.KindFunc:
		if x == nil {
			return true
		}
		return reflect.ValueOf(x).IsNil()
	}
	panic(&ValueError{Method: "reflection.Value.IsNil", Kind: v.Kind()})
}

// IsZero reports whether v holds the zero value of its type.
func (v Value) IsZero() bool {
	switch v.Kind() {
	case types.KindInvalid:
		panic(&ValueError{Method: "reflection.Value.IsZero", Kind: types.KindInvalid})
	case types.KindPointer, types.KindInterface, types.KindSlice, types.KindMap, types.KindChan, types.KindFunc:
		return v.IsNil()
	}
	return gobox.Equal(v.get(), gobox.Zero(v.typ))
}

// Elem returns the value the pointer v points to, or the value held in the
// interface v. The result of dereferencing a pointer is addressable; a nil
// pointer or nil interface yields the zero Value.
func (v Value) Elem() Value {
	switch v.Kind() {
	case types.KindPointer:
		c, _ := v.get().(*gobox.Cell)
		if c == nil {
			return Value{}
		}
		elem := types.Underlying(v.typ).(*types.Pointer).Elem
		if elem == nil {
			elem = gobox.InferType(c.Get())
		}
		return v.child(elem, cellSlot{c}, true)
	case types.KindInterface:
		b, _ := v.get().(gobox.Boxed)
		return unboxed(v.reg, b)
	}
	panic(&ValueError{Method: "reflection.Value.Elem", Kind: v.Kind()})
}

// NumField returns the number of fields of the struct v.
func (v Value) NumField() int {
	v.mustBe("NumField", types.KindStruct)
	return types.Underlying(v.typ).(*types.Struct).NumField()
}

// Field returns the i'th field of the struct v. The field is addressable
// when v is.
func (v Value) Field(i int) Value {
	v.mustBe("Field", types.KindStruct)
	st := types.Underlying(v.typ).(*types.Struct)
	if i < 0 || i >= len(st.Fields) {
		panic(&RangeError{Method: "reflection.Value.Field", Index: i, Len: len(st.Fields)})
	}

	switch s := v.get().(type) {
	case *gobox.Struct:
		return v.child(st.Fields[i].Type, fieldSlot{s, i}, v.addr)
	default:
		// Host struct: read-only snapshot of the field.
		f := reflect.ValueOf(s).Field(i)
		var val any
		if f.CanInterface() {
			val = f.Interface()
		}
		return Value{reg: v.reg, typ: v.reg.Resolve(st.Fields[i].Type), val: val}
	}
}

// FieldByName returns the struct field with the given name, or the zero
// Value if there is none.
func (v Value) FieldByName(name string) Value {
	v.mustBe("FieldByName", types.KindStruct)
	i := types.Underlying(v.typ).(*types.Struct).FieldIndex(name)
	if i < 0 {
		return Value{}
	}
	return v.Field(i)
}

// Len returns the length of v, which must be a slice, array, map or string.
func (v Value) Len() int {
	x := v.get()
	switch v.Kind() {
	case types.KindArray:
		if a, ok := x.(*gobox.Array); ok {
			return a.Len()
		}
	case types.KindSlice, types.KindMap, types.KindString:
	default:
		panic(&ValueError{Method: "reflection.Value.Len", Kind: v.Kind()})
	}
	switch x := x.(type) {
	case nil:
		return 0
	case []any:
		return len(x)
	case map[any]any:
		return len(x)
	}
	return reflect.ValueOf(x).Len()
}

// Index returns the i'th element of the slice or array v. Slice elements
// are always addressable; array elements are addressable when v is.
func (v Value) Index(i int) Value {
	n := v.Len()
	if i < 0 || i >= n {
		panic(&RangeError{Method: "reflection.Value.Index", Index: i, Len: n})
	}

	switch v.Kind() {
	case types.KindArray:
		elem := types.Underlying(v.typ).(*types.Array).Elem
		if a, ok := v.get().(*gobox.Array); ok {
			return v.child(elem, arraySlot{a, i}, v.addr)
		}
		rv := reflect.ValueOf(v.get()).Index(i)
		return Value{reg: v.reg, typ: v.reg.Resolve(elem), val: rv.Interface()}
	case types.KindSlice:
		elem := types.Underlying(v.typ).(*types.Slice).Elem
		if s, ok := v.get().([]any); ok {
			return v.child(elem, sliceSlot{s, i}, true)
		}
		return v.child(elem, hostSlot{reflect.ValueOf(v.get()).Index(i)}, true)
	}
	panic(&ValueError{Method: "reflection.Value.Index", Kind: v.Kind()})
}

// MapKeys returns the keys of the map v in unspecified order.
func (v Value) MapKeys() []Value {
	v.mustBe("MapKeys", types.KindMap)
	key := types.Underlying(v.typ).(*types.Map).Key
	var out []Value
	switch m := v.get().(type) {
	case nil:
	case map[any]any:
		for k := range m {
			out = append(out, Value{reg: v.reg, typ: v.reg.Resolve(key), val: k})
		}
	default:
		for _, k := range reflect.ValueOf(m).MapKeys() {
			out = append(out, Value{reg: v.reg, typ: v.reg.Resolve(key), val: k.Interface()})
		}
	}
	return out
}

// MapIndex returns the value stored under key in the map v, or the zero
// Value if the key is absent.
func (v Value) MapIndex(key Value) Value {
	v.mustBe("MapIndex", types.KindMap)
	elem := types.Underlying(v.typ).(*types.Map).Elem
	k := key.get()
	switch m := v.get().(type) {
	case nil:
	case map[any]any:
		if e, ok := m[k]; ok {
			return Value{reg: v.reg, typ: v.reg.Resolve(elem), val: e}
		}
	default:
		e := reflect.ValueOf(m).MapIndex(reflect.ValueOf(k))
		if e.IsValid() {
			return Value{reg: v.reg, typ: v.reg.Resolve(elem), val: e.Interface()}
		}
	}
	return Value{}
}

// Int returns v's value as an int64. It panics if v is not a signed
// integer.
func (v Value) Int() int64 {
	if !v.Kind().IsInteger() {
		panic(&ValueError{Method: "reflection.Value.Int", Kind: v.Kind()})
	}
	return reflect.ValueOf(v.get()).Int()
}

// Uint returns v's value as a uint64. It panics if v is not an unsigned
// integer.
func (v Value) Uint() uint64 {
	if !v.Kind().IsUnsigned() {
		panic(&ValueError{Method: "reflection.Value.Uint", Kind: v.Kind()})
	}
	return reflect.ValueOf(v.get()).Uint()
}

// Float returns v's value as a float64. It panics if v is not a float.
func (v Value) Float() float64 {
	if !v.Kind().IsFloat() {
		panic(&ValueError{Method: "reflection.Value.Float", Kind: v.Kind()})
	}
	return reflect.ValueOf(v.get()).Float()
}

// Complex returns v's value as a complex128.
func (v Value) Complex() complex128 {
	if !v.Kind().IsComplex() {
		panic(&ValueError{Method: "reflection.Value.Complex", Kind: v.Kind()})
	}
	return reflect.ValueOf(v.get()).Complex()
}

// Bool returns v's value. It panics if v is not a bool.
func (v Value) Bool() bool {
	v.mustBe("Bool", types.KindBool)
	return reflect.ValueOf(v.get()).Bool()
}

// String returns v's value as a string. Unlike the other getters it does
// not panic for other kinds; it returns a string of the form "<T Value>".
func (v Value) String() string {
	switch v.Kind() {
	case types.KindInvalid:
		return "<invalid Value>"
	case types.KindString:
		return reflect.ValueOf(v.get()).String()
	}
	return "<" + types.TypeString(v.typ) + " Value>"
}

// SetInt sets v's value to x.
func (v Value) SetInt(x int64) {
	v.mustBeAssignable("SetInt")
	k := v.Kind()
	var n any
	switch k {
	case types.KindInt:
		n = int(x)
	case types.KindInt8:
		n = int8(x)
	case types.KindInt16:
		n = int16(x)
	case types.KindInt32:
		n = int32(x)
	case types.KindInt64:
		n = x
	default:
		panic(&ValueError{Method: "reflection.Value.SetInt", Kind: k})
	}
	v.loc.store(n)
}

// SetUint sets v's value to x.
func (v Value) SetUint(x uint64) {
	v.mustBeAssignable("SetUint")
	k := v.Kind()
	var n any
	switch k {
	case types.KindUint:
		n = uint(x)
	case types.KindUint8:
		n = uint8(x)
	case types.KindUint16:
		n = uint16(x)
	case types.KindUint32:
		n = uint32(x)
	case types.KindUint64:
		n = x
	case types.KindUintptr:
		n = uintptr(x)
	default:
		panic(&ValueError{Method: "reflection.Value.SetUint", Kind: k})
	}
	v.loc.store(n)
}

// SetFloat sets v's value to x.
func (v Value) SetFloat(x float64) {
	v.mustBeAssignable("SetFloat")
	switch k := v.Kind(); k {
	case types.KindFloat32:
		v.loc.store(float32(x))
	case types.KindFloat64:
		v.loc.store(x)
	default:
		panic(&ValueError{Method: "reflection.Value.SetFloat", Kind: k})
	}
}

// SetString sets v's value to x.
func (v Value) SetString(x string) {
	v.mustBeAssignable("SetString")
	v.mustBe("SetString", types.KindString)
	v.loc.store(x)
}

// SetBool sets v's value to x.
func (v Value) SetBool(x bool) {
	v.mustBeAssignable("SetBool")
	v.mustBe("SetBool", types.KindBool)
	v.loc.store(x)
}

// Set assigns x to v. x must be of a type identical to v's type, or v must
// be an interface that x's type implements. Structs and arrays are copied.
func (v Value) Set(x Value) {
	v.mustBeAssignable("Set")
	if !x.IsValid() {
		panic(&ValueError{Method: "reflection.Value.Set", Kind: types.KindInvalid})
	}

	if iface, ok := types.Underlying(v.typ).(*types.Interface); ok {
		b := x.Box()
		if !b.IsNil() && !v.reg.Implements(b.Type, iface) {
			panic(&AssignError{From: x.typ, To: v.typ})
		}
		v.loc.store(b)
		return
	}
	if !types.Identical(x.typ, v.typ) {
		panic(&AssignError{From: x.typ, To: v.typ})
	}
	v.loc.store(gobox.Copy(x.get()))
}

// OverflowInt reports whether x cannot be represented by v's type.
func (v Value) OverflowInt(x int64) bool {
	k := v.Kind()
	if !k.IsInteger() {
		panic(&ValueError{Method: "reflection.Value.OverflowInt", Kind: k})
	}
	bitSize := uint(v.Type().Bits())
	trunc := (x << (64 - bitSize)) >> (64 - bitSize)
	return x != trunc
}

// OverflowUint reports whether x cannot be represented by v's type.
func (v Value) OverflowUint(x uint64) bool {
	k := v.Kind()
	if !k.IsUnsigned() {
		panic(&ValueError{Method: "reflection.Value.OverflowUint", Kind: k})
	}
	bitSize := uint(v.Type().Bits())
	trunc := (x << (64 - bitSize)) >> (64 - bitSize)
	return x != trunc
}

// OverflowFloat reports whether x cannot be represented by v's type.
func (v Value) OverflowFloat(x float64) bool {
	switch k := v.Kind(); k {
	case types.KindFloat32:
		return overflowFloat32(x)
	case types.KindFloat64:
		return false
	default:
		panic(&ValueError{Method: "reflection.Value.OverflowFloat", Kind: k})
	}
}

func overflowFloat32(x float64) bool {
	if x < 0 {
		x = -x
	}
	return math.MaxFloat32 < x && x <= math.MaxFloat64
}
