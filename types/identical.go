package types

// Identical reports whether a and b denote the same type.
//
// Named types (Named, and Struct or Interface with a Name) are identical only
// to a type with the same qualified name; there is no structural
// equivalence between distinct named types. All other descriptors are
// compared by shape.
func Identical(a, b Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a == b {
		return true
	}
	if an, bn := a.TypeName(), b.TypeName(); an != "" || bn != "" {
		return an == bn
	}

	switch x := a.(type) {
	case *Basic:
		y, ok := b.(*Basic)
		return ok && x.BasicKind == y.BasicKind
	case *Pointer:
		y, ok := b.(*Pointer)
		return ok && Identical(x.Elem, y.Elem)
	case *Slice:
		y, ok := b.(*Slice)
		return ok && Identical(x.Elem, y.Elem)
	case *Array:
		y, ok := b.(*Array)
		return ok && x.Len == y.Len && Identical(x.Elem, y.Elem)
	case *Map:
		y, ok := b.(*Map)
		return ok && Identical(x.Key, y.Key) && Identical(x.Elem, y.Elem)
	case *Chan:
		y, ok := b.(*Chan)
		return ok && x.Dir == y.Dir && Identical(x.Elem, y.Elem)
	case *Signature:
		y, ok := b.(*Signature)
		return ok && x.Variadic == y.Variadic &&
			sameTuple(x.Params, y.Params) && sameTuple(x.Results, y.Results)
	case *Struct:
		y, ok := b.(*Struct)
		if !ok || len(x.Fields) != len(y.Fields) {
			return false
		}
		for i, f := range x.Fields {
			g := y.Fields[i]
			if f.Name != g.Name || f.Tag != g.Tag || f.Anonymous != g.Anonymous || !Identical(f.Type, g.Type) {
				return false
			}
		}
		return true
	case *Interface:
		y, ok := b.(*Interface)
		if !ok || len(x.Methods) != len(y.Methods) {
			return false
		}
		xm, ym := sortedMethods(x.Methods), sortedMethods(y.Methods)
		for i := range xm {
			if !xm[i].SameShape(ym[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// Underlying returns the underlying type of t, following Named descriptors.
// Every other descriptor is its own underlying type.
func Underlying(t Type) Type {
	for {
		n, ok := t.(*Named)
		if !ok || n.Underlying == nil {
			return t
		}
		t = n.Underlying
	}
}

// IsValueKind reports whether values of t are aggregates with copy-on-assign
// semantics (structs and arrays).
func IsValueKind(t Type) bool {
	switch Underlying(t).(type) {
	case *Struct, *Array:
		return true
	}
	return false
}

// IsReferenceKind reports whether values of t refer to shared storage, so
// that assignment aliases rather than copies.
func IsReferenceKind(t Type) bool {
	switch Underlying(t).(type) {
	case *Pointer, *Slice, *Map, *Chan, *Interface, *Signature:
		return true
	}
	return false
}

// IsPointer reports whether t is a pointer type.
func IsPointer(t Type) bool {
	_, ok := Underlying(t).(*Pointer)
	return ok
}
