package types

// Basic represents a predeclared type such as int, string or float64.
type Basic struct {
	unnamed

	// BasicKind is one of the scalar kinds (Bool through Complex128,
	// String, UnsafePointer).
	BasicKind Kind
}

// Kind returns the basic kind.
func (b *Basic) Kind() Kind { return b.BasicKind }

// Name returns the predeclared name of the type.
func (b *Basic) Name() string { return b.BasicKind.String() }

func (b *Basic) String() string { return b.Name() }

// Typ holds the canonical descriptor for every basic kind, indexed by Kind.
// Non-basic kinds map to nil.
var Typ = func() []*Basic {
	t := make([]*Basic, KindUnsafePointer+1)
	for k := KindBool; k <= KindUnsafePointer; k++ {
		if k.isBasic() {
			t[k] = &Basic{BasicKind: k}
		}
	}
	return t
}()

func (k Kind) isBasic() bool {
	switch {
	case k >= KindBool && k <= KindComplex128:
		return true
	case k == KindString, k == KindUnsafePointer:
		return true
	}
	return false
}

// BasicByName returns the basic descriptor for a predeclared type name.
// The aliases byte and rune resolve to uint8 and int32.
func BasicByName(name string) (*Basic, bool) {
	switch name {
	case "byte":
		return Typ[KindUint8], true
	case "rune":
		return Typ[KindInt32], true
	}
	for k, b := range Typ {
		if b != nil && kindNames[k] == name {
			return b, true
		}
	}
	return nil, false
}

// Convenience accessors for common basics.

// BoolType returns the bool descriptor.
func BoolType() *Basic { return Typ[KindBool] }

// IntType returns the int descriptor.
func IntType() *Basic { return Typ[KindInt] }

// Int64Type returns the int64 descriptor.
func Int64Type() *Basic { return Typ[KindInt64] }

// Float64Type returns the float64 descriptor.
func Float64Type() *Basic { return Typ[KindFloat64] }

// StringType returns the string descriptor.
func StringType() *Basic { return Typ[KindString] }
