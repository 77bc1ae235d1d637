// Package types defines the runtime type descriptors of the value model.
// Descriptors are built once at load time, registered with a gobox.Registry,
// and are never mutated afterwards. Every descriptor is one of a closed set
// of variants: Basic, Named, Struct, Interface, Pointer, Slice, Array, Map,
// Chan and Signature.
package types

import "strconv"

// Kind is the specific kind of type a descriptor represents.
// The ordering follows the modeled language's reflection package so that
// reflection consumers can switch on it directly.
type Kind uint

const (
	KindInvalid Kind = iota
	KindBool
	KindInt
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindUint
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindUintptr
	KindFloat32
	KindFloat64
	KindComplex64
	KindComplex128
	KindArray
	KindChan
	KindFunc
	KindInterface
	KindMap
	KindPointer
	KindSlice
	KindString
	KindStruct
	KindUnsafePointer
)

var kindNames = []string{
	KindInvalid:       "invalid",
	KindBool:          "bool",
	KindInt:           "int",
	KindInt8:          "int8",
	KindInt16:         "int16",
	KindInt32:         "int32",
	KindInt64:         "int64",
	KindUint:          "uint",
	KindUint8:         "uint8",
	KindUint16:        "uint16",
	KindUint32:        "uint32",
	KindUint64:        "uint64",
	KindUintptr:       "uintptr",
	KindFloat32:       "float32",
	KindFloat64:       "float64",
	KindComplex64:     "complex64",
	KindComplex128:    "complex128",
	KindArray:         "array",
	KindChan:          "chan",
	KindFunc:          "func",
	KindInterface:     "interface",
	KindMap:           "map",
	KindPointer:       "ptr",
	KindSlice:         "slice",
	KindString:        "string",
	KindStruct:        "struct",
	KindUnsafePointer: "unsafe.Pointer",
}

// String returns the name of k.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind" + strconv.Itoa(int(k))
}

// IsInteger reports whether k is a signed integer kind.
func (k Kind) IsInteger() bool {
	return k >= KindInt && k <= KindInt64
}

// IsUnsigned reports whether k is an unsigned integer kind.
func (k Kind) IsUnsigned() bool {
	return k >= KindUint && k <= KindUintptr
}

// IsFloat reports whether k is a floating point kind.
func (k Kind) IsFloat() bool {
	return k == KindFloat32 || k == KindFloat64
}

// IsComplex reports whether k is a complex kind.
func (k Kind) IsComplex() bool {
	return k == KindComplex64 || k == KindComplex128
}

// Type is the interface implemented by every type descriptor.
type Type interface {
	// Kind returns the kind of the type. For Named types this is the
	// kind of the underlying type.
	Kind() Kind

	// TypeName returns the qualified name of the type, or "" for
	// unnamed (structural) types.
	TypeName() string

	// String returns the type in source notation, e.g. "*main.Dog".
	String() string

	// Ensure only types in this package can implement Type.
	sealed()
}

// unnamed provides the zero TypeName for structural descriptors.
type unnamed struct{}

func (unnamed) TypeName() string { return "" }
func (unnamed) sealed()          {}
