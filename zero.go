package gobox

import "github.com/broady/gobox/types"

// Zero returns the zero value of t in the value model's representation.
func Zero(t types.Type) any {
	switch u := types.Underlying(t).(type) {
	case nil:
		return nil
	case *types.Basic:
		return zeroBasic(u.BasicKind)
	case *types.Struct:
		return NewStruct(u)
	case *types.Array:
		return NewArray(u)
	case *types.Interface:
		return Boxed{}
	case *types.Pointer:
		return (*Cell)(nil)
	case *types.Slice:
		return []any(nil)
	case *types.Map:
		return map[any]any(nil)
	}
	// Chan, func, or a named type whose underlying type is not yet known.
	return nil
}

// Zero returns the zero value of t after resolving a named t against the
// registry.
func (r *Registry) Zero(t types.Type) any {
	return Zero(r.Resolve(t))
}

func zeroBasic(k types.Kind) any {
	switch k {
	case types.KindBool:
		return false
	case types.KindInt:
		return int(0)
	case types.KindInt8:
		return int8(0)
	case types.KindInt16:
		return int16(0)
	case types.KindInt32:
		return int32(0)
	case types.KindInt64:
		return int64(0)
	case types.KindUint:
		return uint(0)
	case types.KindUint8:
		return uint8(0)
	case types.KindUint16:
		return uint16(0)
	case types.KindUint32:
		return uint32(0)
	case types.KindUint64:
		return uint64(0)
	case types.KindUintptr:
		return uintptr(0)
	case types.KindFloat32:
		return float32(0)
	case types.KindFloat64:
		return float64(0)
	case types.KindComplex64:
		return complex64(0)
	case types.KindComplex128:
		return complex128(0)
	case types.KindString:
		return ""
	}
	return nil
}
