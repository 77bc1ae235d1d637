package gobox

import (
	"reflect"
	"sync"

	"github.com/broady/gobox/types"
)

// InferType returns the type of v as the value model sees it. Model values
// (boxes, cells, struct and array instances) report their own descriptors;
// host values are described from their Go type. A nil cell has no pointee
// information and infers as a pointer to an unknown type.
func InferType(v any) types.Type {
	switch x := v.(type) {
	case nil:
		return nil
	case Boxed:
		return x.Type
	case TypedNil:
		return types.NewPointer(x.Static)
	case *Struct:
		return x.Type()
	case *Array:
		return x.Type()
	case *Cell:
		if x == nil {
			return types.NewPointer(nil)
		}
		return types.NewPointer(InferType(x.v))
	case []any:
		return types.NewSlice(types.Any)
	case map[any]any:
		return types.NewMap(types.Any, types.Any)
	}
	hostMu.Lock()
	defer hostMu.Unlock()
	return hostType(reflect.TypeOf(v))
}

var (
	hostMu    sync.Mutex
	hostCache = make(map[reflect.Type]types.Type)
)

// hostType describes a host Go type. Every named host type is cached before
// its members or underlying type are built, so self-referential types
// terminate. hostMu must be held.
func hostType(rt reflect.Type) types.Type {
	if t, ok := hostCache[rt]; ok {
		return t
	}

	name := ""
	if rt.Name() != "" && rt.PkgPath() != "" {
		name = rt.PkgPath() + "." + rt.Name()
	}

	// Named types other than structs and interfaces get a placeholder whose
	// underlying type is filled in below.
	var named *types.Named
	if name != "" && rt.Kind() != reflect.Struct && rt.Kind() != reflect.Interface {
		named = &types.Named{Name: name}
		hostCache[rt] = named
	}

	var t types.Type
	switch rt.Kind() {
	case reflect.Struct:
		s := &types.Struct{Name: name}
		if name != "" {
			hostCache[rt] = s
		}
		for i := 0; i < rt.NumField(); i++ {
			f := rt.Field(i)
			s.Fields = append(s.Fields, types.Field{
				Name:      f.Name,
				Type:      hostType(f.Type),
				Tag:       types.StructTag(f.Tag),
				Anonymous: f.Anonymous,
			})
		}
		return s
	case reflect.Interface:
		iface := &types.Interface{Name: name}
		if name != "" {
			hostCache[rt] = iface
		}
		for i := 0; i < rt.NumMethod(); i++ {
			m := rt.Method(i)
			iface.Methods = append(iface.Methods, types.Method{
				Name:    m.Name,
				Params:  hostTuple(m.Type.NumIn(), m.Type.In),
				Results: hostTuple(m.Type.NumOut(), m.Type.Out),
			})
		}
		return iface
	case reflect.Pointer:
		t = types.NewPointer(hostType(rt.Elem()))
	case reflect.Slice:
		t = types.NewSlice(hostType(rt.Elem()))
	case reflect.Array:
		t = types.NewArray(hostType(rt.Elem()), rt.Len())
	case reflect.Map:
		t = types.NewMap(hostType(rt.Key()), hostType(rt.Elem()))
	case reflect.Chan:
		t = types.NewChan(hostType(rt.Elem()), hostChanDir(rt.ChanDir()))
	case reflect.Func:
		t = types.NewSignature(
			hostTuple(rt.NumIn(), rt.In),
			hostTuple(rt.NumOut(), rt.Out),
			rt.IsVariadic())
	default:
		// Basic kinds share their numbering with reflect.
		t = types.Typ[types.Kind(rt.Kind())]
	}

	if named != nil {
		named.Underlying = t
		return named
	}
	return t
}

func hostTuple(n int, at func(int) reflect.Type) []types.Type {
	if n == 0 {
		return nil
	}
	out := make([]types.Type, n)
	for i := range out {
		out[i] = hostType(at(i))
	}
	return out
}

func hostChanDir(d reflect.ChanDir) types.ChanDir {
	switch d {
	case reflect.SendDir:
		return types.SendOnly
	case reflect.RecvDir:
		return types.RecvOnly
	}
	return types.SendRecv
}
