// Package source builds type manifests by analyzing Go source code. The
// named types of the loaded packages, and every named type they reach, are
// converted to manifest records so that a registry can be populated for the
// same program without hand-written descriptors.
package source

import (
	"context"
	"encoding/json"
	"fmt"
	gotypes "go/types"

	"github.com/broady/gobox/manifest"
	"github.com/broady/gobox/types"
	"golang.org/x/tools/go/packages"
)

// Options configures source-based extraction.
type Options struct {
	// Packages are the Go package patterns to analyze.
	Packages []string

	// RootTypes are the unqualified type names to extract (e.g., "Person").
	// If empty, all exported types in the packages are extracted.
	RootTypes []string

	// Dir is the directory packages are resolved from. Empty means the
	// current directory.
	Dir string
}

// Warning codes recorded on the manifest.
const (
	WarnGenericType = "GENERIC_TYPE"
	WarnOpaqueType  = "OPAQUE_TYPE"
)

// Load analyzes the packages named in opts and returns a manifest of their
// types. Named types from packages outside opts.Packages are included when
// reachable; their struct fields are omitted, since only the name matters
// for assertions.
func Load(ctx context.Context, opts Options) (*manifest.Manifest, error) {
	if len(opts.Packages) == 0 {
		return nil, fmt.Errorf("no packages specified")
	}

	cfg := &packages.Config{
		Context: ctx,
		Dir:     opts.Dir,
		Mode: packages.NeedName |
			packages.NeedFiles |
			packages.NeedImports |
			packages.NeedTypes |
			packages.NeedTypesInfo,
	}

	pkgs, err := packages.Load(cfg, opts.Packages...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	for _, pkg := range pkgs {
		if len(pkg.Errors) > 0 {
			return nil, fmt.Errorf("package %s has errors: %v", pkg.PkgPath, pkg.Errors)
		}
	}

	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no packages found")
	}

	b := &builder{
		pkgs:  pkgs,
		local: make(map[string]bool, len(pkgs)),
		m:     &manifest.Manifest{Package: pkgs[0].PkgPath},
		done:  make(map[string]bool),
	}
	for _, pkg := range pkgs {
		b.local[pkg.PkgPath] = true
	}

	if len(opts.RootTypes) > 0 {
		for _, name := range opts.RootTypes {
			if err := b.enqueueRoot(name); err != nil {
				return nil, err
			}
		}
	} else {
		b.enqueueExported()
	}

	if err := b.drain(); err != nil {
		return nil, err
	}
	b.m.SortByDependency()
	return b.m, nil
}

// builder accumulates records and manages the extraction queue.
type builder struct {
	pkgs  []*packages.Package
	local map[string]bool
	m     *manifest.Manifest
	done  map[string]bool // key: pkgPath.Name
	queue []*gotypes.Named
}

func (b *builder) enqueueRoot(name string) error {
	for _, pkg := range b.pkgs {
		tn, ok := pkg.Types.Scope().Lookup(name).(*gotypes.TypeName)
		if !ok {
			continue
		}
		if named, ok := gotypes.Unalias(tn.Type()).(*gotypes.Named); ok {
			b.enqueue(named)
			return nil
		}
	}
	return fmt.Errorf("type %s not found in any package", name)
}

func (b *builder) enqueueExported() {
	for _, pkg := range b.pkgs {
		scope := pkg.Types.Scope()
		for _, name := range scope.Names() {
			tn, ok := scope.Lookup(name).(*gotypes.TypeName)
			if !ok || !tn.Exported() || tn.IsAlias() {
				continue
			}
			if named, ok := tn.Type().(*gotypes.Named); ok {
				b.enqueue(named)
			}
		}
	}
}

func (b *builder) enqueue(named *gotypes.Named) {
	b.queue = append(b.queue, named)
}

func (b *builder) drain() error {
	for len(b.queue) > 0 {
		named := b.queue[0]
		b.queue = b.queue[1:]
		if err := b.extract(named); err != nil {
			return err
		}
	}
	return nil
}

// typeKey generates the qualified name for a named type.
func typeKey(named *gotypes.Named) string {
	obj := named.Obj()
	if obj == nil || obj.Pkg() == nil {
		return named.String()
	}
	return obj.Pkg().Path() + "." + obj.Name()
}

func (b *builder) warn(code, typeName, format string, args ...any) {
	b.m.AddWarning(manifest.Warning{
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		TypeName: typeName,
	})
}

// extract converts one named type into a record.
func (b *builder) extract(named *gotypes.Named) error {
	key := typeKey(named)
	if b.done[key] {
		return nil
	}
	b.done[key] = true

	if named.TypeParams().Len() > 0 {
		b.warn(WarnGenericType, key, "generic type %s skipped", key)
		return nil
	}

	rec := manifest.TypeRecord{Name: key}
	local := named.Obj().Pkg() != nil && b.local[named.Obj().Pkg().Path()]

	switch u := named.Underlying().(type) {
	case *gotypes.Struct:
		rec.Kind = manifest.KindStruct
		if !local {
			b.warn(WarnOpaqueType, key, "fields of %s omitted: declared outside the loaded packages", key)
			break
		}
		for i := 0; i < u.NumFields(); i++ {
			f := u.Field(i)
			raw, err := b.expr(f.Type())
			if err != nil {
				return fmt.Errorf("field %s.%s: %w", key, f.Name(), err)
			}
			rec.Fields = append(rec.Fields, manifest.FieldRecord{
				Name:      f.Name(),
				Type:      raw,
				Tag:       u.Tag(i),
				Anonymous: f.Embedded(),
			})
		}

	case *gotypes.Interface:
		rec.Kind = manifest.KindInterface
		for i := 0; i < u.NumMethods(); i++ {
			mr, err := b.method(u.Method(i), false)
			if err != nil {
				return fmt.Errorf("interface %s: %w", key, err)
			}
			rec.Methods = append(rec.Methods, mr)
		}
		b.m.Types = append(b.m.Types, rec)
		return nil

	default:
		rec.Kind = manifest.KindNamed
		raw, err := b.expr(u)
		if err != nil {
			return fmt.Errorf("named type %s: %w", key, err)
		}
		rec.Underlying = raw
	}

	methods, err := b.methodSet(named)
	if err != nil {
		return fmt.Errorf("type %s: %w", key, err)
	}
	rec.Methods = methods
	b.m.Types = append(b.m.Types, rec)
	return nil
}

// methodSet returns the methods of *T. A method that is in the method set
// of *T but not of T has a pointer receiver, including methods promoted
// through an embedded pointer.
func (b *builder) methodSet(named *gotypes.Named) ([]manifest.MethodRecord, error) {
	valueSet := gotypes.NewMethodSet(named)
	ptrSet := gotypes.NewMethodSet(gotypes.NewPointer(named))

	var out []manifest.MethodRecord
	for i := 0; i < ptrSet.Len(); i++ {
		fn, ok := ptrSet.At(i).Obj().(*gotypes.Func)
		if !ok {
			continue
		}
		ptr := valueSet.Lookup(fn.Pkg(), fn.Name()) == nil
		mr, err := b.method(fn, ptr)
		if err != nil {
			return nil, err
		}
		out = append(out, mr)
	}
	return out, nil
}

func (b *builder) method(fn *gotypes.Func, ptr bool) (manifest.MethodRecord, error) {
	sig := fn.Type().(*gotypes.Signature)
	mr := manifest.MethodRecord{Name: fn.Name(), PointerReceiver: ptr}
	for i := 0; i < sig.Params().Len(); i++ {
		raw, err := b.expr(sig.Params().At(i).Type())
		if err != nil {
			return mr, fmt.Errorf("method %s: %w", fn.Name(), err)
		}
		mr.Params = append(mr.Params, raw)
	}
	for i := 0; i < sig.Results().Len(); i++ {
		raw, err := b.expr(sig.Results().At(i).Type())
		if err != nil {
			return mr, fmt.Errorf("method %s: %w", fn.Name(), err)
		}
		mr.Results = append(mr.Results, raw)
	}
	return mr, nil
}

// expr converts t and encodes it as a manifest type expression.
func (b *builder) expr(t gotypes.Type) (json.RawMessage, error) {
	d, err := b.convertType(t)
	if err != nil {
		return nil, err
	}
	return types.MarshalRef(d)
}

// convertType converts a Go type to a descriptor. Named types are returned
// as name-only references and queued for extraction.
func (b *builder) convertType(t gotypes.Type) (types.Type, error) {
	switch typ := t.(type) {
	case *gotypes.Alias:
		return b.convertType(gotypes.Unalias(typ))

	case *gotypes.Basic:
		if typ.Kind() == gotypes.UnsafePointer {
			return types.Typ[types.KindUnsafePointer], nil
		}
		bt, ok := types.BasicByName(typ.Name())
		if !ok {
			return nil, fmt.Errorf("unsupported basic type: %s", typ)
		}
		return bt, nil

	case *gotypes.Named:
		obj := typ.Obj()
		if obj.Pkg() == nil {
			// error is the only predeclared named type.
			return b.convertType(typ.Underlying())
		}
		if typ.TypeArgs().Len() > 0 {
			key := typeKey(typ)
			b.warn(WarnGenericType, key, "instantiated generic type %s mapped to any", typ)
			return types.Any, nil
		}
		b.enqueue(typ)
		return &types.Named{Name: typeKey(typ)}, nil

	case *gotypes.Pointer:
		elem, err := b.convertType(typ.Elem())
		if err != nil {
			return nil, err
		}
		return types.NewPointer(elem), nil

	case *gotypes.Slice:
		elem, err := b.convertType(typ.Elem())
		if err != nil {
			return nil, err
		}
		return types.NewSlice(elem), nil

	case *gotypes.Array:
		elem, err := b.convertType(typ.Elem())
		if err != nil {
			return nil, err
		}
		return types.NewArray(elem, int(typ.Len())), nil

	case *gotypes.Map:
		key, err := b.convertType(typ.Key())
		if err != nil {
			return nil, err
		}
		elem, err := b.convertType(typ.Elem())
		if err != nil {
			return nil, err
		}
		return types.NewMap(key, elem), nil

	case *gotypes.Chan:
		elem, err := b.convertType(typ.Elem())
		if err != nil {
			return nil, err
		}
		return types.NewChan(elem, chanDir(typ.Dir())), nil

	case *gotypes.Signature:
		params, err := b.convertTuple(typ.Params())
		if err != nil {
			return nil, err
		}
		results, err := b.convertTuple(typ.Results())
		if err != nil {
			return nil, err
		}
		return types.NewSignature(params, results, typ.Variadic()), nil

	case *gotypes.Struct:
		s := &types.Struct{}
		for i := 0; i < typ.NumFields(); i++ {
			f := typ.Field(i)
			ft, err := b.convertType(f.Type())
			if err != nil {
				return nil, err
			}
			s.Fields = append(s.Fields, types.Field{
				Name:      f.Name(),
				Type:      ft,
				Tag:       types.StructTag(typ.Tag(i)),
				Anonymous: f.Embedded(),
			})
		}
		return s, nil

	case *gotypes.Interface:
		if typ.Empty() {
			return types.Any, nil
		}
		iface := &types.Interface{}
		for i := 0; i < typ.NumMethods(); i++ {
			m := typ.Method(i)
			sig := m.Type().(*gotypes.Signature)
			params, err := b.convertTuple(sig.Params())
			if err != nil {
				return nil, err
			}
			results, err := b.convertTuple(sig.Results())
			if err != nil {
				return nil, err
			}
			iface.Methods = append(iface.Methods, types.Method{Name: m.Name(), Params: params, Results: results})
		}
		return iface, nil

	case *gotypes.TypeParam:
		return nil, fmt.Errorf("unexpected type parameter %s", typ)

	default:
		return nil, fmt.Errorf("unknown type: %T", t)
	}
}

func (b *builder) convertTuple(tup *gotypes.Tuple) ([]types.Type, error) {
	if tup.Len() == 0 {
		return nil, nil
	}
	out := make([]types.Type, tup.Len())
	for i := 0; i < tup.Len(); i++ {
		t, err := b.convertType(tup.At(i).Type())
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}

func chanDir(d gotypes.ChanDir) types.ChanDir {
	switch d {
	case gotypes.SendOnly:
		return types.SendOnly
	case gotypes.RecvOnly:
		return types.RecvOnly
	}
	return types.SendRecv
}
