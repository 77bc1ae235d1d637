package gobox

import (
	"sort"

	"github.com/broady/gobox/types"
)

// Matches reports whether the boxed value b satisfies target. A nil
// interface satisfies nothing; use a Request with AcceptNil to test for it.
//
// Interface targets (named or inline) are satisfied when the dynamic type's
// method set contains every required method. Every other target requires the
// dynamic type to agree on pointer-ness and then to be the same named type,
// or of the same shape for unnamed types. Channels additionally accept a
// bidirectional dynamic type for a directional target.
func (r *Registry) Matches(b Boxed, target types.Type) bool {
	if b.IsNil() || target == nil {
		return false
	}
	return r.matchType(b.Type, r.Resolve(target))
}

func (r *Registry) matchType(dyn, target types.Type) bool {
	if iface, ok := target.(*types.Interface); ok {
		return r.MissingMethod(dyn, iface) == ""
	}

	if types.IsPointer(dyn) != types.IsPointer(target) {
		return false
	}
	if dyn.TypeName() != "" || target.TypeName() != "" {
		return dyn.TypeName() == target.TypeName()
	}

	switch t := target.(type) {
	case *types.Pointer:
		d := dyn.(*types.Pointer)
		return types.Identical(d.Elem, t.Elem)
	case *types.Chan:
		d, ok := dyn.(*types.Chan)
		return ok && types.Identical(d.Elem, t.Elem) && d.Dir.Satisfies(t.Dir)
	case *types.Signature:
		d, ok := dyn.(*types.Signature)
		return ok && d.Variadic == t.Variadic &&
			sameKinds(d.Params, t.Params) && sameKinds(d.Results, t.Results)
	}
	return types.Identical(dyn, target)
}

// sameKinds compares two parameter or result lists by arity, and by type
// wherever both sides know it.
func sameKinds(a, b []types.Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != nil && b[i] != nil && !types.Identical(a[i], b[i]) {
			return false
		}
	}
	return true
}

// Implements reports whether a value of dynamic type t satisfies iface.
func (r *Registry) Implements(t types.Type, iface *types.Interface) bool {
	if t == nil || iface == nil {
		return false
	}
	if i, ok := r.Resolve(iface).(*types.Interface); ok {
		iface = i
	}
	return r.MissingMethod(t, iface) == ""
}

// MissingMethod returns the name of the first method (in name order) that
// iface requires and the method set of t lacks, or "" if there is none. A
// method present under the right name but with a different signature counts
// as missing. When t is itself an interface type its required methods are
// its method set.
func (r *Registry) MissingMethod(t types.Type, iface *types.Interface) string {
	if have, ok := r.Resolve(t).(*types.Interface); ok {
		for _, want := range sortedRequired(iface) {
			got, ok := have.Method(want.Name)
			if !ok || !got.SameShape(want) {
				return want.Name
			}
		}
		return ""
	}

	ms := r.MethodSet(t)
	for _, want := range sortedRequired(iface) {
		got, ok := findMethod(ms, want.Name)
		if !ok || !got.Method.SameShape(want) {
			return want.Name
		}
	}
	return ""
}

func sortedRequired(iface *types.Interface) []types.Method {
	out := append([]types.Method(nil), iface.Methods...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
