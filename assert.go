package gobox

import "github.com/broady/gobox/types"

// Request describes a type assertion.
type Request struct {
	// Target is the asserted type. It may be nil only when AcceptNil is set,
	// which is how a "case nil" arm is expressed.
	Target types.Type

	// AcceptNil makes a nil interface satisfy the request.
	AcceptNil bool

	// Source is the static interface type the value is held in. It only
	// affects the message of an InterfaceConversionError; nil means the
	// empty interface.
	Source types.Type
}

// TryAssert is the comma-ok form of a type assertion. On success it returns
// the asserted value: the Boxed itself for an interface target, otherwise the
// unboxed payload (a copy for structs and arrays, (*Cell)(nil) for a boxed
// nil pointer). On failure it returns the zero value of the target and false.
// TryAssert never panics.
func (r *Registry) TryAssert(b Boxed, req Request) (any, bool) {
	if b.IsNil() {
		if req.AcceptNil {
			return b, true
		}
		return r.Zero(req.Target), false
	}
	if req.Target == nil {
		return nil, false
	}
	if !r.Matches(b, req.Target) {
		return r.Zero(req.Target), false
	}
	if _, ok := r.Resolve(req.Target).(*types.Interface); ok {
		return b, true
	}
	return unbox(b), true
}

// Assert is shorthand for TryAssert with only a target.
func (r *Registry) Assert(b Boxed, target types.Type) (any, bool) {
	return r.TryAssert(b, Request{Target: target})
}

// MustAssert is the single-result form of a type assertion. It panics with
// an *InterfaceConversionError when b does not satisfy the request.
func (r *Registry) MustAssert(b Boxed, req Request) any {
	v, ok := r.TryAssert(b, req)
	if ok {
		return v
	}

	err := &InterfaceConversionError{
		Interface: req.Source,
		Concrete:  b.Type,
		Asserted:  req.Target,
	}
	if iface, isIface := r.Resolve(req.Target).(*types.Interface); isIface && !b.IsNil() {
		err.MissingMethod = r.MissingMethod(b.Type, iface)
	}
	panic(err)
}

// Arm is one case of a type switch. A nil entry in Types matches the nil
// interface.
type Arm struct {
	Types []types.Type
	Body  func(v any)
}

// TypeSwitch runs the first arm that b matches, in declaration order. Arms
// are not ranked by specificity, so a broader arm listed first shadows a
// narrower one after it.
//
// An arm with exactly one non-nil type receives the asserted value, as in
// TryAssert; any other arm, and def, receive b itself. def may be nil.
// TypeSwitch returns the index of the arm that ran, or -1.
func (r *Registry) TypeSwitch(b Boxed, arms []Arm, def func(v any)) int {
	for i, arm := range arms {
		for _, t := range arm.Types {
			if t == nil {
				if !b.IsNil() {
					continue
				}
			} else if !r.Matches(b, t) {
				continue
			}

			v := any(b)
			if len(arm.Types) == 1 && t != nil {
				v, _ = r.TryAssert(b, Request{Target: t})
			}
			if arm.Body != nil {
				arm.Body(v)
			}
			return i
		}
	}
	if def != nil {
		def(b)
	}
	return -1
}
