package types

import "sort"

// Interface represents a method-set requirement. Named interfaces are
// identified by Name; inline interfaces (Name == "") are compared by their
// method sets. Either form is satisfied structurally: a type satisfies an
// interface when it has every required method.
type Interface struct {
	// Name is the qualified name, e.g. "main.Animal". Empty for inline
	// interface types.
	Name string

	// Methods is the full method set, including methods of embedded
	// interfaces.
	Methods []Method
}

// Method describes a method signature. Params and Results hold the declared
// types; a nil entry means the type is not statically known, in which case
// only the arity is compared.
type Method struct {
	Name    string
	Params  []Type
	Results []Type
}

// NewInterface returns an Interface descriptor.
func NewInterface(name string, methods ...Method) *Interface {
	return &Interface{Name: name, Methods: methods}
}

// Kind returns Interface.
func (i *Interface) Kind() Kind { return KindInterface }

// TypeName returns the interface's qualified name.
func (i *Interface) TypeName() string { return i.Name }

func (i *Interface) String() string { return TypeString(i) }

func (*Interface) sealed() {}

// NumMethod returns the number of methods in the interface's method set.
func (i *Interface) NumMethod() int { return len(i.Methods) }

// Empty reports whether the interface has no methods (interface{} / any).
func (i *Interface) Empty() bool { return len(i.Methods) == 0 }

// Method returns the method with the given name.
func (i *Interface) Method(name string) (Method, bool) {
	for _, m := range i.Methods {
		if m.Name == name {
			return m, true
		}
	}
	return Method{}, false
}

// sortedMethods returns the methods ordered by name.
func sortedMethods(ms []Method) []Method {
	out := make([]Method, len(ms))
	copy(out, ms)
	sort.Slice(out, func(a, b int) bool { return out[a].Name < out[b].Name })
	return out
}

// Any is the empty interface.
var Any = &Interface{}

// Signature returns the method's signature as a func descriptor.
func (m Method) Signature() *Signature {
	return &Signature{Params: m.Params, Results: m.Results}
}

// SameShape reports whether m and o have the same name and arity, and
// identical parameter and result types wherever both sides declare them.
func (m Method) SameShape(o Method) bool {
	if m.Name != o.Name {
		return false
	}
	return sameTuple(m.Params, o.Params) && sameTuple(m.Results, o.Results)
}

func sameTuple(a, b []Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] == nil || b[i] == nil {
			continue
		}
		if !Identical(a[i], b[i]) {
			return false
		}
	}
	return true
}
