package types

// Named represents a defined type whose underlying type is neither a struct
// nor an interface, e.g. `type Celsius float64` or `type IDs []string`.
// Named structs and interfaces carry their name directly on Struct and
// Interface.
type Named struct {
	// Name is the qualified name, e.g. "main.Celsius".
	Name string

	// Underlying is the type the name is defined over. It may be nil while
	// the descriptor is a forward declaration.
	Underlying Type
}

// NewNamed returns a Named descriptor.
func NewNamed(name string, underlying Type) *Named {
	return &Named{Name: name, Underlying: underlying}
}

// Kind returns the kind of the underlying type.
func (n *Named) Kind() Kind {
	if n.Underlying == nil {
		return KindInvalid
	}
	return n.Underlying.Kind()
}

// TypeName returns the qualified name.
func (n *Named) TypeName() string { return n.Name }

func (n *Named) String() string { return n.Name }

func (*Named) sealed() {}
