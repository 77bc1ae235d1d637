package types

// Pointer represents a pointer type *Elem.
type Pointer struct {
	unnamed
	Elem Type
}

// NewPointer returns a Pointer descriptor.
func NewPointer(elem Type) *Pointer { return &Pointer{Elem: elem} }

// Kind returns Pointer.
func (p *Pointer) Kind() Kind { return KindPointer }

func (p *Pointer) String() string { return TypeString(p) }

// Slice represents a slice type []Elem.
type Slice struct {
	unnamed
	Elem Type
}

// NewSlice returns a Slice descriptor.
func NewSlice(elem Type) *Slice { return &Slice{Elem: elem} }

// Kind returns Slice.
func (s *Slice) Kind() Kind { return KindSlice }

func (s *Slice) String() string { return TypeString(s) }

// Array represents a fixed-length array type [Len]Elem.
type Array struct {
	unnamed
	Elem Type
	Len  int
}

// NewArray returns an Array descriptor.
func NewArray(elem Type, n int) *Array { return &Array{Elem: elem, Len: n} }

// Kind returns Array.
func (a *Array) Kind() Kind { return KindArray }

func (a *Array) String() string { return TypeString(a) }

// Map represents a map type map[Key]Elem.
type Map struct {
	unnamed
	Key  Type
	Elem Type
}

// NewMap returns a Map descriptor.
func NewMap(key, elem Type) *Map { return &Map{Key: key, Elem: elem} }

// Kind returns Map.
func (m *Map) Kind() Kind { return KindMap }

func (m *Map) String() string { return TypeString(m) }

// ChanDir is the direction of a channel type.
type ChanDir int

const (
	SendRecv ChanDir = iota // chan T
	SendOnly                // chan<- T
	RecvOnly                // <-chan T
)

// String returns the direction name.
func (d ChanDir) String() string {
	switch d {
	case SendRecv:
		return "both"
	case SendOnly:
		return "send"
	case RecvOnly:
		return "recv"
	default:
		return "unknown"
	}
}

// Satisfies reports whether a channel of direction d may be used where
// direction want is required. A bidirectional channel satisfies every
// direction; a directional channel satisfies only its own.
func (d ChanDir) Satisfies(want ChanDir) bool {
	return d == SendRecv || d == want
}

// Chan represents a channel type. These descriptors are consumed unchanged
// by the task scheduler for send, receive and select.
type Chan struct {
	unnamed
	Elem Type
	Dir  ChanDir
}

// NewChan returns a Chan descriptor.
func NewChan(elem Type, dir ChanDir) *Chan { return &Chan{Elem: elem, Dir: dir} }

// Kind returns Chan.
func (c *Chan) Kind() Kind { return KindChan }

func (c *Chan) String() string { return TypeString(c) }

// Signature represents a function type. A nil entry in Params or Results
// marks a type that is not statically known; only arity is compared there.
type Signature struct {
	unnamed
	Params   []Type
	Results  []Type
	Variadic bool
}

// NewSignature returns a Signature descriptor.
func NewSignature(params, results []Type, variadic bool) *Signature {
	return &Signature{Params: params, Results: results, Variadic: variadic}
}

// Kind returns Func.
func (s *Signature) Kind() Kind { return KindFunc }

func (s *Signature) String() string { return TypeString(s) }
