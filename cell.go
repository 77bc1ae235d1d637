package gobox

// Cell is a single mutable slot. It is the only representation of a pointer:
// taking the address of a variable yields the variable's Cell, and two
// pointers are equal exactly when they are the same *Cell. A nil *Cell is a
// nil pointer.
//
// Cells are never copied by the value model; sharing a cell is what sharing
// a pointer means. Cells carry no locking of their own: concurrent mutation
// of one cell must be coordinated by the caller.
type Cell struct {
	v any
}

// NewCell returns a cell holding v.
func NewCell(v any) *Cell {
	return &Cell{v: v}
}

// Get returns the current contents of the cell. Dereferencing a nil cell
// panics with a nil dereference error.
func (c *Cell) Get() any {
	if c == nil {
		panic(nilDereference)
	}
	return c.v
}

// Set replaces the contents of the cell. Every holder of the cell observes
// the new value.
func (c *Cell) Set(v any) {
	if c == nil {
		panic(nilDereference)
	}
	c.v = v
}
