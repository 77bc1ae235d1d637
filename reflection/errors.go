package reflection

import (
	"strconv"

	"github.com/broady/gobox/types"
)

// A ValueError occurs when a Value method is invoked on a Value that does
// not support it.
type ValueError struct {
	Method string
	Kind   Kind
}

func (*ValueError) RuntimeError() {}

func (e *ValueError) Error() string {
	if e.Kind == types.KindInvalid {
		return "reflection: call of " + e.Method + " on zero Value"
	}
	return "reflection: call of " + e.Method + " on " + e.Kind.String() + " Value"
}

// An UnaddressableSetError occurs when a setter is invoked on a Value that
// was not reached through a pointer, so there is no location to write to.
type UnaddressableSetError struct {
	Method string
}

func (*UnaddressableSetError) RuntimeError() {}

func (e *UnaddressableSetError) Error() string {
	return "reflection: " + e.Method + " using unaddressable value"
}

// A RangeError occurs when a field or element index is out of range.
type RangeError struct {
	Method string
	Index  int
	Len    int
}

func (*RangeError) RuntimeError() {}

func (e *RangeError) Error() string {
	return "reflection: " + e.Method + " index " + strconv.Itoa(e.Index) +
		" out of range [0:" + strconv.Itoa(e.Len) + "]"
}

// An AssignError occurs when Set is given a value whose type is not
// assignable to the destination.
type AssignError struct {
	From, To types.Type
}

func (*AssignError) RuntimeError() {}

func (e *AssignError) Error() string {
	return "reflection.Set: value of type " + types.TypeString(e.From) +
		" is not assignable to type " + types.TypeString(e.To)
}
