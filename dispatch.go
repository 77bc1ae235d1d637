package gobox

import (
	"log/slog"

	"github.com/broady/gobox/types"
)

// Call invokes the named method on the value held in b.
//
// The method is resolved from the method set of b's dynamic type. A method
// with a pointer receiver is passed the *Cell, which is nil when b holds a
// TypedNil; the method body decides what a nil receiver means. A method with
// a value receiver is passed a copy of the value, dereferencing the cell
// first when the dynamic type is a pointer.
func (r *Registry) Call(b Boxed, name string, args ...any) ([]any, error) {
	if b.IsNil() {
		return nil, Errorf(CodeNilInterface, "method %s called on nil interface", name)
	}

	m, ok := findMethod(r.MethodSet(b.Type), name)
	if !ok {
		return nil, Errorf(CodeMissingMethod, "%s has no method %s", b.Type, name).
			WithDetail("type", types.TypeString(b.Type)).
			WithDetail("method", name)
	}

	recv, err := receiver(b, m)
	if err != nil {
		return nil, err
	}

	r.log().Debug("dispatch",
		slog.String("type", types.TypeString(b.Type)),
		slog.String("method", name))

	if m.Func == nil {
		out := make([]any, len(m.Results))
		for i, t := range m.Results {
			out[i] = r.Zero(t)
		}
		return out, nil
	}
	return m.Func(recv, args...), nil
}

// MustCall is like Call but panics on error.
func (r *Registry) MustCall(b Boxed, name string, args ...any) []any {
	out, err := r.Call(b, name, args...)
	if err != nil {
		panic(err)
	}
	return out
}

func receiver(b Boxed, m MethodImpl) (any, error) {
	var c *Cell
	switch x := b.Value.(type) {
	case TypedNil:
	case *Cell:
		c = x
	default:
		return Copy(x), nil
	}

	if m.PointerReceiver {
		return c, nil
	}
	if c == nil {
		return nil, nilDereference.
			WithDetail("type", types.TypeString(b.Type)).
			WithDetail("method", m.Name)
	}
	return Copy(c.v), nil
}
