package types

import (
	"encoding/json"
	"fmt"
)

// JSON serialization support for descriptors.
// Every encoded descriptor carries a "kind" field for discrimination.
// Named types nested inside another descriptor are written as
// {"kind":"ref","name":...}, which keeps recursive graphs finite.

// Wire kinds.
const (
	wireBasic     = "basic"
	wireNamed     = "named"
	wireStruct    = "struct"
	wireInterface = "interface"
	wirePointer   = "pointer"
	wireSlice     = "slice"
	wireArray     = "array"
	wireMap       = "map"
	wireChan      = "chan"
	wireFunc      = "func"
	wireRef       = "ref"
)

type wireType struct {
	Kind       string       `json:"kind"`
	Name       string       `json:"name,omitempty"`
	Underlying *wireType    `json:"underlying,omitempty"`
	Elem       *wireType    `json:"elem,omitempty"`
	Key        *wireType    `json:"key,omitempty"`
	Len        int          `json:"len,omitempty"`
	Dir        string       `json:"dir,omitempty"`
	Params     []*wireType  `json:"params,omitempty"`
	Results    []*wireType  `json:"results,omitempty"`
	Variadic   bool         `json:"variadic,omitempty"`
	Fields     []wireField  `json:"fields,omitempty"`
	Methods    []wireMethod `json:"methods,omitempty"`
}

type wireField struct {
	Name      string    `json:"name"`
	Type      *wireType `json:"type"`
	Tag       string    `json:"tag,omitempty"`
	Anonymous bool      `json:"anonymous,omitempty"`
}

type wireMethod struct {
	Name    string      `json:"name"`
	Params  []*wireType `json:"params,omitempty"`
	Results []*wireType `json:"results,omitempty"`
}

// toWire converts t. When top is false, named types become references.
func toWire(t Type, top bool) *wireType {
	if t == nil {
		return nil
	}
	if name := t.TypeName(); name != "" && !top {
		return &wireType{Kind: wireRef, Name: name}
	}

	switch t := t.(type) {
	case *Basic:
		return &wireType{Kind: wireBasic, Name: t.Name()}
	case *Named:
		return &wireType{Kind: wireNamed, Name: t.Name, Underlying: toWire(t.Underlying, false)}
	case *Pointer:
		return &wireType{Kind: wirePointer, Elem: toWire(t.Elem, false)}
	case *Slice:
		return &wireType{Kind: wireSlice, Elem: toWire(t.Elem, false)}
	case *Array:
		return &wireType{Kind: wireArray, Elem: toWire(t.Elem, false), Len: t.Len}
	case *Map:
		return &wireType{Kind: wireMap, Key: toWire(t.Key, false), Elem: toWire(t.Elem, false)}
	case *Chan:
		return &wireType{Kind: wireChan, Elem: toWire(t.Elem, false), Dir: t.Dir.String()}
	case *Signature:
		return &wireType{
			Kind:     wireFunc,
			Params:   tupleToWire(t.Params),
			Results:  tupleToWire(t.Results),
			Variadic: t.Variadic,
		}
	case *Struct:
		w := &wireType{Kind: wireStruct, Name: t.Name}
		for _, f := range t.Fields {
			w.Fields = append(w.Fields, wireField{
				Name:      f.Name,
				Type:      toWire(f.Type, false),
				Tag:       string(f.Tag),
				Anonymous: f.Anonymous,
			})
		}
		return w
	case *Interface:
		w := &wireType{Kind: wireInterface, Name: t.Name}
		for _, m := range t.Methods {
			w.Methods = append(w.Methods, wireMethod{
				Name:    m.Name,
				Params:  tupleToWire(m.Params),
				Results: tupleToWire(m.Results),
			})
		}
		return w
	}
	return nil
}

func tupleToWire(ts []Type) []*wireType {
	if len(ts) == 0 {
		return nil
	}
	out := make([]*wireType, len(ts))
	for i, t := range ts {
		out[i] = toWire(t, false)
	}
	return out
}

// MarshalJSON implements json.Marshaler for Basic.
func (b *Basic) MarshalJSON() ([]byte, error) { return json.Marshal(toWire(b, true)) }

// MarshalJSON implements json.Marshaler for Named.
func (n *Named) MarshalJSON() ([]byte, error) { return json.Marshal(toWire(n, true)) }

// MarshalJSON implements json.Marshaler for Struct.
func (s *Struct) MarshalJSON() ([]byte, error) { return json.Marshal(toWire(s, true)) }

// MarshalJSON implements json.Marshaler for Interface.
func (i *Interface) MarshalJSON() ([]byte, error) { return json.Marshal(toWire(i, true)) }

// MarshalJSON implements json.Marshaler for Pointer.
func (p *Pointer) MarshalJSON() ([]byte, error) { return json.Marshal(toWire(p, true)) }

// MarshalJSON implements json.Marshaler for Slice.
func (s *Slice) MarshalJSON() ([]byte, error) { return json.Marshal(toWire(s, true)) }

// MarshalJSON implements json.Marshaler for Array.
func (a *Array) MarshalJSON() ([]byte, error) { return json.Marshal(toWire(a, true)) }

// MarshalJSON implements json.Marshaler for Map.
func (m *Map) MarshalJSON() ([]byte, error) { return json.Marshal(toWire(m, true)) }

// MarshalJSON implements json.Marshaler for Chan.
func (c *Chan) MarshalJSON() ([]byte, error) { return json.Marshal(toWire(c, true)) }

// MarshalJSON implements json.Marshaler for Signature.
func (s *Signature) MarshalJSON() ([]byte, error) { return json.Marshal(toWire(s, true)) }

// MarshalRef encodes t as a type expression: a named t is written as a
// reference rather than in full.
func MarshalRef(t Type) ([]byte, error) {
	return json.Marshal(toWire(t, false))
}

// Resolver maps a qualified type name to its descriptor while decoding.
type Resolver func(name string) (Type, bool)

// UnresolvedError reports a reference to a type the resolver does not know.
type UnresolvedError struct {
	Name string
}

func (e *UnresolvedError) Error() string {
	return "unresolved type reference: " + e.Name
}

// Unmarshal decodes a descriptor written by MarshalJSON or MarshalRef.
// References are looked up with resolve, which may be nil when the input
// is known to contain none.
func Unmarshal(data []byte, resolve Resolver) (Type, error) {
	var w wireType
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, err
	}
	return fromWire(&w, resolve)
}

func fromWire(w *wireType, resolve Resolver) (Type, error) {
	if w == nil {
		return nil, nil
	}

	switch w.Kind {
	case wireRef:
		if resolve != nil {
			if t, ok := resolve(w.Name); ok {
				return t, nil
			}
		}
		return nil, &UnresolvedError{Name: w.Name}
	case wireBasic:
		b, ok := BasicByName(w.Name)
		if !ok {
			return nil, fmt.Errorf("unknown basic type %q", w.Name)
		}
		return b, nil
	case wireNamed:
		u, err := fromWire(w.Underlying, resolve)
		if err != nil {
			return nil, err
		}
		return &Named{Name: w.Name, Underlying: u}, nil
	case wirePointer:
		elem, err := fromWire(w.Elem, resolve)
		if err != nil {
			return nil, err
		}
		return &Pointer{Elem: elem}, nil
	case wireSlice:
		elem, err := fromWire(w.Elem, resolve)
		if err != nil {
			return nil, err
		}
		return &Slice{Elem: elem}, nil
	case wireArray:
		elem, err := fromWire(w.Elem, resolve)
		if err != nil {
			return nil, err
		}
		return &Array{Elem: elem, Len: w.Len}, nil
	case wireMap:
		key, err := fromWire(w.Key, resolve)
		if err != nil {
			return nil, err
		}
		elem, err := fromWire(w.Elem, resolve)
		if err != nil {
			return nil, err
		}
		return &Map{Key: key, Elem: elem}, nil
	case wireChan:
		elem, err := fromWire(w.Elem, resolve)
		if err != nil {
			return nil, err
		}
		dir, err := parseChanDir(w.Dir)
		if err != nil {
			return nil, err
		}
		return &Chan{Elem: elem, Dir: dir}, nil
	case wireFunc:
		params, err := tupleFromWire(w.Params, resolve)
		if err != nil {
			return nil, err
		}
		results, err := tupleFromWire(w.Results, resolve)
		if err != nil {
			return nil, err
		}
		return &Signature{Params: params, Results: results, Variadic: w.Variadic}, nil
	case wireStruct:
		s := &Struct{Name: w.Name}
		if err := fillStruct(s, w.Fields, resolve); err != nil {
			return nil, err
		}
		return s, nil
	case wireInterface:
		i := &Interface{Name: w.Name}
		for _, m := range w.Methods {
			dm, err := methodFromWire(m, resolve)
			if err != nil {
				return nil, err
			}
			i.Methods = append(i.Methods, dm)
		}
		return i, nil
	}
	return nil, fmt.Errorf("unknown descriptor kind %q", w.Kind)
}

// fillStruct populates s.Fields from encoded fields. It is used to patch a
// forward-declared struct once every type it references is known.
func fillStruct(s *Struct, fields []wireField, resolve Resolver) error {
	for _, f := range fields {
		ft, err := fromWire(f.Type, resolve)
		if err != nil {
			return fmt.Errorf("field %s.%s: %w", s.Name, f.Name, err)
		}
		s.Fields = append(s.Fields, Field{
			Name:      f.Name,
			Type:      ft,
			Tag:       StructTag(f.Tag),
			Anonymous: f.Anonymous,
		})
	}
	return nil
}

func methodFromWire(m wireMethod, resolve Resolver) (Method, error) {
	params, err := tupleFromWire(m.Params, resolve)
	if err != nil {
		return Method{}, fmt.Errorf("method %s: %w", m.Name, err)
	}
	results, err := tupleFromWire(m.Results, resolve)
	if err != nil {
		return Method{}, fmt.Errorf("method %s: %w", m.Name, err)
	}
	return Method{Name: m.Name, Params: params, Results: results}, nil
}

func tupleFromWire(ws []*wireType, resolve Resolver) ([]Type, error) {
	if len(ws) == 0 {
		return nil, nil
	}
	out := make([]Type, len(ws))
	for i, w := range ws {
		t, err := fromWire(w, resolve)
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}

func parseChanDir(s string) (ChanDir, error) {
	switch s {
	case "", "both":
		return SendRecv, nil
	case "send":
		return SendOnly, nil
	case "recv":
		return RecvOnly, nil
	}
	return 0, fmt.Errorf("unknown channel direction %q", s)
}
