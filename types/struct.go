package types

import (
	"strconv"
	"strings"
)

// Struct represents a fixed-shape aggregate. A Struct with a Name is a
// named type and is identified by that name; an unnamed Struct (a struct
// literal type) is compared structurally.
type Struct struct {
	// Name is the qualified name, e.g. "main.Person". Empty for
	// anonymous struct types.
	Name string

	// Fields contains all fields in declaration order.
	Fields []Field
}

// Field describes a single struct field.
type Field struct {
	// Name is the field name. For embedded fields this is the type name.
	Name string

	// Type is the declared field type.
	Type Type

	// Tag is the raw struct tag.
	Tag StructTag

	// Anonymous reports whether the field is embedded.
	Anonymous bool
}

// NewStruct returns a Struct descriptor.
func NewStruct(name string, fields ...Field) *Struct {
	return &Struct{Name: name, Fields: fields}
}

// Kind returns Struct.
func (s *Struct) Kind() Kind { return KindStruct }

// TypeName returns the struct's qualified name.
func (s *Struct) TypeName() string { return s.Name }

func (s *Struct) String() string { return TypeString(s) }

func (*Struct) sealed() {}

// NumField returns the number of fields.
func (s *Struct) NumField() int { return len(s.Fields) }

// Field returns the i'th field. It panics if i is out of range.
func (s *Struct) Field(i int) Field { return s.Fields[i] }

// FieldIndex returns the index of the field with the given name, or -1.
func (s *Struct) FieldIndex(name string) int {
	for i, f := range s.Fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// FieldByName returns the field with the given name.
func (s *Struct) FieldByName(name string) (Field, bool) {
	if i := s.FieldIndex(name); i >= 0 {
		return s.Fields[i], true
	}
	return Field{}, false
}

// A StructTag is the tag string of a struct field.
//
// By convention, tag strings are a concatenation of optionally
// space-separated key:"value" pairs.
type StructTag string

// Get returns the value associated with key in the tag string.
// If there is no such key, Get returns the empty string.
func (tag StructTag) Get(key string) string {
	v, _ := tag.Lookup(key)
	return v
}

// Lookup returns the value associated with key in the tag string and
// whether the key was present at all.
func (tag StructTag) Lookup(key string) (value string, ok bool) {
	for tag != "" {
		// Skip leading space.
		i := 0
		for i < len(tag) && tag[i] == ' ' {
			i++
		}
		tag = tag[i:]
		if tag == "" {
			break
		}

		// Scan to colon. A space, a quote or a control character is a syntax error.
		i = 0
		for i < len(tag) && tag[i] > ' ' && tag[i] != ':' && tag[i] != '"' && tag[i] != 0x7f {
			i++
		}
		if i == 0 || i+1 >= len(tag) || tag[i] != ':' || tag[i+1] != '"' {
			break
		}
		name := string(tag[:i])
		tag = tag[i+1:]

		// Scan quoted string to find value.
		i = 1
		for i < len(tag) && tag[i] != '"' {
			if tag[i] == '\\' {
				i++
			}
			i++
		}
		if i >= len(tag) {
			break
		}
		qvalue := string(tag[:i+1])
		tag = tag[i+1:]

		if key == name {
			value, err := strconv.Unquote(qvalue)
			if err != nil {
				break
			}
			return value, true
		}
	}
	return "", false
}

// Keys returns the keys present in the tag, in order.
func (tag StructTag) Keys() []string {
	var keys []string
	for _, tok := range strings.Fields(string(tag)) {
		if i := strings.Index(tok, ":\""); i > 0 {
			keys = append(keys, tok[:i])
		}
	}
	return keys
}
