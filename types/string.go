package types

import (
	"strconv"
	"strings"
)

// TypeString returns the source notation of t. Named types are written by
// their qualified name; nil (an unknown type) is written as "?".
func TypeString(t Type) string {
	var b strings.Builder
	writeType(&b, t)
	return b.String()
}

func writeType(b *strings.Builder, t Type) {
	if t == nil {
		b.WriteString("?")
		return
	}
	if name := t.TypeName(); name != "" {
		b.WriteString(name)
		return
	}

	switch t := t.(type) {
	case *Basic:
		b.WriteString(t.Name())
	case *Pointer:
		b.WriteByte('*')
		writeType(b, t.Elem)
	case *Slice:
		b.WriteString("[]")
		writeType(b, t.Elem)
	case *Array:
		b.WriteByte('[')
		b.WriteString(strconv.Itoa(t.Len))
		b.WriteByte(']')
		writeType(b, t.Elem)
	case *Map:
		b.WriteString("map[")
		writeType(b, t.Key)
		b.WriteByte(']')
		writeType(b, t.Elem)
	case *Chan:
		switch t.Dir {
		case SendOnly:
			b.WriteString("chan<- ")
		case RecvOnly:
			b.WriteString("<-chan ")
		default:
			b.WriteString("chan ")
		}
		// chan (<-chan T) needs parentheses to parse back.
		inner, paren := t.Elem.(*Chan)
		paren = paren && inner.Dir == RecvOnly && t.Dir != RecvOnly
		if paren {
			b.WriteByte('(')
		}
		writeType(b, t.Elem)
		if paren {
			b.WriteByte(')')
		}
	case *Signature:
		b.WriteString("func")
		writeSignature(b, t.Params, t.Results, t.Variadic)
	case *Struct:
		b.WriteString("struct {")
		for i, f := range t.Fields {
			if i > 0 {
				b.WriteByte(';')
			}
			b.WriteByte(' ')
			if !f.Anonymous {
				b.WriteString(f.Name)
				b.WriteByte(' ')
			}
			writeType(b, f.Type)
			if f.Tag != "" {
				b.WriteByte(' ')
				b.WriteString(strconv.Quote(string(f.Tag)))
			}
		}
		if len(t.Fields) > 0 {
			b.WriteByte(' ')
		}
		b.WriteByte('}')
	case *Interface:
		if t.Empty() {
			b.WriteString("interface {}")
			return
		}
		b.WriteString("interface {")
		for i, m := range sortedMethods(t.Methods) {
			if i > 0 {
				b.WriteByte(';')
			}
			b.WriteByte(' ')
			b.WriteString(m.Name)
			writeSignature(b, m.Params, m.Results, false)
		}
		b.WriteString(" }")
	case *Named:
		b.WriteString(t.Name)
	}
}

func writeSignature(b *strings.Builder, params, results []Type, variadic bool) {
	b.WriteByte('(')
	for i, p := range params {
		if i > 0 {
			b.WriteString(", ")
		}
		if variadic && i == len(params)-1 {
			b.WriteString("...")
			if s, ok := p.(*Slice); ok {
				p = s.Elem
			}
		}
		writeType(b, p)
	}
	b.WriteByte(')')

	switch len(results) {
	case 0:
	case 1:
		b.WriteByte(' ')
		writeType(b, results[0])
	default:
		b.WriteString(" (")
		for i, r := range results {
			if i > 0 {
				b.WriteString(", ")
			}
			writeType(b, r)
		}
		b.WriteByte(')')
	}
}
