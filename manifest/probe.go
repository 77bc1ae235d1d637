package manifest

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/broady/gobox"
	"github.com/broady/gobox/types"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
)

var schemaDecoder = schema.NewDecoder()

func init() {
	schemaDecoder.IgnoreUnknownKeys(true)
}

// Probe describes a type assertion to try against a registry: a zero value
// of type Value is boxed and then asserted to Target. Probes are written as
// URL query strings, e.g.
//
//	value=*main.Dog&nil=true&target=main.Animal
type Probe struct {
	// Value is the dynamic type of the boxed value. Empty means the nil
	// interface.
	Value string `schema:"value"`

	// Nil boxes a nil pointer instead of a pointer to a zero value. It
	// requires Value to be a pointer type.
	Nil bool `schema:"nil"`

	// Target is the asserted type.
	Target string `schema:"target" validate:"required"`

	// AcceptNil makes a nil interface satisfy the assertion.
	AcceptNil bool `schema:"acceptNil"`
}

// ProbeResult is the outcome of Probe.Run.
type ProbeResult struct {
	Matched bool   `json:"matched"`
	Box     string `json:"box"`
	Result  string `json:"result"`
}

// ParseProbe decodes a probe from a URL query string.
func ParseProbe(query string) (*Probe, error) {
	values, err := url.ParseQuery(strings.TrimPrefix(query, "?"))
	if err != nil {
		return nil, fmt.Errorf("parse probe: %w", err)
	}
	var p Probe
	if err := schemaDecoder.Decode(&p, values); err != nil {
		return nil, fmt.Errorf("parse probe: %w", err)
	}
	if err := validate.Struct(&p); err != nil {
		var ves validator.ValidationErrors
		if errors.As(err, &ves) {
			msgs := make([]string, 0, len(ves))
			for _, ve := range ves {
				msgs = append(msgs, strings.ToLower(ve.Field())+": "+formatValidationError(ve))
			}
			return nil, fmt.Errorf("invalid probe: %s", strings.Join(msgs, "; "))
		}
		return nil, err
	}
	if p.Nil && !strings.HasPrefix(p.Value, "*") {
		return nil, fmt.Errorf("invalid probe: nil requires a pointer value type, got %q", p.Value)
	}
	return &p, nil
}

// Run boxes the probe's value and asserts it against the target type.
func (p *Probe) Run(reg *gobox.Registry) (ProbeResult, error) {
	target, err := ParseTypeRef(reg, p.Target)
	if err != nil {
		return ProbeResult{}, err
	}

	var b gobox.Boxed
	if p.Value != "" {
		dyn, err := ParseTypeRef(reg, p.Value)
		if err != nil {
			return ProbeResult{}, err
		}
		b = gobox.Box(dyn, probeValue(reg, dyn, p.Nil))
	}

	v, ok := reg.TryAssert(b, gobox.Request{Target: target, AcceptNil: p.AcceptNil})
	return ProbeResult{
		Matched: ok,
		Box:     b.String(),
		Result:  fmt.Sprint(v),
	}, nil
}

func probeValue(reg *gobox.Registry, t types.Type, isNil bool) any {
	switch u := types.Underlying(reg.Resolve(t)).(type) {
	case *types.Pointer:
		if isNil {
			return nil
		}
		return gobox.NewCell(reg.Zero(u.Elem))
	case *types.Interface:
		return nil
	}
	return reg.Zero(t)
}

// ParseTypeRef parses a type expression in source notation: a basic type
// name, a registered name, or one of *T, []T, [N]T, map[K]V, chan T,
// <-chan T, chan<- T and any built from those.
func ParseTypeRef(reg *gobox.Registry, s string) (types.Type, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return nil, errors.New("empty type expression")
	case s == "any" || s == "interface{}":
		return types.Any, nil
	case strings.HasPrefix(s, "*"):
		elem, err := ParseTypeRef(reg, s[1:])
		if err != nil {
			return nil, err
		}
		return types.NewPointer(elem), nil
	case strings.HasPrefix(s, "[]"):
		elem, err := ParseTypeRef(reg, s[2:])
		if err != nil {
			return nil, err
		}
		return types.NewSlice(elem), nil
	case strings.HasPrefix(s, "["):
		end := strings.IndexByte(s, ']')
		if end < 0 {
			return nil, fmt.Errorf("malformed array type %q", s)
		}
		n, err := strconv.Atoi(s[1:end])
		if err != nil || n < 0 {
			return nil, fmt.Errorf("malformed array length in %q", s)
		}
		elem, err := ParseTypeRef(reg, s[end+1:])
		if err != nil {
			return nil, err
		}
		return types.NewArray(elem, n), nil
	case strings.HasPrefix(s, "map["):
		end := matchingBracket(s, 3)
		if end < 0 {
			return nil, fmt.Errorf("malformed map type %q", s)
		}
		key, err := ParseTypeRef(reg, s[4:end])
		if err != nil {
			return nil, err
		}
		elem, err := ParseTypeRef(reg, s[end+1:])
		if err != nil {
			return nil, err
		}
		return types.NewMap(key, elem), nil
	case strings.HasPrefix(s, "<-chan "):
		return parseChan(reg, s[len("<-chan "):], types.RecvOnly)
	case strings.HasPrefix(s, "chan<- "):
		return parseChan(reg, s[len("chan<- "):], types.SendOnly)
	case strings.HasPrefix(s, "chan "):
		return parseChan(reg, s[len("chan "):], types.SendRecv)
	}

	if b, ok := types.BasicByName(s); ok {
		return b, nil
	}
	if t, ok := reg.Lookup(s); ok {
		return t, nil
	}
	return nil, fmt.Errorf("unknown type %q", s)
}

func parseChan(reg *gobox.Registry, s string, dir types.ChanDir) (types.Type, error) {
	elem, err := ParseTypeRef(reg, s)
	if err != nil {
		return nil, err
	}
	return types.NewChan(elem, dir), nil
}

// matchingBracket returns the index of the ']' closing the '[' at open.
func matchingBracket(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
