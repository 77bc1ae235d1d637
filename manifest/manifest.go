// Package manifest reads and writes type manifests. A manifest is a JSON
// document listing the named types of a lowered program: structs with their
// fields, interfaces with their method sets, and defined types over other
// types. Loading a manifest registers every type in one batch, so records
// may refer to each other in any order.
package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/broady/gobox"
	"github.com/broady/gobox/types"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

// Record kinds.
const (
	KindStruct    = "struct"
	KindInterface = "interface"
	KindNamed     = "named"
)

// Manifest is the top-level document.
type Manifest struct {
	// Package is the import path the types were declared in, if known.
	Package string `json:"package,omitempty"`

	Types []TypeRecord `json:"types" validate:"dive"`

	// Warnings are non-fatal issues recorded while the manifest was built,
	// e.g. declarations the source loader skipped.
	Warnings []Warning `json:"warnings,omitempty"`
}

// TypeRecord declares one named type. Type expressions (field types,
// parameters, the underlying type of a named record) use the descriptor
// encoding of the types package, with other named types written as
// {"kind":"ref","name":...}.
type TypeRecord struct {
	Kind       string          `json:"kind" validate:"required,oneof=struct interface named"`
	Name       string          `json:"name" validate:"required"`
	Underlying json.RawMessage `json:"underlying,omitempty"`
	Fields     []FieldRecord   `json:"fields,omitempty" validate:"dive"`
	Methods    []MethodRecord  `json:"methods,omitempty" validate:"dive"`
}

// FieldRecord is a struct field.
type FieldRecord struct {
	Name      string          `json:"name" validate:"required"`
	Type      json.RawMessage `json:"type" validate:"required"`
	Tag       string          `json:"tag,omitempty"`
	Anonymous bool            `json:"anonymous,omitempty"`
}

// MethodRecord is a method signature. A null parameter or result means the
// type is not statically known.
type MethodRecord struct {
	Name            string            `json:"name" validate:"required"`
	Params          []json.RawMessage `json:"params,omitempty"`
	Results         []json.RawMessage `json:"results,omitempty"`
	PointerReceiver bool              `json:"pointerReceiver,omitempty"`
}

// Warning is a non-fatal issue attached to a manifest.
type Warning struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	TypeName string `json:"typeName,omitempty"`
}

// AddWarning appends a warning to the manifest.
func (m *Manifest) AddWarning(w Warning) {
	m.Warnings = append(m.Warnings, w)
}

// Find returns the record declaring name, or nil.
func (m *Manifest) Find(name string) *TypeRecord {
	for i := range m.Types {
		if m.Types[i].Name == name {
			return &m.Types[i]
		}
	}
	return nil
}

// Decode reads a manifest from r. Unknown fields are rejected.
func Decode(r io.Reader) (*Manifest, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	var m Manifest
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	return &m, nil
}

// DecodeYAML reads a manifest written in YAML. The document is converted to
// JSON and decoded with Decode, so the two formats accept the same fields.
func DecodeYAML(r io.Reader) (*Manifest, error) {
	var doc any
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	return Decode(bytes.NewReader(raw))
}

// Encode writes m to w as indented JSON.
func Encode(w io.Writer, m *Manifest) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(m)
}

// ValidationError describes one problem found by Validate.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validate checks the manifest for structural problems: missing or invalid
// fields, duplicate names, members that do not belong to the record's kind,
// and type expressions that cannot be decoded. It does not check that
// references resolve, since a manifest may refer to types that are already
// registered; Load reports those.
func (m *Manifest) Validate() []error {
	var errs []*ValidationError

	if err := validate.Struct(m); err != nil {
		var ves validator.ValidationErrors
		if errors.As(err, &ves) {
			for _, ve := range ves {
				errs = append(errs, &ValidationError{
					Code:    "invalid_field",
					Message: ve.Namespace() + ": " + formatValidationError(ve),
				})
			}
		} else {
			errs = append(errs, &ValidationError{Code: "invalid_field", Message: err.Error()})
		}
	}

	names := make(map[string]bool, len(m.Types))
	for _, t := range m.Types {
		if t.Name == "" {
			continue
		}
		if names[t.Name] {
			errs = append(errs, &ValidationError{
				Code:    "duplicate_type",
				Message: "duplicate type name: " + t.Name,
			})
		}
		names[t.Name] = true
	}

	for _, t := range m.Types {
		errs = append(errs, t.validateMembers()...)
	}

	var result []error
	for _, e := range errs {
		result = append(result, e)
	}
	return result
}

func (t TypeRecord) validateMembers() []*ValidationError {
	var errs []*ValidationError
	add := func(code, format string, args ...any) {
		errs = append(errs, &ValidationError{Code: code, Message: fmt.Sprintf(format, args...)})
	}

	switch t.Kind {
	case KindStruct:
		if len(t.Underlying) > 0 {
			add("unexpected_underlying", "struct %s cannot have an underlying type", t.Name)
		}
	case KindInterface:
		if len(t.Underlying) > 0 {
			add("unexpected_underlying", "interface %s cannot have an underlying type", t.Name)
		}
		if len(t.Fields) > 0 {
			add("unexpected_fields", "interface %s cannot have fields", t.Name)
		}
		for _, mr := range t.Methods {
			if mr.PointerReceiver {
				add("unexpected_receiver", "interface method %s.%s cannot have a pointer receiver", t.Name, mr.Name)
			}
		}
	case KindNamed:
		if isNull(t.Underlying) {
			add("missing_underlying", "named type %s has no underlying type", t.Name)
		}
		if len(t.Fields) > 0 {
			add("unexpected_fields", "named type %s cannot have fields; declare it as a struct", t.Name)
		}
	}

	fieldNames := make(map[string]bool, len(t.Fields))
	for _, f := range t.Fields {
		if fieldNames[f.Name] {
			add("duplicate_field", "duplicate field %s.%s", t.Name, f.Name)
		}
		fieldNames[f.Name] = true
		if _, err := parseExpr(f.Type, anyName); err != nil {
			add("invalid_type", "field %s.%s: %v", t.Name, f.Name, err)
		}
	}

	methodNames := make(map[string]bool, len(t.Methods))
	for _, mr := range t.Methods {
		if methodNames[mr.Name] {
			add("duplicate_method", "duplicate method %s.%s", t.Name, mr.Name)
		}
		methodNames[mr.Name] = true
		if _, err := mr.method(anyName); err != nil {
			add("invalid_type", "method %s.%s: %v", t.Name, mr.Name, err)
		}
	}

	if t.Kind == KindNamed && !isNull(t.Underlying) {
		if _, err := parseExpr(t.Underlying, anyName); err != nil {
			add("invalid_type", "named type %s: %v", t.Name, err)
		}
	}
	return errs
}

// anyName accepts every reference, for decoding without a registry.
func anyName(name string) (types.Type, bool) {
	return &types.Named{Name: name}, true
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// parseExpr decodes a type expression. A null expression yields a nil type.
func parseExpr(raw json.RawMessage, resolve types.Resolver) (types.Type, error) {
	if isNull(raw) {
		return nil, nil
	}
	return types.Unmarshal(raw, resolve)
}

func parseTuple(raws []json.RawMessage, resolve types.Resolver) ([]types.Type, error) {
	if len(raws) == 0 {
		return nil, nil
	}
	out := make([]types.Type, len(raws))
	for i, raw := range raws {
		t, err := parseExpr(raw, resolve)
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}

func (mr MethodRecord) method(resolve types.Resolver) (types.Method, error) {
	params, err := parseTuple(mr.Params, resolve)
	if err != nil {
		return types.Method{}, err
	}
	results, err := parseTuple(mr.Results, resolve)
	if err != nil {
		return types.Method{}, err
	}
	return types.Method{Name: mr.Name, Params: params, Results: results}, nil
}

// formatValidationError converts a validator.FieldError to a human-readable message.
func formatValidationError(ve validator.FieldError) string {
	switch ve.Tag() {
	case "required":
		return "required"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(ve.Param(), " ", ", "))
	case "min":
		return fmt.Sprintf("must be at least %s", ve.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", ve.Param())
	default:
		if ve.Param() != "" {
			return fmt.Sprintf("failed %s=%s validation", ve.Tag(), ve.Param())
		}
		return fmt.Sprintf("failed %s validation", ve.Tag())
	}
}

// Load validates m and registers every type it declares in reg as a single
// batch. Either all types become visible or, on error, none do. Methods are
// registered without implementations, so calling them yields the zero
// values of their results; callers that have implementations register them
// afterwards with Registry.Register.
func Load(reg *gobox.Registry, m *Manifest) error {
	if errs := m.Validate(); len(errs) > 0 {
		return errors.Join(errs...)
	}

	return reg.Batch(func(b *gobox.Batch) error {
		placeholders := make([]types.Type, len(m.Types))
		for i, t := range m.Types {
			placeholders[i] = b.Declare(t.Name, recordKind(t.Kind))
		}

		resolve := func(name string) (types.Type, bool) {
			if bt, ok := types.BasicByName(name); ok {
				return bt, true
			}
			return b.Lookup(name)
		}

		for i, t := range m.Types {
			methods, err := t.methodImpls(resolve)
			if err != nil {
				return wrapUnresolved(err, t.Name)
			}

			switch p := placeholders[i].(type) {
			case *types.Struct:
				for _, f := range t.Fields {
					ft, err := parseExpr(f.Type, resolve)
					if err != nil {
						return wrapUnresolved(fmt.Errorf("field %s.%s: %w", t.Name, f.Name, err), t.Name)
					}
					p.Fields = append(p.Fields, types.Field{
						Name:      f.Name,
						Type:      ft,
						Tag:       types.StructTag(f.Tag),
						Anonymous: f.Anonymous,
					})
				}
			case *types.Interface:
				for _, mi := range methods {
					p.Methods = append(p.Methods, mi.Method)
				}
				methods = nil
			case *types.Named:
				u, err := parseExpr(t.Underlying, resolve)
				if err != nil {
					return wrapUnresolved(fmt.Errorf("named type %s: %w", t.Name, err), t.Name)
				}
				p.Underlying = u
			}

			if err := b.Define(placeholders[i], methods...); err != nil {
				return err
			}
		}
		return nil
	})
}

func (t TypeRecord) methodImpls(resolve types.Resolver) ([]gobox.MethodImpl, error) {
	var out []gobox.MethodImpl
	for _, mr := range t.Methods {
		m, err := mr.method(resolve)
		if err != nil {
			return nil, fmt.Errorf("method %s.%s: %w", t.Name, mr.Name, err)
		}
		out = append(out, gobox.MethodImpl{Method: m, PointerReceiver: mr.PointerReceiver})
	}
	return out, nil
}

func recordKind(kind string) types.Kind {
	switch kind {
	case KindStruct:
		return types.KindStruct
	case KindInterface:
		return types.KindInterface
	}
	return types.KindInvalid
}

// wrapUnresolved maps a dangling reference to the registry's error code.
func wrapUnresolved(err error, typeName string) error {
	var ue *types.UnresolvedError
	if errors.As(err, &ue) {
		return gobox.Errorf(gobox.CodeUnresolvedDeclaration, "%v", err).
			WithDetail("type", typeName).
			WithDetail("reference", ue.Name)
	}
	return gobox.Errorf(gobox.CodeInvalidDescriptor, "%v", err).WithDetail("type", typeName)
}

// Export builds a manifest from the types registered in reg. Records are
// sorted with SortByDependency, starting from name order.
func Export(reg *gobox.Registry) (*Manifest, error) {
	m := &Manifest{}
	for _, name := range reg.Names() {
		t, ok := reg.Lookup(name)
		if !ok {
			continue
		}
		rec, err := exportRecord(reg, t)
		if err != nil {
			return nil, fmt.Errorf("export %s: %w", name, err)
		}
		m.Types = append(m.Types, rec)
	}
	m.SortByDependency()
	return m, nil
}

func exportRecord(reg *gobox.Registry, t types.Type) (TypeRecord, error) {
	rec := TypeRecord{Name: t.TypeName()}

	switch d := t.(type) {
	case *types.Struct:
		rec.Kind = KindStruct
		for _, f := range d.Fields {
			raw, err := types.MarshalRef(f.Type)
			if err != nil {
				return rec, err
			}
			rec.Fields = append(rec.Fields, FieldRecord{
				Name:      f.Name,
				Type:      raw,
				Tag:       string(f.Tag),
				Anonymous: f.Anonymous,
			})
		}
	case *types.Interface:
		rec.Kind = KindInterface
		for _, im := range d.Methods {
			mr, err := exportMethod(im, false)
			if err != nil {
				return rec, err
			}
			rec.Methods = append(rec.Methods, mr)
		}
		return rec, nil
	case *types.Named:
		rec.Kind = KindNamed
		raw, err := types.MarshalRef(d.Underlying)
		if err != nil {
			return rec, err
		}
		rec.Underlying = raw
	default:
		return rec, fmt.Errorf("unsupported descriptor %T", t)
	}

	for _, mi := range reg.MethodSet(&types.Pointer{Elem: t}) {
		mr, err := exportMethod(mi.Method, mi.PointerReceiver)
		if err != nil {
			return rec, err
		}
		rec.Methods = append(rec.Methods, mr)
	}
	return rec, nil
}

func exportMethod(m types.Method, ptr bool) (MethodRecord, error) {
	mr := MethodRecord{Name: m.Name, PointerReceiver: ptr}
	for _, p := range m.Params {
		raw, err := marshalExpr(p)
		if err != nil {
			return mr, err
		}
		mr.Params = append(mr.Params, raw)
	}
	for _, r := range m.Results {
		raw, err := marshalExpr(r)
		if err != nil {
			return mr, err
		}
		mr.Results = append(mr.Results, raw)
	}
	return mr, nil
}

func marshalExpr(t types.Type) (json.RawMessage, error) {
	if t == nil {
		return json.RawMessage("null"), nil
	}
	return types.MarshalRef(t)
}
