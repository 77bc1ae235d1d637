// Package gobox is the runtime value-and-type model used by code lowered
// from a statically typed language with pointer and value semantics onto a
// dynamically typed host.
//
// It provides a registry of type descriptors, indirection cells that stand
// in for pointers, copy routines for aggregate values, interface boxing
// (including non-nil interfaces holding nil pointers), and the type
// assertion and type switch machinery that resolves against the registry.
package gobox

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/broady/gobox/types"
)

// Func is the host implementation of a method. recv is the receiver as
// stored in the box: a *Cell (possibly nil) for pointer receivers, a copy of
// the value for value receivers.
type Func func(recv any, args ...any) []any

// MethodImpl is a method registered for a named type.
type MethodImpl struct {
	types.Method

	// PointerReceiver reports whether the method is declared on *T. Such
	// methods are only in the method set of the pointer type.
	PointerReceiver bool

	// Func is the implementation. A nil Func returns the zero values of
	// the declared results.
	Func Func
}

type entry struct {
	typ     types.Type
	methods []MethodImpl
}

// Registry is the table of named type descriptors. Registration normally
// happens during program initialization, before generated code runs
// concurrently; lookups are safe at any time, and every registration or
// replacement is atomic from a reader's point of view.
//
// A Registry is passed explicitly rather than held in a global so that each
// test (or each loaded program) can own a fresh one.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*entry
	logger  *slog.Logger
	strict  bool
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]*entry),
	}
}

// WithLogger sets a custom logger for the registry.
// If not set, slog.Default() will be used.
func (r *Registry) WithLogger(logger *slog.Logger) *Registry {
	r.logger = logger
	return r
}

// WithStrictRedefinition makes re-registering a name with a different shape
// an error. By default the new descriptor replaces the old one and a warning
// is logged. Re-registering an identical shape is always accepted.
func (r *Registry) WithStrictRedefinition() *Registry {
	r.strict = true
	return r
}

func (r *Registry) log() *slog.Logger {
	if r.logger == nil {
		return slog.Default()
	}
	return r.logger
}

// Register inserts a named descriptor (a Named, or a Struct or Interface
// with a Name) together with its methods. Registering a name that is
// already present replaces the previous descriptor.
func (r *Registry) Register(t types.Type, methods ...MethodImpl) error {
	e, err := newEntry(t, methods)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.publishLocked([]*entry{e})
}

// MustRegister is like Register but panics on error. It is intended for
// load-time registration emitted by the code generator.
func (r *Registry) MustRegister(t types.Type, methods ...MethodImpl) {
	if err := r.Register(t, methods...); err != nil {
		panic(err)
	}
}

func newEntry(t types.Type, methods []MethodImpl) (*entry, error) {
	if t == nil {
		return nil, NewError(CodeInvalidDescriptor, "cannot register a nil descriptor")
	}
	name := t.TypeName()
	if name == "" {
		return nil, Errorf(CodeInvalidDescriptor, "cannot register unnamed type %s", t)
	}
	if _, ok := t.(*types.Interface); ok && len(methods) > 0 {
		return nil, Errorf(CodeInvalidDescriptor, "interface %s cannot have method implementations", name)
	}
	if n, ok := t.(*types.Named); ok && n.Underlying == nil {
		return nil, Errorf(CodeInvalidDescriptor, "named type %s has no underlying type", name)
	}

	seen := make(map[string]bool, len(methods))
	for _, m := range methods {
		if m.Name == "" {
			return nil, Errorf(CodeInvalidDescriptor, "type %s has a method with no name", name)
		}
		if seen[m.Name] {
			return nil, Errorf(CodeInvalidDescriptor, "duplicate method %s.%s", name, m.Name)
		}
		seen[m.Name] = true
	}

	return &entry{
		typ:     t,
		methods: append([]MethodImpl(nil), methods...),
	}, nil
}

// publishLocked installs entries. In strict mode every entry is checked
// before any is installed, so a failed publish leaves the table unchanged.
func (r *Registry) publishLocked(entries []*entry) error {
	for _, e := range entries {
		name := e.typ.TypeName()
		old, ok := r.entries[name]
		if !ok || sameShape(old, e) {
			continue
		}
		if r.strict {
			return Errorf(CodeRedefinition, "type %s re-registered with a different shape", name).
				WithDetail("type", name)
		}
		r.log().Warn("type redefined with a different shape",
			slog.String("type", name))
	}

	for _, e := range entries {
		name := e.typ.TypeName()
		r.entries[name] = e
		r.log().Debug("type registered",
			slog.String("type", name),
			slog.String("kind", e.typ.Kind().String()),
			slog.Int("methods", len(e.methods)))
	}
	return nil
}

// sameShape reports whether two entries for the same name describe the same
// type: same variant, same fields or methods, same method set.
func sameShape(a, b *entry) bool {
	switch x := a.typ.(type) {
	case *types.Struct:
		y, ok := b.typ.(*types.Struct)
		if !ok {
			return false
		}
		// Compare the field lists as anonymous structs.
		if !types.Identical(&types.Struct{Fields: x.Fields}, &types.Struct{Fields: y.Fields}) {
			return false
		}
	case *types.Interface:
		y, ok := b.typ.(*types.Interface)
		if !ok || !types.Identical(&types.Interface{Methods: x.Methods}, &types.Interface{Methods: y.Methods}) {
			return false
		}
	case *types.Named:
		y, ok := b.typ.(*types.Named)
		if !ok || !types.Identical(x.Underlying, y.Underlying) {
			return false
		}
	default:
		return false
	}

	if len(a.methods) != len(b.methods) {
		return false
	}
	for _, m := range a.methods {
		o, ok := findMethod(b.methods, m.Name)
		if !ok || o.PointerReceiver != m.PointerReceiver || !m.Method.SameShape(o.Method) {
			return false
		}
	}
	return true
}

// Lookup returns the descriptor registered under name.
func (r *Registry) Lookup(name string) (types.Type, bool) {
	e := r.lookupEntry(name)
	if e == nil {
		return nil, false
	}
	return e.typ, true
}

func (r *Registry) lookupEntry(name string) *entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.entries[name]
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	r.mu.RUnlock()
	sort.Strings(names)
	return names
}

// Len returns the number of registered types.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Resolve returns the registered descriptor for a named t, so that callers
// may pass a forward declaration or a name-only descriptor. Unnamed or
// unregistered descriptors are returned unchanged.
func (r *Registry) Resolve(t types.Type) types.Type {
	if t == nil {
		return nil
	}
	if name := t.TypeName(); name != "" {
		if e := r.lookupEntry(name); e != nil {
			return e.typ
		}
	}
	return t
}

// MethodSet returns the methods callable on a value of dynamic type t.
// For *T this is every method registered for T; for T it is only the
// value-receiver methods.
func (r *Registry) MethodSet(t types.Type) []MethodImpl {
	ptr := false
	if p, ok := t.(*types.Pointer); ok {
		t = p.Elem
		ptr = true
	}
	if t == nil || t.TypeName() == "" {
		return nil
	}
	e := r.lookupEntry(t.TypeName())
	if e == nil {
		return nil
	}

	var out []MethodImpl
	for _, m := range e.methods {
		if ptr || !m.PointerReceiver {
			out = append(out, m)
		}
	}
	return out
}

func findMethod(ms []MethodImpl, name string) (MethodImpl, bool) {
	for _, m := range ms {
		if m.Name == name {
			return m, true
		}
	}
	return MethodImpl{}, false
}

// Batch registers a group of descriptors that may refer to each other.
// Inside fn, Declare returns forward-declared placeholders that other
// descriptors can reference; each placeholder is then patched in place and
// passed to Define. Nothing becomes visible to Lookup until fn returns
// successfully, at which point every descriptor in the batch is published
// at once.
func (r *Registry) Batch(fn func(b *Batch) error) error {
	b := &Batch{
		reg:      r,
		declared: make(map[string]types.Type),
		defined:  make(map[string]*entry),
	}
	if err := fn(b); err != nil {
		return err
	}

	for _, name := range b.order {
		if _, ok := b.defined[name]; !ok {
			return Errorf(CodeUnresolvedDeclaration, "type %s was declared but never defined", name)
		}
	}

	entries := make([]*entry, 0, len(b.order))
	for _, name := range b.order {
		entries = append(entries, b.defined[name])
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.publishLocked(entries)
}

// Batch collects forward declarations and definitions for Registry.Batch.
type Batch struct {
	reg      *Registry
	declared map[string]types.Type
	defined  map[string]*entry
	order    []string
}

// Declare returns a placeholder descriptor for name. kind selects the
// variant: types.KindStruct yields an empty *types.Struct,
// types.KindInterface an empty *types.Interface, and anything else a
// *types.Named with no underlying type. Declaring the same name twice returns the same placeholder.
func (b *Batch) Declare(name string, kind types.Kind) types.Type {
	if t, ok := b.declared[name]; ok {
		return t
	}

	var t types.Type
	switch kind {
	case types.KindStruct:
		t = &types.Struct{Name: name}
	case types.KindInterface:
		t = &types.Interface{Name: name}
	default:
		t = &types.Named{Name: name}
	}
	b.declared[name] = t
	b.order = append(b.order, name)
	return t
}

// Define records the final descriptor for a name. If the name was declared,
// t must be the (now patched) placeholder returned by Declare.
func (b *Batch) Define(t types.Type, methods ...MethodImpl) error {
	e, err := newEntry(t, methods)
	if err != nil {
		return err
	}
	name := t.TypeName()
	if d, ok := b.declared[name]; ok {
		if d != t {
			return Errorf(CodeInvalidDescriptor, "type %s must be defined with its declared placeholder", name)
		}
	} else {
		b.declared[name] = t
		b.order = append(b.order, name)
	}
	b.defined[name] = e
	return nil
}

// Lookup resolves name against the batch's declarations first and then the
// registry. Placeholders returned here may still be incomplete.
func (b *Batch) Lookup(name string) (types.Type, bool) {
	if t, ok := b.declared[name]; ok {
		return t, true
	}
	return b.reg.Lookup(name)
}
