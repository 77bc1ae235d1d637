package gobox

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/broady/gobox/types"
)

func TestNewRegistry(t *testing.T) {
	reg := NewRegistry()
	if reg == nil {
		t.Fatal("expected non-nil registry")
	}
	if reg.entries == nil {
		t.Error("expected entries map to be initialized")
	}
	if reg.Len() != 0 {
		t.Errorf("Len() = %d, want 0", reg.Len())
	}
}

func TestRegistry_WithLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	reg := NewRegistry().WithLogger(logger)
	if reg.logger != logger {
		t.Error("expected logger to be set")
	}
	reg.MustRegister(types.NewStruct("main.Point"))
	if !strings.Contains(buf.String(), "type registered") {
		t.Errorf("expected registration to be logged, got %q", buf.String())
	}
}

func TestRegistry_WithStrictRedefinition(t *testing.T) {
	reg := NewRegistry().WithStrictRedefinition()
	if !reg.strict {
		t.Error("expected strict to be true")
	}
}

func TestRegistry_RegisterLookup(t *testing.T) {
	reg := NewRegistry()
	person := types.NewStruct("main.Person",
		types.Field{Name: "Name", Type: types.StringType(), Tag: `json:"name"`})
	if err := reg.Register(person); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	got, ok := reg.Lookup("main.Person")
	if !ok {
		t.Fatal("Lookup() found nothing")
	}
	if got != person {
		t.Errorf("Lookup() = %v, want %v", got, person)
	}
	if _, ok := reg.Lookup("main.Missing"); ok {
		t.Error("Lookup(main.Missing) should not be found")
	}
}

func TestRegistry_RegisterInvalid(t *testing.T) {
	tests := []struct {
		name    string
		typ     types.Type
		methods []MethodImpl
	}{
		{"nil", nil, nil},
		{"unnamed struct", types.NewStruct(""), nil},
		{"basic", types.IntType(), nil},
		{"pointer", types.NewPointer(types.NewStruct("main.T")), nil},
		{"named without underlying", &types.Named{Name: "main.N"}, nil},
		{"interface with methods", types.NewInterface("main.I"), []MethodImpl{{Method: types.Method{Name: "M"}}}},
		{"unnamed method", types.NewStruct("main.T"), []MethodImpl{{}}},
		{"duplicate method", types.NewStruct("main.T"), []MethodImpl{
			{Method: types.Method{Name: "M"}},
			{Method: types.Method{Name: "M"}, PointerReceiver: true},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := NewRegistry()
			err := reg.Register(tt.typ, tt.methods...)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, NewError(CodeInvalidDescriptor, "")) {
				t.Errorf("error = %v, want code %s", err, CodeInvalidDescriptor)
			}
			if reg.Len() != 0 {
				t.Errorf("Len() = %d after failed Register", reg.Len())
			}
		})
	}
}

func TestRegistry_ReplaceDefault(t *testing.T) {
	var buf bytes.Buffer
	reg := NewRegistry().WithLogger(slog.New(slog.NewTextHandler(&buf, nil)))

	v1 := types.NewStruct("main.T", types.Field{Name: "A", Type: types.IntType()})
	v2 := types.NewStruct("main.T", types.Field{Name: "B", Type: types.StringType()})
	reg.MustRegister(v1)
	if err := reg.Register(v2); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	got, _ := reg.Lookup("main.T")
	if got != v2 {
		t.Errorf("Lookup() = %v, want replacement %v", got, v2)
	}
	if !strings.Contains(buf.String(), "type redefined with a different shape") {
		t.Errorf("expected a redefinition warning, got %q", buf.String())
	}
}

func TestRegistry_ReplaceStrict(t *testing.T) {
	reg := NewRegistry().WithStrictRedefinition()

	v1 := types.NewStruct("main.T", types.Field{Name: "A", Type: types.IntType()})
	same := types.NewStruct("main.T", types.Field{Name: "A", Type: types.IntType()})
	changed := types.NewStruct("main.T", types.Field{Name: "A", Type: types.StringType()})

	reg.MustRegister(v1)
	if err := reg.Register(same); err != nil {
		t.Errorf("identical re-registration error = %v", err)
	}

	err := reg.Register(changed)
	var e *Error
	if !errors.As(err, &e) || e.Code != CodeRedefinition {
		t.Fatalf("Register() error = %v, want code %s", err, CodeRedefinition)
	}
	if e.Details["type"] != "main.T" {
		t.Errorf("Details[type] = %v, want main.T", e.Details["type"])
	}
	got, _ := reg.Lookup("main.T")
	if got != same {
		t.Error("failed strict registration must leave the previous descriptor in place")
	}
}

func TestRegistry_ReplaceMethodsChangeShape(t *testing.T) {
	reg := NewRegistry().WithStrictRedefinition()
	typ := types.NewStruct("main.T")

	reg.MustRegister(typ, MethodImpl{Method: types.Method{Name: "M"}})
	err := reg.Register(typ, MethodImpl{Method: types.Method{Name: "M"}, PointerReceiver: true})
	if !errors.Is(err, NewError(CodeRedefinition, "")) {
		t.Errorf("Register() error = %v, want redefinition", err)
	}
}

func TestRegistry_Names(t *testing.T) {
	reg := NewRegistry()
	reg.MustRegister(types.NewStruct("main.B"))
	reg.MustRegister(types.NewStruct("main.A"))
	reg.MustRegister(types.NewNamed("main.C", types.IntType()))

	got := reg.Names()
	want := []string{"main.A", "main.B", "main.C"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}

func TestRegistry_MethodSet(t *testing.T) {
	reg := NewRegistry()
	typ := types.NewStruct("main.T")
	reg.MustRegister(typ,
		MethodImpl{Method: types.Method{Name: "Value"}},
		MethodImpl{Method: types.Method{Name: "Ptr"}, PointerReceiver: true},
	)

	names := func(ms []MethodImpl) string {
		var out []string
		for _, m := range ms {
			out = append(out, m.Name)
		}
		return strings.Join(out, ",")
	}

	if got := names(reg.MethodSet(typ)); got != "Value" {
		t.Errorf("MethodSet(T) = %s, want Value", got)
	}
	if got := names(reg.MethodSet(types.NewPointer(typ))); got != "Value,Ptr" {
		t.Errorf("MethodSet(*T) = %s, want Value,Ptr", got)
	}
	if got := reg.MethodSet(types.IntType()); got != nil {
		t.Errorf("MethodSet(int) = %v, want nil", got)
	}
}

func TestRegistry_BatchMutualRecursion(t *testing.T) {
	reg := NewRegistry()

	err := reg.Batch(func(b *Batch) error {
		a := b.Declare("main.A", types.KindStruct).(*types.Struct)
		bb := b.Declare("main.B", types.KindStruct).(*types.Struct)

		// Nothing is visible before the batch completes.
		if _, ok := reg.Lookup("main.A"); ok {
			t.Error("placeholder visible during batch")
		}

		a.Fields = []types.Field{{Name: "B", Type: types.NewPointer(bb)}}
		bb.Fields = []types.Field{{Name: "A", Type: types.NewPointer(a)}}
		if err := b.Define(a); err != nil {
			return err
		}
		return b.Define(bb)
	})
	if err != nil {
		t.Fatalf("Batch() error = %v", err)
	}

	a, _ := reg.Lookup("main.A")
	bt, _ := reg.Lookup("main.B")
	field := a.(*types.Struct).Field(0).Type.(*types.Pointer)
	if field.Elem != bt {
		t.Errorf("A.B points to %v, want the registered B", field.Elem)
	}
	back := bt.(*types.Struct).Field(0).Type.(*types.Pointer)
	if back.Elem != a {
		t.Errorf("B.A points to %v, want the registered A", back.Elem)
	}
}

func TestRegistry_BatchUnresolved(t *testing.T) {
	reg := NewRegistry()
	err := reg.Batch(func(b *Batch) error {
		b.Declare("main.Ghost", types.KindInterface)
		return b.Define(types.NewStruct("main.Real"))
	})
	if !errors.Is(err, NewError(CodeUnresolvedDeclaration, "")) {
		t.Fatalf("Batch() error = %v, want %s", err, CodeUnresolvedDeclaration)
	}
	if reg.Len() != 0 {
		t.Errorf("Len() = %d, want nothing published", reg.Len())
	}
}

func TestRegistry_BatchWrongPlaceholder(t *testing.T) {
	reg := NewRegistry()
	err := reg.Batch(func(b *Batch) error {
		b.Declare("main.A", types.KindStruct)
		return b.Define(types.NewStruct("main.A"))
	})
	if !errors.Is(err, NewError(CodeInvalidDescriptor, "")) {
		t.Errorf("Batch() error = %v, want %s", err, CodeInvalidDescriptor)
	}
}

func TestRegistry_BatchCallbackError(t *testing.T) {
	reg := NewRegistry()
	boom := errors.New("boom")
	err := reg.Batch(func(b *Batch) error {
		if err := b.Define(types.NewStruct("main.A")); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("Batch() error = %v, want %v", err, boom)
	}
	if reg.Len() != 0 {
		t.Error("failed batch must not publish")
	}
}

func TestRegistry_BatchLookup(t *testing.T) {
	reg := NewRegistry()
	reg.MustRegister(types.NewStruct("main.Existing"))

	_ = reg.Batch(func(b *Batch) error {
		d := b.Declare("main.New", types.KindInvalid)
		if _, ok := d.(*types.Named); !ok {
			t.Errorf("Declare(KindInvalid) = %T, want *types.Named", d)
		}
		if got, ok := b.Lookup("main.New"); !ok || got != d {
			t.Error("Batch.Lookup should see its own declarations")
		}
		if _, ok := b.Lookup("main.Existing"); !ok {
			t.Error("Batch.Lookup should fall back to the registry")
		}
		if b.Declare("main.New", types.KindInvalid) != d {
			t.Error("second Declare should return the same placeholder")
		}
		d.(*types.Named).Underlying = types.IntType()
		return b.Define(d)
	})
	if _, ok := reg.Lookup("main.New"); !ok {
		t.Error("main.New not published")
	}
}

func TestRegistry_Resolve(t *testing.T) {
	reg := NewRegistry()
	full := types.NewInterface("main.I", types.Method{Name: "M"})
	reg.MustRegister(full)

	if got := reg.Resolve(types.NewInterface("main.I")); got != full {
		t.Errorf("Resolve(name-only) = %v, want registered %v", got, full)
	}
	slice := types.NewSlice(types.IntType())
	if got := reg.Resolve(slice); got != slice {
		t.Errorf("Resolve(unnamed) = %v, want unchanged", got)
	}
	if got := reg.Resolve(nil); got != nil {
		t.Errorf("Resolve(nil) = %v, want nil", got)
	}
}

func TestRegistry_ConcurrentLookup(t *testing.T) {
	reg := NewRegistry().WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	v1 := types.NewStruct("main.T", types.Field{Name: "A", Type: types.IntType()})
	v2 := types.NewStruct("main.T", types.Field{Name: "B", Type: types.IntType()})
	reg.MustRegister(v1)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				got, ok := reg.Lookup("main.T")
				if !ok || (got != v1 && got != v2) {
					t.Errorf("Lookup() = %v, %v", got, ok)
					return
				}
			}
		}()
	}
	for i := 0; i < 100; i++ {
		if i%2 == 0 {
			reg.MustRegister(v2)
		} else {
			reg.MustRegister(v1)
		}
	}
	wg.Wait()
}
