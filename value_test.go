package gobox_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/broady/gobox"
	"github.com/broady/gobox/types"
)

var (
	pointType = types.NewStruct("main.Point",
		types.Field{Name: "X", Type: types.IntType()},
		types.Field{Name: "Y", Type: types.IntType()},
	)
	lineType = types.NewStruct("main.Line",
		types.Field{Name: "From", Type: pointType},
		types.Field{Name: "To", Type: pointType},
		types.Field{Name: "Next", Type: types.NewPointer(pointType)},
		types.Field{Name: "Tags", Type: types.NewSlice(types.StringType())},
	)
	gridType = types.NewArray(pointType, 2)
)

func TestCell(t *testing.T) {
	c := gobox.NewCell(1)
	if got := c.Get(); got != 1 {
		t.Errorf("Get() = %v, want 1", got)
	}

	alias := c
	alias.Set(2)
	if got := c.Get(); got != 2 {
		t.Errorf("Get() after Set through alias = %v, want 2", got)
	}
}

func TestCell_NilDereference(t *testing.T) {
	var c *gobox.Cell

	for name, op := range map[string]func(){
		"Get": func() { c.Get() },
		"Set": func() { c.Set(1) },
	} {
		t.Run(name, func(t *testing.T) {
			defer func() {
				r := recover()
				err, ok := r.(error)
				if !ok || !errors.Is(err, gobox.NewError(gobox.CodeNilDereference, "")) {
					t.Errorf("recover() = %v, want nil dereference", r)
				}
			}()
			op()
		})
	}
}

// Pointer identity and payload equality are distinct, through any depth of
// indirection.
func TestPointerIdentityVersusPayload(t *testing.T) {
	c1 := gobox.NewCell(42)
	c2 := gobox.NewCell(42)

	if c1 == c2 {
		t.Error("distinct cells must not be identical")
	}
	if gobox.Equal(c1, c2) {
		t.Error("Equal on cells must compare identity")
	}
	if !gobox.Equal(c1.Get(), c2.Get()) {
		t.Error("payloads must be equal")
	}
	if !gobox.Equal(c1, c1) {
		t.Error("a cell must equal itself")
	}

	// ***int chains.
	p1 := gobox.NewCell(gobox.NewCell(c1))
	p2 := gobox.NewCell(gobox.NewCell(c2))
	if gobox.Equal(p1, p2) {
		t.Error("distinct outer cells must not be equal")
	}
	deref := func(c *gobox.Cell) any {
		return c.Get().(*gobox.Cell).Get().(*gobox.Cell).Get()
	}
	if !gobox.Equal(deref(p1), deref(p2)) {
		t.Error("payloads at the end of the chain must be equal")
	}
}

func TestNewStruct(t *testing.T) {
	line := gobox.NewStruct(lineType)

	from, ok := line.FieldByName("From")
	if !ok {
		t.Fatal("FieldByName(From) not found")
	}
	if p, ok := from.(*gobox.Struct); !ok || p.Field(0) != 0 {
		t.Errorf("From = %v, want zero Point", from)
	}
	if next := line.Field(2).(*gobox.Cell); next != nil {
		t.Errorf("Next = %v, want nil pointer", next)
	}
	if line.Marker() != gobox.MarkerNone {
		t.Errorf("Marker() = %v, want none", line.Marker())
	}
	if _, ok := line.FieldByName("Missing"); ok {
		t.Error("FieldByName(Missing) should fail")
	}
	if line.SetFieldByName("Missing", 1) {
		t.Error("SetFieldByName(Missing) should fail")
	}
}

func TestNewStruct_TooManyValues(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	gobox.NewStruct(pointType, 1, 2, 3)
}

func TestCopy_Independence(t *testing.T) {
	s := gobox.NewStruct(pointType, 1, 2)
	c1 := gobox.Copy(s).(*gobox.Struct)
	c2 := gobox.Copy(s).(*gobox.Struct)

	c1.SetField(0, 100)
	if got := c2.Field(0); got != 1 {
		t.Errorf("c2.X = %v, want 1", got)
	}
	if got := s.Field(0); got != 1 {
		t.Errorf("s.X = %v, want 1", got)
	}
}

func TestCopy_ValueAndReferenceFields(t *testing.T) {
	next := gobox.NewCell(gobox.NewStruct(pointType, 9, 9))
	tags := []any{"a"}
	line := gobox.NewStruct(lineType,
		gobox.NewStruct(pointType, 1, 2),
		gobox.NewStruct(pointType, 3, 4),
		next,
		tags,
	)

	cp := line.Copy()

	// Embedded values are copied.
	cp.Field(0).(*gobox.Struct).SetField(0, -1)
	if got := line.Field(0).(*gobox.Struct).Field(0); got != 1 {
		t.Errorf("line.From.X = %v, want 1", got)
	}

	// Pointers alias the same cell.
	if cp.Field(2) != next {
		t.Error("pointer field must alias the original cell")
	}
	next.Get().(*gobox.Struct).SetField(0, 0)
	if got := cp.Field(2).(*gobox.Cell).Get().(*gobox.Struct).Field(0); got != 0 {
		t.Errorf("write through shared pointer not visible, got %v", got)
	}

	// Slices alias the same backing store.
	tags[0] = "b"
	if got := cp.Field(3).([]any)[0]; got != "b" {
		t.Errorf("slice field = %v, want aliased b", got)
	}
}

func TestCopy_CycleTerminates(t *testing.T) {
	node := types.NewStruct("main.Node")
	node.Fields = []types.Field{
		{Name: "Val", Type: types.IntType()},
		{Name: "Next", Type: types.NewPointer(node)},
	}

	a := gobox.NewCell(nil)
	b := gobox.NewCell(nil)
	a.Set(gobox.NewStruct(node, 1, b))
	b.Set(gobox.NewStruct(node, 2, a))

	cp := gobox.Copy(a.Get()).(*gobox.Struct)
	if cp.Field(1) != b {
		t.Error("copy of a cyclic node must alias its next pointer")
	}
}

func TestCopy_Array(t *testing.T) {
	grid := gobox.NewArray(gridType, gobox.NewStruct(pointType, 1, 1))
	if grid.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", grid.Len())
	}

	cp := gobox.Copy(grid).(*gobox.Array)
	cp.Index(0).(*gobox.Struct).SetField(0, 5)
	if got := grid.Index(0).(*gobox.Struct).Field(0); got != 1 {
		t.Errorf("grid[0].X = %v, want 1", got)
	}
	if !gobox.Equal(grid.Index(1), cp.Index(1)) {
		t.Error("untouched elements must stay equal")
	}
}

func TestCopy_Scalars(t *testing.T) {
	for _, v := range []any{nil, 1, "s", 2.5, true} {
		if got := gobox.Copy(v); got != v {
			t.Errorf("Copy(%v) = %v", v, got)
		}
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b any
		want bool
	}{
		{"equal structs", gobox.NewStruct(pointType, 1, 2), gobox.NewStruct(pointType, 1, 2), true},
		{"unequal structs", gobox.NewStruct(pointType, 1, 2), gobox.NewStruct(pointType, 2, 1), false},
		{"different struct types", gobox.NewStruct(pointType), gobox.NewStruct(types.NewStruct("main.Other",
			types.Field{Name: "X", Type: types.IntType()},
			types.Field{Name: "Y", Type: types.IntType()})), false},
		{"arrays", gobox.NewArray(gridType), gobox.NewArray(gridType), true},
		{"nil boxes", gobox.Boxed{}, gobox.Boxed{}, true},
		{"nil and typed nil", gobox.Boxed{}, gobox.BoxPointer(pointType, nil), false},
		{"boxed ints", gobox.Box(types.IntType(), 1), gobox.Box(types.IntType(), 1), true},
		{"boxed different types", gobox.Box(types.IntType(), 1), gobox.Box(types.Int64Type(), 1), false},
		{"typed nils", gobox.TypedNil{Static: pointType}, gobox.TypedNil{Static: pointType}, true},
		{"slices", []any{1}, []any{1}, false},
		{"scalars", "a", "a", true},
		{"nil", nil, nil, true},
		{"nil and value", nil, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := gobox.Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestZero(t *testing.T) {
	celsius := types.NewNamed("main.Celsius", types.Float64Type())

	tests := []struct {
		name string
		typ  types.Type
		want any
	}{
		{"bool", types.BoolType(), false},
		{"int", types.IntType(), 0},
		{"int8", types.Typ[types.KindInt8], int8(0)},
		{"uint64", types.Typ[types.KindUint64], uint64(0)},
		{"float32", types.Typ[types.KindFloat32], float32(0)},
		{"complex128", types.Typ[types.KindComplex128], complex128(0)},
		{"string", types.StringType(), ""},
		{"named float", celsius, float64(0)},
		{"slice", types.NewSlice(types.IntType()), []any(nil)},
		{"map", types.NewMap(types.StringType(), types.IntType()), map[any]any(nil)},
		{"chan", types.NewChan(types.IntType(), types.SendRecv), nil},
		{"interface", types.Any, gobox.Boxed{}},
		{"nil", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, gobox.Zero(tt.typ)); diff != "" {
				t.Errorf("Zero() mismatch (-want +got):\n%s", diff)
			}
		})
	}

	if p := gobox.Zero(types.NewPointer(pointType)).(*gobox.Cell); p != nil {
		t.Errorf("Zero(*Point) = %v, want nil cell", p)
	}
	if s := gobox.Zero(pointType).(*gobox.Struct); !gobox.Equal(s, gobox.NewStruct(pointType, 0, 0)) {
		t.Errorf("Zero(Point) = %v", s)
	}
}
