package types

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestKind_String(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindInvalid, "invalid"},
		{KindInt8, "int8"},
		{KindUintptr, "uintptr"},
		{KindPointer, "ptr"},
		{KindStruct, "struct"},
		{KindUnsafePointer, "unsafe.Pointer"},
		{Kind(99), "kind99"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.want {
				t.Errorf("Kind.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBasicByName(t *testing.T) {
	tests := []struct {
		name string
		want Kind
		ok   bool
	}{
		{"int", KindInt, true},
		{"byte", KindUint8, true},
		{"rune", KindInt32, true},
		{"complex64", KindComplex64, true},
		{"unsafe.Pointer", KindUnsafePointer, true},
		{"ptr", KindInvalid, false},
		{"Person", KindInvalid, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, ok := BasicByName(tt.name)
			if ok != tt.ok {
				t.Fatalf("BasicByName(%q) ok = %v, want %v", tt.name, ok, tt.ok)
			}
			if ok && b.Kind() != tt.want {
				t.Errorf("BasicByName(%q) = %v, want %v", tt.name, b.Kind(), tt.want)
			}
		})
	}
}

func TestIdentical(t *testing.T) {
	person := NewStruct("main.Person", Field{Name: "Name", Type: StringType()})
	samePersonName := NewStruct("main.Person")
	employee := NewStruct("main.Employee", Field{Name: "Name", Type: StringType()})
	anonA := NewStruct("", Field{Name: "X", Type: IntType()})
	anonB := NewStruct("", Field{Name: "X", Type: IntType()})
	anonTagged := NewStruct("", Field{Name: "X", Type: IntType(), Tag: `json:"x"`})

	tests := []struct {
		name string
		a, b Type
		want bool
	}{
		{"same basic", IntType(), Typ[KindInt], true},
		{"different basic", IntType(), Int64Type(), false},
		{"named by name", person, samePersonName, true},
		{"distinct names same shape", person, employee, false},
		{"anonymous structural", anonA, anonB, true},
		{"anonymous tag differs", anonA, anonTagged, false},
		{"pointer", NewPointer(person), NewPointer(samePersonName), true},
		{"pointer vs value", NewPointer(person), person, false},
		{"slice", NewSlice(IntType()), NewSlice(IntType()), true},
		{"array len", NewArray(IntType(), 3), NewArray(IntType(), 4), false},
		{"map", NewMap(StringType(), IntType()), NewMap(StringType(), IntType()), true},
		{"chan dir", NewChan(IntType(), SendRecv), NewChan(IntType(), SendOnly), false},
		{"func", NewSignature([]Type{IntType()}, nil, false), NewSignature([]Type{IntType()}, nil, false), true},
		{"func unknown param", NewSignature([]Type{nil}, nil, false), NewSignature([]Type{StringType()}, nil, false), true},
		{"func arity", NewSignature([]Type{IntType()}, nil, false), NewSignature(nil, nil, false), false},
		{"inline interface order", NewInterface("", Method{Name: "A"}, Method{Name: "B"}), NewInterface("", Method{Name: "B"}, Method{Name: "A"}), true},
		{"named vs basic", NewNamed("main.Celsius", Float64Type()), Float64Type(), false},
		{"nil nil", nil, nil, true},
		{"nil vs type", nil, IntType(), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Identical(tt.a, tt.b); got != tt.want {
				t.Errorf("Identical(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestTypeString(t *testing.T) {
	dog := NewStruct("main.Dog")
	tests := []struct {
		typ  Type
		want string
	}{
		{NewPointer(dog), "*main.Dog"},
		{NewSlice(IntType()), "[]int"},
		{NewArray(StringType(), 2), "[2]string"},
		{NewMap(StringType(), NewPointer(dog)), "map[string]*main.Dog"},
		{NewChan(IntType(), SendOnly), "chan<- int"},
		{NewChan(IntType(), RecvOnly), "<-chan int"},
		{NewChan(NewChan(IntType(), RecvOnly), SendRecv), "chan (<-chan int)"},
		{NewSignature([]Type{IntType(), NewSlice(StringType())}, []Type{BoolType()}, true), "func(int, ...string) bool"},
		{NewSignature(nil, []Type{IntType(), Any}, false), "func() (int, interface {})"},
		{NewStruct("", Field{Name: "A", Type: IntType(), Tag: `json:"a"`}), `struct { A int "json:\"a\"" }`},
		{NewInterface("", Method{Name: "Speak", Results: []Type{StringType()}}), "interface { Speak() string }"},
		{NewNamed("main.Celsius", Float64Type()), "main.Celsius"},
		{nil, "?"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := TypeString(tt.typ); got != tt.want {
				t.Errorf("TypeString() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStructTag(t *testing.T) {
	tag := StructTag(`json:"name,omitempty" validate:"required" db:""`)

	tests := []struct {
		key    string
		want   string
		wantOK bool
	}{
		{"json", "name,omitempty", true},
		{"validate", "required", true},
		{"db", "", true},
		{"yaml", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, ok := tag.Lookup(tt.key)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Lookup(%q) = (%q, %v), want (%q, %v)", tt.key, got, ok, tt.want, tt.wantOK)
			}
			if g := tag.Get(tt.key); g != tt.want {
				t.Errorf("Get(%q) = %q, want %q", tt.key, g, tt.want)
			}
		})
	}

	if diff := cmp.Diff([]string{"json", "validate", "db"}, tag.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}
}

func TestStructTag_Malformed(t *testing.T) {
	for _, tag := range []StructTag{`json:name`, `json`, `:"x"`, `json:"unterminated`} {
		if got := tag.Get("json"); got != "" {
			t.Errorf("StructTag(%q).Get(json) = %q, want empty", tag, got)
		}
	}
}

func TestStruct_FieldLookup(t *testing.T) {
	s := NewStruct("main.Person",
		Field{Name: "Name", Type: StringType(), Tag: `json:"name"`},
		Field{Name: "Age", Type: IntType()},
	)
	if s.NumField() != 2 {
		t.Fatalf("NumField() = %d, want 2", s.NumField())
	}
	if got := s.Field(0).Tag.Get("json"); got != "name" {
		t.Errorf("Field(0).Tag.Get(json) = %q, want name", got)
	}
	if i := s.FieldIndex("Age"); i != 1 {
		t.Errorf("FieldIndex(Age) = %d, want 1", i)
	}
	if _, ok := s.FieldByName("Missing"); ok {
		t.Error("FieldByName(Missing) should fail")
	}
}

func TestValueAndReferenceKinds(t *testing.T) {
	grid := NewNamed("main.Grid", NewArray(IntType(), 9))
	tests := []struct {
		typ       Type
		value     bool
		reference bool
	}{
		{NewStruct("main.P"), true, false},
		{grid, true, false},
		{IntType(), false, false},
		{NewPointer(IntType()), false, true},
		{NewSlice(IntType()), false, true},
		{NewMap(IntType(), IntType()), false, true},
		{NewChan(IntType(), SendRecv), false, true},
		{Any, false, true},
		{NewSignature(nil, nil, false), false, true},
	}
	for _, tt := range tests {
		t.Run(TypeString(tt.typ), func(t *testing.T) {
			if got := IsValueKind(tt.typ); got != tt.value {
				t.Errorf("IsValueKind() = %v, want %v", got, tt.value)
			}
			if got := IsReferenceKind(tt.typ); got != tt.reference {
				t.Errorf("IsReferenceKind() = %v, want %v", got, tt.reference)
			}
		})
	}
}

func TestChanDir_Satisfies(t *testing.T) {
	tests := []struct {
		have, want ChanDir
		ok         bool
	}{
		{SendRecv, SendOnly, true},
		{SendRecv, RecvOnly, true},
		{SendRecv, SendRecv, true},
		{RecvOnly, SendOnly, false},
		{SendOnly, SendRecv, false},
		{RecvOnly, RecvOnly, true},
	}
	for _, tt := range tests {
		if got := tt.have.Satisfies(tt.want); got != tt.ok {
			t.Errorf("%v.Satisfies(%v) = %v, want %v", tt.have, tt.want, got, tt.ok)
		}
	}
}

func TestJSON_RoundTrip(t *testing.T) {
	node := NewStruct("main.Node")
	node.Fields = []Field{
		{Name: "Value", Type: IntType(), Tag: `json:"value"`},
		{Name: "Next", Type: NewPointer(node)},
		{Name: "Tags", Type: NewMap(StringType(), NewSlice(StringType()))},
		{Name: "Out", Type: NewChan(IntType(), SendOnly)},
		{Name: "Fn", Type: NewSignature([]Type{IntType()}, []Type{BoolType()}, false)},
	}

	data, err := json.Marshal(node)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	resolve := func(name string) (Type, bool) {
		if name == "main.Node" {
			return node, true
		}
		return nil, false
	}
	got, err := Unmarshal(data, resolve)
	if err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	s, ok := got.(*Struct)
	if !ok {
		t.Fatalf("Unmarshal returned %T, want *Struct", got)
	}
	if s.Name != "main.Node" || len(s.Fields) != len(node.Fields) {
		t.Fatalf("Unmarshal = %v with %d fields", s, len(s.Fields))
	}
	for i, f := range s.Fields {
		want := node.Fields[i]
		if f.Name != want.Name || f.Tag != want.Tag || !Identical(f.Type, want.Type) {
			t.Errorf("field %d = %+v, want %+v", i, f, want)
		}
	}
	if s.Fields[1].Type.(*Pointer).Elem != node {
		t.Error("self reference should resolve to the original descriptor")
	}
}

func TestJSON_KindDiscriminator(t *testing.T) {
	tests := []struct {
		typ  Type
		want string
	}{
		{IntType(), `{"kind":"basic","name":"int"}`},
		{NewPointer(NewStruct("main.Dog")), `{"kind":"pointer","elem":{"kind":"ref","name":"main.Dog"}}`},
		{NewChan(StringType(), RecvOnly), `{"kind":"chan","elem":{"kind":"basic","name":"string"},"dir":"recv"}`},
		{NewNamed("main.Celsius", Float64Type()), `{"kind":"named","name":"main.Celsius","underlying":{"kind":"basic","name":"float64"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			data, err := json.Marshal(tt.typ)
			if err != nil {
				t.Fatalf("Marshal failed: %v", err)
			}
			if string(data) != tt.want {
				t.Errorf("Marshal() = %s, want %s", data, tt.want)
			}
		})
	}

	ref, err := MarshalRef(NewStruct("main.Dog"))
	if err != nil {
		t.Fatal(err)
	}
	if string(ref) != `{"kind":"ref","name":"main.Dog"}` {
		t.Errorf("MarshalRef() = %s", ref)
	}
}

func TestUnmarshal_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"unknown kind", `{"kind":"tuple"}`},
		{"unknown basic", `{"kind":"basic","name":"int128"}`},
		{"bad dir", `{"kind":"chan","elem":{"kind":"basic","name":"int"},"dir":"sideways"}`},
		{"bad json", `{`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Unmarshal([]byte(tt.data), nil); err == nil {
				t.Error("expected error")
			}
		})
	}

	_, err := Unmarshal([]byte(`{"kind":"slice","elem":{"kind":"ref","name":"main.Missing"}}`), nil)
	var unresolved *UnresolvedError
	if !errors.As(err, &unresolved) || unresolved.Name != "main.Missing" {
		t.Errorf("Unmarshal() error = %v, want UnresolvedError for main.Missing", err)
	}
}
