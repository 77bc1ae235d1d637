// Package testutil provides registry fixtures and logging helpers for tests.
// This package is designed to be import-cycle safe and can be used from any
// package's external tests.
package testutil

import (
	"log/slog"
	"strings"
	"testing"

	"github.com/broady/gobox"
	"github.com/broady/gobox/types"
)

// Zoo is a registry preloaded with a small set of related types:
//
//	type Person struct { Name string `json:"name"`; Age int }
//	func (p Person) Greet() string
//
//	type Dog struct { Name string }
//	func (d *Dog) Sound() string   // tolerates a nil receiver
//	func (d *Dog) Walk()
//
//	type Cat struct { Lives int }
//	func (c Cat) Sound() string
//
//	type Animal interface { Sound() string }
//	type Walker interface { Sound() string; Walk() }
type Zoo struct {
	Reg *gobox.Registry

	Person *types.Struct
	Dog    *types.Struct
	Cat    *types.Struct
	Animal *types.Interface
	Walker *types.Interface
}

// Sound strings returned by the fixture methods.
const (
	DogSound    = "woof"
	NilDogSound = "(silence)"
	CatSound    = "meow"
)

var (
	soundMethod = types.Method{Name: "Sound", Results: []types.Type{types.StringType()}}
	walkMethod  = types.Method{Name: "Walk"}
)

// NewZoo builds a fresh registry with the Zoo types registered. The registry
// logs to tb.
func NewZoo(tb testing.TB) *Zoo {
	tb.Helper()

	z := &Zoo{
		Reg: gobox.NewRegistry().WithLogger(Logger(tb)),
		Person: types.NewStruct("main.Person",
			types.Field{Name: "Name", Type: types.StringType(), Tag: `json:"name"`},
			types.Field{Name: "Age", Type: types.IntType()},
		),
		Dog: types.NewStruct("main.Dog",
			types.Field{Name: "Name", Type: types.StringType()},
		),
		Cat: types.NewStruct("main.Cat",
			types.Field{Name: "Lives", Type: types.IntType()},
		),
		Animal: types.NewInterface("main.Animal", soundMethod),
		Walker: types.NewInterface("main.Walker", soundMethod, walkMethod),
	}

	z.Reg.MustRegister(z.Person, gobox.MethodImpl{
		Method: types.Method{Name: "Greet", Results: []types.Type{types.StringType()}},
		Func: func(recv any, _ ...any) []any {
			p := recv.(*gobox.Struct)
			return []any{"hi, " + p.Field(0).(string)}
		},
	})
	z.Reg.MustRegister(z.Dog,
		gobox.MethodImpl{
			Method:          soundMethod,
			PointerReceiver: true,
			Func: func(recv any, _ ...any) []any {
				if recv.(*gobox.Cell) == nil {
					return []any{NilDogSound}
				}
				return []any{DogSound}
			},
		},
		gobox.MethodImpl{
			Method:          walkMethod,
			PointerReceiver: true,
		},
	)
	z.Reg.MustRegister(z.Cat, gobox.MethodImpl{
		Method: soundMethod,
		Func: func(any, ...any) []any {
			return []any{CatSound}
		},
	})
	z.Reg.MustRegister(z.Animal)
	z.Reg.MustRegister(z.Walker)
	return z
}

// NewPerson returns a Person instance.
func (z *Zoo) NewPerson(name string, age int) *gobox.Struct {
	return gobox.NewStruct(z.Person, name, age)
}

// NewDog returns a pointer to a fresh Dog.
func (z *Zoo) NewDog(name string) *gobox.Cell {
	return gobox.NewCell(gobox.NewStruct(z.Dog, name))
}

// Logger returns a slog.Logger that writes through tb.Log at debug level.
func Logger(tb testing.TB) *slog.Logger {
	return slog.New(slog.NewTextHandler(logWriter{tb}, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

type logWriter struct {
	tb testing.TB
}

func (w logWriter) Write(p []byte) (int, error) {
	w.tb.Log(strings.TrimSuffix(string(p), "\n"))
	return len(p), nil
}
