// Package zoo contains test types for the source loader.
package zoo

import "time"

// Person is a plain struct with a value-receiver method.
type Person struct {
	Name string `json:"name"`
	Age  int
}

func (p Person) Greet() string { return "hi, " + p.Name }

// Dog only has pointer-receiver methods.
type Dog struct {
	Name string
	Born time.Time
}

func (d *Dog) Sound() string {
	if d == nil {
		return "(silence)"
	}
	return "woof"
}

func (d *Dog) Walk() {}

// Cat has a value-receiver Sound.
type Cat struct {
	Lives int
}

func (c Cat) Sound() string { return "meow" }

// Animal is satisfied by Cat and *Dog.
type Animal interface {
	Sound() string
}

// Walker embeds Animal.
type Walker interface {
	Animal
	Walk()
}

// Kennel embeds *Dog, so Kennel's method set includes Dog's methods.
type Kennel struct {
	*Dog
	Feed <-chan Person
	Err  error
}

// Node is a recursive list.
type Node struct {
	Value int
	Next  *Node
}

// Celsius is a defined numeric type.
type Celsius float64

func (c Celsius) Kelvin() float64 { return float64(c) + 273.15 }

// Box is generic and is skipped.
type Box[T any] struct {
	V T
}

// Crate holds an instantiated generic.
type Crate struct {
	Ints Box[int]
}

// Alias names Person.
type Alias = Person
