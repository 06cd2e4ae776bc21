// Package interp implements the Jsonnet value model and the call-by-need
// evaluator: thunks, the object composition algebra, arithmetic,
// equality, import resolution, and the Program embedding API.
package interp

import (
	"github.com/eduardosm/rsjsonnet/internal/ast"
)

// Value is a fully-forced Jsonnet value: Null, Bool, Number, String,
// Array, Object, or Function. All values are immutable once constructed.
type Value interface {
	value()
	TypeName() string
}

type valueBase struct{}

func (valueBase) value() {}

// Null is Jsonnet's `null`.
type Null struct{ valueBase }

// TypeName implements Value.
func (Null) TypeName() string { return "null" }

// NullValue is the single shared Null value.
var NullValue Value = Null{}

// Bool is a Jsonnet boolean.
type Bool struct {
	valueBase
	B bool
}

// TypeName implements Value.
func (Bool) TypeName() string { return "boolean" }

// BoolValue wraps b as a Value.
func BoolValue(b bool) Value { return Bool{B: b} }

// Number is a Jsonnet number: an IEEE-754 double.
type Number struct {
	valueBase
	N float64
}

// TypeName implements Value.
func (Number) TypeName() string { return "number" }

// NumberValue wraps n as a Value.
func NumberValue(n float64) Value { return Number{N: n} }

// String is a Jsonnet string: a sequence of Unicode scalar values, stored
// decoded (not as UTF-8 bytes) so indexing and length are O(1) per scalar,
// per spec.md §9.
type String struct {
	valueBase
	R []rune
}

// TypeName implements Value.
func (String) TypeName() string { return "string" }

// StringValue wraps a Go string as a Value, decoding it to runes.
func StringValue(s string) Value { return String{R: []rune(s)} }

// StringValueRunes wraps an already-decoded rune slice as a Value.
func StringValueRunes(r []rune) Value { return String{R: r} }

// Go renders the string's scalars back to a Go string.
func (s String) Go() string { return string(s.R) }

// Len reports the string's length in Unicode scalars.
func (s String) Len() int { return len(s.R) }

// Array is a Jsonnet array: an ordered list of thunks.
type Array struct {
	valueBase
	Elems []*Thunk
}

// TypeName implements Value.
func (Array) TypeName() string { return "array" }

// ArrayValue builds an Array from already-created thunks.
func ArrayValue(elems []*Thunk) Value { return Array{Elems: elems} }

// Function is a Jsonnet function value: either a closure over a
// user-defined ast.Function, or a native builtin.
type Function struct {
	valueBase
	Name   string // for error messages; empty for anonymous closures
	Params []Param
	Call   func(i *Interp, args *CallArgs) (Value, error)
}

// Param describes one formal parameter: its name and, for optional
// parameters, the default-value expression plus the environment it should
// be evaluated in (nil default env for native builtins, which instead
// supply a Go zero value check).
type Param struct {
	Name       ast.Identifier
	HasDefault bool
	Default    ast.Node
	DefaultEnv *Env
}

// TypeName implements Value.
func (Function) TypeName() string { return "function" }

// ---------------------------------------------------------------------------

// AsBool type-asserts v to a boolean or returns an error.
func AsBool(i *Interp, v Value, context string) (bool, error) {
	b, ok := v.(Bool)
	if !ok {
		return false, i.Errorf("%s: expected boolean, got %s", context, v.TypeName())
	}
	return b.B, nil
}

// AsNumber type-asserts v to a number or returns an error.
func AsNumber(i *Interp, v Value, context string) (float64, error) {
	n, ok := v.(Number)
	if !ok {
		return 0, i.Errorf("%s: expected number, got %s", context, v.TypeName())
	}
	return n.N, nil
}

// AsString type-asserts v to a string or returns an error.
func AsString(i *Interp, v Value, context string) (String, error) {
	s, ok := v.(String)
	if !ok {
		return String{}, i.Errorf("%s: expected string, got %s", context, v.TypeName())
	}
	return s, nil
}

// AsArray type-asserts v to an array or returns an error.
func AsArray(i *Interp, v Value, context string) (Array, error) {
	a, ok := v.(Array)
	if !ok {
		return Array{}, i.Errorf("%s: expected array, got %s", context, v.TypeName())
	}
	return a, nil
}

// AsObject type-asserts v to an object or returns an error.
func AsObject(i *Interp, v Value, context string) (*Object, error) {
	o, ok := v.(*Object)
	if !ok {
		return nil, i.Errorf("%s: expected object, got %s", context, v.TypeName())
	}
	return o, nil
}

// AsFunction type-asserts v to a function or returns an error.
func AsFunction(i *Interp, v Value, context string) (Function, error) {
	f, ok := v.(Function)
	if !ok {
		return Function{}, i.Errorf("%s: expected function, got %s", context, v.TypeName())
	}
	return f, nil
}
