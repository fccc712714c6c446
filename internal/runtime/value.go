// Package runtime implements spec.md §4.C (Heap/GC), §4.D (Environment),
// §4.E (Value model) and §4.F (Runtime facade).
//
// Grounded on go-dws's internal/interp.Value interface (Type()/String())
// and internal/interp/runtime.Environment ({store, outer}), generalized to
// the uniform get/set/call/arity surface spec.md §4.E requires and to a
// mark-and-sweep heap in place of go-dws's reference counting
// (internal/interp/runtime/refcount.go) — refcounting alone cannot break
// the closure-over-environment-over-closure cycles spec.md §3 calls out.
package runtime

import (
	"fmt"
	"math"
	"strconv"

	"github.com/loxlang/golox/internal/token"
)

// Value is the uniform runtime value surface of spec.md §4.E. Every case
// answers every method; types that spec.md does not define an operation for
// return the exact error message §7 requires.
type Value interface {
	String() string
	Truthy() bool
	Equals(other Value) bool
	Get(name token.Token) (Value, *RuntimeError)
	Set(name token.Token, value Value) *RuntimeError
	Call(interp Interp, paren token.Token, args []Value) (Value, *RuntimeError)
	Arity() int
}

// Interp is the callback surface the runtime needs from the evaluator to
// run a UserFunction's body. Defining it here (rather than importing
// internal/evaluator) avoids a import cycle: runtime values call back into
// the evaluator through this narrow interface; internal/evaluator.Evaluator
// implements it.
type Interp interface {
	// CallUserFunction executes fn's body in a fresh environment enclosing
	// closure, with params bound to args. Returns the function's result
	// (spec.md §4.E's UserFunction.call semantics, including the
	// isInitializer override).
	CallUserFunction(fn *UserFunction, closure *Environment, args []Value) (Value, *RuntimeError)
}

// RuntimeError carries the offending token for line info, spec.md §7.
type RuntimeError struct {
	Token   token.Token
	Message string
}

func (e *RuntimeError) Error() string { return e.Message }

func NewRuntimeError(tok token.Token, format string, args ...any) *RuntimeError {
	return &RuntimeError{Token: tok, Message: fmt.Sprintf(format, args...)}
}

// base implements the uniform Get/Set/Call/Arity defaults spec.md §4.E
// assigns to every value that doesn't otherwise define them, so each
// concrete Value only needs to embed base and override what it supports.
type base struct{}

func (base) Get(name token.Token) (Value, *RuntimeError) {
	return nil, NewRuntimeError(name, "Only instances have properties.")
}

func (base) Set(name token.Token, _ Value) *RuntimeError {
	return NewRuntimeError(name, "Only instances have fields.")
}

func (base) Call(_ Interp, paren token.Token, _ []Value) (Value, *RuntimeError) {
	return nil, NewRuntimeError(paren, "Can only call functions and classes.")
}

func (base) Arity() int { return 0 }

// -- Nil -----------------------------------------------------------------

type Nil struct{ base }

// TheNil is the single canonical nil value. Like TheTrue/TheFalse it is not
// heap-allocated, so it needs no GC root entry (see Runtime.Roots).
var TheNil = &Nil{}

func (*Nil) String() string       { return "nil" }
func (*Nil) Truthy() bool         { return false }
func (*Nil) Equals(o Value) bool  { _, ok := o.(*Nil); return ok }

// -- Bool ------------------------------------------------------------------

type Bool struct {
	base
	Value bool
}

var (
	TheTrue  = &Bool{Value: true}
	TheFalse = &Bool{Value: false}
)

// NewBool returns the canonical Bool for v, so identity-based comparisons
// of booleans behave sanely even though Bool is compared by content anyway.
func NewBool(v bool) *Bool {
	if v {
		return TheTrue
	}
	return TheFalse
}

func (b *Bool) String() string {
	if b.Value {
		return "true"
	}
	return "false"
}
func (b *Bool) Truthy() bool { return b.Value }
func (b *Bool) Equals(o Value) bool {
	ob, ok := o.(*Bool)
	return ok && ob.Value == b.Value
}

// -- Number ----------------------------------------------------------------

type Number struct {
	base
	Value float64
}

func NewNumber(v float64) *Number { return &Number{Value: v} }

// String formats per spec.md §4.E: finite doubles, no trailing zeros after
// a decimal point, no trailing decimal point if integral.
func (n *Number) String() string {
	if math.IsInf(n.Value, 1) {
		return "Infinity"
	}
	if math.IsInf(n.Value, -1) {
		return "-Infinity"
	}
	if math.IsNaN(n.Value) {
		return "NaN"
	}
	s := strconv.FormatFloat(n.Value, 'f', -1, 64)
	return s
}
func (n *Number) Truthy() bool { return true }
func (n *Number) Equals(o Value) bool {
	on, ok := o.(*Number)
	if !ok {
		return false
	}
	return n.Value == on.Value // NaN != NaN falls out of IEEE-754 naturally
}

// -- String ------------------------------------------------------------------

type String struct {
	base
	Value string
}

func NewString(v string) *String { return &String{Value: v} }

func (s *String) String() string { return s.Value }
func (s *String) Truthy() bool   { return true }
func (s *String) Equals(o Value) bool {
	os, ok := o.(*String)
	return ok && os.Value == s.Value
}
