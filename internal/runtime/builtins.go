package runtime

import (
	"github.com/loxlang/golox/internal/token"
)

// namedClass backs the built-in classes spec.md §6 requires the Runtime to
// install (Object, Nil, Bool, Number, String, Function) that are not, like
// List, independently constructible with their own Go-side element storage.
// They exist chiefly so scripts can reference the class names as ordinary
// global values; none of spec.md's testable scenarios instantiate them
// directly, so their Call is a clear, named refusal rather than the bare
// "Can only call functions and classes." base default.
type namedClass struct {
	gcHeader
	base
	Name string
}

func (c *namedClass) String() string { return c.Name }
func (c *namedClass) Truthy() bool   { return true }
func (c *namedClass) Equals(o Value) bool {
	oc, ok := o.(*namedClass)
	return ok && oc == c
}

func (c *namedClass) Call(_ Interp, paren token.Token, _ []Value) (Value, *RuntimeError) {
	return nil, NewRuntimeError(paren, "%s cannot be instantiated directly.", c.Name)
}

func (c *namedClass) header() *gcHeader          { return &c.gcHeader }
func (c *namedClass) enumerateChildren() []Traceable { return nil }
func (c *namedClass) reclaim()                   {}

// listClass is the built-in List class: calling it (`List()`) allocates a
// fresh, empty *List on the heap it was installed into.
type listClass struct {
	gcHeader
	base
	heap *Heap
}

func (c *listClass) String() string { return "List" }
func (c *listClass) Truthy() bool   { return true }
func (c *listClass) Equals(o Value) bool {
	oc, ok := o.(*listClass)
	return ok && oc == c
}

func (c *listClass) Call(_ Interp, _ token.Token, _ []Value) (Value, *RuntimeError) {
	return Allocate(c.heap, NewList()), nil
}

func (c *listClass) header() *gcHeader          { return &c.gcHeader }
func (c *listClass) enumerateChildren() []Traceable { return nil }
func (c *listClass) reclaim()                   {}
