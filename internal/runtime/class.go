package runtime

import (
	"github.com/loxlang/golox/internal/token"
)

// Class is spec.md §3/§4.E's Class case: name, optional superclass, a
// name->Function method table, and init's arity.
//
// Grounded on go-dws internal/interp/class.go's ClassInfo{Name, Parent,
// Methods}/ObjectInstance pair and its lookupMethod walking Parent, adapted
// to Lox's single `init` constructor in place of DWScript's separate
// Constructor/Constructors/overload maps (Lox has no overloading).
type Class struct {
	gcHeader
	base
	Name       string
	Superclass *Class // nil if none
	Methods    map[string]*UserFunction
	heap       *Heap // so Call can allocate the Instance it constructs
}

// NewClass allocates class metadata. Methods is keyed by method name;
// IsInitializer is set by the caller for the method named "init". heap is
// the heap Call allocates instances into; callers going through
// Runtime.NewClass get it wired automatically.
func NewClass(name string, superclass *Class, methods map[string]*UserFunction) *Class {
	return &Class{Name: name, Superclass: superclass, Methods: methods}
}

func (c *Class) String() string { return c.Name }
func (c *Class) Truthy() bool   { return true }
func (c *Class) Equals(o Value) bool {
	oc, ok := o.(*Class)
	return ok && oc == c
}

// FindMethod recurses into Superclass until name is found or exhausted
// (spec.md §3: "late-bound through Class.findMethod").
func (c *Class) FindMethod(name string) *UserFunction {
	if m, ok := c.Methods[name]; ok {
		return m
	}
	if c.Superclass != nil {
		return c.Superclass.FindMethod(name)
	}
	return nil
}

// Arity is init's arity if defined, else 0 (spec.md §3).
func (c *Class) Arity() int {
	if init := c.FindMethod("init"); init != nil {
		return init.Arity()
	}
	return 0
}

// Call allocates an Instance bound to this class and runs init (if any),
// always returning the instance itself, never init's return value
// (spec.md §4.E's Class.call semantics).
func (c *Class) Call(interp Interp, paren token.Token, args []Value) (Value, *RuntimeError) {
	instance := Allocate(c.heap, &Instance{Class: c, Fields: make(map[string]Value)})

	if init := c.FindMethod("init"); init != nil {
		bound := init.Bind(instance)
		if _, err := interp.CallUserFunction(bound.Fn, bound.Closure, args); err != nil {
			return nil, err
		}
	}

	return instance, nil
}

func (c *Class) header() *gcHeader { return &c.gcHeader }

func (c *Class) enumerateChildren() []Traceable {
	var children []Traceable
	if c.Superclass != nil {
		children = append(children, c.Superclass)
	}
	for _, m := range c.Methods {
		children = append(children, m)
	}
	return children
}

func (c *Class) reclaim() {
	c.Superclass = nil
	c.Methods = nil
}
