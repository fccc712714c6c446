package runtime

import (
	"github.com/loxlang/golox/internal/token"
)

// Instance is spec.md §3's Instance case: a class-bound field+method
// object. Grounded on go-dws internal/interp/class.go's ObjectInstance
// {Class, Fields}/GetField/SetField, generalized to Lox's dynamic field
// creation (DWScript's Fields are statically declared; Lox fields spring
// into existence on first Set, spec.md §4.E).
type Instance struct {
	gcHeader
	Class  *Class
	Fields map[string]Value
}

func (i *Instance) String() string { return i.Class.Name + " instance" }
func (i *Instance) Truthy() bool   { return true }

// Equals is identity-based unless the class defines `equals`, in which case
// the evaluator routes through that method instead of calling this
// directly (spec.md §4.E). This default covers instances of classes that
// never override `equals`.
func (i *Instance) Equals(o Value) bool {
	oi, ok := o.(*Instance)
	return ok && oi == i
}

// Get returns a field if set, else a method bound to this instance, else
// errors (spec.md §4.E). Field lookup does not require the field to be
// pre-declared: Lox instances gain fields dynamically via Set.
func (i *Instance) Get(name token.Token) (Value, *RuntimeError) {
	if v, ok := i.Fields[name.Lexeme]; ok {
		return v, nil
	}
	if method := i.Class.FindMethod(name.Lexeme); method != nil {
		return method.Bind(i), nil
	}
	return nil, NewRuntimeError(name, "Undefined property '%s'.", name.Lexeme)
}

// Set always succeeds, creating the field if it does not yet exist
// (spec.md §4.E).
func (i *Instance) Set(name token.Token, value Value) *RuntimeError {
	i.Fields[name.Lexeme] = value
	return nil
}

func (i *Instance) Call(_ Interp, paren token.Token, _ []Value) (Value, *RuntimeError) {
	return nil, NewRuntimeError(paren, "Can only call functions and classes.")
}

func (i *Instance) Arity() int { return 0 }

func (i *Instance) header() *gcHeader { return &i.gcHeader }

func (i *Instance) enumerateChildren() []Traceable {
	var children []Traceable
	children = append(children, i.Class)
	for _, v := range i.Fields {
		if t, ok := v.(Traceable); ok {
			children = append(children, t)
		}
	}
	return children
}

func (i *Instance) reclaim() {
	i.Class = nil
	i.Fields = nil
}
