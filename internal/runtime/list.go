package runtime

import (
	"strings"

	"github.com/loxlang/golox/internal/token"
)

// List is spec.md §3's List case: an ordered sequence of Value, exposed to
// scripts as an instance of the built-in List class (spec.md §6) with
// methods append/get/set/length/toString.
type List struct {
	gcHeader
	Elements []Value
}

// NewList allocates an empty list. Use Allocate(heap, NewList()) to
// register it.
func NewList() *List { return &List{} }

func (l *List) Truthy() bool { return true }
func (l *List) Equals(o Value) bool {
	ol, ok := o.(*List)
	return ok && ol == l
}

// String renders `[e0, e1, …]`, guarding against self-referential cycles by
// rendering `[...]` when a list is re-entered during its own stringify
// (spec.md §6).
func (l *List) String() string {
	return l.render(map[*List]bool{})
}

func (l *List) render(visiting map[*List]bool) string {
	if visiting[l] {
		return "[...]"
	}
	visiting[l] = true
	defer delete(visiting, l)

	parts := make([]string, len(l.Elements))
	for i, e := range l.Elements {
		if nested, ok := e.(*List); ok {
			parts[i] = nested.render(visiting)
		} else {
			parts[i] = e.String()
		}
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Get returns a method bound to this list (append/get/set/length/toString);
// Lists have no fields. Only instances have properties otherwise, but List
// is its own Value case rather than a generic Instance (spec.md §3), so it
// answers Get directly instead of delegating to Instance.
func (l *List) Get(name token.Token) (Value, *RuntimeError) {
	impl, ok := listMethods[name.Lexeme]
	if !ok {
		return nil, NewRuntimeError(name, "Undefined property '%s'.", name.Lexeme)
	}
	return &NativeFunction{Name: name.Lexeme, ArityValue: impl.arity, BoundReceiver: l, Implementation: impl.fn}, nil
}

func (l *List) Set(name token.Token, _ Value) *RuntimeError {
	return NewRuntimeError(name, "Only instances have fields.")
}

func (l *List) Call(_ Interp, paren token.Token, _ []Value) (Value, *RuntimeError) {
	return nil, NewRuntimeError(paren, "Can only call functions and classes.")
}

func (l *List) Arity() int { return 0 }

type listMethod struct {
	arity int
	fn    NativeImpl
}

var listMethods = map[string]listMethod{
	"append": {arity: 1, fn: func(_ Interp, receiver Value, args []Value) (Value, *RuntimeError) {
		l := receiver.(*List)
		l.Elements = append(l.Elements, args[0])
		return args[0], nil
	}},
	"get": {arity: 1, fn: func(_ Interp, receiver Value, args []Value) (Value, *RuntimeError) {
		l := receiver.(*List)
		n, ok := args[0].(*Number)
		if !ok {
			return TheNil, nil
		}
		i := int(n.Value)
		if i < 0 || i >= len(l.Elements) {
			return TheNil, nil
		}
		return l.Elements[i], nil
	}},
	"set": {arity: 2, fn: func(_ Interp, receiver Value, args []Value) (Value, *RuntimeError) {
		l := receiver.(*List)
		n, ok := args[0].(*Number)
		if !ok {
			return NewBool(false), nil
		}
		i := int(n.Value)
		if i < 0 || i >= len(l.Elements) {
			return NewBool(false), nil
		}
		l.Elements[i] = args[1]
		return NewBool(true), nil
	}},
	"length": {arity: 0, fn: func(_ Interp, receiver Value, _ []Value) (Value, *RuntimeError) {
		l := receiver.(*List)
		return NewNumber(float64(len(l.Elements))), nil
	}},
	"toString": {arity: 0, fn: func(_ Interp, receiver Value, _ []Value) (Value, *RuntimeError) {
		l := receiver.(*List)
		return NewString(l.String()), nil
	}},
}

func (l *List) header() *gcHeader { return &l.gcHeader }

func (l *List) enumerateChildren() []Traceable {
	var children []Traceable
	for _, v := range l.Elements {
		if t, ok := v.(Traceable); ok {
			children = append(children, t)
		}
	}
	return children
}

func (l *List) reclaim() {
	l.Elements = nil
}
