package runtime

import (
	"github.com/loxlang/golox/internal/ast"
	"github.com/loxlang/golox/internal/token"
)

// UserFunction is spec.md §3's UserFunction case: a closure over the
// environment in which it was declared (function/method declarations
// capture the enclosing environment at declaration time, spec.md's
// Lifecycles).
type UserFunction struct {
	gcHeader
	base
	Name          string
	Params        []token.Token
	Body          []ast.Stmt
	Closure       *Environment
	IsInitializer bool
}

func NewUserFunction(name string, params []token.Token, body []ast.Stmt, closure *Environment, isInitializer bool) *UserFunction {
	return &UserFunction{Name: name, Params: params, Body: body, Closure: closure, IsInitializer: isInitializer}
}

func (f *UserFunction) String() string {
	if f.Name == "" {
		return "<fn>"
	}
	return "<fn " + f.Name + ">"
}
func (f *UserFunction) Truthy() bool { return true }
func (f *UserFunction) Equals(o Value) bool {
	of, ok := o.(*UserFunction)
	return ok && of == f
}
func (f *UserFunction) Arity() int { return len(f.Params) }

func (f *UserFunction) Call(interp Interp, _ token.Token, args []Value) (Value, *RuntimeError) {
	return interp.CallUserFunction(f, f.Closure, args)
}

// Bind returns a BoundMethod whose closure is a fresh environment enclosing
// f's closure and defining `this` = instance (spec.md §4.E's
// Function.bind semantics).
func (f *UserFunction) Bind(instance *Instance) *BoundMethod {
	env := NewEnclosedEnvironment(f.Closure)
	env.Define("this", instance)
	return &BoundMethod{Receiver: instance, Fn: f, Closure: env}
}

func (f *UserFunction) header() *gcHeader { return &f.gcHeader }

func (f *UserFunction) enumerateChildren() []Traceable {
	if f.Closure == nil {
		return nil
	}
	return []Traceable{f.Closure}
}

func (f *UserFunction) reclaim() {
	f.Closure = nil
	f.Body = nil
}

// BoundMethod is spec.md §3's transient BoundMethod case, created on demand
// by Get on an Instance.
type BoundMethod struct {
	gcHeader
	base
	Receiver Value
	Fn       *UserFunction
	Closure  *Environment // encloses Fn.Closure, binds `this`
}

func (b *BoundMethod) String() string { return b.Fn.String() }
func (b *BoundMethod) Truthy() bool   { return true }
func (b *BoundMethod) Equals(o Value) bool {
	ob, ok := o.(*BoundMethod)
	return ok && ob.Fn == b.Fn && ob.Receiver == b.Receiver
}
func (b *BoundMethod) Arity() int { return b.Fn.Arity() }

func (b *BoundMethod) Call(interp Interp, _ token.Token, args []Value) (Value, *RuntimeError) {
	return interp.CallUserFunction(b.Fn, b.Closure, args)
}

func (b *BoundMethod) header() *gcHeader { return &b.gcHeader }

func (b *BoundMethod) enumerateChildren() []Traceable {
	var children []Traceable
	if t, ok := b.Receiver.(Traceable); ok {
		children = append(children, t)
	}
	children = append(children, b.Fn, b.Closure)
	return children
}

func (b *BoundMethod) reclaim() {
	b.Receiver = nil
	b.Fn = nil
	b.Closure = nil
}

// NativeImpl is a built-in function's Go implementation. receiver is nil
// unless the native function was bound to a receiver (spec.md §3's
// NativeFunction.boundReceiver).
type NativeImpl func(interp Interp, receiver Value, args []Value) (Value, *RuntimeError)

// NativeFunction is spec.md §3's NativeFunction case: a host-callable
// surface for built-in classes and functions (spec.md §1).
type NativeFunction struct {
	gcHeader
	base
	Name           string
	ArityValue     int
	BoundReceiver  Value
	Implementation NativeImpl
}

func NewNativeFunction(name string, arity int, impl NativeImpl) *NativeFunction {
	return &NativeFunction{Name: name, ArityValue: arity, Implementation: impl}
}

func (n *NativeFunction) String() string { return "<native fn " + n.Name + ">" }
func (n *NativeFunction) Truthy() bool   { return true }
func (n *NativeFunction) Equals(o Value) bool {
	on, ok := o.(*NativeFunction)
	return ok && on == n
}
func (n *NativeFunction) Arity() int { return n.ArityValue }

func (n *NativeFunction) Call(interp Interp, _ token.Token, args []Value) (Value, *RuntimeError) {
	return n.Implementation(interp, n.BoundReceiver, args)
}

// BindReceiver returns a copy of n bound to receiver, mirroring
// UserFunction.Bind for native methods (e.g. List's append/get/set).
func (n *NativeFunction) BindReceiver(receiver Value) *NativeFunction {
	return &NativeFunction{Name: n.Name, ArityValue: n.ArityValue, BoundReceiver: receiver, Implementation: n.Implementation}
}

func (n *NativeFunction) header() *gcHeader { return &n.gcHeader }

func (n *NativeFunction) enumerateChildren() []Traceable {
	if t, ok := n.BoundReceiver.(Traceable); ok {
		return []Traceable{t}
	}
	return nil
}

func (n *NativeFunction) reclaim() {
	n.BoundReceiver = nil
	n.Implementation = nil
}
