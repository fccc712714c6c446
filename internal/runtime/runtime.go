package runtime

import (
	"io"
	"time"

	"github.com/loxlang/golox/internal/ast"
	"github.com/loxlang/golox/internal/token"
)

// Runtime is spec.md §4.F's Runtime facade: owns the Heap and the
// well-known built-in classes, and is the factory for values and
// environments. Grounded on go-dws's internal/interp.Interpreter, which
// plays the same "owns globals + registries" role, split here into a
// Runtime (owns heap + builtins, spec.md component F) distinct from the
// Evaluator (owns current environment + control flow, component H) —
// spec.md explicitly separates the two.
type Runtime struct {
	Heap   *Heap
	Global *Environment
	Output io.Writer

	pinnedClasses []Traceable
}

// New creates a Runtime with a fresh heap and global environment, installs
// the built-in globals of spec.md §6 (clock, print, Object, Nil, Bool,
// Number, String, List, Function), and pins the global environment and
// every built-in class as GC roots.
func New(output io.Writer, metrics MetricsRecorder) *Runtime {
	heap := NewHeap(metrics)
	global := Allocate(heap, NewEnvironment())

	rt := &Runtime{Heap: heap, Global: global, Output: output}
	rt.installBuiltins()
	return rt
}

func (rt *Runtime) installBuiltins() {
	rt.Global.Define("clock", &NativeFunction{
		Name:       "clock",
		ArityValue: 0,
		Implementation: func(_ Interp, _ Value, _ []Value) (Value, *RuntimeError) {
			return NewNumber(float64(time.Now().UnixNano()) / 1e9), nil
		},
	})

	rt.Global.Define("print", &NativeFunction{
		Name:       "print",
		ArityValue: 1,
		Implementation: func(_ Interp, _ Value, args []Value) (Value, *RuntimeError) {
			io.WriteString(rt.Output, args[0].String())
			io.WriteString(rt.Output, "\n")
			return TheNil, nil
		},
	})

	for _, name := range []string{"Object", "Nil", "Bool", "Number", "String", "Function"} {
		class := Allocate(rt.Heap, &namedClass{Name: name})
		rt.Global.Define(name, class)
		rt.pinnedClasses = append(rt.pinnedClasses, class)
	}

	list := Allocate(rt.Heap, &listClass{heap: rt.Heap})
	rt.Global.Define("List", list)
	rt.pinnedClasses = append(rt.pinnedClasses, list)
}

// Roots returns the GC roots spec.md §4.C pins unconditionally: the root
// environment and every pinned built-in class. Canonical Nil/true/false are
// not heap-allocated (see Traceable's doc comment) so they need no root
// entry. The Evaluator contributes its own transient roots (current
// environment, result stack) by passing them alongside these when it calls
// Heap.Collect.
func (rt *Runtime) Roots() []Traceable {
	roots := make([]Traceable, 0, len(rt.pinnedClasses)+1)
	roots = append(roots, rt.Global)
	roots = append(roots, rt.pinnedClasses...)
	return roots
}

// NewInstance allocates a bare instance of class with no fields set,
// bypassing init. Class.Call is the normal construction path; this exists
// for completeness as the factory method spec.md §4.F describes.
func (rt *Runtime) NewInstance(class *Class) *Instance {
	return Allocate(rt.Heap, &Instance{Class: class, Fields: make(map[string]Value)})
}

// NewEnclosedEnvironment allocates and registers a child environment.
func (rt *Runtime) NewEnclosedEnvironment(enclosing *Environment) *Environment {
	return Allocate(rt.Heap, NewEnclosedEnvironment(enclosing))
}

// NewClass allocates and registers a class, wiring it to rt's heap so its
// Call method can allocate the instances it constructs.
func (rt *Runtime) NewClass(name string, superclass *Class, methods map[string]*UserFunction) *Class {
	class := NewClass(name, superclass, methods)
	class.heap = rt.Heap
	return Allocate(rt.Heap, class)
}

// NewUserFunction allocates and registers a user function closing over
// closure.
func (rt *Runtime) NewUserFunction(name string, params []token.Token, body []ast.Stmt, closure *Environment, isInitializer bool) *UserFunction {
	return Allocate(rt.Heap, NewUserFunction(name, params, body, closure, isInitializer))
}
