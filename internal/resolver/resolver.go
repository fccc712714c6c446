// Package resolver implements spec.md §4.G: a static pass over the parsed
// tree that computes, for every variable reference, how many enclosing
// scopes to walk before reaching its binding (Depth, -1 meaning "look up
// among the globals at call time"). The evaluator then uses Depth to read
// and write through Environment.GetAt/AssignAt instead of walking the chain
// itself.
//
// Grounded on mna-nenuphar/lang/resolver's push/pop scope-stack shape and
// error-reporting style, adapted from its local-index binding model to the
// classic jlox depth-counting model spec.md §4.G specifies (resolver counts
// scopes on every use rather than assigning a slot index at declaration
// time).
package resolver

import (
	"github.com/loxlang/golox/internal/ast"
	"github.com/loxlang/golox/internal/diag"
	"github.com/loxlang/golox/internal/token"
)

type functionKind int

const (
	functionNone functionKind = iota
	functionFunction
	functionMethod
	functionInitializer
)

type classKind int

const (
	classNone classKind = iota
	classClass
	classSubclass
)

// Resolver walks a parsed program, resolving every Assign/Variable/This/Super
// node's Depth in place and reporting scope-level errors to sink.
type Resolver struct {
	sink   diag.Sink
	scopes []map[string]bool

	currentFunction functionKind
	currentClass    classKind

	loopDepth int
}

// New creates a Resolver that reports to sink.
func New(sink diag.Sink) *Resolver {
	return &Resolver{sink: sink}
}

// Resolve walks every top-level statement, writing Depth fields in place.
func (r *Resolver) Resolve(stmts []ast.Stmt) {
	r.resolveStmts(stmts)
}

// -- scope stack ---------------------------------------------------------

func (r *Resolver) beginScope() {
	r.scopes = append(r.scopes, make(map[string]bool))
}

func (r *Resolver) endScope() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

func (r *Resolver) peek() map[string]bool {
	if len(r.scopes) == 0 {
		return nil
	}
	return r.scopes[len(r.scopes)-1]
}

// declare introduces name in the innermost scope as "not yet ready", so its
// own initializer cannot refer to it (spec.md §4.G's
// read-in-own-initializer rule). It is a no-op at global scope: globals are
// late-bound, so spec.md has no "declared but not defined" state for them.
func (r *Resolver) declare(name token.Token) {
	scope := r.peek()
	if scope == nil {
		return
	}
	if _, ok := scope[name.Lexeme]; ok {
		r.sink.Resolve(name, "Already a variable with this name in this scope.")
	}
	scope[name.Lexeme] = false
}

// define marks name ready for use in the innermost scope.
func (r *Resolver) define(name token.Token) {
	scope := r.peek()
	if scope == nil {
		return
	}
	scope[name.Lexeme] = true
}

// resolveLocal searches the scope stack from innermost outward and returns
// the number of scopes walked before reaching a scope that declares name,
// writing that count via set. -1 (set's default) means the scope stack
// never names it, so it resolves as a global at evaluation time.
func (r *Resolver) resolveLocal(name token.Token, set func(depth int)) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name.Lexeme]; ok {
			set(len(r.scopes) - 1 - i)
			return
		}
	}
	set(-1)
}

// -- statements ------------------------------------------------------------

func (r *Resolver) resolveStmts(stmts []ast.Stmt) {
	for _, s := range stmts {
		r.resolveStmt(s)
	}
}

func (r *Resolver) resolveStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.Block:
		r.beginScope()
		r.resolveStmts(s.Stmts)
		r.endScope()

	case *ast.ExpressionStmt:
		r.resolveExpr(s.Expr)

	case *ast.If:
		r.resolveExpr(s.Cond)
		r.resolveStmt(s.Then)
		if s.Else != nil {
			r.resolveStmt(s.Else)
		}

	case *ast.For:
		r.beginScope()
		if s.Init != nil {
			r.resolveStmt(s.Init)
		}
		if s.Cond != nil {
			r.resolveExpr(s.Cond)
		}
		if s.Incr != nil {
			r.resolveExpr(s.Incr)
		}
		r.loopDepth++
		r.resolveStmt(s.Body)
		r.loopDepth--
		r.endScope()

	case *ast.Return:
		if r.currentFunction == functionNone {
			r.sink.Resolve(s.Keyword, "Can't return from top-level code.")
		}
		if s.Value != nil {
			if r.currentFunction == functionInitializer {
				r.sink.Resolve(s.Keyword, "Can't return a value from an initializer.")
			}
			r.resolveExpr(s.Value)
		}

	case *ast.Var:
		r.declare(s.Name)
		if s.Init != nil {
			r.resolveExpr(s.Init)
		}
		r.define(s.Name)

	case *ast.Fun:
		r.declare(s.Name)
		r.define(s.Name)
		r.resolveFunction(s, functionFunction)

	case *ast.Class:
		r.resolveClass(s)

	case *ast.Break:
		if r.loopDepth == 0 {
			r.sink.Resolve(s.Keyword, "Can't use 'break' outside of a loop.")
		}

	case *ast.Continue:
		if r.loopDepth == 0 {
			r.sink.Resolve(s.Keyword, "Can't use 'continue' outside of a loop.")
		}
	}
}

func (r *Resolver) resolveFunction(fn *ast.Fun, kind functionKind) {
	enclosingFunction := r.currentFunction
	r.currentFunction = kind
	enclosingLoopDepth := r.loopDepth
	r.loopDepth = 0

	r.beginScope()
	for _, param := range fn.Params {
		r.declare(param)
		r.define(param)
	}
	r.resolveStmts(fn.Body)
	r.endScope()

	r.loopDepth = enclosingLoopDepth
	r.currentFunction = enclosingFunction
}

func (r *Resolver) resolveClass(cls *ast.Class) {
	enclosingClass := r.currentClass
	r.currentClass = classClass

	r.declare(cls.Name)
	r.define(cls.Name)

	if cls.Superclass != nil {
		if cls.Superclass.Name.Lexeme == cls.Name.Lexeme {
			r.sink.Resolve(cls.Superclass.Name, "A class can't inherit from itself.")
		}
		r.currentClass = classSubclass
		r.resolveExpr(cls.Superclass)

		r.beginScope()
		r.peek()["super"] = true
	}

	r.beginScope()
	r.peek()["this"] = true

	for _, method := range cls.Methods {
		kind := functionMethod
		if method.Name.Lexeme == "init" {
			kind = functionInitializer
		}
		r.resolveFunction(method, kind)
	}

	r.endScope() // this

	if cls.Superclass != nil {
		r.endScope() // super
	}

	r.currentClass = enclosingClass
}

// -- expressions -------------------------------------------------------

func (r *Resolver) resolveExpr(expr ast.Expr) {
	switch e := expr.(type) {
	case *ast.Assign:
		r.resolveExpr(e.Value)
		r.resolveLocal(e.Name, func(d int) { e.Depth = d })

	case *ast.Binary:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)

	case *ast.Call:
		r.resolveExpr(e.Callee)
		for _, a := range e.Args {
			r.resolveExpr(a)
		}

	case *ast.Get:
		r.resolveExpr(e.Object)

	case *ast.Grouping:
		r.resolveExpr(e.Inner)

	case *ast.Literal:
		// nothing to resolve

	case *ast.Logical:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)

	case *ast.Set:
		r.resolveExpr(e.Value)
		r.resolveExpr(e.Object)

	case *ast.Super:
		if r.currentClass == classNone {
			r.sink.Resolve(e.Keyword, "Can't use 'super' outside of a class.")
		} else if r.currentClass != classSubclass {
			r.sink.Resolve(e.Keyword, "Can't use 'super' in a class with no superclass.")
		}
		r.resolveLocal(e.Keyword, func(d int) { e.Depth = d })

	case *ast.This:
		if r.currentClass == classNone {
			r.sink.Resolve(e.Keyword, "Can't use 'this' outside of a class.")
		}
		r.resolveLocal(e.Keyword, func(d int) { e.Depth = d })

	case *ast.Unary:
		r.resolveExpr(e.Right)

	case *ast.Variable:
		if scope := r.peek(); scope != nil {
			if ready, ok := scope[e.Name.Lexeme]; ok && !ready {
				r.sink.Resolve(e.Name, "Can't read local variable in its own initializer.")
			}
		}
		r.resolveLocal(e.Name, func(d int) { e.Depth = d })
	}
}
