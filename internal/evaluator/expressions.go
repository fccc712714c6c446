package evaluator

import (
	"strconv"

	"github.com/loxlang/golox/internal/ast"
	"github.com/loxlang/golox/internal/lexer"
	"github.com/loxlang/golox/internal/runtime"
	"github.com/loxlang/golox/internal/token"
)

// parseNumber converts a Number token's lexeme (always well-formed ASCII
// floating point, guaranteed by the scanner) to its float64 value.
func parseNumber(lexeme string) float64 {
	v, _ := strconv.ParseFloat(lexeme, 64)
	return v
}

// eval evaluates expr in the current environment, returning its value or
// the first runtime error encountered (spec.md §4.H's expression
// semantics).
func (e *Evaluator) eval(expr ast.Expr) (runtime.Value, *runtime.RuntimeError) {
	switch x := expr.(type) {
	case *ast.Literal:
		return e.evalLiteral(x), nil

	case *ast.Grouping:
		return e.eval(x.Inner)

	case *ast.Variable:
		return e.lookupVariable(x.Name, x.Depth)

	case *ast.Assign:
		value, rerr := e.eval(x.Value)
		if rerr != nil {
			return nil, rerr
		}
		if x.Depth >= 0 {
			e.env.AssignAt(x.Depth, x.Name.Lexeme, value)
		} else if rerr := e.rt.Global.Assign(x.Name, value); rerr != nil {
			return nil, rerr
		}
		return value, nil

	case *ast.Unary:
		return e.evalUnary(x)

	case *ast.Binary:
		return e.evalBinary(x)

	case *ast.Logical:
		return e.evalLogical(x)

	case *ast.Call:
		return e.evalCall(x)

	case *ast.Get:
		obj, rerr := e.eval(x.Object)
		if rerr != nil {
			return nil, rerr
		}
		return obj.Get(x.Name)

	case *ast.Set:
		obj, rerr := e.eval(x.Object)
		if rerr != nil {
			return nil, rerr
		}
		value, rerr := e.eval(x.Value)
		if rerr != nil {
			return nil, rerr
		}
		if rerr := obj.Set(x.Name, value); rerr != nil {
			return nil, rerr
		}
		return value, nil

	case *ast.This:
		return e.lookupVariable(x.Keyword, x.Depth)

	case *ast.Super:
		return e.evalSuper(x)
	}
	return runtime.TheNil, nil
}

func (e *Evaluator) evalLiteral(x *ast.Literal) runtime.Value {
	switch x.Token.Kind {
	case token.Number:
		return runtime.NewNumber(parseNumber(x.Token.Lexeme))
	case token.String:
		return runtime.NewString(lexer.TrimQuotes(x.Token.Lexeme))
	case token.True:
		return runtime.TheTrue
	case token.False:
		return runtime.TheFalse
	default:
		return runtime.TheNil
	}
}

// lookupVariable reads name at depth scopes up, or from globals when depth
// is -1 (spec.md §4.H).
func (e *Evaluator) lookupVariable(name token.Token, depth int) (runtime.Value, *runtime.RuntimeError) {
	if depth >= 0 {
		return e.env.GetAt(depth, name.Lexeme), nil
	}
	return e.rt.Global.Get(name)
}

func (e *Evaluator) evalUnary(x *ast.Unary) (runtime.Value, *runtime.RuntimeError) {
	right, rerr := e.eval(x.Right)
	if rerr != nil {
		return nil, rerr
	}
	switch x.Operator.Kind {
	case token.Minus:
		n, ok := right.(*runtime.Number)
		if !ok {
			return nil, runtime.NewRuntimeError(x.Operator, "Operand must be a number.")
		}
		return runtime.NewNumber(-n.Value), nil
	case token.Bang:
		return runtime.NewBool(!right.Truthy()), nil
	}
	return runtime.TheNil, nil
}

func (e *Evaluator) evalLogical(x *ast.Logical) (runtime.Value, *runtime.RuntimeError) {
	left, rerr := e.eval(x.Left)
	if rerr != nil {
		return nil, rerr
	}
	if x.Operator.Kind == token.Or {
		if left.Truthy() {
			return left, nil
		}
	} else { // And
		if !left.Truthy() {
			return left, nil
		}
	}
	return e.eval(x.Right)
}

func (e *Evaluator) evalBinary(x *ast.Binary) (runtime.Value, *runtime.RuntimeError) {
	left, rerr := e.eval(x.Left)
	if rerr != nil {
		return nil, rerr
	}
	right, rerr := e.eval(x.Right)
	if rerr != nil {
		return nil, rerr
	}

	switch x.Operator.Kind {
	case token.EqualEqual:
		return runtime.NewBool(e.valuesEqual(left, right)), nil
	case token.BangEqual:
		return runtime.NewBool(!e.valuesEqual(left, right)), nil
	case token.Plus:
		ln, lok := left.(*runtime.Number)
		rn, rok := right.(*runtime.Number)
		if lok && rok {
			return runtime.NewNumber(ln.Value + rn.Value), nil
		}
		ls, lok := left.(*runtime.String)
		rs, rok := right.(*runtime.String)
		if lok && rok {
			return runtime.NewString(ls.Value + rs.Value), nil
		}
		return nil, runtime.NewRuntimeError(x.Operator, "Operands must be two numbers or two strings.")
	case token.Minus, token.Star, token.Slash, token.Greater, token.GreaterEqual, token.Less, token.LessEqual:
		ln, lok := left.(*runtime.Number)
		rn, rok := right.(*runtime.Number)
		if !lok || !rok {
			return nil, runtime.NewRuntimeError(x.Operator, "Operands must be numbers.")
		}
		switch x.Operator.Kind {
		case token.Minus:
			return runtime.NewNumber(ln.Value - rn.Value), nil
		case token.Star:
			return runtime.NewNumber(ln.Value * rn.Value), nil
		case token.Slash:
			return runtime.NewNumber(ln.Value / rn.Value), nil
		case token.Greater:
			return runtime.NewBool(ln.Value > rn.Value), nil
		case token.GreaterEqual:
			return runtime.NewBool(ln.Value >= rn.Value), nil
		case token.Less:
			return runtime.NewBool(ln.Value < rn.Value), nil
		case token.LessEqual:
			return runtime.NewBool(ln.Value <= rn.Value), nil
		}
	}
	return runtime.TheNil, nil
}

// valuesEqual implements spec.md §4.E's equals contract: Number/String
// compare by content (handled by Value.Equals already); Instances route
// through a user-defined `equals` method when their class (or an ancestor)
// defines one, otherwise fall back to identity.
func (e *Evaluator) valuesEqual(left, right runtime.Value) bool {
	if instance, ok := left.(*runtime.Instance); ok {
		if method := instance.Class.FindMethod("equals"); method != nil {
			bound := method.Bind(instance)
			result, rerr := e.CallUserFunction(bound.Fn, bound.Closure, []runtime.Value{right})
			if rerr != nil {
				return false
			}
			return result.Truthy()
		}
	}
	return left.Equals(right)
}

func (e *Evaluator) evalCall(x *ast.Call) (runtime.Value, *runtime.RuntimeError) {
	callee, rerr := e.eval(x.Callee)
	if rerr != nil {
		return nil, rerr
	}

	args := make([]runtime.Value, len(x.Args))
	for i, a := range x.Args {
		v, rerr := e.eval(a)
		if rerr != nil {
			return nil, rerr
		}
		args[i] = v
	}

	if callee.Arity() != len(args) {
		return nil, runtime.NewRuntimeError(x.Paren, "Expected %d arguments but got %d.", callee.Arity(), len(args))
	}

	return callee.Call(e, x.Paren, args)
}

func (e *Evaluator) evalSuper(x *ast.Super) (runtime.Value, *runtime.RuntimeError) {
	superVal := e.env.GetAt(x.Depth, "super")
	superclass := superVal.(*runtime.Class)
	instance := e.env.GetAt(x.Depth-1, "this").(*runtime.Instance)

	method := superclass.FindMethod(x.Method.Lexeme)
	if method == nil {
		return nil, runtime.NewRuntimeError(x.Method, "Undefined property '%s'.", x.Method.Lexeme)
	}
	return method.Bind(instance), nil
}
