package resolver_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/loxlang/golox/internal/ast"
	"github.com/loxlang/golox/internal/diag"
	"github.com/loxlang/golox/internal/lexer"
	"github.com/loxlang/golox/internal/parser"
	"github.com/loxlang/golox/internal/resolver"
)

func parseAndResolve(t *testing.T, src string) ([]ast.Stmt, *diag.Collector) {
	t.Helper()
	sink := diag.NewCollector()
	tokens := lexer.New(src, sink).ScanTokens()
	stmts := parser.New(tokens, sink).Parse()
	require.False(t, sink.HasErrors(), "unexpected parse errors: %v", sink.Diagnostics)
	resolver.New(sink).Resolve(stmts)
	return stmts, sink
}

// TestLocalVariableDepth mirrors jlox's resolver scenario: a variable read
// inside nested blocks resolves to the scope-distance count, not a slot
// index, matching spec.md §4.G's GetAt/AssignAt contract.
func TestLocalVariableDepth(t *testing.T) {
	stmts, sink := parseAndResolve(t, `
{
  var a = 1;
  {
    var b = 2;
    print(a + b);
  }
}
`)
	require.False(t, sink.HasErrors())

	outerBlock := stmts[0].(*ast.Block)
	innerBlock := outerBlock.Stmts[1].(*ast.Block)
	printStmt := innerBlock.Stmts[1].(*ast.ExpressionStmt)
	call := printStmt.Expr.(*ast.Call)
	binary := call.Args[0].(*ast.Binary)

	a := binary.Left.(*ast.Variable)
	b := binary.Right.(*ast.Variable)

	require.Equal(t, 1, a.Depth, "a is declared one scope out from the print expression")
	require.Equal(t, 0, b.Depth, "b is declared in the same scope as the print expression")
}

// TestGlobalVariableDepthIsNegativeOne covers the late-bound global path:
// a top-level variable resolves to depth -1 so the evaluator falls back to
// Runtime.Global.Get rather than Environment.GetAt.
func TestGlobalVariableDepthIsNegativeOne(t *testing.T) {
	stmts, sink := parseAndResolve(t, `
var g = 1;
print(g);
`)
	require.False(t, sink.HasErrors())

	printStmt := stmts[1].(*ast.ExpressionStmt)
	call := printStmt.Expr.(*ast.Call)
	v := call.Args[0].(*ast.Variable)
	require.Equal(t, -1, v.Depth)
}

// TestOwnInitializerReadIsRejected covers spec.md §4.G's
// "Can't read local variable in its own initializer." rule.
func TestOwnInitializerReadIsRejected(t *testing.T) {
	sink := diag.NewCollector()
	tokens := lexer.New(`
{
  var a = a;
}
`, sink).ScanTokens()
	stmts := parser.New(tokens, sink).Parse()
	require.False(t, sink.HasErrors())

	resolver.New(sink).Resolve(stmts)
	require.True(t, sink.HasErrors())
	require.Contains(t, sink.Diagnostics[0].Message, "Can't read local variable in its own initializer")
}

// TestBreakOutsideLoopIsRejected covers spec.md §4.G's
// "Can't use 'break' outside of a loop." rule.
func TestBreakOutsideLoopIsRejected(t *testing.T) {
	sink := diag.NewCollector()
	tokens := lexer.New(`break;`, sink).ScanTokens()
	stmts := parser.New(tokens, sink).Parse()
	require.False(t, sink.HasErrors())

	resolver.New(sink).Resolve(stmts)
	require.True(t, sink.HasErrors())
}

// TestThisOutsideClassIsRejected covers spec.md §4.G's
// "Can't use 'this' outside of a class." rule.
func TestThisOutsideClassIsRejected(t *testing.T) {
	sink := diag.NewCollector()
	tokens := lexer.New(`print(this);`, sink).ScanTokens()
	stmts := parser.New(tokens, sink).Parse()
	require.False(t, sink.HasErrors())

	resolver.New(sink).Resolve(stmts)
	require.True(t, sink.HasErrors())
}
