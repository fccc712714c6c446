package evaluator_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/loxlang/golox/pkg/lox"
)

// TestWhileBreakStopsImmediately and TestWhileContinueSkipsRest exercise the
// discriminated execResult control-flow path (internal/evaluator's
// redesign away from go-dws's mutable break/continue flags) through the
// public engine, since Evaluator itself is only reachable via pkg/lox.
func TestWhileBreakStopsImmediately(t *testing.T) {
	var out bytes.Buffer
	engine := lox.New(&out, nil)
	result := engine.Run(`
var i = 0;
while (true) {
  i = i + 1;
  if (i == 3) break;
}
print(i);
`)
	require.Equal(t, lox.ExitOK, result.ExitCode)
	require.Equal(t, "3\n", out.String())
}

func TestWhileContinueSkipsRest(t *testing.T) {
	var out bytes.Buffer
	engine := lox.New(&out, nil)
	result := engine.Run(`
var i = 0;
var sum = 0;
while (i < 5) {
  i = i + 1;
  if (i == 3) continue;
  sum = sum + i;
}
print(sum);
`)
	require.Equal(t, lox.ExitOK, result.ExitCode)
	require.Equal(t, "12\n", out.String())
}

// TestReturnInsideLoopExitsFunction covers the execReturn branch of execFor:
// a return inside a loop body must propagate past the loop, not just break
// out of it. `/` is floating-point division, so `i / 2 * 2 == i` already
// holds on the first iteration (i = 1); a return that only left the loop
// would print -1 instead.
func TestReturnInsideLoopExitsFunction(t *testing.T) {
	var out bytes.Buffer
	engine := lox.New(&out, nil)
	result := engine.Run(`
fun firstMatch(limit) {
  var i = 0;
  while (i < limit) {
    i = i + 1;
    if (i / 2 * 2 == i) return i;
  }
  return -1;
}
print(firstMatch(10));
`)
	require.Equal(t, lox.ExitOK, result.ExitCode)
	require.Equal(t, "1\n", out.String())
}
