package lox_test

import (
	"bytes"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/stretchr/testify/require"

	"github.com/loxlang/golox/pkg/lox"
)

// TestScenarios runs spec.md §8's scenarios (a)-(e) end to end through
// Engine.Run, snapshotting stdout with go-snaps the way go-dws's
// fixture_test.go snapshots one whole-program transcript per feature
// category — here one snapshot per scenario instead of one DWScript
// test-suite directory per language feature. Scenario (f) is
// TestGCConvergence below.
func TestScenarios(t *testing.T) {
	scenarios := []struct {
		name string
		src  string
	}{
		{
			name: "closure_counter",
			src: `
fun makeCounter() {
  var count = 0;
  fun increment() {
    count = count + 1;
    return count;
  }
  return increment;
}
var counter = makeCounter();
print(counter());
print(counter());
print(counter());
`,
		},
		{
			name: "inheritance_super",
			src: `
class Animal {
  speak() {
    return "...";
  }
}
class Dog < Animal {
  speak() {
    return "Woof, and also " + super.speak();
  }
}
print(Dog().speak());
`,
		},
		{
			name: "initializer_returns_receiver",
			src: `
class Box {
  init(value) {
    this.value = value;
  }
  setValue(v) {
    this.value = v;
    return this;
  }
}
var b = Box(1);
var same = b.init(2);
print(same == b);
print(b.value);
`,
		},
		{
			name: "arity_error",
			src: `
fun add(a, b) {
  return a + b;
}
add(1);
`,
		},
		{
			name: "list_cycle_tostring",
			src: `
var a = List();
var b = List();
a.append(1);
a.append(b);
b.append(a);
print(a.toString());
`,
		},
	}

	for _, sc := range scenarios {
		sc := sc
		t.Run(sc.name, func(t *testing.T) {
			var out bytes.Buffer
			engine := lox.New(&out, nil)
			result := engine.Run(sc.src)

			transcript := out.String()
			for _, d := range result.Diagnostics {
				transcript += "[diagnostic] " + d.Message + "\n"
			}
			snaps.MatchSnapshot(t, transcript)
		})
	}
}

// TestGCConvergence is spec.md §8 scenario (f): once a closure and the
// environment it captured are no longer reachable from any root, a
// collection reclaims them, and live-object count converges back to the
// pre-closure baseline rather than growing without bound.
func TestGCConvergence(t *testing.T) {
	var out bytes.Buffer
	engine := lox.New(&out, nil)
	baseline := engine.LiveHeapObjects()

	result := engine.Run(`
fun makeCounter() {
  var count = 0;
  fun increment() {
    count = count + 1;
    return count;
  }
  return increment;
}
var counter = makeCounter();
print(counter());
`)
	require.Equal(t, lox.ExitOK, result.ExitCode)

	result = engine.Run(`var discardable = counter;`)
	require.Equal(t, lox.ExitOK, result.ExitCode)

	result = engine.Run(`var discardable = nil; counter = nil;`)
	require.Equal(t, lox.ExitOK, result.ExitCode)
	engine.Collect()

	require.LessOrEqual(t, engine.LiveHeapObjects(), baseline+1,
		"heap should converge back near its pre-closure baseline once nothing references the counter's environment")
}

// TestArityMismatchExitCode is spec.md §8 scenario (d): calling a function
// with the wrong number of arguments is a runtime error (exit 70), not a
// panic or a silently ignored mismatch.
func TestArityMismatchExitCode(t *testing.T) {
	var out bytes.Buffer
	engine := lox.New(&out, nil)
	result := engine.Run(`
fun add(a, b) { return a + b; }
add(1);
`)
	require.Equal(t, lox.ExitRuntimeFail, result.ExitCode)
	require.NotEmpty(t, result.Diagnostics)
	require.Contains(t, result.Diagnostics[0].Message, "Expected 2 arguments but got 1.")
}

// TestSyntaxErrorExitCode covers the compile-fail branch of spec.md §6's
// exit code contract.
func TestSyntaxErrorExitCode(t *testing.T) {
	var out bytes.Buffer
	engine := lox.New(&out, nil)
	result := engine.Run(`var x = ;`)
	require.Equal(t, lox.ExitCompileFail, result.ExitCode)
}
