package runtime_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"

	"github.com/loxlang/golox/internal/runtime"
	"github.com/loxlang/golox/internal/token"
)

// numberCmp lets cmp.Diff compare *runtime.Number values despite their
// unexported embedded base field, which cmp otherwise refuses to walk.
var numberCmp = cmpopts.IgnoreUnexported(runtime.Number{})

// TestEnclosedEnvironmentChain covers spec.md §4.D's GetAt/AssignAt
// depth-addressed fast path: three nested environments, read at every
// depth and write at the farthest one.
func TestEnclosedEnvironmentChain(t *testing.T) {
	root := runtime.NewEnvironment()
	root.Define("a", runtime.NewNumber(1))

	middle := runtime.NewEnclosedEnvironment(root)
	middle.Define("b", runtime.NewNumber(2))

	leaf := runtime.NewEnclosedEnvironment(middle)
	leaf.Define("c", runtime.NewNumber(3))

	if diff := cmp.Diff(runtime.NewNumber(3), leaf.GetAt(0, "c"), numberCmp); diff != "" {
		t.Errorf("GetAt(0, c) mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(runtime.NewNumber(2), leaf.GetAt(1, "b"), numberCmp); diff != "" {
		t.Errorf("GetAt(1, b) mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(runtime.NewNumber(1), leaf.GetAt(2, "a"), numberCmp); diff != "" {
		t.Errorf("GetAt(2, a) mismatch (-want +got):\n%s", diff)
	}

	leaf.AssignAt(2, "a", runtime.NewNumber(99))
	if diff := cmp.Diff(runtime.NewNumber(99), root.GetAt(0, "a"), numberCmp); diff != "" {
		t.Errorf("AssignAt(2, a, 99) mismatch (-want +got):\n%s", diff)
	}
}

// TestUndefinedGlobalErrors covers the late-bound Get/Assign path (depth
// -1): an undefined name anywhere in the chain is a runtime error, not a
// panic, since scripts reference globals before they're necessarily
// declared in source order.
func TestUndefinedGlobalErrors(t *testing.T) {
	root := runtime.NewEnvironment()
	leaf := runtime.NewEnclosedEnvironment(root)

	tok := token.Token{Kind: token.Identifier, Lexeme: "missing", Line: 1}
	_, rerr := leaf.Get(tok)
	require.NotNil(t, rerr)
	require.Contains(t, rerr.Message, "Undefined variable 'missing'.")

	rerr = leaf.Assign(tok, runtime.NewNumber(1))
	require.NotNil(t, rerr)
}
