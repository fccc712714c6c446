// Package lox is golox's embeddable facade: construct an Engine, feed it
// source, get back stdout text and an exit code, without touching any
// internal/ package directly.
//
// Grounded on go-dws's internal/interp.New(output io.Writer) *Interpreter
// plus its cmd/dwscript/cmd.runScript driver loop (scan -> parse -> [check]
// -> eval), collapsed into a single entry point since golox has no
// semantic/unit-loading phase to sequence around.
package lox

import (
	"io"

	"github.com/loxlang/golox/internal/ast"
	"github.com/loxlang/golox/internal/diag"
	"github.com/loxlang/golox/internal/evaluator"
	"github.com/loxlang/golox/internal/lexer"
	"github.com/loxlang/golox/internal/parser"
	"github.com/loxlang/golox/internal/resolver"
	"github.com/loxlang/golox/internal/runtime"
)

// Exit codes, spec.md §6's driver-loop contract.
const (
	ExitOK          = 0
	ExitCannotOpen  = 1
	ExitCompileFail = 65
	ExitRuntimeFail = 70
)

// Engine owns one Runtime (heap + globals) across any number of Run calls,
// so a host embedding golox (e.g. `golox watch`) can re-run edited source
// against live state, or start fresh per call by constructing a new Engine.
type Engine struct {
	rt   *runtime.Runtime
	sink *diag.Collector

	// DumpAST, when set, makes Run write the parsed tree to Output before
	// evaluating (SPEC_FULL.md §8's --dump-ast flag).
	DumpAST bool
}

// New creates an Engine that writes print() output to stdout and records GC
// activity to recorder (nil disables metrics).
func New(stdout io.Writer, recorder MetricsRecorder) *Engine {
	sink := diag.NewCollector()
	rt := runtime.New(stdout, recorder)
	return &Engine{rt: rt, sink: sink}
}

// MetricsRecorder is runtime.MetricsRecorder re-exported so callers of this
// package never need to import internal/runtime directly.
type MetricsRecorder = runtime.MetricsRecorder

// Result reports what happened during one Run.
type Result struct {
	ExitCode    int
	Diagnostics []diag.Diagnostic
}

// Run scans, parses, resolves, and evaluates source, following spec.md §6's
// driver-loop contract for exit codes.
func (e *Engine) Run(source string) Result {
	e.sink = diag.NewCollector()

	l := lexer.New(source, e.sink)
	tokens := l.ScanTokens()

	p := parser.New(tokens, e.sink)
	stmts := p.Parse()

	if e.sink.HasErrors() {
		return Result{ExitCode: ExitCompileFail, Diagnostics: e.sink.Diagnostics}
	}

	res := resolver.New(e.sink)
	res.Resolve(stmts)

	if e.sink.HasErrors() {
		return Result{ExitCode: ExitCompileFail, Diagnostics: e.sink.Diagnostics}
	}

	if e.DumpAST {
		io.WriteString(e.rt.Output, ast.Print(stmts))
		io.WriteString(e.rt.Output, "\n")
	}

	ev := evaluator.New(e.rt, e.sink)
	hadRuntimeError := ev.Interpret(stmts)

	if hadRuntimeError {
		return Result{ExitCode: ExitRuntimeFail, Diagnostics: e.sink.Diagnostics}
	}
	return Result{ExitCode: ExitOK, Diagnostics: e.sink.Diagnostics}
}

// LiveHeapObjects returns the current count of traceable objects still
// registered in the engine's heap, useful for host-side leak checks between
// Run calls (spec.md §8 scenario f).
func (e *Engine) LiveHeapObjects() int {
	return e.rt.Heap.LiveCount()
}

// Collect forces one mark-and-sweep pass and returns the number of objects
// reclaimed.
func (e *Engine) Collect() int {
	return e.rt.Heap.Collect(e.rt.Roots())
}
