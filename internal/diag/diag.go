// Package diag implements spec.md §6's diagnostic sink: four channels
// (scan, parse, resolve, runtime), each categorized and carrying the source
// line plus, where there is one, the offending token's lexeme.
//
// Grounded on go-dws's internal/errors.CompilerError, which formats a
// message with a source snippet and a "^" caret under the offending column;
// golox keeps that shape but generalizes "column" away since spec.md's Token
// only carries a line, not a column (spec.md §3).
package diag

import (
	"fmt"
	"strings"

	"github.com/loxlang/golox/internal/token"
)

// Channel identifies which of spec.md §6's four diagnostic categories a
// Diagnostic belongs to.
type Channel int

const (
	Scan Channel = iota
	Parse
	Resolve
	Runtime
)

func (c Channel) String() string {
	switch c {
	case Scan:
		return "scan"
	case Parse:
		return "parse"
	case Resolve:
		return "resolve"
	case Runtime:
		return "runtime"
	default:
		return "diag"
	}
}

// Diagnostic is one reported message, with enough context to print a
// source-pointing message the way go-dws's CompilerError does.
type Diagnostic struct {
	Channel Channel
	Line    int
	Where   string // token lexeme or empty for line-only diagnostics
	Message string
}

// Sink receives diagnostics as they are produced. It mirrors spec.md §6's
// four-channel contract exactly: two syntax channels (by line, by token),
// plus resolve and runtime, both keyed by token.
type Sink interface {
	SyntaxAtLine(line int, msg string)
	SyntaxAtToken(tok token.Token, msg string)
	Resolve(tok token.Token, msg string)
	Runtime(tok token.Token, msg string)
}

// Collector is the default Sink: it accumulates every diagnostic and can
// format the whole batch, grounded on go-dws's errors.FormatErrors.
type Collector struct {
	Diagnostics []Diagnostic
}

// NewCollector returns an empty Collector.
func NewCollector() *Collector {
	return &Collector{}
}

func (c *Collector) SyntaxAtLine(line int, msg string) {
	c.Diagnostics = append(c.Diagnostics, Diagnostic{Channel: Scan, Line: line, Message: msg})
}

func (c *Collector) SyntaxAtToken(tok token.Token, msg string) {
	where := tok.Lexeme
	if tok.Kind == token.EOF {
		where = "end"
	}
	c.Diagnostics = append(c.Diagnostics, Diagnostic{Channel: Parse, Line: tok.Line, Where: where, Message: msg})
}

func (c *Collector) Resolve(tok token.Token, msg string) {
	c.Diagnostics = append(c.Diagnostics, Diagnostic{Channel: Resolve, Line: tok.Line, Where: tok.Lexeme, Message: msg})
}

func (c *Collector) Runtime(tok token.Token, msg string) {
	c.Diagnostics = append(c.Diagnostics, Diagnostic{Channel: Runtime, Line: tok.Line, Where: tok.Lexeme, Message: msg})
}

// HasErrors reports whether any non-runtime diagnostic was recorded: per
// spec.md §7, a syntax or resolve diagnostic aborts evaluation of the unit.
func (c *Collector) HasErrors() bool {
	for _, d := range c.Diagnostics {
		if d.Channel != Runtime {
			return true
		}
	}
	return false
}

// HasRuntimeError reports whether a runtime diagnostic was recorded.
func (c *Collector) HasRuntimeError() bool {
	for _, d := range c.Diagnostics {
		if d.Channel == Runtime {
			return true
		}
	}
	return false
}

// Format renders every diagnostic, one per line, in the
// "[channel] line N[, near 'tok']: message" style. When color is
// true the message is wrapped in ANSI bold red (the caller decides color via
// isatty detection, see cmd/golox).
func (c *Collector) Format(color bool) string {
	var sb strings.Builder
	for _, d := range c.Diagnostics {
		loc := fmt.Sprintf("line %d", d.Line)
		if d.Where != "" {
			loc = fmt.Sprintf("%s, near '%s'", loc, d.Where)
		}
		msg := d.Message
		if color {
			msg = "\033[1;31m" + msg + "\033[0m"
		}
		fmt.Fprintf(&sb, "[%s] %s: %s\n", d.Channel, loc, msg)
	}
	return sb.String()
}
