package cmd

import (
	"fmt"

	"github.com/loxlang/golox/internal/diag"
)

// formatDiagnostic renders one diagnostic in go-dws's
// "[channel] line N, near 'tok': message" style, coloring the message when
// stdout is a terminal (see colorEnabled in root.go).
func formatDiagnostic(d diag.Diagnostic) string {
	loc := fmt.Sprintf("line %d", d.Line)
	if d.Where != "" {
		loc = fmt.Sprintf("%s, near '%s'", loc, d.Where)
	}
	msg := d.Message
	if colorEnabled() {
		msg = "\033[1;31m" + msg + "\033[0m"
	}
	return fmt.Sprintf("[%s] %s: %s\n", d.Channel, loc, msg)
}
