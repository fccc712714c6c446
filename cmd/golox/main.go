// Command golox is the CLI driver for the golox interpreter: scan, parse,
// resolve, evaluate (spec.md §6's driver loop), plus the SPEC_FULL.md §8
// supplements (inline eval, AST dump, execution trace, a watch mode, and an
// optional Prometheus metrics endpoint).
package main

import (
	"fmt"
	"os"

	"github.com/KimMachineGun/automemlimit/memlimit"

	"github.com/loxlang/golox/cmd/golox/cmd"
)

func main() {
	// Auto-tune GOMEMLIMIT from the container/cgroup before doing anything
	// else, so a long-running `golox watch` process with --metrics-addr
	// doesn't get OOM-killed under cgroup limits the Go runtime doesn't see
	// by default.
	if _, err := memlimit.SetGoMemLimitWithOpts(
		memlimit.WithRatio(0.9),
		memlimit.WithProvider(
			memlimit.ApplyFallback(memlimit.FromCgroup, memlimit.FromSystem),
		),
	); err != nil {
		fmt.Fprintf(os.Stderr, "golox: failed to set GOMEMLIMIT automatically: %v\n", err)
	}

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
