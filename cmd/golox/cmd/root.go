// Package cmd wires golox's cobra command tree: root, run, watch, version.
// Grounded on go-dws's cmd/dwscript/cmd package shape (one file per
// subcommand, package-level flag vars, init() registering each command on
// rootCmd).
package cmd

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/loxlang/golox/internal/config"
)

var (
	// Version is set by build flags; defaults to a development marker.
	Version = "0.1.0-dev"
)

// configPath is the optional `.golox.yaml`-style config file read by
// loadConfig, bound to every subcommand via rootCmd's persistent flag.
var configPath string

// cfg holds the defaults loadConfig resolved from flags/env/file, read by
// run.go and watch.go before applying their own explicit flags on top.
var cfg = &config.Config{WatchDebounceMS: 200}

var rootCmd = &cobra.Command{
	Use:   "golox",
	Short: "A tree-walking interpreter for the Lox language",
	Long: `golox is a tree-walking interpreter for a dynamically-typed,
class-based scripting language: lexical scanning, recursive-descent
parsing, a static lexical-scope resolver, and an evaluator running
against a garbage-collected object heap with single inheritance and
closures.`,
	Version:           Version,
	PersistentPreRunE: loadConfig,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("golox version %s\n", Version))
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "optional .golox.yaml config file (trace/dump-ast/metrics-addr/watch-debounce defaults)")
}

// loadConfig resolves cfg from configPath (if set) plus the GOLOX_*
// environment namespace before any subcommand runs, so run.go/watch.go can
// fall back to it for flags the user didn't pass explicitly on the command
// line (grounded on kube-state-metrics's wrapper.go: flags win, then env,
// then file, then built-in default).
func loadConfig(_ *cobra.Command, _ []string) error {
	loaded, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg = loaded
	return nil
}

// colorEnabled reports whether diagnostics should carry ANSI color,
// following go-isatty's TTY-detected convention rather than an env var: a
// pipe or file destination gets plain text.
func colorEnabled() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}
