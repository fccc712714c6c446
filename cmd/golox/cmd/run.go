package cmd

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/loxlang/golox/internal/metrics"
	"github.com/loxlang/golox/pkg/lox"
)

var (
	evalExpr    string
	dumpAST     bool
	traceExec   bool
	metricsAddr string
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a golox script",
	Long: `Execute a golox program from a file or inline expression.

Examples:
  # Run a script file
  golox run script.lox

  # Evaluate an inline expression
  golox run -e 'print("Hello, World!");'

  # Dump the parsed AST before running
  golox run --dump-ast script.lox`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "evaluate inline source instead of reading a file")
	runCmd.Flags().BoolVar(&dumpAST, "dump-ast", false, "dump the parsed AST before running")
	runCmd.Flags().BoolVar(&traceExec, "trace", false, "announce execution start/stop on stderr")
	runCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus heap metrics on this address (e.g. :9090) for the duration of the run")
}

func runScript(c *cobra.Command, args []string) error {
	// Flags win; anything the user didn't pass explicitly falls back to
	// the config file/env defaults loaded into cfg by root.go's
	// PersistentPreRunE.
	if !c.Flags().Changed("trace") {
		traceExec = cfg.Trace
	}
	if !c.Flags().Changed("dump-ast") {
		dumpAST = cfg.DumpAST
	}
	if !c.Flags().Changed("metrics-addr") && cfg.MetricsAddr != "" {
		metricsAddr = cfg.MetricsAddr
	}

	var source, name string
	switch {
	case evalExpr != "":
		source, name = evalExpr, "<eval>"
	case len(args) == 1:
		name = args[0]
		content, err := os.ReadFile(name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "golox: cannot open %s: %v\n", name, err)
			os.Exit(lox.ExitCannotOpen)
		}
		source = string(content)
	default:
		return fmt.Errorf("either provide a file path or use -e for inline source")
	}

	var recorder lox.MetricsRecorder
	if metricsAddr != "" {
		rec := metrics.NewRecorder()
		recorder = rec
		srv := &http.Server{Addr: metricsAddr, Handler: rec.Handler()}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				fmt.Fprintf(os.Stderr, "golox: metrics server: %v\n", err)
			}
		}()
		defer srv.Close()
	}

	// --trace runs long enough per statement to want leveled, structured
	// logs rather than go-dws's plain stderr prints; a no-op logr.Logger
	// when tracing is off costs nothing on the hot path.
	log := logr.Discard()
	if traceExec {
		log = logr.FromSlogHandler(slog.NewTextHandler(os.Stderr, nil))
	}
	log.Info("running", "source", name)

	engine := lox.New(os.Stdout, recorder)
	engine.DumpAST = dumpAST

	result := engine.Run(source)
	log.Info("finished", "source", name, "exitCode", result.ExitCode)

	for _, d := range result.Diagnostics {
		fmt.Fprint(os.Stderr, formatDiagnostic(d))
	}

	os.Exit(result.ExitCode)
	return nil
}
