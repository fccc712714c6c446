package cmd

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-logr/logr"
	"github.com/oklog/run"
	"github.com/spf13/cobra"

	"github.com/loxlang/golox/internal/config"
	"github.com/loxlang/golox/internal/metrics"
	"github.com/loxlang/golox/internal/watch"
	"github.com/loxlang/golox/pkg/lox"
)

var watchMetricsAddr string

var watchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Re-run a script every time it changes on disk",
	Args:  cobra.ExactArgs(1),
	RunE:  watchScript,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringVar(&watchMetricsAddr, "metrics-addr", "", "serve Prometheus heap metrics on this address for the lifetime of the watch")
}

// watchScript coordinates two goroutines — the file watcher and (optionally)
// the metrics HTTP server — under one run.Group, so Ctrl-C or either
// goroutine's fatal error tears both down cleanly.
func watchScript(c *cobra.Command, args []string) error {
	path := args[0]

	if !c.Flags().Changed("metrics-addr") && cfg.MetricsAddr != "" {
		watchMetricsAddr = cfg.MetricsAddr
	}

	var recorder lox.MetricsRecorder
	var rec *metrics.Recorder
	if watchMetricsAddr != "" {
		rec = metrics.NewRecorder()
		recorder = rec
	}
	engine := lox.New(os.Stdout, recorder)

	// watch runs indefinitely, so it always logs through logr rather than
	// go-dws's one-shot stderr prints (see run.go's --trace).
	log := logr.FromSlogHandler(slog.NewTextHandler(os.Stderr, nil))

	if configPath != "" {
		if err := config.WatchFile(configPath, func() {
			log.Info("config file changed, reloading", "path", configPath)
			if err := loadConfig(c, args); err != nil {
				log.Error(err, "reloading config")
			}
		}); err != nil {
			log.Error(err, "watching config file", "path", configPath)
		}
	}

	var g run.Group

	debounce := time.Duration(cfg.WatchDebounceMS) * time.Millisecond

	stop := make(chan struct{})
	g.Add(func() error {
		return watch.Run(path, debounce, func(p string) {
			content, err := os.ReadFile(p)
			if err != nil {
				log.Error(err, "cannot open file", "path", p)
				return
			}
			log.Info("running", "path", p)
			result := engine.Run(string(content))
			for _, d := range result.Diagnostics {
				fmt.Fprint(os.Stderr, formatDiagnostic(d))
			}
		}, stop)
	}, func(error) {
		close(stop)
	})

	if rec != nil {
		srv := &http.Server{Addr: watchMetricsAddr, Handler: rec.Handler()}
		g.Add(func() error {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return err
			}
			return nil
		}, func(error) {
			srv.Close()
		})
	}

	{
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		cancel := make(chan struct{})
		g.Add(func() error {
			select {
			case <-sigCh:
				return nil
			case <-cancel:
				return nil
			}
		}, func(error) {
			close(cancel)
		})
	}

	return g.Run()
}
