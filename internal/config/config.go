// Package config loads golox's CLI configuration (trace/metrics defaults,
// watch debounce) via viper, optionally watching the config file for
// changes while `golox watch` is running.
//
// Grounded on kubernetes-kube-state-metrics's internal.RunKubeStateMetricsWrapper,
// which reads a YAML file into viper with viper.SetConfigFile +
// viper.ReadInConfig and calls viper.WatchConfig/viper.OnConfigChange
// (itself backed by fsnotify) to react to edits without a restart.
package config

import (
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config holds the settings golox reads from the environment and optionally
// a config file (environment wins over file, viper's default precedence).
// Explicit command-line flags are applied on top by the cmd package.
type Config struct {
	Trace           bool   `mapstructure:"trace"`
	DumpAST         bool   `mapstructure:"dump_ast"`
	MetricsAddr     string `mapstructure:"metrics_addr"`
	WatchDebounceMS int    `mapstructure:"watch_debounce_ms"`
}

// Load reads configuration from path (if non-empty) plus the GOLOX_*
// environment namespace, falling back to built-in defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("golox")
	v.AutomaticEnv()

	v.SetDefault("trace", false)
	v.SetDefault("dump_ast", false)
	v.SetDefault("metrics_addr", "")
	v.SetDefault("watch_debounce_ms", 200)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// WatchFile re-invokes onChange every time path is modified on disk, using
// viper's fsnotify-backed file watcher. Used by `golox watch` to react to
// edits to its own config file independently of the script files fsnotify
// also watches directly (internal/watch).
func WatchFile(path string, onChange func()) error {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return err
	}
	v.OnConfigChange(func(e fsnotify.Event) {
		onChange()
	})
	v.WatchConfig()
	return nil
}
