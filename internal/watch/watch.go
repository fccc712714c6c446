// Package watch implements golox's `watch` mode: re-run a script every time
// it changes on disk. The containing directory is watched, but events for
// other files in it are ignored.
//
// Grounded on kubernetes-kube-state-metrics's use of fsnotify for config
// hot-reload (internal/wrapper.go's viper.WatchConfig/OnConfigChange is the
// same idea one layer up the stack); golox watches the script file directly
// since it has no separate config-reload concept for source files.
package watch

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Run blocks, calling onChange(path) once immediately and again every time
// path is written to, until cancellation arrives via stop. debounce
// collapses bursts of editor-save events (write + chmod, a temp-file
// rename-over, etc.) into a single callback: a burst of events resets a
// timer instead of firing immediately, and onChange only runs once the
// timer elapses with no further event (config.Config.WatchDebounceMS is the
// CLI-configurable default, spec.md's driver loop has no analogous knob
// since it never re-runs a script on its own).
func Run(path string, debounce time.Duration, onChange func(path string), stop <-chan struct{}) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return err
	}

	onChange(path)

	var timer *time.Timer
	var fire <-chan time.Time
	resetTimer := func() {
		if timer == nil {
			timer = time.NewTimer(debounce)
		} else {
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(debounce)
		}
		fire = timer.C
	}

	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != filepath.Clean(path) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if debounce <= 0 {
				onChange(path)
				continue
			}
			resetTimer()
		case <-fire:
			onChange(path)
		case <-watcher.Errors:
			// Non-fatal: fsnotify surfaces transient errors (e.g. an
			// editor's atomic-rename save briefly removing the watched
			// path); keep watching.
		case <-stop:
			return nil
		}
	}
}
