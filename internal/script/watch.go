package script

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long Watch waits after the last change before
// rerunning the script.
const DefaultDebounce = 100 * time.Millisecond

// RunFunc receives the outcome of each run.
type RunFunc func(report *Report, err error)

// WatchOption configures Watch.
type WatchOption func(*watchConfig)

type watchConfig struct {
	debounce time.Duration
}

// WithDebounce sets the delay between the last change and the rerun.
func WithDebounce(d time.Duration) WatchOption {
	return func(c *watchConfig) {
		c.debounce = d
	}
}

// Watch runs the script at path, then reruns it whenever the file
// changes, until ctx is done. Rapid changes are coalesced. The file's
// directory is watched so that editors which replace the file on save
// are followed.
func (r *Runner) Watch(ctx context.Context, path string, onRun RunFunc, opts ...WatchOption) error {
	cfg := watchConfig{debounce: DefaultDebounce}
	for _, opt := range opts {
		opt(&cfg)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	run := func() {
		s, err := ParseFile(abs)
		if err != nil {
			onRun(nil, err)
			return
		}
		onRun(r.Run(ctx, s))
	}
	run()

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || !(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(cfg.debounce)
			} else {
				timer.Reset(cfg.debounce)
			}
			fire = timer.C

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			r.logger.Warn("script watcher error", "path", abs, "error", err)

		case <-fire:
			fire = nil
			r.logger.Debug("script changed", "path", abs)
			run()
		}
	}
}
