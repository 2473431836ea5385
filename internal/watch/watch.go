// Package watch reloads a subtitle file whenever it changes on disk.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/mgpai22/substyle/internal/logging"
	"github.com/mgpai22/substyle/internal/subtitle"
)

const DefaultDebounce = 200 * time.Millisecond

// ReloadFunc receives the freshly parsed cues
type ReloadFunc func(cues []subtitle.Cue)

type Watcher struct {
	path     string
	onReload ReloadFunc
	debounce time.Duration
	logger   *logging.Logger
	watcher  *fsnotify.Watcher
}

type Option func(*Watcher)

func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

func WithLogger(l *logging.Logger) Option {
	return func(w *Watcher) {
		w.logger = logging.OrNop(l)
	}
}

// New watches the directory containing path so atomic replaces are seen
func New(path string, onReload ReloadFunc, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	w := &Watcher{
		path:     abs,
		onReload: onReload,
		debounce: DefaultDebounce,
		logger:   logging.Nop(),
		watcher:  fw,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Run blocks until ctx is cancelled and closes the underlying watcher
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	var pending time.Time
	check := time.NewTicker(max(w.debounce/4, time.Millisecond))
	defer check.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				pending = time.Now()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warnw("watch error", "path", w.path, "error", err)

		case <-check.C:
			if pending.IsZero() || time.Since(pending) < w.debounce {
				continue
			}
			pending = time.Time{}
			w.reload()
		}
	}
}

func (w *Watcher) reload() {
	src, err := subtitle.Open(w.path)
	if err != nil {
		w.logger.Warnw("reload failed", "path", w.path, "error", err)
		return
	}
	w.logger.Infow("subtitles reloaded", "path", w.path, "cues", len(src.Cues), "skipped", len(src.Skipped))
	w.onReload(src.Cues)
}
