// Package watch reports debounced changes to deck and config files.
package watch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDelay batches the burst of events an editor save produces.
const DefaultDelay = 250 * time.Millisecond

// ErrNoFiles is returned when there is nothing to watch.
var ErrNoFiles = errors.New("no files to watch")

// Option configures a Watcher.
type Option func(*Watcher)

// WithDelay sets the quiet period before changes are reported.
func WithDelay(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.delay = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.log = l
		}
	}
}

// Watcher watches individual files. Their parent directories are watched so
// that editors which save by rename-and-replace are still seen.
type Watcher struct {
	fs    *fsnotify.Watcher
	files map[string]bool
	delay time.Duration
	log   *zap.Logger
}

// New watches paths. Empty paths are skipped.
func New(paths []string, opts ...Option) (*Watcher, error) {
	w := &Watcher{files: make(map[string]bool), delay: DefaultDelay, log: zap.NewNop()}
	for _, opt := range opts {
		opt(w)
	}
	w.log = w.log.Named("watch")

	dirs := make(map[string]bool)
	for _, p := range paths {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolve %q: %w", p, err)
		}
		w.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	if len(w.files) == 0 {
		return nil, ErrNoFiles
	}

	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	for dir := range dirs {
		if err := fs.Add(dir); err != nil {
			_ = fs.Close()
			return nil, fmt.Errorf("watch %q: %w", dir, err)
		}
	}
	w.fs = fs
	return w, nil
}

// Files returns the watched files, sorted.
func (w *Watcher) Files() []string {
	out := make([]string, 0, len(w.files))
	for f := range w.files {
		out = append(out, f)
	}
	slices.Sort(out)
	return out
}

// Close releases a watcher that will not be run.
func (w *Watcher) Close() error {
	return w.fs.Close()
}

// Run calls onChange with the sorted set of changed files once no event has
// arrived for the configured delay. It returns when ctx is done and always
// closes the underlying watcher.
func (w *Watcher) Run(ctx context.Context, onChange func(changed []string)) error {
	defer func() { _ = w.fs.Close() }()

	pending := make(map[string]bool)
	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			w.log.Debug("file event", zap.String("path", ev.Name), zap.String("op", ev.Op.String()))
			pending[filepath.Clean(ev.Name)] = true
			timer.Reset(w.delay)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error", zap.Error(err))

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			changed := make([]string, 0, len(pending))
			for f := range pending {
				changed = append(changed, f)
			}
			clear(pending)
			slices.Sort(changed)
			onChange(changed)
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !w.files[filepath.Clean(ev.Name)] {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename)
}
