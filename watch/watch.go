// Package watch rebuilds the binding table when project files change.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/syssam/gqlbind/binder"
)

// DefaultDebounce is the quiet period before a rebuild starts.
const DefaultDebounce = 100 * time.Millisecond

// BuildFunc produces a new table from the files on disk.
type BuildFunc func() (*binder.Table, error)

// Watcher rebuilds and republishes a table whenever a watched file is
// written or created. A failed rebuild keeps the current table.
type Watcher struct {
	holder   *binder.Holder
	build    BuildFunc
	patterns []string
	debounce time.Duration
	log      *slog.Logger

	mu       sync.Mutex
	onChange []func(*binder.Table)
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before a rebuild.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(w *Watcher) {
		w.log = l
	}
}

// New returns a watcher publishing to holder. patterns are file paths or
// glob patterns; their directories are watched so files created later,
// including atomic saves by editors, are picked up.
func New(holder *binder.Holder, build BuildFunc, patterns []string, opts ...Option) *Watcher {
	w := &Watcher{
		holder:   holder,
		build:    build,
		debounce: DefaultDebounce,
		log:      slog.New(slog.DiscardHandler),
	}
	for _, p := range patterns {
		if abs, err := filepath.Abs(p); err == nil {
			p = abs
		}
		w.patterns = append(w.patterns, filepath.Clean(p))
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// OnChange registers fn to run after every successful rebuild.
func (w *Watcher) OnChange(fn func(*binder.Table)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = append(w.onChange, fn)
}

// Reload rebuilds the table now.
func (w *Watcher) Reload() error {
	t, err := w.holder.Rebuild(w.build)
	if err != nil {
		return fmt.Errorf("reload: %w", err)
	}
	w.mu.Lock()
	callbacks := slices.Clone(w.onChange)
	w.mu.Unlock()
	for _, fn := range callbacks {
		fn(t)
	}
	return nil
}

// Run watches the files until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	for _, dir := range w.dirs() {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watch directory: %w", err)
		}
		w.log.Info("watching directory", slog.String("dir", dir))
	}

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
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !w.matches(event.Name) || event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			w.log.Debug("file changed",
				slog.String("event", event.Op.String()),
				slog.String("file", event.Name),
			)
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			if err := w.Reload(); err != nil {
				w.log.Error("file watch reload failed", slog.Any("error", err))
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Error("file watcher error", slog.Any("error", err))

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (w *Watcher) dirs() []string {
	var dirs []string
	for _, p := range w.patterns {
		if d := filepath.Dir(p); !slices.Contains(dirs, d) {
			dirs = append(dirs, d)
		}
	}
	return dirs
}

func (w *Watcher) matches(name string) bool {
	name = filepath.Clean(name)
	for _, p := range w.patterns {
		if ok, _ := filepath.Match(p, name); ok {
			return true
		}
	}
	return false
}
