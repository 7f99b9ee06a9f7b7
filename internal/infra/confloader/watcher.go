package confloader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces the burst of events a single save produces.
const DefaultDebounce = 100 * time.Millisecond

// ErrWatcherClosed is returned by Run after Close.
var ErrWatcherClosed = errors.New("confloader: watcher closed")

// Watcher calls a reload function when one configuration file changes.
//
// The parent directory is watched rather than the file so that editors which
// save through rename-and-replace keep triggering reloads.
type Watcher struct {
	fsw      *fsnotify.Watcher
	path     string
	onChange func()
	debounce time.Duration
	logger   *slog.Logger

	closeOnce sync.Once
	closed    chan struct{}
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithWatcherLogger sets the logger for the watcher.
func WithWatcherLogger(logger *slog.Logger) WatcherOption {
	return func(w *Watcher) {
		w.logger = logger
	}
}

// WithDebounce sets the quiet period after the last event before onChange
// fires. Zero fires on every event.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// NewWatcher starts watching path. onChange runs on the Run goroutine.
func NewWatcher(path string, onChange func(), opts ...WatcherOption) (*Watcher, error) {
	if onChange == nil {
		return nil, errors.New("confloader: nil onChange")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("confloader: resolve %s: %w", path, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("confloader: create watcher: %w", err)
	}

	w := &Watcher{
		fsw:      fsw,
		path:     abs,
		onChange: onChange,
		debounce: DefaultDebounce,
		logger:   slog.Default(),
		closed:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	dir := filepath.Dir(abs)
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("confloader: watch %s: %w", dir, err)
	}

	w.logger.Debug("watching config file", "dir", dir, "file", filepath.Base(abs))
	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Run delivers change notifications until ctx is done or Close is called.
func (w *Watcher) Run(ctx context.Context) error {
	w.logger.Info("config watcher started", "file", w.path)
	defer w.logger.Info("config watcher stopped")

	var (
		timer   *time.Timer
		timerC  <-chan time.Time
		pending bool
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

		case <-w.closed:
			return ErrWatcherClosed

		case event, ok := <-w.fsw.Events:
			if !ok {
				return ErrWatcherClosed
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("config file event", "op", event.Op.String())

			if w.debounce <= 0 {
				w.onChange()
				continue
			}
			pending = true
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}

		case <-timerC:
			if pending {
				pending = false
				w.onChange()
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return ErrWatcherClosed
			}
			w.logger.Warn("config watcher error", "error", err)
		}
	}
}

// Close stops the watcher. It is safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.closed)
		err = w.fsw.Close()
	})
	return err
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}
	abs, err := filepath.Abs(event.Name)
	return err == nil && abs == w.path
}
