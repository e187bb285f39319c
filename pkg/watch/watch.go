package watch

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/Alaxouche/loadout/pkg/errors"
	"github.com/Alaxouche/loadout/pkg/logging"
)

// DefaultDebounce is the quiet period used when the config gives none.
const DefaultDebounce = 500 * time.Millisecond

// Config tunes a Watcher.
type Config struct {
	// Files are the exact paths whose changes trigger the callback. Their
	// parent directories are registered with the OS watcher, so atomic
	// replaces (write temp, then rename) are seen as well.
	Files []string

	// Debounce is the quiet period before the callback fires.
	Debounce time.Duration
}

// Watcher reacts to state-file changes with a debounced callback.
type Watcher struct {
	watcher  *fsnotify.Watcher
	logger   zerolog.Logger
	files    map[string]struct{}
	interval time.Duration
	debounce *Debouncer

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// New creates a watcher for the configured files.
func New(cfg Config) (*Watcher, error) {
	if len(cfg.Files) == 0 {
		return nil, errors.New(errors.ErrInvalidInput, "no files to watch")
	}
	interval := cfg.Debounce
	if interval <= 0 {
		interval = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrWatchSetup, "cannot create filesystem watcher")
	}

	files := make(map[string]struct{}, len(cfg.Files))
	for _, f := range cfg.Files {
		files[filepath.Clean(f)] = struct{}{}
	}

	return &Watcher{
		watcher:  fsw,
		logger:   logging.GetLogger("watch"),
		files:    files,
		interval: interval,
		debounce: NewDebouncer(interval),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Watch blocks, invoking onChange after a quiet period whenever one of the
// watched files changes. It returns when the context is cancelled or Stop
// is called. A callback error is logged, never fatal: the watch keeps
// going.
func (w *Watcher) Watch(ctx context.Context, onChange func() error) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return errors.New(errors.ErrWatchSetup, "watcher already running")
	}
	w.running = true
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		close(w.doneCh)
	}()

	dirs := make(map[string]struct{}, len(w.files))
	for f := range w.files {
		dirs[filepath.Dir(f)] = struct{}{}
	}
	for dir := range dirs {
		if err := w.watcher.Add(dir); err != nil {
			return errors.Wrapf(err, errors.ErrWatchSetup, "cannot watch %s", dir)
		}
		w.logger.Debug().Str("path", dir).Msg("Watching directory")
	}

	w.logger.Info().
		Int("files", len(w.files)).
		Dur("debounce", w.interval).
		Msg("Watch started")

	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("Watch stopped (context cancelled)")
			return nil

		case <-w.stopCh:
			w.logger.Info().Msg("Watch stopped")
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return errors.New(errors.ErrWatchSetup, "watcher event channel closed")
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug().
				Str("path", event.Name).
				Str("op", event.Op.String()).
				Msg("File event")

			w.debounce.Trigger(func() {
				w.logger.Info().Str("path", event.Name).Msg("Change settled, running callback")
				if err := onChange(); err != nil {
					w.logger.Error().Err(err).Msg("Watch callback failed")
				}
			})

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return errors.New(errors.ErrWatchSetup, "watcher error channel closed")
			}
			w.logger.Error().Err(err).Msg("Watcher error, continuing")
		}
	}
}

// Stop ends a running Watch and releases the OS watcher.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	w.debounce.Stop()

	if err := w.watcher.Close(); err != nil {
		return errors.Wrap(err, errors.ErrWatchSetup, "cannot close filesystem watcher")
	}
	return nil
}

// relevant reports whether an event is for a watched file and not a bare
// chmod.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&fsnotify.Chmod == fsnotify.Chmod {
		return false
	}
	_, ok := w.files[filepath.Clean(event.Name)]
	return ok
}
