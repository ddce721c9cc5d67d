package config

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher reports content changes of a single file. The containing directory
// is watched so editors that save by renaming over the file are picked up.
type Watcher struct {
	path     string
	debounce time.Duration
	logger   *zap.Logger
	lastHash []byte
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithWatchDebounce sets how long the file must stay quiet before a change is
// reported.
func WithWatchDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithWatchLogger sets the watcher logger.
func WithWatchLogger(logger *zap.Logger) WatcherOption {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// NewWatcher returns a watcher for path.
func NewWatcher(path string, opts ...WatcherOption) *Watcher {
	w := &Watcher{
		path:     filepath.Clean(path),
		debounce: 200 * time.Millisecond,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run blocks until ctx is done, calling onChange after every debounced change
// of the file content. An onChange error is logged and watching continues.
func (w *Watcher) Run(ctx context.Context, onChange func() error) error {
	hash, err := w.hash()
	if err != nil {
		return fmt.Errorf("config watcher: initial hash: %w", err)
	}
	w.lastHash = hash

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config watcher: create fsnotify: %w", err)
	}
	defer fsw.Close()

	dir := filepath.Dir(w.path)
	if err := fsw.Add(dir); err != nil {
		return fmt.Errorf("config watcher: watch %s: %w", dir, err)
	}
	w.logger.Debug("Watching configuration", zap.String("path", w.path), zap.Duration("debounce", w.debounce))

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				timer.Reset(w.debounce)
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("Config watcher error", zap.Error(err))

		case <-timer.C:
			w.process(onChange)
		}
	}
}

func (w *Watcher) process(onChange func() error) {
	hash, err := w.hash()
	if err != nil {
		w.logger.Error("Failed to read watched file", zap.String("path", w.path), zap.Error(err))
		return
	}
	if bytes.Equal(hash, w.lastHash) {
		w.logger.Debug("Content unchanged, skipping", zap.String("path", w.path))
		return
	}
	w.lastHash = hash

	w.logger.Info("Configuration changed", zap.String("path", w.path))
	if err := onChange(); err != nil {
		w.logger.Error("Failed to apply configuration change", zap.Error(err))
	}
}

// hash returns nil for a missing file so that creating it counts as a change.
func (w *Watcher) hash() ([]byte, error) {
	raw, err := os.ReadFile(w.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	sum := sha256.Sum256(raw)
	return sum[:], nil
}
