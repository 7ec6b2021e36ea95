package watcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/gitrgoliveira/md-preview/internal/logger"
)

// ErrWatcherClosed is returned by Run when the underlying subscription closes
// its channels without being cancelled.
var ErrWatcherClosed = errors.New("file watcher closed unexpectedly")

// Setter is the write side of a change signal
type Setter interface {
	Set()
}

// Config holds watcher configuration
type Config struct {
	// Target is the file whose changes are reported
	Target string
}

// Watcher reports create and write activity on a single file. It subscribes
// to the file's parent directory rather than the file itself, so a save that
// replaces the file through a rename is still seen.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	signal    Setter
	logger    logger.Logger

	baseName string
	dir      string

	changes atomic.Uint64
}

// ResolveWatchDir returns the directory to subscribe to for target. A target
// without a parent segment resolves to the current working directory.
func ResolveWatchDir(target string) (string, error) {
	dir := filepath.Dir(target)
	if dir == "" || dir == "." {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to resolve working directory: %w", err)
		}
		return wd, nil
	}
	return dir, nil
}

// NewWatcher creates the subscription and registers the target's parent
// directory. Either failure leaves nothing running and must be treated as
// fatal by the caller.
func NewWatcher(cfg *Config, sig Setter, log logger.Logger) (*Watcher, error) {
	if cfg == nil || cfg.Target == "" {
		return nil, fmt.Errorf("watch target cannot be empty")
	}
	if sig == nil {
		return nil, fmt.Errorf("change signal cannot be nil")
	}

	dir, err := ResolveWatchDir(cfg.Target)
	if err != nil {
		return nil, err
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fs watcher: %w", err)
	}

	if err := fsWatcher.Add(dir); err != nil {
		_ = fsWatcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	log.Info("Watching directory", "dir", dir, "file", filepath.Base(cfg.Target))

	return &Watcher{
		fsWatcher: fsWatcher,
		signal:    sig,
		logger:    log,
		baseName:  filepath.Base(cfg.Target),
		dir:       dir,
	}, nil
}

// Dir returns the directory being watched
func (w *Watcher) Dir() string {
	return w.dir
}

// Changes returns how many events matched the target so far
func (w *Watcher) Changes() uint64 {
	return w.changes.Load()
}

// Run blocks delivering events until ctx is cancelled or the subscription
// fails. An error from the subscription is returned as is: there is no retry,
// since a watcher that lost its subscription cannot report changes anymore.
func (w *Watcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return w.fsWatcher.Close()

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return ErrWatcherClosed
			}
			w.handleEvent(classify(event))

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return ErrWatcherClosed
			}
			return fmt.Errorf("failed to read events for %s: %w", w.dir, err)
		}
	}
}

// handleEvent sets the signal when ev is a create or write of the target
func (w *Watcher) handleEvent(ev Event) {
	switch ev.Kind {
	case KindCreated:
		w.logger.Debug("File created", "name", ev.Name)
	case KindModified:
		w.logger.Debug("File modified", "name", ev.Name)
	default:
		return
	}

	if ev.Name != w.baseName {
		return
	}

	w.changes.Add(1)
	w.signal.Set()
}

// Close stops the subscription
func (w *Watcher) Close() error {
	return w.fsWatcher.Close()
}
