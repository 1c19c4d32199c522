package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DebounceDelay groups bursts of file events into one re-run.
var DebounceDelay = 200 * time.Millisecond

// Watch runs fn, then runs it again whenever input or any file in its
// reference graph changes, until ctx is done. A failing run is reported
// and the watcher keeps waiting for the next change.
func Watch(ctx context.Context, s *Stack, input string, out io.Writer, fn func(context.Context) error) error {
	fw, err := newFileWatcher(s.Logger, DebounceDelay)
	if err != nil {
		return err
	}
	defer fw.Close()

	s.Logger.Info("Starting Watcher", "input", input)
	for {
		if err := fn(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			s.Logger.Error("Conversion failed", "err", err)
			printSystemMessage(out, "Conversion failed: %v", err)
		}

		if err := fw.sync(watchedFiles(ctx, s, input)); err != nil {
			s.Logger.Warn("Some files cannot be watched", "err", err)
		}
		printSystemMessage(out, "Waiting for changes...")

		changed, ok := fw.wait(ctx)
		if !ok {
			s.Logger.Info("Stopping watcher")
			return nil
		}
		s.Logger.Info("Change detected, converting again", "file", changed)
		printSystemMessage(out, "Change detected in '%s'.", filepath.Base(changed))
	}
}

// watchedFiles is the input plus every existing file it links to.
func watchedFiles(ctx context.Context, s *Stack, input string) []string {
	root, err := s.Flattener.Graph(ctx, input)
	if err != nil || root == nil {
		abs, absErr := filepath.Abs(input)
		if absErr != nil {
			return nil
		}
		return []string{abs}
	}
	return root.Files()
}

// fileWatcher watches the directories of a set of files and reports
// debounced changes to the files themselves. Directories are watched
// rather than files so editors that replace files on save keep working.
type fileWatcher struct {
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
	debounce time.Duration
	dirs     map[string]bool
	files    map[string]bool
}

func newFileWatcher(logger *slog.Logger, debounce time.Duration) (*fileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to start watcher: %w", err)
	}
	return &fileWatcher{
		watcher:  w,
		logger:   logger,
		debounce: debounce,
		dirs:     map[string]bool{},
		files:    map[string]bool{},
	}, nil
}

func (w *fileWatcher) Close() error {
	return w.watcher.Close()
}

// sync replaces the watched set.
func (w *fileWatcher) sync(files []string) error {
	w.files = make(map[string]bool, len(files))
	want := map[string]bool{}
	for _, f := range files {
		f = filepath.Clean(f)
		w.files[f] = true
		want[filepath.Dir(f)] = true
	}

	var firstErr error
	for dir := range w.dirs {
		if !want[dir] {
			_ = w.watcher.Remove(dir)
			delete(w.dirs, dir)
		}
	}
	for dir := range want {
		if w.dirs[dir] {
			continue
		}
		if err := w.watcher.Add(dir); err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("watch %s: %w", dir, err)
			}
			continue
		}
		w.dirs[dir] = true
	}
	return firstErr
}

// wait blocks until a watched file changes and no further event arrives
// for the debounce delay. It returns false when ctx is done.
func (w *fileWatcher) wait(ctx context.Context) (string, bool) {
	var (
		timer   *time.Timer
		fire    <-chan time.Time
		changed string
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return "", false
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return "", false
			}
			if ev.Op == fsnotify.Chmod || !w.files[filepath.Clean(ev.Name)] {
				continue
			}
			changed = ev.Name
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				fire = timer.C
			} else {
				timer.Reset(w.debounce)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return "", false
			}
			w.logger.Warn("Watcher error", "err", err)
		case <-fire:
			return changed, true
		}
	}
}
