// Package watch reports scripts that change under a source directory.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/phobologic/ahkguide/internal/discover"
)

// DefaultDebounce is how long a path must stay quiet before it is reported.
const DefaultDebounce = 150 * time.Millisecond

// Options controls which files are reported.
type Options struct {
	Pattern   string
	Recursive bool
	Debounce  time.Duration
}

// Watcher calls a handler for every script written or created under root.
type Watcher struct {
	root     string
	opts     Options
	logger   *slog.Logger
	onChange func(path string)
}

// New returns a Watcher. onChange is called from Run's goroutine with the
// path of each changed script; bursts of events for one path are coalesced.
func New(root string, opts Options, logger *slog.Logger, onChange func(path string)) *Watcher {
	if opts.Pattern == "" {
		opts.Pattern = discover.DefaultPattern
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Watcher{root: root, opts: opts, logger: logger, onChange: onChange}
}

// Run watches until ctx is cancelled. Cancellation is not an error.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fw.Close()

	if err := w.addWatches(fw, w.root); err != nil {
		return fmt.Errorf("watching %s: %w", w.root, err)
	}
	w.logger.Debug("watching", "root", w.root, "pattern", w.opts.Pattern)

	pending := make(map[string]struct{})
	timer := time.NewTimer(w.opts.Debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if path, ok := w.handle(fw, ev); ok {
				pending[path] = struct{}{}
				timer.Reset(w.opts.Debounce)
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "err", err)

		case <-timer.C:
			w.flush(pending)
		}
	}
}

// handle reacts to one event and reports whether it names a script to process.
func (w *Watcher) handle(fw *fsnotify.Watcher, ev fsnotify.Event) (string, bool) {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
		return "", false
	}
	if strings.HasPrefix(filepath.Base(ev.Name), ".") {
		return "", false
	}

	info, err := os.Stat(ev.Name)
	if err != nil {
		return "", false
	}
	if info.IsDir() {
		if ev.Has(fsnotify.Create) && w.opts.Recursive {
			if err := w.addWatches(fw, ev.Name); err != nil {
				w.logger.Warn("watch failed", "path", ev.Name, "err", err)
			}
		}
		return "", false
	}

	rel, err := filepath.Rel(w.root, ev.Name)
	if err != nil {
		return "", false
	}
	if !discover.Matches(w.opts.Pattern, rel, w.opts.Recursive) {
		return "", false
	}
	return ev.Name, true
}

func (w *Watcher) flush(pending map[string]struct{}) {
	paths := make([]string, 0, len(pending))
	for p := range pending {
		paths = append(paths, p)
		delete(pending, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		w.onChange(p)
	}
}

// addWatches watches dir and, when recursive, every non-hidden directory
// below it.
func (w *Watcher) addWatches(fw *fsnotify.Watcher, dir string) error {
	if !w.opts.Recursive {
		return fw.Add(dir)
	}
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			return nil // skip errors
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := fw.Add(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		return nil
	})
}
