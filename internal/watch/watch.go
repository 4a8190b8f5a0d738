// Package watch rebuilds the artifact whenever one of its inputs changes.
//
// Every rebuild is a full assembly. The watcher only decides when to run
// one: filesystem events are collected until the directory has been quiet
// for the debounce delay, then the rebuild callback runs once.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// RebuildFunc runs one full build. Errors are logged and the watcher keeps
// going.
type RebuildFunc func(ctx context.Context) error

// Options configures a Watcher.
type Options struct {
	// Dirs are watched non-recursively. Missing dirs are skipped.
	Dirs []string

	// Recursive dirs are watched together with all their subdirectories,
	// including ones created later.
	Recursive []string

	// Debounce is the quiet period before a rebuild.
	Debounce time.Duration

	// Ignore reports paths whose events never trigger a rebuild, such as
	// the artifact itself.
	Ignore func(path string) bool
}

// Watcher turns filesystem events into debounced rebuilds.
type Watcher struct {
	opts    Options
	rebuild RebuildFunc
	log     *zap.Logger
	fsw     *fsnotify.Watcher

	recursive map[string]bool
	trigger   chan string
}

// New creates a Watcher and registers its directories.
func New(opts Options, rebuild RebuildFunc, log *zap.Logger) (*Watcher, error) {
	if rebuild == nil {
		return nil, errors.New("watch: rebuild func is required")
	}
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Debounce <= 0 {
		opts.Debounce = 300 * time.Millisecond
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fs watcher: %w", err)
	}

	w := &Watcher{
		opts:      opts,
		rebuild:   rebuild,
		log:       log,
		fsw:       fsw,
		recursive: make(map[string]bool),
		trigger:   make(chan string, 1),
	}

	for _, dir := range opts.Dirs {
		w.add(dir)
	}
	for _, dir := range opts.Recursive {
		w.addTree(dir)
	}
	if len(w.fsw.WatchList()) == 0 {
		fsw.Close()
		return nil, errors.New("watch: no existing directory to watch")
	}
	return w, nil
}

// Run blocks until ctx is cancelled, rebuilding after each burst of changes.
// The fs watcher is closed when Run returns.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return w.pump(ctx) })
	g.Go(func() error { return w.loop(ctx) })

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// pump forwards relevant fsnotify events to the rebuild loop.
func (w *Watcher) pump(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("watch: event channel closed")
			}
			w.handle(event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("watch: error channel closed")
			}
			w.log.Warn("watch error", zap.Error(err))
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if event.Op == fsnotify.Chmod {
		return
	}
	if w.opts.Ignore != nil && w.opts.Ignore(event.Name) {
		return
	}

	if event.Has(fsnotify.Create) && w.underRecursive(event.Name) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			w.addTree(event.Name)
		}
	}

	w.log.Debug("change detected", zap.String("path", event.Name), zap.String("op", event.Op.String()))

	// A pending trigger already covers this change.
	select {
	case w.trigger <- event.Name:
	default:
	}
}

// loop waits for a quiet period after the last trigger, then rebuilds.
func (w *Watcher) loop(ctx context.Context) error {
	timer := time.NewTimer(w.opts.Debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-w.trigger:
			// Go 1.23 timers: Reset never delivers a stale tick.
			timer.Reset(w.opts.Debounce)

		case <-timer.C:
			start := time.Now()
			if err := w.rebuild(ctx); err != nil {
				w.log.Error("rebuild failed", zap.Error(err))
				continue
			}
			w.log.Info("rebuilt", zap.Duration("took", time.Since(start)))
		}
	}
}

func (w *Watcher) add(dir string) {
	if err := w.fsw.Add(dir); err != nil {
		w.log.Warn("cannot watch directory", zap.String("dir", dir), zap.Error(err))
		return
	}
	w.log.Debug("watching", zap.String("dir", dir))
}

func (w *Watcher) addTree(root string) {
	w.recursive[filepath.Clean(root)] = true
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			w.add(path)
		}
		return nil
	})
	if err != nil {
		w.log.Warn("cannot walk directory", zap.String("dir", root), zap.Error(err))
	}
}

func (w *Watcher) underRecursive(path string) bool {
	for dir := filepath.Dir(path); ; dir = filepath.Dir(dir) {
		if w.recursive[dir] {
			return true
		}
		if parent := filepath.Dir(dir); parent == dir {
			return false
		}
	}
}
