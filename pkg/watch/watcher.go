// Package watch keeps kit files in sync with the raw captures in a directory
// tree. Every time a raw file is written, its kit sibling is rebuilt. When
// the raw file is removed, the kit sibling is removed too.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/gnana997/brandkit/pkg/kit"
	"github.com/gnana997/brandkit/pkg/rawfile"
)

// DefaultDebounce groups bursts of writes to the same file.
const DefaultDebounce = 200 * time.Millisecond

// Options tunes a Watcher.
type Options struct {
	Debounce time.Duration
	Discover rawfile.DiscoverConfig

	// InitialBuild rebuilds every matching file once when Start is called.
	InitialBuild bool
	Workers      int

	// OnBuild, if set, is called after every build attempt.
	OnBuild func(rawfile.BuildResult)
}

// DefaultOptions returns the standard watcher options.
func DefaultOptions() Options {
	return Options{
		Debounce: DefaultDebounce,
		Discover: rawfile.DefaultDiscoverConfig(),
	}
}

// Stats contains watcher statistics.
type Stats struct {
	Pending   int
	Built     int64
	Failed    int64
	Removed   int64
	IsRunning bool
}

// Watcher watches a directory tree for raw extraction files.
type Watcher struct {
	watcher   *fsnotify.Watcher
	assembler *kit.Assembler
	logger    *slog.Logger
	options   Options
	root      string

	timers  map[string]*time.Timer
	timerMu sync.Mutex

	statsMu sync.Mutex
	built   int64
	failed  int64
	removed int64

	stopChan chan struct{}
	done     chan struct{}
	started  bool
	looping  bool
	stopped  bool
	mu       sync.Mutex
}

// New creates a Watcher that assembles kits with a.
func New(a *kit.Assembler, options Options, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if options.Debounce <= 0 {
		options.Debounce = DefaultDebounce
	}
	if len(options.Discover.Include) == 0 && len(options.Discover.Exclude) == 0 {
		options.Discover = rawfile.DefaultDiscoverConfig()
	}
	if err := options.Discover.Validate(); err != nil {
		return nil, err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	return &Watcher{
		watcher:   fw,
		assembler: a,
		logger:    logger,
		options:   options,
		timers:    make(map[string]*time.Timer),
		stopChan:  make(chan struct{}),
		done:      make(chan struct{}),
	}, nil
}

// Start begins watching root and returns once every directory below it is
// registered. Events are processed in a background goroutine.
func (w *Watcher) Start(root string) error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return errors.New("watcher already stopped")
	}
	if w.started {
		w.mu.Unlock()
		return errors.New("watcher already started")
	}
	w.started = true
	w.mu.Unlock()

	abs, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", root, err)
	}
	st, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", root, err)
	}
	if !st.IsDir() {
		return fmt.Errorf("failed to watch %s: not a directory", root)
	}
	w.root = abs

	if err := w.addTree(abs); err != nil {
		return err
	}

	if w.options.InitialBuild {
		files, err := rawfile.Discover(abs, w.options.Discover)
		if err != nil {
			return fmt.Errorf("initial build: %w", err)
		}
		b := rawfile.NewBuilder(w.assembler, w.options.Workers, w.logger)
		for _, res := range b.BuildAll(context.Background(), files) {
			w.report(res)
		}
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return errors.New("watcher stopped during start")
	}
	w.looping = true
	go w.eventLoop()

	w.logger.Info("watching for raw captures", "root", abs)
	return nil
}

// Stop stops the watcher and cancels pending rebuilds. Safe to call more
// than once.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return nil
	}
	w.stopped = true
	looping := w.looping
	close(w.stopChan)
	w.mu.Unlock()

	w.timerMu.Lock()
	for _, t := range w.timers {
		t.Stop()
	}
	w.timers = make(map[string]*time.Timer)
	w.timerMu.Unlock()

	err := w.watcher.Close()
	if looping {
		<-w.done
	}
	w.logger.Info("watcher stopped")
	return err
}

// Run starts the watcher and blocks until ctx is done.
func (w *Watcher) Run(ctx context.Context, root string) error {
	if err := w.Start(root); err != nil {
		return err
	}
	<-ctx.Done()
	return w.Stop()
}

// Stats returns a snapshot of watcher statistics.
func (w *Watcher) Stats() Stats {
	w.timerMu.Lock()
	pending := len(w.timers)
	w.timerMu.Unlock()

	w.mu.Lock()
	running := w.looping && !w.stopped
	w.mu.Unlock()

	w.statsMu.Lock()
	defer w.statsMu.Unlock()
	return Stats{
		Pending:   pending,
		Built:     w.built,
		Failed:    w.failed,
		Removed:   w.removed,
		IsRunning: running,
	}
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if path != root && w.options.Discover.Excluded(w.rel(path)) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			if path == root {
				return fmt.Errorf("failed to watch %s: %w", path, err)
			}
			w.logger.Warn("failed to watch directory", "path", path, "error", err)
		}
		return nil
	})
}

func (w *Watcher) eventLoop() {
	defer close(w.done)
	for {
		select {
		case <-w.stopChan:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("file watcher error", "error", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	path := event.Name
	rel := w.rel(path)

	if event.Has(fsnotify.Create) {
		if st, err := os.Stat(path); err == nil && st.IsDir() {
			if !w.options.Discover.Excluded(rel) {
				if err := w.addTree(path); err != nil {
					w.logger.Warn("failed to watch new directory", "path", path, "error", err)
				}
				w.scheduleExisting(path)
			}
			return
		}
	}

	if !w.options.Discover.Match(rel) {
		return
	}

	w.logger.Debug("file event", "op", event.Op.String(), "file", path)

	switch {
	case event.Has(fsnotify.Write), event.Has(fsnotify.Create):
		w.schedule(path)
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		w.remove(path)
	}
}

// scheduleExisting queues raw files that landed in a directory before its
// watch was registered.
func (w *Watcher) scheduleExisting(dir string) {
	files, err := rawfile.Discover(dir, w.options.Discover)
	if err != nil {
		return
	}
	for _, f := range files {
		if w.options.Discover.Match(w.rel(f)) {
			w.schedule(f)
		}
	}
}

// schedule rebuilds path once no event for it arrived for the debounce
// window.
func (w *Watcher) schedule(path string) {
	w.timerMu.Lock()
	defer w.timerMu.Unlock()

	if t, ok := w.timers[path]; ok {
		t.Stop()
	}

	var t *time.Timer
	t = time.AfterFunc(w.options.Debounce, func() {
		w.timerMu.Lock()
		if w.timers[path] != t {
			w.timerMu.Unlock()
			return
		}
		w.timerMu.Unlock()

		w.report(rawfile.Build(path, w.assembler))

		w.timerMu.Lock()
		if w.timers[path] == t {
			delete(w.timers, path)
		}
		w.timerMu.Unlock()
	})
	w.timers[path] = t
}

func (w *Watcher) remove(path string) {
	w.timerMu.Lock()
	if t, ok := w.timers[path]; ok {
		t.Stop()
		delete(w.timers, path)
	}
	w.timerMu.Unlock()

	out := rawfile.KitPath(path)
	if err := os.Remove(out); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			w.logger.Warn("failed to remove kit", "file", out, "error", err)
		}
		return
	}

	w.statsMu.Lock()
	w.removed++
	w.statsMu.Unlock()
	w.logger.Info("kit removed", "source", path, "file", out)
}

func (w *Watcher) report(res rawfile.BuildResult) {
	w.statsMu.Lock()
	if res.Err != nil {
		w.failed++
	} else {
		w.built++
	}
	w.statsMu.Unlock()

	if res.Err != nil {
		w.logger.Warn("kit build failed", "source", res.Source, "error", res.Err)
	} else {
		w.logger.Info("kit written", "source", res.Source, "file", res.Output, "dark_mode", res.DarkModeDetected)
	}

	if w.options.OnBuild != nil {
		w.options.OnBuild(res)
	}
}

func (w *Watcher) rel(path string) string {
	if w.root == "" {
		return filepath.ToSlash(path)
	}
	r, err := filepath.Rel(w.root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(r)
}
