package watch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/upsti/upstilatex/internal/checksum"
	"github.com/upsti/upstilatex/pkg/upstilatex"
)

// eventChannelBuffer is the size of the watch event channel.
const eventChannelBuffer = 256

// DefaultDebounce is how long the watcher waits for more filesystem events
// before flushing accumulated changes.
const DefaultDebounce = 500 * time.Millisecond

// Operation indicates the type of document change.
type Operation string

const (
	OpCreate Operation = "create"
	OpModify Operation = "modify"
	OpDelete Operation = "delete"
)

// Event represents one debounced document change.
type Event struct {
	// Path is the absolute path to the document.
	Path string

	// Operation is the type of change.
	Operation Operation
}

// Options configures a Watcher.
type Options struct {
	// Roots are the directories to watch recursively.
	Roots []string

	// Excludes are doublestar glob patterns matched against the
	// slash-separated path relative to each root, same as the scanner.
	Excludes []string

	// Debounce overrides DefaultDebounce when positive.
	Debounce time.Duration
}

// Watcher watches scan roots for document changes and emits debounced,
// checksum-confirmed events.
type Watcher struct {
	opts       Options
	watcher    *fsnotify.Watcher
	calculator checksum.Calculator
	logger     upstilatex.Logger

	// Debouncing: collect changes before processing
	pendingMu sync.Mutex
	pending   map[string]fsnotify.Op

	// Normalized-checksum change detection
	sumMu sync.RWMutex
	sums  map[string]string

	events chan Event

	droppedEvents atomic.Int64
}

// New creates a Watcher over the given roots.
func New(opts Options, calculator checksum.Calculator, logger upstilatex.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}

	return &Watcher{
		opts:       opts,
		watcher:    fsw,
		calculator: calculator,
		logger:     logger,
		pending:    make(map[string]fsnotify.Op),
		sums:       make(map[string]string),
		events:     make(chan Event, eventChannelBuffer),
	}, nil
}

// Events returns the channel of debounced document changes. It is closed
// when the watcher stops.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Start registers watches on every root and begins processing events. It
// returns immediately; events arrive on the Events channel until ctx is
// cancelled or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	for _, root := range w.opts.Roots {
		if err := w.addWatchesRecursive(root); err != nil {
			return err
		}
	}

	go w.processEvents(ctx)

	w.logger.Verbose("watching %d root(s), debounce %s", len(w.opts.Roots), w.opts.Debounce)
	return nil
}

// Stop stops the watcher. The events channel is closed by the processing
// goroutine when it exits.
func (w *Watcher) Stop() error {
	return w.watcher.Close()
}

// Prime records the normalized checksum for a document, so the first watch
// event only fires on a real content change. Used after the initial scan.
func (w *Watcher) Prime(path, sum string) {
	w.sumMu.Lock()
	defer w.sumMu.Unlock()
	w.sums[path] = sum
}

// DroppedEvents returns the number of events dropped due to channel overflow.
func (w *Watcher) DroppedEvents() int64 {
	return w.droppedEvents.Load()
}

func (w *Watcher) addWatchesRecursive(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}

		base := filepath.Base(path)
		if strings.HasPrefix(base, ".") && base != "." {
			return filepath.SkipDir
		}
		if w.excludedDir(root, path) {
			return filepath.SkipDir
		}

		if err := w.watcher.Add(path); err != nil {
			w.logger.Error("cannot watch %s: %v", path, err)
		}
		return nil
	})
}

func (w *Watcher) processEvents(ctx context.Context) {
	defer close(w.events)
	ticker := time.NewTicker(w.opts.Debounce)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleFSEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("watch error: %v", err)

		case <-ticker.C:
			w.flushPending(ctx)
		}
	}
}

func (w *Watcher) handleFSEvent(event fsnotify.Event) {
	path := event.Name

	if !hasDocumentExtension(path) {
		// Newly created directories need their own watch.
		if event.Has(fsnotify.Create) {
			if info, err := os.Stat(path); err == nil && info.IsDir() {
				w.handleNewDirectory(path)
			}
		}
		return
	}
	if w.excludedFile(path) {
		return
	}

	w.pendingMu.Lock()
	w.pending[path] = w.pending[path] | event.Op
	w.pendingMu.Unlock()
}

func (w *Watcher) handleNewDirectory(path string) {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return
	}
	if err := w.watcher.Add(path); err != nil {
		w.logger.Error("cannot watch %s: %v", path, err)
	}
}

// flushPending turns accumulated raw events into confirmed document events.
func (w *Watcher) flushPending(ctx context.Context) {
	w.pendingMu.Lock()
	if len(w.pending) == 0 {
		w.pendingMu.Unlock()
		return
	}
	toProcess := w.pending
	w.pending = make(map[string]fsnotify.Op)
	w.pendingMu.Unlock()

	for path, op := range toProcess {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if op.Has(fsnotify.Remove) || op.Has(fsnotify.Rename) {
			w.forget(path)
			w.sendEvent(Event{Path: path, Operation: OpDelete})
			continue
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			w.forget(path)
			w.sendEvent(Event{Path: path, Operation: OpDelete})
			continue
		}

		content, err := os.ReadFile(path)
		if err != nil {
			w.logger.Error("cannot read %s: %v", path, err)
			continue
		}

		newSum := w.calculator.CalculateNormalized(content)

		w.sumMu.RLock()
		oldSum, known := w.sums[path]
		w.sumMu.RUnlock()
		if known && oldSum == newSum {
			continue
		}

		w.sumMu.Lock()
		w.sums[path] = newSum
		w.sumMu.Unlock()

		operation := OpModify
		if op.Has(fsnotify.Create) || !known {
			operation = OpCreate
		}
		w.sendEvent(Event{Path: path, Operation: operation})
	}
}

func (w *Watcher) forget(path string) {
	w.sumMu.Lock()
	defer w.sumMu.Unlock()
	delete(w.sums, path)
}

func (w *Watcher) sendEvent(event Event) {
	select {
	case w.events <- event:
	default:
		dropped := w.droppedEvents.Add(1)
		w.logger.Error("event channel full, dropping %s (%d total)", event.Path, dropped)
	}
}

func (w *Watcher) excludedDir(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, pattern := range w.opts.Excludes {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

func (w *Watcher) excludedFile(path string) bool {
	for _, root := range w.opts.Roots {
		rel, err := filepath.Rel(root, path)
		if err != nil || strings.HasPrefix(rel, "..") {
			continue
		}
		rel = filepath.ToSlash(rel)
		for _, pattern := range w.opts.Excludes {
			if ok, _ := doublestar.Match(pattern, rel); ok {
				return true
			}
		}
	}
	return false
}

func hasDocumentExtension(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case upstilatex.ExtensionTex, upstilatex.ExtensionLtx:
		return true
	}
	return false
}
